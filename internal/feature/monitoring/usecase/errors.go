package usecase

import "errors"

var (
	// ErrRegistryRead means the active watch entries could not be loaded; the whole cycle is skipped.
	ErrRegistryRead = errors.New("failed to load active watch entries")
	// ErrAlertWrite means one crossing could not be recorded; only that crossing is dropped.
	ErrAlertWrite = errors.New("failed to record alert")
	// ErrCycleInProgress is returned when a cycle is requested while another one is running.
	ErrCycleInProgress = errors.New("monitoring cycle already in progress")
)
