// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

// SignupReq represents the request body for the /signup endpoint.
type SignupReq struct {
	Username string `json:"username" binding:"required,alphanum,min=3,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// SignupRes is returned after a successful signup.
type SignupRes struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}
