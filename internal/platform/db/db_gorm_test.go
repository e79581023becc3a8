package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"
)

// TestBuildDSN_TCP はTCP接続用のDSN文字列が正しく生成されることを検証します。
func TestBuildDSN_TCP(t *testing.T) {
	t.Parallel()

	cfg := Config{
		User:     "testuser",
		Password: "testpass",
		Name:     "testdb",
		Host:     "localhost",
		Port:     "5432",
	}

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable TimeZone=UTC"
	if dsn := BuildDSN(cfg); dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

// TestBuildDSN_CloudSQLTakesPrecedence はInstanceNameが設定されている場合にHost/Portより優先されることを検証します。
func TestBuildDSN_CloudSQLTakesPrecedence(t *testing.T) {
	t.Parallel()

	cfg := Config{
		User:         "testuser",
		Password:     "testpass",
		Name:         "testdb",
		Host:         "localhost",
		Port:         "5432",
		InstanceName: "project:region:instance",
	}

	expected := "host=/cloudsql/project:region:instance user=testuser password=testpass dbname=testdb sslmode=disable TimeZone=UTC"
	if dsn := BuildDSN(cfg); dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

// TestConnectWithRetry_SuccessOnFirstTry は初回接続成功時にリトライせずDBを返すことを検証します。
func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	attempts := 0
	db, err := ConnectWithRetry("test-dsn", 5*time.Second, func(dsn string) (*gorm.DB, error) {
		attempts++
		return mockDB, nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

// TestConnectWithRetry_RetriesOnFailure は接続失敗時にリトライして最終的に成功することを検証します。
func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	// リトライ間隔のため並列実行しない

	mockDB := &gorm.DB{}
	attempts := 0
	db, err := ConnectWithRetry("test-dsn", 10*time.Second, func(dsn string) (*gorm.DB, error) {
		attempts++
		if attempts < 2 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

// TestConnectWithRetry_TimeoutAfterRetries はタイムアウト後に最後のエラーをラップして返すことを検証します。
func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	t.Parallel()

	refused := errors.New("connection refused")
	_, err := ConnectWithRetry("test-dsn", 0, func(dsn string) (*gorm.DB, error) {
		return nil, refused
	})

	if !errors.Is(err, refused) {
		t.Fatalf("expected wrapped connection error, got %v", err)
	}
}

// TestLoadConfigFromEnv は環境変数からデータベース設定が正しく読み込まれることを検証します。
func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_USER", "envuser")
	t.Setenv("DB_PASSWORD", "envpass")
	t.Setenv("DB_NAME", "envdb")
	t.Setenv("DB_HOST", "envhost")
	t.Setenv("DB_PORT", "")
	t.Setenv("INSTANCE_CONNECTION_NAME", "")
	t.Setenv("SQLITE_PATH", "")
	t.Setenv("RUN_MIGRATIONS", "true")

	cfg := LoadConfigFromEnv()

	if cfg.Driver != DriverPostgres {
		t.Errorf("expected default driver postgres, got %q", cfg.Driver)
	}
	if cfg.User != "envuser" || cfg.Password != "envpass" || cfg.Name != "envdb" || cfg.Host != "envhost" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Port != "5432" {
		t.Errorf("expected default port 5432, got %q", cfg.Port)
	}
	if cfg.SQLitePath != defaultSQLitePath {
		t.Errorf("expected default sqlite path, got %q", cfg.SQLitePath)
	}
	if !cfg.RunMigrations {
		t.Error("expected RunMigrations to be true")
	}
}

// TestOpen_SQLite はSQLiteドライバで接続しテーブルが作成されることを検証します。
func TestOpen_SQLite(t *testing.T) {
	t.Parallel()

	db, err := Open(Config{Driver: DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, table := range []string{"users", "watch_entries", "alerts"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("expected table %s to exist", table)
		}
	}
}

// TestOpen_UnknownDriver は未対応のドライバでエラーになることを検証します。
func TestOpen_UnknownDriver(t *testing.T) {
	t.Parallel()

	if _, err := Open(Config{Driver: "mysql"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
