package sqlite

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewSQLiteDB(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		want     string
	}{
		{
			name:     "env variable",
			envValue: "/tmp/env.db",
			want:     "/tmp/env.db",
		},
		{
			name: "default path",
			want: "./signboard.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv("SIGNBOARD_DB_PATH", tt.envValue)
				defer os.Unsetenv("SIGNBOARD_DB_PATH")
			} else {
				os.Unsetenv("SIGNBOARD_DB_PATH")
			}

			cfg := NewSQLiteConfig()

			database := NewSQLiteDB(cfg)

			if database.dbPath != tt.want {
				t.Errorf("dbPath = %v, want %v", database.dbPath, tt.want)
			}
		})
	}
}

func TestNewSQLiteDBWithExplicitPath(t *testing.T) {
	cfg := &SQLiteConfig{
		Path: "/tmp/test.db",
	}

	database := NewSQLiteDB(cfg)

	if database.dbPath != "/tmp/test.db" {
		t.Errorf("dbPath = %v, want %v", database.dbPath, "/tmp/test.db")
	}
}

func TestSQLiteDB_Connect(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfg := &SQLiteConfig{
		Path: dbPath,
	}

	database := NewSQLiteDB(cfg)

	err := database.Connect()
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer database.Close()

	if database.DB() == nil {
		t.Error("DB() returned nil after Connect()")
	}

	// Connecting twice is an error
	if err := database.Connect(); err == nil {
		t.Error("second Connect() should fail")
	}
}

func TestSQLiteDB_Close(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	database := NewSQLiteDB(&SQLiteConfig{Path: dbPath})

	if err := database.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	if err := database.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	// Closing an already-closed database is a no-op
	if err := database.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
