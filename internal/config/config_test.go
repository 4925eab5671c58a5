package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"SIGNBOARD_PORT",
		"SIGNBOARD_ADMIN_SECRET",
		"SIGNBOARD_IMAGE_DIR",
		"SIGNBOARD_DEFAULT_IMAGE",
		"SIGNBOARD_MAX_UPLOAD_BYTES",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.AdminSecret != "changeme" {
		t.Errorf("AdminSecret = %q, want changeme", cfg.AdminSecret)
	}
	if cfg.ImageDir != "./static/images" {
		t.Errorf("ImageDir = %q, want ./static/images", cfg.ImageDir)
	}
	if cfg.DefaultImage != "MARSH-JOCKEY.png" {
		t.Errorf("DefaultImage = %q, want MARSH-JOCKEY.png", cfg.DefaultImage)
	}
	if cfg.MaxUploadBytes != 16<<20 {
		t.Errorf("MaxUploadBytes = %d, want %d", cfg.MaxUploadBytes, 16<<20)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("SIGNBOARD_PORT", "9000")
	t.Setenv("SIGNBOARD_ADMIN_SECRET", "hunter2")
	t.Setenv("SIGNBOARD_IMAGE_DIR", "/var/lib/signboard/images")
	t.Setenv("SIGNBOARD_DEFAULT_IMAGE", "welcome.png")
	t.Setenv("SIGNBOARD_MAX_UPLOAD_BYTES", "1024")

	cfg := Load()

	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if cfg.AdminSecret != "hunter2" {
		t.Errorf("AdminSecret = %q, want hunter2", cfg.AdminSecret)
	}
	if cfg.ImageDir != "/var/lib/signboard/images" {
		t.Errorf("ImageDir = %q, want /var/lib/signboard/images", cfg.ImageDir)
	}
	if cfg.DefaultImage != "welcome.png" {
		t.Errorf("DefaultImage = %q, want welcome.png", cfg.DefaultImage)
	}
	if cfg.MaxUploadBytes != 1024 {
		t.Errorf("MaxUploadBytes = %d, want 1024", cfg.MaxUploadBytes)
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("SIGNBOARD_PORT", "not-a-port")
	t.Setenv("SIGNBOARD_MAX_UPLOAD_BYTES", "-5")

	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want default 8080", cfg.Port)
	}
	if cfg.MaxUploadBytes != 16<<20 {
		t.Errorf("MaxUploadBytes = %d, want default %d", cfg.MaxUploadBytes, 16<<20)
	}
}
