package config

import (
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

const (
	defaultPort           = 8080
	defaultAdminSecret    = "changeme"
	defaultImageDir       = "./static/images"
	defaultDefaultImage   = "MARSH-JOCKEY.png"
	defaultMaxUploadBytes = 16 << 20 // 16 MiB
)

// Config holds the environment-provided service settings.
type Config struct {
	Port           int
	AdminSecret    string
	ImageDir       string
	DefaultImage   string
	MaxUploadBytes int64
}

// Load reads the configuration from the environment, falling back to
// defaults for anything unset. Unparseable numeric values are logged and
// replaced by their defaults rather than failing startup.
func Load() *Config {
	cfg := &Config{
		Port:           defaultPort,
		AdminSecret:    defaultAdminSecret,
		ImageDir:       defaultImageDir,
		DefaultImage:   defaultDefaultImage,
		MaxUploadBytes: defaultMaxUploadBytes,
	}

	if v := os.Getenv("SIGNBOARD_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			log.Warn().Str("value", v).Msg("Invalid SIGNBOARD_PORT, using default")
		} else {
			cfg.Port = port
		}
	}

	if v := os.Getenv("SIGNBOARD_ADMIN_SECRET"); v != "" {
		cfg.AdminSecret = v
	}

	if v := os.Getenv("SIGNBOARD_IMAGE_DIR"); v != "" {
		cfg.ImageDir = v
	}

	if v := os.Getenv("SIGNBOARD_DEFAULT_IMAGE"); v != "" {
		cfg.DefaultImage = v
	}

	if v := os.Getenv("SIGNBOARD_MAX_UPLOAD_BYTES"); v != "" {
		max, err := strconv.ParseInt(v, 10, 64)
		if err != nil || max <= 0 {
			log.Warn().Str("value", v).Msg("Invalid SIGNBOARD_MAX_UPLOAD_BYTES, using default")
		} else {
			cfg.MaxUploadBytes = max
		}
	}

	return cfg
}
