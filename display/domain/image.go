package domain

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrNoImage indicates a required image name was empty or absent.
	ErrNoImage = errors.New("no image provided")

	// ErrInvalidFileType indicates a filename with a disallowed extension.
	ErrInvalidFileType = errors.New("invalid file type")

	// ErrFileTooLarge indicates an upload above the configured size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrImageNotFound indicates the catalog has no record for the name.
	ErrImageNotFound = errors.New("image not found")
)

// EventImageUpdated is the push event emitted on every committed image change.
const EventImageUpdated = "image_updated"

// ImageUpdatedPayload is the body of an EventImageUpdated push message.
type ImageUpdatedPayload struct {
	ImageURL string `json:"image_url"`
}

// allowedExtensions is the set of file extensions the store accepts.
var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
}

// AllowedExtension reports whether name carries an accepted image extension.
// The check is case-insensitive.
func AllowedExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	_, ok := allowedExtensions[ext]
	return ok
}

// SanitizeFilename strips path components and characters that are unsafe in a
// filename. Returns "" if nothing usable remains.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == ".." {
		return ""
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			// Drop anything else; spaces and shell metacharacters included.
		}
	}

	cleaned := strings.Trim(b.String(), ".")
	if cleaned == "" {
		return ""
	}
	return cleaned
}

// ImageFile represents one entry in the image store.
type ImageFile struct {
	Name       string
	Size       int64
	SHA256     string
	Content    []byte
	UploadedAt time.Time
}

// ImageCatalog persists image files and their catalog records.
type ImageCatalog interface {
	// SaveImage writes the file to the store and upserts its catalog record.
	SaveImage(ctx context.Context, img *ImageFile) error

	// GetImage retrieves a catalog record by filename.
	GetImage(ctx context.Context, name string) (*ImageFile, error)

	// ListImages returns all catalog records, newest upload first.
	ListImages(ctx context.Context) ([]ImageFile, error)

	// CountImages returns the number of catalog records.
	CountImages(ctx context.Context) (int, error)
}

// Notifier pushes an event to every connected viewer. Delivery is
// best-effort; implementations must never block the caller on a slow viewer.
type Notifier interface {
	Publish(event string, payload any)
}
