package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dfryer1193/signboard/display/domain"
	"github.com/rs/zerolog/log"
)

// StaticImagePath is the URL prefix under which stored images are served.
const StaticImagePath = "/static/images"

// DisplayService owns the current-image value. All mutations go through
// SetCurrent, which commits under an exclusive lock and then notifies
// viewers, so a reader woken by a push always observes the committed value.
type DisplayService struct {
	mu      sync.RWMutex
	current string

	catalog        domain.ImageCatalog
	notifier       domain.Notifier
	maxUploadBytes int64
}

func NewDisplayService(catalog domain.ImageCatalog, notifier domain.Notifier, defaultImage string, maxUploadBytes int64) *DisplayService {
	return &DisplayService{
		current:        defaultImage,
		catalog:        catalog,
		notifier:       notifier,
		maxUploadBytes: maxUploadBytes,
	}
}

// Current returns the active image name. Never fails.
func (s *DisplayService) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// ImageURL resolves a stored filename to its public URL.
func (s *DisplayService) ImageURL(name string) string {
	return StaticImagePath + "/" + name
}

// SetCurrent commits name as the active image and returns the previous
// value. Returns domain.ErrNoImage for an empty name, leaving state and
// viewers untouched.
//
// The notify happens inside the critical section so that each viewer sees
// events in commit order; the notifier contract guarantees it never blocks.
func (s *DisplayService) SetCurrent(name string) (string, error) {
	if name == "" {
		return "", domain.ErrNoImage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.current
	s.current = name
	s.notifier.Publish(domain.EventImageUpdated, domain.ImageUpdatedPayload{
		ImageURL: s.ImageURL(name),
	})

	log.Info().Str("image", name).Str("previous", previous).Msg("Current image updated")
	return previous, nil
}

// Upload ingests a new image file: sanitize the filename, enforce the
// extension and size limits, persist through the catalog, and commit it as
// the current image via the same path SetCurrent uses. Nothing is published
// unless the store write succeeded.
func (s *DisplayService) Upload(ctx context.Context, filename string, r io.Reader) (*domain.ImageFile, error) {
	name := domain.SanitizeFilename(filename)
	if name == "" {
		return nil, domain.ErrNoImage
	}

	if !domain.AllowedExtension(name) {
		return nil, domain.ErrInvalidFileType
	}

	content, err := io.ReadAll(io.LimitReader(r, s.maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(content)) > s.maxUploadBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", domain.ErrFileTooLarge, s.maxUploadBytes)
	}

	sum := sha256.Sum256(content)
	img := &domain.ImageFile{
		Name:       name,
		Size:       int64(len(content)),
		SHA256:     hex.EncodeToString(sum[:]),
		Content:    content,
		UploadedAt: time.Now().UTC(),
	}

	if err := s.catalog.SaveImage(ctx, img); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	if _, err := s.SetCurrent(name); err != nil {
		return nil, err
	}

	return img, nil
}

// ListImages returns the names of stored images with allowed extensions,
// newest upload first, along with the current selection.
func (s *DisplayService) ListImages(ctx context.Context) ([]string, string, error) {
	entries, err := s.catalog.ListImages(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list images: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if domain.AllowedExtension(entry.Name) {
			names = append(names, entry.Name)
		}
	}

	return names, s.Current(), nil
}
