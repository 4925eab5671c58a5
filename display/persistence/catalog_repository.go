package persistence

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dfryer1193/signboard/display/domain"
	"github.com/dfryer1193/signboard/shared/db"
)

var _ domain.ImageCatalog = (*SQLiteCatalogRepository)(nil)

// SQLiteCatalogRepository implements domain.ImageCatalog: image bytes live
// on disk under imageDir, the catalog record lives in SQLite, and the two
// are written inside one transaction so a failed file write leaves no
// dangling record.
type SQLiteCatalogRepository struct {
	db       *sql.DB
	imageDir string
}

// NewCatalogRepository creates a catalog over the given database and image
// directory.
func NewCatalogRepository(sqlDB *sql.DB, imageDir string) *SQLiteCatalogRepository {
	return &SQLiteCatalogRepository{
		db:       sqlDB,
		imageDir: imageDir,
	}
}

const upsertImageQuery = `
	INSERT INTO images (name, size, sha256, uploaded_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
		size = excluded.size,
		sha256 = excluded.sha256,
		uploaded_at = excluded.uploaded_at
`

// SaveImage writes the image file and upserts its catalog record within a
// transaction. Re-uploading an existing name overwrites both.
func (r *SQLiteCatalogRepository) SaveImage(ctx context.Context, img *domain.ImageFile) error {
	if img == nil {
		return fmt.Errorf("image cannot be nil")
	}

	if img.Name == "" {
		return fmt.Errorf("image name cannot be empty")
	}

	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)
		_, err := executor.ExecContext(txCtx, upsertImageQuery,
			img.Name,
			img.Size,
			img.SHA256,
			img.UploadedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert image record: %w", err)
		}

		// Then write to filesystem - if this fails, the record rolls back
		if err := os.MkdirAll(r.imageDir, 0755); err != nil {
			return fmt.Errorf("failed to create image directory: %w", err)
		}

		localPath := filepath.Join(r.imageDir, filepath.Base(img.Name))
		if err := os.WriteFile(localPath, img.Content, 0644); err != nil {
			return fmt.Errorf("failed to write image file: %w", err)
		}

		return nil
	})
}

const getImageQuery = `
	SELECT name, size, sha256, uploaded_at
	FROM images
	WHERE name = ?
`

// GetImage retrieves a single catalog record by name.
func (r *SQLiteCatalogRepository) GetImage(ctx context.Context, name string) (*domain.ImageFile, error) {
	if name == "" {
		return nil, fmt.Errorf("image name cannot be empty")
	}

	var row imageRow
	err := r.db.QueryRowContext(ctx, getImageQuery, name).Scan(
		&row.Name,
		&row.Size,
		&row.SHA256,
		&row.UploadedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", domain.ErrImageNotFound, name)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}

	return row.toDomain(), nil
}

const listImagesQuery = `
	SELECT name, size, sha256, uploaded_at
	FROM images
	ORDER BY uploaded_at DESC, name
`

// ListImages returns every catalog record, newest upload first.
func (r *SQLiteCatalogRepository) ListImages(ctx context.Context) ([]domain.ImageFile, error) {
	rows, err := r.db.QueryContext(ctx, listImagesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	var images []domain.ImageFile
	for rows.Next() {
		var row imageRow
		if err := rows.Scan(&row.Name, &row.Size, &row.SHA256, &row.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan image row: %w", err)
		}
		images = append(images, *row.toDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate image rows: %w", err)
	}

	return images, nil
}

// CountImages returns the number of catalog records.
func (r *SQLiteCatalogRepository) CountImages(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM images").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count images: %w", err)
	}
	return count, nil
}

// ReconcileDir scans the image directory and records any allowed image file
// the catalog does not know about yet. Files placed in the directory by
// other means become listable after a reconcile.
func (r *SQLiteCatalogRepository) ReconcileDir(ctx context.Context) error {
	entries, err := os.ReadDir(r.imageDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read image directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !domain.AllowedExtension(entry.Name()) {
			continue
		}

		_, err := r.GetImage(ctx, entry.Name())
		if err == nil {
			continue
		}

		if err := r.recordFromDisk(ctx, filepath.Join(r.imageDir, entry.Name())); err != nil {
			return err
		}
	}

	return nil
}

// recordFromDisk upserts a catalog record describing a file that already
// exists on disk. No file write happens here.
func (r *SQLiteCatalogRepository) recordFromDisk(ctx context.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image file %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat image file %s: %w", path, err)
	}

	sum := sha256.Sum256(content)
	_, err = r.db.ExecContext(ctx, upsertImageQuery,
		filepath.Base(path),
		int64(len(content)),
		hex.EncodeToString(sum[:]),
		info.ModTime().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record image %s: %w", path, err)
	}

	return nil
}

// imageRow is a private struct used to scan database rows
type imageRow struct {
	Name       string       `db:"name"`
	Size       int64        `db:"size"`
	SHA256     string       `db:"sha256"`
	UploadedAt sql.NullTime `db:"uploaded_at"`
}

func (ir *imageRow) toDomain() *domain.ImageFile {
	img := &domain.ImageFile{
		Name:   ir.Name,
		Size:   ir.Size,
		SHA256: ir.SHA256,
	}

	if ir.UploadedAt.Valid {
		img.UploadedAt = ir.UploadedAt.Time
	}

	return img
}
