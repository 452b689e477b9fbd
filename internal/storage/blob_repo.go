package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const blobRefPrefix = "sha256:"

// BlobRef derives the content address for data.
func BlobRef(data []byte) string {
	sum := sha256.Sum256(data)
	return blobRefPrefix + hex.EncodeToString(sum[:])
}

func IsBlobRef(s string) bool {
	return strings.HasPrefix(s, blobRefPrefix) && len(s) == len(blobRefPrefix)+sha256.Size*2
}

type BlobRepo struct {
	db *sql.DB
}

func NewBlobRepo(db *sql.DB) *BlobRepo {
	return &BlobRepo{db: db}
}

// Put stores data and returns its ref. Storing the same bytes twice is a no-op.
func (r *BlobRepo) Put(ctx context.Context, data []byte) (string, error) {
	ref := BlobRef(data)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO blobs (ref, data, size, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(ref) DO NOTHING
	`, ref, data, len(data), time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("blob put: %w", err)
	}
	return ref, nil
}

// Get returns the blob for ref, or nil if it is not stored.
func (r *BlobRepo) Get(ctx context.Context, ref string) ([]byte, error) {
	row := r.db.QueryRowContext(ctx, `SELECT data FROM blobs WHERE ref = ?`, ref)
	var data []byte
	if err := row.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("blob get: %w", err)
	}
	return data, nil
}

type BlobInfo struct {
	Ref       string
	Size      int64
	CreatedAt time.Time
}

func (r *BlobRepo) List(ctx context.Context) ([]BlobInfo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT ref, size, created_at FROM blobs ORDER BY created_at ASC, ref ASC`)
	if err != nil {
		return nil, fmt.Errorf("blob list: %w", err)
	}
	defer rows.Close()

	var out []BlobInfo
	for rows.Next() {
		var b BlobInfo
		if err := rows.Scan(&b.Ref, &b.Size, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("blob scan: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("blob rows: %w", err)
	}
	return out, nil
}

// pruneBlobs deletes every blob not in keep.
func pruneBlobs(ctx context.Context, tx *sql.Tx, keep []string) error {
	query := `DELETE FROM blobs`
	args := make([]any, 0, len(keep))
	if len(keep) > 0 {
		query += ` WHERE ref NOT IN (?` + strings.Repeat(`, ?`, len(keep)-1) + `)`
		for _, ref := range keep {
			args = append(args, ref)
		}
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("blob prune: %w", err)
	}
	return nil
}
