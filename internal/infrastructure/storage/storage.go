// Package storage persists product images to local disk or S3-compatible
// object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/liqued/storefront-api/internal/core/domain"
	"github.com/liqued/storefront-api/internal/core/ports"
)

// DefaultMaxBytes is the upload limit used when none is configured (5 MiB).
const DefaultMaxBytes int64 = 5 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Validating wraps a backend store, enforcing the size limit and sniffing
// the content so only real images reach the backend.
type Validating struct {
	next     ports.ImageStore
	maxBytes int64
}

func NewValidating(next ports.ImageStore, maxBytes int64) *Validating {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Validating{next: next, maxBytes: maxBytes}
}

// Save rejects oversized or non-image uploads with a validation error. The
// declared content type is ignored in favour of the sniffed one.
func (v *Validating) Save(ctx context.Context, filename, _ string, body io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(body, v.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > v.maxBytes {
		return "", domain.NewValidationError(fmt.Sprintf("image exceeds %d bytes", v.maxBytes))
	}
	if len(data) == 0 {
		return "", domain.NewValidationError("image is empty")
	}

	mime := mimetype.Detect(data)
	ext, ok := allowedImageTypes[mime.String()]
	if !ok {
		return "", domain.NewValidationError("only jpeg, png, gif and webp images are allowed")
	}

	return v.next.Save(ctx, objectName(filename, ext), mime.String(), bytes.NewReader(data))
}

// objectName builds a collision-free name, keeping a sanitised stem of the
// original filename for readability.
func objectName(original, ext string) string {
	stem := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	stem = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return -1
		}
	}, stem)
	if len(stem) > 40 {
		stem = stem[:40]
	}

	id := uuid.NewString()
	if stem == "" {
		return id + ext
	}
	return stem + "-" + id + ext
}
