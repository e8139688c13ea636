package libs

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// ImageStore persists uploaded product images and returns the path or URL
// stored in product_images.image_path.
type ImageStore interface {
	Save(ctx context.Context, header *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, ref string) error
}

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ValidateImage errors are shown to the user as-is.
func ValidateImage(header *multipart.FileHeader, maxSize int64) error {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExtensions[ext] {
		return fmt.Errorf("format image tidak didukung. Hanya .png, .jpg, .jpeg, .gif, .webp")
	}

	if maxSize > 0 && header.Size > maxSize {
		return fmt.Errorf("file terlalu besar (max %dMB)", maxSize/(1024*1024))
	}
	return nil
}
