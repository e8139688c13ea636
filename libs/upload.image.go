package libs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalImageStore writes images under dir and serves them from urlPrefix.
type LocalImageStore struct {
	dir       string
	urlPrefix string
	maxSize   int64
}

func NewLocalImageStore(dir, urlPrefix string, maxSize int64) *LocalImageStore {
	return &LocalImageStore{
		dir:       dir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		maxSize:   maxSize,
	}
}

func (s *LocalImageStore) Save(ctx context.Context, header *multipart.FileHeader) (string, error) {
	if err := ValidateImage(header, s.maxSize); err != nil {
		return "", err
	}

	folder := filepath.Join(s.dir, "products")
	if err := os.MkdirAll(folder, os.ModePerm); err != nil {
		return "", fmt.Errorf("gagal membuat folder: %v", err)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	filename := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	path := filepath.Join(folder, filename)

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("gagal membuka file: %v", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("gagal menyimpan file: %v", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("gagal menyimpan file: %v", err)
	}

	return s.urlPrefix + "/products/" + filename, nil
}

// Delete ignores refs outside this store and files that are already gone.
func (s *LocalImageStore) Delete(ctx context.Context, ref string) error {
	if !strings.HasPrefix(ref, s.urlPrefix+"/") {
		return nil
	}

	rel := filepath.Clean(strings.TrimPrefix(ref, s.urlPrefix+"/"))
	if rel == "." || strings.HasPrefix(rel, "..") {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, rel))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[Upload] failed to delete %s: %v", ref, err)
		return err
	}
	return nil
}
