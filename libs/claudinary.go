package libs

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const productImageTransformation = "c_limit,w_1200,h_1200/q_auto,f_auto"

type CloudinaryImageStore struct {
	cld     *cloudinary.Cloudinary
	folder  string
	maxSize int64
}

func NewCloudinaryImageStore(cloudName, apiKey, apiSecret, folder string, maxSize int64) (*CloudinaryImageStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init from params fail: %v", err)
	}
	return &CloudinaryImageStore{cld: cld, folder: folder, maxSize: maxSize}, nil
}

// Save uploads the image resized to fit 1200x1200 and returns its secure URL.
func (s *CloudinaryImageStore) Save(ctx context.Context, header *multipart.FileHeader) (string, error) {
	if err := ValidateImage(header, s.maxSize); err != nil {
		return "", err
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("gagal membuka file: %v", err)
	}
	defer file.Close()

	resp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       fmt.Sprintf("product_%d", time.Now().UnixNano()),
		Folder:         s.folder,
		ResourceType:   "image",
		Transformation: productImageTransformation,
	})
	if err != nil {
		log.Printf("[Cloudinary] Upload error: %v", err)
		return "", fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("cloudinary response is nil")
	}

	if resp.SecureURL == "" {
		if resp.URL != "" {
			return resp.URL, nil
		}
		return "", fmt.Errorf("both SecureURL and URL are empty")
	}
	return resp.SecureURL, nil
}

func (s *CloudinaryImageStore) Delete(ctx context.Context, ref string) error {
	publicID := publicIDFromURL(ref)
	if publicID == "" {
		return nil
	}

	result, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to delete from cloudinary: %w", err)
	}
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("cloudinary deletion failed: %s", result.Result)
	}
	return nil
}

// publicIDFromURL extracts "folder/name" from a Cloudinary delivery URL such
// as https://res.cloudinary.com/demo/image/upload/c_limit,w_1200/v17/folder/name.jpg.
func publicIDFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || !strings.Contains(u.Host, "cloudinary.com") {
		return ""
	}

	_, rest, found := strings.Cut(u.Path, "/upload/")
	if !found {
		return ""
	}

	parts := strings.Split(rest, "/")
	for len(parts) > 1 && isTransformation(parts[0]) {
		parts = parts[1:]
	}
	if len(parts) > 1 && isVersion(parts[0]) {
		parts = parts[1:]
	}

	id := strings.Join(parts, "/")
	return strings.TrimSuffix(id, path.Ext(id))
}

func isVersion(segment string) bool {
	if len(segment) < 2 || segment[0] != 'v' {
		return false
	}
	for _, r := range segment[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isTransformation(segment string) bool {
	if strings.Contains(segment, ",") {
		return true
	}
	prefixes := []string{"c_", "w_", "h_", "q_", "f_", "e_", "g_"}
	for _, p := range prefixes {
		if strings.HasPrefix(segment, p) {
			return true
		}
	}
	return false
}
