package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/text/unicode/norm"
	"google.golang.org/api/option"
)

// MaxImageSize is the upload limit for product images.
const MaxImageSize = 1 << 20 // 1 MB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// ErrImageFormat and ErrImageSize distinguish the two upload rejections.
var (
	ErrImageFormat = errors.New("image format invalid")
	ErrImageSize   = errors.New("image too large")
)

// NewGCSClient builds a storage client from a service account file.
func NewGCSClient(ctx context.Context, credentialsFile string) (*storage.Client, error) {
	if credentialsFile == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithAuthCredentialsFile(option.ServiceAccount, credentialsFile))
}

// UploadImageToGCS validates a single product image (jpeg/png, size limit)
// and uploads it under products/<slug>/, returning the public URL.
func UploadImageToGCS(
	ctx context.Context,
	client *storage.Client,
	bucketName string,
	productName string,
	fh *multipart.FileHeader,
) (string, error) {
	if fh.Size > MaxImageSize {
		return "", ErrImageSize
	}
	ct := fh.Header.Get("Content-Type")
	if !allowedImageTypes[ct] {
		return "", ErrImageFormat
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext == "" {
		ext = ".bin"
	}
	objectName := fmt.Sprintf("products/%s/%d-%s%s", GenerateSlug(productName), time.Now().UTC().Unix(), uuid.New().String(), ext)

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	w := client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	w.ContentType = ct
	w.CacheControl = "no-cache"

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload copy: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload close: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucketName, objectName), nil
}

// ObjectNameFromGCSPublicURL turns a public URL back into an object name so
// replaced images can be deleted.
func ObjectNameFromGCSPublicURL(bucket string, raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}

	host := strings.ToLower(u.Host)
	path := strings.TrimPrefix(u.Path, "/")

	// style 1: storage.googleapis.com/<bucket>/<object>
	if host == "storage.googleapis.com" {
		prefix := bucket + "/"
		if !strings.HasPrefix(path, prefix) {
			return "", fmt.Errorf("url bucket mismatch")
		}
		return strings.TrimPrefix(path, prefix), nil
	}

	// style 2: <bucket>.storage.googleapis.com/<object>
	if host == strings.ToLower(bucket)+".storage.googleapis.com" {
		if path == "" {
			return "", fmt.Errorf("missing object path")
		}
		return path, nil
	}

	return "", fmt.Errorf("not a gcs public url")
}

// DeleteGCSObject removes an uploaded object, best effort.
func DeleteGCSObject(ctx context.Context, client *storage.Client, bucket, objectName string) error {
	if objectName == "" {
		return nil
	}
	return client.Bucket(bucket).Object(objectName).Delete(ctx)
}

func IsDuplicateKey(err error) bool {
	// Preferred: typed error
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 || e.Code == 11001 {
				return true
			}
		}
	}

	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) {
		for _, e := range bwe.WriteErrors {
			if e.Code == 11000 || e.Code == 11001 {
				return true
			}
		}
	}

	// Fallback
	return strings.Contains(err.Error(), "E11000 duplicate key error")
}

var slugNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

func GenerateSlug(name string) string {
	// Normalize accents
	t := norm.NFD.String(name)
	var b strings.Builder
	for _, r := range t {
		if unicode.Is(unicode.Mn, r) {
			continue // remove accent marks
		}
		b.WriteRune(r)
	}

	s := strings.ToLower(b.String())
	s = slugNonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func ParseIntDefault(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
