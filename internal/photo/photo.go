// Package photo uploads recipe photos to the backend's S3-compatible
// storage and hands back the public URL the recipe row stores.
package photo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Config holds the storage endpoint and credentials. Endpoint is the
// backend's S3 gateway (".../storage/v1/s3"); PublicBaseURL is the prefix
// public object URLs are built from (".../storage/v1/object/public").
type Config struct {
	Endpoint      string
	PublicBaseURL string
	Bucket        string
	Region        string
	AccessKey     string
	SecretKey     string
}

// Uploader stores recipe photos under "<userID>/<recipeID><ext>".
type Uploader struct {
	cfg    Config
	client s3Client
}

func NewUploader(cfg Config) *Uploader {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return &Uploader{cfg: cfg, client: s3.New(opts)}
}

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// UploadRecipePhoto pushes the file at localPath and returns its public URL.
func (u *Uploader) UploadRecipePhoto(ctx context.Context, userID, recipeID, localPath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(localPath))
	contentType, ok := contentTypes[ext]
	if !ok {
		return "", fmt.Errorf("unsupported photo format %q", ext)
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open photo: %w", err)
	}
	defer f.Close()

	key := userID + "/" + recipeID + ext
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}
	return u.PublicURL(key), nil
}

// Remove deletes the object behind a public URL produced by this uploader.
// URLs from elsewhere are left alone.
func (u *Uploader) Remove(ctx context.Context, publicURL string) error {
	prefix := u.PublicURL("")
	key, ok := strings.CutPrefix(publicURL, prefix)
	if !ok || key == "" {
		return nil
	}
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	return nil
}

// PublicURL builds the unauthenticated read URL for a stored object.
func (u *Uploader) PublicURL(key string) string {
	return strings.TrimRight(u.cfg.PublicBaseURL, "/") + "/" + u.cfg.Bucket + "/" + key
}
