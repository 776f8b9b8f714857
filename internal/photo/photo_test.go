package photo

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// mockS3Client implements s3Client for testing.
type mockS3Client struct {
	objects      map[string][]byte
	contentTypes map[string]string
	putErr       error
	deleted      []string
}

func newMockS3() *mockS3Client {
	return &mockS3Client{
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

func (m *mockS3Client) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	data, _ := io.ReadAll(input.Body)
	m.objects[*input.Key] = data
	m.contentTypes[*input.Key] = *input.ContentType
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3Client) DeleteObject(_ context.Context, input *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.deleted = append(m.deleted, *input.Key)
	delete(m.objects, *input.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func testUploader(mock *mockS3Client) *Uploader {
	return &Uploader{
		cfg: Config{
			PublicBaseURL: "https://backend.example/storage/v1/object/public",
			Bucket:        "recipe-photos",
		},
		client: mock,
	}
}

func writePhoto(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("jpeg bytes"), 0644); err != nil {
		t.Fatalf("write photo: %v", err)
	}
	return path
}

func TestUploadRecipePhoto(t *testing.T) {
	mock := newMockS3()
	u := testUploader(mock)

	url, err := u.UploadRecipePhoto(context.Background(), "u1", "r1", writePhoto(t, "gratin.JPG"))
	if err != nil {
		t.Fatalf("UploadRecipePhoto: %v", err)
	}
	want := "https://backend.example/storage/v1/object/public/recipe-photos/u1/r1.jpg"
	if url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
	if string(mock.objects["u1/r1.jpg"]) != "jpeg bytes" {
		t.Errorf("stored object = %q", mock.objects["u1/r1.jpg"])
	}
	if mock.contentTypes["u1/r1.jpg"] != "image/jpeg" {
		t.Errorf("content type = %q, want image/jpeg", mock.contentTypes["u1/r1.jpg"])
	}
}

func TestUploadRejectsUnknownFormat(t *testing.T) {
	u := testUploader(newMockS3())
	if _, err := u.UploadRecipePhoto(context.Background(), "u1", "r1", writePhoto(t, "notes.txt")); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestUploadSurfacesStorageError(t *testing.T) {
	mock := newMockS3()
	mock.putErr = errors.New("access denied")
	u := testUploader(mock)

	if _, err := u.UploadRecipePhoto(context.Background(), "u1", "r1", writePhoto(t, "a.png")); err == nil {
		t.Fatal("expected upload error to surface")
	}
}

func TestRemove(t *testing.T) {
	mock := newMockS3()
	u := testUploader(mock)
	mock.objects["u1/r1.jpg"] = []byte("x")

	if err := u.Remove(context.Background(), u.PublicURL("u1/r1.jpg")); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(mock.deleted) != 1 || mock.deleted[0] != "u1/r1.jpg" {
		t.Errorf("deleted = %v, want [u1/r1.jpg]", mock.deleted)
	}

	// Foreign URLs are ignored.
	if err := u.Remove(context.Background(), "https://elsewhere.example/pic.jpg"); err != nil {
		t.Fatalf("Remove foreign: %v", err)
	}
	if len(mock.deleted) != 1 {
		t.Errorf("foreign URL must not trigger a delete, got %v", mock.deleted)
	}
}
