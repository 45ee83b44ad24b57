package services

import (
	"context"
	"fmt"
	"io"
	"net/url"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"github.com/google/uuid"
)

// StorageService uploads material, homework and library images to the
// Firebase Storage bucket and hands back download URLs.
type StorageService struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

// NewStorageService resolves the app's default storage bucket.
func NewStorageService(app *firebase.App, bucketName string) (*StorageService, error) {
	client, err := app.Storage(context.Background())
	if err != nil {
		return nil, err
	}
	bucket, err := client.DefaultBucket()
	if err != nil {
		return nil, err
	}
	return &StorageService{bucket: bucket, bucketName: bucketName}, nil
}

// Upload stores the file under folder and returns a tokenized download URL.
// Object names get a random prefix so repeated uploads of the same filename
// never collide.
func (s *StorageService) Upload(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error) {
	object := fmt.Sprintf("%s/%s-%s", folder, uuid.New().String(), filename)
	token := uuid.New().String()

	w := s.bucket.Object(object).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{"firebaseStorageDownloadTokens": token}

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to upload %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload %s: %w", object, err)
	}

	downloadURL := fmt.Sprintf(
		"https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		s.bucketName, url.PathEscape(object), token,
	)
	return downloadURL, nil
}

// Delete removes an uploaded object by its full object name.
func (s *StorageService) Delete(ctx context.Context, object string) error {
	err := s.bucket.Object(object).Delete(ctx)
	if err != nil && err != gcs.ErrObjectNotExist {
		return err
	}
	return nil
}
