package storage

import (
	"context"
	"encoding/base64"
	"patient-directory-service/internal/app/contracts"
	"patient-directory-service/internal/pkg/dto/requests"
)

type inlinePhotoStorage struct {
	MaxUploadSize int64
}

// NewInlinePhotoStorage keeps photos inside the record as data URIs, for
// deployments without object storage.
func NewInlinePhotoStorage(maxUploadSize int64) contracts.PhotoStorage {
	return &inlinePhotoStorage{MaxUploadSize: maxUploadSize}
}

func (s *inlinePhotoStorage) UploadPhoto(ctx context.Context, upload *requests.PhotoUpload) (string, error) {
	contentType, err := ValidatePhoto(upload, s.MaxUploadSize)
	if err != nil {
		return "", err
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(upload.Data), nil
}
