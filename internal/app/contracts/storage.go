package contracts

import (
	"context"
	"patient-directory-service/internal/pkg/dto/requests"
)

type PhotoStorage interface {
	// UploadPhoto persists the image and returns the URL stored in photoUrl.
	UploadPhoto(ctx context.Context, upload *requests.PhotoUpload) (string, error)
}
