package storage

import (
	"errors"
	"fmt"
	"patient-directory-service/internal/pkg/constvars"
	"patient-directory-service/internal/pkg/dto/requests"
	"patient-directory-service/internal/pkg/exceptions"

	"github.com/gabriel-vasile/mimetype"
)

var photoExtensions = map[string]string{
	constvars.MIMEImageJPEG: ".jpg",
	constvars.MIMEImagePNG:  ".png",
	constvars.MIMEImageWEBP: ".webp",
}

// ValidatePhoto sniffs the content instead of trusting the declared type
// and returns the detected MIME type.
func ValidatePhoto(upload *requests.PhotoUpload, maxSize int64) (string, error) {
	if len(upload.Data) == 0 {
		return "", exceptions.ErrImageValidation(errors.New("empty photo"))
	}
	if maxSize > 0 && int64(len(upload.Data)) > maxSize {
		return "", exceptions.ErrImageTooLarge(fmt.Errorf("photo is %d bytes, limit is %d", len(upload.Data), maxSize))
	}

	contentType := mimetype.Detect(upload.Data).String()
	if _, ok := photoExtensions[contentType]; !ok {
		return "", exceptions.ErrImageValidation(fmt.Errorf("unsupported content type %s", contentType))
	}
	return contentType, nil
}

func extensionFor(contentType string) string {
	return photoExtensions[contentType]
}
