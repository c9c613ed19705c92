package storage

import (
	"context"
	"errors"
	"patient-directory-service/internal/pkg/constvars"
	"patient-directory-service/internal/pkg/dto/requests"
	"patient-directory-service/internal/pkg/exceptions"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\x0D\x0A\x1A\x0A\x00\x00\x00\x0DIHDR")

func TestValidatePhoto(t *testing.T) {
	t.Run("PNG accepted", func(t *testing.T) {
		contentType, err := ValidatePhoto(&requests.PhotoUpload{Data: pngHeader}, 1024)
		require.NoError(t, err)
		assert.Equal(t, constvars.MIMEImagePNG, contentType)
	})

	t.Run("Text rejected", func(t *testing.T) {
		_, err := ValidatePhoto(&requests.PhotoUpload{Data: []byte("hello world")}, 1024)

		var customErr *exceptions.CustomError
		require.True(t, errors.As(err, &customErr))
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
		assert.True(t, errors.Is(err, exceptions.ErrPhotoRejected))
	})

	t.Run("Too large", func(t *testing.T) {
		_, err := ValidatePhoto(&requests.PhotoUpload{Data: pngHeader}, 4)

		var customErr *exceptions.CustomError
		require.True(t, errors.As(err, &customErr))
		assert.Equal(t, constvars.StatusRequestEntityTooBig, customErr.StatusCode)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := ValidatePhoto(&requests.PhotoUpload{}, 4)
		assert.Error(t, err)
	})
}

func TestInlinePhotoStorage(t *testing.T) {
	storage := NewInlinePhotoStorage(1024)

	url, err := storage.UploadPhoto(context.Background(), &requests.PhotoUpload{PatientID: "A-99", Data: pngHeader})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
}

func TestObjectURL(t *testing.T) {
	assert.Equal(t,
		"http://cdn.local/patient-photos/patients/A-99/x.png",
		objectURL("http://cdn.local/", "patient-photos", "patients/A-99/x.png"),
	)
}
