package storage

import (
	"bytes"
	"context"
	"fmt"
	"patient-directory-service/internal/app/contracts"
	"patient-directory-service/internal/pkg/constvars"
	"patient-directory-service/internal/pkg/dto/requests"
	"patient-directory-service/internal/pkg/exceptions"
	"patient-directory-service/internal/pkg/utils"
	"strings"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

type minioPhotoStorage struct {
	MinioClient   *minio.Client
	BucketName    string
	PublicBaseURL string
	MaxUploadSize int64
	Log           *zap.Logger
}

func NewMinioPhotoStorage(minioClient *minio.Client, bucketName, publicBaseURL string, maxUploadSize int64, logger *zap.Logger) contracts.PhotoStorage {
	return &minioPhotoStorage{
		MinioClient:   minioClient,
		BucketName:    bucketName,
		PublicBaseURL: publicBaseURL,
		MaxUploadSize: maxUploadSize,
		Log:           logger,
	}
}

func (m *minioPhotoStorage) UploadPhoto(ctx context.Context, upload *requests.PhotoUpload) (string, error) {
	contentType, err := ValidatePhoto(upload, m.MaxUploadSize)
	if err != nil {
		return "", err
	}

	objectName := utils.GeneratePhotoObjectName(upload.PatientID, "photo"+extensionFor(contentType))
	_, err = m.MinioClient.PutObject(
		ctx,
		m.BucketName,
		objectName,
		bytes.NewReader(upload.Data),
		int64(len(upload.Data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		m.Log.Error("minioPhotoStorage.UploadPhoto error calling PutObject",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingBucketKey, m.BucketName),
			zap.String(constvars.LoggingObjectKey, objectName),
			zap.Error(err),
		)
		return "", exceptions.ErrMinioCreateObject(err, m.BucketName)
	}

	m.Log.Info("minioPhotoStorage.UploadPhoto succeeded",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingPatientIDKey, upload.PatientID),
		zap.String(constvars.LoggingObjectKey, objectName),
	)
	return objectURL(m.PublicBaseURL, m.BucketName, objectName), nil
}

func objectURL(publicBaseURL, bucketName, objectName string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(publicBaseURL, "/"), bucketName, objectName)
}
