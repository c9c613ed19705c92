package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"patient-directory-service/internal/pkg/constvars"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const sessionIDClaim = "sid"

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.NewString()
}

func GenerateSessionJWT(sessionID, secret string, expiry time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		sessionIDClaim: sessionID,
		"exp":          time.Now().Add(expiry).Unix(),
	})

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// GeneratePhotoObjectName keeps the original extension, lower-cased.
func GeneratePhotoObjectName(patientID, fileName string) string {
	extension := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("patients/%s/%s%s", patientID, uuid.NewString(), extension)
}

func GenerateExportFileName(now time.Time) string {
	return fmt.Sprintf("patients_%s.xlsx", now.Format("20060102_150405"))
}
