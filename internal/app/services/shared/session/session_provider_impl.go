package session

import (
	"context"
	"errors"
	"fmt"
	"patient-directory-service/internal/app/contracts"
	"patient-directory-service/internal/app/models"
	"patient-directory-service/internal/pkg/constvars"
	"patient-directory-service/internal/pkg/exceptions"
	"patient-directory-service/internal/pkg/utils"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errSessionNotFound = errors.New("session not found")

type sessionProvider struct {
	RedisRepository contracts.RedisRepository
	JWTSecret       string
	Log             *zap.Logger
	now             func() time.Time
}

// NewSessionProvider resolves bearer tokens whose sid claim names a
// session record kept in redis.
func NewSessionProvider(redisRepository contracts.RedisRepository, jwtSecret string, logger *zap.Logger) contracts.SessionProvider {
	return &sessionProvider{
		RedisRepository: redisRepository,
		JWTSecret:       jwtSecret,
		Log:             logger,
		now:             time.Now,
	}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf(constvars.RedisSessionKeyFormat, sessionID)
}

func (p *sessionProvider) Resolve(ctx context.Context, bearerToken string) (*models.Session, error) {
	token := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(bearerToken), "Bearer "))
	if token == "" {
		return nil, nil
	}

	sessionID, err := utils.ParseSessionJWT(token, p.JWTSecret)
	if err != nil {
		return nil, exceptions.ErrSessionInvalid(err)
	}

	sessionData, err := p.RedisRepository.Get(ctx, sessionKey(sessionID))
	if err != nil {
		return nil, exceptions.ErrSessionInvalid(err)
	}
	if sessionData == "" {
		return nil, exceptions.ErrSessionInvalid(errSessionNotFound)
	}

	session := new(models.Session)
	if err := json.Unmarshal([]byte(sessionData), session); err != nil {
		return nil, exceptions.ErrSessionInvalid(err)
	}
	if session.IsExpired(p.now()) {
		return nil, exceptions.ErrSessionInvalid(errors.New("session expired"))
	}

	p.Log.Debug("sessionProvider.Resolve resolved session",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingSessionIDKey, session.SessionID),
		zap.String(constvars.LoggingUserIDKey, session.UserID),
	)
	return session, nil
}

// Issue stores the session and returns a signed bearer token for it.
func (p *sessionProvider) Issue(ctx context.Context, session *models.Session, expiry time.Duration) (string, error) {
	if session.SessionID == "" {
		session.SessionID = uuid.NewString()
	}
	session.ExpiresAt = p.now().Add(expiry)

	if err := p.RedisRepository.Set(ctx, sessionKey(session.SessionID), session, expiry); err != nil {
		return "", err
	}

	token, err := utils.GenerateSessionJWT(session.SessionID, p.JWTSecret, expiry)
	if err != nil {
		return "", exceptions.ErrServerProcess(err)
	}
	return token, nil
}

func (p *sessionProvider) Revoke(ctx context.Context, sessionID string) error {
	return p.RedisRepository.Delete(ctx, sessionKey(sessionID))
}
