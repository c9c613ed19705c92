package middlewares

import (
	"patient-directory-service/internal/app/config"
	"patient-directory-service/internal/app/contracts"

	"go.uber.org/zap"
)

type Middlewares struct {
	Log             *zap.Logger
	SessionProvider contracts.SessionProvider
	InternalConfig  *config.InternalConfig
}

func NewMiddlewares(logger *zap.Logger, sessionProvider contracts.SessionProvider, internalConfig *config.InternalConfig) *Middlewares {
	return &Middlewares{
		Log:             logger,
		SessionProvider: sessionProvider,
		InternalConfig:  internalConfig,
	}
}
