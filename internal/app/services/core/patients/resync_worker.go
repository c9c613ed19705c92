package patients

import (
	"context"
	"patient-directory-service/internal/app/config"
	"patient-directory-service/internal/app/contracts"
	"patient-directory-service/internal/pkg/constvars"
	"patient-directory-service/internal/pkg/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const fallbackResyncSpec = "@every 15m"

// ResyncWorker periodically refreshes this instance's directory snapshot
// and evicts idle workspaces. Each instance keeps its own cache, so no
// cluster-wide leader is needed.
type ResyncWorker struct {
	log        *zap.Logger
	cfg        *config.InternalConfig
	usecase    contracts.PatientUsecase
	workspaces *WorkspaceRegistry
	cron       *cron.Cron
	runCtx     context.Context
	cancel     context.CancelFunc
}

func NewResyncWorker(log *zap.Logger, cfg *config.InternalConfig, usecase contracts.PatientUsecase, workspaces *WorkspaceRegistry) *ResyncWorker {
	return &ResyncWorker{log: log, cfg: cfg, usecase: usecase, workspaces: workspaces}
}

func (w *ResyncWorker) Start(ctx context.Context) {
	w.runCtx, w.cancel = context.WithCancel(ctx)
	c := cron.New()
	_, err := c.AddFunc(w.cfg.Resync.CronSpec, func() { w.RunOnce(w.runCtx) })
	if err != nil {
		w.log.Warn("ResyncWorker.Start invalid cron spec, falling back",
			zap.String("cron_spec", w.cfg.Resync.CronSpec),
			zap.String("fallback", fallbackResyncSpec),
			zap.Error(err),
		)
		c = cron.New()
		_, _ = c.AddFunc(fallbackResyncSpec, func() { w.RunOnce(w.runCtx) })
	}
	c.Start()
	w.cron = c
}

// Stop waits for a running resync to finish.
func (w *ResyncWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		ctx := w.cron.Stop()
		<-ctx.Done()
	}
}

func (w *ResyncWorker) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	requestID := utils.GenerateRequestID()
	ctx = context.WithValue(ctx, constvars.CONTEXT_REQUEST_ID_KEY, requestID)

	err := utils.LogOperation(w.log, "ResyncWorker.RunOnce", requestID, func() error {
		return w.usecase.Resync(ctx)
	})
	if err != nil {
		w.log.Warn("ResyncWorker.RunOnce refresh failed, keeping previous snapshot",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
	}
	if w.workspaces != nil {
		if evicted := w.workspaces.EvictIdle(); evicted > 0 {
			w.log.Info("ResyncWorker.RunOnce evicted idle workspaces",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Int(constvars.LoggingCountKey, evicted),
			)
		}
	}
}
