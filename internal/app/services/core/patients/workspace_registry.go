package patients

import (
	"patient-directory-service/internal/app/config"
	"patient-directory-service/internal/app/contracts"
	"patient-directory-service/internal/app/models"
	"patient-directory-service/internal/pkg/constvars"
	"sync"
	"time"

	"go.uber.org/zap"
)

// WorkspaceRegistry keeps one DirectoryController per session. Anonymous
// callers share a single read-only controller.
type WorkspaceRegistry struct {
	usecase     contracts.PatientUsecase
	debounce    time.Duration
	idleTimeout time.Duration
	log         *zap.Logger
	now         func() time.Time

	mu         sync.Mutex
	workspaces map[string]*DirectoryController
	anonymous  *DirectoryController
}

func NewWorkspaceRegistry(usecase contracts.PatientUsecase, internalConfig *config.InternalConfig, logger *zap.Logger) *WorkspaceRegistry {
	return &WorkspaceRegistry{
		usecase:     usecase,
		debounce:    internalConfig.SearchDebounce(),
		idleTimeout: time.Duration(internalConfig.App.WorkspaceIdleTimeoutInMin) * time.Minute,
		log:         logger,
		now:         time.Now,
		workspaces:  make(map[string]*DirectoryController),
		anonymous:   NewDirectoryController(usecase, nil, internalConfig.SearchDebounce(), logger),
	}
}

func (r *WorkspaceRegistry) Get(session *models.Session) *DirectoryController {
	if session == nil || session.SessionID == "" {
		return r.anonymous
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	controller, ok := r.workspaces[session.SessionID]
	if !ok {
		controller = NewDirectoryController(r.usecase, session, r.debounce, r.log)
		r.workspaces[session.SessionID] = controller
	}
	return controller
}

func (r *WorkspaceRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

// EvictIdle drops workspaces unused for longer than the idle timeout and
// returns how many were dropped. A non-positive timeout keeps everything.
func (r *WorkspaceRegistry) EvictIdle() int {
	if r.idleTimeout <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTimeout)

	r.mu.Lock()
	var idle []*DirectoryController
	for sessionID, controller := range r.workspaces {
		if controller.LastUsed().Before(cutoff) {
			idle = append(idle, controller)
			delete(r.workspaces, sessionID)
		}
	}
	r.mu.Unlock()

	for _, controller := range idle {
		controller.Close()
	}
	if len(idle) > 0 {
		r.log.Info("WorkspaceRegistry.EvictIdle dropped idle workspaces",
			zap.Int(constvars.LoggingCountKey, len(idle)),
		)
	}
	return len(idle)
}

// Forget drops the workspace of a revoked session.
func (r *WorkspaceRegistry) Forget(sessionID string) {
	r.mu.Lock()
	controller, ok := r.workspaces[sessionID]
	delete(r.workspaces, sessionID)
	r.mu.Unlock()
	if ok {
		controller.Close()
	}
}

func (r *WorkspaceRegistry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for sessionID, controller := range r.workspaces {
		controller.Close()
		delete(r.workspaces, sessionID)
	}
	r.anonymous.Close()
}
