package patients

import (
	"context"
	"errors"
	"patient-directory-service/internal/app/contracts"
	"patient-directory-service/internal/app/models"
	"patient-directory-service/internal/pkg/constvars"
	"patient-directory-service/internal/pkg/dto/requests"
	"patient-directory-service/internal/pkg/dto/responses"
	"patient-directory-service/internal/pkg/exceptions"
	"patient-directory-service/internal/pkg/utils"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DirectoryController is one session's workspace: its filters, its open
// form and the last rendered table.
type DirectoryController struct {
	usecase  contracts.PatientUsecase
	session  *models.Session
	debounce time.Duration
	log      *zap.Logger
	now      func() time.Time

	// actionMu admits one mutation or form transition at a time.
	actionMu sync.Mutex

	mu       sync.Mutex
	binder   *FormBinder
	filters  requests.DirectoryFilters
	seq      uint64
	pending  *time.Timer
	view     responses.DirectoryView
	rendered bool
	lastUsed time.Time
}

func NewDirectoryController(usecase contracts.PatientUsecase, session *models.Session, debounce time.Duration, logger *zap.Logger) *DirectoryController {
	now := time.Now
	return &DirectoryController{
		usecase:  usecase,
		session:  session,
		debounce: debounce,
		log:      logger,
		now:      now,
		binder:   NewFormBinder(now),
		lastUsed: now(),
	}
}

func (c *DirectoryController) ReadOnly() bool {
	return c.session == nil
}

func (c *DirectoryController) touch() {
	c.lastUsed = c.now()
}

func (c *DirectoryController) LastUsed() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUsed
}

// View returns the last rendered table, rendering once if nothing was
// rendered yet.
func (c *DirectoryController) View(ctx context.Context) (responses.DirectoryView, error) {
	c.mu.Lock()
	c.touch()
	if c.rendered {
		view := c.view
		c.mu.Unlock()
		return view, nil
	}
	c.mu.Unlock()

	if _, err := c.rerender(ctx); err != nil {
		return c.currentView(), err
	}
	return c.currentView(), nil
}

func (c *DirectoryController) currentView() responses.DirectoryView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// SetFilters schedules a filter application after the debounce delay and
// returns its sequence. A later call cancels a pending application, and a
// slower earlier application never replaces the view of a later one.
func (c *DirectoryController) SetFilters(ctx context.Context, filters requests.DirectoryFilters) uint64 {
	utils.SanitizeDirectoryFilters(&filters)
	applyCtx := context.WithoutCancel(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.touch()
	c.filters = filters
	c.seq++
	seq := c.seq
	if c.pending != nil {
		c.pending.Stop()
	}
	c.pending = time.AfterFunc(c.debounce, func() {
		if err := c.render(applyCtx, seq, filters); err != nil {
			c.log.Warn("DirectoryController.SetFilters filter application failed",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(applyCtx)),
				zap.Uint64(constvars.LoggingSequenceKey, seq),
				zap.Error(err),
			)
		}
	})
	return seq
}

// rerender applies the current filters now, superseding pending ones.
func (c *DirectoryController) rerender(ctx context.Context) (responses.DirectoryView, error) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	filters := c.filters
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	c.mu.Unlock()

	err := c.render(ctx, seq, filters)
	return c.currentView(), err
}

func (c *DirectoryController) render(ctx context.Context, seq uint64, filters requests.DirectoryFilters) error {
	if c.session == nil {
		c.publishView(seq, responses.DirectoryView{
			Seq:      seq,
			Filters:  filters,
			Rows:     []responses.PatientRow{},
			ReadOnly: true,
			Message:  constvars.ReadOnlyDirectoryMessage,
		})
		return nil
	}

	records, err := c.usecase.Search(ctx, filters)
	if err != nil {
		c.mu.Lock()
		if seq == c.seq {
			c.view.Message = clientMessage(err)
		}
		c.mu.Unlock()
		return err
	}

	if !c.publishView(seq, responses.DirectoryView{
		Seq:     seq,
		Filters: filters,
		Rows:    utils.BuildPatientRows(records),
	}) {
		c.log.Debug("DirectoryController.render discarded superseded result",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.Uint64(constvars.LoggingSequenceKey, seq),
		)
	}
	return nil
}

// publishView installs view only if seq is still the latest issued.
func (c *DirectoryController) publishView(seq uint64, view responses.DirectoryView) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return false
	}
	view.RenderedAt = c.now()
	c.view = view
	c.rendered = true
	return true
}

func clientMessage(err error) string {
	var customErr *exceptions.CustomError
	if errors.As(err, &customErr) {
		return customErr.ClientMessage
	}
	return constvars.ErrClientSomethingWrongWithApplication
}

func (c *DirectoryController) requireSession() error {
	if c.session == nil {
		return exceptions.ErrNoSession()
	}
	return nil
}

func (c *DirectoryController) FormState() responses.FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	return c.binder.State()
}

func (c *DirectoryController) OpenCreate() (responses.FormState, error) {
	if err := c.requireSession(); err != nil {
		return responses.FormState{}, err
	}
	c.actionMu.Lock()
	defer c.actionMu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	if err := c.binder.Open(constvars.FormModeCreate, nil); err != nil {
		return responses.FormState{}, err
	}
	return c.binder.State(), nil
}

// OpenEdit loads the record and its appointment history. A history
// failure leaves the form open without appointments.
func (c *DirectoryController) OpenEdit(ctx context.Context, patientID string) (*responses.OpenedForm, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	c.actionMu.Lock()
	defer c.actionMu.Unlock()

	record, err := c.usecase.Get(ctx, patientID)
	if err != nil {
		if errors.Is(err, exceptions.ErrPatientNotFound) {
			c.rerender(ctx)
		}
		return nil, err
	}

	c.mu.Lock()
	c.touch()
	err = c.binder.Open(constvars.FormModeEdit, record)
	state := c.binder.State()
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	opened := &responses.OpenedForm{Form: state}
	appointments, err := c.usecase.History(ctx, patientID)
	if err != nil {
		c.log.Warn("DirectoryController.OpenEdit appointment history unavailable",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingPatientIDKey, patientID),
			zap.Error(err),
		)
		return opened, nil
	}
	opened.Appointments = utils.BuildAppointmentResponses(appointments)
	return opened, nil
}

// EditForm waits for a submit in flight. An edit that lands after a
// successful submit finds the form closed.
func (c *DirectoryController) EditForm(patch requests.PatientFormPatch) (responses.FormState, error) {
	if err := c.requireSession(); err != nil {
		return responses.FormState{}, err
	}
	c.actionMu.Lock()
	defer c.actionMu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	return c.binder.Set(patch)
}

func (c *DirectoryController) CloseForm() responses.FormState {
	c.actionMu.Lock()
	defer c.actionMu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.binder.Close()
	return c.binder.State()
}

// Submit saves the open form. On any failure the form keeps the entered
// data; on success it is closed and the table re-rendered.
func (c *DirectoryController) Submit(ctx context.Context) (*responses.SubmittedForm, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	c.actionMu.Lock()
	defer c.actionMu.Unlock()

	c.mu.Lock()
	c.touch()
	collected, err := c.binder.Collect()
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	patient, err := c.usecase.Save(ctx, collected)
	if err != nil {
		if errors.Is(err, exceptions.ErrPatientNotFound) {
			c.rerender(ctx)
		}
		return nil, err
	}

	c.mu.Lock()
	c.binder.Close()
	c.mu.Unlock()

	view, err := c.rerender(ctx)
	if err != nil {
		c.log.Warn("DirectoryController.Submit re-render after save failed",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingPatientIDKey, patient.ID),
			zap.Error(err),
		)
	}
	return &responses.SubmittedForm{
		Patient: utils.BuildPatientResponse(*patient, c.now()),
		View:    view,
	}, nil
}

func (c *DirectoryController) SetActive(ctx context.Context, patientID string, active, confirmed bool) (responses.DirectoryView, error) {
	return c.mutate(ctx, patientID, func() error {
		_, err := c.usecase.SetActive(ctx, patientID, active, confirmed)
		return err
	})
}

func (c *DirectoryController) Remove(ctx context.Context, patientID string, confirmed bool) (responses.DirectoryView, error) {
	return c.mutate(ctx, patientID, func() error {
		return c.usecase.Remove(ctx, patientID, confirmed)
	})
}

// mutate leaves the rendered view untouched when the mutation fails,
// except on NotFound where the stale row must go.
func (c *DirectoryController) mutate(ctx context.Context, patientID string, fn func() error) (responses.DirectoryView, error) {
	if err := c.requireSession(); err != nil {
		return responses.DirectoryView{}, err
	}
	c.actionMu.Lock()
	defer c.actionMu.Unlock()

	c.mu.Lock()
	c.touch()
	c.mu.Unlock()

	if err := fn(); err != nil {
		if errors.Is(err, exceptions.ErrPatientNotFound) {
			view, _ := c.rerender(ctx)
			return view, err
		}
		return c.currentView(), err
	}

	view, err := c.rerender(ctx)
	if err != nil {
		c.log.Warn("DirectoryController.mutate re-render failed",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingPatientIDKey, patientID),
			zap.Error(err),
		)
	}
	return view, nil
}

// Close stops a pending filter application.
func (c *DirectoryController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}
