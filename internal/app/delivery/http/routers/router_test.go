package routers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"patient-directory-service/internal/app/config"
	"patient-directory-service/internal/app/delivery/http/controllers"
	"patient-directory-service/internal/app/delivery/http/middlewares"
	"patient-directory-service/internal/app/models"
	"patient-directory-service/internal/app/services/core/patients"
	"patient-directory-service/internal/pkg/constvars"
	"patient-directory-service/internal/pkg/dto/requests"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockPatientUsecase struct {
	mock.Mock
}

func (m *MockPatientUsecase) Search(ctx context.Context, filters requests.DirectoryFilters) ([]models.Patient, error) {
	args := m.Called(ctx, filters)
	records, _ := args.Get(0).([]models.Patient)
	return records, args.Error(1)
}

func (m *MockPatientUsecase) Get(ctx context.Context, patientID string) (*models.Patient, error) {
	args := m.Called(ctx, patientID)
	patient, _ := args.Get(0).(*models.Patient)
	return patient, args.Error(1)
}

func (m *MockPatientUsecase) Save(ctx context.Context, form *requests.CollectedPatient) (*models.Patient, error) {
	args := m.Called(ctx, form)
	patient, _ := args.Get(0).(*models.Patient)
	return patient, args.Error(1)
}

func (m *MockPatientUsecase) SetActive(ctx context.Context, patientID string, active, confirmed bool) (*models.Patient, error) {
	args := m.Called(ctx, patientID, active, confirmed)
	patient, _ := args.Get(0).(*models.Patient)
	return patient, args.Error(1)
}

func (m *MockPatientUsecase) Remove(ctx context.Context, patientID string, confirmed bool) error {
	args := m.Called(ctx, patientID, confirmed)
	return args.Error(0)
}

func (m *MockPatientUsecase) History(ctx context.Context, patientID string) ([]models.Appointment, error) {
	args := m.Called(ctx, patientID)
	appointments, _ := args.Get(0).([]models.Appointment)
	return appointments, args.Error(1)
}

func (m *MockPatientUsecase) AttachPhoto(ctx context.Context, upload *requests.PhotoUpload) (*models.Patient, error) {
	args := m.Called(ctx, upload)
	patient, _ := args.Get(0).(*models.Patient)
	return patient, args.Error(1)
}

func (m *MockPatientUsecase) Export(ctx context.Context, filters requests.DirectoryFilters) ([]byte, error) {
	args := m.Called(ctx, filters)
	workbook, _ := args.Get(0).([]byte)
	return workbook, args.Error(1)
}

func (m *MockPatientUsecase) Invalidate() {
	m.Called()
}

func (m *MockPatientUsecase) Resync(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockSessionProvider struct {
	mock.Mock
}

func (m *MockSessionProvider) Resolve(ctx context.Context, bearerToken string) (*models.Session, error) {
	args := m.Called(ctx, bearerToken)
	session, _ := args.Get(0).(*models.Session)
	return session, args.Error(1)
}

func (m *MockSessionProvider) Issue(ctx context.Context, session *models.Session, expiry time.Duration) (string, error) {
	args := m.Called(ctx, session, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockSessionProvider) Revoke(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func newRouter(t *testing.T, usecase *MockPatientUsecase, sessions *MockSessionProvider) *chi.Mux {
	t.Helper()
	logger := zap.NewNop()
	internalConfig := &config.InternalConfig{
		App: config.App{
			EndpointPrefix:             "api",
			Version:                    "v1",
			CORSOrigins:                []string{"https://clinic.example"},
			MaxRequests:                1000,
			MaxTimeRequestsPerSeconds:  60,
			RequestBodyLimitInMegabyte: 1,
			StoreTimeoutInSeconds:      2,
			SearchDebounceMs:           5,
			PhotoMaxUploadSizeInMB:     1,
			WorkspaceIdleTimeoutInMin:  5,
		},
	}
	workspaces := patients.NewWorkspaceRegistry(usecase, internalConfig, logger)
	t.Cleanup(workspaces.Close)

	router := chi.NewRouter()
	SetupRoutes(
		router,
		internalConfig,
		middlewares.NewMiddlewares(logger, sessions, internalConfig),
		controllers.NewPatientController(logger, usecase, internalConfig),
		controllers.NewWorkspaceController(logger, workspaces, sessions),
	)
	return router
}

func TestRouter_SessionGate(t *testing.T) {
	usecase := new(MockPatientUsecase)
	sessions := new(MockSessionProvider)
	sessions.On("Resolve", mock.Anything, "").Return(nil, nil)
	sessions.On("Resolve", mock.Anything, "Bearer good").Return(&models.Session{SessionID: "s-1"}, nil)
	sessions.On("Resolve", mock.Anything, "Bearer expired").Return(nil, errors.New("token expired"))
	router := newRouter(t, usecase, sessions)

	t.Run("Anonymous search is read-only", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), constvars.ReadOnlyDirectoryMessage)
		usecase.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	})

	t.Run("Anonymous read of a record is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/A-99", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Invalid token continues as anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/patients/A-99/deactivate", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer expired")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		usecase.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Signed-in read reaches the usecase", func(t *testing.T) {
		usecase.On("Get", mock.Anything, "A-99").Return(&models.Patient{ID: "A-99", FullName: "Ana Ruiz"}, nil).Once()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/A-99", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer good")
		req.Header.Set(constvars.HeaderXRequestID, "client-request-1")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "client-request-1", rr.Header().Get(constvars.HeaderXRequestID))
		usecase.AssertExpectations(t)
	})
}

func TestRouter_Middlewares(t *testing.T) {
	usecase := new(MockPatientUsecase)
	sessions := new(MockSessionProvider)
	sessions.On("Resolve", mock.Anything, "Bearer good").Return(&models.Session{SessionID: "s-1"}, nil)
	router := newRouter(t, usecase, sessions)

	t.Run("Generates a request id", func(t *testing.T) {
		sessions.On("Resolve", mock.Anything, "").Return(nil, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Contains(t, rr.Header().Get(constvars.HeaderXRequestID), constvars.REQUEST_ID_PREFIX)
	})

	t.Run("Preflight allows PATCH from the configured origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/workspace/form", nil)
		req.Header.Set("Origin", "https://clinic.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, "https://clinic.example", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
	})

	t.Run("Recovers from a panicking usecase", func(t *testing.T) {
		usecase.On("History", mock.Anything, "A-99").Run(func(args mock.Arguments) {
			panic("history exploded")
		}).Once()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/A-99/appointments", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer good")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("Deadline exceeded maps to gateway timeout", func(t *testing.T) {
		usecase.On("Export", mock.Anything, mock.Anything).Return(nil, context.DeadlineExceeded).Once()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/export", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer good")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
	})

	t.Run("Sign out revokes the session", func(t *testing.T) {
		sessions.On("Revoke", mock.Anything, "s-1").Return(nil).Once()
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/workspace", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer good")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		sessions.AssertCalled(t, "Revoke", mock.Anything, "s-1")
	})
}
