package patients

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"patient-directory-service/internal/app/config"
	"patient-directory-service/internal/app/contracts"
	"patient-directory-service/internal/app/models"
	"patient-directory-service/internal/app/services/shared/locker"
	"patient-directory-service/internal/pkg/constvars"
	"patient-directory-service/internal/pkg/dto/requests"
	"patient-directory-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.DirectoryEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event models.DirectoryEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	result := make([]string, 0, len(p.events))
	for _, event := range p.events {
		result = append(result, event.Type)
	}
	return result
}

type stubAppointments struct {
	appointments []models.Appointment
	err          error
	lastRef      models.PatientRef
}

func (s *stubAppointments) ListByPatient(ctx context.Context, patient models.PatientRef) ([]models.Appointment, error) {
	s.lastRef = patient
	return s.appointments, s.err
}

type stubPhotos struct {
	url string
	err error
}

func (s *stubPhotos) UploadPhoto(ctx context.Context, upload *requests.PhotoUpload) (string, error) {
	return s.url, s.err
}

// failingStore delegates to the memory store unless an error is queued
// for the named operation.
type failingStore struct {
	contracts.PatientStore
	mu       sync.Mutex
	failures map[string]error
}

func (s *failingStore) failOn(operation string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[operation] = err
}

func (s *failingStore) failure(operation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures[operation]
}

func (s *failingStore) Upsert(ctx context.Context, patientID string, patch *models.PatientPatch) error {
	if err := s.failure("upsert"); err != nil {
		return err
	}
	return s.PatientStore.Upsert(ctx, patientID, patch)
}

func (s *failingStore) Update(ctx context.Context, patientID string, patch *models.PatientPatch) error {
	if err := s.failure("update"); err != nil {
		return err
	}
	return s.PatientStore.Update(ctx, patientID, patch)
}

type usecaseFixture struct {
	usecase      *patientUsecase
	store        *failingStore
	locker       contracts.LockerService
	events       *recordingPublisher
	appointments *stubAppointments
}

func testInternalConfig() *config.InternalConfig {
	return &config.InternalConfig{
		App: config.App{
			StoreTimeoutInSeconds: 2,
			HardDeleteEnabled:     true,
			SearchDebounceMs:      10,
		},
		Lock: config.AppLock{TTLInSeconds: 5, RetryIntervalInMillisec: 5},
	}
}

func newUsecaseFixture(t *testing.T, cfg *config.InternalConfig, seed ...models.Patient) *usecaseFixture {
	t.Helper()
	store := &failingStore{PatientStore: NewPatientMemoryRepository(seed...), failures: make(map[string]error)}
	lockerService := locker.NewLocalLockService()
	events := &recordingPublisher{}
	appointments := &stubAppointments{}
	cache := NewDirectoryCache(store, cfg.StoreTimeout(), zap.NewNop())

	uc := NewPatientUsecase(store, cache, lockerService, appointments, &stubPhotos{url: "http://photos/p.png"}, events, cfg, zap.NewNop()).(*patientUsecase)
	uc.now = fixedNow
	return &usecaseFixture{usecase: uc, store: store, locker: lockerService, events: events, appointments: appointments}
}

func collectedCreate(givenNames, familyNames, documentNumber string) *requests.CollectedPatient {
	return &requests.CollectedPatient{
		Form: requests.PatientForm{
			GivenNames:     givenNames,
			FamilyNames:    familyNames,
			DocumentNumber: documentNumber,
		},
		FullName: models.JoinFullName(givenNames, familyNames),
	}
}

func TestPatientUsecase_CreateScenario(t *testing.T) {
	fx := newUsecaseFixture(t, testInternalConfig())
	ctx := context.Background()

	patient, err := fx.usecase.Save(ctx, collectedCreate("Maria", "Ruiz", "A-99"))
	require.NoError(t, err)
	assert.Equal(t, "A-99", patient.ID)
	assert.Equal(t, "Maria Ruiz", patient.FullName)
	assert.True(t, patient.IsActive())
	assert.NotEmpty(t, patient.CreatedAt)

	active, err := fx.usecase.Search(ctx, requests.DirectoryFilters{Term: "ruiz"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A-99"}, ids(active))

	inactive, err := fx.usecase.Search(ctx, requests.DirectoryFilters{Term: "ruiz", ShowInactive: true})
	require.NoError(t, err)
	assert.Empty(t, inactive)

	assert.Equal(t, []string{constvars.EventPatientSaved}, fx.events.types())
}

func TestPatientUsecase_SavingSameDocumentTwiceUpdatesOneRecord(t *testing.T) {
	fx := newUsecaseFixture(t, testInternalConfig())
	ctx := context.Background()

	first, err := fx.usecase.Save(ctx, collectedCreate("Juan", "Perez", "123 456"))
	require.NoError(t, err)
	second, err := fx.usecase.Save(ctx, collectedCreate("Juan Carlos", "Perez", "123 456"))
	require.NoError(t, err)

	assert.Equal(t, "123_456", first.ID)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	records, err := fx.store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Juan Carlos Perez", records[0].FullName)
}

func TestPatientUsecase_MergeLeavesUnsuppliedFields(t *testing.T) {
	fx := newUsecaseFixture(t, testInternalConfig(), models.Patient{
		ID: "p-1", GivenNames: "Ana", FamilyNames: "Lopez", DocumentNumber: "111", Notes: "allergic to X",
	})
	ctx := context.Background()

	phone := "555-1111"
	require.NoError(t, fx.store.Update(ctx, "p-1", &models.PatientPatch{Phone: &phone}))

	reloaded, err := fx.usecase.Get(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "allergic to X", reloaded.Notes)
	assert.Equal(t, "555-1111", reloaded.Phone)
}

func TestPatientUsecase_PartialEditWritesOnlySuppliedFields(t *testing.T) {
	fx := newUsecaseFixture(t, testInternalConfig(), models.Patient{
		ID: "A-1", GivenNames: "Ana", FamilyNames: "Lopez", DocumentNumber: "A-1", Phone: "111", Notes: "allergic to X",
	})
	ctx := context.Background()

	phone := "555-1111"
	form := collectedCreate("Ana", "Lopez", "A-1")
	form.PatientID = "A-1"
	form.Form.Phone = phone
	form.Supplied = &requests.PatientFormPatch{Phone: &phone}

	saved, err := fx.usecase.Save(ctx, form)
	require.NoError(t, err)
	assert.Equal(t, "555-1111", saved.Phone)
	assert.Equal(t, "allergic to X", saved.Notes)
	assert.Equal(t, "Ana Lopez", saved.FullName)
}

func TestPatientUsecase_CreateOverDeactivatedRecordReactivatesIt(t *testing.T) {
	fx := newUsecaseFixture(t, testInternalConfig(), models.Patient{
		ID: "A-99", GivenNames: "Ana", FamilyNames: "Ruiz", DocumentNumber: "A-99",
		CreatedAt: "2025-01-01T00:00:00.000Z", Active: boolPtr(false),
	})
	ctx := context.Background()

	patient, err := fx.usecase.Save(ctx, collectedCreate("Ana", "Ruiz", "A-99"))
	require.NoError(t, err)
	assert.True(t, patient.IsActive())
	assert.Equal(t, "2025-01-01T00:00:00.000Z", patient.CreatedAt)

	active, err := fx.usecase.Search(ctx, requests.DirectoryFilters{Term: "ruiz"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A-99"}, ids(active))
}

func TestPatientUsecase_EditKeepsLifecycleState(t *testing.T) {
	fx := newUsecaseFixture(t, testInternalConfig(), models.Patient{
		ID: "B-10", GivenNames: "Bruno", FamilyNames: "Diaz", DocumentNumber: "B-10", Active: boolPtr(false),
	})

	form := collectedCreate("Bruno", "Diaz", "B-10")
	form.PatientID = "B-10"
	patient, err := fx.usecase.Save(context.Background(), form)
	require.NoError(t, err)
	assert.False(t, patient.IsActive())
}

func TestPatientUsecase_SoftDeleteIsReversible(t *testing.T) {
	fx := newUsecaseFixture(t, testInternalConfig())
	ctx := context.Background()

	created, err := fx.usecase.Save(ctx, collectedCreate("Maria", "Ruiz", "A-99"))
	require.NoError(t, err)

	deactivated, err := fx.usecase.SetActive(ctx, created.ID, false, true)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive())

	inactive, err := fx.usecase.Search(ctx, requests.DirectoryFilters{ShowInactive: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"A-99"}, ids(inactive))

	reactivated, err := fx.usecase.SetActive(ctx, created.ID, true, true)
	require.NoError(t, err)
	assert.Equal(t, *created, *reactivated)

	assert.Equal(t, []string{
		constvars.EventPatientSaved,
		constvars.EventPatientDeactivated,
		constvars.EventPatientActivated,
	}, fx.events.types())
}

func TestPatientUsecase_ConfirmationGate(t *testing.T) {
	fx := newUsecaseFixture(t, testInternalConfig(), models.Patient{ID: "p-1", FullName: "Ana Lopez"})
	ctx := context.Background()

	_, err := fx.usecase.SetActive(ctx, "p-1", false, false)
	assert.True(t, errors.Is(err, exceptions.ErrConfirmationRequired))

	err = fx.usecase.Remove(ctx, "p-1", false)
	assert.True(t, errors.Is(err, exceptions.ErrConfirmationRequired))

	record, err := fx.store.FindByID(ctx, "p-1")
	require.NoError(t, err)
	assert.True(t, record.IsActive())
}

func TestPatientUsecase_RemoveRequiresCapability(t *testing.T) {
	cfg := testInternalConfig()
	cfg.App.HardDeleteEnabled = false
	fx := newUsecaseFixture(t, cfg, models.Patient{ID: "p-1"})

	err := fx.usecase.Remove(context.Background(), "p-1", true)
	assert.True(t, errors.Is(err, exceptions.ErrHardDeleteDisabled))
}

func TestPatientUsecase_Remove(t *testing.T) {
	fx := newUsecaseFixture(t, testInternalConfig(), models.Patient{ID: "p-1", FullName: "Ana Lopez"})
	ctx := context.Background()

	_, err := fx.usecase.Search(ctx, requests.DirectoryFilters{})
	require.NoError(t, err)

	require.NoError(t, fx.usecase.Remove(ctx, "p-1", true))

	records, err := fx.usecase.Search(ctx, requests.DirectoryFilters{})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, []string{constvars.EventPatientRemoved}, fx.events.types())
}

func TestPatientUsecase_NotFoundRefreshesDirectory(t *testing.T) {
	fx := newUsecaseFixture(t, testInternalConfig(), models.Patient{ID: "p-1", FullName: "Ana Lopez"})
	ctx := context.Background()

	rows, err := fx.usecase.Search(ctx, requests.DirectoryFilters{})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// another user deletes the record behind this instance's back
	require.NoError(t, fx.store.Remove(ctx, "p-1"))

	_, err = fx.usecase.SetActive(ctx, "p-1", false, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, exceptions.ErrPatientNotFound))

	current := fx.usecase.Cache.Current()
	require.NotNil(t, current)
	assert.Empty(t, current.Records)
}

func TestPatientUsecase_EditOfMissingRecordDoesNotRecreateIt(t *testing.T) {
	fx := newUsecaseFixture(t, testInternalConfig())
	form := collectedCreate("Ana", "Lopez", "111")
	form.PatientID = "gone"

	_, err := fx.usecase.Save(context.Background(), form)
	assert.True(t, errors.Is(err, exceptions.ErrPatientNotFound))

	record, err := fx.store.FindByID(context.Background(), "gone")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestPatientUsecase_StoreFailureLeavesCacheUntouched(t *testing.T) {
	fx := newUsecaseFixture(t, testInternalConfig(), models.Patient{ID: "p-1", FullName: "Ana Lopez"})
	ctx := context.Background()

	_, err := fx.usecase.Search(ctx, requests.DirectoryFilters{})
	require.NoError(t, err)
	before := fx.usecase.Cache.Current()

	fx.store.failOn("upsert", exceptions.ErrStoreUnavailableWrap(errors.New("network down"), "upsert"))
	_, err = fx.usecase.Save(ctx, collectedCreate("Juan", "Perez", "222"))
	require.Error(t, err)
	assert.True(t, exceptions.IsRetryable(err))

	assert.Same(t, before, fx.usecase.Cache.Current())
	assert.Empty(t, fx.events.types())
}

func TestPatientUsecase_BusyRecord(t *testing.T) {
	cfg := testInternalConfig()
	cfg.App.StoreTimeoutInSeconds = 1
	fx := newUsecaseFixture(t, cfg, models.Patient{ID: "p-1", FullName: "Ana Lopez"})
	ctx := context.Background()

	acquired, _, err := fx.locker.TryLock(ctx, "patients:lock:p-1", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	_, err = fx.usecase.SetActive(ctx, "p-1", false, true)
	assert.True(t, errors.Is(err, exceptions.ErrPatientBusy))
}

func TestPatientUsecase_History(t *testing.T) {
	fx := newUsecaseFixture(t, testInternalConfig(), models.Patient{ID: "p-1", GivenNames: "Ana", FamilyNames: "Lopez"})
	fx.appointments.appointments = []models.Appointment{{Date: "2026-01-02", Doctor: "Dr. Perez"}}

	appointments, err := fx.usecase.History(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Len(t, appointments, 1)
	assert.Equal(t, models.PatientRef{ID: "p-1", FullName: "Ana Lopez"}, fx.appointments.lastRef)

	fx.appointments.err = errors.New("timeout")
	_, err = fx.usecase.History(context.Background(), "p-1")
	require.Error(t, err)
	var customErr *exceptions.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, constvars.StatusServiceUnavailable, customErr.StatusCode)
}

func TestPatientUsecase_AttachPhoto(t *testing.T) {
	fx := newUsecaseFixture(t, testInternalConfig(), models.Patient{ID: "p-1", FullName: "Ana Lopez", Notes: "keep"})

	patient, err := fx.usecase.AttachPhoto(context.Background(), &requests.PhotoUpload{PatientID: "p-1", Data: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, "http://photos/p.png", patient.PhotoURL)
	assert.Equal(t, "keep", patient.Notes)

	_, err = fx.usecase.AttachPhoto(context.Background(), &requests.PhotoUpload{PatientID: "missing"})
	assert.True(t, errors.Is(err, exceptions.ErrPatientNotFound))
}

func TestPatientUsecase_Export(t *testing.T) {
	fx := newUsecaseFixture(t, testInternalConfig(),
		models.Patient{ID: "1", FullName: "Ana Lopez", DocumentNumber: "111"},
		models.Patient{ID: "2", FullName: "Carlos Diaz", DocumentNumber: "222", Active: boolPtr(false)},
	)

	workbook, err := fx.usecase.Export(context.Background(), requests.DirectoryFilters{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytesReader(workbook))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ID", rows[1][0])
	assert.Equal(t, "Ana Lopez", rows[2][1])
}
