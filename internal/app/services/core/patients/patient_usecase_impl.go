package patients

import (
	"context"
	"errors"
	"fmt"
	"patient-directory-service/internal/app/config"
	"patient-directory-service/internal/app/contracts"
	"patient-directory-service/internal/app/models"
	"patient-directory-service/internal/app/services/shared/locker"
	"patient-directory-service/internal/pkg/constvars"
	"patient-directory-service/internal/pkg/dto/requests"
	"patient-directory-service/internal/pkg/exceptions"
	"patient-directory-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

type patientUsecase struct {
	Store          contracts.PatientStore
	Cache          *DirectoryCache
	LockerService  contracts.LockerService
	Appointments   contracts.AppointmentHistory
	PhotoStorage   contracts.PhotoStorage
	Events         contracts.DirectoryEventPublisher
	InternalConfig *config.InternalConfig
	Log            *zap.Logger
	now            func() time.Time
}

func NewPatientUsecase(
	store contracts.PatientStore,
	cache *DirectoryCache,
	lockerService contracts.LockerService,
	appointments contracts.AppointmentHistory,
	photoStorage contracts.PhotoStorage,
	events contracts.DirectoryEventPublisher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.PatientUsecase {
	return &patientUsecase{
		Store:          store,
		Cache:          cache,
		LockerService:  lockerService,
		Appointments:   appointments,
		PhotoStorage:   photoStorage,
		Events:         events,
		InternalConfig: internalConfig,
		Log:            logger,
		now:            time.Now,
	}
}

func (uc *patientUsecase) Search(ctx context.Context, filters requests.DirectoryFilters) ([]models.Patient, error) {
	snapshot, err := uc.Cache.Read(ctx)
	if err != nil {
		return nil, err
	}
	return SortForDisplay(ApplyFilters(snapshot.Records, filters)), nil
}

func (uc *patientUsecase) Get(ctx context.Context, patientID string) (*models.Patient, error) {
	storeCtx, cancel := context.WithTimeout(ctx, uc.InternalConfig.StoreTimeout())
	defer cancel()

	patient, err := uc.Store.FindByID(storeCtx, patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		uc.refreshAfterMissing(ctx, patientID)
		return nil, exceptions.ErrPatientNotFoundWrap(nil, patientID)
	}
	return patient, nil
}

func (uc *patientUsecase) Save(ctx context.Context, form *requests.CollectedPatient) (*models.Patient, error) {
	patientID, err := ResolvePatientID(form.PatientID, form.Form.DocumentNumber)
	if err != nil {
		return nil, err
	}

	patch := buildSavePatch(form, uc.now())
	err = uc.withRecordLock(ctx, patientID, func(storeCtx context.Context) error {
		if form.IsEdit() {
			return uc.Store.Update(storeCtx, patientID, patch)
		}
		return uc.Store.Upsert(storeCtx, patientID, patch)
	})
	if err != nil {
		if errors.Is(err, exceptions.ErrPatientNotFound) {
			uc.refreshAfterMissing(ctx, patientID)
		}
		return nil, err
	}

	patient, err := uc.reload(ctx, patientID)
	if err != nil {
		return nil, err
	}

	utils.LogBusinessEvent(uc.Log, constvars.EventPatientSaved, utils.GetRequestID(ctx),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.Bool("is_edit", form.IsEdit()),
	)
	uc.publish(ctx, constvars.EventPatientSaved, patientID)
	return patient, nil
}

// buildSavePatch writes every form field so an edit replaces what the user
// saw, unless the form carries the set of supplied fields. A create always
// leaves the record active, including one that reuses the document number
// of a deactivated patient. Identity and createdAt are left to the store.
func buildSavePatch(form *requests.CollectedPatient, now time.Time) *models.PatientPatch {
	values := form.Form
	patch := &models.PatientPatch{
		GivenNames:     &values.GivenNames,
		FamilyNames:    &values.FamilyNames,
		DocumentType:   &values.DocumentType,
		DocumentNumber: &values.DocumentNumber,
		BirthDate:      &values.BirthDate,
		Phone:          &values.Phone,
		Email:          &values.Email,
		Doctor:         &values.Doctor,
		BirthCountry:   &values.BirthCountry,
		BirthCity:      &values.BirthCity,
		HomeCountry:    &values.HomeCountry,
		HomeCity:       &values.HomeCity,
		Neighborhood:   &values.Neighborhood,
		Residence:      &values.Residence,
		Notes:          &values.Notes,
		UpdatedAt:      utils.FormatTimestamp(now),
	}
	if supplied := form.Supplied; supplied != nil && form.IsEdit() {
		keep := func(target **string, given *string) {
			if given == nil {
				*target = nil
			}
		}
		keep(&patch.GivenNames, supplied.GivenNames)
		keep(&patch.FamilyNames, supplied.FamilyNames)
		keep(&patch.DocumentType, supplied.DocumentType)
		keep(&patch.DocumentNumber, supplied.DocumentNumber)
		keep(&patch.BirthDate, supplied.BirthDate)
		keep(&patch.Phone, supplied.Phone)
		keep(&patch.Email, supplied.Email)
		keep(&patch.Doctor, supplied.Doctor)
		keep(&patch.BirthCountry, supplied.BirthCountry)
		keep(&patch.BirthCity, supplied.BirthCity)
		keep(&patch.HomeCountry, supplied.HomeCountry)
		keep(&patch.HomeCity, supplied.HomeCity)
		keep(&patch.Neighborhood, supplied.Neighborhood)
		keep(&patch.Residence, supplied.Residence)
		keep(&patch.Notes, supplied.Notes)
	}
	if !form.IsEdit() {
		active := true
		patch.Active = &active
	}

	fullName := form.FullName
	if fullName == "" {
		fullName = models.JoinFullName(values.GivenNames, values.FamilyNames)
	}
	patch.FullName = &fullName

	if form.Age != nil {
		age := *form.Age
		patch.Age = &age
	} else {
		patch.ClearAge = true
	}
	return patch
}

func (uc *patientUsecase) SetActive(ctx context.Context, patientID string, active, confirmed bool) (*models.Patient, error) {
	if !confirmed {
		return nil, exceptions.ErrNeedConfirmation()
	}

	err := uc.withRecordLock(ctx, patientID, func(storeCtx context.Context) error {
		return uc.Store.SetActive(storeCtx, patientID, active)
	})
	if err != nil {
		if errors.Is(err, exceptions.ErrPatientNotFound) {
			uc.refreshAfterMissing(ctx, patientID)
		}
		return nil, err
	}

	patient, err := uc.reload(ctx, patientID)
	if err != nil {
		return nil, err
	}

	eventType := constvars.EventPatientDeactivated
	if active {
		eventType = constvars.EventPatientActivated
	}
	utils.LogBusinessEvent(uc.Log, eventType, utils.GetRequestID(ctx),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)
	uc.publish(ctx, eventType, patientID)
	return patient, nil
}

func (uc *patientUsecase) Remove(ctx context.Context, patientID string, confirmed bool) error {
	if !uc.InternalConfig.App.HardDeleteEnabled {
		return exceptions.ErrHardDeleteNotEnabled()
	}
	if !confirmed {
		return exceptions.ErrNeedConfirmation()
	}

	err := uc.withRecordLock(ctx, patientID, func(storeCtx context.Context) error {
		return uc.Store.Remove(storeCtx, patientID)
	})
	if err != nil {
		if errors.Is(err, exceptions.ErrPatientNotFound) {
			uc.refreshAfterMissing(ctx, patientID)
		}
		return err
	}

	uc.Cache.Invalidate()
	if _, err := uc.Cache.Refresh(ctx); err != nil {
		return err
	}

	utils.LogBusinessEvent(uc.Log, constvars.EventPatientRemoved, utils.GetRequestID(ctx),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)
	uc.publish(ctx, constvars.EventPatientRemoved, patientID)
	return nil
}

func (uc *patientUsecase) History(ctx context.Context, patientID string) ([]models.Appointment, error) {
	patient, err := uc.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}

	storeCtx, cancel := context.WithTimeout(ctx, uc.InternalConfig.StoreTimeout())
	defer cancel()

	appointments, err := uc.Appointments.ListByPatient(storeCtx, models.PatientRef{
		ID:       patient.ID,
		FullName: patient.DisplayName(),
	})
	if err != nil {
		var customErr *exceptions.CustomError
		if errors.As(err, &customErr) {
			return nil, err
		}
		return nil, exceptions.ErrAppointmentHistory(err)
	}
	return appointments, nil
}

func (uc *patientUsecase) AttachPhoto(ctx context.Context, upload *requests.PhotoUpload) (*models.Patient, error) {
	if _, err := uc.Get(ctx, upload.PatientID); err != nil {
		return nil, err
	}

	storeCtx, cancel := context.WithTimeout(ctx, uc.InternalConfig.StoreTimeout())
	photoURL, err := uc.PhotoStorage.UploadPhoto(storeCtx, upload)
	cancel()
	if err != nil {
		return nil, err
	}

	patch := &models.PatientPatch{
		PhotoURL:  &photoURL,
		UpdatedAt: utils.FormatTimestamp(uc.now()),
	}
	err = uc.withRecordLock(ctx, upload.PatientID, func(storeCtx context.Context) error {
		return uc.Store.Update(storeCtx, upload.PatientID, patch)
	})
	if err != nil {
		if errors.Is(err, exceptions.ErrPatientNotFound) {
			uc.refreshAfterMissing(ctx, upload.PatientID)
		}
		return nil, err
	}

	patient, err := uc.reload(ctx, upload.PatientID)
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, constvars.EventPatientPhoto, upload.PatientID)
	return patient, nil
}

func (uc *patientUsecase) Export(ctx context.Context, filters requests.DirectoryFilters) ([]byte, error) {
	records, err := uc.Search(ctx, filters)
	if err != nil {
		return nil, err
	}

	workbook, err := BuildDirectoryWorkbook(records, exportTitle(filters.Term, filters.Doctor, filters.ShowInactive))
	if err != nil {
		return nil, exceptions.ErrExportFailed(err)
	}
	return workbook, nil
}

func (uc *patientUsecase) Invalidate() {
	uc.Cache.Invalidate()
}

func (uc *patientUsecase) Resync(ctx context.Context) error {
	uc.Cache.Invalidate()
	_, err := uc.Cache.Refresh(ctx)
	return err
}

// withRecordLock runs fn while holding the record's lock. Lock acquisition
// and fn share one store timeout.
func (uc *patientUsecase) withRecordLock(ctx context.Context, patientID string, fn func(context.Context) error) error {
	storeCtx, cancel := context.WithTimeout(ctx, uc.InternalConfig.StoreTimeout())
	defer cancel()

	lockKey := fmt.Sprintf(constvars.RedisPatientLockFormat, patientID)
	release, err := locker.Acquire(
		storeCtx,
		uc.LockerService,
		lockKey,
		time.Duration(uc.InternalConfig.Lock.TTLInSeconds)*time.Second,
		time.Duration(uc.InternalConfig.Lock.RetryIntervalInMillisec)*time.Millisecond,
	)
	if err != nil {
		if locker.IsNotAcquired(err) {
			return exceptions.ErrRecordBusy(err, patientID)
		}
		return exceptions.ErrStoreUnavailableWrap(err, "lock")
	}
	defer func() {
		releaseCtx, releaseCancel := context.WithTimeout(context.WithoutCancel(ctx), uc.InternalConfig.StoreTimeout())
		defer releaseCancel()
		if err := release(releaseCtx); err != nil {
			uc.Log.Warn("patientUsecase.withRecordLock failed to release lock",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
				zap.String(constvars.LoggingRedisKey, lockKey),
				zap.Error(err),
			)
		}
	}()

	return fn(storeCtx)
}

// reload refreshes the snapshot after a write and returns the record as
// the store now holds it.
func (uc *patientUsecase) reload(ctx context.Context, patientID string) (*models.Patient, error) {
	uc.Cache.Invalidate()
	snapshot, err := uc.Cache.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	if patient := snapshot.Find(patientID); patient != nil {
		return patient, nil
	}
	return nil, exceptions.ErrPatientNotFoundWrap(nil, patientID)
}

func (uc *patientUsecase) refreshAfterMissing(ctx context.Context, patientID string) {
	uc.Log.Info("patientUsecase record missing in store, refreshing directory",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)
	uc.Cache.Invalidate()
	if _, err := uc.Cache.Refresh(ctx); err != nil {
		uc.Log.Warn("patientUsecase refresh after missing record failed",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.Error(err),
		)
	}
}

func (uc *patientUsecase) publish(ctx context.Context, eventType, patientID string) {
	if uc.Events == nil {
		return
	}
	event := models.DirectoryEvent{
		Type:       eventType,
		PatientID:  patientID,
		OccurredAt: uc.now().UTC(),
	}
	if err := uc.Events.Publish(ctx, event); err != nil {
		uc.Log.Warn("patientUsecase failed to publish directory event",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingEventTypeKey, eventType),
			zap.String(constvars.LoggingPatientIDKey, patientID),
			zap.Error(err),
		)
	}
}
