package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"patient-directory-service/internal/app/config"
	"patient-directory-service/internal/app/contracts"
	"patient-directory-service/internal/app/delivery/http/controllers"
	"patient-directory-service/internal/app/delivery/http/middlewares"
	"patient-directory-service/internal/app/delivery/http/routers"
	"patient-directory-service/internal/app/drivers/database"
	"patient-directory-service/internal/app/drivers/logger"
	"patient-directory-service/internal/app/drivers/messaging"
	"patient-directory-service/internal/app/drivers/storage"
	"patient-directory-service/internal/app/models"
	"patient-directory-service/internal/app/services/core/appointments"
	"patient-directory-service/internal/app/services/core/patients"
	"patient-directory-service/internal/app/services/shared/directoryevents"
	"patient-directory-service/internal/app/services/shared/locker"
	"patient-directory-service/internal/app/services/shared/redis"
	"patient-directory-service/internal/app/services/shared/session"
	photoStorage "patient-directory-service/internal/app/services/shared/storage"
	"patient-directory-service/internal/pkg/constvars"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig, err := config.NewInternalConfig()
	if err != nil {
		log.Fatalf("Error loading internal config: %v", err)
	}

	logger := logger.NewZapLogger(driverConfig, internalConfig)

	bootstrap := &config.Bootstrap{
		Router:         chi.NewRouter(),
		Logger:         logger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}
	connectDrivers(bootstrap)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bootstrapingTheApp(ctx, bootstrap); err != nil {
		logger.Fatal("Failed to bootstrap the app", zap.Error(err))
	}

	server := &http.Server{
		Addr:    internalConfig.App.Address + ":" + internalConfig.App.Port,
		Handler: bootstrap.Router,
	}

	go func() {
		logger.Info("Server started",
			zap.String("address", server.Addr),
			zap.String(constvars.LoggingStoreDriverKey, internalConfig.Store.Driver),
		)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()

	logger.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error while closing drivers: %v", err)
	}

	log.Println("Server exiting")
}

// connectDrivers opens only the connections the configuration needs. The
// memory store runs without any external service.
func connectDrivers(bootstrap *config.Bootstrap) {
	internalConfig := bootstrap.InternalConfig
	driverConfig := bootstrap.DriverConfig

	switch internalConfig.Store.Driver {
	case constvars.StoreDriverMongoDB:
		bootstrap.MongoDB = database.NewMongoDB(driverConfig)
	case constvars.StoreDriverFirestore:
		bootstrap.Firestore = database.NewFirestore(driverConfig)
	}
	if bootstrap.MongoDB == nil && internalConfig.Appointment.Source == constvars.AppointmentSourceMongoDB && internalConfig.Store.Driver != constvars.StoreDriverMemory {
		bootstrap.MongoDB = database.NewMongoDB(driverConfig)
	}

	if internalConfig.Store.Driver == constvars.StoreDriverMemory {
		bootstrap.Redis, bootstrap.EmbeddedRedisStop = database.NewEmbeddedRedisClient()
	} else {
		bootstrap.Redis = database.NewRedisClient(driverConfig)
	}
	if internalConfig.Minio.Enabled {
		bootstrap.Minio = storage.NewMinio(driverConfig, internalConfig.Minio.BucketName)
	}
	if internalConfig.RabbitMQ.Enabled {
		bootstrap.RabbitMQ = messaging.NewRabbitMQ(driverConfig)
	}
}

func bootstrapingTheApp(ctx context.Context, bootstrap *config.Bootstrap) error {
	internalConfig := bootstrap.InternalConfig
	log := bootstrap.Logger

	instanceID := internalConfig.App.InstanceID
	if instanceID == "" {
		instanceID = uuid.NewString()
	}

	// Patient store
	var patientStore contracts.PatientStore
	switch internalConfig.Store.Driver {
	case constvars.StoreDriverMongoDB:
		db := bootstrap.MongoDB.Database(bootstrap.DriverConfig.MongoDB.DbName)
		if _, err := patients.EnsurePatientIndexes(ctx, db); err != nil {
			log.Warn("Failed to ensure patient indexes", zap.Error(err))
		}
		patientStore = patients.NewPatientMongoRepository(db, log)
	case constvars.StoreDriverFirestore:
		patientStore = patients.NewPatientFirestoreRepository(bootstrap.Firestore, log)
	default:
		patientStore = patients.NewPatientMemoryRepository()
	}

	// Redis
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, log)

	// Sessions
	sessionProvider := session.NewSessionProvider(redisRepository, internalConfig.JWT.Secret, log)

	// Appointment history
	var appointmentHistory contracts.AppointmentHistory
	switch {
	case internalConfig.Appointment.Source == constvars.AppointmentSourceHTTP:
		appointmentHistory = appointments.NewAppointmentHTTPClient(
			internalConfig.Appointment.BaseURL,
			internalConfig.Appointment.MatchBy,
			time.Duration(internalConfig.Appointment.HTTPTimeoutInSeconds)*time.Second,
			internalConfig.Appointment.HTTPRetryCount,
			log,
		)
	case bootstrap.MongoDB != nil:
		appointmentHistory = appointments.NewAppointmentMongoRepository(
			bootstrap.MongoDB.Database(bootstrap.DriverConfig.MongoDB.DbName),
			internalConfig.Appointment.MatchBy,
			log,
		)
	default:
		appointmentHistory = appointments.NewEmptyAppointmentHistory()
	}

	// Photos
	var photos contracts.PhotoStorage
	if bootstrap.Minio != nil {
		photos = photoStorage.NewMinioPhotoStorage(
			bootstrap.Minio,
			internalConfig.Minio.BucketName,
			internalConfig.Minio.PublicBaseURL,
			internalConfig.PhotoMaxUploadSize(),
			log,
		)
	} else {
		photos = photoStorage.NewInlinePhotoStorage(internalConfig.PhotoMaxUploadSize())
	}

	// Directory events
	var publisher contracts.DirectoryEventPublisher = directoryevents.NoopEvents{}
	var subscriber contracts.DirectoryEventSubscriber = directoryevents.NoopEvents{}
	var rabbitEvents *directoryevents.RabbitMQEvents
	if bootstrap.RabbitMQ != nil {
		events, err := directoryevents.NewRabbitMQEvents(bootstrap.RabbitMQ, internalConfig.RabbitMQ.Exchange, instanceID, log)
		if err != nil {
			return err
		}
		rabbitEvents = events
		publisher = events
		subscriber = events
	}

	// Patients
	directoryCache := patients.NewDirectoryCache(patientStore, internalConfig.StoreTimeout(), log)
	patientUsecase := patients.NewPatientUsecase(
		patientStore,
		directoryCache,
		lockerService,
		appointmentHistory,
		photos,
		publisher,
		internalConfig,
		log,
	)
	workspaces := patients.NewWorkspaceRegistry(patientUsecase, internalConfig, log)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	go func() {
		err := subscriber.Subscribe(workerCtx, func(event models.DirectoryEvent) {
			log.Debug("Directory event from another instance",
				zap.String(constvars.LoggingEventTypeKey, event.Type),
				zap.String(constvars.LoggingPatientIDKey, event.PatientID),
			)
			patientUsecase.Invalidate()
		})
		if err != nil {
			log.Error("Directory event subscription stopped", zap.Error(err))
		}
	}()

	var resyncWorker *patients.ResyncWorker
	if internalConfig.Resync.Enabled {
		resyncWorker = patients.NewResyncWorker(log, internalConfig, patientUsecase, workspaces)
		resyncWorker.Start(workerCtx)
	}

	bootstrap.WorkerStop = func() {
		cancelWorkers()
		if resyncWorker != nil {
			resyncWorker.Stop()
		}
		workspaces.Close()
		if rabbitEvents != nil {
			if err := rabbitEvents.Close(); err != nil {
				log.Warn("Failed to close directory events channel", zap.Error(err))
			}
		}
	}

	// Middlewares
	middlewares := middlewares.NewMiddlewares(log, sessionProvider, internalConfig)

	// Controllers
	patientController := controllers.NewPatientController(log, patientUsecase, internalConfig)
	workspaceController := controllers.NewWorkspaceController(log, workspaces, sessionProvider)

	routers.SetupRoutes(bootstrap.Router, internalConfig, middlewares, patientController, workspaceController)
	return nil
}
