package main

import (
	"context"
	"fmt"
	"os"
	"patient-directory-service/internal/app/config"
	"patient-directory-service/internal/app/contracts"
	"patient-directory-service/internal/app/drivers/database"
	"patient-directory-service/internal/app/drivers/logger"
	"patient-directory-service/internal/app/models"
	"patient-directory-service/internal/app/services/core/appointments"
	"patient-directory-service/internal/app/services/core/patients"
	"patient-directory-service/internal/app/services/shared/directoryevents"
	"patient-directory-service/internal/app/services/shared/locker"
	"patient-directory-service/internal/app/services/shared/redis"
	"patient-directory-service/internal/app/services/shared/session"
	"patient-directory-service/internal/app/services/shared/storage"
	"patient-directory-service/internal/pkg/constvars"
	"patient-directory-service/internal/pkg/dto/requests"
	"patient-directory-service/internal/pkg/utils"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version sets the default build version
var Version = "develop"

// Tag sets the default latest commit tag
var Tag = "0.0.1-rc"

func main() {
	rootCmd := &cobra.Command{
		Use:   "directoryctl",
		Short: "Operational tasks for the patient directory",
	}

	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(sessionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Version: %s\n", Version)
			fmt.Printf("Tag: %s\n", Tag)
		},
	}
}

func loadConfig() (*config.DriverConfig, *config.InternalConfig, *zap.Logger, error) {
	driverConfig := config.NewDriverConfig()
	internalConfig, err := config.NewInternalConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	return driverConfig, internalConfig, logger.NewZapLogger(driverConfig, internalConfig), nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the MongoDB indexes of the patient collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			driverConfig, internalConfig, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer log.Sync()
			if internalConfig.Store.Driver != constvars.StoreDriverMongoDB {
				return fmt.Errorf("migrate needs store.driver mongodb, got %q", internalConfig.Store.Driver)
			}

			ctx := cmd.Context()
			client := database.NewMongoDB(driverConfig)
			defer client.Disconnect(context.Background())

			names, err := patients.EnsurePatientIndexes(ctx, client.Database(driverConfig.MongoDB.DbName))
			if err != nil {
				return fmt.Errorf("create indexes: %w", err)
			}
			for _, name := range names {
				fmt.Printf("Index ready: %s\n", name)
			}
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the patient directory to an xlsx file",
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			term, _ := cmd.Flags().GetString("term")
			doctor, _ := cmd.Flags().GetString("doctor")
			showInactive, _ := cmd.Flags().GetBool("show-inactive")

			driverConfig, internalConfig, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer log.Sync()

			var store contracts.PatientStore
			switch internalConfig.Store.Driver {
			case constvars.StoreDriverMongoDB:
				client := database.NewMongoDB(driverConfig)
				defer client.Disconnect(context.Background())
				store = patients.NewPatientMongoRepository(client.Database(driverConfig.MongoDB.DbName), log)
			case constvars.StoreDriverFirestore:
				client := database.NewFirestore(driverConfig)
				defer client.Close()
				store = patients.NewPatientFirestoreRepository(client, log)
			default:
				return fmt.Errorf("export needs a persistent store, got %q", internalConfig.Store.Driver)
			}

			usecase := patients.NewPatientUsecase(
				store,
				patients.NewDirectoryCache(store, internalConfig.StoreTimeout(), log),
				locker.NewLocalLockService(),
				appointments.NewEmptyAppointmentHistory(),
				storage.NewInlinePhotoStorage(internalConfig.PhotoMaxUploadSize()),
				directoryevents.NoopEvents{},
				internalConfig,
				log,
			)

			filters := requests.DirectoryFilters{Term: term, Doctor: doctor, ShowInactive: showInactive}
			utils.SanitizeDirectoryFilters(&filters)
			workbook, err := usecase.Export(cmd.Context(), filters)
			if err != nil {
				return err
			}

			if output == "" {
				output = utils.GenerateExportFileName(time.Now())
			}
			if err := os.WriteFile(output, workbook, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Printf("Exported directory to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "Target file, defaults to a timestamped name")
	cmd.Flags().String("term", "", "Free-text filter")
	cmd.Flags().String("doctor", "", "Doctor filter")
	cmd.Flags().Bool("show-inactive", false, "Export deactivated patients instead of active ones")
	return cmd
}

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage staff sessions",
	}

	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Store a session in Redis and print its bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, _ := cmd.Flags().GetString("user-id")
			email, _ := cmd.Flags().GetString("email")
			role, _ := cmd.Flags().GetString("role")
			hours, _ := cmd.Flags().GetInt("hours")
			if userID == "" {
				return fmt.Errorf("--user-id is required")
			}

			driverConfig, internalConfig, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer log.Sync()
			if hours <= 0 {
				hours = internalConfig.Session.ExpiredTimeInHours
			}

			client := database.NewRedisClient(driverConfig)
			defer client.Close()

			provider := session.NewSessionProvider(redis.NewRedisRepository(client), internalConfig.JWT.Secret, log)
			expiry := time.Duration(hours) * time.Hour
			token, err := provider.Issue(cmd.Context(), &models.Session{
				UserID: userID,
				Email:  email,
				Role:   role,
			}, expiry)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	issueCmd.Flags().String("user-id", "", "Staff user id")
	issueCmd.Flags().String("email", "", "Staff email")
	issueCmd.Flags().String("role", "staff", "Staff role")
	issueCmd.Flags().Int("hours", 0, "Lifetime in hours, defaults to session.expired_time_in_hours")
	cmd.AddCommand(issueCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "revoke [session-id]",
		Short: "Delete a session from Redis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			driverConfig, internalConfig, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer log.Sync()

			client := database.NewRedisClient(driverConfig)
			defer client.Close()

			provider := session.NewSessionProvider(redis.NewRedisRepository(client), internalConfig.JWT.Secret, log)
			if err := provider.Revoke(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Revoked session %s\n", args[0])
			return nil
		},
	})
	return cmd
}
