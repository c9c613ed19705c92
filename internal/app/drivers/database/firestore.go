package database

import (
	"context"
	"log"
	"patient-directory-service/internal/app/config"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/option"
)

// NewFirestore falls back to application default credentials when no
// credentials file is configured.
func NewFirestore(driverConfig *config.DriverConfig) *firestore.Client {
	ctx := context.Background()

	var opts []option.ClientOption
	if driverConfig.Firestore.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(driverConfig.Firestore.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: driverConfig.Firestore.ProjectID}, opts...)
	if err != nil {
		log.Fatalf("Error initializing firebase app: %v", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		log.Fatalf("Error initializing firestore client: %v", err)
	}
	log.Println("Successfully connected to firestore")
	return client
}
