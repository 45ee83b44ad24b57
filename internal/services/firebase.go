package services

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseClients bundles the Firebase services the app consumes.
type FirebaseClients struct {
	App  *firebase.App
	Auth *auth.Client
}

// InitFirebase initializes the Firebase Admin SDK with the given credentials
// file and storage bucket.
func InitFirebase(credPath, storageBucket string) (*FirebaseClients, error) {
	ctx := context.Background()

	opt := option.WithCredentialsFile(credPath)
	config := &firebase.Config{}
	if storageBucket != "" {
		config.StorageBucket = storageBucket
	}

	app, err := firebase.NewApp(ctx, config, opt)
	if err != nil {
		return nil, err
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}

	return &FirebaseClients{App: app, Auth: authClient}, nil
}
