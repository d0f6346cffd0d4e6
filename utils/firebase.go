// utils/firebase.go
package utils

import (
	"context"
	"log"

	"holistic/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var FCMClient *messaging.Client

// FirebaseInit initializes the Firebase App and Messaging client.
// Device push stays disabled when no credentials path is configured.
func FirebaseInit() {
	path := config.AppConfig.FirebaseCredentialsPath
	if path == "" {
		log.Println("firebase: no credentials configured, device push disabled")
		return
	}

	ctx := context.Background()
	opt := option.WithCredentialsFile(path)

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		log.Fatalf("firebase: error initializing app: %v", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Fatalf("firebase: error getting Messaging client: %v", err)
	}

	FCMClient = client
}
