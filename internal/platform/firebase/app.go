// Package firebase opens the Firebase Admin clients the service depends on.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// ErrNoProject is returned when no project ID is configured.
var ErrNoProject = errors.New("firebase project id is required")

type Config struct {
	ProjectID string
	// CredentialsFile is a service account JSON path; empty uses ADC or the emulators.
	CredentialsFile string
}

// Clients bundles the Auth and Firestore handles.
type Clients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
}

// Open initializes the Firebase app and both clients.
func Open(ctx context.Context, cfg Config) (*Clients, error) {
	if cfg.ProjectID == "" {
		return nil, ErrNoProject
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		creds, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(creds))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	ac, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth: %w", err)
	}
	fc, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore: %w", err)
	}
	return &Clients{Auth: ac, Firestore: fc}, nil
}

// Close releases the Firestore connection. Safe on a nil receiver.
func (c *Clients) Close() error {
	if c == nil || c.Firestore == nil {
		return nil
	}
	return c.Firestore.Close()
}
