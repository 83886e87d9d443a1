// Package testutil holds helpers for tests against the Firestore emulator.
package testutil

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
)

const (
	DefaultFirestoreHost = "127.0.0.1:7130"
	ProjectID            = "demo-legalhelp"
)

// FirestoreHost returns FIRESTORE_EMULATOR_HOST or the default port.
func FirestoreHost() string {
	if h := os.Getenv("FIRESTORE_EMULATOR_HOST"); h != "" {
		return h
	}
	return DefaultFirestoreHost
}

func reachable(host string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", host)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// FirestoreClient skips the test when the emulator is down; otherwise it
// points the SDK at the emulator, clears it and returns a client closed on
// cleanup.
func FirestoreClient(t *testing.T) *firestore.Client {
	t.Helper()
	host := FirestoreHost()
	if !reachable(host) {
		t.Skip("Firestore emulator not available at " + host)
	}
	t.Setenv("FIRESTORE_EMULATOR_HOST", host)
	ClearFirestore(t)

	client, err := firestore.NewClient(context.Background(), ProjectID)
	if err != nil {
		t.Fatalf("firestore client: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
		ClearFirestore(t)
	})
	return client
}

// ClearFirestore deletes every document in the emulator project.
func ClearFirestore(t *testing.T) {
	t.Helper()
	url := fmt.Sprintf("http://%s/emulator/v1/projects/%s/databases/(default)/documents", FirestoreHost(), ProjectID)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodDelete, url, nil)
	if err != nil {
		t.Fatalf("clear request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("clear firestore: %v", err)
	}
	_ = resp.Body.Close()
}
