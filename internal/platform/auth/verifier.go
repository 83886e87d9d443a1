// Package auth verifies Firebase ID tokens and carries the signed-in user
// through the request context.
package auth

import (
	"context"
	"errors"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
)

// User is the identity behind a verified token.
type User struct {
	UID           string
	Email         string
	EmailVerified bool
}

var (
	ErrNoToken      = errors.New("missing authorization header")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
	ErrUserDisabled = errors.New("user disabled")
	// ErrCertificateFetch means the signing keys could not be fetched; the
	// caller may retry.
	ErrCertificateFetch = errors.New("failed to fetch certificates")
)

// Verifier validates a bearer token.
type Verifier interface {
	Verify(ctx context.Context, token string) (*User, error)
}

// FirebaseVerifier checks ID tokens with the Firebase Admin SDK, including
// revocation.
type FirebaseVerifier struct {
	client *fbauth.Client
}

func NewFirebaseVerifier(client *fbauth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

var firebaseFailures = []struct {
	match func(error) bool
	err   error
}{
	{fbauth.IsCertificateFetchFailed, ErrCertificateFetch},
	{fbauth.IsIDTokenExpired, ErrTokenExpired},
	{fbauth.IsIDTokenRevoked, ErrTokenRevoked},
	{fbauth.IsUserDisabled, ErrUserDisabled},
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*User, error) {
	token, err := v.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		for _, f := range firebaseFailures {
			if f.match(err) {
				return nil, f.err
			}
		}
		return nil, ErrInvalidToken
	}
	email, _ := token.Claims["email"].(string)
	verified, _ := token.Claims["email_verified"].(bool)
	return &User{UID: token.UID, Email: email, EmailVerified: verified}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrNoToken
	}
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrInvalidToken
	}
	return token, nil
}

var _ Verifier = (*FirebaseVerifier)(nil)
