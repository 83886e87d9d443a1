package auth

import "context"

// MockVerifier resolves tokens from a fixed table. Err, when set, fails every
// verification.
type MockVerifier struct {
	Users map[string]*User
	Err   error
}

// NewMockVerifier accepts token for user.
func NewMockVerifier(token string, user *User) *MockVerifier {
	return &MockVerifier{Users: map[string]*User{token: user}}
}

func (m *MockVerifier) Verify(_ context.Context, token string) (*User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if u, ok := m.Users[token]; ok {
		return u, nil
	}
	return nil, ErrInvalidToken
}

// TestUser is the fixture identity used across handler tests.
func TestUser() *User {
	return &User{UID: "user-sg-001", Email: "tan.wei@example.sg", EmailVerified: true}
}

var _ Verifier = (*MockVerifier)(nil)
