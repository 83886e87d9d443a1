package registration

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/janisto/legalhelp-api/internal/platform/logging"
)

const registrationsCollection = "registrations"

type firestoreRegistration struct {
	FullName    string     `firestore:"full_name"`
	Email       string     `firestore:"email"`
	Mobile      string     `firestore:"mobile"`
	NRIC        string     `firestore:"nric,omitempty"`
	AccountType string     `firestore:"account_type"`
	CompanyName string     `firestore:"company_name,omitempty"`
	UEN         string     `firestore:"uen,omitempty"`
	PostalCode  string     `firestore:"postal_code,omitempty"`
	Address     string     `firestore:"address,omitempty"`
	Terms       bool       `firestore:"terms"`
	Marketing   bool       `firestore:"marketing"`
	Step        int        `firestore:"step"`
	CompletedAt *time.Time `firestore:"completed_at,omitempty"`
	CreatedAt   time.Time  `firestore:"created_at"`
	UpdatedAt   time.Time  `firestore:"updated_at"`
}

func toDoc(r *Registration) firestoreRegistration {
	return firestoreRegistration{
		FullName: r.FullName, Email: r.Email, Mobile: r.Mobile, NRIC: r.NRIC,
		AccountType: string(r.AccountType), CompanyName: r.CompanyName, UEN: r.UEN,
		PostalCode: r.PostalCode, Address: r.Address, Terms: r.Terms, Marketing: r.Marketing,
		Step: r.Step, CompletedAt: r.CompletedAt, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func (d firestoreRegistration) registration(id string) *Registration {
	return &Registration{
		ID: id, FullName: d.FullName, Email: d.Email, Mobile: d.Mobile, NRIC: d.NRIC,
		AccountType: AccountType(d.AccountType), CompanyName: d.CompanyName, UEN: d.UEN,
		PostalCode: d.PostalCode, Address: d.Address, Terms: d.Terms, Marketing: d.Marketing,
		Step: d.Step, CompletedAt: d.CompletedAt, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

// FirestoreStore keeps one document per user in the registrations
// collection. Writes run in transactions.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) doc(userID string) *firestore.DocumentRef {
	return s.client.Collection(registrationsCollection).Doc(userID)
}

func audit(ctx context.Context, action, userID string, err error) {
	ev := logging.AuditEvent{
		Action:     action,
		UserID:     userID,
		Resource:   "registration",
		ResourceID: userID,
	}
	if err != nil {
		ev.Reason = categorizeError(err)
	}
	logging.LogAudit(ctx, ev)
}

func (s *FirestoreStore) Create(ctx context.Context, userID string, params CreateParams) (*Registration, error) {
	ref := s.doc(userID)
	r := newRegistration(userID, params, stamp())
	err := s.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err == nil && snap.Exists() {
			return ErrAlreadyExists
		}
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		return tx.Set(ref, toDoc(r))
	})
	audit(ctx, "create", userID, err)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *FirestoreStore) Get(ctx context.Context, userID string) (*Registration, error) {
	snap, err := s.doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var d firestoreRegistration
	if err := snap.DataTo(&d); err != nil {
		return nil, err
	}
	return d.registration(userID), nil
}

// mutate loads, changes and writes back a registration in one transaction.
func (s *FirestoreStore) mutate(
	ctx context.Context,
	action, userID string,
	change func(*Registration) error,
) (*Registration, error) {
	ref := s.doc(userID)
	var result *Registration
	err := s.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var d firestoreRegistration
		if err := snap.DataTo(&d); err != nil {
			return err
		}
		r := d.registration(userID)
		if err := change(r); err != nil {
			return err
		}
		result = r
		return tx.Set(ref, toDoc(r))
	})
	audit(ctx, action, userID, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *FirestoreStore) Update(ctx context.Context, userID string, params UpdateParams) (*Registration, error) {
	return s.mutate(ctx, "update", userID, func(r *Registration) error {
		r.apply(params, stamp())
		return nil
	})
}

func (s *FirestoreStore) Complete(ctx context.Context, userID string) (*Registration, error) {
	return s.mutate(ctx, "complete", userID, func(r *Registration) error {
		return r.complete(stamp())
	})
}

func (s *FirestoreStore) Delete(ctx context.Context, userID string) error {
	ref := s.doc(userID)
	err := s.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		return tx.Delete(ref)
	})
	audit(ctx, "delete", userID, err)
	return err
}

var _ Service = (*FirestoreStore)(nil)
