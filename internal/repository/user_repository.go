package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"quicknotes/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

var (
	// ErrNotFound means the requested document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a document with the same ID already exists. For
	// users this is the email uniqueness constraint firing.
	ErrConflict = errors.New("document conflict")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

type userRepository struct {
	client *kivik.Client
	dbName string
}

func NewUserRepository(client *kivik.Client, dbName string) UserRepository {
	return &userRepository{
		client: client,
		dbName: dbName,
	}
}

func userDocID(email string) string {
	return fmt.Sprintf("user:%s", email)
}

// Create stores the user under user:<email>. CouchDB enforces document ID
// uniqueness, so two racing creates for the same email cannot both succeed;
// the loser gets ErrConflict. Emails are taken as stored, case-sensitive.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	db := r.client.DB(r.dbName)

	if _, err := db.Put(ctx, userDocID(user.Email), user); err != nil {
		if kivik.HTTPStatus(err) == http.StatusConflict {
			return ErrConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	db := r.client.DB(r.dbName)

	row := db.Get(ctx, userDocID(email))

	var user domain.User
	if err := row.ScanDoc(&user); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return &user, nil
}
