package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quicknotes/internal/domain"
	"quicknotes/internal/repository"
	"quicknotes/pkg/hash"

	"github.com/google/uuid"
)

type AuthService struct {
	users repository.UserRepository
}

func NewAuthService(users repository.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Authenticate resolves a credential to an Identity. Unknown emails on the
// password path are auto-provisioned: logging in with an address we have
// never seen creates the account and succeeds. Every failure that must not
// leak whether the email exists comes back as ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, cred domain.Credential) (*domain.Identity, error) {
	switch c := cred.(type) {
	case domain.PasswordCredential:
		return s.authenticatePassword(ctx, c)
	case domain.ProviderCredential:
		return s.authenticateProvider(ctx, c)
	default:
		return nil, fmt.Errorf("%w: unsupported credential type", ErrInvalidCredentials)
	}
}

func (s *AuthService) authenticatePassword(ctx context.Context, cred domain.PasswordCredential) (*domain.Identity, error) {
	user, err := s.users.FindByEmail(ctx, cred.Email)
	switch {
	case err == nil:
		if user.PasswordHash == "" || !hash.Verify(cred.Password, user.PasswordHash) {
			return nil, ErrInvalidCredentials
		}
		return identityOf(user), nil

	case errors.Is(err, repository.ErrNotFound):
		return s.provision(ctx, cred)

	default:
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

func (s *AuthService) provision(ctx context.Context, cred domain.PasswordCredential) (*domain.Identity, error) {
	digest, err := hash.Hash(cred.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        cred.Email,
		PasswordHash: digest,
		CreatedAt:    time.Now(),
	}

	switch err := s.users.Create(ctx, user); {
	case err == nil:
		return identityOf(user), nil
	case errors.Is(err, repository.ErrConflict):
		// lost a provisioning race for this email
		return nil, ErrInvalidCredentials
	default:
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

func (s *AuthService) authenticateProvider(ctx context.Context, cred domain.ProviderCredential) (*domain.Identity, error) {
	user, err := s.users.FindByEmail(ctx, cred.Email)
	switch {
	case err == nil:
		return identityOf(user), nil
	case errors.Is(err, repository.ErrNotFound):
	default:
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	// first sign-in through the provider: create a password-less account
	user = &domain.User{
		ID:        uuid.New().String(),
		Email:     cred.Email,
		Name:      cred.Name,
		Picture:   cred.Picture,
		CreatedAt: time.Now(),
	}

	switch err := s.users.Create(ctx, user); {
	case err == nil:
		return identityOf(user), nil
	case errors.Is(err, repository.ErrConflict):
		return nil, ErrInvalidCredentials
	default:
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

// Signup creates an account explicitly. Unlike the login path a duplicate
// email is reported to the caller.
func (s *AuthService) Signup(ctx context.Context, req *domain.SignupRequest) (*domain.User, error) {
	digest, err := hash.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: digest,
		CreatedAt:    time.Now(),
	}

	switch err := s.users.Create(ctx, user); {
	case err == nil:
		return user, nil
	case errors.Is(err, repository.ErrConflict):
		return nil, fmt.Errorf("%w: email already registered", ErrInvalidInput)
	default:
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

func identityOf(user *domain.User) *domain.Identity {
	return &domain.Identity{
		UserID:  user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Picture: user.Picture,
	}
}
