// Package domain defines the entities and business rules of the fitchekk API.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrUserNotFound is returned when a user cannot be located.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers unknown accounts and bad passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrFederatedAccount blocks password login for accounts created through
	// federated sign-in, which carry an empty credential hash.
	ErrFederatedAccount = errors.New("account uses federated sign-in")
)

// User is the account root entity. PasswordHash is empty for
// federated-login-only accounts. XP and Streak are maintained solely by the
// gamification transition in NextProgress.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	XP           int
	Streak       int
	LastWorkout  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfileCounts carries the per-user entity tallies shown on the profile.
type ProfileCounts struct {
	Workouts    int
	Attendances int
	Orders      int
}

// PasswordHasher abstracts credential hashing so the domain stays free of
// crypto dependencies.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

// UserRepository captures persistence operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, u User) error
	Get(ctx context.Context, id string) (*User, error)
	// FindByEmailOrName resolves login identifiers; returns nil when no
	// account matches.
	FindByEmailOrName(ctx context.Context, identifier string) (*User, error)
	// EmailInUse reports whether another account already owns the email.
	EmailInUse(ctx context.Context, email, excludeUserID string) (bool, error)
	UpdateProfile(ctx context.Context, id string, name, email *string) (*User, error)
	Counts(ctx context.Context, id string) (ProfileCounts, error)
}

// UserService handles signup, login and profile maintenance.
type UserService struct {
	repo   UserRepository
	hasher PasswordHasher
	now    func() time.Time
}

// NewUserService constructs a UserService.
func NewUserService(repo UserRepository, hasher PasswordHasher) *UserService {
	return &UserService{repo: repo, hasher: hasher, now: time.Now}
}

// Signup registers a new account with a hashed credential.
func (s *UserService) Signup(ctx context.Context, name, email, password string) (*User, error) {
	if taken, err := s.repo.EmailInUse(ctx, email, ""); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login verifies a password against the stored hash. The identifier may be
// an email or a username.
func (s *UserService) Login(ctx context.Context, identifier, password string) (*User, error) {
	user, err := s.repo.FindByEmailOrName(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if user.PasswordHash == "" {
		return nil, ErrFederatedAccount
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Profile returns the account plus its entity counts.
func (s *UserService) Profile(ctx context.Context, userID string) (*User, ProfileCounts, error) {
	user, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, ProfileCounts{}, err
	}
	if user == nil {
		return nil, ProfileCounts{}, ErrUserNotFound
	}
	counts, err := s.repo.Counts(ctx, userID)
	if err != nil {
		return nil, ProfileCounts{}, err
	}
	return user, counts, nil
}

// UpdateProfile changes name and/or email, keeping emails unique.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, name, email *string) (*User, error) {
	if email != nil {
		taken, err := s.repo.EmailInUse(ctx, *email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken
		}
	}
	user, err := s.repo.UpdateProfile(ctx, userID, name, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
