package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskflow/taskflow-api/internal/auth"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/notify"
	"github.com/taskflow/taskflow-api/internal/oauth"
	"github.com/taskflow/taskflow-api/internal/repository"
	"github.com/taskflow/taskflow-api/internal/schema"
)

// AuthService handles registration, login and token verification.
type AuthService struct {
	userRepo    repository.UserRepository
	tokens      *auth.TokenManager
	revocations auth.RevocationStore
	notifier    *notify.Notifier
	now         func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager, revocations auth.RevocationStore, notifier *notify.Notifier) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		tokens:      tokens,
		revocations: revocations,
		notifier:    notifier,
		now:         time.Now,
	}
}

// Session is the result of a successful login.
type Session struct {
	Token string
	User  *models.User
}

// Register creates a local account with role user.
func (s *AuthService) Register(ctx context.Context, input schema.RegisterInput) (*models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	if err := schema.Validate(input); err != nil {
		return nil, err
	}

	if err := ensureAvailable(ctx, s.userRepo, 0, input.Email, input.Username); err != nil {
		return nil, err
	}

	hashed, err := hashPassword("password", input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hashed,
		Role:         models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAccountConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.notifier.Welcome(ctx, user)
	return user, nil
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, input schema.LoginInput) (*Session, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := schema.Validate(input); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, input.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// LoginWithOAuth resolves the provider profile to a local account, linking
// or creating one as needed, and issues a token for it.
func (s *AuthService) LoginWithOAuth(ctx context.Context, profile oauth.Profile) (*Session, error) {
	user, err := s.userRepo.FindByGoogleID(ctx, profile.ID)
	if err == nil {
		return s.issue(user)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if profile.Email == "" {
		return nil, ErrOAuthEmailMissing
	}

	existing, err := s.userRepo.FindByEmail(ctx, profile.Email)
	switch {
	case err == nil:
		patch := repository.UserPatch{GoogleID: &profile.ID}
		if existing.ProfilePicture == nil && profile.Picture != "" {
			patch.ProfilePicture = &profile.Picture
		}
		linked, err := s.userRepo.Update(ctx, existing.ID, patch)
		if err != nil {
			return nil, fmt.Errorf("failed to link account: %w", err)
		}
		return s.issue(linked)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	hashed, err := auth.HashPassword(auth.RandomPassword())
	if err != nil {
		return nil, err
	}

	googleID := profile.ID
	created := &models.User{
		Username:     s.oauthUsername(profile.Name),
		Email:        profile.Email,
		Name:         profile.Name,
		PasswordHash: hashed,
		Role:         models.RoleUser,
		GoogleID:     &googleID,
	}
	if created.Name == "" {
		created.Name = created.Username
	}
	if profile.Picture != "" {
		picture := profile.Picture
		created.ProfilePicture = &picture
	}
	if err := s.userRepo.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.notifier.Welcome(ctx, created)
	return s.issue(created)
}

// oauthUsername derives a username from the display name plus a millisecond timestamp.
func (s *AuthService) oauthUsername(displayName string) string {
	base := strings.ToLower(strings.Join(strings.Fields(displayName), ""))
	if base == "" {
		base = "user"
	}
	return fmt.Sprintf("%s_%d", base, s.now().UnixMilli())
}

// IssueToken signs a token for an existing user.
func (s *AuthService) IssueToken(ctx context.Context, userID uint64) (*Session, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*Session, error) {
	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}

// Authenticate verifies a bearer token and loads its user. The user is read
// from the store so that role changes and deletions apply immediately.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, *auth.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, nil, err
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, nil, auth.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, auth.ErrInvalidToken
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, claims, nil
}

// Logout revokes the token until it expires.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	until := s.now()
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	return s.revocations.Revoke(ctx, claims.ID, until)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// hashPassword reports bcrypt's length limit as a validation error on field.
func hashPassword(field, password string) (string, error) {
	hashed, err := auth.HashPassword(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return "", schema.Invalid(field, "Password is too long")
	}
	return hashed, err
}

// ensureAvailable rejects an email or username held by a user other than selfID.
func ensureAvailable(ctx context.Context, users repository.UserRepository, selfID uint64, email, username string) error {
	if email != "" {
		existing, err := users.FindByEmail(ctx, email)
		if err == nil && existing.ID != selfID {
			return ErrEmailTaken
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("failed to check email: %w", err)
		}
	}
	if username != "" {
		existing, err := users.FindByUsername(ctx, username)
		if err == nil && existing.ID != selfID {
			return ErrUsernameTaken
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("failed to check username: %w", err)
		}
	}
	return nil
}
