package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gamehub-backend/internal/auth"
	"github.com/gamehub-backend/internal/domain"
	"github.com/gamehub-backend/internal/postgres"
)

// UserService provides account registration, login, and platform linking
type UserService struct {
	repo   *postgres.Repository
	hasher *auth.Hasher
	tokens *auth.JWTManager
	logger *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(repo *postgres.Repository, hasher *auth.Hasher, tokens *auth.JWTManager, logger *slog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// Register creates an account with a zero-valued stats row
func (s *UserService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.PublicUser, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := domain.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	pub := user.Public()
	return &pub, nil
}

// Login authenticates by username or email and issues an access token
func (s *UserService) Login(ctx context.Context, req domain.LoginRequest) (*domain.TokenResponse, error) {
	if req.Login == "" || req.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.repo.GetUserByLogin(ctx, req.Login)
	if err != nil {
		if domain.IsNotFound(err) {
			// Same answer as a wrong password so login probing learns nothing
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}
	return &domain.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// GetProfile returns the account with its cached aggregate stats
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.PublicUser, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	pub := user.Public()
	stats, err := s.repo.GetStats(ctx, userID)
	if err != nil {
		// The stats row is created with the account; treat absence as a
		// non-fatal inconsistency
		s.logger.Warn("missing stats row", "user_id", userID, "error", err)
	} else {
		pub.Stats = stats
	}
	return &pub, nil
}

// LinkPlatforms updates the per-platform identifiers on the account
func (s *UserService) LinkPlatforms(ctx context.Context, userID string, req domain.LinkPlatformsRequest) (*domain.PublicUser, error) {
	if req.SteamID == nil && req.XboxID == nil && req.PSNID == nil {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.repo.UpdatePlatformIDs(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("platform ids updated", "user_id", userID)
	pub := user.Public()
	return &pub, nil
}
