// Package services holds the server-side business logic behind the gRPC
// handlers. This file covers accounts: registration, password and Google
// login, and refresh token rotation.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/dbx"
	"github.com/dmitrijs2005/gophbudget/internal/server/auth"
	"github.com/dmitrijs2005/gophbudget/internal/server/config"
	"github.com/dmitrijs2005/gophbudget/internal/server/models"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token
// issued to UserID.
type TokenPair struct {
	UserID       string
	AccessToken  string
	RefreshToken string
}

// FederatedLogin is the outcome of a Google sign-in.
type FederatedLogin struct {
	TokenPair
	Identity  auth.GoogleIdentity
	IsNewUser bool
}

type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	google                       auth.IDTokenVerifier
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	now                          func() time.Time
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, google auth.IDTokenVerifier, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		google:                       google,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		now:                          time.Now,
	}
}

// Register creates a password user. A taken username is common.ErrAlreadyExists.
func (s *UserService) Register(ctx context.Context, username string, salt, verifier []byte) (*models.User, error) {
	if username == "" || len(salt) == 0 || len(verifier) == 0 {
		return nil, fmt.Errorf("%w: username, salt and verifier are required", ErrInvalidInput)
	}
	user := &models.User{UserName: username, Salt: salt, Verifier: verifier}
	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// GetSalt returns the stored salt, or a random one for unknown users so the
// answer does not reveal whether an account exists.
func (s *UserService) GetSalt(ctx context.Context, userName string) ([]byte, error) {
	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return s.getRandomSalt(), nil
		}
		return nil, common.ErrInternal
	}
	if len(user.Salt) == 0 {
		return s.getRandomSalt(), nil
	}
	return user.Salt, nil
}

// Login checks verifierCandidate against the stored verifier in constant time.
func (s *UserService) Login(ctx context.Context, userName string, verifierCandidate []byte) (*TokenPair, error) {
	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}
	if len(user.Verifier) == 0 || !s.checkVerifier(user.Verifier, verifierCandidate) {
		return nil, common.ErrUnauthorized
	}
	return s.generateTokenPair(ctx, user.ID, s.db)
}

// LoginWithGoogle verifies idToken and signs the subject in, creating the
// account on first use.
func (s *UserService) LoginWithGoogle(ctx context.Context, idToken string) (*FederatedLogin, error) {
	identity, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}

	var result *FederatedLogin
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		isNew := false

		user, err := repo.GetUserByGoogleSubject(ctx, identity.Subject)
		if errors.Is(err, common.ErrNotFound) {
			user, err = repo.CreateFederated(ctx, federatedUserName(identity.Subject), identity.Subject)
			isNew = true
		}
		if err != nil {
			return fmt.Errorf("error resolving federated user: %w", err)
		}

		pair, err := s.generateTokenPair(ctx, user.ID, tx)
		if err != nil {
			return err
		}
		result = &FederatedLogin{TokenPair: *pair, Identity: *identity, IsNewUser: isNew}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RefreshToken rotates refreshToken inside a transaction and mints a new pair.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(s.now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// PurgeExpiredTokens drops refresh tokens that can no longer be used.
func (s *UserService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, s.now())
}

func federatedUserName(subject string) string { return "google:" + subject }

func (s *UserService) getRandomSalt() []byte { return common.GenerateRandByteArray(32) }

func (s *UserService) checkVerifier(verifier []byte, candidate []byte) bool {
	return subtle.ConstantTimeCompare(verifier, candidate) == 1
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrInternal
	}
	return &TokenPair{UserID: userID, AccessToken: access, RefreshToken: refresh}, nil
}
