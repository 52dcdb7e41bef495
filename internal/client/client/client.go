package client

import (
	"context"

	"github.com/dmitrijs2005/gophbudget/internal/client/models"
)

// FederatedIdentity is what the server reports after a Google sign-in.
type FederatedIdentity struct {
	UserID      string
	Email       string
	DisplayName string
	PhotoURL    string
	IsNewUser   bool
}

// Client is the remote store API used by the services and the remote
// stores. Errors are mapped to ErrUnavailable, ErrUnauthorized,
// common.ErrNotFound and common.ErrAlreadyExists where the status allows.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	Register(ctx context.Context, username string, salt []byte, verifier []byte) error
	GetSalt(ctx context.Context, username string) ([]byte, error)
	Login(ctx context.Context, username string, verifier []byte) (string, error)
	FederatedLogin(ctx context.Context, idToken string) (FederatedIdentity, error)
	Tokens() (access, refresh string)
	SetTokens(access, refresh string)

	ListBudgets(ctx context.Context, p models.Period, category string) ([]models.Budget, error)
	GetBudget(ctx context.Context, id string) (models.Budget, error)
	AddBudget(ctx context.Context, b models.Budget) error
	UpdateBudget(ctx context.Context, b models.Budget) error
	DeleteBudget(ctx context.Context, id string) error

	ListTransactions(ctx context.Context, kind models.Kind, p models.Period, category string) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, kind models.Kind, id string) (models.Transaction, error)
	AddTransaction(ctx context.Context, t models.Transaction) error
	UpdateTransaction(ctx context.Context, t models.Transaction) error
	DeleteTransaction(ctx context.Context, kind models.Kind, id string) error

	GetProfile(ctx context.Context) (models.User, error)
	SaveProfile(ctx context.Context, u models.User) error
	DeleteProfile(ctx context.Context) error

	PresignReceiptUpload(ctx context.Context, contentType string) (url, key string, err error)
	PresignReceiptDownload(ctx context.Context, key string) (string, error)
}
