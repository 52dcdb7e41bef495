package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type Empty struct{}

type PingResponse struct {
	ServerTime time.Time `json:"server_time"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Salt     []byte `json:"salt"`
	Verifier []byte `json:"verifier"`
}

type GetSaltRequest struct {
	Username string `json:"username"`
}

type GetSaltResponse struct {
	Salt []byte `json:"salt"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Verifier []byte `json:"verifier"`
}

type LoginResponse struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type FederatedLoginRequest struct {
	IDToken string `json:"id_token"`
}

type FederatedLoginResponse struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	PhotoURL     string `json:"photo_url"`
	IsNewUser    bool   `json:"is_new_user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Budget struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Category        string          `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	PeriodStart     time.Time       `json:"period_start"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Kind        string          `json:"kind"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	OccurredAt  time.Time       `json:"occurred_at"`
	ReceiptRef  string          `json:"receipt_ref,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Profile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Currency    string    `json:"currency"`
	PhotoRef    string    `json:"photo_ref,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListRequest scopes a list to the closed interval [Start, End] and,
// when Category is set, to one category.
type ListRequest struct {
	Kind     string    `json:"kind,omitempty"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Category string    `json:"category,omitempty"`
}

type IDRequest struct {
	Kind string `json:"kind,omitempty"`
	ID   string `json:"id"`
}

type ListBudgetsResponse struct {
	Budgets []Budget `json:"budgets"`
}

type BudgetMessage struct {
	Budget Budget `json:"budget"`
}

type ListTransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

type TransactionMessage struct {
	Transaction Transaction `json:"transaction"`
}

type ProfileMessage struct {
	Profile Profile `json:"profile"`
}

type PresignUploadRequest struct {
	ContentType string `json:"content_type"`
}

type PresignResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

type PresignDownloadRequest struct {
	Key string `json:"key"`
}
