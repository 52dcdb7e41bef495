package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophbudget/internal/common"
	"google.golang.org/api/idtoken"
)

// GoogleIdentity is what the server keeps from a verified Google ID token.
type GoogleIdentity struct {
	Subject     string
	Email       string
	DisplayName string
	PhotoURL    string
}

// IDTokenVerifier checks a Google ID token and returns the identity it asserts.
type IDTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleIdentity, error)
}

// validateIDToken is a seam for tests.
var validateIDToken = idtoken.Validate

type GoogleVerifier struct {
	clientID string
}

// NewGoogleVerifier returns a verifier that accepts tokens issued for clientID.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

var errNoClientID = errors.New("google sign-in is not configured")

func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	if v.clientID == "" {
		return nil, errNoClientID
	}
	if idToken == "" {
		return nil, common.ErrInvalidToken
	}

	payload, err := validateIDToken(ctx, idToken, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if payload.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return &GoogleIdentity{
		Subject:     payload.Subject,
		Email:       claimString(payload.Claims, "email"),
		DisplayName: claimString(payload.Claims, "name"),
		PhotoURL:    claimString(payload.Claims, "picture"),
	}, nil
}

func claimString(claims map[string]any, key string) string {
	s, _ := claims[key].(string)
	return s
}
