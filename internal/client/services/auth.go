package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/client/client"
	"github.com/dmitrijs2005/gophbudget/internal/client/models"
	"github.com/dmitrijs2005/gophbudget/internal/client/session"
	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/cryptox"
	"github.com/dmitrijs2005/gophbudget/internal/logging"
)

// Metadata keys of the offline login material.
const (
	metaUsername = "username"
	metaSalt     = "salt"
	metaVerifier = "verifier"
	metaUserID   = "user_id"
)

type AuthState string

const (
	StateUnauthenticated           AuthState = "unauthenticated"
	StateCredentialSubmitted       AuthState = "credential_submitted"
	StateAuthenticatedNewUser      AuthState = "authenticated_new_user"
	StateAuthenticatedExistingUser AuthState = "authenticated_existing_user"
	StateFailed                    AuthState = "failed"
)

// SignInOutcome is the result of a sign-in or sign-up attempt. ProfileSaved
// is only meaningful for a new user: it tells whether the initial profile
// reached both stores.
type SignInOutcome struct {
	State        AuthState
	UserID       string
	ProfileSaved bool
	Offline      bool
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - SignUp: create the credential on the server, log in and write the first profile.
//   - SignIn: log in online, or against the cached verifier when the server is unreachable.
//   - SignInWithGoogle: federated login; a first login writes the profile.
//   - SignOut: drop the session and the offline login material.
type AuthService interface {
	SignUp(ctx context.Context, email string, password []byte, displayName string) (SignInOutcome, error)
	SignIn(ctx context.Context, email string, password []byte) (SignInOutcome, error)
	SignInWithGoogle(ctx context.Context, idToken string) (SignInOutcome, error)
	SignOut(ctx context.Context) error
	State() AuthState
	Ping(ctx context.Context) error
}

type MetadataStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

type SessionWriter interface {
	SignIn(ctx context.Context, info session.UserInfo) error
	SignOut(ctx context.Context) error
}

// ProfileStore is the local side of the first profile write.
type ProfileStore interface {
	Backfill(ctx context.Context, u models.User) error
}

type authService struct {
	client   client.Client
	meta     MetadataStore
	session  SessionWriter
	profiles ProfileStore
	log      logging.Logger
	now      func() time.Time

	mu    sync.Mutex
	state AuthState
}

func NewAuthService(c client.Client, meta MetadataStore, s SessionWriter, profiles ProfileStore, log logging.Logger) AuthService {
	return &authService{
		client:   c,
		meta:     meta,
		session:  s,
		profiles: profiles,
		log:      log.With("module", "auth"),
		now:      time.Now,
		state:    StateUnauthenticated,
	}
}

func (a *authService) State() AuthState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *authService) setState(ctx context.Context, s AuthState) {
	a.mu.Lock()
	prev := a.state
	a.state = s
	a.mu.Unlock()
	a.log.Debug(ctx, "auth state", "from", string(prev), "to", string(s))
}

func (a *authService) fail(ctx context.Context, err error) (SignInOutcome, error) {
	a.setState(ctx, StateFailed)
	a.log.Warn(ctx, "sign in failed", "error", err)
	return SignInOutcome{State: StateFailed}, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *authService) SignUp(ctx context.Context, email string, password []byte, displayName string) (SignInOutcome, error) {
	email = normalizeEmail(email)
	a.setState(ctx, StateCredentialSubmitted)

	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	verifier := cryptox.VerifierFor(password, salt)

	if err := a.client.Register(ctx, email, salt, verifier); err != nil {
		return a.fail(ctx, fmt.Errorf("register: %w", err))
	}

	userID, err := a.client.Login(ctx, email, verifier)
	if err != nil {
		return a.fail(ctx, fmt.Errorf("login: %w", err))
	}
	if err := a.open(ctx, email, userID, salt, verifier, false); err != nil {
		return a.fail(ctx, err)
	}

	saved := a.writeProfile(ctx, models.User{ID: userID, Email: email, DisplayName: displayName})
	a.setState(ctx, StateAuthenticatedNewUser)
	a.log.Info(ctx, "signed up", "user_id", userID, "profile_saved", saved)
	return SignInOutcome{State: StateAuthenticatedNewUser, UserID: userID, ProfileSaved: saved}, nil
}

// SignIn never writes a profile: the account already exists.
func (a *authService) SignIn(ctx context.Context, email string, password []byte) (SignInOutcome, error) {
	email = normalizeEmail(email)
	a.setState(ctx, StateCredentialSubmitted)

	salt, err := a.client.GetSalt(ctx, email)
	if errors.Is(err, client.ErrUnavailable) {
		return a.signInOffline(ctx, email, password)
	}
	if err != nil {
		return a.fail(ctx, fmt.Errorf("get salt: %w", err))
	}

	verifier := cryptox.VerifierFor(password, salt)
	userID, err := a.client.Login(ctx, email, verifier)
	if errors.Is(err, client.ErrUnavailable) {
		return a.signInOffline(ctx, email, password)
	}
	if err != nil {
		return a.fail(ctx, fmt.Errorf("login: %w", err))
	}

	if err := a.open(ctx, email, userID, salt, verifier, false); err != nil {
		return a.fail(ctx, err)
	}
	a.setState(ctx, StateAuthenticatedExistingUser)
	a.log.Info(ctx, "signed in", "user_id", userID)
	return SignInOutcome{State: StateAuthenticatedExistingUser, UserID: userID}, nil
}

func (a *authService) signInOffline(ctx context.Context, email string, password []byte) (SignInOutcome, error) {
	cached := make(map[string][]byte, 4)
	for _, k := range []string{metaUsername, metaSalt, metaVerifier, metaUserID} {
		v, err := a.meta.Get(ctx, k)
		if err != nil {
			return a.fail(ctx, err)
		}
		if v == nil {
			return a.fail(ctx, client.ErrLocalDataNotAvailable)
		}
		cached[k] = v
	}

	if string(cached[metaUsername]) != email || !cryptox.CheckPassword(password, cached[metaSalt], cached[metaVerifier]) {
		return a.fail(ctx, client.ErrUnauthorized)
	}

	userID := string(cached[metaUserID])
	if err := a.session.SignIn(ctx, session.UserInfo{UserID: userID, Username: email, Offline: true}); err != nil {
		return a.fail(ctx, err)
	}
	a.setState(ctx, StateAuthenticatedExistingUser)
	a.log.Info(ctx, "signed in offline", "user_id", userID)
	return SignInOutcome{State: StateAuthenticatedExistingUser, UserID: userID, Offline: true}, nil
}

func (a *authService) SignInWithGoogle(ctx context.Context, idToken string) (SignInOutcome, error) {
	a.setState(ctx, StateCredentialSubmitted)

	id, err := a.client.FederatedLogin(ctx, idToken)
	if err != nil {
		return a.fail(ctx, fmt.Errorf("federated login: %w", err))
	}
	if err := a.open(ctx, normalizeEmail(id.Email), id.UserID, nil, nil, true); err != nil {
		return a.fail(ctx, err)
	}

	if !id.IsNewUser {
		a.setState(ctx, StateAuthenticatedExistingUser)
		return SignInOutcome{State: StateAuthenticatedExistingUser, UserID: id.UserID}, nil
	}

	saved := a.writeProfile(ctx, models.User{
		ID:          id.UserID,
		Email:       normalizeEmail(id.Email),
		DisplayName: id.DisplayName,
		PhotoRef:    id.PhotoURL,
	})
	a.setState(ctx, StateAuthenticatedNewUser)
	return SignInOutcome{State: StateAuthenticatedNewUser, UserID: id.UserID, ProfileSaved: saved}, nil
}

// open persists the session. Password logins also cache the material for a
// later offline login; a federated login clears it since it has no password.
func (a *authService) open(ctx context.Context, email, userID string, salt, verifier []byte, federated bool) error {
	access, refresh := a.client.Tokens()
	if err := a.session.SignIn(ctx, session.UserInfo{
		UserID:       userID,
		Username:     email,
		AccessToken:  access,
		RefreshToken: refresh,
	}); err != nil {
		return fmt.Errorf("session: %w", err)
	}

	if federated {
		return a.meta.Delete(ctx, metaUsername, metaSalt, metaVerifier, metaUserID)
	}
	for k, v := range map[string][]byte{
		metaUsername: []byte(email),
		metaSalt:     salt,
		metaVerifier: verifier,
		metaUserID:   []byte(userID),
	} {
		if err := a.meta.Set(ctx, k, v); err != nil {
			return fmt.Errorf("offline data saving error: %w", err)
		}
	}
	return nil
}

// writeProfile stores the first profile remotely, then locally. Failures are
// logged and reported through the return value only.
func (a *authService) writeProfile(ctx context.Context, u models.User) bool {
	u.Currency = common.DefaultCurrency
	u.UpdatedAt = stamp(a.now)
	u.Synced = true

	if err := a.client.SaveProfile(ctx, u); err != nil {
		a.log.Warn(ctx, "profile not saved remotely", "user_id", u.ID, "error", err)
		return false
	}
	if err := a.profiles.Backfill(ctx, u); err != nil {
		a.log.Warn(ctx, "profile not saved locally", "user_id", u.ID, "error", err)
		return false
	}
	return true
}

func (a *authService) SignOut(ctx context.Context) error {
	if err := a.session.SignOut(ctx); err != nil {
		return err
	}
	if err := a.meta.Delete(ctx, metaUsername, metaSalt, metaVerifier, metaUserID); err != nil {
		return err
	}
	a.client.SetTokens("", "")
	a.setState(ctx, StateUnauthenticated)
	return nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
