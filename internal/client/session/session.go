// Package session holds the authenticated session of the CLI: who is signed
// in and with which tokens. It is persisted in the metadata table so a
// restart keeps the user signed in.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophbudget/internal/client/changes"
)

const metadataKey = "session"

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

type UserInfo struct {
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	// Offline is set when the session was opened against the cached verifier.
	Offline bool `json:"offline,omitempty"`
}

type Session struct {
	store   Store
	changes *changes.Broker

	mu   sync.RWMutex
	info *UserInfo
}

func New(store Store, broker *changes.Broker) *Session {
	return &Session{store: store, changes: broker}
}

// Load restores a persisted session, if any.
func (s *Session) Load(ctx context.Context) error {
	b, err := s.store.Get(ctx, metadataKey)
	if err != nil {
		return err
	}
	if b == nil {
		return nil
	}

	var info UserInfo
	if err := json.Unmarshal(b, &info); err != nil {
		return fmt.Errorf("corrupt session: %w", err)
	}

	s.mu.Lock()
	s.info = &info
	s.mu.Unlock()
	s.publish(info.UserID)
	return nil
}

// Current returns the signed-in user; ok is false when signed out.
func (s *Session) Current() (UserInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.info == nil || s.info.UserID == "" {
		return UserInfo{}, false
	}
	return *s.info, true
}

func (s *Session) SignIn(ctx context.Context, info UserInfo) error {
	if err := s.save(ctx, info); err != nil {
		return err
	}
	s.publish(info.UserID)
	return nil
}

// UpdateTokens persists a rotated token pair for the current user.
func (s *Session) UpdateTokens(ctx context.Context, access, refresh string) error {
	info, ok := s.Current()
	if !ok {
		return nil
	}
	info.AccessToken, info.RefreshToken = access, refresh
	info.Offline = false
	return s.save(ctx, info)
}

func (s *Session) SignOut(ctx context.Context) error {
	info, _ := s.Current()

	if err := s.store.Delete(ctx, metadataKey); err != nil {
		return err
	}
	s.mu.Lock()
	s.info = nil
	s.mu.Unlock()
	s.publish(info.UserID)
	return nil
}

func (s *Session) save(ctx context.Context, info UserInfo) error {
	b, err := json.Marshal(info)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, metadataKey, b); err != nil {
		return err
	}
	s.mu.Lock()
	s.info = &info
	s.mu.Unlock()
	return nil
}

func (s *Session) publish(userID string) {
	s.changes.Publish(changes.Event{Kind: changes.KindSession, UserID: userID})
}
