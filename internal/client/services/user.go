package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/client/changes"
	"github.com/dmitrijs2005/gophbudget/internal/client/models"
	"github.com/dmitrijs2005/gophbudget/internal/client/offlinefirst"
	"github.com/dmitrijs2005/gophbudget/internal/client/session"
	"github.com/dmitrijs2005/gophbudget/internal/common"
)

type CurrentSession interface {
	Current() (session.UserInfo, bool)
}

// UserService resolves the profile of whoever is signed in.
type UserService interface {
	// CurrentUser returns nil when nobody is signed in or the profile is
	// unknown to both stores.
	CurrentUser(ctx context.Context) (*models.User, error)
	WatchCurrentUser(ctx context.Context) <-chan *models.User
	InsertUser(ctx context.Context, u models.User) error
	UpdateUser(ctx context.Context, u models.User) error
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	session CurrentSession
	policy  *offlinefirst.Policy[models.User]
	changes *changes.Broker
	now     func() time.Time
}

func NewUserService(s CurrentSession, policy *offlinefirst.Policy[models.User], broker *changes.Broker) UserService {
	return &userService{session: s, policy: policy, changes: broker, now: time.Now}
}

func (s *userService) CurrentUser(ctx context.Context) (*models.User, error) {
	info, ok := s.session.Current()
	if !ok {
		return nil, nil
	}

	u, found, err := s.policy.ReadOne(ctx, info.UserID, info.UserID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &u, nil
}

func (s *userService) WatchCurrentUser(ctx context.Context) <-chan *models.User {
	filter := func(ev changes.Event) bool {
		return ev.Kind == changes.KindSession || ev.Kind == models.KindUser
	}
	return offlinefirst.Watch(ctx, s.changes, filter, func() (*models.User, bool) {
		u, err := s.CurrentUser(ctx)
		if err != nil {
			return nil, false
		}
		return u, true
	})
}

func (s *userService) prepare(u models.User) models.User {
	if u.Currency == "" {
		u.Currency = common.DefaultCurrency
	}
	u.UpdatedAt = stamp(s.now)
	return u
}

func (s *userService) InsertUser(ctx context.Context, u models.User) error {
	return s.policy.Add(ctx, s.prepare(u))
}

func (s *userService) UpdateUser(ctx context.Context, u models.User) error {
	return s.policy.Update(ctx, s.prepare(u))
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	return s.policy.Delete(ctx, id, id)
}
