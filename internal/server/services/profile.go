package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/server/models"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories/repomanager"
)

// ProfileService manages the optional profile attached to an account.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager) *ProfileService {
	return &ProfileService{db: db, repomanager: m, now: time.Now}
}

// Get returns common.ErrNotFound when the user never saved a profile.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	return s.repomanager.Profiles(s.db).Get(ctx, userID)
}

// Save stores p as the profile of userID, whatever p.UserID says.
func (s *ProfileService) Save(ctx context.Context, userID string, p *models.Profile) error {
	p.UserID = userID
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	if p.Currency == "" {
		p.Currency = common.DefaultCurrency
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = s.now().UTC()
	}
	return s.repomanager.Profiles(s.db).Upsert(ctx, p)
}

func (s *ProfileService) Delete(ctx context.Context, userID string) error {
	return s.repomanager.Profiles(s.db).Delete(ctx, userID)
}
