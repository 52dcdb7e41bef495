// Package users stores credentials: password users (salt + verifier) and
// users federated through Google.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/dbx"
	"github.com/dmitrijs2005/gophbudget/internal/server/models"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a password user. A taken username is common.ErrAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (username, salt, master_key_verifier)
         VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.UserName, user.Salt, user.Verifier).Scan(&user.ID)

	if err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// CreateFederated inserts a user known only by its Google subject.
func (r *PostgresRepository) CreateFederated(ctx context.Context, username, subject string) (*models.User, error) {

	query :=
		`INSERT INTO users (username, google_subject)
         VALUES ($1, $2)
		 RETURNING id
		 `

	user := &models.User{UserName: username, GoogleSubject: subject}
	if err := r.db.QueryRowContext(ctx, query, username, subject).Scan(&user.ID); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	query :=
		`SELECT id, username, master_key_verifier, salt FROM users
		 WHERE username = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, userName).Scan(&user.ID, &user.UserName, &user.Verifier, &user.Salt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetUserByGoogleSubject(ctx context.Context, subject string) (*models.User, error) {
	query :=
		`SELECT id, username FROM users
		 WHERE google_subject = $1
		 `

	user := &models.User{GoogleSubject: subject}
	err := r.db.QueryRowContext(ctx, query, subject).Scan(&user.ID, &user.UserName)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
