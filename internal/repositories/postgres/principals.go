package postgres

import (
	"Reviv/internal/database"
	"Reviv/internal/logging"
	"Reviv/internal/middlewares"
	"Reviv/internal/repositories"
	"Reviv/internal/repositories/postgres/pghelpers"
	"Reviv/utils"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/The127/ioc"

	"github.com/huandu/go-sqlbuilder"
	"github.com/lib/pq"
)

type principalRepository struct {
}

func NewPrincipalRepository() repositories.PrincipalRepository {
	return &principalRepository{}
}

func (r *principalRepository) selectQuery(filter repositories.PrincipalFilter) *sqlbuilder.SelectBuilder {
	s := sqlbuilder.Select(
		"id",
		"audit_created_at",
		"audit_updated_at",
		"version",
		"email",
		"display_name",
		"oauth_provider",
		"oauth_subject",
	).From("principals")

	if filter.HasId() {
		s.Where(s.Equal("id", filter.GetId()))
	}

	if filter.HasEmail() {
		s.Where(s.Equal("email", filter.GetEmail()))
	}

	if filter.HasOAuthIdentity() {
		s.Where(s.Equal("oauth_provider", filter.GetOAuthProvider()))
		s.Where(s.Equal("oauth_subject", filter.GetOAuthSubject()))
	}

	return s
}

func (r *principalRepository) Single(ctx context.Context, filter repositories.PrincipalFilter) (*repositories.Principal, error) {
	result, err := r.First(ctx, filter)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, utils.ErrPrincipalNotFound
	}
	return result, nil
}

func (r *principalRepository) First(ctx context.Context, filter repositories.PrincipalFilter) (*repositories.Principal, error) {
	scope := middlewares.GetScope(ctx)
	dbService := ioc.GetDependency[database.DbService](scope)

	tx, err := dbService.GetTx()
	if err != nil {
		return nil, fmt.Errorf("failed to open tx: %w", err)
	}

	s := r.selectQuery(filter)
	s.Limit(1)

	query, args := s.Build()
	logging.Logger.Debug("executing sql: ", query)
	row := tx.QueryRowContext(ctx, query, args...)

	principal := repositories.Principal{
		ModelBase: repositories.NewModelBase(),
	}
	err = row.Scan(principal.GetScanPointers()...)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil

	case err != nil:
		return nil, fmt.Errorf("scanning row: %w", err)
	}

	return &principal, nil
}

func (r *principalRepository) Insert(ctx context.Context, principal *repositories.Principal) error {
	scope := middlewares.GetScope(ctx)
	dbService := ioc.GetDependency[database.DbService](scope)

	tx, err := dbService.GetTx()
	if err != nil {
		return fmt.Errorf("failed to open tx: %w", err)
	}

	s := sqlbuilder.InsertInto("principals").
		Cols(
			"email",
			"display_name",
			"oauth_provider",
			"oauth_subject",
		).
		Values(
			principal.Email(),
			principal.DisplayName(),
			pghelpers.WrapStringPointer(principal.OAuthProvider()),
			pghelpers.WrapStringPointer(principal.OAuthSubject()),
		).Returning("id", "audit_created_at", "audit_updated_at", "version")

	query, args := s.Build()
	logging.Logger.Debug("executing sql: ", query)
	row := tx.QueryRowContext(ctx, query, args...)

	err = row.Scan(principal.InsertPointers()...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("inserting principal: %w", utils.ErrConflictingIdentity)
		}
		return fmt.Errorf("scanning row: %w", err)
	}

	principal.ClearChanges()
	return nil
}

func (r *principalRepository) Update(ctx context.Context, principal *repositories.Principal) error {
	scope := middlewares.GetScope(ctx)
	dbService := ioc.GetDependency[database.DbService](scope)

	tx, err := dbService.GetTx()
	if err != nil {
		return fmt.Errorf("failed to open tx: %w", err)
	}

	s := sqlbuilder.Update("principals")
	for fieldName, value := range principal.Changes() {
		s.SetMore(s.Assign(fieldName, value))
	}
	s.SetMore(s.Assign("version", principal.Version()+1))

	s.Where(s.Equal("id", principal.Id()))
	s.Where(s.Equal("version", principal.Version()))
	s.Returning("audit_updated_at", "version")

	query, args := s.Build()
	logging.Logger.Debug("executing sql: ", query)
	row := tx.QueryRowContext(ctx, query, args...)

	err = row.Scan(principal.UpdatePointers()...)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("updating principal: %w", repositories.ErrVersionMismatch)
	case err != nil:
		return fmt.Errorf("scanning row: %w", err)
	}

	principal.ClearChanges()
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
