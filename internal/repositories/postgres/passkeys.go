package postgres

import (
	"Reviv/internal/database"
	"Reviv/internal/logging"
	"Reviv/internal/middlewares"
	"Reviv/internal/repositories"
	"Reviv/utils"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/The127/ioc"

	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"
)

type passkeyRepository struct {
}

func NewPasskeyRepository() repositories.PasskeyRepository {
	return &passkeyRepository{}
}

func (r *passkeyRepository) selectQuery(filter repositories.PasskeyFilter) *sqlbuilder.SelectBuilder {
	s := sqlbuilder.Select(
		"id",
		"audit_created_at",
		"audit_updated_at",
		"version",
		"principal_id",
		"credential_id",
		"public_key",
		"public_key_algorithm",
		"sign_count",
		"name",
		"last_used_at",
	).From("passkeys")

	if filter.HasId() {
		s.Where(s.Equal("id", filter.GetId()))
	}

	if filter.HasPrincipalId() {
		s.Where(s.Equal("principal_id", filter.GetPrincipalId()))
	}

	if filter.HasCredentialId() {
		s.Where(s.Equal("credential_id", filter.GetCredentialId()))
	}

	return s
}

func (r *passkeyRepository) Single(ctx context.Context, filter repositories.PasskeyFilter) (*repositories.Passkey, error) {
	result, err := r.First(ctx, filter)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, utils.ErrPasskeyNotFound
	}
	return result, nil
}

func (r *passkeyRepository) First(ctx context.Context, filter repositories.PasskeyFilter) (*repositories.Passkey, error) {
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

	passkey := repositories.Passkey{
		ModelBase: repositories.NewModelBase(),
	}
	err = row.Scan(passkey.GetScanPointers()...)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil

	case err != nil:
		return nil, fmt.Errorf("scanning row: %w", err)
	}

	return &passkey, nil
}

func (r *passkeyRepository) List(ctx context.Context, filter repositories.PasskeyFilter) ([]*repositories.Passkey, error) {
	scope := middlewares.GetScope(ctx)
	dbService := ioc.GetDependency[database.DbService](scope)

	tx, err := dbService.GetTx()
	if err != nil {
		return nil, fmt.Errorf("failed to open tx: %w", err)
	}

	s := r.selectQuery(filter)
	s.OrderBy("audit_created_at").Asc()

	query, args := s.Build()
	logging.Logger.Debug("executing sql: ", query)
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying db: %w", err)
	}
	defer utils.PanicOnError(rows.Close, "closing rows")

	var passkeys []*repositories.Passkey
	for rows.Next() {
		passkey := repositories.Passkey{
			ModelBase: repositories.NewModelBase(),
		}
		err = rows.Scan(passkey.GetScanPointers()...)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		passkeys = append(passkeys, &passkey)
	}

	return passkeys, nil
}

func (r *passkeyRepository) Insert(ctx context.Context, passkey *repositories.Passkey) error {
	scope := middlewares.GetScope(ctx)
	dbService := ioc.GetDependency[database.DbService](scope)

	tx, err := dbService.GetTx()
	if err != nil {
		return fmt.Errorf("failed to open tx: %w", err)
	}

	s := sqlbuilder.InsertInto("passkeys").
		Cols(
			"principal_id",
			"credential_id",
			"public_key",
			"public_key_algorithm",
			"sign_count",
			"name",
		).
		Values(
			passkey.PrincipalId(),
			passkey.CredentialId(),
			passkey.PublicKey(),
			passkey.PublicKeyAlgorithm(),
			passkey.SignCount(),
			passkey.Name(),
		).Returning("id", "audit_created_at", "audit_updated_at", "version")

	query, args := s.Build()
	logging.Logger.Debug("executing sql: ", query)
	row := tx.QueryRowContext(ctx, query, args...)

	err = row.Scan(passkey.InsertPointers()...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("inserting passkey: %w", utils.ErrCredentialExists)
		}
		return fmt.Errorf("scanning row: %w", err)
	}

	passkey.ClearChanges()
	return nil
}

func (r *passkeyRepository) Update(ctx context.Context, passkey *repositories.Passkey) error {
	scope := middlewares.GetScope(ctx)
	dbService := ioc.GetDependency[database.DbService](scope)

	tx, err := dbService.GetTx()
	if err != nil {
		return fmt.Errorf("failed to open tx: %w", err)
	}

	s := sqlbuilder.Update("passkeys")
	for fieldName, value := range passkey.Changes() {
		s.SetMore(s.Assign(fieldName, value))
	}
	s.SetMore(s.Assign("version", passkey.Version()+1))

	s.Where(s.Equal("id", passkey.Id()))
	s.Where(s.Equal("version", passkey.Version()))
	s.Returning("audit_updated_at", "version")

	query, args := s.Build()
	logging.Logger.Debug("executing sql: ", query)
	row := tx.QueryRowContext(ctx, query, args...)

	err = row.Scan(passkey.UpdatePointers()...)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("updating passkey: %w", repositories.ErrVersionMismatch)
	case err != nil:
		return fmt.Errorf("scanning row: %w", err)
	}

	passkey.ClearChanges()
	return nil
}

func (r *passkeyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	scope := middlewares.GetScope(ctx)
	dbService := ioc.GetDependency[database.DbService](scope)

	tx, err := dbService.GetTx()
	if err != nil {
		return fmt.Errorf("failed to open tx: %w", err)
	}

	s := sqlbuilder.DeleteFrom("passkeys")
	s.Where(s.Equal("id", id))

	query, args := s.Build()
	logging.Logger.Debug("executing sql: ", query)
	_, err = tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("executing sql: %w", err)
	}

	return nil
}
