package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/store"
)

// PostgresAccountStore implements store.AccountStore.
type PostgresAccountStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAccountStore creates an account store over db.
// If logger is nil, the default logger is used.
func NewPostgresAccountStore(db store.DBTX, logger *slog.Logger) *PostgresAccountStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAccountStore{
		db:     db,
		logger: logger.With(slog.String("component", "account_store")),
	}
}

var _ store.AccountStore = (*PostgresAccountStore)(nil)

const accountColumns = `id, role, full_name, login, password_hash, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var acct domain.Account
	var role string
	if err := row.Scan(
		&acct.ID,
		&role,
		&acct.FullName,
		&acct.Login,
		&acct.PasswordHash,
		&acct.CreatedAt,
	); err != nil {
		return nil, err
	}

	parsed, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}
	acct.Role = parsed
	return &acct, nil
}

// Create implements store.AccountStore.
func (s *PostgresAccountStore) Create(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := account.Validate(); err != nil {
		log.Warn("account validation failed during create",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		account.ID,
		account.Role.String(),
		account.FullName,
		account.Login,
		account.PasswordHash,
		account.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("login already exists", slog.String("account_id", account.ID.String()))
			return store.ErrLoginExists
		}
		log.Error("failed to create account",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return MapError(err)
	}

	log.Info("account created",
		slog.String("account_id", account.ID.String()),
		slog.String("role", account.Role.String()))
	return nil
}

// GetByID implements store.AccountStore.
func (s *PostgresAccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	acct, err := scanAccount(s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAccountNotFound
		}
		log.Error("failed to get account by ID",
			slog.String("error", err.Error()),
			slog.String("account_id", id.String()))
		return nil, MapError(err)
	}
	return acct, nil
}

// GetByLogin implements store.AccountStore.
func (s *PostgresAccountStore) GetByLogin(ctx context.Context, login string) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	acct, err := scanAccount(s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE login = $1`, login))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAccountNotFound
		}
		log.Error("failed to get account by login", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return acct, nil
}

// GetByFullName implements store.AccountStore.
func (s *PostgresAccountStore) GetByFullName(ctx context.Context, fullName string) ([]*domain.Account, error) {
	return s.list(ctx, `SELECT `+accountColumns+` FROM accounts WHERE full_name = $1 ORDER BY created_at`, fullName)
}

// GetAll implements store.AccountStore.
func (s *PostgresAccountStore) GetAll(ctx context.Context) ([]*domain.Account, error) {
	return s.list(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY created_at`)
}

func (s *PostgresAccountStore) list(ctx context.Context, query string, args ...any) ([]*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query accounts", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	accounts := []*domain.Account{}
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			log.Error("failed to scan account row", slog.String("error", err.Error()))
			return nil, err
		}
		accounts = append(accounts, acct)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return accounts, nil
}

// Update implements store.AccountStore.
func (s *PostgresAccountStore) Update(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := account.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE accounts
		SET full_name = $1, login = $2, password_hash = $3
		WHERE id = $4
	`, account.FullName, account.Login, account.PasswordHash, account.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrLoginExists
		}
		log.Error("failed to update account",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrAccountNotFound)
}

// Delete implements store.AccountStore.
func (s *PostgresAccountStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete account",
			slog.String("error", err.Error()),
			slog.String("account_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrAccountNotFound); err != nil {
		return err
	}

	log.Info("account deleted", slog.String("account_id", id.String()))
	return nil
}

// WithTx implements store.AccountStore.
func (s *PostgresAccountStore) WithTx(tx *sql.Tx) store.AccountStore {
	return &PostgresAccountStore{db: tx, logger: s.logger}
}
