// Package storage реализует хранилище клуба на PostgreSQL: профили, абонементы,
// посещения, магазин, уведомления, справочники и отчётные выборки.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Storage инкапсулирует соединение с PostgreSQL.
// DB используется для обычных запросов, X (sqlx поверх того же пула) для отчётов.
type Storage struct {
	DB *sql.DB
	X  *sqlx.DB
}

// New открывает пул соединений и проверяет доступность базы.
func New(ctx context.Context, storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Storage{DB: db, X: sqlx.NewDb(db, "pgx")}, nil
}

// Connect открывает хранилище, повторяя попытки пока база поднимается.
func Connect(ctx context.Context, storageConnectionString string, retries int, delay time.Duration) (*Storage, error) {
	const op = "storage.Connect"
	if retries < 1 {
		retries = 1
	}
	var st *Storage
	operation := func() error {
		var err error
		st, err = New(ctx, storageConnectionString)
		return err
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(delay), uint64(retries-1)), ctx)
	if err := backoff.Retry(operation, bo); err != nil {
		return nil, fmt.Errorf("%s: database not ready after %d attempts: %w", op, retries, err)
	}
	return st, nil
}

// Close закрывает пул.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// Ping проверяет соединение и наличие схемы.
func (s *Storage) Ping(ctx context.Context) error {
	const op = "storage.Ping"
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
		SELECT FROM information_schema.tables WHERE table_name = 'profiles')`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return fmt.Errorf("%s: table profiles is missing", op)
	}
	return nil
}

// withTx выполняет fn в транзакции. Ошибка fn откатывает транзакцию.
func (s *Storage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// mapError переводит ошибки драйвера в ошибки моделей.
func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrRecordNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%w: %s", models.ErrDuplicate, pgErr.ConstraintName)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%w: %s", models.ErrRecordNotFound, pgErr.ConstraintName)
		}
	}
	return err
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
