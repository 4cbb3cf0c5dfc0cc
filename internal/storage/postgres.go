package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cotizador/internal/config"
)

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

const (
	createSlotTableSQL = `CREATE TABLE IF NOT EXISTS %s (
        slot_key   TEXT PRIMARY KEY,
        payload    TEXT NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    );`

	upsertSlotSQL = `INSERT INTO %s (slot_key, payload, updated_at)
    VALUES ($1, $2, now())
    ON CONFLICT (slot_key) DO UPDATE
    SET payload    = EXCLUDED.payload,
        updated_at = EXCLUDED.updated_at;`

	selectSlotSQL = `SELECT payload FROM %s WHERE slot_key = $1;`

	deleteSlotSQL = `DELETE FROM %s WHERE slot_key = $1;`
)

// NewPool configures a PostgreSQL connection pool from runtime settings.
func NewPool(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("storage.postgres.dsn is required")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database dsn: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	return pool, nil
}

// PostgresSlot keeps the payload in one row of a key/payload table.
type PostgresSlot struct {
	pool  *pgxpool.Pool
	table string
	key   string
}

// NewPostgresSlot wires a pgx pool into a slot and makes sure the table exists.
func NewPostgresSlot(ctx context.Context, pool *pgxpool.Pool, table, key string) (*PostgresSlot, error) {
	if pool == nil {
		return nil, ErrNotConfigured
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid slot table name %q", table)
	}
	if key == "" {
		key = DefaultKey
	}
	if _, err := pool.Exec(ctx, fmt.Sprintf(createSlotTableSQL, table)); err != nil {
		return nil, fmt.Errorf("create slot table: %w", err)
	}
	return &PostgresSlot{pool: pool, table: table, key: key}, nil
}

// Close releases the underlying pool resources.
func (s *PostgresSlot) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *PostgresSlot) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

func (s *PostgresSlot) Load(ctx context.Context) ([]byte, bool, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, false, err
	}

	var payload string
	scanErr := pool.QueryRow(ctx, fmt.Sprintf(selectSlotSQL, s.table), s.key).Scan(&payload)
	if errors.Is(scanErr, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if scanErr != nil {
		return nil, false, fmt.Errorf("load slot: %w", scanErr)
	}
	return []byte(payload), true, nil
}

func (s *PostgresSlot) Save(ctx context.Context, data []byte) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	if _, execErr := pool.Exec(ctx, fmt.Sprintf(upsertSlotSQL, s.table), s.key, string(data)); execErr != nil {
		return fmt.Errorf("save slot: %w", execErr)
	}
	return nil
}

func (s *PostgresSlot) Clear(ctx context.Context) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	if _, execErr := pool.Exec(ctx, fmt.Sprintf(deleteSlotSQL, s.table), s.key); execErr != nil {
		return fmt.Errorf("clear slot: %w", execErr)
	}
	return nil
}

var _ Slot = (*PostgresSlot)(nil)
