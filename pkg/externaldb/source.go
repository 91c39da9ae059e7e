// Package externaldb reads the catalog from an external Postgres database
// through one allow-listed SELECT statement.
package externaldb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/molinerisit/wa-bot-sheets/internal/pkg/logger"
	"github.com/molinerisit/wa-bot-sheets/pkg/catalog"
)

// ErrQueryNotAllowed is returned when the allow-list holds no usable SELECT.
var ErrQueryNotAllowed = errors.New("externaldb: query not allowed")

// Settings are read on every call, so admin changes apply on the next turn.
type Settings struct {
	URL        string
	AllowedSQL []string
}

type SettingsFunc func(ctx context.Context) (Settings, error)

// Source is a catalog.Source backed by the external database. The pool is
// reopened when the URL changes.
type Source struct {
	settings SettingsFunc
	log      logger.ILogger

	mu      sync.Mutex
	pool    *pgxpool.Pool
	poolDSN string
}

var _ catalog.Source = &Source{}

func NewSource(settings SettingsFunc, log logger.ILogger) *Source {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Source{settings: settings, log: log}
}

func (s *Source) Name() string { return "external_db" }

// Items runs the first allow-listed query. An unconfigured source yields
// no items and no error so the chain moves on.
func (s *Source) Items(ctx context.Context) ([]catalog.Item, error) {
	cfg, err := s.settings(ctx)
	if err != nil {
		return nil, fmt.Errorf("externaldb: load settings: %w", err)
	}
	if strings.TrimSpace(cfg.URL) == "" || len(cfg.AllowedSQL) == 0 {
		return nil, nil
	}

	query, err := CatalogQuery(cfg.AllowedSQL)
	if err != nil {
		return nil, err
	}

	pool, err := s.poolFor(ctx, cfg.URL)
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("externaldb: query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = strings.ToLower(f.Name)
	}

	var items []catalog.Item
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("externaldb: scan row: %w", err)
		}
		if it, ok := rowToItem(cols, vals); ok {
			items = append(items, it)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("externaldb: rows: %w", err)
	}
	return items, nil
}

func (s *Source) poolFor(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pool != nil && s.poolDSN == dsn {
		return s.pool, nil
	}
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("externaldb: connect: %w", err)
	}
	s.log.Info("ExternalDB", "Connected to external catalog", nil)
	s.pool, s.poolDSN = pool, dsn
	return pool, nil
}

func (s *Source) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
}

// CatalogQuery returns the first allow-listed statement when it is a single
// read-only SELECT.
func CatalogQuery(allowed []string) (string, error) {
	if len(allowed) == 0 {
		return "", ErrQueryNotAllowed
	}
	q := strings.TrimSpace(allowed[0])
	q = strings.TrimSpace(strings.TrimSuffix(q, ";"))

	lower := strings.ToLower(q)
	if !strings.HasPrefix(lower, "select") && !strings.HasPrefix(lower, "with") {
		return "", fmt.Errorf("%w: not a SELECT", ErrQueryNotAllowed)
	}
	if strings.Contains(q, ";") {
		return "", fmt.Errorf("%w: multiple statements", ErrQueryNotAllowed)
	}
	for _, kw := range []string{"insert ", "update ", "delete ", "drop ", "alter ", "truncate ", "grant ", "create "} {
		if strings.Contains(lower, kw) {
			return "", fmt.Errorf("%w: contains %q", ErrQueryNotAllowed, strings.TrimSpace(kw))
		}
	}
	return q, nil
}
