package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"AgriCast/internal/domain/models"
	domrepo "AgriCast/internal/domain/repository"
	pkgch "AgriCast/pkg/clickhouse"

	"github.com/jackc/pgx/v5/pgxpool"
)

const historyQueryTpl = `
        SELECT commodity, market, arrival_date
        FROM %s
        ORDER BY arrival_date ASC
    `

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

func historyQuery(table string) (string, error) {
	if !tableNameRe.MatchString(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	return fmt.Sprintf(historyQueryTpl, table), nil
}

// CHHistoryLoader reads the history from a ClickHouse table.
type CHHistoryLoader struct {
	db    *sql.DB
	table string
}

func NewCHHistoryLoader(ch *pkgch.Client, table string) *CHHistoryLoader {
	return &CHHistoryLoader{db: ch.DB(), table: table}
}

func (l *CHHistoryLoader) Source() string { return "clickhouse:" + l.table }

func (l *CHHistoryLoader) Load(ctx context.Context) ([]models.HistoricalRecord, error) {
	q, err := historyQuery(l.table)
	if err != nil {
		return nil, err
	}
	rows, err := l.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	out := make([]models.HistoricalRecord, 0, 1024)
	for rows.Next() {
		var r models.HistoricalRecord
		if err := rows.Scan(&r.Commodity, &r.Market, &r.ArrivalDate); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		r.ArrivalDate = dateOnly(r.ArrivalDate)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// PGHistoryLoader reads the history from a PostgreSQL table.
type PGHistoryLoader struct {
	pool  *pgxpool.Pool
	table string
}

func NewPGHistoryLoader(pool *pgxpool.Pool, table string) *PGHistoryLoader {
	return &PGHistoryLoader{pool: pool, table: table}
}

func (l *PGHistoryLoader) Source() string { return "postgres:" + l.table }

func (l *PGHistoryLoader) Load(ctx context.Context) ([]models.HistoricalRecord, error) {
	q, err := historyQuery(l.table)
	if err != nil {
		return nil, err
	}
	rows, err := l.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	out := make([]models.HistoricalRecord, 0, 1024)
	for rows.Next() {
		var r models.HistoricalRecord
		if err := rows.Scan(&r.Commodity, &r.Market, &r.ArrivalDate); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		r.ArrivalDate = dateOnly(r.ArrivalDate)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// dateOnly drops the time of day and zone that database drivers attach.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var (
	_ domrepo.HistoryLoader = (*CHHistoryLoader)(nil)
	_ domrepo.HistoryLoader = (*PGHistoryLoader)(nil)
)
