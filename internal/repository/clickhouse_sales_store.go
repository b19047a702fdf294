package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"SalesPulse/internal/domain/models"
	pkgch "SalesPulse/pkg/clickhouse"
	applogger "SalesPulse/pkg/logger"
	"SalesPulse/pkg/util"
)

// CHSalesStore implements DatasetStore backed by ClickHouse. Datasets are
// stored long-form, one row per (month, series) pair.
type CHSalesStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHSalesStore(ch *pkgch.Client, table string) *CHSalesStore {
	if table == "" {
		table = "sales_monthly"
	}
	return &CHSalesStore{db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHSalesStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHSalesStore) Init(ctx context.Context) error {
	q := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            month Date,
            series LowCardinality(String),
            value Float64
        ) ENGINE = ReplacingMergeTree()
        ORDER BY (series, month)
    `, s.table)
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("init sales schema: %w", err)
	}
	return nil
}

func (s *CHSalesStore) SaveDataset(ctx context.Context, ds *models.SeriesDataset) error {
	if ds == nil || ds.Len() == 0 {
		return nil
	}

	start := time.Now()
	names := ds.Names()

	// Chunk size tuned to 2000 value rows per batch.
	const chunkSize = 2000
	values := make([]string, 0, chunkSize)
	args := make([]interface{}, 0, chunkSize*3)

	flush := func() error {
		if len(values) == 0 {
			return nil
		}
		q := fmt.Sprintf("INSERT INTO %s (month, series, value) VALUES %s",
			s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
		values = values[:0]
		args = args[:0]
		return nil
	}

	total := 0
	for _, row := range ds.Rows() {
		for _, name := range names {
			values = append(values, "(?, ?, ?)")
			args = append(args, row.Date, name, row.Values[name])
			total++
			if len(values) >= chunkSize {
				if err := flush(); err != nil {
					return fmt.Errorf("save dataset: %w", err)
				}
			}
		}
	}
	if err := flush(); err != nil {
		return fmt.Errorf("save dataset: %w", err)
	}

	if s.l != nil {
		s.l.Info("clickhouse save_dataset ok",
			applogger.String("table", s.table),
			applogger.Int("rows", total),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHSalesStore) LoadDataset(ctx context.Context, from, to time.Time) (*models.SeriesDataset, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT month, series, value
        FROM %s FINAL
        WHERE month >= ? AND month <= ?
        ORDER BY month ASC, series ASC
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q, from, to)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse load_dataset query error",
				applogger.String("table", s.table),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	defer rows.Close()

	byMonth := make(map[time.Time]map[string]float64)
	months := make([]time.Time, 0, 64)
	nameSet := make(map[string]struct{})
	for rows.Next() {
		var (
			month  time.Time
			series string
			value  float64
		)
		if err := rows.Scan(&month, &series, &value); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse load_dataset scan error",
					applogger.String("table", s.table),
					applogger.Error(err),
				)
			}
			return nil, fmt.Errorf("scan sales row: %w", err)
		}
		month = util.EndOfMonth(month.UTC())
		if _, ok := byMonth[month]; !ok {
			byMonth[month] = make(map[string]float64)
			months = append(months, month)
		}
		byMonth[month][series] = value
		nameSet[series] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	if len(months) == 0 {
		return nil, models.ErrEmptySeriesSet
	}

	names := make([]string, 0, len(nameSet))
	for name := range nameSet {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]models.Row, 0, len(months))
	for _, month := range months {
		out = append(out, models.Row{Date: month, Values: byMonth[month]})
	}

	ds, err := models.NewSeriesDataset(names, out)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	if s.l != nil {
		s.l.Info("clickhouse load_dataset ok",
			applogger.String("table", s.table),
			applogger.Int("months", len(months)),
			applogger.Int("series", len(names)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return ds, nil
}

func (s *CHSalesStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHSalesStore) Close() error {
	return nil // Connection pool managed by pkg client
}
