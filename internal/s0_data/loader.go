package s0_data

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/lsbacktest/internal/contracts"
	"github.com/wonny/lsbacktest/internal/strategyconfig"
	"github.com/wonny/lsbacktest/pkg/logger"
)

// Loader supplies the price panel for a run (S0)
// ⭐ SSOT: S0 가격 패널 로딩 인터페이스
//
// On open/read failure implementations return an empty panel together with an
// error wrapping contracts.ErrLoadFailure, never a nil panel.
type Loader interface {
	Load(ctx context.Context) (*contracts.PricePanel, error)
}

// SourceOptions describes where and how to read the panel
type SourceOptions struct {
	Path       string
	Kind       string // csv | xlsx | sqlite | postgres, empty = DetectKind(Path)
	DateColumn bool   // csv/xlsx: first column holds dates
	Sheet      string // xlsx only, empty = first sheet
	From       string // YYYY-MM-DD, database sources only
	To         string
}

// DetectKind guesses the source kind from a path or DSN
func DetectKind(path string) string {
	lower := strings.ToLower(path)
	switch {
	case lower == "postgres", lower == "postgresql":
		return strategyconfig.KindPostgres
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return strategyconfig.KindPostgres
	case strings.HasPrefix(lower, "sqlite://"):
		return strategyconfig.KindSQLite
	}

	switch filepath.Ext(lower) {
	case ".xlsx", ".xlsm":
		return strategyconfig.KindXLSX
	case ".db", ".sqlite", ".sqlite3":
		return strategyconfig.KindSQLite
	default:
		return strategyconfig.KindCSV
	}
}

// NewLoader builds the loader for opts.
// pool is only used by the postgres source and may be nil otherwise.
func NewLoader(opts SourceOptions, pool *pgxpool.Pool, log *logger.Logger) (Loader, error) {
	kind := opts.Kind
	if kind == "" {
		kind = DetectKind(opts.Path)
	}

	switch kind {
	case strategyconfig.KindCSV:
		return NewCSVLoader(opts.Path, opts.DateColumn, log), nil
	case strategyconfig.KindXLSX:
		return NewXLSXLoader(opts.Path, opts.Sheet, opts.DateColumn, log), nil
	case strategyconfig.KindSQLite:
		return NewSQLiteLoader(strings.TrimPrefix(opts.Path, "sqlite://"), opts.From, opts.To, log), nil
	case strategyconfig.KindPostgres:
		if pool == nil {
			return nil, fmt.Errorf("postgres source requires a database connection")
		}
		return NewPostgresLoader(pool, opts.From, opts.To, log), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", kind)
	}
}

// parseCell converts a raw field into a price cell.
// Anything that is not a finite number becomes a missing cell.
func parseCell(field string) contracts.PriceCell {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return contracts.Missing()
	}
	return contracts.Price(v)
}

// buildTabular turns header + records of a delimited table into a panel
func buildTabular(header []string, records [][]string, dateColumn bool) (*contracts.PricePanel, error) {
	if dateColumn {
		if len(header) == 0 {
			return contracts.EmptyPanel(), nil
		}
		header = header[1:]
	}

	tickers := make([]string, len(header))
	for j, h := range header {
		tickers[j] = strings.TrimSpace(h)
	}

	var dates []string
	rows := make([][]contracts.PriceCell, 0, len(records))
	for _, rec := range records {
		if dateColumn && len(rec) > 0 {
			dates = append(dates, strings.TrimSpace(rec[0]))
			rec = rec[1:]
		}

		row := make([]contracts.PriceCell, len(rec))
		for j, field := range rec {
			row[j] = parseCell(field)
		}
		rows = append(rows, row)
	}

	return contracts.NewPricePanel(tickers, dates, rows)
}

// observation is one (date, ticker) price from a long-format table
type observation struct {
	date   string
	ticker string
	value  float64
	valid  bool
}

// pivot turns long-format observations into a panel.
// Dates and tickers are sorted; a (date, ticker) pair with no observation is missing.
func pivot(obs []observation) (*contracts.PricePanel, error) {
	if len(obs) == 0 {
		return contracts.EmptyPanel(), nil
	}

	dateIdx := map[string]int{}
	tickerIdx := map[string]int{}
	for _, o := range obs {
		dateIdx[o.date] = 0
		tickerIdx[o.ticker] = 0
	}

	dates := sortedKeys(dateIdx)
	tickers := sortedKeys(tickerIdx)
	for i, d := range dates {
		dateIdx[d] = i
	}
	for j, t := range tickers {
		tickerIdx[t] = j
	}

	rows := make([][]contracts.PriceCell, len(dates))
	for i := range rows {
		rows[i] = make([]contracts.PriceCell, len(tickers))
	}
	for _, o := range obs {
		if !o.valid {
			continue
		}
		rows[dateIdx[o.date]][tickerIdx[o.ticker]] = contracts.Price(o.value)
	}

	return contracts.NewPricePanel(tickers, dates, rows)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// loadFailure logs and wraps an open/read failure
func loadFailure(log *logger.Logger, source string, err error) (*contracts.PricePanel, error) {
	log.WithError(err).WithField("source", source).Error("Could not open price source")
	return contracts.EmptyPanel(), fmt.Errorf("%w: %s: %v", contracts.ErrLoadFailure, source, err)
}
