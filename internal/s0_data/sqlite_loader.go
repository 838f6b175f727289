package s0_data

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	// Register sqlite3 driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/wonny/lsbacktest/internal/contracts"
	"github.com/wonny/lsbacktest/pkg/logger"
)

// SQLiteLoader reads adjusted closes from the stock_data table written by the
// data pipeline: stock_data(Ticker, Date, Open, High, Low, Close, Adj_Close, Volume)
type SQLiteLoader struct {
	path   string
	from   string
	to     string
	logger *logger.Logger
}

// NewSQLiteLoader creates a new SQLite loader; from/to are inclusive YYYY-MM-DD bounds
func NewSQLiteLoader(path, from, to string, logger *logger.Logger) *SQLiteLoader {
	return &SQLiteLoader{
		path:   path,
		from:   from,
		to:     to,
		logger: logger,
	}
}

// Load implements Loader
func (l *SQLiteLoader) Load(ctx context.Context) (*contracts.PricePanel, error) {
	// sqlite3는 없는 파일을 새로 만들기 때문에 먼저 확인
	if _, err := os.Stat(l.path); err != nil {
		return loadFailure(l.logger, l.path, err)
	}

	db, err := sql.Open("sqlite3", "file:"+l.path+"?mode=ro")
	if err != nil {
		return loadFailure(l.logger, l.path, err)
	}
	defer db.Close()

	query, args := l.query()
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return loadFailure(l.logger, l.path, err)
	}
	defer rows.Close()

	var obs []observation
	for rows.Next() {
		var o observation
		var price sql.NullFloat64
		if err := rows.Scan(&o.date, &o.ticker, &price); err != nil {
			return loadFailure(l.logger, l.path, err)
		}
		o.value, o.valid = price.Float64, price.Valid
		obs = append(obs, o)
	}
	if err := rows.Err(); err != nil {
		return loadFailure(l.logger, l.path, err)
	}

	panel, err := pivot(obs)
	if err != nil {
		return contracts.EmptyPanel(), err
	}

	l.logger.WithFields(map[string]interface{}{
		"source":  l.path,
		"days":    panel.NumDays(),
		"tickers": panel.NumTickers(),
	}).Info("Price panel loaded")

	return panel, nil
}

func (l *SQLiteLoader) query() (string, []any) {
	var where []string
	var args []any
	if l.from != "" {
		where = append(where, "substr(Date, 1, 10) >= ?")
		args = append(args, l.from)
	}
	if l.to != "" {
		where = append(where, "substr(Date, 1, 10) <= ?")
		args = append(args, l.to)
	}

	query := `SELECT substr(Date, 1, 10), Ticker, Adj_Close FROM stock_data`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	return fmt.Sprintf("%s ORDER BY Date, Ticker", query), args
}
