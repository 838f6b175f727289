package s0_data

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/lsbacktest/internal/contracts"
	"github.com/wonny/lsbacktest/pkg/logger"
)

// PostgresLoader pivots data.daily_prices closes into a panel
// ⭐ SSOT: 가격 데이터 DB 조회는 여기서만
type PostgresLoader struct {
	pool   *pgxpool.Pool
	from   string
	to     string
	logger *logger.Logger
}

// NewPostgresLoader creates a new postgres loader; from/to are inclusive YYYY-MM-DD bounds
func NewPostgresLoader(pool *pgxpool.Pool, from, to string, logger *logger.Logger) *PostgresLoader {
	return &PostgresLoader{
		pool:   pool,
		from:   from,
		to:     to,
		logger: logger,
	}
}

// Load implements Loader
func (l *PostgresLoader) Load(ctx context.Context) (*contracts.PricePanel, error) {
	query, args := l.query()

	rows, err := l.pool.Query(ctx, query, args...)
	if err != nil {
		return loadFailure(l.logger, "data.daily_prices", err)
	}
	defer rows.Close()

	var obs []observation
	for rows.Next() {
		var date time.Time
		var code string
		var price *float64
		if err := rows.Scan(&code, &date, &price); err != nil {
			return loadFailure(l.logger, "data.daily_prices", err)
		}

		o := observation{date: date.Format("2006-01-02"), ticker: code}
		if price != nil {
			o.value, o.valid = *price, true
		}
		obs = append(obs, o)
	}
	if err := rows.Err(); err != nil {
		return loadFailure(l.logger, "data.daily_prices", err)
	}

	panel, err := pivot(obs)
	if err != nil {
		return contracts.EmptyPanel(), err
	}

	l.logger.WithFields(map[string]interface{}{
		"source":  "data.daily_prices",
		"from":    l.from,
		"to":      l.to,
		"days":    panel.NumDays(),
		"tickers": panel.NumTickers(),
	}).Info("Price panel loaded")

	return panel, nil
}

func (l *PostgresLoader) query() (string, []any) {
	var where []string
	var args []any
	if l.from != "" {
		args = append(args, l.from)
		where = append(where, fmt.Sprintf("trade_date >= $%d::date", len(args)))
	}
	if l.to != "" {
		args = append(args, l.to)
		where = append(where, fmt.Sprintf("trade_date <= $%d::date", len(args)))
	}

	query := `
		SELECT stock_code, trade_date, close_price::float8
		FROM data.daily_prices`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	return query + "\n\t\tORDER BY trade_date ASC, stock_code ASC", args
}
