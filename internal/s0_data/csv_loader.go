package s0_data

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wonny/lsbacktest/internal/contracts"
	"github.com/wonny/lsbacktest/pkg/logger"
)

// CSVLoader reads a comma-delimited panel: a header row of tickers followed
// by one row of prices per trading day
type CSVLoader struct {
	path       string
	dateColumn bool
	logger     *logger.Logger
}

// NewCSVLoader creates a new CSV loader
func NewCSVLoader(path string, dateColumn bool, logger *logger.Logger) *CSVLoader {
	return &CSVLoader{
		path:       path,
		dateColumn: dateColumn,
		logger:     logger,
	}
}

// Load implements Loader
func (l *CSVLoader) Load(ctx context.Context) (*contracts.PricePanel, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return loadFailure(l.logger, l.path, err)
	}
	defer f.Close()

	panel, err := l.read(f)
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

func (l *CSVLoader) read(r io.Reader) (*contracts.PricePanel, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // 행 길이 검증은 NewPricePanel에서
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return contracts.EmptyPanel(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read header: %v", contracts.ErrLoadFailure, l.path, err)
	}

	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff") // Excel BOM
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", contracts.ErrLoadFailure, l.path, err)
	}

	return buildTabular(header, records, l.dateColumn)
}
