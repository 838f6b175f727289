package s0_data

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/wonny/lsbacktest/internal/contracts"
	"github.com/wonny/lsbacktest/pkg/logger"
)

// XLSXLoader reads the panel from one worksheet laid out like the CSV source
type XLSXLoader struct {
	path       string
	sheet      string
	dateColumn bool
	logger     *logger.Logger
}

// NewXLSXLoader creates a new workbook loader; an empty sheet means the first one
func NewXLSXLoader(path, sheet string, dateColumn bool, logger *logger.Logger) *XLSXLoader {
	return &XLSXLoader{
		path:       path,
		sheet:      sheet,
		dateColumn: dateColumn,
		logger:     logger,
	}
}

// Load implements Loader
func (l *XLSXLoader) Load(ctx context.Context) (*contracts.PricePanel, error) {
	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return loadFailure(l.logger, l.path, err)
	}
	defer f.Close()

	sheet := l.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return contracts.EmptyPanel(), nil
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return loadFailure(l.logger, fmt.Sprintf("%s[%s]", l.path, sheet), err)
	}
	if len(rows) == 0 {
		return contracts.EmptyPanel(), nil
	}

	header := rows[0]
	records := rows[1:]

	// GetRows는 행 끝의 빈 셀을 잘라내므로 헤더 길이까지 채운다
	for i, rec := range records {
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		records[i] = rec
	}

	panel, err := buildTabular(header, records, l.dateColumn)
	if err != nil {
		return contracts.EmptyPanel(), err
	}

	l.logger.WithFields(map[string]interface{}{
		"source":  l.path,
		"sheet":   sheet,
		"days":    panel.NumDays(),
		"tickers": panel.NumTickers(),
	}).Info("Price panel loaded")

	return panel, nil
}
