package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"vitaspoon/internal/pkg/common"

	"go.uber.org/zap"
)

// ReadCSV 讀取含標題列的 CSV 資料集
func (c *Converter) ReadCSV(r io.Reader) ([]common.Recipe, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	index := headerIndex(header)

	var recipes []common.Recipe
	line := 1
	for {
		record, err := reader.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, fmt.Errorf("read csv: %w", err)
			}
			common.LogWarn("略過無法解析的 CSV 資料列", zap.Int("line", line), zap.Error(err))
			continue
		}
		if isBlank(record) {
			continue
		}
		recipes = append(recipes, c.Convert(toRow(index, record)))
	}
	return recipes, nil
}

// headerIndex 欄位名稱對應到索引，名稱不分大小寫
func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	return index
}

func toRow(index map[string]int, record []string) Row {
	row := make(Row, len(columns))
	for _, col := range columns {
		if i, ok := index[col]; ok && i < len(record) {
			row[col] = record[i]
		}
	}
	return row
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
