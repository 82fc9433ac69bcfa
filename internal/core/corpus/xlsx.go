package corpus

import (
	"fmt"
	"io"

	"vitaspoon/internal/pkg/common"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Recetas"

// ReadXLSX 讀取 XLSX 資料集；sheet 為空時使用第一個工作表
func (c *Converter) ReadXLSX(r io.Reader, sheet string) ([]common.Recipe, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	index := headerIndex(rows[0])
	var recipes []common.Recipe
	for _, record := range rows[1:] {
		if isBlank(record) {
			continue
		}
		recipes = append(recipes, c.Convert(toRow(index, record)))
	}
	return recipes, nil
}

// ExportXLSX 將食譜寫成 XLSX，欄位與匯入格式相同
func ExportXLSX(w io.Writer, recipes []common.Recipe) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return fmt.Errorf("create stream writer: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, r := range recipes {
		values := ToRow(r)
		row := make([]interface{}, len(values))
		for j, v := range values {
			row[j] = v
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
