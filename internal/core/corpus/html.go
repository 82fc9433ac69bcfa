package corpus

import (
	"fmt"
	"io"
	"strings"

	"vitaspoon/internal/pkg/common"

	"github.com/PuerkitoBio/goquery"
)

// ReadHTML 讀取 HTML 頁面中的第一個表格
// 表頭取自 thead 或第一列的 th，其餘每列 td 轉為一筆食譜
func (c *Converter) ReadHTML(r io.Reader) ([]common.Recipe, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("table not found")
	}

	var header []string
	table.Find("tr").First().Find("th").Each(func(_ int, th *goquery.Selection) {
		header = append(header, cellText(th))
	})
	if len(header) == 0 {
		return nil, fmt.Errorf("table has no header row")
	}
	index := headerIndex(header)

	var recipes []common.Recipe
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() == 0 {
			return
		}
		record := make([]string, 0, tds.Length())
		tds.Each(func(_ int, td *goquery.Selection) {
			record = append(record, cellText(td))
		})
		if isBlank(record) {
			return
		}
		recipes = append(recipes, c.Convert(toRow(index, record)))
	})
	return recipes, nil
}

// cellText 取出儲存格文字，<br> 轉為換行以保留步驟分隔
func cellText(sel *goquery.Selection) string {
	sel.Find("br").ReplaceWithHtml("\n")
	return strings.TrimSpace(sel.Text())
}
