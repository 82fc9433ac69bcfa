package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vitaspoon/internal/pkg/common"

	"go.uber.org/zap"
)

// Loader 合併精選食譜與外部資料集
// --------------------------------------------------
type Loader struct {
	datasets  []string
	xlsxSheet string
	converter *Converter
}

// NewLoader 創建資料集載入器
func NewLoader(datasets []string, xlsxSheet string, newID common.IDGenerator) *Loader {
	return &Loader{
		datasets:  datasets,
		xlsxSheet: xlsxSheet,
		converter: NewConverter(newID),
	}
}

// Load 讀取全部資料來源
// 任一外部資料集失敗時只回傳精選食譜
func (l *Loader) Load(ctx context.Context) ([]common.Recipe, error) {
	curated, err := Curated()
	if err != nil {
		return nil, err
	}

	var external []common.Recipe
	for _, path := range l.datasets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		recipes, err := l.readFile(path)
		if err != nil {
			common.LogError("載入外部資料集失敗，只使用精選食譜",
				zap.String("path", path),
				zap.Error(err),
			)
			return curated, nil
		}
		common.LogInfo("外部資料集已讀取", zap.String("path", path), zap.Int("recipes", len(recipes)))
		external = append(external, recipes...)
	}

	merged := Merge(external, curated)
	common.LogDebug("資料集合併完成",
		zap.Int("external", len(external)),
		zap.Int("curated", len(curated)),
		zap.Int("total", len(merged)),
	)
	return merged, nil
}

func (l *Loader) readFile(path string) ([]common.Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return l.converter.ReadCSV(f)
	case ".xlsx":
		return l.converter.ReadXLSX(f, l.xlsxSheet)
	case ".html", ".htm":
		return l.converter.ReadHTML(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Merge 合併外部與精選食譜，以標題去除重複，外部資料優先
func Merge(external, curated []common.Recipe) []common.Recipe {
	seen := make(map[string]struct{}, len(external)+len(curated))
	out := make([]common.Recipe, 0, len(external)+len(curated))
	for _, group := range [][]common.Recipe{external, curated} {
		for _, r := range group {
			key := titleKey(r.Title)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}

func titleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
