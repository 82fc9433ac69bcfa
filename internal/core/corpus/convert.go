package corpus

import (
	"regexp"
	"strconv"
	"strings"

	"vitaspoon/internal/pkg/common"
)

// 資料集欄位，匯入與匯出共用
var columns = []string{"id", "name", "ingredients", "instructions", "minutes", "cuisine", "diet", "difficulty"}

const (
	defaultDatasetCuisine = "Internacional"
	defaultDatasetDiet    = "Regular"
	defaultMinutes        = 30
)

// "200 g arroz" → quantity=200, unit=g, name=arroz
var quantityPattern = regexp.MustCompile(`^(\d+\.?\d*)\s*(\w+)?\s+(.+)$`)

// Row 資料集中的一列，以欄位名稱對應
type Row map[string]string

func (r Row) get(key string) string {
	return strings.TrimSpace(r[key])
}

// Converter 將資料列轉為食譜
type Converter struct {
	newID common.IDGenerator
}

// NewConverter 創建轉換器，缺少 id 欄位時以 newID 產生
func NewConverter(newID common.IDGenerator) *Converter {
	if newID == nil {
		newID = common.GenerateUUID
	}
	return &Converter{newID: newID}
}

// Convert 將單列資料轉為食譜
func (c *Converter) Convert(row Row) common.Recipe {
	id := row.get("id")
	if id == "" {
		id = c.newID()
	}
	title := row.get("name")
	if title == "" {
		title = "Receta sin nombre"
	}

	minutes, hasMinutes := parseMinutes(row.get("minutes"))

	return common.Recipe{
		ID:              id,
		Title:           title,
		Ingredients:     parseIngredients(row.get("ingredients")),
		Instructions:    parseInstructions(row.get("instructions")),
		PrepTime:        prepTimeBucket(minutes),
		DifficultyLevel: difficultyFor(row.get("difficulty"), minutes, hasMinutes),
		CuisineType:     valueOr(row.get("cuisine"), defaultDatasetCuisine),
		DietType:        valueOr(row.get("diet"), defaultDatasetDiet),
		Source:          common.SourceCSV,
	}
}

func parseIngredients(raw string) []common.Ingredient {
	var out []common.Ingredient
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if m := quantityPattern.FindStringSubmatch(item); m != nil {
			out = append(out, common.Ingredient{Name: strings.TrimSpace(m[3]), Quantity: m[1], Unit: m[2]})
			continue
		}
		out = append(out, common.Ingredient{Name: item})
	}
	if len(out) == 0 {
		return []common.Ingredient{{Name: "Ingredientes no especificados"}}
	}
	return out
}

func parseInstructions(raw string) []string {
	var out []string
	if strings.Contains(raw, "\n") {
		for _, line := range strings.Split(raw, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				out = append(out, line)
			}
		}
	} else {
		for _, sentence := range strings.Split(raw, ".") {
			if sentence = strings.TrimSpace(sentence); sentence != "" {
				out = append(out, sentence+".")
			}
		}
	}
	if len(out) == 0 {
		return []string{"Instrucciones no disponibles."}
	}
	return out
}

func parseMinutes(raw string) (float64, bool) {
	if raw == "" {
		return defaultMinutes, false
	}
	m, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return defaultMinutes, false
	}
	return m, true
}

func prepTimeBucket(minutes float64) string {
	switch {
	case minutes <= 15:
		return "Rápido"
	case minutes > 45:
		return "Largo"
	default:
		return "Medio"
	}
}

func difficultyFor(explicit string, minutes float64, hasMinutes bool) string {
	switch {
	case explicit != "":
		return explicit
	case !hasMinutes:
		return "Medio"
	case minutes <= 20:
		return "Fácil"
	case minutes <= 40:
		return "Medio"
	default:
		return "Difícil"
	}
}

// ToRow 將食譜轉回資料列，供匯出使用
func ToRow(r common.Recipe) []string {
	ingredients := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ingredients = append(ingredients, strings.TrimSpace(strings.Join([]string{ing.Quantity, ing.Unit, ing.Name}, " ")))
	}
	return []string{
		r.ID,
		r.Title,
		strings.Join(ingredients, ", "),
		strings.Join(r.Instructions, "\n"),
		minutesFor(r.PrepTime),
		r.CuisineType,
		r.DietType,
		r.DifficultyLevel,
	}
}

// minutesFor 以時間區間推回代表分鐘數，讓匯出的資料可以重新匯入
func minutesFor(prepTime string) string {
	switch prepTime {
	case "Rápido", "< 15 minutos":
		return "15"
	case "Largo", "30-60 minutos":
		return "60"
	case "":
		return ""
	default:
		return "30"
	}
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
