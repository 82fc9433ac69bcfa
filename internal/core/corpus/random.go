package corpus

import (
	"math/rand"
	"strings"

	"vitaspoon/internal/pkg/common"
)

// RandomFilter 隨機取食譜時的條件，空字串表示不限
type RandomFilter struct {
	DietType        string
	CuisineType     string
	ElectricityType string
	DifficultyLevel string
	PrepTime        string
}

// Match 判斷食譜是否符合條件
func (f RandomFilter) Match(r common.Recipe) bool {
	if f.DietType != "" && r.DietType != f.DietType {
		return false
	}
	if f.CuisineType != "" && r.CuisineType != f.CuisineType {
		return false
	}
	if f.DifficultyLevel != "" && r.DifficultyLevel != f.DifficultyLevel {
		return false
	}
	if f.PrepTime != "" && r.PrepTime != f.PrepTime {
		return false
	}
	noElectricity := strings.Contains(r.Title, common.NoElectricityMarker)
	switch f.ElectricityType {
	case common.ElectricityAvailable:
		return !noElectricity
	case common.ElectricityNone:
		return noElectricity
	}
	return true
}

// Random 從符合條件的食譜中隨機挑一道；沒有符合時改從全部食譜挑選
// 資料集為空時 ok 為 false
func Random(recipes []common.Recipe, filter RandomFilter, rng *rand.Rand) (common.Recipe, bool) {
	if len(recipes) == 0 {
		return common.Recipe{}, false
	}
	var matched []common.Recipe
	for _, r := range recipes {
		if filter.Match(r) {
			matched = append(matched, r)
		}
	}
	if len(matched) == 0 {
		matched = recipes
	}
	return matched[rng.Intn(len(matched))].Clone(), true
}
