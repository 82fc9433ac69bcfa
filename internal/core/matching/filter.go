package matching

import (
	"strings"

	"vitaspoon/internal/pkg/common"
)

// Filter 依使用者偏好過濾食譜
//
// 餐別與過敏原檢查在兩種模式下都會套用；strict 模式另外比對飲食類型、
// 準備時間、難度以及無電力標記。若使用者提供食材，會先縮小到涵蓋全部食材的
// 食譜；只有沒有任何食譜涵蓋全部食材時才改用完整候選集。
func Filter(recipes []common.Recipe, input common.UserInput, strict bool) []common.Recipe {
	if len(input.AvailableIngredients) > 0 {
		var full []common.Recipe
		for _, r := range recipes {
			if ContainsAllIngredients(r, input.AvailableIngredients) {
				full = append(full, r)
			}
		}
		if len(full) > 0 {
			return applyConstraints(full, input, strict)
		}
	}
	return applyConstraints(recipes, input, strict)
}

func applyConstraints(recipes []common.Recipe, input common.UserInput, strict bool) []common.Recipe {
	prefs := input.Preferences
	allergies := input.DietaryRestrictions.Allergies

	var out []common.Recipe
	for _, r := range recipes {
		if prefs.CuisineType != "" && r.CuisineType != prefs.CuisineType {
			continue
		}
		if ContainsAllergen(r, allergies) {
			continue
		}
		if strict && !matchesStrict(r, prefs) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesStrict(r common.Recipe, prefs common.Preferences) bool {
	if prefs.DietType != "" && r.DietType != prefs.DietType {
		return false
	}
	if prefs.PrepTime != "" && r.PrepTime != prefs.PrepTime {
		return false
	}
	if prefs.DifficultyLevel != "" && r.DifficultyLevel != prefs.DifficultyLevel {
		return false
	}
	if prefs.ElectricityType == common.ElectricityNone && !strings.Contains(r.Title, common.NoElectricityMarker) {
		return false
	}
	return true
}

// ContainsAllergen 判斷食譜是否有任何食材包含過敏原
func ContainsAllergen(r common.Recipe, allergies []string) bool {
	for _, ing := range r.Ingredients {
		if ContainsAnyTerm(ing.Name, allergies) {
			return true
		}
	}
	return false
}

// WithoutAllergens 移除含過敏原的食譜
func WithoutAllergens(recipes []common.Recipe, allergies []string) []common.Recipe {
	if len(allergies) == 0 {
		return recipes
	}
	var out []common.Recipe
	for _, r := range recipes {
		if !ContainsAllergen(r, allergies) {
			out = append(out, r)
		}
	}
	return out
}

// ByCuisine 回傳指定餐別的食譜
func ByCuisine(recipes []common.Recipe, cuisine string) []common.Recipe {
	var out []common.Recipe
	for _, r := range recipes {
		if r.CuisineType == cuisine {
			out = append(out, r)
		}
	}
	return out
}
