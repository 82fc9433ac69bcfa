package matching

import (
	"sort"
	"strings"

	"vitaspoon/internal/pkg/common"
)

// ScoredRecipe 食譜與食材符合度，僅為計算中間值
type ScoredRecipe struct {
	Recipe            common.Recipe
	MatchingCount     int
	MatchPercentage   float64
	HasAllIngredients bool
}

// ContainsAllIngredients 判斷食譜是否涵蓋所有可用食材
// 每個可用食材先比對完全相同的名稱，再退回子字串比對
func ContainsAllIngredients(recipe common.Recipe, available []string) bool {
	if len(available) == 0 {
		return false
	}
	for _, want := range available {
		if !ingredientPresent(recipe.Ingredients, want) {
			return false
		}
	}
	return true
}

func ingredientPresent(ingredients []common.Ingredient, want string) bool {
	w := strings.ToLower(strings.TrimSpace(want))
	if w == "" {
		return false
	}
	for _, ing := range ingredients {
		if strings.ToLower(strings.TrimSpace(ing.Name)) == w {
			return true
		}
	}
	for _, ing := range ingredients {
		if ContainsTerm(ing.Name, want) {
			return true
		}
	}
	return false
}

// MatchingIngredients 回傳名稱包含任一可用食材的食譜食材
func MatchingIngredients(recipe common.Recipe, available []string) []common.Ingredient {
	var matched []common.Ingredient
	for _, ing := range recipe.Ingredients {
		if ContainsAnyTerm(ing.Name, available) {
			matched = append(matched, ing)
		}
	}
	return matched
}

// ContainsAnyIngredient 判斷食譜是否至少包含一個可用食材
func ContainsAnyIngredient(recipe common.Recipe, available []string) bool {
	for _, ing := range recipe.Ingredients {
		if ContainsAnyTerm(ing.Name, available) {
			return true
		}
	}
	return false
}

// ScoreRecipe 計算單一食譜的符合度
func ScoreRecipe(recipe common.Recipe, available []string) ScoredRecipe {
	scored := ScoredRecipe{Recipe: recipe}
	if len(available) == 0 {
		return scored
	}

	scored.MatchingCount = len(MatchingIngredients(recipe, available))
	if total := len(recipe.Ingredients); total > 0 {
		scored.MatchPercentage = float64(scored.MatchingCount) / float64(total)
	}
	scored.HasAllIngredients = ContainsAllIngredients(recipe, available)
	return scored
}

// ScoreByIngredientMatch 計算所有食譜的符合度
func ScoreByIngredientMatch(recipes []common.Recipe, available []string) []ScoredRecipe {
	scored := make([]ScoredRecipe, 0, len(recipes))
	for _, r := range recipes {
		scored = append(scored, ScoreRecipe(r, available))
	}
	return scored
}

// SortByRelevance 依相關度排序並回傳新的切片
// 完全符合優先，其次符合數量，最後符合比例；同分保留原順序
func SortByRelevance(scored []ScoredRecipe) []ScoredRecipe {
	sorted := make([]ScoredRecipe, len(scored))
	copy(sorted, scored)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.HasAllIngredients != b.HasAllIngredients {
			return a.HasAllIngredients
		}
		if a.MatchingCount != b.MatchingCount {
			return a.MatchingCount > b.MatchingCount
		}
		return a.MatchPercentage > b.MatchPercentage
	})
	return sorted
}

// Recipes 取出排序後的食譜
func Recipes(scored []ScoredRecipe) []common.Recipe {
	out := make([]common.Recipe, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.Recipe)
	}
	return out
}
