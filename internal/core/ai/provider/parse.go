package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"vitaspoon/internal/pkg/common"
)

// flexString 接受字串或數字，模型常把數量與時間寫成數字
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type generatedIngredient struct {
	Name     flexString `json:"name"`
	Quantity flexString `json:"quantity"`
	Unit     flexString `json:"unit"`
}

type generatedRecipe struct {
	Title           string                `json:"title"`
	Ingredients     []generatedIngredient `json:"ingredients"`
	Instructions    []string              `json:"instructions"`
	PrepTime        flexString            `json:"prepTime"`
	DifficultyLevel string                `json:"difficultyLevel"`
	CuisineType     string                `json:"cuisineType"`
	DietType        string                `json:"dietType"`
}

// ParseRecipe 從模型回應文字中取出食譜
// 缺少的欄位以使用者偏好補上，餐別一律以請求為準
func ParseRecipe(content string, input common.UserInput, source string) (*common.Recipe, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyResponse
	}
	block, ok := common.ExtractJSONBlock(content)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}

	var g generatedRecipe
	if err := common.ParseJSON(block, &g); err != nil {
		// 部分模型會輸出未加引號的鍵
		if err2 := common.ParseJSON(common.QuoteJSONKeys(block), &g); err2 != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}

	recipe := &common.Recipe{
		Title:           strings.TrimSpace(g.Title),
		PrepTime:        firstNonEmpty(string(g.PrepTime), input.Preferences.PrepTime, common.DefaultPrepTime),
		DifficultyLevel: firstNonEmpty(g.DifficultyLevel, input.Preferences.DifficultyLevel, common.DefaultDifficulty),
		CuisineType:     firstNonEmpty(input.Preferences.CuisineType, g.CuisineType, common.DefaultCuisine),
		DietType:        firstNonEmpty(g.DietType, input.Preferences.DietType, common.DefaultDiet),
		Source:          source,
	}
	for _, ing := range g.Ingredients {
		name := strings.TrimSpace(string(ing.Name))
		if name == "" {
			continue
		}
		recipe.Ingredients = append(recipe.Ingredients, common.Ingredient{
			Name:     name,
			Quantity: strings.TrimSpace(string(ing.Quantity)),
			Unit:     strings.TrimSpace(string(ing.Unit)),
		})
	}
	for _, step := range g.Instructions {
		if step = strings.TrimSpace(step); step != "" {
			recipe.Instructions = append(recipe.Instructions, step)
		}
	}

	if recipe.Title == "" || len(recipe.Ingredients) == 0 || len(recipe.Instructions) == 0 {
		return nil, fmt.Errorf("%w: incomplete recipe", ErrMalformedResponse)
	}
	return recipe, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
