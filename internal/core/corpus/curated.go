package corpus

import (
	_ "embed"
	"fmt"

	"vitaspoon/internal/pkg/common"
)

//go:embed data/recipes.json
var curatedJSON []byte

// Curated 回傳內建的精選食譜
func Curated() ([]common.Recipe, error) {
	var recipes []common.Recipe
	if err := common.ParseJSONBytesStrict(curatedJSON, &recipes); err != nil {
		return nil, fmt.Errorf("parse curated recipes: %w", err)
	}
	for i := range recipes {
		if recipes[i].Source == "" {
			recipes[i].Source = common.SourceLocal
		}
	}
	return recipes, nil
}
