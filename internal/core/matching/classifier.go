package matching

// IngredientType 食材類別
type IngredientType string

const (
	TypeProteins   IngredientType = "proteins"
	TypeRice       IngredientType = "rice"
	TypeVegetables IngredientType = "vegetables"
)

// ClassifyProtein 回傳包含蛋白質詞彙的食材，保持原本順序
func ClassifyProtein(ingredients []string) []string {
	var proteins []string
	for _, ing := range ingredients {
		if ContainsAnyTerm(ing, Proteins) {
			proteins = append(proteins, ing)
		}
	}
	return proteins
}

// HasIngredientType 判斷食材中是否含有指定類別
func HasIngredientType(ingredients []string, t IngredientType) bool {
	for _, ing := range ingredients {
		switch t {
		case TypeProteins:
			if ContainsAnyTerm(ing, Proteins) {
				return true
			}
		case TypeRice:
			if ContainsTerm(ing, RiceTerm) {
				return true
			}
		case TypeVegetables:
			if ContainsAnyTerm(ing, Vegetables) {
				return true
			}
		}
	}
	return false
}

// FirstProtein 回傳第一個蛋白質食材，沒有時回傳空字串
func FirstProtein(ingredients []string) string {
	for _, ing := range ingredients {
		if ContainsAnyTerm(ing, Proteins) {
			return ing
		}
	}
	return ""
}
