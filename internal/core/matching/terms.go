// Package matching 提供本地食譜比對的純函式：分類、過濾、評分與排序。
// 所有比對皆為不分大小寫的子字串比對。
package matching

import "strings"

// 食材詞彙表
var (
	NonVegetarian = []string{"pollo", "cerdo", "res", "pescado", "atún", "jamón", "carne"}
	NonVegan      = []string{"queso", "leche", "yogur", "huevo", "mantequilla"}
	HighCarb      = []string{"pasta", "arroz", "pan", "azúcar", "masa"}
	Proteins      = []string{"cerdo", "pollo", "res", "pescado", "camarones", "atún", "jamón", "pavo", "carne"}
	Vegetables    = []string{"tomate", "cebolla", "ajo", "pimiento", "zanahoria", "vegetales", "verduras"}
)

// RiceTerm 米飯關鍵字
const RiceTerm = "arroz"

// ContainsTerm 判斷 haystack 是否包含 needle（不分大小寫的子字串比對）
// 空白 needle 一律不符合。比對刻意寬鬆，"res" 也會命中 "fresas"。
func ContainsTerm(haystack, needle string) bool {
	n := strings.TrimSpace(needle)
	if n == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(n))
}

// ContainsAnyTerm 判斷 haystack 是否包含任一詞彙
func ContainsAnyTerm(haystack string, terms []string) bool {
	for _, term := range terms {
		if ContainsTerm(haystack, term) {
			return true
		}
	}
	return false
}
