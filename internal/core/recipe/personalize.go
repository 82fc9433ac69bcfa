package recipe

import (
	"fmt"
	"strings"

	"vitaspoon/internal/core/matching"
	"vitaspoon/internal/pkg/common"
)

// Personalize 在步驟最後加上食材符合度說明，並於標題加上個人化標記
// 回傳新的食譜，不修改傳入的值
func Personalize(r common.Recipe, available []string) common.Recipe {
	out := r.Clone()
	out.Instructions = append(out.Instructions, personalNote(r, nonBlank(available)))
	if !strings.Contains(out.Title, common.PersonalizedMarker) {
		out.Title = strings.TrimSpace(out.Title + " " + common.PersonalizedMarker)
	}
	return out
}

func personalNote(r common.Recipe, available []string) string {
	if len(available) == 0 {
		return "Nota: Esta receta ha sido seleccionada considerando tus preferencias."
	}

	matched := matching.MatchingIngredients(r, available)
	if len(matched) == 0 {
		return fmt.Sprintf("Nota: Esta receta ha sido seleccionada considerando tus preferencias. Puedes adaptarla usando tus ingredientes disponibles: %s.",
			common.StringSliceToString(available))
	}

	names := make([]string, 0, len(matched))
	for _, ing := range matched {
		names = append(names, ing.Name)
	}
	joined := common.StringSliceToString(names)

	if float64(len(matched))/float64(len(r.Ingredients)) >= 0.5 {
		return fmt.Sprintf("Nota: ¡Excelente! Tienes %d de los %d ingredientes principales para esta receta: %s.",
			len(matched), len(r.Ingredients), joined)
	}
	return fmt.Sprintf("Nota: Esta receta incluye %d de tus ingredientes disponibles: %s. Puedes adaptar la receta según lo que tengas.",
		len(matched), joined)
}
