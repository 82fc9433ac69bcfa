package recipe

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"vitaspoon/internal/core/matching"
	"vitaspoon/internal/pkg/common"
)

// Synthesize 依餐別、飲食類型、電力條件與可用食材組出一道新食譜
// ID 與建立時間由呼叫端補上
func Synthesize(input common.UserInput) common.Recipe {
	prefs := input.Preferences
	available := input.AvailableIngredients

	hasProtein := matching.HasIngredientType(available, matching.TypeProteins)
	hasRice := matching.HasIngredientType(available, matching.TypeRice)
	hasVegetables := matching.HasIngredientType(available, matching.TypeVegetables)

	return common.Recipe{
		Title:           synthesizeTitle(input, hasProtein, hasRice, hasVegetables),
		Ingredients:     synthesizeIngredients(input),
		Instructions:    synthesizeInstructions(input, hasProtein, hasRice),
		PrepTime:        valueOr(prefs.PrepTime, common.DefaultPrepTime),
		DifficultyLevel: valueOr(prefs.DifficultyLevel, common.DefaultDifficulty),
		CuisineType:     valueOr(prefs.CuisineType, common.DefaultCuisine),
		DietType:        valueOr(prefs.DietType, common.DefaultDiet),
		Source:          common.SourceLocal,
	}
}

func synthesizeTitle(input common.UserInput, hasProtein, hasRice, hasVegetables bool) string {
	prefs := input.Preferences

	var title string
	switch {
	case hasProtein:
		protein := capitalize(matching.FirstProtein(input.AvailableIngredients))
		if protein == "" {
			protein = "Proteína"
		}
		switch {
		case hasRice:
			title = "Arroz con " + protein
		case hasVegetables:
			title = protein + " con Vegetales"
		default:
			title = protein + " al Ajillo"
		}
	case hasRice && hasVegetables:
		title = "Arroz con Vegetales"
	case hasRice:
		title = "Arroz Especiado"
	case prefs.CuisineType == "":
		title = noCuisineTitle
	case prefs.CuisineType == mealBreakfast && isPlantBased(prefs.DietType):
		title = vegetarianBreakfastTitle
	default:
		if t, ok := cuisineTitles[prefs.CuisineType]; ok {
			title = t
		} else {
			title = unknownCuisineTitle
		}
	}

	if prefs.DietType != "" && prefs.DietType != common.DefaultDiet {
		title += " (" + prefs.DietType + ")"
	}
	if input.NoElectricity() {
		if isMainMeal(prefs.CuisineType) || hasProtein {
			title += " " + grillMarker
		} else {
			title += " " + common.NoElectricityMarker
		}
	}
	return title
}

func synthesizeIngredients(input common.UserInput) []common.Ingredient {
	cuisine := input.Preferences.CuisineType
	ingredients := adaptToDiet(baseIngredients(cuisine), cuisine, input.Preferences.DietType)

	for _, name := range input.AvailableIngredients {
		name = strings.TrimSpace(name)
		if name == "" || overlapsAny(ingredients, name) {
			continue
		}
		ingredients = append(ingredients, userIngredient(name))
	}

	allergies := input.DietaryRestrictions.Allergies
	ingredients = slices.DeleteFunc(ingredients, func(ing common.Ingredient) bool {
		return matching.ContainsAnyTerm(ing.Name, allergies)
	})

	if len(ingredients) == 0 {
		return []common.Ingredient{{Name: "ingredientes variados", Quantity: "Al gusto"}}
	}
	return ingredients
}

func baseIngredients(cuisine string) []common.Ingredient {
	base, ok := cuisineIngredients[cuisine]
	if !ok {
		base = cuisineIngredients[mealLunch]
	}
	return slices.Clone(base)
}

// adaptToDiet 依飲食類型移除不相容的食材並補上替代品
func adaptToDiet(ingredients []common.Ingredient, cuisine, diet string) []common.Ingredient {
	switch diet {
	case dietVegetarian, dietVegan:
		ingredients = dropTerms(ingredients, matching.NonVegetarian)
		if diet == dietVegan {
			ingredients = dropTerms(ingredients, matching.NonVegan)
			if isMainMeal(cuisine) {
				ingredients = append(ingredients, common.Ingredient{Name: "tofu", Quantity: "150", Unit: "g"})
			}
		}
	case dietHighProt:
		if !slices.ContainsFunc(ingredients, func(ing common.Ingredient) bool { return strings.Contains(ing.Name, "pollo") }) {
			ingredients = append(ingredients, common.Ingredient{Name: "pechuga de pollo", Quantity: "200", Unit: "g"})
		}
	case dietLowCarb:
		ingredients = dropTerms(ingredients, matching.HighCarb)
		if isMainMeal(cuisine) {
			ingredients = append(ingredients, common.Ingredient{Name: "calabacín", Quantity: "1", Unit: "unidad"})
		}
	}
	return ingredients
}

func dropTerms(ingredients []common.Ingredient, terms []string) []common.Ingredient {
	return slices.DeleteFunc(ingredients, func(ing common.Ingredient) bool {
		return matching.ContainsAnyTerm(ing.Name, terms)
	})
}

func overlapsAny(ingredients []common.Ingredient, name string) bool {
	for _, ing := range ingredients {
		if matching.ContainsTerm(ing.Name, name) || matching.ContainsTerm(name, ing.Name) {
			return true
		}
	}
	return false
}

// userIngredient 依常見食材推估份量
func userIngredient(name string) common.Ingredient {
	ing := common.Ingredient{Name: name, Quantity: "Al gusto"}
	switch {
	case matching.ContainsTerm(name, matching.RiceTerm):
		ing.Quantity, ing.Unit = "2", "tazas"
	case matching.ContainsAnyTerm(name, matching.Proteins):
		ing.Quantity, ing.Unit = "500", "g"
	case matching.ContainsTerm(name, "cebolla"):
		ing.Quantity, ing.Unit = "1", "unidad"
	case matching.ContainsTerm(name, "ajo"):
		ing.Quantity, ing.Unit = "3", "dientes"
	case matching.ContainsTerm(name, "tomate"):
		ing.Quantity, ing.Unit = "2", "unidades"
	}
	return ing
}

func synthesizeInstructions(input common.UserInput, hasProtein, hasRice bool) []string {
	prefs := input.Preferences
	noElectricity := input.NoElectricity()

	var steps []string
	switch {
	case hasRice && hasProtein:
		steps = riceWithProtein(noElectricity)
	case hasRice:
		steps = riceWithVegetables(noElectricity)
	case hasProtein:
		steps = proteinOnly(noElectricity)
	default:
		steps = CuisineSteps(valueOr(prefs.CuisineType, mealLunch), prefs.DietType, noElectricity)
	}

	grill := noElectricity && (isMainMeal(prefs.CuisineType) || hasProtein)
	if names := nonBlank(input.AvailableIngredients); len(names) > 0 {
		note := fmt.Sprintf(personalizedNote, common.StringSliceToString(names))
		if grill {
			note += grillNote
		}
		steps = append(steps, note)
	} else if grill {
		steps = append(steps, strings.TrimSpace(grillNote))
	}
	return steps
}

// CuisineSteps 回傳餐別的預設步驟，並依飲食類型與電力條件調整
func CuisineSteps(cuisine, diet string, noElectricity bool) []string {
	if noElectricity {
		if isMainMeal(cuisine) {
			return grillMainMeal(diet)
		}
		if steps, ok := noElectricityInstructions[cuisine]; ok {
			return slices.Clone(steps)
		}
	}

	if isMainMeal(cuisine) && isPlantBased(diet) {
		last := "Añade queso si lo deseas."
		if diet == dietVegan {
			last = "Si tienes tofu, córtalo en cubos y añádelo al final."
		}
		return joinSteps(plantMainSteps, []string{last, "Sirve caliente, opcionalmente sobre arroz o con pan."})
	}

	base, ok := cuisineInstructions[cuisine]
	if !ok {
		base = cuisineInstructions[mealLunch]
	}
	steps := slices.Clone(base)
	if note, ok := dietNotes[diet]; ok {
		steps = append(steps, note)
	}
	if noElectricity {
		steps = append(steps, noElectricityNote)
	}
	return steps
}

func grillMainMeal(diet string) []string {
	steps := joinSteps(grillGeneral, []string{"Ahora prepararemos los ingredientes para la parrilla:"})
	if isPlantBased(diet) {
		steps = append(steps, grillVegetables...)
	} else {
		steps = append(steps, "Para la proteína principal:")
		steps = append(steps, grillProtein...)
		steps = append(steps, "Para los vegetales de acompañamiento:")
		steps = append(steps, grillVegetables...)
	}
	return append(steps,
		"Sirve caliente directamente de la parrilla.",
		"Nota: Ajusta los tiempos según el tipo y tamaño de los alimentos.",
	)
}

func riceWithProtein(noElectricity bool) []string {
	if noElectricity {
		return joinSteps(grillGeneral, grillRice,
			[]string{"Mientras el arroz se cocina, prepara la proteína:"},
			grillProtein,
			[]string{"Sirve el arroz con la proteína cocinada por encima."},
		)
	}
	return slices.Clone(riceProteinSteps)
}

func riceWithVegetables(noElectricity bool) []string {
	if noElectricity {
		return joinSteps(grillGeneral, grillRice,
			[]string{"Mientras el arroz se cocina, prepara los vegetales:"},
			grillVegetables,
			[]string{"Sirve el arroz con los vegetales asados por encima."},
		)
	}
	return slices.Clone(riceVegetableSteps)
}

func proteinOnly(noElectricity bool) []string {
	if noElectricity {
		return joinSteps(grillGeneral, grillProtein,
			[]string{"Para acompañar, también puedes asar vegetales en la parrilla:"},
			grillVegetables[:3],
			[]string{"Sirve la proteína con los vegetales asados como guarnición."},
		)
	}
	return slices.Clone(proteinSteps)
}

// FallbackRecipe 最低限度的備用食譜，只在合成流程本身失敗時使用
func FallbackRecipe(input common.UserInput) common.Recipe {
	prefs := input.Preferences

	title := "Receta Básica Personalizada"
	if prefs.CuisineType != "" {
		title += " - " + prefs.CuisineType
	}
	if prefs.DietType != "" && prefs.DietType != common.DefaultDiet {
		title += " (" + prefs.DietType + ")"
	}

	instructions := []string{
		"Esta es una receta básica adaptada a tus preferencias.",
		"Puedes experimentar con los ingredientes que tengas disponibles.",
		"Recuerda ajustar las cantidades según tu gusto personal.",
	}
	if input.NoElectricity() {
		instructions = append(instructions,
			"Esta receta ha sido diseñada para prepararse sin necesidad de electricidad.",
			"Puedes usar una parrilla de carbón o una pequeña estufa de gas para cocinar los ingredientes.",
		)
	}
	if len(input.AvailableIngredients) > 0 {
		instructions = append(instructions, "Ingredientes disponibles: "+common.StringSliceToString(input.AvailableIngredients))
	}

	return common.Recipe{
		Title: title,
		Ingredients: []common.Ingredient{
			{Name: "ingrediente principal", Quantity: "1", Unit: "unidad"},
			{Name: "ingrediente secundario", Quantity: "2", Unit: "unidades"},
			{Name: "condimento", Quantity: "1", Unit: "cucharada"},
		},
		Instructions:    instructions,
		PrepTime:        valueOr(prefs.PrepTime, common.DefaultPrepTime),
		DifficultyLevel: valueOr(prefs.DifficultyLevel, common.DefaultDifficulty),
		CuisineType:     valueOr(prefs.CuisineType, common.DefaultCuisine),
		DietType:        valueOr(prefs.DietType, common.DefaultDiet),
		Source:          common.SourceLocal,
	}
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
