package provider

import (
	"fmt"
	"strings"

	"vitaspoon/internal/pkg/common"
)

// SystemPrompt 一般供應商使用的系統提示
const SystemPrompt = "Eres un chef experto que crea recetas detalladas en español. " +
	"Adapta tus recetas según la disponibilidad de electricidad indicada por el usuario. " +
	"Si no hay electricidad, NO incluyas pasos que requieran electrodomésticos (licuadora, horno eléctrico, microondas, etc.) " +
	"y usa métodos como fuego directo, cocina a gas y carbón. " +
	"Respondes exclusivamente en formato JSON puro sin delimitadores markdown como ```json o ```."

// DeepSeekSystemPrompt 經由 OpenRouter 呼叫 DeepSeek 時的系統提示
const DeepSeekSystemPrompt = "Eres un chef experto que crea recetas detalladas en español. " +
	"Adapta tus recetas según la disponibilidad de electricidad indicada por el usuario. " +
	"Si no hay electricidad, NO incluyas pasos que requieran electrodomésticos (licuadora, horno eléctrico, microondas, fogones eléctricos, etc.) " +
	"y usa métodos como parrilla con carbon o cocina a gas. " +
	"Respondes exclusivamente en formato JSON puro sin delimitadores markdown como ```json o ```."

const (
	noElectricityMessage = "IMPORTANTE: La receta debe poderse preparar SIN ELECTRICIDAD. " +
		"No incluyas pasos que requieran electrodomésticos como licuadora, batidora, horno eléctrico, microondas o refrigerador. " +
		"Usa ÚNICAMENTE métodos de cocción que no requieran electricidad como fuego directo, parrilla a gas o preferiblemente carbón."
	electricityMessage = "Puedes incluir cualquier método de cocción o electrodoméstico en la preparación."

	responseFormat = `La respuesta debe estar en formato JSON con esta estructura exacta:
{
  "title": "Título de la receta",
  "ingredients": [
    {"name": "nombre del ingrediente", "quantity": "cantidad", "unit": "unidad de medida"}
  ],
  "instructions": ["Paso 1", "Paso 2", "..."],
  "prepTime": "tiempo de preparación en minutos",
  "difficultyLevel": "nivel de dificultad",
  "cuisineType": "tipo de cocina",
  "dietType": "tipo de dieta"
}`
)

// BuildRecipePrompt 依使用者輸入組出食譜提示
// 相同輸入必定產生相同字串，回應快取以此為鍵
func BuildRecipePrompt(input common.UserInput) string {
	p := input.Preferences
	r := input.DietaryRestrictions

	var b strings.Builder
	b.WriteString("Crea una receta de cocina en español con estas características:\n\n")
	fmt.Fprintf(&b, "TIPO DE COMIDA: %s\n", p.CuisineType)
	fmt.Fprintf(&b, "DIETA: %s\n", p.DietType)
	fmt.Fprintf(&b, "TIEMPO DE PREPARACIÓN: %s\n", p.PrepTime)
	fmt.Fprintf(&b, "NIVEL DE DIFICULTAD: %s\n", p.DifficultyLevel)
	fmt.Fprintf(&b, "DISPONIBILIDAD DE ELECTRICIDAD: %s\n", p.ElectricityType)
	if len(r.Allergies) > 0 {
		fmt.Fprintf(&b, "ALERGIAS A EVITAR: %s\n", common.StringSliceToString(r.Allergies))
	}
	if len(r.Preferences) > 0 {
		fmt.Fprintf(&b, "PREFERENCIAS ADICIONALES: %s\n", common.StringSliceToString(r.Preferences))
	}
	if strings.TrimSpace(r.OtherRestrictions) != "" {
		fmt.Fprintf(&b, "OTRAS RESTRICCIONES: %s\n", strings.TrimSpace(r.OtherRestrictions))
	}
	if len(input.AvailableIngredients) > 0 {
		fmt.Fprintf(&b, "INGREDIENTES DISPONIBLES: %s\n", common.StringSliceToString(input.AvailableIngredients))
	}

	b.WriteString("\n")
	if input.NoElectricity() {
		b.WriteString(noElectricityMessage)
	} else {
		b.WriteString(electricityMessage)
	}
	b.WriteString("\n\n")
	b.WriteString(responseFormat)
	return b.String()
}
