package common

// 預設值
const (
	DefaultPrepTime   = "15-30 minutos"
	DefaultDifficulty = "Fácil"
	DefaultDiet       = "Estándar"
	DefaultCuisine    = "Variado"
)

// 來源標記
const (
	SourceLocal = "local"
	SourceCSV   = "csv_database"
)

// 電力選項與標題標記
const (
	ElectricityAvailable = "Con electricidad"
	ElectricityNone      = "Sin electricidad"

	NoElectricityMarker = "(Sin Electricidad)"
	PersonalizedMarker  = "(Personalizada)"
)

// Ingredient 食材，數量與單位保留原始文字
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// Recipe 食譜
// 生成後視為值物件，個人化時會產生新的副本
type Recipe struct {
	ID              string       `json:"id,omitempty"`
	Title           string       `json:"title"`
	Ingredients     []Ingredient `json:"ingredients"`
	Instructions    []string     `json:"instructions"`
	PrepTime        string       `json:"prepTime"`
	DifficultyLevel string       `json:"difficultyLevel"`
	CuisineType     string       `json:"cuisineType"`
	DietType        string       `json:"dietType"`
	CreatedAt       string       `json:"createdAt,omitempty"`
	IsSaved         bool         `json:"isSaved,omitempty"`
	Source          string       `json:"source,omitempty"`
}

// Clone 深層複製食譜
func (r Recipe) Clone() Recipe {
	out := r
	if r.Ingredients != nil {
		out.Ingredients = make([]Ingredient, len(r.Ingredients))
		copy(out.Ingredients, r.Ingredients)
	}
	if r.Instructions != nil {
		out.Instructions = make([]string, len(r.Instructions))
		copy(out.Instructions, r.Instructions)
	}
	return out
}

// DietaryRestrictions 飲食限制
type DietaryRestrictions struct {
	Allergies         []string `json:"allergies"`
	Preferences       []string `json:"preferences"`
	OtherRestrictions string   `json:"otherRestrictions"`
}

// Preferences 使用者偏好，空字串代表不限制
type Preferences struct {
	CuisineType     string `json:"cuisineType"`
	DietType        string `json:"dietType"`
	PrepTime        string `json:"prepTime"`
	DifficultyLevel string `json:"difficultyLevel"`
	ElectricityType string `json:"electricityType"`
}

// UserInput 使用者輸入
type UserInput struct {
	DietaryRestrictions  DietaryRestrictions `json:"dietaryRestrictions"`
	Preferences          Preferences         `json:"preferences"`
	AvailableIngredients []string            `json:"availableIngredients"`
}

// NoElectricity 是否要求無電力料理
func (u UserInput) NoElectricity() bool {
	return u.Preferences.ElectricityType == ElectricityNone
}

// FormOptions 表單選項
type FormOptions struct {
	MealTypes        []string `json:"mealTypes"`
	DietTypes        []string `json:"dietTypes"`
	PrepTimes        []string `json:"prepTimes"`
	DifficultyLevels []string `json:"difficultyLevels"`
	ElectricityTypes []string `json:"electricityTypes"`
	CommonAllergies  []string `json:"commonAllergies"`
}

// DefaultFormOptions 回傳預設表單選項
func DefaultFormOptions() FormOptions {
	return FormOptions{
		MealTypes:        []string{"Desayuno", "Almuerzo", "Merienda", "Cena", "Postre"},
		DietTypes:        []string{"Estándar", "Vegetariana", "Vegana", "Alto en proteínas", "Bajo en carbohidratos", "Bajo en grasas", "Bajo en calorías"},
		PrepTimes:        []string{"< 15 minutos", "15-30 minutos", "30-60 minutos"},
		DifficultyLevels: []string{"Fácil", "Intermedia", "Avanzada"},
		ElectricityTypes: []string{ElectricityAvailable, ElectricityNone},
		CommonAllergies:  []string{"Lácteos", "Huevo", "Mariscos", "Frutos secos"},
	}
}
