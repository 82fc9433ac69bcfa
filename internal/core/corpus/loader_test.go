package corpus

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"vitaspoon/internal/pkg/common"
)

func fixedIDs() common.IDGenerator {
	return func() string { return "generated" }
}

func TestConvert(t *testing.T) {
	c := NewConverter(fixedIDs())
	r := c.Convert(Row{
		"name":         "Potaje de Frijoles",
		"ingredients":  "500 g frijoles negros, 1 unidad cebolla, sal",
		"instructions": "Remoja los frijoles. Cocina a fuego lento. Sirve",
		"minutes":      "50",
	})

	if r.ID != "generated" || r.Source != common.SourceCSV {
		t.Fatalf("id/source = %q/%q", r.ID, r.Source)
	}
	wantIngredients := []common.Ingredient{
		{Name: "frijoles negros", Quantity: "500", Unit: "g"},
		{Name: "cebolla", Quantity: "1", Unit: "unidad"},
		{Name: "sal"},
	}
	if !reflect.DeepEqual(r.Ingredients, wantIngredients) {
		t.Fatalf("ingredients = %+v", r.Ingredients)
	}
	wantSteps := []string{"Remoja los frijoles.", "Cocina a fuego lento.", "Sirve."}
	if !reflect.DeepEqual(r.Instructions, wantSteps) {
		t.Fatalf("instructions = %v", r.Instructions)
	}
	if r.PrepTime != "Largo" || r.DifficultyLevel != "Difícil" {
		t.Fatalf("prep/difficulty = %q/%q", r.PrepTime, r.DifficultyLevel)
	}
	if r.CuisineType != "Internacional" || r.DietType != "Regular" {
		t.Fatalf("defaults = %q/%q", r.CuisineType, r.DietType)
	}
}

func TestConvertBuckets(t *testing.T) {
	tests := []struct {
		minutes, difficulty string
		prep, level         string
	}{
		{"10", "", "Rápido", "Fácil"},
		{"15", "", "Rápido", "Fácil"},
		{"30", "", "Medio", "Medio"},
		{"45", "", "Medio", "Difícil"},
		{"", "", "Medio", "Medio"},
		{"abc", "", "Medio", "Medio"},
		{"90", "Avanzada", "Largo", "Avanzada"},
	}
	c := NewConverter(fixedIDs())
	for _, tt := range tests {
		r := c.Convert(Row{"name": "x", "minutes": tt.minutes, "difficulty": tt.difficulty})
		if r.PrepTime != tt.prep || r.DifficultyLevel != tt.level {
			t.Errorf("minutes=%q: got %q/%q, want %q/%q", tt.minutes, r.PrepTime, r.DifficultyLevel, tt.prep, tt.level)
		}
	}
}

func TestConvertEmptyFields(t *testing.T) {
	r := NewConverter(fixedIDs()).Convert(Row{})
	if r.Title != "Receta sin nombre" {
		t.Fatalf("title = %q", r.Title)
	}
	if len(r.Ingredients) != 1 || len(r.Instructions) != 1 {
		t.Fatalf("placeholders missing: %+v", r)
	}
}

func TestReadCSV(t *testing.T) {
	data := "\ufeffID,Name,Ingredients,Instructions,Minutes,Cuisine,Diet\n" +
		"c1,Yuca con Mojo,\"1 kg yuca, 4 dientes ajo\",\"Hierve la yuca\nPrepara el mojo\",40,Almuerzo,Vegana\n" +
		",,,,,,\n" +
		"c2,Tostones,plátano verde,Fríe el plátano,20,Snack,\n"
	recipes, err := NewConverter(fixedIDs()).ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(recipes) != 2 {
		t.Fatalf("got %d recipes", len(recipes))
	}
	first := recipes[0]
	if first.ID != "c1" || first.Title != "Yuca con Mojo" || first.CuisineType != "Almuerzo" || first.DietType != "Vegana" {
		t.Fatalf("first = %+v", first)
	}
	if len(first.Instructions) != 2 || first.Instructions[1] != "Prepara el mojo" {
		t.Fatalf("instructions = %v", first.Instructions)
	}
	if recipes[1].DietType != "Regular" {
		t.Fatalf("diet default = %q", recipes[1].DietType)
	}
}

func TestReadHTML(t *testing.T) {
	page := `<html><body>
<table>
  <thead><tr><th>name</th><th>ingredients</th><th>instructions</th><th>cuisine</th></tr></thead>
  <tbody>
    <tr><td>Ropa Vieja</td><td>500 g carne de res, 1 unidad pimiento</td><td>Cocina la carne<br>Deshilacha y sofríe</td><td>Almuerzo</td></tr>
    <tr><td></td><td></td><td></td><td></td></tr>
  </tbody>
</table></body></html>`
	recipes, err := NewConverter(fixedIDs()).ReadHTML(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	if len(recipes) != 1 {
		t.Fatalf("got %d recipes", len(recipes))
	}
	r := recipes[0]
	if r.Title != "Ropa Vieja" || r.CuisineType != "Almuerzo" {
		t.Fatalf("recipe = %+v", r)
	}
	if len(r.Instructions) != 2 {
		t.Fatalf("instructions = %v", r.Instructions)
	}
	if r.Ingredients[0].Name != "carne de res" {
		t.Fatalf("ingredients = %+v", r.Ingredients)
	}
}

func TestReadHTMLWithoutTable(t *testing.T) {
	if _, err := NewConverter(fixedIDs()).ReadHTML(strings.NewReader("<p>nada</p>")); err == nil {
		t.Fatal("expected error")
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	in := []common.Recipe{
		{
			ID:              "x1",
			Title:           "Arroz Frito",
			Ingredients:     []common.Ingredient{{Name: "arroz", Quantity: "2", Unit: "tazas"}, {Name: "huevos", Quantity: "2", Unit: "unidades"}},
			Instructions:    []string{"Saltea el arroz.", "Añade los huevos."},
			PrepTime:        "Rápido",
			DifficultyLevel: "Fácil",
			CuisineType:     "Cena",
			DietType:        "Vegetariana",
		},
	}
	var buf bytes.Buffer
	if err := ExportXLSX(&buf, in); err != nil {
		t.Fatal(err)
	}

	out, err := NewConverter(fixedIDs()).ReadXLSX(&buf, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d recipes", len(out))
	}
	got := out[0]
	if got.ID != "x1" || got.Title != "Arroz Frito" || got.CuisineType != "Cena" || got.DietType != "Vegetariana" {
		t.Fatalf("recipe = %+v", got)
	}
	if !reflect.DeepEqual(got.Ingredients, in[0].Ingredients) {
		t.Fatalf("ingredients = %+v", got.Ingredients)
	}
	if !reflect.DeepEqual(got.Instructions, in[0].Instructions) {
		t.Fatalf("instructions = %v", got.Instructions)
	}
	if got.PrepTime != "Rápido" || got.DifficultyLevel != "Fácil" {
		t.Fatalf("prep/difficulty = %q/%q", got.PrepTime, got.DifficultyLevel)
	}
}

func TestCuratedCorpus(t *testing.T) {
	recipes, err := Curated()
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	for _, r := range recipes {
		if r.Title == "" || len(r.Ingredients) == 0 || len(r.Instructions) == 0 {
			t.Fatalf("invalid curated recipe: %+v", r)
		}
		if r.Source != common.SourceLocal {
			t.Fatalf("source = %q", r.Source)
		}
		if r.Title == "Ensalada Mediterránea con Garbanzos" && r.CuisineType == "Almuerzo" {
			found = true
		}
	}
	if !found {
		t.Fatal("chickpea salad missing from curated corpus")
	}
}

func TestMergePrefersExternal(t *testing.T) {
	external := []common.Recipe{{Title: "Flan de Huevo", Source: common.SourceCSV}, {Title: "Yuca con Mojo"}}
	curated := []common.Recipe{{Title: "flan de huevo ", Source: common.SourceLocal}, {Title: "Tostadas"}}
	got := Merge(external, curated)
	if len(got) != 3 {
		t.Fatalf("got %d recipes", len(got))
	}
	if got[0].Source != common.SourceCSV || got[2].Title != "Tostadas" {
		t.Fatalf("merged = %+v", got)
	}
}

func TestLoader(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "extra.csv")
	data := "name,ingredients,instructions,minutes,cuisine\n" +
		"Ensalada Mediterránea con Garbanzos,garbanzos,Mezcla todo,10,Almuerzo\n" +
		"Tamal en Cazuela,harina de maíz,Cocina la harina,60,Almuerzo\n"
	if err := os.WriteFile(csvPath, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	curated, _ := Curated()

	t.Run("merges datasets", func(t *testing.T) {
		recipes, err := NewLoader([]string{csvPath}, "", fixedIDs()).Load(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if len(recipes) != len(curated)+1 {
			t.Fatalf("got %d, want %d", len(recipes), len(curated)+1)
		}
		if recipes[0].Source != common.SourceCSV {
			t.Fatalf("external recipe should win: %+v", recipes[0])
		}
	})

	t.Run("failing dataset falls back to curated", func(t *testing.T) {
		recipes, err := NewLoader([]string{csvPath, filepath.Join(dir, "missing.csv")}, "", fixedIDs()).Load(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if len(recipes) != len(curated) {
			t.Fatalf("got %d, want %d", len(recipes), len(curated))
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		path := filepath.Join(dir, "recipes.txt")
		if err := os.WriteFile(path, []byte("hola"), 0o644); err != nil {
			t.Fatal(err)
		}
		l := NewLoader(nil, "", fixedIDs())
		if _, err := l.readFile(path); !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestRandom(t *testing.T) {
	recipes := []common.Recipe{
		{Title: "Pollo Asado (Sin Electricidad)", CuisineType: "Cena"},
		{Title: "Pasta", CuisineType: "Cena"},
		{Title: "Flan", CuisineType: "Postre"},
	}
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 10; i++ {
		r, ok := Random(recipes, RandomFilter{CuisineType: "Cena", ElectricityType: common.ElectricityAvailable}, rng)
		if !ok || r.Title != "Pasta" {
			t.Fatalf("got %q", r.Title)
		}
		r, _ = Random(recipes, RandomFilter{ElectricityType: common.ElectricityNone}, rng)
		if r.Title != "Pollo Asado (Sin Electricidad)" {
			t.Fatalf("got %q", r.Title)
		}
	}

	if _, ok := Random(recipes, RandomFilter{CuisineType: "Merienda"}, rng); !ok {
		t.Fatal("no match should fall back to the whole corpus")
	}
	if _, ok := Random(nil, RandomFilter{}, rng); ok {
		t.Fatal("empty corpus should report false")
	}
}
