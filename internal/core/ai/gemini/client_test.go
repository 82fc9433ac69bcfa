package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"vitaspoon/internal/core/ai/provider"
	"vitaspoon/internal/infrastructure/config"
	"vitaspoon/internal/pkg/common"
)

const recipeText = `{"title":"Batido de Mango","ingredients":[{"name":"mango","quantity":"1","unit":"unidad"}],"instructions":["Licúa el mango."]}`

func geminiReply(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	})
}

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "g-key" {
			t.Errorf("key = %q", r.URL.Query().Get("key"))
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.GenerationConfig.Temperature != 0.9 || req.GenerationConfig.MaxOutputTokens != 2048 {
			t.Errorf("generationConfig = %+v", req.GenerationConfig)
		}
		geminiReply(w, recipeText)
	}))
	defer srv.Close()

	c, err := NewClient(config.ProviderConfig{APIKey: "g-key", BaseURL: srv.URL + "/flash", Temperature: 0.9, MaxTokens: 2048})
	if err != nil {
		t.Fatal(err)
	}
	r, err := c.Generate(context.Background(), common.UserInput{Preferences: common.Preferences{CuisineType: "Merienda"}})
	if err != nil {
		t.Fatal(err)
	}
	if r.Title != "Batido de Mango" || r.Source != provider.NameGemini {
		t.Fatalf("recipe = %+v", r)
	}
}

func TestGenerateFallsBackToAltModel(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/flash" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		geminiReply(w, recipeText)
	}))
	defer srv.Close()

	c, _ := NewClient(config.ProviderConfig{APIKey: "g-key", BaseURL: srv.URL + "/flash", AltURL: srv.URL + "/pro"})
	if _, err := c.Generate(context.Background(), common.UserInput{}); err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 || paths[1] != "/pro" {
		t.Fatalf("paths = %v", paths)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{"forbidden", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusForbidden) }, provider.ErrUpstream},
		{"not found without alt", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) }, provider.ErrUpstream},
		{"no candidates", func(w http.ResponseWriter, r *http.Request) { io.WriteString(w, `{"candidates":[]}`) }, provider.ErrEmptyResponse},
		{"blank text", func(w http.ResponseWriter, r *http.Request) { geminiReply(w, " ") }, provider.ErrEmptyResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			c, _ := NewClient(config.ProviderConfig{APIKey: "g-key", BaseURL: srv.URL})
			if _, err := c.Generate(context.Background(), common.UserInput{}); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
