package config

import (
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("MONGO_URI", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("FRONTEND_URL", "")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("default port: got %q, want 8080", cfg.Port)
	}
	if cfg.MongoURI != "mongodb://localhost:27017/wayfarer" {
		t.Errorf("default mongo URI: got %q", cfg.MongoURI)
	}
	if cfg.IsProduction() {
		t.Error("default environment must not be production")
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"http://localhost:3000"}) {
		t.Errorf("default origins: got %v", cfg.AllowedOrigins)
	}
}

func TestLoadAllowedOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://www.wayfarer.app, https://wayfarer.app ,")

	cfg := Load()

	want := []string{"https://www.wayfarer.app", "https://wayfarer.app"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("origins: got %v, want %v", cfg.AllowedOrigins, want)
	}
}

func TestLoadFrontendFallback(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("FRONTEND_URL", "https://app.example.com")
	t.Setenv("FRONTEND_URL_2", "https://staging.example.com")

	cfg := Load()

	want := []string{"https://app.example.com", "https://staging.example.com"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("origins: got %v, want %v", cfg.AllowedOrigins, want)
	}
}

func TestIsProduction(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{env: "production", want: true},
		{env: " Production ", want: true},
		{env: "development", want: false},
		{env: "staging", want: false},
	}
	for _, test := range tests {
		t.Run(test.env, func(t *testing.T) {
			t.Setenv("ENV", test.env)
			if got := Load().IsProduction(); got != test.want {
				t.Errorf("ENV=%q IsProduction: got %v, want %v", test.env, got, test.want)
			}
		})
	}
}
