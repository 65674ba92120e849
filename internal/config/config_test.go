package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.envValue)

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "TEST_INT_3", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.envValue)

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsListOrDefault(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected []string
	}{
		{"uses default when empty", "", []string{"fallback"}},
		{"splits and trims", " a, b ,c", []string{"a", "b", "c"}},
		{"drops blank entries", "a,,  ,b", []string{"a", "b"}},
		{"only separators falls back", " , ,", []string{"fallback"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("TEST_LIST", tc.envValue)

			result := getEnvAsListOrDefault("TEST_LIST", []string{"fallback"})
			if diff := cmp.Diff(tc.expected, result); diff != "" {
				t.Errorf("unexpected list (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "GEMINI_API_KEY", "GEMINI_BASE_URL", "GEMINI_API_VERSION",
		"GEMINI_ALLOWED_MODELS", "CORS_ALLOWED_ORIGINS", "RATE_LIMIT_PER_MINUTE",
		"STATIC_DIR", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	expected := &Config{
		Port:                "3000",
		Env:                 "development",
		GeminiBaseURL:       "https://generativelanguage.googleapis.com",
		GeminiAPIVersion:    "v1",
		GeminiAllowedModels: []string{"gemini-1.5-pro"},
		CORSAllowedOrigins:  []string{"*"},
		LogLevel:            "info",
		LogFormat:           "json",
	}
	if diff := cmp.Diff(expected, cfg); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestLoad_MissingAPIKeyDoesNotPanic(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "   ")

	cfg := Load()
	if cfg.GeminiAPIKey != "" {
		t.Errorf("Expected blank key to load as empty, got %q", cfg.GeminiAPIKey)
	}
}
