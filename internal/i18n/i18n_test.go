package i18n

import (
	"sort"
	"testing"
)

// TestI18nCompleteness verifies that all language profiles contain all message keys
func TestI18nCompleteness(t *testing.T) {
	// Get all supported languages
	languages := GetSupportedLanguages()
	if len(languages) == 0 {
		t.Fatal("No supported languages found")
	}

	// Get the reference messages from English (assumed to be complete)
	referenceMessages := getMessages(DefaultLanguage)
	if len(referenceMessages) == 0 {
		t.Fatal("No reference messages found in default language")
	}

	// Extract all keys from reference messages
	var referenceKeys []string
	for key := range referenceMessages {
		referenceKeys = append(referenceKeys, key)
	}
	sort.Strings(referenceKeys)

	t.Logf("Reference language (%s) has %d message keys", DefaultLanguage, len(referenceKeys))

	// Test each language profile
	for _, lang := range languages {
		t.Run("Language_"+lang, func(t *testing.T) {
			messages := getMessages(lang)

			// Get keys from this language
			var langKeys []string
			for key := range messages {
				langKeys = append(langKeys, key)
			}
			sort.Strings(langKeys)

			t.Logf("Language %s has %d message keys", lang, len(langKeys))

			// Check for missing keys
			var missingKeys []string
			for _, refKey := range referenceKeys {
				if _, exists := messages[refKey]; !exists {
					missingKeys = append(missingKeys, refKey)
				}
			}

			// Check for extra keys (keys in this language but not in reference)
			var extraKeys []string
			for _, langKey := range langKeys {
				if _, exists := referenceMessages[langKey]; !exists {
					extraKeys = append(extraKeys, langKey)
				}
			}

			// Report results
			if len(missingKeys) > 0 {
				t.Errorf("Language %s is missing %d keys: %v", lang, len(missingKeys), missingKeys)
			}

			if len(extraKeys) > 0 {
				t.Logf("Language %s has %d extra keys (not in reference): %v", lang, len(extraKeys), extraKeys)
			}

			if len(missingKeys) == 0 && len(extraKeys) == 0 {
				t.Logf("✅ Language %s is complete and matches reference", lang)
			}
		})
	}
}

// TestI18nKeyConsistency verifies that all message keys follow expected patterns
func TestI18nKeyConsistency(t *testing.T) {
	expectedPrefixes := []string{
		"page.",
		"form.",
		"table.",
		"error.",
		"hint.",
		"cli.",
	}

	referenceMessages := getMessages(DefaultLanguage)

	for key := range referenceMessages {
		hasValidPrefix := false
		for _, prefix := range expectedPrefixes {
			if len(key) > len(prefix) && key[:len(prefix)] == prefix {
				hasValidPrefix = true
				break
			}
		}

		if !hasValidPrefix {
			t.Errorf("Message key '%s' does not follow expected naming convention (should start with one of: %v)", key, expectedPrefixes)
		}
	}
}

// TestI18nMessageValues verifies that messages contain expected placeholders
func TestI18nMessageValues(t *testing.T) {
	testsWithPlaceholders := map[string]int{
		"table.count":          1, // number of tracks
		"error.resolve_failed": 0,
		"error.empty_input":    0,
	}

	for _, lang := range GetSupportedLanguages() {
		messages := getMessages(lang)
		for key, expectedPlaceholders := range testsWithPlaceholders {
			message, exists := messages[key]
			if !exists {
				t.Errorf("Expected message key '%s' not found in %s", key, lang)
				continue
			}

			placeholderCount := 0
			// Count %s and %d placeholders
			for i := 0; i < len(message)-1; i++ {
				if message[i] == '%' && (message[i+1] == 's' || message[i+1] == 'd') {
					placeholderCount++
				}
			}

			if placeholderCount != expectedPlaceholders {
				t.Errorf("Message key '%s' (%s) should have %d placeholders but has %d: %s",
					key, lang, expectedPlaceholders, placeholderCount, message)
			}
		}
	}
}

// TestLocalizerFunctionality tests the Localizer methods
func TestLocalizerFunctionality(t *testing.T) {
	localizer := NewLocalizer(DefaultLanguage)
	if localizer == nil {
		t.Fatal("Failed to create localizer")
	}

	result := localizer.T("error.empty_input")
	if result != "Enter a playlist link" {
		t.Errorf("Expected translated message for 'error.empty_input', got: %s", result)
	}

	// Test non-existing key (should return the key itself)
	nonExistentKey := "this.key.does.not.exist"
	result = localizer.T(nonExistentKey)
	if result != nonExistentKey {
		t.Errorf("Expected fallback to key name for non-existent key, got: %s", result)
	}

	result = localizer.T("table.count", 3)
	if result != "Tracks: 3" {
		t.Errorf("Expected 'Tracks: 3', got '%s'", result)
	}

	ru := NewLocalizer(Russian)
	if got := ru.T("error.empty_input"); got != "Введите ссылку на плейлист" {
		t.Errorf("Expected Russian empty input message, got: %s", got)
	}
	if ru.Language() != Russian {
		t.Errorf("Expected language %s, got %s", Russian, ru.Language())
	}

	// Unknown languages use the English catalogue
	unknown := NewLocalizer("xx")
	if got := unknown.T("form.submit"); got != "Show tracks" {
		t.Errorf("Expected English fallback for unknown language, got: %s", got)
	}
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		lang string
		want bool
	}{
		{"en", true},
		{"ru", true},
		{"de", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsSupported(tt.lang); got != tt.want {
			t.Errorf("IsSupported(%q) = %v, want %v", tt.lang, got, tt.want)
		}
	}
}

// TestGetSupportedLanguages verifies the supported languages function
func TestGetSupportedLanguages(t *testing.T) {
	languages := GetSupportedLanguages()

	if len(languages) == 0 {
		t.Error("GetSupportedLanguages should return at least one language")
	}

	// Should include default language
	foundDefault := false
	for _, lang := range languages {
		if lang == DefaultLanguage {
			foundDefault = true
			break
		}
	}

	if !foundDefault {
		t.Errorf("GetSupportedLanguages should include default language '%s'", DefaultLanguage)
	}

	t.Logf("Supported languages: %v", languages)
}

// BenchmarkLocalizer benchmarks the localization performance
func BenchmarkLocalizer(b *testing.B) {
	localizer := NewLocalizer(DefaultLanguage)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = localizer.T("error.resolve_failed")
	}
}

// BenchmarkLocalizerWithArgs benchmarks localization with arguments
func BenchmarkLocalizerWithArgs(b *testing.B) {
	localizer := NewLocalizer(DefaultLanguage)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = localizer.T("table.count", 42)
	}
}
