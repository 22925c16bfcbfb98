package capture

import "testing"

func TestLocale(t *testing.T) {
	tests := map[string]string{
		"English":    "en-US",
		"Spanish":    "es-ES",
		"Norwegian":  "nb-NO",
		"Urdu":       "ur-PK",
		"Klingon":    "en-US",
		"":           "en-US",
		"spanish":    "en-US",
	}
	for lang, want := range tests {
		if got := Locale(lang); got != want {
			t.Errorf("Locale(%q) = %q, want %q", lang, got, want)
		}
	}
}

func TestLanguages(t *testing.T) {
	langs := Languages()
	if len(langs) != 33 {
		t.Fatalf("expected 33 languages, got %d", len(langs))
	}
	if langs[0] != "Arabic" {
		t.Errorf("expected sorted list, first is %q", langs[0])
	}
}

func TestParseLocales_Invalid(t *testing.T) {
	if _, err := parseLocales([]byte("locales: [")); err == nil {
		t.Error("expected parse error")
	}
	if _, err := parseLocales([]byte("locales:\n  English: en-US\n")); err == nil {
		t.Error("expected error for missing default")
	}
}

func TestErrorMessage(t *testing.T) {
	if _, ok := ErrorMessage(ErrNoSpeech); ok {
		t.Error("no-speech must not be surfaced")
	}
	if msg, ok := ErrorMessage("bad-grammar"); !ok || msg != "Speech recognition error: bad-grammar" {
		t.Errorf("unexpected message %q", msg)
	}
}
