package semantic

import "testing"

func TestTranslate(t *testing.T) {
	tr := NewTranslator()
	tr.AddEntry("en", "pt", "heart", "coracao")
	tr.AddEntry("en", "pt", "valve", "valvula")
	tr.AddEntry("en", "pt", "heart valve", "valvula cardiaca")

	tests := []struct {
		from, to, phrase string
		want             string
		ok               bool
	}{
		{"en", "pt", "heart valve", "valvula cardiaca", true},
		{"en", "pt", "heart", "coracao", true},
		{"en", "pt", "left heart", "left coracao", true},
		{"pt", "en", "coracao", "heart", true},
		{"en", "pt", "kidney", "kidney", false},
		{"en", "fr", "heart", "heart", false},
	}

	for _, tt := range tests {
		got, ok := tr.Translate(tt.from, tt.to, tt.phrase)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Translate(%s, %s, %q) = %q, %v; want %q, %v", tt.from, tt.to, tt.phrase, got, ok, tt.want, tt.ok)
		}
	}

	if !tr.HasPair("PT", "en") || tr.HasPair("en", "de") {
		t.Error("HasPair misreports dictionaries")
	}
}

func TestDefaultTranslator(t *testing.T) {
	tr := DefaultTranslator()
	if got, ok := tr.Translate("pt", "en", "artigo"); !ok || got != "paper" {
		t.Errorf("Translate(pt, en, artigo) = %q, %v", got, ok)
	}
	if !tr.HasPair("en", "fr") {
		t.Error("Default translator should cover en>fr")
	}
}
