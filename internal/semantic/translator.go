package semantic

import (
	"strings"
	"sync"
)

// Translator translates normalized labels between languages word by word.
// Dictionaries are keyed by "from>to" language pair.
type Translator struct {
	mu    sync.RWMutex
	pairs map[string]map[string]string
}

// NewTranslator creates an empty translator
func NewTranslator() *Translator {
	return &Translator{pairs: make(map[string]map[string]string)}
}

func pairKey(from, to string) string {
	return strings.ToLower(from) + ">" + strings.ToLower(to)
}

// AddEntry registers a translation and its reverse
func (t *Translator) AddEntry(from, to, word, translation string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	add := func(key, w, tr string) {
		dict, ok := t.pairs[key]
		if !ok {
			dict = make(map[string]string)
			t.pairs[key] = dict
		}
		if _, exists := dict[w]; !exists {
			dict[w] = tr
		}
	}
	add(pairKey(from, to), word, translation)
	add(pairKey(to, from), translation, word)
}

// HasPair reports whether a dictionary exists for the language pair
func (t *Translator) HasPair(from, to string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.pairs[pairKey(from, to)]
	return ok
}

// Translate translates a normalized phrase. Whole-phrase entries win over
// word-by-word translation; untranslatable words are kept. ok is false when
// nothing in the phrase could be translated.
func (t *Translator) Translate(from, to, phrase string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	dict, found := t.pairs[pairKey(from, to)]
	if !found {
		return phrase, false
	}
	if tr, ok := dict[phrase]; ok {
		return tr, true
	}

	words := strings.Fields(phrase)
	translated := false
	for i, w := range words {
		if tr, ok := dict[w]; ok {
			words[i] = tr
			translated = true
		}
	}
	return strings.Join(words, " "), translated
}

// Singleton cache for default translator
var (
	defaultTranslator     *Translator
	defaultTranslatorOnce sync.Once
)

// DefaultTranslator returns the built-in dictionary covering en, pt, es and fr
func DefaultTranslator() *Translator {
	defaultTranslatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
		for _, e := range defaultTranslations {
			for lang, word := range e.words {
				defaultTranslator.AddEntry("en", lang, e.en, word)
			}
		}
	})
	return defaultTranslator
}

type translationEntry struct {
	en    string
	words map[string]string
}

var defaultTranslations = []translationEntry{
	{"paper", map[string]string{"pt": "artigo", "es": "articulo", "fr": "article"}},
	{"author", map[string]string{"pt": "autor", "es": "autor", "fr": "auteur"}},
	{"conference", map[string]string{"pt": "conferencia", "es": "conferencia", "fr": "conference"}},
	{"review", map[string]string{"pt": "revisao", "es": "revision", "fr": "evaluation"}},
	{"reviewer", map[string]string{"pt": "revisor", "es": "revisor", "fr": "relecteur"}},
	{"person", map[string]string{"pt": "pessoa", "es": "persona", "fr": "personne"}},
	{"event", map[string]string{"pt": "evento", "es": "evento", "fr": "evenement"}},
	{"chair", map[string]string{"pt": "presidente", "es": "presidente", "fr": "president"}},
	{"committee", map[string]string{"pt": "comite", "es": "comite", "fr": "comite"}},
	{"member", map[string]string{"pt": "membro", "es": "miembro", "fr": "membre"}},
	{"organization", map[string]string{"pt": "organizacao", "es": "organizacion", "fr": "organisation"}},
	{"document", map[string]string{"pt": "documento", "es": "documento", "fr": "document"}},
	{"session", map[string]string{"pt": "sessao", "es": "sesion", "fr": "session"}},
	{"topic", map[string]string{"pt": "topico", "es": "tema", "fr": "sujet"}},
	{"decision", map[string]string{"pt": "decisao", "es": "decision", "fr": "decision"}},
	{"accepted", map[string]string{"pt": "aceito", "es": "aceptado", "fr": "accepte"}},
	{"rejected", map[string]string{"pt": "rejeitado", "es": "rechazado", "fr": "rejete"}},
	{"car", map[string]string{"pt": "carro", "es": "coche", "fr": "voiture"}},
	{"heart", map[string]string{"pt": "coracao", "es": "corazon", "fr": "coeur"}},
	{"kidney", map[string]string{"pt": "rim", "es": "rinon", "fr": "rein"}},
	{"disease", map[string]string{"pt": "doenca", "es": "enfermedad", "fr": "maladie"}},
	{"bone", map[string]string{"pt": "osso", "es": "hueso", "fr": "os"}},
}
