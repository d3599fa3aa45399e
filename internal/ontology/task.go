package ontology

import (
	"context"

	"github.com/standardbeagle/ontomatch/internal/config"
	"github.com/standardbeagle/ontomatch/internal/debug"
	ierrors "github.com/standardbeagle/ontomatch/internal/errors"
	"github.com/standardbeagle/ontomatch/internal/semantic"
	"github.com/standardbeagle/ontomatch/internal/types"
)

// SourceResolver locates background-knowledge sources by name
type SourceResolver interface {
	Sources() ([]string, error)
	Resolve(name string) (string, error)
}

// Task is a matching task: a source and a target ontology plus the
// background-knowledge ontology currently open, if any.
type Task struct {
	source     *Ontology
	target     *Ontology
	cfg        config.Task
	resolver   SourceResolver
	translator *semantic.Translator
	normalize  func(string) string

	bk         *Ontology
	translated bool
}

// TaskOption configures a Task
type TaskOption func(*Task)

// WithResolver sets the background-knowledge catalog
func WithResolver(r SourceResolver) TaskOption {
	return func(t *Task) { t.resolver = r }
}

// WithTranslator replaces the built-in translation dictionary
func WithTranslator(tr *semantic.Translator) TaskOption {
	return func(t *Task) { t.translator = tr }
}

// WithNormalizer sets the name normalizer used for background-knowledge ontologies
func WithNormalizer(fn func(string) string) TaskOption {
	return func(t *Task) { t.normalize = fn }
}

// NewTask creates a task over two loaded ontologies
func NewTask(source, target *Ontology, cfg config.Task, opts ...TaskOption) *Task {
	t := &Task{
		source:     source,
		target:     target,
		cfg:        cfg,
		translator: semantic.DefaultTranslator(),
		normalize:  semantic.NewNormalizer(config.DefaultNameCacheSize).Normalize,
	}
	if t.cfg.SmallClassLimit == 0 {
		t.cfg.SmallClassLimit = config.DefaultSmallClassLimit
	}
	if t.cfg.MediumClassLimit == 0 {
		t.cfg.MediumClassLimit = config.DefaultMediumClassLimit
	}
	if t.cfg.LargeClassLimit == 0 {
		t.cfg.LargeClassLimit = config.DefaultLargeClassLimit
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Source returns the source ontology
func (t *Task) Source() Schema { return t.source }

// Target returns the target ontology
func (t *Task) Target() Schema { return t.target }

// SourceOntology returns the source ontology with its lexicon
func (t *Task) SourceOntology() *Ontology { return t.source }

// TargetOntology returns the target ontology with its lexicon
func (t *Task) TargetOntology() *Ontology { return t.target }

// SizeCategory classifies the task by the class count of the larger
// ontology, unless the configuration fixes it
func (t *Task) SizeCategory() (types.SizeCategory, error) {
	if t.cfg.Size != "" {
		size, err := types.ParseSizeCategory(t.cfg.Size)
		if err != nil {
			return 0, ierrors.NewConfigError("task.size", t.cfg.Size, err)
		}
		return size, nil
	}
	n := max(t.source.ClassCount(), t.target.ClassCount())
	switch {
	case n < t.cfg.SmallClassLimit:
		return types.SizeSmall, nil
	case n < t.cfg.MediumClassLimit:
		return types.SizeMedium, nil
	case n < t.cfg.LargeClassLimit:
		return types.SizeLarge, nil
	default:
		return types.SizeHuge, nil
	}
}

// LanguageSetting classifies the task by the languages both lexicons share.
// A configured setting applies until the ontologies have been translated.
func (t *Task) LanguageSetting() (types.LanguageSetting, error) {
	if t.cfg.Language != "" && !t.translated {
		lang, err := types.ParseLanguageSetting(t.cfg.Language)
		if err != nil {
			return 0, ierrors.NewConfigError("task.language", t.cfg.Language, err)
		}
		return lang, nil
	}
	switch len(t.Languages()) {
	case 0:
		return types.LanguageTranslate, nil
	case 1:
		return types.LanguageSingle, nil
	default:
		return types.LanguageMulti, nil
	}
}

// Languages returns the languages shared by both lexicons, sorted
func (t *Task) Languages() []string {
	target := make(map[string]bool)
	for _, l := range t.target.Languages() {
		target[l] = true
	}
	var shared []string
	for _, l := range t.source.Languages() {
		if target[l] {
			shared = append(shared, l)
		}
	}
	return shared
}

// TranslateOntologies adds to the source lexicon the translation of every
// source-language name into the target language.
func (t *Task) TranslateOntologies(ctx context.Context) error {
	from, to := t.source.Language, t.target.Language
	if !t.translator.HasPair(from, to) {
		return ierrors.NewCollaboratorError("ontology", "translate", ierrors.ErrNoTranslation)
	}

	lex := t.source.Lexicon()
	var pending []LexEntry
	for _, e := range lex.All() {
		if e.Language == from {
			pending = append(pending, e)
		}
	}

	added := 0
	for i, e := range pending {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return ierrors.NewCollaboratorError("ontology", "translate", err)
			}
		}
		name, ok := t.translator.Translate(from, to, e.Name)
		if !ok {
			continue
		}
		if lex.Add(LexEntry{
			Name:       name,
			Entity:     e.Entity,
			Type:       e.Type,
			Language:   to,
			Weight:     e.Weight * WeightTranslation,
			Provenance: ProvenanceTranslation,
		}) {
			added++
		}
	}
	t.translated = true
	debug.Log("ONTOLOGY", "translated %d of %d names from %s to %s", added, len(pending), from, to)
	return nil
}

// BKSources lists the background-knowledge sources known to the catalog
func (t *Task) BKSources() ([]string, error) {
	if t.resolver == nil {
		return []string{config.DefaultKnowledgeSource}, nil
	}
	sources, err := t.resolver.Sources()
	if err != nil {
		return nil, err
	}
	return sources, nil
}

// OpenBKOntology loads a background-knowledge ontology, replacing the open one
func (t *Task) OpenBKOntology(id string) error {
	if t.resolver == nil {
		return ierrors.NewConfigError("knowledge.source", id, ierrors.ErrUnknownSource)
	}
	path, err := t.resolver.Resolve(id)
	if err != nil {
		return err
	}
	bk, err := LoadFile(path, t.normalize)
	if err != nil {
		return ierrors.NewCollaboratorError("ontology", "open_bk", err)
	}
	t.bk = bk
	debug.Log("ONTOLOGY", "opened background knowledge %s: %d entities", id, bk.Size())
	return nil
}

// BKOntology returns the open background-knowledge ontology, nil if none
func (t *Task) BKOntology() *Ontology {
	return t.bk
}
