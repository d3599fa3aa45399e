// Package pipeline sequences the matchers, selectors and repairers of an
// automatic matching run according to the size and language of the task.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/standardbeagle/ontomatch/internal/alignment"
	"github.com/standardbeagle/ontomatch/internal/config"
	"github.com/standardbeagle/ontomatch/internal/debug"
	ierrors "github.com/standardbeagle/ontomatch/internal/errors"
	"github.com/standardbeagle/ontomatch/internal/filter"
	"github.com/standardbeagle/ontomatch/internal/knowledge"
	"github.com/standardbeagle/ontomatch/internal/match"
	"github.com/standardbeagle/ontomatch/internal/metrics"
	"github.com/standardbeagle/ontomatch/internal/ontology"
	"github.com/standardbeagle/ontomatch/internal/oracle"
	"github.com/standardbeagle/ontomatch/internal/types"
	"github.com/standardbeagle/ontomatch/internal/version"
)

// Stage names, in execution order
const (
	StageThresholds = "thresholds"
	StageTranslate  = "translate"
	StageLexical    = "lexical"
	StageKnowledge  = "knowledge"
	StageWord       = "word"
	StageString     = "string"
	StageStructural = "structural"
	StageProperty   = "property"
	StageSelection  = "selection"
	StageRepair     = "repair"
)

// Task is the ontology collaborator of a run. Implemented by ontology.Task.
type Task interface {
	SizeCategory() (types.SizeCategory, error)
	LanguageSetting() (types.LanguageSetting, error)
	Languages() []string
	TranslateOntologies(ctx context.Context) error
	BKSources() ([]string, error)
	OpenBKOntology(id string) error
	BKOntology() *ontology.Ontology
	Source() ontology.Schema
	Target() ontology.Schema
}

// Collaborators are the components a run delegates to. Oracle defaults to
// oracle.None and Checker may be left nil for cardinality-only repair.
type Collaborators struct {
	Task     Task
	Matchers match.Matchers
	Oracle   oracle.Oracle
	Checker  filter.ConsistencyChecker
}

// AutomaticMatcher runs the matching pipeline. It holds no per-run state, so
// one instance can serve any number of sequential or concurrent runs over
// collaborators that allow it.
type AutomaticMatcher struct {
	task     Task
	matchers match.Matchers
	oracle   oracle.Oracle
	checker  filter.ConsistencyChecker
	cfg      *config.Config
	recorder *metrics.Recorder
	newID    func() string
}

// Option configures an AutomaticMatcher
type Option func(*AutomaticMatcher)

// WithRecorder records stage and matcher activity in rec
func WithRecorder(rec *metrics.Recorder) Option {
	return func(m *AutomaticMatcher) { m.recorder = rec }
}

// WithRunIDs replaces the random run identifiers, mostly for tests
func WithRunIDs(fn func() string) Option {
	return func(m *AutomaticMatcher) { m.newID = fn }
}

// New validates the collaborators and creates the matcher. A nil cfg uses
// config.Default.
func New(c Collaborators, cfg *config.Config, opts ...Option) (*AutomaticMatcher, error) {
	if c.Task == nil {
		return nil, ierrors.NewConfigError("pipeline.task", "", ierrors.ErrMissingCollaborator)
	}
	if c.Matchers == nil {
		return nil, ierrors.NewConfigError("pipeline.matchers", "", ierrors.ErrMissingCollaborator)
	}
	if cfg == nil {
		cfg = config.Default()
	}
	m := &AutomaticMatcher{
		task:     c.Task,
		matchers: c.Matchers,
		oracle:   c.Oracle,
		checker:  c.Checker,
		cfg:      cfg,
		newID:    func() string { return uuid.NewString() },
	}
	if m.oracle == nil {
		m.oracle = oracle.None{}
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Result describes a finished run
type Result struct {
	Alignment   *alignment.Alignment
	RunID       string
	Size        types.SizeCategory
	Language    types.LanguageSetting // after translation
	Interactive bool
	Thresholds  Thresholds
}

// run is the state of one invocation, threaded through every stage
type run struct {
	id          string
	log         *logrus.Entry
	size        types.SizeCategory
	lang        types.LanguageSetting
	interactive bool
	th          Thresholds

	a       *alignment.Alignment // working alignment
	lex     *alignment.Alignment // lexical seed for gain estimates
	aux     []*alignment.Alignment
	auxSeen map[uint64]bool
}

// keepAux retains x as evidence for interactive selection. Identical
// alignments are kept once.
func (r *run) keepAux(x *alignment.Alignment) {
	if !r.interactive {
		return
	}
	fp := x.Fingerprint()
	if r.auxSeen[fp] {
		return
	}
	r.auxSeen[fp] = true
	r.aux = append(r.aux, x)
}

type stageFunc func(ctx context.Context, r *run) (skipped string, err error)

// Match runs the pipeline and returns the final alignment
func (m *AutomaticMatcher) Match(ctx context.Context) (*alignment.Alignment, error) {
	res, err := m.Run(ctx)
	if err != nil {
		return nil, err
	}
	return res.Alignment, nil
}

// Run runs the pipeline and reports how the task was classified
func (m *AutomaticMatcher) Run(ctx context.Context) (*Result, error) {
	r := &run{
		id:      m.newID(),
		a:       alignment.New(alignment.WithSameEntityMatching(m.cfg.Matching.SameEntity)),
		auxSeen: make(map[uint64]bool),
	}
	r.lex = r.a.Derive()
	r.log = debug.WithFields("PIPELINE", logrus.Fields{"run": r.id})

	stages := []struct {
		name string
		fn   stageFunc
	}{
		{StageThresholds, m.thresholds},
		{StageTranslate, m.translate},
		{StageLexical, m.lexical},
		{StageKnowledge, m.knowledge},
		{StageWord, m.word},
		{StageString, m.stringMatch},
		{StageStructural, m.structural},
		{StageProperty, m.property},
		{StageSelection, m.selection},
		{StageRepair, m.repair},
	}

	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		skipped, err := st.fn(ctx, r)
		if err != nil {
			return nil, err
		}
		if skipped != "" {
			m.recorder.StageSkipped(st.name, skipped)
			r.log.WithField("stage", st.name).Debugf("skipped: %s", skipped)
			continue
		}
		elapsed := time.Since(start)
		m.recorder.StageRun(st.name, elapsed, r.a.Len())
		r.log.WithFields(logrus.Fields{"stage": st.name, "size": r.a.Len(), "elapsed": elapsed}).Debug("stage done")
	}

	return &Result{
		Alignment:   r.a,
		RunID:       r.id,
		Size:        r.size,
		Language:    r.lang,
		Interactive: r.interactive,
		Thresholds:  r.th,
	}, nil
}

// Step 1: classify the task and derive the thresholds
func (m *AutomaticMatcher) thresholds(_ context.Context, r *run) (string, error) {
	size, err := m.task.SizeCategory()
	if err != nil {
		return "", err
	}
	lang, err := m.task.LanguageSetting()
	if err != nil {
		return "", err
	}
	r.size, r.lang = size, lang
	r.interactive = m.oracle.IsInteractive()
	r.th = ComputeThresholds(size, lang, r.interactive, m.cfg.Matching)
	r.log = debug.WithFields("PIPELINE", logrus.Fields{
		"run":         r.id,
		"build":       version.BuildID(),
		"size":        size.String(),
		"language":    lang.String(),
		"interactive": r.interactive,
	})
	r.log.Debugf("thresholds main=%.2f string=%.2f word-gain=%.2f", r.th.Main, r.th.String, r.th.WordGain)
	return "", nil
}

// Step 2: translate, then classify the language again
func (m *AutomaticMatcher) translate(ctx context.Context, r *run) (string, error) {
	if r.lang != types.LanguageTranslate {
		return "language " + r.lang.String(), nil
	}
	if err := m.task.TranslateOntologies(ctx); err != nil {
		return "", err
	}
	lang, err := m.task.LanguageSetting()
	if err != nil {
		return "", err
	}
	r.lang = lang
	return "", nil
}

// Step 3: the lexical seed, merged without cardinality constraints
func (m *AutomaticMatcher) lexical(ctx context.Context, r *run) (string, error) {
	lex, err := m.match(ctx, StageLexical, m.matchers.Lexical(), r.th.Main)
	if err != nil {
		return "", err
	}
	r.lex = lex
	r.a.Merge(lex)
	return "", nil
}

// Step 4: background knowledge, single-language tasks only
func (m *AutomaticMatcher) knowledge(ctx context.Context, r *run) (string, error) {
	if r.lang != types.LanguageSingle {
		return "language " + r.lang.String(), nil
	}

	if r.size == types.SizeSmall {
		wn, err := m.match(ctx, StageKnowledge, m.matchers.Thesaurus(), r.th.Main)
		if err != nil {
			return "", err
		}
		coverage := min(
			wn.SourceCoverage(types.EntityClass, m.task.Source()),
			wn.TargetCoverage(types.EntityClass, m.task.Target()),
		)
		if coverage >= r.th.WordGain {
			r.a.AddAllOneToOne(wn)
		}
		r.log.Debugf("default knowledge source coverage %.3f", coverage)
		r.keepAux(wn)
		return "", nil
	}

	sources, err := m.task.BKSources()
	if err != nil {
		return "", err
	}
	for _, src := range sources {
		if src == m.cfg.Knowledge.DefaultSource {
			continue
		}
		if knowledge.IsLexicon(src) {
			if err := m.mediate(ctx, r, src); err != nil {
				return "", err
			}
			continue
		}
		if err := m.crossReference(ctx, r, src); err != nil {
			return "", err
		}
	}
	return "", nil
}

func (m *AutomaticMatcher) mediate(ctx context.Context, r *run, src string) error {
	med, err := m.match(ctx, StageKnowledge, m.matchers.Mediating(src), r.th.Main)
	if err != nil {
		return err
	}
	gain := med.Gain(r.lex)
	r.log.WithField("source", src).Debugf("lexicon gain %.3f", gain)
	if gain >= r.th.MinGain {
		r.a.Merge(med)
	}
	return nil
}

// crossReference matches through a knowledge ontology. A very high gain
// means its names are worth adding to the task lexicons, after which the
// lexical match is repeated.
func (m *AutomaticMatcher) crossReference(ctx context.Context, r *run, src string) error {
	if err := m.task.OpenBKOntology(src); err != nil {
		return err
	}
	bk := m.task.BKOntology()
	if bk == nil {
		return ierrors.NewCollaboratorError("ontology", "open_bk", ierrors.ErrNoBKOntology)
	}
	xr := m.matchers.XRef(bk)
	ref, err := m.match(ctx, StageKnowledge, xr, r.th.Main)
	if err != nil {
		return err
	}
	gain := ref.Gain(r.lex)
	r.log.WithField("source", src).Debugf("ontology gain %.3f", gain)

	switch {
	case gain >= r.th.HighGain:
		if err := xr.ExtendLexicons(ctx, r.th.Main); err != nil {
			return ierrors.NewMatchError(StageKnowledge, xr.Name(), err)
		}
		lex, err := m.match(ctx, StageKnowledge, m.matchers.Lexical(), r.th.Main)
		if err != nil {
			return err
		}
		// r.lex stays the step 3 seed so later sources are measured against it
		r.a.Merge(lex)
	case gain >= r.th.MinGain:
		r.a.Merge(ref)
	}
	return nil
}

// Step 5: word overlap, one matcher per shared language
func (m *AutomaticMatcher) word(ctx context.Context, r *run) (string, error) {
	if r.size == types.SizeHuge {
		return "size huge", nil
	}

	var languages []string
	switch r.lang {
	case types.LanguageSingle:
		lang := ""
		if shared := m.task.Languages(); len(shared) == 1 {
			lang = shared[0]
		}
		languages = []string{lang}
	case types.LanguageMulti:
		languages = m.task.Languages()
	case types.LanguageTranslate:
		return "language translate", nil
	}

	word := r.a.Derive()
	for _, lang := range languages {
		w, err := m.match(ctx, StageWord, m.matchers.Word(lang), r.th.Main)
		if err != nil {
			return "", err
		}
		word.Merge(w)
	}
	r.keepAux(word)
	r.a.AddAllOneToOne(word)
	return "", nil
}

// Step 6: string similarity, exhaustive on small tasks and around the
// working alignment otherwise
func (m *AutomaticMatcher) stringMatch(ctx context.Context, r *run) (string, error) {
	psm := m.matchers.StringSimilarity()
	if r.size != types.SizeSmall {
		ext, err := m.extend(ctx, StageString, psm, r.a, r.th.Main)
		if err != nil {
			return "", err
		}
		r.a.AddAllOneToOne(ext)
		return "", nil
	}

	s, err := m.match(ctx, StageString, psm, r.th.String)
	if err != nil {
		return "", err
	}
	r.a.AddAllOneToOne(s)
	if r.lang == types.LanguageSingle {
		mw, err := m.match(ctx, StageString, m.matchers.MultiWord(), r.th.Main)
		if err != nil {
			return "", err
		}
		r.a.AddAllOneToOne(mw)
	}
	return "", nil
}

// Step 7: neighbourhood similarity on small and medium tasks
func (m *AutomaticMatcher) structural(ctx context.Context, r *run) (string, error) {
	if r.size != types.SizeSmall && r.size != types.SizeMedium {
		return "size " + r.size.String(), nil
	}
	nsm := m.matchers.Structural()
	if r.interactive {
		rm, err := m.rematch(ctx, StageStructural, nsm, r.a)
		if err != nil {
			return "", err
		}
		r.keepAux(rm)
	}
	ext, err := m.extend(ctx, StageStructural, nsm, r.a, r.th.Main)
	if err != nil {
		return "", err
	}
	r.a.AddAllOneToOne(ext)
	return "", nil
}

// Step 8: properties, unless both ontologies have almost none
func (m *AutomaticMatcher) property(ctx context.Context, r *run) (string, error) {
	if propertyRatio(m.task.Source()) < r.th.PropertyRatio && propertyRatio(m.task.Target()) < r.th.PropertyRatio {
		return "few properties", nil
	}
	ext, err := m.extend(ctx, StageProperty, m.matchers.Property(), r.a, r.th.Main)
	if err != nil {
		return "", err
	}
	r.a.AddAllOneToOne(ext)
	return "", nil
}

func propertyRatio(s ontology.Schema) float64 {
	classes := s.ClassCount()
	if classes == 0 {
		return 0
	}
	return float64(s.PropertyCount()) / float64(classes)
}

// Step 9: cardinality selection by size, then the oracle if there is one
func (m *AutomaticMatcher) selection(ctx context.Context, r *run) (string, error) {
	sel := m.cfg.Selection
	switch r.size {
	case types.SizeSmall:
		r.a = filter.NewSelector(types.SelectionStrict, sel).Select(r.a, r.th.Main)
	case types.SizeMedium:
		r.a = filter.NewSelector(types.SelectionPermissive, sel).Select(r.a, r.th.Main)
	case types.SizeLarge:
		r.a = filter.NewSelector(types.SelectionHybrid, sel).Select(r.a, r.th.Main)
	case types.SizeHuge:
		a := (&filter.ObsoleteRepairer{Source: m.task.Source(), Target: m.task.Target()}).Repair(r.a)
		hl, err := m.rematch(ctx, StageSelection, m.matchers.HighLevel(), a)
		if err != nil {
			return "", err
		}
		nb, err := m.rematch(ctx, StageSelection, m.matchers.Structural(), a)
		if err != nil {
			return "", err
		}
		b := filter.LWC(hl, nb, sel.HighLevelWeight)
		b = filter.LWC(a, b, sel.RematchWeight)
		b = filter.NewSelector(types.SelectionHybrid, sel).Select(b, r.th.Main-sel.HugeOffset)
		co := &filter.RankedCoSelector{Aux: b, Type: types.SelectionHybrid, HybridConfidence: sel.HybridConfidence}
		r.a = co.Select(a, r.th.Main)
	}

	if r.interactive {
		r.keepAux(r.a)
		is := &filter.InteractiveSelector{
			Oracle:        m.oracle,
			Aux:           r.aux,
			LowSimilarity: sel.InteractiveLow,
			StrictBound:   sel.StrictBound,
		}
		r.a = is.Select(r.a, r.th.Main)
	}
	return "", nil
}

// Step 10: consistency repair
func (m *AutomaticMatcher) repair(_ context.Context, r *run) (string, error) {
	var rep filter.Repairer
	if r.interactive {
		rep = &filter.InteractiveRepairer{Checker: m.checker, Oracle: m.oracle, Margin: m.cfg.Repair.AmbiguityMargin}
	} else {
		rep = &filter.CardinalityRepairer{Checker: m.checker}
	}
	r.a = rep.Repair(r.a)
	return "", nil
}

func (m *AutomaticMatcher) match(ctx context.Context, stage string, mt match.Matcher, threshold float64) (*alignment.Alignment, error) {
	m.recorder.MatcherRun(mt.Name())
	out, err := mt.Match(ctx, threshold)
	if err != nil {
		return nil, ierrors.NewMatchError(stage, mt.Name(), err)
	}
	debug.LogPipeline("%s: %s matched %d pairs at %.2f", stage, mt.Name(), out.Len(), threshold)
	return out, nil
}

func (m *AutomaticMatcher) extend(ctx context.Context, stage string, mt match.Extender, a *alignment.Alignment, threshold float64) (*alignment.Alignment, error) {
	m.recorder.MatcherRun(mt.Name())
	out, err := mt.ExtendAlignment(ctx, a, threshold)
	if err != nil {
		return nil, ierrors.NewMatchError(stage, mt.Name(), err)
	}
	debug.LogPipeline("%s: %s extended %d pairs by %d", stage, mt.Name(), a.Len(), out.Len())
	return out, nil
}

func (m *AutomaticMatcher) rematch(ctx context.Context, stage string, mt match.Rematcher, a *alignment.Alignment) (*alignment.Alignment, error) {
	m.recorder.MatcherRun(mt.Name())
	out, err := mt.Rematch(ctx, a)
	if err != nil {
		return nil, ierrors.NewMatchError(stage, mt.Name(), err)
	}
	return out, nil
}
