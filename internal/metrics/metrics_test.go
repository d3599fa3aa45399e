package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/ontomatch/internal/alignment"
	"github.com/standardbeagle/ontomatch/internal/types"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)

	r.StageRun("lexical", 20*time.Millisecond, 12)
	r.StageRun("lexical", 10*time.Millisecond, 14)
	r.StageSkipped("word", "huge")
	r.MatcherRun("lexical")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.stageRuns.WithLabelValues("lexical")))
	assert.Equal(t, 14.0, testutil.ToFloat64(r.alignmentSize.WithLabelValues("lexical")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.stageSkips.WithLabelValues("word", "huge")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.matcherRuns.WithLabelValues("lexical")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.stageDuration))

	count, err := testutil.GatherAndCount(reg, "ontomatch_pipeline_stage_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecorder_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewRecorder(reg)
	require.NoError(t, err)
	_, err = NewRecorder(reg)
	assert.Error(t, err)
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.StageRun("x", time.Second, 1)
		r.StageSkipped("x", "y")
		r.MatcherRun("x")
	})

	unregistered, err := NewRecorder(nil)
	require.NoError(t, err)
	unregistered.StageRun("x", time.Second, 1)
}

func TestEvaluate(t *testing.T) {
	ref := alignment.New()
	ref.Add("a", "1", 1, types.Equivalence, types.StatusUnknown)
	ref.Add("b", "2", 1, types.Equivalence, types.StatusUnknown)
	ref.Add("c", "3", 1, types.Equivalence, types.StatusUnknown)
	ref.Add("d", "4", 1, types.Equivalence, types.StatusUnknown)
	ref.Add("e", "5", 1, types.UnknownRelation, types.StatusUnknown)

	a := alignment.New()
	a.Add("a", "1", 0.9, types.Equivalence, types.StatusUnknown)
	a.Add("b", "2", 0.9, types.Equivalence, types.StatusUnknown)
	a.Add("c", "9", 0.9, types.Equivalence, types.StatusUnknown)
	a.Add("e", "5", 0.9, types.Equivalence, types.StatusUnknown)

	e := Evaluate(a, ref)
	assert.Equal(t, 2, e.Correct)
	assert.Equal(t, 1, e.Conflicts)
	assert.Equal(t, 4, e.Expected)
	assert.InDelta(t, 2.0/3, e.Precision, 1e-9)
	assert.InDelta(t, 0.5, e.Recall, 1e-9)
	assert.InDelta(t, 2*(2.0/3)*0.5/(2.0/3+0.5), e.FMeasure, 1e-9)
	assert.Contains(t, e.String(), "precision 66.7%")

	m, _ := a.Get("c", "9")
	assert.Equal(t, types.StatusIncorrect, m.Status)
}

func TestEvaluate_Empty(t *testing.T) {
	e := Evaluate(alignment.New(), alignment.New())
	assert.Zero(t, e.Precision)
	assert.Zero(t, e.Recall)
	assert.Zero(t, e.FMeasure)
}
