package metrics

import (
	"fmt"

	"github.com/standardbeagle/ontomatch/internal/alignment"
	"github.com/standardbeagle/ontomatch/internal/types"
)

// Evaluation scores an alignment against a reference
type Evaluation struct {
	Found     int     `json:"found"` // mappings in the alignment
	Correct   int     `json:"correct"`
	Conflicts int     `json:"conflicts"` // pairs the reference holds with an unknown relation
	Expected  int     `json:"expected"`  // reference mappings with a known relation
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	FMeasure  float64 `json:"f_measure"`
}

// Evaluate compares a to ref. Statuses in a are updated as a side effect.
// Conflicting pairs count neither for nor against precision.
func Evaluate(a, ref *alignment.Alignment) Evaluation {
	correct, conflicts := a.Evaluate(ref)
	e := Evaluation{Found: a.Len(), Correct: correct, Conflicts: conflicts}
	if ref != nil {
		for _, m := range ref.Mappings() {
			if m.Relation != types.UnknownRelation {
				e.Expected++
			}
		}
	}
	if judged := e.Found - e.Conflicts; judged > 0 {
		e.Precision = float64(correct) / float64(judged)
	}
	if e.Expected > 0 {
		e.Recall = float64(correct) / float64(e.Expected)
	}
	if e.Precision+e.Recall > 0 {
		e.FMeasure = 2 * e.Precision * e.Recall / (e.Precision + e.Recall)
	}
	return e
}

func (e Evaluation) String() string {
	return fmt.Sprintf("precision %.1f%%  recall %.1f%%  f-measure %.1f%%  (%d found, %d correct, %d expected, %d conflicts)",
		100*e.Precision, 100*e.Recall, 100*e.FMeasure, e.Found, e.Correct, e.Expected, e.Conflicts)
}
