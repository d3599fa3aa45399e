// Package oracle answers yes/no questions about candidate mappings during
// interactive selection and repair.
package oracle

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/standardbeagle/ontomatch/internal/alignment"
	"github.com/standardbeagle/ontomatch/internal/types"
)

// Oracle decides whether a mapping is correct. Abstain means "keep the current state".
type Oracle interface {
	// IsInteractive reports whether the oracle will still answer questions
	IsInteractive() bool
	Check(m alignment.Mapping) types.Decision
}

// None is the oracle of automatic runs; it never answers
type None struct{}

func (None) IsInteractive() bool { return false }
func (None) Check(alignment.Mapping) types.Decision { return types.DecisionAbstain }

// Reference answers from a gold alignment, up to a query budget
type Reference struct {
	mu      sync.Mutex
	ref     *alignment.Alignment
	limit   int // 0 = unlimited
	queries int
}

// NewReference creates a reference oracle; limit 0 means unlimited
func NewReference(ref *alignment.Alignment, limit int) *Reference {
	return &Reference{ref: ref, limit: max(0, limit)}
}

// IsInteractive is true until the query budget is spent
func (r *Reference) IsInteractive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.limit == 0 || r.queries < r.limit
}

// Check answers Yes when the reference holds the pair with the same relation,
// No when it does not hold it or holds another relation, and Abstain when the
// reference relation is unknown or the budget is spent
func (r *Reference) Check(m alignment.Mapping) types.Decision {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.limit > 0 && r.queries >= r.limit {
		return types.DecisionAbstain
	}
	r.queries++

	ref, ok := r.ref.Get(m.Source, m.Target)
	switch {
	case !ok:
		return types.DecisionNo
	case ref.Relation == types.UnknownRelation:
		return types.DecisionAbstain
	case ref.Relation == m.Relation:
		return types.DecisionYes
	default:
		return types.DecisionNo
	}
}

// Queries returns the number of questions answered so far
func (r *Reference) Queries() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.queries
}

// Console asks a person. Anything other than y/yes or n/no abstains; once the
// input is exhausted the oracle stops being interactive.
type Console struct {
	mu   sync.Mutex
	in   *bufio.Reader
	out  io.Writer
	done bool
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

func (c *Console) IsInteractive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.done
}

func (c *Console) Check(m alignment.Mapping) types.Decision {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return types.DecisionAbstain
	}
	fmt.Fprintf(c.out, "%s %s %s (%.3f)? [y/n/skip] ", m.Source, m.Relation.Label(), m.Target, m.Similarity)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		c.done = true
		return types.DecisionAbstain
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return types.DecisionYes
	case "n", "no":
		return types.DecisionNo
	default:
		return types.DecisionAbstain
	}
}
