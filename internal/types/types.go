package types

import (
	"fmt"
	"strings"
)

// EntityID identifies an ontology entity. It is the entity IRI.
type EntityID string

// EntityType classifies ontology entities
type EntityType uint8

const (
	EntityClass EntityType = iota
	EntityObjectProperty
	EntityDataProperty
	EntityIndividual
)

// AllEntityTypes lists every entity type in declaration order
var AllEntityTypes = []EntityType{EntityClass, EntityObjectProperty, EntityDataProperty, EntityIndividual}

func (t EntityType) String() string {
	switch t {
	case EntityClass:
		return "class"
	case EntityObjectProperty:
		return "object_property"
	case EntityDataProperty:
		return "data_property"
	case EntityIndividual:
		return "individual"
	default:
		return "unknown"
	}
}

// IsProperty reports whether the entity type is a property kind
func (t EntityType) IsProperty() bool {
	switch t {
	case EntityObjectProperty, EntityDataProperty:
		return true
	case EntityClass, EntityIndividual:
		return false
	default:
		return false
	}
}

// ParseEntityType parses the String form of an EntityType
func ParseEntityType(s string) (EntityType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "class":
		return EntityClass, nil
	case "object_property", "object":
		return EntityObjectProperty, nil
	case "data_property", "data":
		return EntityDataProperty, nil
	case "individual":
		return EntityIndividual, nil
	default:
		return 0, fmt.Errorf("unknown entity type %q", s)
	}
}

// Relation is the semantic relation asserted by a correspondence.
// The set is closed: every switch over Relation must handle all values.
type Relation uint8

const (
	Equivalence Relation = iota
	SubsumedBy           // source is narrower than target
	Subsumes             // source is broader than target
	Overlap
	UnknownRelation
)

func (r Relation) String() string {
	switch r {
	case Equivalence:
		return "="
	case SubsumedBy:
		return "<"
	case Subsumes:
		return ">"
	case Overlap:
		return "^"
	case UnknownRelation:
		return "?"
	default:
		return "?"
	}
}

// Label returns the long lower-case name of the relation
func (r Relation) Label() string {
	switch r {
	case Equivalence:
		return "equivalence"
	case SubsumedBy:
		return "subclass"
	case Subsumes:
		return "superclass"
	case Overlap:
		return "overlap"
	case UnknownRelation:
		return "unknown"
	default:
		return "unknown"
	}
}

// Inverse returns the relation seen from the target side
func (r Relation) Inverse() Relation {
	switch r {
	case SubsumedBy:
		return Subsumes
	case Subsumes:
		return SubsumedBy
	case Equivalence, Overlap, UnknownRelation:
		return r
	default:
		return UnknownRelation
	}
}

// ParseRelation accepts both the symbolic and the long form
func ParseRelation(s string) (Relation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "=", "equivalence", "equivalent":
		return Equivalence, nil
	case "<", "subclass", "subsumed_by", "subsumedby":
		return SubsumedBy, nil
	case ">", "superclass", "subsumes":
		return Subsumes, nil
	case "^", "overlap":
		return Overlap, nil
	case "?", "unknown":
		return UnknownRelation, nil
	default:
		return UnknownRelation, fmt.Errorf("unknown relation %q", s)
	}
}

// Status records the evaluation state of a correspondence
type Status uint8

const (
	StatusUnknown Status = iota
	StatusCorrect
	StatusIncorrect
)

func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusCorrect:
		return "correct"
	case StatusIncorrect:
		return "incorrect"
	default:
		return "unknown"
	}
}

// SizeCategory buckets a matching task by ontology size
type SizeCategory uint8

const (
	SizeSmall SizeCategory = iota
	SizeMedium
	SizeLarge
	SizeHuge
)

func (s SizeCategory) String() string {
	switch s {
	case SizeSmall:
		return "small"
	case SizeMedium:
		return "medium"
	case SizeLarge:
		return "large"
	case SizeHuge:
		return "huge"
	default:
		return "unknown"
	}
}

// ParseSizeCategory parses the String form of a SizeCategory
func ParseSizeCategory(s string) (SizeCategory, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "small":
		return SizeSmall, nil
	case "medium":
		return SizeMedium, nil
	case "large":
		return SizeLarge, nil
	case "huge":
		return SizeHuge, nil
	default:
		return 0, fmt.Errorf("unknown size category %q", s)
	}
}

// Valid reports whether s is one of the declared categories
func (s SizeCategory) Valid() bool {
	return s <= SizeHuge
}

// LanguageSetting describes how the labels of the two ontologies relate
type LanguageSetting uint8

const (
	LanguageSingle    LanguageSetting = iota // both ontologies share exactly one language
	LanguageMulti                            // several shared languages
	LanguageTranslate                        // no shared language, translation required
)

func (l LanguageSetting) String() string {
	switch l {
	case LanguageSingle:
		return "single"
	case LanguageMulti:
		return "multi"
	case LanguageTranslate:
		return "translate"
	default:
		return "unknown"
	}
}

// ParseLanguageSetting parses the String form of a LanguageSetting
func ParseLanguageSetting(s string) (LanguageSetting, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single":
		return LanguageSingle, nil
	case "multi":
		return LanguageMulti, nil
	case "translate":
		return LanguageTranslate, nil
	default:
		return 0, fmt.Errorf("unknown language setting %q", s)
	}
}

// Valid reports whether l is one of the declared settings
func (l LanguageSetting) Valid() bool {
	return l <= LanguageTranslate
}

// SelectionType is the cardinality policy applied by a selector
type SelectionType uint8

const (
	SelectionStrict SelectionType = iota
	SelectionPermissive
	SelectionHybrid
)

func (s SelectionType) String() string {
	switch s {
	case SelectionStrict:
		return "strict"
	case SelectionPermissive:
		return "permissive"
	case SelectionHybrid:
		return "hybrid"
	default:
		return "unknown"
	}
}

// ParseSelectionType parses the String form of a SelectionType
func ParseSelectionType(s string) (SelectionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return SelectionStrict, nil
	case "permissive":
		return SelectionPermissive, nil
	case "hybrid":
		return SelectionHybrid, nil
	default:
		return 0, fmt.Errorf("unknown selection type %q", s)
	}
}

// Decision is an oracle answer about a single correspondence
type Decision uint8

const (
	DecisionAbstain Decision = iota
	DecisionYes
	DecisionNo
)

func (d Decision) String() string {
	switch d {
	case DecisionAbstain:
		return "abstain"
	case DecisionYes:
		return "yes"
	case DecisionNo:
		return "no"
	default:
		return "abstain"
	}
}
