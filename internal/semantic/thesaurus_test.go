package semantic

import (
	"reflect"
	"testing"
)

func TestDefaultThesaurus(t *testing.T) {
	th := DefaultThesaurus()

	if th.Name() != DefaultThesaurusName {
		t.Errorf("Expected name %s, got %s", DefaultThesaurusName, th.Name())
	}
	if th != DefaultThesaurus() {
		t.Error("DefaultThesaurus should be a singleton")
	}
	if !th.Contains("automobile") {
		t.Error("Default thesaurus should know automobile")
	}
}

func TestSynonyms(t *testing.T) {
	th := NewThesaurus("test", [][]string{
		{"car", "Automobile"},
		{"car", "auto"},
		{"lonely"},
	})

	got := th.Synonyms("car")
	want := []string{"automobile", "auto"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Synonyms(car) = %v, want %v", got, want)
	}

	if syn := th.Synonyms("automobile"); !reflect.DeepEqual(syn, []string{"car"}) {
		t.Errorf("Synonyms(automobile) = %v", syn)
	}

	// Single-term groups carry no synonymy
	if th.Contains("lonely") || th.Len() != 2 {
		t.Errorf("Single-term group should be ignored, Len() = %d", th.Len())
	}
}

func TestVariants(t *testing.T) {
	th := NewThesaurus("test", [][]string{
		{"heart", "cardiac"},
		{"valve", "valva"},
		{"heart valve", "cardiac valve"},
	})

	got := th.Variants("heart valve")
	want := []string{"cardiac valve", "heart valva"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Variants = %v, want %v", got, want)
	}

	if v := th.Variants("kidney"); len(v) != 0 {
		t.Errorf("Unknown names have no variants, got %v", v)
	}
}
