package diagnostics

import (
	"testing"

	"github.com/vexlang/vexc/internal/span"
)

func TestCollectorDeduplicates(t *testing.T) {
	c := NewCollector()
	sp := span.Span{File: "a.vex", Line: 3, Column: 5}
	c.Add(NewError(ErrUseAfterMove, sp, "use of moved binding %q", "s"))
	c.Add(NewError(ErrUseAfterMove, sp, "use of moved binding %q", "s"))
	if len(c.Diagnostics()) != 1 {
		t.Fatalf("expected deduplication to one diagnostic, got %d", len(c.Diagnostics()))
	}
}

func TestCollectorHasErrorsIgnoresWarnings(t *testing.T) {
	c := NewCollector()
	c.Add(NewWarning(ErrUnknownIdentifier, span.Span{File: "a.vex", Line: 1}, "unused import"))
	if c.HasErrors() {
		t.Fatal("warnings alone should not count as errors")
	}
	c.Add(NewError(ErrUseAfterMove, span.Span{File: "a.vex", Line: 2}, "boom"))
	if !c.HasErrors() {
		t.Fatal("expected HasErrors to be true once an error is added")
	}
}

func TestSuggestSimilar(t *testing.T) {
	candidates := []string{"length", "lenght", "width"}
	best, ok := SuggestSimilar("lenght", candidates)
	if !ok || best != "length" {
		t.Fatalf("expected closest match 'length', got %q (ok=%v)", best, ok)
	}
}

func TestBuildIDStampedPerCollector(t *testing.T) {
	c1 := NewCollector()
	c2 := NewCollector()
	if c1.BuildID == "" || c1.BuildID == c2.BuildID {
		t.Fatalf("expected distinct non-empty build IDs, got %q and %q", c1.BuildID, c2.BuildID)
	}
}
