package page

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAggregator_AddThenRemoveRestoresContinue(t *testing.T) {
	agg := NewAggregator(nil)
	if !agg.CanContinue() {
		t.Fatalf("empty page should allow continue")
	}
	agg.Report("email", true)
	if agg.CanContinue() {
		t.Fatalf("error should block continue")
	}
	agg.Report("email", false)
	if !agg.CanContinue() {
		t.Fatalf("clearing the error should allow continue")
	}
}

func TestAggregator_RemoveOnUnmount(t *testing.T) {
	agg := NewAggregator(nil)
	agg.Report("a", true)
	agg.Report("b", true)
	agg.Remove("a")
	if diff := cmp.Diff([]string{"b"}, agg.Failing()); diff != "" {
		t.Fatalf("failing mismatch (-want +got):\n%s", diff)
	}
	agg.Remove("b")
	if !agg.CanContinue() {
		t.Fatalf("removing every failing field should allow continue")
	}
}

func TestAggregator_PushesOnlyWhenActive(t *testing.T) {
	var got []bool
	agg := NewAggregator(func(v bool) { got = append(got, v) })

	agg.Report("name", true)
	if len(got) != 0 {
		t.Fatalf("inactive page must not push, got %v", got)
	}

	agg.SetActive(true)
	agg.Report("name", true)
	agg.Report("name", false)
	agg.Report("other", false)

	if diff := cmp.Diff([]bool{false, true}, got); diff != "" {
		t.Fatalf("pushes mismatch (-want +got):\n%s", diff)
	}
}
