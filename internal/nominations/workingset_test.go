package nominations

import (
	"slices"
	"testing"
)

func TestWorkingSetDedupesAndRemoves(t *testing.T) {
	ws := NewWorkingSet([]string{"A", "B", "", "A", "C"})
	if got := ws.IDs(); !slices.Equal(got, []string{"A", "B", "C"}) || ws.Len() != 3 {
		t.Fatalf("unexpected set %v (len %d)", got, ws.Len())
	}

	if !ws.Remove("B") {
		t.Fatalf("expected B to be removed")
	}
	if ws.Remove("B") || ws.Contains("B") {
		t.Fatalf("B should be gone")
	}
	if got := ws.IDs(); !slices.Equal(got, []string{"A", "C"}) {
		t.Fatalf("unexpected set after removal %v", got)
	}
}

func TestWorkingSetSnapshotIsIndependent(t *testing.T) {
	ws := NewWorkingSet([]string{"A", "B"})
	snap := ws.IDs()
	ws.Remove("A")
	if !slices.Equal(snap, []string{"A", "B"}) {
		t.Fatalf("snapshot changed after removal: %v", snap)
	}
}
