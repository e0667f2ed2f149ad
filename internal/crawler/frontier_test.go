package crawler

import (
	"fmt"
	"testing"
)

func TestFrontierFIFO(t *testing.T) {
	f := NewFrontier("https://example.com/")
	f.Push("https://example.com/a", 1)
	f.Push("https://example.com/b", 1)

	expected := []FrontierEntry{
		{URL: "https://example.com/", Depth: 0},
		{URL: "https://example.com/a", Depth: 1},
		{URL: "https://example.com/b", Depth: 1},
	}
	for _, want := range expected {
		got, ok := f.Pop()
		if !ok {
			t.Fatalf("Expected entry %v, queue empty", want)
		}
		if got != want {
			t.Errorf("Expected %v, got %v", want, got)
		}
	}

	if _, ok := f.Pop(); ok {
		t.Error("Expected empty queue")
	}
	if f.Len() != 0 {
		t.Errorf("Expected length 0, got %d", f.Len())
	}
}

func TestFrontierMarkVisited(t *testing.T) {
	f := NewFrontier("https://example.com/")

	if !f.MarkVisited("https://example.com/", 0) {
		t.Error("First MarkVisited should succeed")
	}
	if f.MarkVisited("https://example.com/", 3) {
		t.Error("Second MarkVisited should report already visited")
	}
	if f.Depths()["https://example.com/"] != 0 {
		t.Error("Depth must not be overwritten by a repeated visit")
	}
	if !f.IsVisited("https://example.com/") || !f.Visited().Contains("https://example.com/") {
		t.Error("Expected URL in visited set")
	}
	if f.VisitedCount() != 1 {
		t.Errorf("Expected 1 visited, got %d", f.VisitedCount())
	}

	f.MarkVisited("https://example.com/a", 1)
	order := f.VisitedOrder()
	if len(order) != 2 || order[1] != "https://example.com/a" {
		t.Errorf("Unexpected visit order %v", order)
	}

	// Returned copies do not alias internal state.
	order[0] = "changed"
	if f.VisitedOrder()[0] != "https://example.com/" {
		t.Error("VisitedOrder returned internal slice")
	}
}

func TestFrontierFirstDiscovererWins(t *testing.T) {
	root := "https://example.com/"
	f := NewFrontier(root)

	if f.SetParentIfAbsent(root, "https://example.com/a") {
		t.Error("Root must keep its empty parent")
	}
	if !f.SetParentIfAbsent("https://example.com/x", "https://example.com/a") {
		t.Error("First parent should be recorded")
	}
	if f.SetParentIfAbsent("https://example.com/x", "https://example.com/b") {
		t.Error("Second parent must not overwrite the first")
	}

	parent, ok := f.Parent("https://example.com/x")
	if !ok || parent != "https://example.com/a" {
		t.Errorf("Expected parent /a, got %q", parent)
	}
	if p, ok := f.Parent(root); !ok || p != "" {
		t.Errorf("Expected root parent entry \"\", got %q (%v)", p, ok)
	}
}

func TestFrontierCompaction(t *testing.T) {
	f := NewFrontier("https://example.com/")
	for i := 0; i < 3000; i++ {
		f.Push(fmt.Sprintf("https://example.com/%d", i), 1)
	}

	if _, ok := f.Pop(); !ok {
		t.Fatal("Expected root entry")
	}
	for i := 0; i < 3000; i++ {
		got, ok := f.Pop()
		if !ok {
			t.Fatalf("Queue ended early at %d", i)
		}
		if want := fmt.Sprintf("https://example.com/%d", i); got.URL != want {
			t.Fatalf("Expected %s, got %s", want, got.URL)
		}
		if f.Len() != 3000-i-1 {
			t.Fatalf("Expected length %d, got %d", 3000-i-1, f.Len())
		}
	}
}
