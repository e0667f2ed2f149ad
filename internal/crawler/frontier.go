package crawler

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// VisitedSet is the read side of the set of URLs dequeued for fetching
type VisitedSet interface {
	Contains(urls ...string) bool
	Cardinality() int
}

// Frontier holds the breadth-first crawl state: the FIFO of pending
// entries, the visited set, the depth each URL was visited at and the
// first-discoverer parent map. It is owned by a single crawl flow.
type Frontier struct {
	queue   []FrontierEntry
	head    int
	visited mapset.Set[string]
	order   []string
	depths  map[string]int
	parents map[string]string
}

// NewFrontier seeds the queue with root at depth 0 and records root as
// having no parent.
func NewFrontier(root string) *Frontier {
	f := &Frontier{
		visited: mapset.NewThreadUnsafeSet[string](),
		depths:  make(map[string]int),
		parents: map[string]string{root: ""},
	}
	f.Push(root, 0)
	return f
}

// Push appends an entry to the back of the queue
func (f *Frontier) Push(url string, depth int) {
	f.queue = append(f.queue, FrontierEntry{URL: url, Depth: depth})
}

// Pop removes the entry at the front of the queue
func (f *Frontier) Pop() (FrontierEntry, bool) {
	if f.head >= len(f.queue) {
		return FrontierEntry{}, false
	}

	entry := f.queue[f.head]
	f.queue[f.head] = FrontierEntry{}
	f.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if f.head > 1024 && f.head*2 > len(f.queue) {
		f.queue = append([]FrontierEntry(nil), f.queue[f.head:]...)
		f.head = 0
	}

	return entry, true
}

// Len returns the number of pending entries
func (f *Frontier) Len() int {
	return len(f.queue) - f.head
}

// MarkVisited inserts url into the visited set. It returns false, and
// records nothing, when url was already visited.
func (f *Frontier) MarkVisited(url string, depth int) bool {
	if !f.visited.Add(url) {
		return false
	}
	f.order = append(f.order, url)
	f.depths[url] = depth
	return true
}

// IsVisited reports visited-set membership
func (f *Frontier) IsVisited(url string) bool {
	return f.visited.Contains(url)
}

// Visited exposes the visited set for admission checks
func (f *Frontier) Visited() VisitedSet {
	return f.visited
}

// VisitedCount returns the size of the visited set
func (f *Frontier) VisitedCount() int {
	return f.visited.Cardinality()
}

// SetParentIfAbsent records parent as child's discoverer unless child
// already has one (the root counts as having one). It reports whether the
// parent was recorded.
func (f *Frontier) SetParentIfAbsent(child, parent string) bool {
	if _, exists := f.parents[child]; exists {
		return false
	}
	f.parents[child] = parent
	return true
}

// Parent returns the recorded discoverer of url
func (f *Frontier) Parent(url string) (string, bool) {
	p, ok := f.parents[url]
	return p, ok
}

// VisitedOrder returns a copy of the visited URLs in visit order
func (f *Frontier) VisitedOrder() []string {
	return append([]string(nil), f.order...)
}

// Depths returns a copy of the visit depth of every visited URL
func (f *Frontier) Depths() map[string]int {
	out := make(map[string]int, len(f.depths))
	for k, v := range f.depths {
		out[k] = v
	}
	return out
}

// Parents returns a copy of the parent map
func (f *Frontier) Parents() map[string]string {
	out := make(map[string]string, len(f.parents))
	for k, v := range f.parents {
		out[k] = v
	}
	return out
}
