package crawler

import (
	"sync"
)

// QueueItem is one unit of pending work: a normalized URL and the depth it
// was discovered at. FollowLinks is false for cross-origin leaves, which are
// fetched and classified but never expanded.
type QueueItem struct {
	URL         string
	Depth       int
	FollowLinks bool
}

// Frontier is the pending-work queue of the crawl. It owns the visited set,
// the FIFO queue, and the in-flight set; workers only ever interact with it
// through Enqueue/Dequeue/Done, never with the underlying structures.
//
// Enqueue order is strictly FIFO, which gives breadth-first layer order: all
// depth-d items are dequeued before any depth-d+1 item, because depth-d+1
// items are only discovered while processing depth-d ones.
type Frontier struct {
	mu   sync.Mutex
	cond *sync.Cond

	queue    []QueueItem
	visited  map[string]struct{}
	inflight map[string]struct{}

	maxDepth      int
	maxURLs       int
	closed        bool
	budgetReached bool
}

// NewFrontier creates a Frontier bounded by maxDepth layers and maxURLs
// distinct URLs (queued plus visited).
func NewFrontier(maxDepth, maxURLs int) *Frontier {
	f := &Frontier{
		visited:  make(map[string]struct{}),
		inflight: make(map[string]struct{}),
		maxDepth: maxDepth,
		maxURLs:  maxURLs,
	}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Enqueue admits a URL into the run. It is a no-op when the URL is already
// known (queued, in flight, or visited), when depth exceeds the layer limit,
// when the distinct-URL budget is exhausted, or when the frontier is closed.
// The visited check and insert happen under one lock, so concurrent workers
// can never admit the same URL twice.
//
// The first return value reports whether the URL was admitted now; the
// second whether it was already known before this call. A caller records a
// referrer edge when either is true.
func (f *Frontier) Enqueue(item QueueItem) (admitted bool, known bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.visited[item.URL]; ok {
		return false, true
	}
	if f.closed {
		return false, false
	}
	if item.Depth > f.maxDepth {
		return false, false
	}
	if len(f.visited) >= f.maxURLs {
		f.budgetReached = true
		return false, false
	}

	f.visited[item.URL] = struct{}{}
	f.queue = append(f.queue, item)
	f.cond.Signal()
	return true, false
}

// Dequeue claims the next item. It blocks while the queue is empty but work
// is still in flight (in-flight fetches may discover more URLs). It returns
// ok=false once the frontier has drained (queue empty, nothing in flight) or
// has been closed.
func (f *Frontier) Dequeue() (QueueItem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for {
		if len(f.queue) > 0 && !f.closed {
			item := f.queue[0]
			f.queue = f.queue[1:]
			f.inflight[item.URL] = struct{}{}
			return item, true
		}
		if f.closed || len(f.inflight) == 0 {
			return QueueItem{}, false
		}
		f.cond.Wait()
	}
}

// Done marks a previously dequeued URL as completed. When the last in-flight
// item finishes with an empty queue, all blocked workers are released.
func (f *Frontier) Done(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.inflight, url)
	if len(f.inflight) == 0 || f.closed {
		f.cond.Broadcast()
	}
}

// Close stops all further admission and releases every blocked worker.
// In-flight items are unaffected; callers drain them cooperatively.
func (f *Frontier) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	f.cond.Broadcast()
}

// BudgetReached reports whether any enqueue was rejected because the
// distinct-URL budget was exhausted.
func (f *Frontier) BudgetReached() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.budgetReached
}

// KnownCount returns the number of distinct URLs admitted so far.
func (f *Frontier) KnownCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited)
}
