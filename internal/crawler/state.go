package crawler

import "sync"

// RunState is the lifecycle state of a crawl run.
type RunState int32

const (
	StateRunning RunState = iota
	StatePaused
	StateStopping
	StateDone
)

// String returns the human-readable state name.
func (s RunState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopping:
		return "stopping"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Controller is the pause/resume/stop state machine shared by all workers.
// Transitions are Running→Paused→Running and Running/Paused→Stopping→Done;
// every control call is idempotent. Workers consult the controller only
// between work units, never mid-fetch, so stopping drains rather than aborts.
type Controller struct {
	mu    sync.Mutex
	cond  *sync.Cond
	state RunState
}

// NewController creates a controller in the Running state.
func NewController() *Controller {
	c := &Controller{state: StateRunning}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// State returns the current run state.
func (c *Controller) State() RunState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pause moves a running crawl to Paused. Pausing an already-paused or
// stopping run is a no-op.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateRunning {
		c.state = StatePaused
	}
}

// Resume moves a paused crawl back to Running and releases blocked workers.
func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StatePaused {
		c.state = StateRunning
		c.cond.Broadcast()
	}
}

// Stop moves the crawl to Stopping from either Running or Paused. A paused
// crawl being stopped releases its blocked workers so they can exit.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateRunning || c.state == StatePaused {
		c.state = StateStopping
		c.cond.Broadcast()
	}
}

// Finish marks the run Done once all workers have exited.
func (c *Controller) Finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateDone
	c.cond.Broadcast()
}

// WaitIfPaused blocks the calling worker while the run is paused. It returns
// false when the run is stopping and the worker should exit instead of
// claiming more work.
func (c *Controller) WaitIfPaused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.state == StatePaused {
		c.cond.Wait()
	}
	return c.state == StateRunning
}
