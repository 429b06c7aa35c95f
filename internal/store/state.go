package store

import "sync"

// State is the engine readiness state.
type State int

const (
	// StateUninitialized means Open has not completed.
	StateUninitialized State = iota
	// StateReady means the database is loaded and accepting calls.
	StateReady
	// StateFailed means initialization failed fatally; the engine refuses
	// all reads and writes rather than guess at an empty database.
	StateFailed
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// stateBroadcaster tracks the current state and notifies subscribers on
// every transition. Subscribers receive the current state immediately so a
// late subscriber does not miss an already-completed initialization.
type stateBroadcaster struct {
	mu    sync.Mutex
	state State
	subs  []chan State
}

func (b *stateBroadcaster) current() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *stateBroadcaster) set(s State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == s {
		return
	}
	b.state = s
	for _, ch := range b.subs {
		select {
		case ch <- s:
		default: // slow subscriber; drop rather than block the engine
		}
	}
}

func (b *stateBroadcaster) subscribe() <-chan State {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan State, 4)
	ch <- b.state
	b.subs = append(b.subs, ch)
	return ch
}
