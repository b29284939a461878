package state

import (
	"sync"

	"github.com/rook-computer/splashpreview/internal/splash"
)

// State is what the preview currently shows.
type State struct {
	Platform splash.Platform    `json:"platform"`
	Inputs   splash.StyleInputs `json:"inputs"`
	Revision uint64             `json:"revision"`
}

type Store struct {
	mu          sync.RWMutex
	state       State
	subscribers map[int]chan State
	nextID      int
}

func NewStore() *Store {
	return &Store{state: State{Platform: splash.DefaultPlatform}}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state
}

func (store *Store) SetPlatform(platform splash.Platform) {
	store.Update(func(s *State) { s.Platform = platform })
}

// SetInputs replaces all style inputs.
func (store *Store) SetInputs(inputs splash.StyleInputs) {
	store.Update(func(s *State) { s.Inputs = inputs })
}

// Update applies fn to the state, bumps the revision and notifies subscribers.
func (store *Store) Update(fn func(s *State)) State {
	store.mu.Lock()
	defer store.mu.Unlock()
	fn(&store.state)
	store.state.Revision++
	store.notifyLocked()
	return store.state
}

// Reset returns to the default platform with no inputs.
func (store *Store) Reset() {
	store.Update(func(s *State) {
		s.Platform = splash.DefaultPlatform
		s.Inputs = splash.StyleInputs{}
	})
}

// Subscribe returns a channel that receives the latest state after each
// update. Pending values are replaced rather than queued.
func (store *Store) Subscribe() (updates <-chan State, cancel func()) {
	ch := make(chan State, 1)

	store.mu.Lock()
	if store.subscribers == nil {
		store.subscribers = make(map[int]chan State)
	}
	id := store.nextID
	store.nextID++
	store.subscribers[id] = ch
	store.mu.Unlock()

	var once sync.Once
	cancel = func() {
		once.Do(func() {
			store.mu.Lock()
			delete(store.subscribers, id)
			store.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (store *Store) notifyLocked() {
	for _, ch := range store.subscribers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- store.state:
		default:
		}
	}
}
