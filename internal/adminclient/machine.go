package adminclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// State is a phase of the admin flow.
type State string

const (
	StateIdle           State = "idle"
	StateProbing        State = "probing"
	StateLocked         State = "locked"
	StateAuthenticating State = "authenticating"
	StateReady          State = "ready"
)

// MsgIncorrectPassword is shown after a rejected password.
const MsgIncorrectPassword = "Incorrect password."

// ErrInvalidTransition is returned when an action is not allowed in the current state.
var ErrInvalidTransition = errors.New("invalid transition")

// API is the part of Client the flow depends on.
type API interface {
	List(ctx context.Context) ([]Entry, error)
	Authenticate(ctx context.Context, password string) error
}

// Flow is the admin state machine:
//
//	idle --Start--> probing --ok--> ready
//	                        --any error--> locked
//	locked --Unlock--> authenticating --auth ok, list ok--> ready
//	                                  --auth rejected--> locked (MsgIncorrectPassword)
//	                                  --list failed--> locked
//
// Every list failure, whether 401, 5xx or a network error, leads to locked.
// There is no retry or polling.
type Flow struct {
	api API

	mu          sync.Mutex
	state       State
	entries     []Entry
	message     string
	transitions []State
}

// NewFlow returns a Flow in StateIdle.
func NewFlow(api API) *Flow {
	return &Flow{api: api, state: StateIdle, transitions: []State{StateIdle}}
}

// State returns the current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Message returns the user-facing message, empty when there is none.
func (f *Flow) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// Entries returns a copy of the loaded list.
func (f *Flow) Entries() []Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Entry, len(f.entries))
	copy(out, f.entries)
	return out
}

// Transitions returns every state entered so far, starting with idle.
func (f *Flow) Transitions() []State {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]State, len(f.transitions))
	copy(out, f.transitions)
	return out
}

func (f *Flow) enter(s State) {
	f.state = s
	f.transitions = append(f.transitions, s)
}

// Start probes the list endpoint once. It ends in ready or locked.
func (f *Flow) Start(ctx context.Context) State {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateIdle {
		return f.state
	}
	f.enter(StateProbing)
	entries, err := f.api.List(ctx)
	if err != nil {
		f.enter(StateLocked)
		return f.state
	}
	f.entries = entries
	f.enter(StateReady)
	return f.state
}

// Unlock submits password from the locked state. An empty password is ignored
// and the flow stays locked without contacting the server.
func (f *Flow) Unlock(ctx context.Context, password string) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateLocked {
		return f.state, fmt.Errorf("%w: unlock from %s", ErrInvalidTransition, f.state)
	}
	if password == "" {
		return f.state, nil
	}

	f.message = ""
	f.enter(StateAuthenticating)
	if err := f.api.Authenticate(ctx, password); err != nil {
		f.message = MsgIncorrectPassword
		f.enter(StateLocked)
		return f.state, nil
	}
	entries, err := f.api.List(ctx)
	if err != nil {
		f.enter(StateLocked)
		return f.state, nil
	}
	f.entries = entries
	f.enter(StateReady)
	return f.state, nil
}

// ExportCSV writes the loaded list as CSV. Only allowed in ready; no request is made.
func (f *Flow) ExportCSV(w io.Writer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateReady {
		return fmt.Errorf("%w: export from %s", ErrInvalidTransition, f.state)
	}
	return WriteCSV(w, f.entries)
}
