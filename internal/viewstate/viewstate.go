// Package viewstate is the dashboard's two-mode navigation model.
//
// A State is an immutable value. Every transition returns a new State and
// leaves the receiver untouched, so each step can be tested without a
// terminal. Fetches are issued outside this package: a transition that needs
// data hands back a Ticket, the caller performs the fetch, and the result is
// fed back through the matching Apply method together with that Ticket.
//
// Tickets carry a generation number. Any later transition advances the
// generation, and Apply ignores results whose ticket is no longer current.
// A slow response can therefore never overwrite newer state: a second
// selection supersedes the first, and going back or reloading drops
// whatever is still in flight.
package viewstate

import (
	"errors"
	"fmt"

	"github.com/daviddao/voiceagent_viewer/internal/client"
	"github.com/daviddao/voiceagent_viewer/internal/conversation"
)

// Mode is which body is active.
type Mode int

const (
	ModeList Mode = iota
	ModeDetail
)

func (m Mode) String() string {
	if m == ModeDetail {
		return "Detail"
	}
	return "List"
}

// ErrInvalidTransition is returned for a transition the current mode does
// not allow.
var ErrInvalidTransition = errors.New("invalid transition")

// Ticket identifies one outstanding fetch.
type Ticket struct {
	Op  client.Op
	ID  string // conversation id, detail fetches only
	gen uint64
}

// State is the whole dashboard state.
type State struct {
	Mode    Mode
	Loading bool
	Err     string // operator-facing message, empty when none

	Summaries []conversation.Summary
	Detail    *conversation.Detail

	// Listed is set once a list fetch has completed, successfully or not.
	Listed bool

	gen uint64
}

// New returns the resting List state with no data.
func New() State {
	return State{Mode: ModeList}
}

// Stale reports whether t was superseded by a later transition.
func (s State) Stale(t Ticket) bool {
	return t.gen != s.gen
}

// Generation returns the current generation, for logging.
func (s State) Generation() uint64 {
	return s.gen
}

// Init enters List with no data and starts the list fetch. Any fetch still
// in flight becomes stale.
func (s State) Init() (State, Ticket) {
	next := State{
		Mode:    ModeList,
		Loading: true,
		gen:     s.gen + 1,
	}
	return next, Ticket{Op: client.OpList, gen: next.gen}
}

// ApplyList stores the result of the list fetch for t. On failure the
// summary collection is left empty and Err is set.
func (s State) ApplyList(t Ticket, summaries []conversation.Summary, err error) State {
	if t.Op != client.OpList || s.Stale(t) {
		return s
	}
	s.Loading = false
	s.Listed = true
	if err != nil {
		s.Summaries = nil
		s.Err = client.OperatorMessage(err, client.OpList)
		return s
	}
	s.Summaries = summaries
	s.Err = ""
	return s
}

// Select starts the detail fetch for id. It is only valid in List. A
// selection made while another is in flight supersedes it.
func (s State) Select(id string) (State, Ticket, error) {
	if s.Mode != ModeList {
		return s, Ticket{}, fmt.Errorf("select %q in %s mode: %w", id, s.Mode, ErrInvalidTransition)
	}
	s.Loading = true
	s.gen++
	return s, Ticket{Op: client.OpDetail, ID: id, gen: s.gen}, nil
}

// ApplyDetail stores the result of the detail fetch for t. Success enters
// Detail; failure stays in List with Err set and the list untouched.
func (s State) ApplyDetail(t Ticket, d *conversation.Detail, err error) State {
	if t.Op != client.OpDetail || s.Stale(t) {
		return s
	}
	s.Loading = false
	if err != nil || d == nil {
		if err == nil {
			err = fmt.Errorf("empty response for %q", t.ID)
		}
		s.Err = client.OperatorMessage(err, client.OpDetail)
		return s
	}
	s.Mode = ModeDetail
	s.Detail = d
	s.Err = ""
	return s
}

// GoBack leaves Detail for List. The stored detail is dropped, Err is
// cleared and the list is not fetched again.
func (s State) GoBack() (State, error) {
	if s.Mode != ModeDetail {
		return s, fmt.Errorf("go back in %s mode: %w", s.Mode, ErrInvalidTransition)
	}
	s.Mode = ModeList
	s.Detail = nil
	s.Err = ""
	s.Loading = false
	s.gen++
	return s, nil
}

// FindSummary returns the index of the summary with the given id, or -1.
func (s State) FindSummary(id string) int {
	for i, sum := range s.Summaries {
		if sum.ID == id {
			return i
		}
	}
	return -1
}
