// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session holds the presentation state of one browser session as a
// four-state machine: Idle, Loading, Success, Error.
//
// Every submit issues a new request token. Completions carrying an older
// token are discarded, so a slow response can never overwrite the state of a
// newer exploration.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/pdiddy/tangente/pkg/types"
)

// State is the presentation state of a session.
type State int

const (
	Idle State = iota
	Loading
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText renders the state name in JSON snapshots.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// FailureMessage is the only error text shown to users, whatever the cause.
const FailureMessage = "Could not explore the tangent. Ensure your API key is valid and try again."

var (
	// ErrEmptyTopic rejects a submit whose topic is blank after trimming.
	ErrEmptyTopic = errors.New("topic is empty")

	// ErrBusy rejects a submit while an exploration is in flight.
	ErrBusy = errors.New("exploration already in progress")

	// ErrStale reports a completion for a request that is no longer current.
	ErrStale = errors.New("stale exploration response discarded")
)

// Token identifies one submitted exploration within a session.
type Token uint64

// Snapshot is an immutable view of a session.
type Snapshot struct {
	State   State                    `json:"state"`
	Topic   string                   `json:"topic,omitempty"`
	Result  *types.ExplorationResult `json:"result,omitempty"`
	Message string                   `json:"error,omitempty"`
}

// Session owns the single current-result slot of one user.
type Session struct {
	mu      sync.Mutex
	state   State
	topic   string
	result  *types.ExplorationResult
	message string
	latest  Token
}

// New returns a session in the Idle state.
func New() *Session {
	return &Session{}
}

// Submit starts a new exploration for topic. It fails with ErrEmptyTopic or
// ErrBusy and leaves the state untouched in those cases. On success the
// session moves to Loading, the previous result and error are cleared, and
// the token for the new request is returned.
func (s *Session) Submit(topic string) (Token, string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return 0, "", ErrEmptyTopic
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Loading {
		return 0, "", ErrBusy
	}

	s.latest++
	s.state = Loading
	s.topic = topic
	s.result = nil
	s.message = ""
	return s.latest, topic, nil
}

// Complete records a successful exploration. A token other than the latest
// one returns ErrStale and changes nothing.
func (s *Session) Complete(tok Token, result *types.ExplorationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tok != s.latest || s.state != Loading {
		return ErrStale
	}
	s.state = Success
	s.result = result
	s.message = ""
	return nil
}

// Fail records a failed exploration with the fixed user-facing message. A
// token other than the latest one returns ErrStale and changes nothing.
func (s *Session) Fail(tok Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tok != s.latest || s.state != Loading {
		return ErrStale
	}
	s.state = Error
	s.result = nil
	s.message = FailureMessage
	return nil
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{State: s.state, Topic: s.topic, Result: s.result, Message: s.message}
}

// Explorer is the adapter contract the session drives.
type Explorer interface {
	Explore(ctx context.Context, topic string) (*types.ExplorationResult, error)
}

// Run submits topic, performs one exploration and records its outcome. The
// returned error is the submit error, the exploration error, or ErrStale when
// a newer submit superseded this one.
func Run(ctx context.Context, s *Session, explorer Explorer, topic string) error {
	tok, topic, err := s.Submit(topic)
	if err != nil {
		return err
	}
	return Finish(ctx, s, explorer, tok, topic)
}

// Finish performs the exploration for an already submitted token.
func Finish(ctx context.Context, s *Session, explorer Explorer, tok Token, topic string) error {
	result, err := explorer.Explore(ctx, topic)
	if err != nil {
		if ferr := s.Fail(tok); ferr != nil {
			return ferr
		}
		return err
	}
	return s.Complete(tok, result)
}
