// Package tokenflow models the redemption of an emailed, single-use token.
//
// A Flow lives for exactly one page load: it starts Pending, moves to
// Redeeming when the redemption call is issued, and ends Verified or Failed.
// The redemption function runs at most once per Flow; a failed redemption
// is never retried, the user has to open a new link.
package tokenflow

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/gophnotes/internal/client/router"
)

type State int

const (
	Pending State = iota
	Redeeming
	Verified
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Redeeming:
		return "redeeming"
	case Verified:
		return "verified"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether the flow has finished.
func (s State) Terminal() bool {
	return s == Verified || s == Failed
}

var (
	ErrMissingToken   = errors.New("missing token")
	ErrAlreadyStarted = errors.New("token redemption already started")
)

// Kind is one of the three emailed-token flows. They share the state
// machine and differ in copy and post-redemption effect.
type Kind string

const (
	VerifyEmail   Kind = Kind(router.VerifyEmail)
	MagicLink     Kind = Kind(router.MagicLink)
	ResetPassword Kind = Kind(router.ResetPassword)
)

// LoadingText is shown while the redemption call is in flight.
func (k Kind) LoadingText() string {
	switch k {
	case VerifyEmail:
		return "Verifying..."
	case MagicLink:
		return "Signing you in..."
	case ResetPassword:
		return "Resetting password..."
	}
	return "Loading..."
}

// FailureHeading titles the error view.
func (k Kind) FailureHeading() string {
	switch k {
	case VerifyEmail:
		return "Verification failed"
	case MagicLink:
		return "Magic link failed"
	case ResetPassword:
		return "Password reset failed"
	}
	return "Something went wrong"
}

// FallbackMessage is shown when the failure carries no message.
func (k Kind) FallbackMessage() string {
	switch k {
	case VerifyEmail:
		return "Unable to verify email."
	case MagicLink:
		return "Unable to sign in."
	case ResetPassword:
		return "Unable to reset password."
	}
	return "Unable to complete the request."
}

// Authenticates reports whether a successful redemption yields a session.
func (k Kind) Authenticates() bool {
	return k == MagicLink
}

// Flow is the per-page-load redemption state machine.
type Flow struct {
	kind  Kind
	token string

	mu    sync.Mutex
	state State
	err   error
}

// New starts a flow for token in the Pending state.
func New(kind Kind, token string) *Flow {
	return &Flow{kind: kind, token: token}
}

func (f *Flow) Kind() Kind {
	return f.kind
}

func (f *Flow) Token() string {
	return f.token
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Err returns the redemption failure, if any.
func (f *Flow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Redeem moves the flow through Redeeming into Verified or Failed by calling
// fn with the token. fn runs at most once per Flow: later calls return
// ErrAlreadyStarted. onRedeeming, if set, fires after the transition to
// Redeeming and before fn, which is where a loading indicator goes.
func (f *Flow) Redeem(ctx context.Context, onRedeeming func(), fn func(ctx context.Context, token string) error) error {
	f.mu.Lock()
	if f.state != Pending {
		f.mu.Unlock()
		return ErrAlreadyStarted
	}
	if f.token == "" {
		f.state, f.err = Failed, ErrMissingToken
		f.mu.Unlock()
		return ErrMissingToken
	}
	f.state = Redeeming
	f.mu.Unlock()

	if onRedeeming != nil {
		onRedeeming()
	}
	err := fn(ctx, f.token)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state, f.err = Failed, err
		return err
	}
	f.state = Verified
	return nil
}
