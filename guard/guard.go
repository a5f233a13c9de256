// Package guard gates access to the authenticated part of the application
// on session state, the way a protected route subtree gates navigation.
package guard

import (
	"sync"

	"github.com/jrsteele09/go-crm-console/session"
)

// Decision is the guard's verdict for one evaluation.
type Decision int

const (
	// DecisionWait means an auth operation is in flight: render a neutral
	// waiting indicator and make no routing decision.
	DecisionWait Decision = iota
	// DecisionRedirect means send the visitor to the login entry point,
	// replacing history so back-navigation cannot return here.
	DecisionRedirect
	// DecisionDeny means the visitor is unauthenticated and has already been
	// redirected: render nothing.
	DecisionDeny
	// DecisionAllow means render the guarded subtree.
	DecisionAllow
)

func (d Decision) String() string {
	switch d {
	case DecisionWait:
		return "wait"
	case DecisionRedirect:
		return "redirect"
	case DecisionDeny:
		return "deny"
	case DecisionAllow:
		return "allow"
	}
	return "unknown"
}

// Guard evaluates session snapshots into routing decisions. It redirects
// exactly once per transition into the anonymous state: repeated
// evaluations while still anonymous deny instead of redirecting again.
type Guard struct {
	lock       sync.Mutex
	redirected bool
}

func New() *Guard {
	return &Guard{}
}

// Evaluate maps a session snapshot to a decision. While loading it never
// redirects, whatever the authenticated flag says.
func (g *Guard) Evaluate(snap session.Snapshot) Decision {
	g.lock.Lock()
	defer g.lock.Unlock()

	if snap.Loading {
		return DecisionWait
	}
	if snap.Authenticated {
		g.redirected = false
		return DecisionAllow
	}
	if g.redirected {
		return DecisionDeny
	}
	g.redirected = true
	return DecisionRedirect
}

// Bind re-evaluates on every session transition, invoking redirect whenever
// the evaluation demands one (for example after an external 401-triggered
// clear, not only on initial mount). It returns the unsubscribe function.
func (g *Guard) Bind(manager *session.Manager, redirect func()) func() {
	return manager.Subscribe(func(snap session.Snapshot) {
		if g.Evaluate(snap) == DecisionRedirect {
			redirect()
		}
	})
}
