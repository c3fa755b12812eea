// Package guard decides whether a screen may render given the session state.
package guard

import (
	"github.com/mcoot/circle-go/internal/route"
	"github.com/mcoot/circle-go/internal/session"
)

// Kind selects the guard variant
type Kind int

const (
	// Protected screens need an identity
	Protected Kind = iota
	// Public screens are only for signed-out users
	Public
)

func (k Kind) String() string {
	switch k {
	case Protected:
		return "protected"
	case Public:
		return "public"
	default:
		return "unknown"
	}
}

// Action is what the caller should do with the requested screen
type Action int

const (
	// Wait shows a neutral waiting indicator
	Wait Action = iota
	// Render shows the requested screen
	Render
	// Redirect navigates to Decision.Target instead
	Redirect
)

func (a Action) String() string {
	switch a {
	case Wait:
		return "wait"
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the guard's verdict. Target is set only for Redirect.
type Decision struct {
	Action Action
	Target route.Route
}

// Decide maps the session state to a decision for a screen of the given kind.
// Nothing renders while loading, whatever the identity says.
func Decide(kind Kind, authenticated, loading bool) Decision {
	if loading {
		return Decision{Action: Wait}
	}

	switch kind {
	case Protected:
		if !authenticated {
			return Decision{Action: Redirect, Target: route.Entry}
		}
	case Public:
		if authenticated {
			return Decision{Action: Redirect, Target: route.Levels}
		}
	}
	return Decision{Action: Render}
}

// Check decides using a store snapshot
func Check(kind Kind, snap session.Snapshot) Decision {
	return Decide(kind, snap.Authenticated(), snap.Loading)
}

// KindFor returns the guard kind for a screen
func KindFor(r route.Route) Kind {
	if r == route.Entry {
		return Public
	}
	return Protected
}

// Apply runs the decision for a screen: a redirect is sent to nav and
// reported as false, Wait is reported as false, Render as true.
func Apply(nav route.Navigator, r route.Route, snap session.Snapshot) bool {
	d := Check(KindFor(r), snap)
	switch d.Action {
	case Redirect:
		nav.Navigate(d.Target, nil)
		return false
	case Render:
		return true
	default:
		return false
	}
}
