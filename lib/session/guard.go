// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"slices"

	"github.com/oqes-foundation/oqes/lib/api"
)

// Route describes a navigable view for guarding purposes. The view
// layer defines its routes and consults Guard before rendering.
type Route struct {
	// Name identifies the route (e.g., "home", "take-quiz").
	Name string

	// Protected routes require an authenticated user.
	Protected bool

	// AllowedRoles restricts a protected route to specific roles.
	// Empty means any authenticated user.
	AllowedRoles []api.Role
}

// Decision is the route guard's verdict for a navigation attempt.
type Decision int

const (
	// DecisionWait: session state is not yet known. Render a loading
	// indicator and block navigation.
	DecisionWait Decision = iota
	// DecisionAllow: render the requested route.
	DecisionAllow
	// DecisionLogin: anonymous user on a protected route. Redirect to
	// the login view; the caller preserves the originally requested
	// route so login can redirect back after success.
	DecisionLogin
	// DecisionHome: authenticated user whose role is not in the
	// route's allowed set. Redirect to the default view.
	DecisionHome
)

// Guard applies the route-guard contract to a navigation attempt.
func (m *Manager) Guard(route Route) Decision {
	m.mu.Lock()
	status, user := m.status, m.user
	m.mu.Unlock()

	if status != StatusReady {
		return DecisionWait
	}
	if !route.Protected {
		return DecisionAllow
	}
	if user == nil {
		return DecisionLogin
	}
	if len(route.AllowedRoles) > 0 && !slices.Contains(route.AllowedRoles, user.Role) {
		return DecisionHome
	}
	return DecisionAllow
}
