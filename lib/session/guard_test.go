// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"testing"

	"github.com/oqes-foundation/oqes/lib/api"
)

func TestGuard(t *testing.T) {
	takeQuiz := Route{Name: "take-quiz", Protected: true, AllowedRoles: []api.Role{api.RoleStudent}}
	manage := Route{Name: "manage", Protected: true, AllowedRoles: []api.Role{api.RoleTeacher}}
	home := Route{Name: "home", Protected: true}
	login := Route{Name: "login"}

	t.Run("blocks while uninitialized or loading", func(t *testing.T) {
		f := newFixture(t, validServer())
		if got := f.manager.Guard(home); got != DecisionWait {
			t.Errorf("Guard before Restore = %v, want Wait", got)
		}
	})

	t.Run("anonymous redirected to login on protected routes", func(t *testing.T) {
		f := newFixture(t, validServer())
		f.manager.Restore(context.Background())

		if got := f.manager.Guard(home); got != DecisionLogin {
			t.Errorf("Guard(home) = %v, want Login", got)
		}
		if got := f.manager.Guard(login); got != DecisionAllow {
			t.Errorf("Guard(login) = %v, want Allow for public route", got)
		}
	})

	t.Run("role gating", func(t *testing.T) {
		server := validServer() // alice, student
		f := newFixture(t, server)
		if err := f.store.Save(server.tokens); err != nil {
			t.Fatalf("seeding store: %v", err)
		}
		f.manager.Restore(context.Background())

		if got := f.manager.Guard(takeQuiz); got != DecisionAllow {
			t.Errorf("student on take-quiz = %v, want Allow", got)
		}
		if got := f.manager.Guard(manage); got != DecisionHome {
			t.Errorf("student on manage = %v, want Home redirect", got)
		}
		if got := f.manager.Guard(home); got != DecisionAllow {
			t.Errorf("student on unrestricted protected route = %v, want Allow", got)
		}
	})
}
