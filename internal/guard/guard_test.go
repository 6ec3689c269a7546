package guard

import (
	"testing"

	"github.com/team8-2025-2026/AiAgents/internal/model"
	"github.com/team8-2025-2026/AiAgents/internal/session"
)

func anonymous() *session.Session {
	return &session.Session{ID: "sid"}
}

func authenticated(status string) *session.Session {
	return &session.Session{
		ID:    "sid",
		Token: "tok-1",
		Profile: &model.Profile{
			Email:  "a@b.com",
			Status: status,
		},
	}
}

func TestPublicAlwaysAllows(t *testing.T) {
	if d := Evaluate(Public(), anonymous()); !d.Allowed {
		t.Fatalf("expected public route to allow anonymous, got %+v", d)
	}
	if d := Evaluate(Public(), authenticated(model.StatusStudent)); !d.Allowed {
		t.Fatalf("expected public route to allow authenticated, got %+v", d)
	}
	if d := Evaluate(Public(), nil); !d.Allowed {
		t.Fatalf("expected public route to allow nil session, got %+v", d)
	}
}

func TestRequireSessionRedirectsAnonymousToLogin(t *testing.T) {
	d := Evaluate(RequireSession(), anonymous())
	if d.Allowed || d.RedirectTo != LoginRoute {
		t.Fatalf("expected redirect to %s, got %+v", LoginRoute, d)
	}
	if d := Evaluate(RequireSession(), authenticated(model.StatusTeacher)); !d.Allowed {
		t.Fatalf("expected authenticated session to pass, got %+v", d)
	}
}

func TestRequireSessionAllowsTokenWithoutProfile(t *testing.T) {
	sess := &session.Session{ID: "sid", Token: "tok-1"}
	if d := Evaluate(RequireSession(), sess); !d.Allowed {
		t.Fatalf("token presence alone must authenticate, got %+v", d)
	}
}

func TestRequireRoleDistinguishesAnonymousFromForbidden(t *testing.T) {
	policy := RequireRole(model.StatusAssistent)

	d := Evaluate(policy, anonymous())
	if d.Allowed || d.RedirectTo != LoginRoute {
		t.Fatalf("expected anonymous redirect to login, got %+v", d)
	}

	for _, status := range []string{model.StatusStudent, model.StatusTeacher} {
		d = Evaluate(policy, authenticated(status))
		if d.Allowed || d.RedirectTo != HomeRoute {
			t.Fatalf("expected %s redirect to home, got %+v", status, d)
		}
	}

	if d := Evaluate(policy, authenticated(model.StatusAssistent)); !d.Allowed {
		t.Fatalf("expected assistant to pass, got %+v", d)
	}
}

func TestRequireRoleWithMissingProfileRedirectsHome(t *testing.T) {
	sess := &session.Session{ID: "sid", Token: "tok-1"}
	d := Evaluate(RequireRole(model.StatusAssistent), sess)
	if d.Allowed || d.RedirectTo != HomeRoute {
		t.Fatalf("expected authenticated-but-unknown-role redirect to home, got %+v", d)
	}
}
