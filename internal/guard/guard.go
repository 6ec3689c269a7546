// Package guard decides, per navigation, whether the current session may
// enter a route. The decision is pure and recomputed on every request.
package guard

import "github.com/team8-2025-2026/AiAgents/internal/session"

// Routes the guard can redirect to.
const (
	LoginRoute = "/auth"
	HomeRoute  = "/"
)

type policyKind int

const (
	public policyKind = iota
	requireSession
	requireRole
)

// Policy is a route's access requirement. Defined statically per view.
type Policy struct {
	kind policyKind
	role string
}

// Public routes are always allowed.
func Public() Policy {
	return Policy{kind: public}
}

// RequireSession routes need an authenticated session.
func RequireSession() Policy {
	return Policy{kind: requireSession}
}

// RequireRole routes need an authenticated session whose profile carries the
// given status.
func RequireRole(role string) Policy {
	return Policy{kind: requireRole, role: role}
}

// Decision is the outcome of Evaluate: either entry is allowed, or the
// navigation must be redirected.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func redirect(target string) Decision {
	return Decision{RedirectTo: target}
}

// Evaluate checks the session against a policy. An unauthenticated session is
// sent to the login route; an authenticated session with the wrong role is
// sent to the default landing route, which distinguishes "not logged in" from
// "logged in but forbidden".
func Evaluate(policy Policy, sess *session.Session) Decision {
	switch policy.kind {
	case public:
		return allow()
	case requireSession:
		if !sess.Authenticated() {
			return redirect(LoginRoute)
		}
		return allow()
	case requireRole:
		if !sess.Authenticated() {
			return redirect(LoginRoute)
		}
		if sess.Profile == nil || sess.Profile.Status != policy.role {
			return redirect(HomeRoute)
		}
		return allow()
	default:
		return redirect(LoginRoute)
	}
}
