package client

// DecisionKind is the closed set of route guard outcomes.
type DecisionKind int

const (
	// ShowLoading: session not resolved yet, render a neutral placeholder.
	ShowLoading DecisionKind = iota
	// RedirectLogin: no credentials; Location preserves the requested path
	// so login can return there.
	RedirectLogin
	// RedirectHome: authenticated but wrong role; Location is the user's
	// own home path.
	RedirectHome
	// Render: the caller may render the protected view.
	Render
)

// Decision is the outcome of a guard evaluation.
type Decision struct {
	Kind     DecisionKind
	Location string
}

// Decide resolves access to a role-protected location from a session
// snapshot. It is a pure function: same snapshot, same decision, no side
// effects, so it can run on every navigation without coordination.
//
// Rules, in order:
//  1. session still initializing: show loading
//  2. no token: redirect to login, preserving the requested location
//  3. token held but user not resolved yet: show loading
//  4. role mismatch: redirect to the user's own home
//  5. otherwise render
func Decide(required Role, snap Snapshot, location string) Decision {
	if snap.State != StateReady {
		return Decision{Kind: ShowLoading}
	}
	if snap.Token == "" {
		return Decision{Kind: RedirectLogin, Location: location}
	}
	if snap.User == nil {
		return Decision{Kind: ShowLoading}
	}
	if snap.User.Role != required {
		return Decision{Kind: RedirectHome, Location: snap.User.Role.HomePath()}
	}
	return Decision{Kind: Render}
}
