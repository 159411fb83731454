package client

import "testing"

func TestDecide(t *testing.T) {
	manager := &User{ID: "m-1", Username: "boss", Role: RoleManager}
	clientUser := &User{ID: "c-1", Username: "acme", Role: RoleClient}

	tests := []struct {
		name     string
		required Role
		snap     Snapshot
		location string
		want     Decision
	}{
		{
			name:     "uninitialized session shows loading",
			required: RoleManager,
			snap:     Snapshot{State: StateUninitialized},
			location: "/manager",
			want:     Decision{Kind: ShowLoading},
		},
		{
			name:     "loading session shows loading",
			required: RoleClient,
			snap:     Snapshot{State: StateLoading},
			location: "/client",
			want:     Decision{Kind: ShowLoading},
		},
		{
			name:     "anonymous redirects to login preserving location",
			required: RoleManager,
			snap:     Snapshot{State: StateReady},
			location: "/manager/storage",
			want:     Decision{Kind: RedirectLogin, Location: "/manager/storage"},
		},
		{
			name:     "token without resolved user shows loading",
			required: RoleManager,
			snap:     Snapshot{State: StateReady, Token: "tok"},
			location: "/manager",
			want:     Decision{Kind: ShowLoading},
		},
		{
			name:     "client on manager route goes to client home",
			required: RoleManager,
			snap:     Snapshot{State: StateReady, Token: "tok", User: clientUser},
			location: "/manager",
			want:     Decision{Kind: RedirectHome, Location: "/client"},
		},
		{
			name:     "manager on client route goes to manager home",
			required: RoleClient,
			snap:     Snapshot{State: StateReady, Token: "tok", User: manager},
			location: "/client",
			want:     Decision{Kind: RedirectHome, Location: "/manager"},
		},
		{
			name:     "matching role renders",
			required: RoleManager,
			snap:     Snapshot{State: StateReady, Token: "tok", User: manager},
			location: "/manager",
			want:     Decision{Kind: Render},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.required, tt.snap, tt.location)
			if got != tt.want {
				t.Fatalf("Decide() = %+v, want %+v", got, tt.want)
			}
			// Pure function: a second evaluation of the same snapshot must
			// agree with the first.
			if again := Decide(tt.required, tt.snap, tt.location); again != got {
				t.Fatalf("Decide() not idempotent: %+v then %+v", got, again)
			}
		})
	}
}

func TestSnapshotAuthenticated(t *testing.T) {
	user := &User{ID: "u-1", Role: RoleClient}

	if (Snapshot{State: StateReady, User: user, Token: "tok"}).Authenticated() != true {
		t.Fatalf("ready with user and token should be authenticated")
	}
	if (Snapshot{State: StateReady}).Authenticated() {
		t.Fatalf("anonymous snapshot reported authenticated")
	}
	if (Snapshot{State: StateLoading, User: user, Token: "tok"}).Authenticated() {
		t.Fatalf("loading snapshot reported authenticated")
	}
}
