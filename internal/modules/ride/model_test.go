// README: State machine transition table tests.
package ride

import "testing"

// TestCanTransition verifies the transition table without a database.
func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		// happy-path forward transitions
		{StatusRequested, StatusAccepted, true},
		{StatusAccepted, StatusPickedUp, true},
		{StatusPickedUp, StatusInTransit, true},
		{StatusInTransit, StatusCompleted, true},
		// cancels from every non-terminal state
		{StatusRequested, StatusCancelled, true},
		{StatusAccepted, StatusCancelled, true},
		{StatusPickedUp, StatusCancelled, true},
		{StatusInTransit, StatusCancelled, true},
		// invalid: terminal states have no outgoing transitions
		{StatusCompleted, StatusRequested, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusAccepted, false},
		{StatusCancelled, StatusCancelled, false},
		// invalid: skipping states
		{StatusRequested, StatusPickedUp, false},
		{StatusRequested, StatusInTransit, false},
		{StatusRequested, StatusCompleted, false},
		{StatusAccepted, StatusInTransit, false},
		{StatusAccepted, StatusCompleted, false},
		{StatusPickedUp, StatusCompleted, false},
		// invalid: backwards
		{StatusInTransit, StatusPickedUp, false},
		{StatusAccepted, StatusRequested, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, v := range []string{"requested", "accepted", "picked_up", "in_transit", "completed", "cancelled"} {
		if _, ok := ParseStatus(v); !ok {
			t.Errorf("ParseStatus(%q) not recognised", v)
		}
	}
	for _, v := range []string{"", "none", "driving", "REQUESTED", "done"} {
		if _, ok := ParseStatus(v); ok {
			t.Errorf("ParseStatus(%q) unexpectedly recognised", v)
		}
	}
}
