package types

import "testing"

func TestOwnershipOf(t *testing.T) {
	tests := []struct {
		status TicketStatus
		want   Ownership
	}{
		{TicketStatusOpen, OwnershipBot},
		{TicketStatusAssigned, OwnershipHuman},
		{TicketStatusInProgress, OwnershipHuman},
		{TicketStatusPendingAgent, OwnershipHuman},
		{TicketStatusResolved, OwnershipClosed},
		{TicketStatusClosed, OwnershipClosed},
	}
	for _, tt := range tests {
		if got := OwnershipOf(tt.status); got != tt.want {
			t.Fatalf("OwnershipOf(%q): want=%q got=%q", tt.status, tt.want, got)
		}
	}
}
