package domain

import "testing"

func TestRouteVolumeAndNet(t *testing.T) {
	route := Route{
		Vehicle: 1,
		Visits: []Visit{
			{Customer: 1, Quantity: 50},
			{Customer: 2, Quantity: -30},
			{Customer: 3, Quantity: 20},
		},
	}

	if got := route.Volume(); got != 70 {
		t.Fatalf("Volume = %d, want 70", got)
	}
	if got := route.Net(); got != 40 {
		t.Fatalf("Net = %d, want 40", got)
	}

	empty := Route{Vehicle: 2}
	if empty.Volume() != 0 || empty.Net() != 0 {
		t.Fatalf("empty route Volume/Net = %d/%d, want 0/0", empty.Volume(), empty.Net())
	}
}
