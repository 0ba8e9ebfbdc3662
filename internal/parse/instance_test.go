package parse

import (
	"errors"
	"strings"
	"testing"

	"irp-verifier/internal/domain"
)

const sampleInstance = `3 3 150 2
0 50 50 300 100 0.5
1 10 20 30 60 10 10 0.3
2 80 70 40 80 0 20 0.2
`

func TestParseInstance(t *testing.T) {
	inst, err := Instance("test.dat", strings.NewReader(sampleInstance))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inst.NumNodes() != 3 {
		t.Fatalf("NumNodes = %d, want 3", inst.NumNodes())
	}
	if inst.Horizon != 3 {
		t.Fatalf("Horizon = %d, want 3", inst.Horizon)
	}
	if len(inst.Vehicles) != 2 {
		t.Fatalf("vehicles = %d, want 2", len(inst.Vehicles))
	}
	if inst.Vehicles[1].Capacity != 150 || inst.Vehicles[1].Speed != 1 {
		t.Fatalf("vehicle 2 = %+v, want capacity 150 speed 1", inst.Vehicles[1])
	}
	if inst.BaseTimeLimit != domain.DefaultBaseTimeLimit {
		t.Fatalf("BaseTimeLimit = %v, want default %v", inst.BaseTimeLimit, domain.DefaultBaseTimeLimit)
	}
	if inst.MaxRouteDuration != 0 {
		t.Fatalf("MaxRouteDuration = %v, want 0", inst.MaxRouteDuration)
	}

	if inst.Depot.StartLevel != 300 || inst.Depot.DailyChange != 100 || inst.Depot.HoldingCost != 0.5 {
		t.Fatalf("depot = %+v", inst.Depot)
	}

	c1, ok := inst.CustomerByID(1)
	if !ok {
		t.Fatal("customer 1 missing")
	}
	// consumption 10 is stored as a negative daily change
	if c1.DailyChange != -10 {
		t.Fatalf("customer 1 DailyChange = %d, want -10", c1.DailyChange)
	}
	if c1.StartLevel != 30 || c1.MinLevel != 10 || c1.MaxLevel != 60 {
		t.Fatalf("customer 1 levels = %+v", c1)
	}

	// depot (50,50) to customer 1 (10,20) is a 40/30 right triangle
	if got := inst.Distance(0, 1); got != 50 {
		t.Fatalf("Distance(0,1) = %v, want 50", got)
	}
}

func TestParseInstanceOptionalHeaderFields(t *testing.T) {
	text := `2 1 100 1 900 8
0 0 0 50 10 0.1
1 3 4 30 60 10 10 0.3
`
	inst, err := Instance("test.dat", strings.NewReader(text))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inst.BaseTimeLimit != 900 {
		t.Fatalf("BaseTimeLimit = %v, want 900", inst.BaseTimeLimit)
	}
	if inst.MaxRouteDuration != 8 {
		t.Fatalf("MaxRouteDuration = %v, want 8", inst.MaxRouteDuration)
	}
}

func TestParseInstanceTrailingContentIgnored(t *testing.T) {
	if _, err := Instance("test.dat", strings.NewReader(sampleInstance+"anything after the nodes\n")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseInstanceRejects(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		wantMsg  string
		wantLine int
	}{
		{
			"empty input",
			"",
			"missing line; expected instance header", 1,
		},
		{
			"non-integral node count",
			"x 3 150 2\n",
			"expected (integral) number of nodes, got 'x'", 1,
		},
		{
			"short header",
			"3 3 150\n",
			"expected 4 to 6 header fields, got 3", 1,
		},
		{
			"zero nodes",
			"0 3 150 2\n",
			"number of nodes must be at least 1, got 0", 1,
		},
		{
			"missing depot",
			"3 3 150 2\n",
			"missing line; expected depot", 2,
		},
		{
			"short depot line",
			"3 3 150 2\n0 50 50 300 100\n",
			"expected at least 6 depot fields, got 5", 2,
		},
		{
			"bad depot coordinate",
			"3 3 150 2\n0 q 50 300 100 0.5\n",
			"expected depot x coordinate, got 'q'", 2,
		},
		{
			"missing customer",
			"3 3 150 2\n0 50 50 300 100 0.5\n1 10 20 30 60 10 10 0.3\n",
			"missing line; expected customer 2", 4,
		},
		{
			"gap in customer ids",
			"3 3 150 2\n0 50 50 300 100 0.5\n1 10 20 30 60 10 10 0.3\n5 80 70 40 80 0 20 0.2\n",
			"expected customer id 2, got 5", 4,
		},
		{
			"short customer line",
			"2 3 150 2\n0 50 50 300 100 0.5\n1 10 20 30 60 10\n",
			"expected at least 8 customer fields, got 6", 3,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Instance("test.dat", strings.NewReader(tc.text))
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var serr *domain.StructuralError
			if !errors.As(err, &serr) {
				t.Fatalf("error type = %T, want *domain.StructuralError", err)
			}
			if serr.Msg != tc.wantMsg {
				t.Fatalf("msg = %q, want %q", serr.Msg, tc.wantMsg)
			}
			if serr.Line != tc.wantLine {
				t.Fatalf("line = %d, want %d", serr.Line, tc.wantLine)
			}
			if serr.File != "test.dat" {
				t.Fatalf("file = %q, want test.dat", serr.File)
			}
		})
	}
}

func TestParseInstanceRejectsInvalidLevels(t *testing.T) {
	// start level above the maximum fails domain validation, reported
	// against the file without a line number
	text := `2 3 150 2
0 50 50 300 100 0.5
1 10 20 90 60 10 10 0.3
`
	_, err := Instance("test.dat", strings.NewReader(text))
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var serr *domain.StructuralError
	if !errors.As(err, &serr) {
		t.Fatalf("error type = %T, want *domain.StructuralError", err)
	}
	if serr.Line != 0 {
		t.Fatalf("line = %d, want 0", serr.Line)
	}
	want := "new instance: customer 1: start level 90 outside bounds [10, 60]"
	if serr.Msg != want {
		t.Fatalf("msg = %q, want %q", serr.Msg, want)
	}
}
