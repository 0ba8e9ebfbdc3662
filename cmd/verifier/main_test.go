package main

import (
	"bytes"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testInstance = `3 3 150 2
0 50 50 300 100 0.5
1 10 20 30 60 10 10 0.3
2 80 70 40 80 0 20 0.2
`

// Feasible over the whole horizon; the reported 100 seconds is far under the
// default 1800-second limit at score 2000.
const passingSolution = `Day 1
Route 1: 0 - 0
Route 2: 0 - 0
Day 2
Route 1: 0 - 1 ( 20 ) - 2 ( 40 ) - 0
Route 2: 0 - 0
Day 3
Route 1: 0 - 0
Route 2: 0 - 0
1500
120.5
80.25
1700.75
Intel(R) Core(TM) i7-9750H CPU @ 2.60GHz
100.00
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// pointStoreAt keeps run from touching data/verifier.db in the working tree.
func pointStoreAt(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "verifier.db")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SQLITE_PATH", dbPath)
	return dbPath
}

// captureStdout collects everything fn prints to stdout. Log output goes to
// stderr and stays out of the transcript, same as for the real binary.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	w.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("drain captured stdout: %v", err)
	}
	return buf.String()
}

func TestRunPassingSolution(t *testing.T) {
	pointStoreAt(t)
	dir := t.TempDir()
	inst := writeFile(t, dir, "S_abs3n2_1_L3.dat", testInstance)
	sol := writeFile(t, dir, "out_S_abs3n2_1_L3.txt", passingSolution)

	var code int
	out := captureStdout(t, func() {
		code = run([]string{"-score", "2000", inst, sol})
	})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0\noutput:\n%s", code, out)
	}
	if want := fmt.Sprintf("Verification of %s successful\n", sol); out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func TestRunFindsConventionalSolutionName(t *testing.T) {
	pointStoreAt(t)
	dir := t.TempDir()
	inst := writeFile(t, dir, "S_abs3n2_1_L3.dat", testInstance)
	sol := writeFile(t, dir, "out_S_abs3n2_1_L3.txt", passingSolution)
	want := fmt.Sprintf("Verification of %s successful\n", sol)

	t.Run("no argument", func(t *testing.T) {
		var code int
		out := captureStdout(t, func() {
			code = run([]string{"-score", "2000", inst})
		})
		if code != 0 {
			t.Fatalf("exit code = %d, want 0\noutput:\n%s", code, out)
		}
		if out != want {
			t.Fatalf("output = %q, want %q", out, want)
		}
	})

	t.Run("directory argument", func(t *testing.T) {
		var code int
		out := captureStdout(t, func() {
			code = run([]string{"-score", "2000", inst, dir})
		})
		if code != 0 {
			t.Fatalf("exit code = %d, want 0\noutput:\n%s", code, out)
		}
		if out != want {
			t.Fatalf("output = %q, want %q", out, want)
		}
	})
}

func TestRunTimeLimitFailure(t *testing.T) {
	pointStoreAt(t)
	dir := t.TempDir()
	inst := writeFile(t, dir, "inst.dat", testInstance)
	slow := strings.Replace(passingSolution, "100.00\n", "1612.42\n", 1)
	sol := writeFile(t, dir, "out_inst.txt", slow)

	var code int
	out := captureStdout(t, func() {
		code = run([]string{"-score", "2362", inst, sol})
	})
	if code != 2 {
		t.Fatalf("exit code = %d, want 2\noutput:\n%s", code, out)
	}
	want := "Time verification error: computation time of 1612.42 seconds exceeds time limit of 1524.13 seconds\n"
	if out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func TestRunMissingFiles(t *testing.T) {
	pointStoreAt(t)
	dir := t.TempDir()

	t.Run("instance", func(t *testing.T) {
		missing := filepath.Join(dir, "nope.dat")
		var code int
		out := captureStdout(t, func() {
			code = run([]string{missing})
		})
		if code != 2 {
			t.Fatalf("exit code = %d, want 2", code)
		}
		want := fmt.Sprintf("Failed to open instance file %s: no such file or directory\n", missing)
		if out != want {
			t.Fatalf("output = %q, want %q", out, want)
		}
	})

	t.Run("solution", func(t *testing.T) {
		inst := writeFile(t, dir, "inst.dat", testInstance)
		var code int
		out := captureStdout(t, func() {
			code = run([]string{inst})
		})
		if code != 2 {
			t.Fatalf("exit code = %d, want 2", code)
		}
		want := fmt.Sprintf("Failed to open solution file %s: no such file or directory\n",
			filepath.Join(dir, "out_inst.txt"))
		if out != want {
			t.Fatalf("output = %q, want %q", out, want)
		}
	})
}

func TestRunMalformedInstance(t *testing.T) {
	pointStoreAt(t)
	dir := t.TempDir()
	inst := writeFile(t, dir, "bad.dat", "1 2\n")
	writeFile(t, dir, "out_bad.txt", passingSolution)

	var code int
	out := captureStdout(t, func() {
		code = run([]string{inst})
	})
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	want := fmt.Sprintf("Failed to read instance file %s: %s:1: expected 4 to 6 header fields, got 2\n", inst, inst)
	if out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func TestRunMalformedSolution(t *testing.T) {
	pointStoreAt(t)
	dir := t.TempDir()
	inst := writeFile(t, dir, "inst.dat", testInstance)
	sol := writeFile(t, dir, "out_inst.txt", "Day 2\n")

	var code int
	out := captureStdout(t, func() {
		code = run([]string{"-score", "2000", inst, sol})
	})
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	want := fmt.Sprintf("Read error %s:1: expected 'Day 1', got 'Day 2'\n", sol)
	if out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

// An annotated file is checked candidate by candidate; annotations and
// verdicts interleave in file order, and every outcome lands in the run
// archive with its stream ordinal.
func TestRunAnnotatedStream(t *testing.T) {
	dbPath := pointStoreAt(t)
	dir := t.TempDir()
	inst := writeFile(t, dir, "inst.dat", testInstance)

	overfill := strings.Replace(passingSolution, "( 20 )", "( 60 )", 1)
	annotated := "# tuning A\n" + overfill + "# tuning B\n" + passingSolution + "# end of batch\n"
	sol := writeFile(t, dir, "out_inst.txt", annotated)

	var code int
	out := captureStdout(t, func() {
		code = run([]string{"-score", "2000", inst, sol})
	})
	if code != 2 {
		t.Fatalf("exit code = %d, want 2\noutput:\n%s", code, out)
	}

	want := strings.Join([]string{
		"# tuning A",
		"Day 2: Route 1: inventory level of customer 1 too high; got 70, expected <= 60",
		"# tuning B",
		fmt.Sprintf("Verification of %s successful", sol),
		"# end of batch",
		"",
	}, "\n")
	if out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer conn.Close()

	rows, err := conn.Query(`SELECT ordinal, verdict FROM verification_runs ORDER BY ordinal`)
	if err != nil {
		t.Fatalf("query archive: %v", err)
	}
	defer rows.Close()

	type archived struct {
		ordinal int
		verdict string
	}
	var got []archived
	for rows.Next() {
		var a archived
		if err := rows.Scan(&a.ordinal, &a.verdict); err != nil {
			t.Fatalf("scan: %v", err)
		}
		got = append(got, a)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows: %v", err)
	}

	wantRuns := []archived{{1, "Inventory"}, {2, "success"}}
	if len(got) != len(wantRuns) {
		t.Fatalf("archived runs = %+v, want %+v", got, wantRuns)
	}
	for i := range wantRuns {
		if got[i] != wantRuns[i] {
			t.Fatalf("archived run %d = %+v, want %+v", i, got[i], wantRuns[i])
		}
	}
}

func TestRunVerboseSummaries(t *testing.T) {
	pointStoreAt(t)
	dir := t.TempDir()
	inst := writeFile(t, dir, "inst.dat", testInstance)
	sol := writeFile(t, dir, "out_inst.txt", passingSolution)

	var code int
	out := captureStdout(t, func() {
		code = run([]string{"-verbose", "-score", "2000", inst, sol})
	})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0\noutput:\n%s", code, out)
	}
	for _, line := range []string{
		"Number of nodes: 3",
		"Number of days: 3",
		"Number of vehicles: 2",
		"Vehicle capacity: 150",
		"Base time limit: 1800",
		"Total transportation cost: 1500",
		"Used processor: Intel(R) Core(TM) i7-9750H CPU @ 2.60GHz",
		"Verification of " + sol + " successful",
	} {
		if !strings.Contains(out, line) {
			t.Fatalf("output missing %q:\n%s", line, out)
		}
	}
}

func TestRunUsageErrors(t *testing.T) {
	if code := run(nil); code != 1 {
		t.Fatalf("no args: exit code = %d, want 1", code)
	}
	if code := run([]string{"a", "b", "c"}); code != 1 {
		t.Fatalf("three args: exit code = %d, want 1", code)
	}
	if code := run([]string{"-nonsense"}); code != 1 {
		t.Fatalf("bad flag: exit code = %d, want 1", code)
	}
}

func TestResolveSolutionPath(t *testing.T) {
	dir := t.TempDir()
	instance := filepath.Join(dir, "S_abs5n5_4_L3.dat")

	if got, want := resolveSolutionPath(instance, ""), filepath.Join(dir, "out_S_abs5n5_4_L3.txt"); got != want {
		t.Fatalf("default = %q, want %q", got, want)
	}

	other := t.TempDir()
	if got, want := resolveSolutionPath(instance, other), filepath.Join(other, "out_S_abs5n5_4_L3.txt"); got != want {
		t.Fatalf("directory argument = %q, want %q", got, want)
	}

	if got := resolveSolutionPath(instance, "custom/solution.txt"); got != "custom/solution.txt" {
		t.Fatalf("explicit argument = %q, want custom/solution.txt", got)
	}
}

func TestOpenFailureUnwrapsPathError(t *testing.T) {
	_, err := os.Open(filepath.Join(t.TempDir(), "gone.txt"))
	if err == nil {
		t.Fatal("expected open error")
	}
	if got, want := openFailure("solution", "gone.txt", err),
		"Failed to open solution file gone.txt: no such file or directory"; got != want {
		t.Fatalf("openFailure = %q, want %q", got, want)
	}
}
