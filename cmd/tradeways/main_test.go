package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rhartert/tradeways/output"
	"github.com/rhartert/tradeways/sim"
)

const triangle = `HUBS 3
A 0 0 0 overnight
B 5 0 0 -
C 10 0 0 overnight
EDGES 3
ab A B road 10 10
bc B C road 10 10
ac A C river 25 25
`

// writeNetwork writes the triangle network to a temporary directory and
// returns its path.
func writeNetwork(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "net.txt")
	if err := os.WriteFile(path, []byte(triangle), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with args and returns its standard output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if want := "tradeways version " + version + "\n"; out != want {
		t.Errorf("version = %q, want %q", out, want)
	}
}

func TestRoutesCmd(t *testing.T) {
	net := writeNetwork(t)
	geo := filepath.Join(t.TempDir(), "routes.json")

	out, err := execute(t, "routes", "--network", net, "--from", "A", "--to", "C", "--json", "--geojson", geo)
	if err != nil {
		t.Fatal(err)
	}
	var got output.RouteSetSummary
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid output %q: %s", out, err)
	}
	want := [][]string{{"ab", "bc"}, {"ac"}}
	gotEdges := [][]string{}
	for _, r := range got.Routes {
		gotEdges = append(gotEdges, r.Edges)
	}
	if diff := cmp.Diff(want, gotEdges); diff != "" {
		t.Errorf("routes: mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(geo); err != nil {
		t.Errorf("GeoJSON file not written: %s", err)
	}
}

func TestRoutesCmd_missingHubs(t *testing.T) {
	if _, err := execute(t, "routes", "--network", writeNetwork(t)); err == nil {
		t.Errorf("routes without --from and --to: want error")
	}
}

func TestSimulateCmd(t *testing.T) {
	net := writeNetwork(t)
	dir := t.TempDir()
	report := filepath.Join(dir, "report.json")
	db := filepath.Join(dir, "runs.db")

	out, err := execute(t, "simulate", "--network", net, "--from", "A", "--to", "C", "--route", "0", "--output", report, "--sqlite", db)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "route_complete after 1 days") {
		t.Errorf("output %q does not report completion", out)
	}

	data, err := os.ReadFile(report)
	if err != nil {
		t.Fatal(err)
	}
	var got output.Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"ab", "bc"}, got.Result.Edges); diff != "" {
		t.Errorf("edges: mismatch (-want +got):\n%s", diff)
	}
	if got.Result.Log[0].Hub != "C" {
		t.Errorf("last hub = %q, want C", got.Result.Log[0].Hub)
	}

	out, err = execute(t, "runs", "--sqlite", db, "--json")
	if err != nil {
		t.Fatal(err)
	}
	var runs []output.Run
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].State != sim.RouteComplete.String() {
		t.Errorf("runs = %+v, want one completed run", runs)
	}
}

func TestSimulateCmd_stalled(t *testing.T) {
	net := writeNetwork(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := `simulation:
  break_simulation_after: 3
  steps:
    - policy: speed
      condition:
        types: road
`
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "simulate", "--config", cfgPath, "--network", net, "--from", "A", "--to", "C", "--route", "1")
	if err == nil {
		t.Fatalf("simulate on an uncovered river: want error")
	}
	if !strings.Contains(out, "aborted") {
		t.Errorf("output %q does not report the abort", out)
	}
}

func TestValidateCmd(t *testing.T) {
	out, err := execute(t, "validate", "--network", writeNetwork(t))
	if err != nil {
		t.Fatal(err)
	}
	want := "network: 3 hubs, 3 edges\nconfiguration OK\n"
	if out != want {
		t.Errorf("validate = %q, want %q", out, want)
	}
}

func TestExportCmd(t *testing.T) {
	net := writeNetwork(t)

	out, err := execute(t, "export", "--network", net, "--format", "text")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "HUBS 3\n") {
		t.Errorf("export text = %q, want HUBS section first", out)
	}

	out, err = execute(t, "export", "--network", net)
	if err != nil {
		t.Fatal(err)
	}
	var fc map[string]any
	if err := json.Unmarshal([]byte(out), &fc); err != nil {
		t.Fatal(err)
	}
	if n := len(fc["features"].([]any)); n != 6 {
		t.Errorf("export geojson: %d features, want 6", n)
	}

	if _, err := execute(t, "export", "--network", net, "--format", "csv"); err == nil {
		t.Errorf("export csv: want error")
	}
}

func TestValidateCmd_envFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("TRADEWAYS_NETWORK="+writeNetwork(t)+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, ok := os.LookupEnv("TRADEWAYS_NETWORK"); ok {
		t.Skip("TRADEWAYS_NETWORK already set")
	}
	t.Cleanup(func() { os.Unsetenv("TRADEWAYS_NETWORK") })

	out, err := execute(t, "validate", "--env-file", envFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "network: 3 hubs") {
		t.Errorf("validate = %q, want the network of the env file", out)
	}
}
