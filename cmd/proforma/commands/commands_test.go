package commands

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func decodeEnvelope(t *testing.T, out string) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	return env
}

func TestMetrics_Envelope(t *testing.T) {
	out, err := run(t, "", "metrics")
	if err != nil {
		t.Fatalf("metrics failed: %v", err)
	}

	env := decodeEnvelope(t, out)
	if _, err := uuid.Parse(env["runId"].(string)); err != nil {
		t.Errorf("runId is not a UUID: %v", env["runId"])
	}
	if env["command"] != "metrics" || env["projectId"] != "example-infill-home" {
		t.Errorf("unexpected envelope header: %v / %v", env["command"], env["projectId"])
	}
	result := env["result"].(map[string]interface{})
	if got := result["netProfit"].(float64); math.Abs(got-53657.364) > 1e-6 {
		t.Errorf("expected net profit 53657.364, got %f", got)
	}
}

func TestQuery(t *testing.T) {
	out, err := run(t, "", "metrics", "--query", "$.result.totalCosts")
	if err != nil {
		t.Fatalf("metrics failed: %v", err)
	}
	var got float64
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("query output is not a number: %q", out)
	}
	if got != 604618 {
		t.Errorf("expected 604618, got %f", got)
	}

	if _, err := run(t, "", "metrics", "--query", "$.result.["); err == nil {
		t.Errorf("expected an error for a malformed query")
	}
}

func TestExampleRoundTripsThroughStdin(t *testing.T) {
	doc, err := run(t, "", "example")
	if err != nil {
		t.Fatalf("example failed: %v", err)
	}

	out, err := run(t, doc, "--file", "-", "metrics", "--query", "$.result.grossProfit")
	if err != nil {
		t.Fatalf("metrics from stdin failed: %v", err)
	}
	if strings.TrimSpace(out) != "92882" {
		t.Errorf("expected gross profit 92882, got %q", out)
	}
}

func TestValidate_Strict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.hjson")
	draft := "{\n  # land is negative\n  name: Bad lot\n  usesOfFunds: { landAcquisition: -5 }\n}\n"
	if err := os.WriteFile(path, []byte(draft), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "", "--file", path, "validate")
	if err != nil {
		t.Fatalf("non-strict validate should succeed: %v", err)
	}
	result := decodeEnvelope(t, out)["result"].(map[string]interface{})
	if result["valid"] != false {
		t.Errorf("expected valid=false, got %v", result["valid"])
	}

	if _, err := run(t, "", "--file", path, "validate", "--strict"); err == nil {
		t.Errorf("expected strict validate to fail")
	}
}

func TestConfigFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	if err := os.WriteFile(path, []byte("draw_factor: 1.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigEnv, path)

	out, err := run(t, "", "metrics", "-q", "$.result.totalInterest")
	if err != nil {
		t.Fatalf("metrics failed: %v", err)
	}
	var got float64
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("query output is not a number: %q", out)
	}
	if want := 453464 * 0.085 * 1.5; math.Abs(got-want) > 1e-6 {
		t.Errorf("expected interest %f with full draw, got %f", want, got)
	}
}

func TestBadInputs(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")
	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"--file", missing, "metrics"}},
		{"missing config", []string{"--config", missing, "metrics"}},
		{"invalid loan flags", []string{"amortize", "--principal", "1000", "--term", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, "", tt.args...); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestAmortize_AdHoc(t *testing.T) {
	out, err := run(t, "", "amortize", "--principal", "12000", "--rate", "0", "--term", "12", "-q", "$.result[0].rows[11].balance")
	if err != nil {
		t.Fatalf("amortize failed: %v", err)
	}
	if strings.TrimSpace(out) != "0" {
		t.Errorf("expected final balance 0, got %q", out)
	}
}

func TestWaterfall_NetProfitOverride(t *testing.T) {
	out, err := run(t, "", "waterfall", "--net-profit", "-200000", "-q", "$.result.totalAvailable")
	if err != nil {
		t.Fatalf("waterfall failed: %v", err)
	}
	if strings.TrimSpace(out) != "0" {
		t.Errorf("expected nothing available, got %q", out)
	}
}

func TestSensitivity_Flags(t *testing.T) {
	out, err := run(t, "", "sensitivity", "--sale", "0.1,-0.1", "--cost", "0", "--timeline", "2", "--compact")
	if err != nil {
		t.Fatalf("sensitivity failed: %v", err)
	}
	if strings.Count(strings.TrimSpace(out), "\n") != 0 {
		t.Errorf("--compact should print one line")
	}
	result := decodeEnvelope(t, out)["result"].(map[string]interface{})
	if n := len(result["twoVarMatrix"].([]interface{})); n != 2 {
		t.Errorf("expected 2 matrix cells, got %d", n)
	}
	if n := len(result["timelineSensitivity"].([]interface{})); n != 1 {
		t.Errorf("expected 1 timeline row, got %d", n)
	}
}

func TestReport_HTMLToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memo.html")
	out, err := run(t, "", "report", "--html", "--cash-flows", "-o", path)
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if out != "" {
		t.Errorf("expected nothing on stdout, got %q", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if n := strings.Count(string(data), "<table>"); n != 10 {
		t.Errorf("expected 10 tables, got %d", n)
	}
}

func TestReport_MarkdownToStdout(t *testing.T) {
	out, err := run(t, "", "report", "--title", "Lot 7")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if !strings.HasPrefix(out, "# Lot 7\n") {
		t.Errorf("unexpected heading: %q", strings.SplitN(out, "\n", 2)[0])
	}
}
