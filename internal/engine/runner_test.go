package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/tonhe/fabkey/internal/apstra"
)

const engineIDOutput = `{
  "snmp-v3-information": [{
    "snmp-v3-general-information": [{
      "snmp-v3-engine-information": [{
        "engine-id": [{"data": " 80 00 0a 4c 04 61 64 6d 69 6e "}]
      }]
    }]
  }]
}`

const configOutput = `{
  "configuration": {"snmp": {"v3": {"usm": {"local": {"user": {
    "admin": {
      "authentication-sha": {"key": "$9$cfg-auth"},
      "privacy-aes128": {"key": "$9$cfg-priv"}
    }
  }}}}}}}`

// fakeAPI maps system_id -> canned output or error.
type fakeAPI struct {
	mu       sync.Mutex
	outputs  map[string]string
	errs     map[string]error
	calls    []string
	commands []string
}

func (f *fakeAPI) RunCommand(ctx context.Context, systemID, commandText string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, systemID)
	f.commands = append(f.commands, commandText)
	f.mu.Unlock()
	if err, ok := f.errs[systemID]; ok {
		return "", err
	}
	return f.outputs[systemID], nil
}

func systems(n int) []apstra.System {
	out := make([]apstra.System, n)
	for i := range out {
		out[i] = apstra.System{
			Hostname: fmt.Sprintf("leaf%d", i+1),
			SystemID: fmt.Sprintf("sys-%d", i+1),
		}
	}
	return out
}

func TestRunnerDeriveMode(t *testing.T) {
	api := &fakeAPI{outputs: map[string]string{"sys-1": engineIDOutput}}
	r, err := NewRunner(api, Params{
		Blueprint:  "dc1",
		Systems:    systems(1),
		Command:    "show snmp v3",
		Mode:       ModeDerive,
		Passphrase: "Sup3rSecret!",
		Salt:       'j',
		Rand:       "a",
	})
	if err != nil {
		t.Fatalf("NewRunner() error: %v", err)
	}
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	snap := r.Snapshot()
	if snap.State != RunCompleted {
		t.Errorf("state = %v, want completed", snap.State)
	}
	if len(snap.Results) != 1 || len(snap.Failures) != 0 {
		t.Fatalf("results=%d failures=%v", len(snap.Results), snap.Failures)
	}

	got := snap.Results[0]
	if got.EngineID != "80 00 0a 4c 04 61 64 6d 69 6e" {
		t.Errorf("engine id = %q", got.EngineID)
	}
	wantAuth := "$9$jaimfQFn9tu5Tz6/9puX7Nd24Hqm5z3PfSrvMN-P5T3nCIEceK8IR24ZUHkO1IEre8LNw24N-b2oaUD9At0ORcylK8X69lKvMXxjHkqTztuOREyP51R"
	if got.AuthenticationKey != wantAuth {
		t.Errorf("auth key = %q, want %q", got.AuthenticationKey, wantAuth)
	}
	if !strings.HasPrefix(got.PrivacyKey, "$9$ja") {
		t.Errorf("priv key = %q, want $9$ja prefix", got.PrivacyKey)
	}
}

func TestRunnerExtractMode(t *testing.T) {
	api := &fakeAPI{outputs: map[string]string{"sys-1": configOutput}}
	r, err := NewRunner(api, Params{
		Blueprint: "dc1",
		Systems:   systems(1),
		Command:   "show configuration snmp",
		Mode:      ModeExtract,
	})
	if err != nil {
		t.Fatalf("NewRunner() error: %v", err)
	}
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	snap := r.Snapshot()
	if len(snap.Results) != 1 {
		t.Fatalf("results = %+v", snap.Results)
	}
	got := snap.Results[0]
	if got.User != "admin" || got.AuthenticationKey != "$9$cfg-auth" || got.PrivacyKey != "$9$cfg-priv" {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestRunnerDefaultsCommandFromMode(t *testing.T) {
	cases := []struct {
		mode Mode
		want string
	}{
		{ModeDerive, "show snmp v3"},
		{ModeExtract, "show configuration snmp"},
	}
	for _, tc := range cases {
		api := &fakeAPI{outputs: map[string]string{"sys-1": engineIDOutput}}
		r, err := NewRunner(api, Params{
			Blueprint:  "dc1",
			Systems:    systems(1),
			Mode:       tc.mode,
			Passphrase: "pw",
		})
		if err != nil {
			t.Fatalf("NewRunner(%s) error: %v", tc.mode, err)
		}
		if err := r.Run(context.Background()); err != nil {
			t.Fatalf("Run(%s) error: %v", tc.mode, err)
		}
		if len(api.commands) != 1 || api.commands[0] != tc.want {
			t.Errorf("%s mode submitted commands %q, want [%q]", tc.mode, api.commands, tc.want)
		}
	}
}

func TestRunnerCollectsFailures(t *testing.T) {
	api := &fakeAPI{
		outputs: map[string]string{
			"sys-1": engineIDOutput,
			"sys-2": `{"message": "command failed"}`,
		},
		errs: map[string]error{"sys-3": apstra.ErrPollTimeout},
	}
	r, err := NewRunner(api, Params{
		Blueprint:  "dc1",
		Systems:    systems(3),
		Command:    "show snmp v3",
		Mode:       ModeDerive,
		Passphrase: "pw",
	})
	if err != nil {
		t.Fatalf("NewRunner() error: %v", err)
	}
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	snap := r.Snapshot()
	if len(snap.Results) != 1 {
		t.Errorf("results = %d, want 1", len(snap.Results))
	}
	if len(snap.Failures) != 2 {
		t.Fatalf("failures = %+v, want 2", snap.Failures)
	}
	if snap.Done != 3 {
		t.Errorf("done = %d, want 3", snap.Done)
	}

	hosts := []string{snap.Failures[0].Hostname, snap.Failures[1].Hostname}
	sort.Strings(hosts)
	if hosts[0] != "leaf2" || hosts[1] != "leaf3" {
		t.Errorf("failed hosts = %v", hosts)
	}
}

func TestRunnerMissingSystemID(t *testing.T) {
	api := &fakeAPI{outputs: map[string]string{}}
	r, err := NewRunner(api, Params{
		Blueprint: "dc1",
		Systems:   []apstra.System{{Hostname: "orphan"}},
		Mode:      ModeExtract,
	})
	if err != nil {
		t.Fatalf("NewRunner() error: %v", err)
	}
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	snap := r.Snapshot()
	if len(api.calls) != 0 {
		t.Error("no command should run for a system without system_id")
	}
	if len(snap.Failures) != 1 || snap.Failures[0].Hostname != "orphan" {
		t.Errorf("failures = %+v", snap.Failures)
	}
}

func TestRunnerCancelledReturnsError(t *testing.T) {
	api := &fakeAPI{outputs: map[string]string{"sys-1": engineIDOutput}}
	r, err := NewRunner(api, Params{
		Blueprint: "dc1",
		Systems:   systems(3),
		Mode:      ModeExtract,
	})
	if err != nil {
		t.Fatalf("NewRunner() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() with cancelled ctx = %v, want context.Canceled", err)
	}
	if snap := r.Snapshot(); snap.State != RunCancelled {
		t.Errorf("state = %v, want cancelled", snap.State)
	}
}

func TestRunnerRejectsEmptyPassphrase(t *testing.T) {
	_, err := NewRunner(&fakeAPI{}, Params{Mode: ModeDerive})
	if !errors.Is(err, ErrEmptyPassphrase) {
		t.Errorf("want ErrEmptyPassphrase, got %v", err)
	}
}

func TestRunnerSubscribe(t *testing.T) {
	api := &fakeAPI{outputs: map[string]string{"sys-1": configOutput}}
	r, err := NewRunner(api, Params{
		Blueprint: "dc1",
		Systems:   systems(1),
		Mode:      ModeExtract,
	})
	if err != nil {
		t.Fatalf("NewRunner() error: %v", err)
	}

	events := r.Subscribe()
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	select {
	case ev := <-events:
		if ev.Blueprint != "dc1" {
			t.Errorf("event blueprint = %q", ev.Blueprint)
		}
	default:
		t.Error("expected at least one event after the run")
	}
}

func TestPayloadValuesAndWrite(t *testing.T) {
	results := []SystemResult{
		{
			Hostname:          "leaf1",
			SystemID:          "sys-1",
			EngineID:          "80 00 0a 4c 04 61 64 6d 69 6e",
			AuthenticationKey: "$9$auth",
			PrivacyKey:        "$9$priv",
		},
	}

	values := PayloadValues(results)
	items, ok := values["snmp_auth"].([]map[string]any)
	if !ok || len(items) != 1 {
		t.Fatalf("payload = %+v", values)
	}
	if items[0]["engine_id"] != "80 00 0a 4c 04 61 64 6d 69 6e" {
		t.Errorf("entry = %+v", items[0])
	}

	path := filepath.Join(t.TempDir(), "out.json")
	if err := WriteResults(path, results); err != nil {
		t.Fatalf("WriteResults() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading results: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("results file is not valid JSON: %v", err)
	}
	if _, ok := decoded["snmp_auth"]; !ok {
		t.Errorf("results file missing snmp_auth: %v", decoded)
	}
}

func TestRingKeepsNewest(t *testing.T) {
	r := NewRing[int](3)
	for i := 1; i <= 5; i++ {
		r.Push(i)
	}
	got := r.All()
	if len(got) != 3 || got[0] != 3 || got[2] != 5 {
		t.Errorf("All() = %v, want [3 4 5]", got)
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
}
