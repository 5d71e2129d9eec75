// Package engine orchestrates key-material runs: it fans a blueprint's
// switch systems out to a bounded worker pool, executes the configured
// command on each through the controller, extracts or derives SNMPv3 keys,
// and aggregates per-device results for upload.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tonhe/fabkey/internal/apstra"
	"github.com/tonhe/fabkey/internal/encrypt9"
	"github.com/tonhe/fabkey/internal/usm"
)

const defaultWorkers = 4

// CommandRunner executes one remote command and returns its raw output.
// *apstra.Client implements it; tests substitute fakes.
type CommandRunner interface {
	RunCommand(ctx context.Context, systemID, commandText string) (string, error)
}

// ErrEmptyPassphrase rejects derive-mode runs without a passphrase. Key
// derivation itself tolerates an empty passphrase, but handing every device
// a key derived from nothing is never what an operator wants.
var ErrEmptyPassphrase = errors.New("derive mode requires a passphrase")

// Params configures a single run over one blueprint.
type Params struct {
	Blueprint string
	Systems   []apstra.System
	Command   string
	Mode      Mode

	// Derive-mode inputs. Salt zero means a random salt per key; Rand is
	// only honored together with Salt.
	Passphrase string
	Salt       byte
	Rand       string

	// Workers bounds concurrent command executions. Zero means the default.
	Workers int
}

// Runner executes one run and publishes progress to subscribers. Create one
// per run; a Runner is not reusable.
type Runner struct {
	mu          sync.RWMutex
	api         CommandRunner
	params      Params
	state       RunState
	done        int
	results     []SystemResult
	failures    []Failure
	log         *Ring[string]
	subscribers []chan Event
	lastUpdate  time.Time
}

// NewRunner creates a Runner for the given controller client and parameters.
func NewRunner(api CommandRunner, params Params) (*Runner, error) {
	if params.Mode == ModeDerive && params.Passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	if params.Workers <= 0 {
		params.Workers = defaultWorkers
	}
	if params.Command == "" {
		params.Command = DefaultCommand(params.Mode)
	}
	return &Runner{
		api:    api,
		params: params,
		state:  RunPending,
		log:    NewRing[string](100),
	}, nil
}

// Run processes every system and blocks until all workers finish or ctx is
// cancelled. Per-system failures are recorded, not returned; the error is
// non-nil only for cancellation.
func (r *Runner) Run(ctx context.Context) error {
	r.setState(RunInProgress)

	jobs := make(chan apstra.System)
	var wg sync.WaitGroup
	for i := 0; i < r.params.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sys := range jobs {
				r.processSystem(ctx, sys)
			}
		}()
	}

feed:
	for _, sys := range r.params.Systems {
		select {
		case jobs <- sys:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		r.setState(RunCancelled)
		return err
	}
	r.setState(RunCompleted)
	return nil
}

// processSystem runs the command on one device and records its outcome.
func (r *Runner) processSystem(ctx context.Context, sys apstra.System) {
	host := sys.Hostname
	if host == "" {
		host = sys.Name
	}
	if sys.SystemID == "" {
		r.fail(host, "missing system_id")
		return
	}

	r.logf("%s: executing %q", host, r.params.Command)
	output, err := r.api.RunCommand(ctx, sys.SystemID, r.params.Command)
	if err != nil {
		r.fail(host, fmt.Sprintf("command execution: %v", err))
		return
	}

	result := SystemResult{Hostname: host, SystemID: sys.SystemID}
	switch r.params.Mode {
	case ModeExtract:
		keys, err := apstra.ExtractUSMKeys(output)
		if err != nil {
			r.fail(host, fmt.Sprintf("key extraction: %v", err))
			return
		}
		result.User = keys.User
		result.AuthenticationKey = keys.AuthenticationKey
		result.PrivacyKey = keys.PrivacyKey

	case ModeDerive:
		engineID, err := apstra.ExtractEngineID(output)
		if err != nil {
			r.fail(host, fmt.Sprintf("engine-id extraction: %v", err))
			return
		}
		result.EngineID = engineID

		keys, err := usm.DeriveSHA1(engineID, r.params.Passphrase)
		if err != nil {
			r.fail(host, fmt.Sprintf("key derivation: %v", err))
			return
		}
		result.AuthenticationKey, err = r.encode(keys.AuthHex())
		if err == nil {
			result.PrivacyKey, err = r.encode(keys.PrivHex())
		}
		if err != nil {
			r.fail(host, fmt.Sprintf("key encoding: %v", err))
			return
		}

	default:
		r.fail(host, fmt.Sprintf("unknown mode %q", r.params.Mode))
		return
	}

	r.succeed(result)
}

// encode applies the configured $9$ salt policy to one value.
func (r *Runner) encode(value string) (string, error) {
	switch {
	case r.params.Salt != 0 && r.params.Rand != "":
		return encrypt9.EncodeWith(value, r.params.Salt, r.params.Rand)
	case r.params.Salt != 0:
		return encrypt9.EncodeWithSalt(value, r.params.Salt)
	default:
		return encrypt9.Encode(value)
	}
}

func (r *Runner) succeed(result SystemResult) {
	r.mu.Lock()
	r.results = append(r.results, result)
	r.done++
	r.lastUpdate = time.Now()
	r.mu.Unlock()
	r.logf("%s: ok", result.Hostname)
	r.notify()
}

func (r *Runner) fail(host, reason string) {
	r.mu.Lock()
	r.failures = append(r.failures, Failure{Hostname: host, Reason: reason})
	r.done++
	r.lastUpdate = time.Now()
	r.mu.Unlock()
	r.logf("%s: %s", host, reason)
	r.notify()
}

func (r *Runner) setState(s RunState) {
	r.mu.Lock()
	r.state = s
	r.lastUpdate = time.Now()
	r.mu.Unlock()
	r.notify()
}

func (r *Runner) logf(format string, args ...any) {
	r.log.Push(fmt.Sprintf(format, args...))
}

// Snapshot returns a copy of the run's progress.
func (r *Runner) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap := Snapshot{
		Blueprint:  r.params.Blueprint,
		State:      r.state,
		Total:      len(r.params.Systems),
		Done:       r.done,
		Results:    append([]SystemResult(nil), r.results...),
		Failures:   append([]Failure(nil), r.failures...),
		Log:        r.log.All(),
		LastUpdate: r.lastUpdate,
	}
	return snap
}

// Subscribe returns a channel receiving an Event after every progress
// change. Slow subscribers miss intermediate events rather than blocking
// workers.
func (r *Runner) Subscribe() <-chan Event {
	ch := make(chan Event, 1)
	r.mu.Lock()
	r.subscribers = append(r.subscribers, ch)
	r.mu.Unlock()
	return ch
}

func (r *Runner) notify() {
	snap := r.Snapshot()
	r.mu.RLock()
	subs := r.subscribers
	r.mu.RUnlock()
	for _, ch := range subs {
		select {
		case ch <- Event{Blueprint: snap.Blueprint, Snapshot: snap}:
		default:
		}
	}
}
