package engine

import "time"

// Mode selects how a run turns command output into key material.
type Mode string

const (
	// ModeExtract reads already-configured $9$ keys out of the device
	// configuration ("show configuration snmp").
	ModeExtract Mode = "extract"
	// ModeDerive reads the device's engine-id ("show snmp v3") and derives
	// fresh keys from an operator passphrase.
	ModeDerive Mode = "derive"
)

// DefaultCommand returns the show command a mode submits when no explicit
// command is configured.
func DefaultCommand(mode Mode) string {
	if mode == ModeDerive {
		return "show snmp v3"
	}
	return "show configuration snmp"
}

// RunState is the lifecycle state of a batch run.
type RunState int

const (
	RunPending RunState = iota
	RunInProgress
	RunCompleted
	RunCancelled
)

func (s RunState) String() string {
	switch s {
	case RunPending:
		return "pending"
	case RunInProgress:
		return "running"
	case RunCompleted:
		return "completed"
	case RunCancelled:
		return "cancelled"
	}
	return "unknown"
}

// SystemResult is the per-device outcome of a successful run step.
type SystemResult struct {
	Hostname          string
	SystemID          string
	EngineID          string // empty in extract mode
	User              string // populated in extract mode
	AuthenticationKey string // $9$ encoded
	PrivacyKey        string // $9$ encoded
}

// Failure records why a device was skipped. Failures never abort the batch.
type Failure struct {
	Hostname string
	Reason   string
}

// Snapshot is a point-in-time copy of a run's progress, safe to render from
// any goroutine.
type Snapshot struct {
	Blueprint  string
	State      RunState
	Total      int
	Done       int
	Results    []SystemResult
	Failures   []Failure
	Log        []string
	LastUpdate time.Time
}

// Event is published to subscribers whenever a run's state advances.
type Event struct {
	Blueprint string
	Snapshot  Snapshot
}
