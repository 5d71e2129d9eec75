// Package batch defines reusable run definitions stored as TOML files, so a
// recurring key rotation can be replayed without re-entering its parameters.
package batch

import (
	"errors"
	"fmt"
)

// Batch describes one repeatable run against a blueprint.
type Batch struct {
	Name        string   `toml:"name"`
	Blueprint   string   `toml:"blueprint"` // blueprint label
	Mode        string   `toml:"mode"`      // "extract" or "derive"
	Command     string   `toml:"command"`
	PropertySet string   `toml:"property_set"`
	Systems     []string `toml:"systems"` // hostnames; empty = all switches
	Salt        string   `toml:"salt"`    // single $9$ alphabet char, empty = random
	Rand        string   `toml:"rand"`
	Workers     int      `toml:"workers"`
}

var (
	ErrNoBlueprint = errors.New("batch has no blueprint")
	ErrBadMode     = errors.New("batch mode must be \"extract\" or \"derive\"")
)

// Validate checks the fields a run cannot default.
func (b *Batch) Validate() error {
	if b.Blueprint == "" {
		return ErrNoBlueprint
	}
	if b.Mode != "extract" && b.Mode != "derive" {
		return fmt.Errorf("%w: got %q", ErrBadMode, b.Mode)
	}
	if len(b.Salt) > 1 {
		return fmt.Errorf("batch salt must be a single character, got %q", b.Salt)
	}
	return nil
}

// WantsSystem reports whether a hostname is part of this batch.
func (b *Batch) WantsSystem(hostname string) bool {
	if len(b.Systems) == 0 {
		return true
	}
	for _, s := range b.Systems {
		if s == hostname {
			return true
		}
	}
	return false
}
