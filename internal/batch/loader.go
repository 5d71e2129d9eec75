package batch

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tonhe/fabkey/internal/engine"
)

// LoadBatch reads a TOML batch file and applies defaults: the file's base
// name for a missing batch name, and mode-appropriate command text.
func LoadBatch(path string) (*Batch, error) {
	var b Batch
	if _, err := toml.DecodeFile(path, &b); err != nil {
		return nil, err
	}
	if b.Name == "" {
		b.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if b.Command == "" {
		b.Command = engine.DefaultCommand(engine.Mode(b.Mode))
	}
	if b.PropertySet == "" {
		b.PropertySet = b.Blueprint + "-snmp_auth"
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// SaveBatch writes a batch definition to a TOML file.
func SaveBatch(b *Batch, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(b)
}

// ListBatches returns the base names (without .toml) of all batch files in
// dir.
func ListBatches(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".toml") {
			names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
		}
	}
	return names, nil
}
