package usm

import (
	"encoding/hex"
	"fmt"
)

// LocalEnginePrefix is the fixed header Junos places in front of locally
// administered engine-ids (enterprise 2636, text format).
const LocalEnginePrefix = "80000a4c04"

// ErrUnsupportedEngineType is returned for engine types other than "local".
var ErrUnsupportedEngineType = fmt.Errorf("unsupported engine type")

// LocalEngineID builds a locally administered engine-id from an identifier
// such as a username: the fixed prefix followed by the identifier's UTF-8
// bytes in hex.
func LocalEngineID(identifier string) string {
	return LocalEnginePrefix + hex.EncodeToString([]byte(identifier))
}

// EngineID builds an engine-id of the given type. Only "local" is supported.
func EngineID(value, engineType string) (string, error) {
	if engineType != "local" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedEngineType, engineType)
	}
	return LocalEngineID(value), nil
}
