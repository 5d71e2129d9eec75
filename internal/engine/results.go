package engine

import (
	"encoding/json"
	"os"
)

// PayloadValues builds the property-set values mapping consumed by the
// controller: a "snmp_auth" list of per-device entries.
func PayloadValues(results []SystemResult) map[string]any {
	items := make([]map[string]any, 0, len(results))
	for _, r := range results {
		entry := map[string]any{
			"hostname":  r.Hostname,
			"system_id": r.SystemID,
			"snmp-auth": map[string]any{
				"authentication_key": r.AuthenticationKey,
				"privacy_key":        r.PrivacyKey,
			},
		}
		if r.EngineID != "" {
			entry["engine_id"] = r.EngineID
		}
		items = append(items, entry)
	}
	return map[string]any{"snmp_auth": items}
}

// WriteResults saves the payload as indented JSON, the same shape that gets
// uploaded to the controller.
func WriteResults(path string, results []SystemResult) error {
	data, err := json.MarshalIndent(PayloadValues(results), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0600)
}
