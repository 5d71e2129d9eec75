package apstra

import (
	"errors"
	"testing"
)

const engineIDOutput = `{
  "snmp-v3-information": [{
    "snmp-v3-general-information": [{
      "snmp-v3-engine-information": [{
        "engine-id": [{"data": "  80 00 0a 4c 04 61 64 6d 69 6e\n"}]
      }]
    }]
  }]
}`

const usmKeysOutput = `{
  "configuration": {
    "snmp": {
      "v3": {
        "usm": {
          "local": {
            "user": {
              "monitor": {
                "authentication-sha": {"key": "$9$mon-auth"},
                "privacy-aes128": {"key": "$9$mon-priv"}
              },
              "admin": {
                "authentication-sha": {"key": "$9$adm-auth"},
                "privacy-aes128": {"key": "$9$adm-priv"}
              }
            }
          }
        }
      }
    }
  }
}`

func TestExtractEngineID(t *testing.T) {
	id, err := ExtractEngineID(engineIDOutput)
	if err != nil {
		t.Fatalf("ExtractEngineID() error: %v", err)
	}
	if id != "80 00 0a 4c 04 61 64 6d 69 6e" {
		t.Errorf("ExtractEngineID() = %q", id)
	}
}

func TestExtractEngineIDMissingSegments(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"not json", "Error: command not recognized"},
		{"empty object", "{}"},
		{"empty wrapper array", `{"snmp-v3-information": []}`},
		{"wrapper not an array", `{"snmp-v3-information": {"x": 1}}`},
		{"missing inner path", `{"snmp-v3-information": [{"snmp-v3-general-information": [{}]}]}`},
		{"data wrong type", `{"snmp-v3-information": [{"snmp-v3-general-information": [{
			"snmp-v3-engine-information": [{"engine-id": [{"data": 42}]}]}]}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractEngineID(tc.payload)
			var xe *ExtractionError
			if !errors.As(err, &xe) {
				t.Fatalf("want *ExtractionError, got %v", err)
			}
			if xe.Path == "" || xe.Cause == "" {
				t.Errorf("extraction error missing context: %+v", xe)
			}
		})
	}
}

func TestExtractUSMKeysPicksSmallestUser(t *testing.T) {
	keys, err := ExtractUSMKeys(usmKeysOutput)
	if err != nil {
		t.Fatalf("ExtractUSMKeys() error: %v", err)
	}
	if keys.User != "admin" {
		t.Errorf("expected lexicographically smallest user 'admin', got %q", keys.User)
	}
	if keys.AuthenticationKey != "$9$adm-auth" || keys.PrivacyKey != "$9$adm-priv" {
		t.Errorf("wrong keys: %+v", keys)
	}
}

func TestExtractUSMKeysSingletonWrapped(t *testing.T) {
	// Some transcodings wrap the configuration levels in singleton arrays too.
	payload := `{"configuration": [{"snmp": [{"v3": [{"usm": [{"local": [{"user": {
		"ops": {"authentication-sha": {"key": "$9$a"}, "privacy-aes128": {"key": "$9$p"}}
	}}]}]}]}]}]}`
	keys, err := ExtractUSMKeys(payload)
	if err != nil {
		t.Fatalf("ExtractUSMKeys() error: %v", err)
	}
	if keys.User != "ops" || keys.AuthenticationKey != "$9$a" {
		t.Errorf("wrong keys: %+v", keys)
	}
}

func TestExtractUSMKeysFailures(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"no snmp config", `{"configuration": {"system": {}}}`},
		{"no users", `{"configuration": {"snmp": {"v3": {"usm": {"local": {"user": {}}}}}}}`},
		{"missing priv key", `{"configuration": {"snmp": {"v3": {"usm": {"local": {"user": {
			"admin": {"authentication-sha": {"key": "$9$x"}}
		}}}}}}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractUSMKeys(tc.payload)
			var xe *ExtractionError
			if !errors.As(err, &xe) {
				t.Fatalf("want *ExtractionError, got %v", err)
			}
		})
	}
}
