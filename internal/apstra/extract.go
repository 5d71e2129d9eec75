package apstra

import (
	"encoding/json"
	"sort"
	"strings"
)

// Device command output arrives as JSON transcoded from XML, which wraps
// every nested element in a single-element array. The extractors walk those
// singleton wrappers with explicit checks so a malformed payload surfaces as
// an *ExtractionError instead of a panic.

// USMKeys is the key material read directly from a device's configuration,
// already in Junos $9$ form on the wire.
type USMKeys struct {
	User              string
	AuthenticationKey string
	PrivacyKey        string
}

// ExtractEngineID pulls the SNMPv3 engine-id out of "show snmp v3" command
// output and trims surrounding whitespace.
func ExtractEngineID(output string) (string, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(output), &doc); err != nil {
		return "", extractErr("(document)", "output is not valid JSON: %v", err)
	}

	node := any(doc)
	var err error
	for _, key := range []string{
		"snmp-v3-information",
		"snmp-v3-general-information",
		"snmp-v3-engine-information",
		"engine-id",
	} {
		node, err = firstElement(node, key)
		if err != nil {
			return "", err
		}
	}

	obj, ok := node.(map[string]any)
	if !ok {
		return "", extractErr("engine-id[0]", "expected object, got %T", node)
	}
	data, ok := obj["data"].(string)
	if !ok {
		return "", extractErr("engine-id[0].data", "missing or not a string")
	}
	return strings.TrimSpace(data), nil
}

// ExtractUSMKeys pulls per-user authentication and privacy keys out of
// "show configuration snmp" output. When the device carries several local
// users the lexicographically smallest user name is chosen, so the result
// is deterministic; the chosen name is reported in the bag.
func ExtractUSMKeys(output string) (USMKeys, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(output), &doc); err != nil {
		return USMKeys{}, extractErr("(document)", "output is not valid JSON: %v", err)
	}

	node := any(doc)
	var err error
	for _, key := range []string{"configuration", "snmp", "v3", "usm", "local", "user"} {
		node, err = childObject(node, key)
		if err != nil {
			return USMKeys{}, err
		}
	}

	users, ok := node.(map[string]any)
	if !ok || len(users) == 0 {
		return USMKeys{}, extractErr("...usm.local.user", "no local users present")
	}

	names := make([]string, 0, len(users))
	for name := range users {
		names = append(names, name)
	}
	sort.Strings(names)
	user := names[0]

	keys := USMKeys{User: user}
	keys.AuthenticationKey, err = userKey(users[user], user, "authentication-sha")
	if err != nil {
		return USMKeys{}, err
	}
	keys.PrivacyKey, err = userKey(users[user], user, "privacy-aes128")
	if err != nil {
		return USMKeys{}, err
	}
	return keys, nil
}

// userKey reads user.<proto>.key for one local user.
func userKey(node any, user, proto string) (string, error) {
	path := "...user." + user + "." + proto
	obj, ok := node.(map[string]any)
	if !ok {
		return "", extractErr(path, "user entry is not an object")
	}
	protoObj, ok := obj[proto].(map[string]any)
	if !ok {
		return "", extractErr(path, "missing")
	}
	key, ok := protoObj["key"].(string)
	if !ok {
		return "", extractErr(path+".key", "missing or not a string")
	}
	return key, nil
}

// firstElement resolves parent[key][0], the singleton-array wrapping pattern.
func firstElement(node any, key string) (any, error) {
	obj, ok := node.(map[string]any)
	if !ok {
		return nil, extractErr(key, "parent is not an object (got %T)", node)
	}
	child, ok := obj[key]
	if !ok {
		return nil, extractErr(key, "missing")
	}
	list, ok := child.([]any)
	if !ok {
		return nil, extractErr(key, "expected array, got %T", child)
	}
	if len(list) == 0 {
		return nil, extractErr(key+"[0]", "array is empty")
	}
	return list[0], nil
}

// childObject resolves parent[key], tolerating one level of singleton-array
// wrapping around the child.
func childObject(node any, key string) (any, error) {
	obj, ok := node.(map[string]any)
	if !ok {
		return nil, extractErr(key, "parent is not an object (got %T)", node)
	}
	child, ok := obj[key]
	if !ok {
		return nil, extractErr(key, "missing")
	}
	if list, isList := child.([]any); isList {
		if len(list) == 0 {
			return nil, extractErr(key+"[0]", "array is empty")
		}
		child = list[0]
	}
	return child, nil
}
