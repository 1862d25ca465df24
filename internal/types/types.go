// Package types holds request/response shapes shared by the API layer.
package types

import (
	"encoding/json"
	"strings"
)

// StringList accepts either a JSON array of strings or a single
// comma-separated string, and normalizes both into an ordered list of
// trimmed, non-empty values. Clients historically sent ingredients and
// tags in both shapes; the coercion happens once, here, at the
// boundary.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var asArray []string
	if err := json.Unmarshal(data, &asArray); err == nil {
		*l = normalize(asArray)
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err != nil {
		return err
	}
	*l = normalize([]string{asString})
	return nil
}

func normalize(values []string) StringList {
	var out StringList
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
