// Package row contains the monitored-object row model: how upstream API
// results become table rows and the order they are displayed in.
package row

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// States outside the regular range collapse to these sentinels.
const (
	// StateUnknown is used when the upstream reports no usable state.
	StateUnknown uint8 = 5
	// StateOutOfRange is used when the reported state does not fit a
	// small unsigned integer.
	StateOutOfRange uint8 = 6
)

// ObjectType is the monitoring backend's classification of a monitored
// entity.
type ObjectType string

// The two supported object types.
const (
	Hosts    ObjectType = "hosts"
	Services ObjectType = "services"
)

// ParseObjectType validates a user-supplied object type string.
func ParseObjectType(s string) (ObjectType, error) {
	switch ObjectType(s) {
	case Hosts, Services:
		return ObjectType(s), nil
	}
	return "", fmt.Errorf("invalid object type %q", s)
}

// Row is one line of the status table.
type Row struct {
	Host    string
	Service string
	Output  string
	State   uint8
}

// envelope is the top-level shape of a successful upstream response.
// Results stays raw so its type can be checked explicitly.
type envelope struct {
	Results json.RawMessage `json:"results"`
}

// objectAttrs is the per-result attribute set the table consumes. All
// fields stay raw: the upstream may omit them or use unexpected types,
// and each one has a defined default instead of failing the document.
type objectAttrs struct {
	Name            json.RawMessage `json:"name"`
	HostName        json.RawMessage `json:"host_name"`
	State           json.RawMessage `json:"state"`
	LastCheckResult struct {
		Output json.RawMessage `json:"output"`
	} `json:"last_check_result"`
}

type apiObject struct {
	Attrs objectAttrs `json:"attrs"`
}

// ParseEnvelope parses a 200 upstream body and checks its shape: the
// document must be a JSON object whose "results" field is an array.
// Anything else is an upstream contract violation, not a partial success.
func ParseEnvelope(body []byte) ([]json.RawMessage, error) {
	var doc envelope
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}
	// A raw message keeps JSON null as the literal "null", so the array
	// check must look at the text, not just attempt the unmarshal.
	trimmed := bytes.TrimLeft(doc.Results, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("results field is missing or not an array")
	}
	var results []json.RawMessage
	if err := json.Unmarshal(doc.Results, &results); err != nil {
		return nil, fmt.Errorf("results field is not an array: %w", err)
	}
	return results, nil
}

// FromResults builds one Row per result element. For hosts the host column
// is the object's own name; for services it is the owning host's name and
// the service column is the object's name. Malformed elements degrade to
// the field defaults rather than failing the table.
func FromResults(objType ObjectType, results []json.RawMessage) []Row {
	rows := make([]Row, 0, len(results))
	for _, result := range results {
		var obj apiObject
		// A non-object element leaves obj zeroed; every field then
		// takes its default.
		_ = json.Unmarshal(result, &obj)

		var host, service string
		if objType == Services {
			host = stringOr(obj.Attrs.HostName, "")
			service = stringOr(obj.Attrs.Name, "")
		} else {
			host = stringOr(obj.Attrs.Name, "")
		}
		rows = append(rows, Row{
			Host:    host,
			Service: service,
			Output:  stringOr(obj.Attrs.LastCheckResult.Output, ""),
			State:   stateOf(obj.Attrs.State),
		})
	}
	return rows
}

// stringOr decodes raw as a JSON string, or returns def when raw is
// absent or not a string.
func stringOr(raw json.RawMessage, def string) string {
	if raw == nil {
		return def
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return def
	}
	return s
}

// stateOf decodes the upstream severity. Absent, non-numeric, fractional
// or negative values mean the state is unknown; a non-negative integer too
// large for the severity scale clamps to the out-of-range sentinel.
func stateOf(raw json.RawMessage) uint8 {
	if raw == nil {
		return StateUnknown
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return StateUnknown
	}
	v, err := n.Int64()
	if err != nil || v < 0 {
		return StateUnknown
	}
	if v > 255 {
		return StateOutOfRange
	}
	return uint8(v)
}

// Compare orders rows for display: state descending (highest severity
// first), then host, service and output ascending in bytewise order.
func Compare(a, b Row) int {
	// state is reversed!
	if c := int(b.State) - int(a.State); c != 0 {
		return c
	}
	if c := strings.Compare(a.Host, b.Host); c != 0 {
		return c
	}
	if c := strings.Compare(a.Service, b.Service); c != 0 {
		return c
	}
	return strings.Compare(a.Output, b.Output)
}

// Sort sorts rows in display order. The sort is stable so equal rows keep
// their upstream order.
func Sort(rows []Row) {
	slices.SortStableFunc(rows, Compare)
}
