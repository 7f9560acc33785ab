package entities

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Departure is one registered unit departure. Fields the service does not
// know about are kept in Extra and written back unchanged.
type Departure struct {
	ID          int64   `json:"id"`
	UnitNumber  string  `json:"unitNumber"`
	Destination string  `json:"destination"`
	Time        string  `json:"time"`
	Gate        string  `json:"gate"`
	Type        string  `json:"type"`
	Status      string  `json:"status"`
	Comment     *string `json:"comment"`

	Extra map[string]json.RawMessage `json:"-"`
}

// CommentText returns the comment or "" when absent.
func (d Departure) CommentText() string {
	if d.Comment == nil {
		return ""
	}
	return *d.Comment
}

// Field returns the string value of a sortable field by its JSON name.
func (d Departure) Field(name string) string {
	switch name {
	case "unitNumber":
		return d.UnitNumber
	case "destination":
		return d.Destination
	case "time":
		return d.Time
	case "gate":
		return d.Gate
	case "type":
		return d.Type
	case "status":
		return d.Status
	case "comment":
		return d.CommentText()
	}
	return ""
}

var knownFields = []string{"id", "unitNumber", "destination", "time", "gate", "type", "status", "comment"}

func isKnownField(key string) bool {
	for _, k := range knownFields {
		if k == key {
			return true
		}
	}
	return false
}

// MarshalJSON writes the known fields in a fixed order followed by any extra
// fields sorted by name.
func (d Departure) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	buf.WriteString(`"id":`)
	buf.WriteString(strconv.FormatInt(d.ID, 10))

	strFields := []struct {
		key   string
		value string
	}{
		{"unitNumber", d.UnitNumber},
		{"destination", d.Destination},
		{"time", d.Time},
		{"gate", d.Gate},
		{"type", d.Type},
		{"status", d.Status},
	}
	for _, f := range strFields {
		if err := writeMember(&buf, f.key, f.value); err != nil {
			return nil, err
		}
	}

	var comment any
	if d.Comment != nil {
		comment = *d.Comment
	}
	if err := writeMember(&buf, "comment", comment); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(d.Extra))
	for k := range d.Extra {
		if !isKnownField(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		raw := d.Extra[k]
		if len(raw) == 0 {
			raw = json.RawMessage("null")
		}
		if err := writeMember(&buf, k, raw); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, value any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	buf.WriteByte(',')
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

// UnmarshalJSON accepts integer or numeric-string ids and scalar values for
// the text fields. Unknown members are stored compacted in Extra.
func (d *Departure) UnmarshalJSON(data []byte) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	if members == nil {
		return errors.New("departure must be a JSON object")
	}

	out := Departure{}
	for key, raw := range members {
		var err error
		switch key {
		case "id":
			out.ID, err = parseID(raw)
		case "unitNumber":
			out.UnitNumber, err = scalarText(raw)
		case "destination":
			out.Destination, err = scalarText(raw)
		case "time":
			out.Time, err = scalarText(raw)
		case "gate":
			out.Gate, err = scalarText(raw)
		case "type":
			out.Type, err = scalarText(raw)
		case "status":
			out.Status, err = scalarText(raw)
		case "comment":
			if !isNull(raw) {
				var text string
				text, err = scalarText(raw)
				out.Comment = &text
			}
		default:
			var compacted bytes.Buffer
			if err = json.Compact(&compacted, raw); err == nil {
				if out.Extra == nil {
					out.Extra = make(map[string]json.RawMessage)
				}
				out.Extra[key] = json.RawMessage(compacted.Bytes())
			}
		}
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
	}

	*d = out
	return nil
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

func scalarText(raw json.RawMessage) (string, error) {
	trimmed := strings.TrimSpace(string(raw))
	switch {
	case trimmed == "null":
		return "", nil
	case strings.HasPrefix(trimmed, `"`):
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case strings.HasPrefix(trimmed, "{"), strings.HasPrefix(trimmed, "["):
		return "", errors.New("expected a text value")
	default:
		// numbers and booleans keep their literal text
		return trimmed, nil
	}
}

func parseID(raw json.RawMessage) (int64, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "null" {
		return 0, nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, nil
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("id %q is not an integer", s)
		}
		return id, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("id must be a number: %w", err)
	}
	if id, err := n.Int64(); err == nil {
		return id, nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("id %s is not an integer", n.String())
	}
	return int64(f), nil
}
