package actions

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// FlexibleString is an ID that older documents and clients send as a number.
// It always holds the decimal text of the number as written.
type FlexibleString string

func (id *FlexibleString) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("id: %w", err)
		}
		*id = FlexibleString(strings.TrimSpace(s))
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("id: %w", err)
		}
		*id = FlexibleString(n.String())
	default:
		return fmt.Errorf("id: want string or number, got %s", raw)
	}
	return nil
}

func (id FlexibleString) String() string { return string(id) }

func stringSet(ids []FlexibleString) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[string(id)] = struct{}{}
	}
	return out
}
