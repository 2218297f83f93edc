package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Collection decodes the two response shapes the backend emits for
// collections: a bare JSON array, or an object wrapping the array in a
// "Data" field. Normalization happens here once so no caller ever sees the
// wrapped form.
func Collection(data []byte, out any) error {
	trim := bytes.TrimSpace(data)
	if len(trim) == 0 || bytes.Equal(trim, []byte("null")) {
		return nil
	}
	if trim[0] == '[' {
		return json.Unmarshal(trim, out)
	}
	var wrapper struct {
		Data json.RawMessage `json:"Data"`
	}
	if err := json.Unmarshal(trim, &wrapper); err != nil {
		return fmt.Errorf("decode collection: %w", err)
	}
	if len(bytes.TrimSpace(wrapper.Data)) == 0 || bytes.Equal(bytes.TrimSpace(wrapper.Data), []byte("null")) {
		return nil
	}
	return json.Unmarshal(wrapper.Data, out)
}

// FlexString decodes a JSON value that may arrive as a string, a number or
// null, normalizing all three to a string. Upstream identifiers switch
// between numeric and string encodings depending on the endpoint.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("flex string: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}
