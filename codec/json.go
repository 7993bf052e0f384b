package codec

import (
	"bytes"
	"encoding/json"
)

// JSON is the standard-library JSON codec, kept as a portable fallback and
// as the reference the faster codec is tested against.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v, keeping numbers as json.Number.
func (JSON) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// Name returns "json".
func (JSON) Name() string { return "json" }
