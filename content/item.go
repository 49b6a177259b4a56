// Package content turns the content items of a chapter payload into display
// blocks: narrative text or illustrations with a URL and caption.
package content

import (
	"bytes"
	"encoding/json"
)

// Item is one unit of chapter payload as the API sends it. Data is either a
// JSON string or an object, so it is kept raw until classified.
type Item struct {
	Type     string          `json:"type,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
	ImageURL string          `json:"imageUrl,omitempty"`
	Caption  string          `json:"caption,omitempty"`
}

// DataString returns Data as a Go string when it holds a JSON string
func (i Item) DataString() (string, bool) {
	if len(i.Data) == 0 || i.Data[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(i.Data, &s); err != nil {
		return "", false
	}
	return s, true
}

// hasData reports whether Data carries a usable value: a non-empty string or
// any non-null non-string value.
func (i Item) hasData() bool {
	if s, ok := i.DataString(); ok {
		return s != ""
	}
	d := bytes.TrimSpace(i.Data)
	return len(d) > 0 && !bytes.Equal(d, []byte("null"))
}

// dataText is Data as display text. Non-string values are shown as their
// compact JSON text.
func (i Item) dataText() string {
	if s, ok := i.DataString(); ok {
		return s
	}
	if !i.hasData() {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, i.Data); err != nil {
		return string(i.Data)
	}
	return buf.String()
}
