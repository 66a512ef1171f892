package pms

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// OneOrMany decodes a field the PMS sends either as a single object or as an
// array. It is flattened to a slice at decode time.
type OneOrMany[T any] []T

func (o *OneOrMany[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*o = nil
		return nil
	case b[0] == '[':
		var many []T
		if err := json.Unmarshal(b, &many); err != nil {
			return err
		}
		*o = many
		return nil
	default:
		var one T
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		*o = OneOrMany[T]{one}
		return nil
	}
}

// text accepts a JSON string or number (the PMS is not consistent about IDs and codes).
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = text(n.String())
	return nil
}

func (t text) String() string { return string(t) }

// upstreamError is the {ErrorCode, ErrorMessage} pair used in every PMS response shape.
type upstreamError struct {
	ErrorCode    text `json:"ErrorCode"`
	ErrorMessage text `json:"ErrorMessage"`
}

// UnmarshalJSON also accepts a bare scalar: a number is taken as the code,
// a string or true as the message. false decodes to the zero value.
func (e *upstreamError) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte("false")):
		*e = upstreamError{}
		return nil
	case bytes.Equal(b, []byte("true")):
		*e = upstreamError{ErrorMessage: "true"}
		return nil
	case b[0] == '"':
		var msg text
		if err := msg.UnmarshalJSON(b); err != nil {
			return err
		}
		*e = upstreamError{ErrorMessage: msg}
		return nil
	case b[0] != '{':
		var code text
		if err := code.UnmarshalJSON(b); err != nil {
			return err
		}
		*e = upstreamError{ErrorCode: code}
		return nil
	}
	type plain upstreamError
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*e = upstreamError(p)
	return nil
}

func (e upstreamError) empty() bool {
	return e.ErrorCode == "" && e.ErrorMessage == ""
}

func (e *upstreamError) rejected() bool {
	return e != nil && e.ErrorCode != "" && e.ErrorCode != "0"
}

func atoiFlexible(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f), true
	}
	return 0, false
}
