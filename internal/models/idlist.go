package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// IDList is an ordered list of user ids stored as comma-joined text
// ("3,7,9"). On the wire it is the same string; arrays are accepted on input.
type IDList []uint

// ParseIDList reads a comma-separated list. Tokens that are not positive
// integers are dropped.
func ParseIDList(s string) IDList {
	var ids IDList
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		n, err := strconv.ParseUint(tok, 10, 64)
		if err != nil || n == 0 {
			continue
		}
		ids = append(ids, uint(n))
	}
	return ids
}

func (l IDList) String() string {
	parts := make([]string, len(l))
	for i, id := range l {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}

func (IDList) GormDataType() string {
	return "text"
}

func (l IDList) Value() (driver.Value, error) {
	return l.String(), nil
}

func (l *IDList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
	case string:
		*l = ParseIDList(v)
	case []byte:
		*l = ParseIDList(string(v))
	default:
		return fmt.Errorf("models: cannot scan %T into IDList", src)
	}
	return nil
}

func (l IDList) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *IDList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = ParseIDList(s)
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("models: id list must be a string or an array: %w", err)
	}

	tokens := make([]string, 0, len(raw))
	for _, item := range raw {
		tokens = append(tokens, strings.Trim(string(item), `"`))
	}
	*l = ParseIDList(strings.Join(tokens, ","))
	return nil
}

// RefList is an ordered list of opaque references (picture URLs or keys)
// stored as comma-joined text. An empty list is stored and rendered as null.
type RefList []string

// ParseRefList splits on commas, trims each entry and drops empty ones.
func ParseRefList(s string) RefList {
	var refs RefList
	for _, tok := range strings.Split(s, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			refs = append(refs, tok)
		}
	}
	return refs
}

func (l RefList) String() string {
	return strings.Join(l, ",")
}

func (RefList) GormDataType() string {
	return "text"
}

func (l RefList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return l.String(), nil
}

func (l *RefList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
	case string:
		*l = ParseRefList(v)
	case []byte:
		*l = ParseRefList(string(v))
	default:
		return fmt.Errorf("models: cannot scan %T into RefList", src)
	}
	return nil
}

func (l RefList) MarshalJSON() ([]byte, error) {
	if len(l) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(l.String())
}

func (l *RefList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = ParseRefList(s)
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("models: reference list must be a string or an array: %w", err)
	}
	*l = ParseRefList(strings.Join(items, ","))
	return nil
}
