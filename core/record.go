package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Record is an untyped remote record. Only the handful of keys needed for
// linking and shaping are ever inspected.
type Record map[string]any

func (r Record) ID() (int64, bool) {
	return r.Int("id")
}

func (r Record) Has(key string) bool {
	if r == nil {
		return false
	}
	_, ok := r[key]
	return ok
}

// String returns the value for key as text. The remote side reports unset
// fields as false, which reads as "".
func (r Record) String(key string) string {
	if r == nil {
		return ""
	}
	switch typed := r[key].(type) {
	case string:
		return typed
	case json.Number:
		return typed.String()
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	default:
		return ""
	}
}

func (r Record) Float(key string) float64 {
	if r == nil {
		return 0
	}
	value, _ := toFloat(r[key])
	return value
}

func (r Record) Int(key string) (int64, bool) {
	if r == nil {
		return 0, false
	}
	return toInt(r[key])
}

func (r Record) Bool(key string) bool {
	if r == nil {
		return false
	}
	typed, ok := r[key].(bool)
	return ok && typed
}

// Truthy follows the remote convention where false, null, "" and [] all
// mean "unset".
func (r Record) Truthy(key string) bool {
	if r == nil {
		return false
	}
	switch typed := r[key].(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return strings.TrimSpace(typed) != ""
	case []any:
		return len(typed) > 0
	case float64:
		return typed != 0
	case json.Number:
		return typed.String() != "0"
	default:
		return true
	}
}

// Many2One decodes the [id, display_name] pair used for relational fields.
func (r Record) Many2One(key string) (int64, string, bool) {
	if r == nil {
		return 0, "", false
	}
	switch typed := r[key].(type) {
	case []any:
		if len(typed) == 0 {
			return 0, "", false
		}
		id, ok := toInt(typed[0])
		if !ok {
			return 0, "", false
		}
		name := ""
		if len(typed) > 1 {
			name, _ = typed[1].(string)
		}
		return id, name, true
	default:
		id, ok := toInt(typed)
		return id, "", ok
	}
}

// IDs reads a one2many or many2many field as a list of ids.
func (r Record) IDs(key string) []int64 {
	if r == nil {
		return nil
	}
	items, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]int64, 0, len(items))
	for _, item := range items {
		if id, ok := toInt(item); ok {
			out = append(out, id)
		}
	}
	return out
}

func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for key, value := range r {
		out[key] = value
	}
	return out
}

func toFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case json.Number:
		parsed, err := typed.Float64()
		return parsed, err == nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

func toInt(value any) (int64, bool) {
	switch typed := value.(type) {
	case int64:
		return typed, true
	case int:
		return int64(typed), true
	case float64:
		if typed != math.Trunc(typed) {
			return 0, false
		}
		return int64(typed), true
	case json.Number:
		parsed, err := typed.Int64()
		return parsed, err == nil
	default:
		return 0, false
	}
}
