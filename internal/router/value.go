package router

import (
	"encoding/json"
	"strconv"
)

// ValueKind discriminates the concrete shape held by a ConditionValue.
type ValueKind int

// Condition value kinds.
const (
	ValueAbsent ValueKind = iota
	ValueString
	ValueNumber
	ValueBool
	ValueStringList
	ValueNumberList
	ValueRange
	ValueCriteria
)

// Range is a numeric range with optional bounds, as authored in a
// "between" condition. At least one bound must be set for the range
// to be usable.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Bounded reports whether at least one bound is set.
func (r Range) Bounded() bool {
	return r.Min != nil || r.Max != nil
}

// Contains reports whether n falls within the range (inclusive bounds).
func (r Range) Contains(n float64) bool {
	if r.Min != nil && n < *r.Min {
		return false
	}
	if r.Max != nil && n > *r.Max {
		return false
	}
	return r.Bounded()
}

// Criteria is a structured criteria object referencing a named entity
// (e.g. a quality profile or user) by ID and display name.
type Criteria struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// ConditionValue is the polymorphic value of a leaf condition, modeled as
// a tagged union. Evaluators pattern-match on the kind via the As*
// accessors and fail closed (evaluate false) on shape mismatch; the union
// itself never coerces between shapes.
type ConditionValue struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
	strs []string
	nums []float64
	rng  Range
	crit Criteria
}

// Constructors.

// StringValue returns a string-shaped condition value.
func StringValue(s string) ConditionValue {
	return ConditionValue{kind: ValueString, str: s}
}

// NumberValue returns a number-shaped condition value.
func NumberValue(n float64) ConditionValue {
	return ConditionValue{kind: ValueNumber, num: n}
}

// BoolValue returns a bool-shaped condition value.
func BoolValue(b bool) ConditionValue {
	return ConditionValue{kind: ValueBool, b: b}
}

// StringListValue returns a string-array-shaped condition value.
func StringListValue(items ...string) ConditionValue {
	return ConditionValue{kind: ValueStringList, strs: items}
}

// NumberListValue returns a number-array-shaped condition value.
func NumberListValue(items ...float64) ConditionValue {
	return ConditionValue{kind: ValueNumberList, nums: items}
}

// RangeValue returns a range-shaped condition value.
func RangeValue(r Range) ConditionValue {
	return ConditionValue{kind: ValueRange, rng: r}
}

// CriteriaValue returns a criteria-object-shaped condition value.
func CriteriaValue(c Criteria) ConditionValue {
	return ConditionValue{kind: ValueCriteria, crit: c}
}

// Kind returns the concrete shape of the value.
func (v ConditionValue) Kind() ValueKind {
	return v.kind
}

// IsAbsent reports whether no value was supplied.
func (v ConditionValue) IsAbsent() bool {
	return v.kind == ValueAbsent
}

// Accessors. Each returns the typed value and whether the union holds
// that shape.

// AsString returns the string value.
func (v ConditionValue) AsString() (string, bool) {
	return v.str, v.kind == ValueString
}

// AsNumber returns the numeric value.
func (v ConditionValue) AsNumber() (float64, bool) {
	return v.num, v.kind == ValueNumber
}

// AsBool returns the boolean value.
func (v ConditionValue) AsBool() (bool, bool) {
	return v.b, v.kind == ValueBool
}

// AsStringList returns the string-array value.
func (v ConditionValue) AsStringList() ([]string, bool) {
	return v.strs, v.kind == ValueStringList
}

// AsNumberList returns the number-array value.
func (v ConditionValue) AsNumberList() ([]float64, bool) {
	return v.nums, v.kind == ValueNumberList
}

// AsRange returns the range value.
func (v ConditionValue) AsRange() (Range, bool) {
	return v.rng, v.kind == ValueRange
}

// AsCriteria returns the criteria-object value.
func (v ConditionValue) AsCriteria() (Criteria, bool) {
	return v.crit, v.kind == ValueCriteria
}

// UnmarshalJSON decodes a condition value, inferring the shape from the
// JSON token. Unrecognized shapes decode to an absent value rather than
// failing, so a malformed rule degrades to a non-matching condition
// instead of blocking deserialization of the whole rule set.
func (v *ConditionValue) UnmarshalJSON(data []byte) error {
	*v = ConditionValue{}

	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	switch p := probe.(type) {
	case nil:
		// absent
	case string:
		*v = StringValue(p)
	case float64:
		*v = NumberValue(p)
	case bool:
		*v = BoolValue(p)
	case []any:
		*v = decodeListValue(p)
	case map[string]any:
		*v = decodeObjectValue(data, p)
	}

	return nil
}

// decodeListValue decodes a JSON array into a string or number list.
// A homogeneous numeric array becomes a number list; everything else is
// treated as a string list, with non-string elements dropped.
func decodeListValue(items []any) ConditionValue {
	allNumbers := len(items) > 0
	for _, item := range items {
		if _, ok := item.(float64); !ok {
			allNumbers = false
			break
		}
	}

	if allNumbers {
		nums := make([]float64, 0, len(items))
		for _, item := range items {
			nums = append(nums, item.(float64))
		}
		return NumberListValue(nums...)
	}

	strs := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			strs = append(strs, s)
		}
	}
	return StringListValue(strs...)
}

// decodeObjectValue decodes a JSON object into a range or criteria value.
func decodeObjectValue(data []byte, probe map[string]any) ConditionValue {
	_, hasMin := probe["min"]
	_, hasMax := probe["max"]
	if hasMin || hasMax {
		var r Range
		if err := json.Unmarshal(data, &r); err == nil && r.Bounded() {
			return RangeValue(r)
		}
		return ConditionValue{}
	}

	_, hasID := probe["id"]
	_, hasName := probe["name"]
	if hasID || hasName {
		var c Criteria
		if err := json.Unmarshal(data, &c); err == nil {
			return CriteriaValue(c)
		}
	}

	return ConditionValue{}
}

// MarshalJSON encodes the value in its natural JSON shape.
func (v ConditionValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueString:
		return json.Marshal(v.str)
	case ValueNumber:
		return json.Marshal(v.num)
	case ValueBool:
		return json.Marshal(v.b)
	case ValueStringList:
		if v.strs == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.strs)
	case ValueNumberList:
		if v.nums == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.nums)
	case ValueRange:
		return json.Marshal(v.rng)
	case ValueCriteria:
		return json.Marshal(v.crit)
	default:
		return []byte("null"), nil
	}
}

// String returns a compact representation for logging.
func (v ConditionValue) String() string {
	switch v.kind {
	case ValueString:
		return strconv.Quote(v.str)
	case ValueNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.b)
	default:
		data, err := v.MarshalJSON()
		if err != nil {
			return "<invalid>"
		}
		return string(data)
	}
}
