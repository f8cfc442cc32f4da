package router

import (
	"encoding/json"
	"fmt"
)

// ConditionNode is a node in a condition tree: either a leaf Condition or
// a ConditionGroup combinator.
type ConditionNode interface {
	conditionNode()
}

// Condition is a leaf predicate comparing one field against a value.
type Condition struct {
	Field    string         `json:"field"`
	Operator Operator       `json:"operator"`
	Value    ConditionValue `json:"value"`
	Negate   bool           `json:"negate,omitempty"`
}

func (c *Condition) conditionNode() {}

// ConditionGroup is an internal node joining child conditions with a
// logical operator. Child order is evaluation order but does not affect
// the result value.
type ConditionGroup struct {
	Operator   LogicalOperator `json:"operator"`
	Conditions []ConditionNode `json:"conditions"`
	Negate     bool            `json:"negate,omitempty"`
}

func (g *ConditionGroup) conditionNode() {}

// NewCondition creates a leaf condition.
func NewCondition(field string, op Operator, value ConditionValue) *Condition {
	return &Condition{Field: field, Operator: op, Value: value}
}

// And creates an AND group with the given children.
func And(children ...ConditionNode) *ConditionGroup {
	return &ConditionGroup{Operator: LogicalAnd, Conditions: children}
}

// Or creates an OR group with the given children.
func Or(children ...ConditionNode) *ConditionGroup {
	return &ConditionGroup{Operator: LogicalOr, Conditions: children}
}

// Negated returns a copy of the node with negation flipped.
func Negated(node ConditionNode) ConditionNode {
	switch n := node.(type) {
	case *Condition:
		c := *n
		c.Negate = !c.Negate
		return &c
	case *ConditionGroup:
		g := *n
		g.Negate = !g.Negate
		return &g
	default:
		return node
	}
}

// rawNode mirrors the JSON shape of both node kinds for decoding.
// A node with a "conditions" array is a group; a node with a "field" is
// a leaf. A node carrying both decodes as a group, matching how the
// authoring UI serializes trees.
type rawNode struct {
	Field      string            `json:"field"`
	Operator   string            `json:"operator"`
	Value      ConditionValue    `json:"value"`
	Negate     bool              `json:"negate"`
	Conditions []json.RawMessage `json:"conditions"`
}

// DecodeCondition decodes a JSON condition tree into its node form.
// The decoder is structural only: operator/value compatibility is not
// enforced here (see ValidateAuthoring), and unknown operators are kept
// as-is so evaluation can fail closed per leaf instead of rejecting the
// whole rule.
func DecodeCondition(data []byte) (ConditionNode, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}

	var raw rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding condition node: %w", err)
	}

	// Group node: has a conditions array (possibly empty).
	if raw.Conditions != nil || (raw.Field == "" && ParseLogicalOperator(raw.Operator).Valid()) {
		group := &ConditionGroup{
			Operator: ParseLogicalOperator(raw.Operator),
			Negate:   raw.Negate,
		}
		if !group.Operator.Valid() {
			return nil, fmt.Errorf("invalid group operator %q", raw.Operator)
		}
		group.Conditions = make([]ConditionNode, 0, len(raw.Conditions))
		for i, childData := range raw.Conditions {
			child, err := DecodeCondition(childData)
			if err != nil {
				return nil, fmt.Errorf("decoding child %d: %w", i, err)
			}
			if child != nil {
				group.Conditions = append(group.Conditions, child)
			}
		}
		return group, nil
	}

	if raw.Field == "" {
		return nil, fmt.Errorf("condition node has neither field nor conditions")
	}

	return &Condition{
		Field:    raw.Field,
		Operator: Operator(raw.Operator),
		Value:    raw.Value,
		Negate:   raw.Negate,
	}, nil
}

// EncodeCondition encodes a condition tree to its JSON form.
func EncodeCondition(node ConditionNode) ([]byte, error) {
	if node == nil {
		return []byte("null"), nil
	}
	return json.Marshal(node)
}

// MarshalJSON encodes the group with its children inline.
func (g *ConditionGroup) MarshalJSON() ([]byte, error) {
	children := make([]json.RawMessage, 0, len(g.Conditions))
	for _, child := range g.Conditions {
		data, err := json.Marshal(child)
		if err != nil {
			return nil, err
		}
		children = append(children, data)
	}
	return json.Marshal(struct {
		Operator   LogicalOperator   `json:"operator"`
		Conditions []json.RawMessage `json:"conditions"`
		Negate     bool              `json:"negate,omitempty"`
	}{
		Operator:   g.Operator,
		Conditions: children,
		Negate:     g.Negate,
	})
}
