// Package router implements the content routing engine: a rule-evaluation
// core that matches a content item and a request context against stored,
// user-authored router rules and produces ranked routing decisions.
package router

import "strings"

// Operator is a comparison operator in a leaf condition.
type Operator string

// Comparison operators.
const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "notEquals"
	OpContains    Operator = "contains"
	OpNotContains Operator = "notContains"
	OpIn          Operator = "in"
	OpNotIn       Operator = "notIn"
	OpGreaterThan Operator = "greaterThan"
	OpLessThan    Operator = "lessThan"
	OpBetween     Operator = "between"
	OpRegex       Operator = "regex"
)

// String returns the string representation of the operator.
func (o Operator) String() string {
	return string(o)
}

// Valid reports whether the operator is part of the fixed enumeration.
func (o Operator) Valid() bool {
	switch o {
	case OpEquals, OpNotEquals, OpContains, OpNotContains,
		OpIn, OpNotIn, OpGreaterThan, OpLessThan, OpBetween, OpRegex:
		return true
	}
	return false
}

// Operators lists all comparison operators in declaration order.
func Operators() []Operator {
	return []Operator{
		OpEquals, OpNotEquals, OpContains, OpNotContains,
		OpIn, OpNotIn, OpGreaterThan, OpLessThan, OpBetween, OpRegex,
	}
}

// LogicalOperator combines the children of a condition group.
type LogicalOperator string

// Logical operators.
const (
	LogicalAnd LogicalOperator = "AND"
	LogicalOr  LogicalOperator = "OR"
)

// String returns the string representation of the logical operator.
func (o LogicalOperator) String() string {
	return string(o)
}

// Valid reports whether the logical operator is AND or OR.
func (o LogicalOperator) Valid() bool {
	return o == LogicalAnd || o == LogicalOr
}

// ParseLogicalOperator normalizes a logical operator in any casing.
// Unrecognized input is returned as-is and fails Valid.
func ParseLogicalOperator(s string) LogicalOperator {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AND":
		return LogicalAnd
	case "OR":
		return LogicalOr
	default:
		return LogicalOperator(s)
	}
}
