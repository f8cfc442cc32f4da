package router

import (
	"errors"
	"fmt"
)

// MaxConditionDepth is the maximum nesting depth of a condition tree.
// The root node is at depth 0.
const MaxConditionDepth = 20

var (
	// ErrMaxDepthExceeded is returned when a tree nests deeper than
	// MaxConditionDepth.
	ErrMaxDepthExceeded = errors.New("condition tree exceeds maximum depth")

	// ErrConditionCycle is returned when the same group node is
	// reachable more than once in a tree.
	ErrConditionCycle = errors.New("condition tree contains a cycle")
)

// ValidateTree checks structural soundness of a condition tree: nesting
// depth and absence of cycles. Cycle detection is by node identity, so
// sharing a group between two branches is rejected the same way a true
// cycle is. Nil trees are valid.
func ValidateTree(node ConditionNode) error {
	if node == nil {
		return nil
	}
	visited := make(map[*ConditionGroup]struct{})
	return validateNode(node, 0, visited)
}

func validateNode(node ConditionNode, depth int, visited map[*ConditionGroup]struct{}) error {
	if depth > MaxConditionDepth {
		return fmt.Errorf("%w: depth %d exceeds %d", ErrMaxDepthExceeded, depth, MaxConditionDepth)
	}

	group, ok := node.(*ConditionGroup)
	if !ok {
		return nil
	}

	if _, seen := visited[group]; seen {
		return ErrConditionCycle
	}
	visited[group] = struct{}{}

	for _, child := range group.Conditions {
		if err := validateNode(child, depth+1, visited); err != nil {
			return err
		}
	}
	return nil
}

// AuthoringError describes a rejected node during rule authoring, with
// a path locating the node within the tree.
type AuthoringError struct {
	Path    string
	Message string
}

func (e *AuthoringError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidateAuthoring applies the stricter checks used when a rule is
// created or updated: structural soundness plus non-empty groups and
// fully specified leaves. Evaluation itself never enforces these; a
// stored tree that predates a rule change still evaluates fail-closed.
func ValidateAuthoring(node ConditionNode) error {
	if node == nil {
		return &AuthoringError{Message: "condition is required"}
	}
	if err := ValidateTree(node); err != nil {
		return err
	}
	return validateAuthoringNode(node, "root")
}

func validateAuthoringNode(node ConditionNode, path string) error {
	switch n := node.(type) {
	case *ConditionGroup:
		if !n.Operator.Valid() {
			return &AuthoringError{Path: path, Message: fmt.Sprintf("invalid logical operator %q", n.Operator)}
		}
		if len(n.Conditions) == 0 {
			return &AuthoringError{Path: path, Message: "group has no conditions"}
		}
		for i, child := range n.Conditions {
			childPath := fmt.Sprintf("%s.conditions[%d]", path, i)
			if err := validateAuthoringNode(child, childPath); err != nil {
				return err
			}
		}
		return nil
	case *Condition:
		if n.Field == "" {
			return &AuthoringError{Path: path, Message: "condition field is required"}
		}
		if !n.Operator.Valid() {
			return &AuthoringError{Path: path, Message: fmt.Sprintf("unknown operator %q", n.Operator)}
		}
		if n.Value.IsAbsent() {
			return &AuthoringError{Path: path, Message: "condition value is required"}
		}
		return nil
	default:
		return &AuthoringError{Path: path, Message: "unknown node type"}
	}
}
