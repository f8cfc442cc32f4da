package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nestGroups builds a chain of n nested AND groups with a single leaf
// under the innermost one.
func nestGroups(n int) ConditionNode {
	node := ConditionNode(NewCondition("genre", OpEquals, StringValue("anime")))
	for i := 0; i < n; i++ {
		node = And(node)
	}
	return node
}

func TestValidateTree_Depth(t *testing.T) {
	// The root sits at depth 0, so n groups put the leaf at depth n.
	assert.NoError(t, ValidateTree(nestGroups(MaxConditionDepth)))

	err := ValidateTree(nestGroups(MaxConditionDepth + 1))
	assert.ErrorIs(t, err, ErrMaxDepthExceeded)
}

func TestValidateTree_Nil(t *testing.T) {
	assert.NoError(t, ValidateTree(nil))
}

func TestValidateTree_SelfCycle(t *testing.T) {
	group := And()
	group.Conditions = append(group.Conditions, group)

	assert.ErrorIs(t, ValidateTree(group), ErrConditionCycle)
}

func TestValidateTree_IndirectCycle(t *testing.T) {
	inner := Or(NewCondition("year", OpGreaterThan, NumberValue(2000)))
	outer := And(inner)
	inner.Conditions = append(inner.Conditions, outer)

	assert.ErrorIs(t, ValidateTree(outer), ErrConditionCycle)
}

func TestValidateTree_SharedNodeRejected(t *testing.T) {
	// A group reachable through two branches is rejected even though no
	// true cycle exists.
	shared := Or(NewCondition("genre", OpEquals, StringValue("drama")))
	tree := And(shared, Or(shared))

	assert.ErrorIs(t, ValidateTree(tree), ErrConditionCycle)
}

func TestValidateTree_EquivalentDistinctNodes(t *testing.T) {
	// Structurally identical but distinct nodes are fine.
	tree := And(
		Or(NewCondition("genre", OpEquals, StringValue("drama"))),
		Or(NewCondition("genre", OpEquals, StringValue("drama"))),
	)

	assert.NoError(t, ValidateTree(tree))
}

func TestValidateAuthoring(t *testing.T) {
	tests := []struct {
		name    string
		node    ConditionNode
		wantErr string
	}{
		{
			name:    "nil tree",
			node:    nil,
			wantErr: "condition is required",
		},
		{
			name:    "empty group",
			node:    And(),
			wantErr: "group has no conditions",
		},
		{
			name:    "nested empty group",
			node:    And(NewCondition("genre", OpEquals, StringValue("x")), Or()),
			wantErr: "root.conditions[1]",
		},
		{
			name:    "missing field",
			node:    &Condition{Operator: OpEquals, Value: StringValue("x")},
			wantErr: "field is required",
		},
		{
			name:    "unknown operator",
			node:    &Condition{Field: "genre", Operator: "matches", Value: StringValue("x")},
			wantErr: `unknown operator "matches"`,
		},
		{
			name:    "missing value",
			node:    &Condition{Field: "genre", Operator: OpEquals},
			wantErr: "value is required",
		},
		{
			name: "valid tree",
			node: And(
				NewCondition("genre", OpIn, StringListValue("anime")),
				Or(NewCondition("year", OpBetween, RangeValue(Range{Min: f64(1990), Max: f64(1999)}))),
			),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAuthoring(tt.node)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateAuthoring_StructuralErrorsSurface(t *testing.T) {
	assert.ErrorIs(t, ValidateAuthoring(nestGroups(MaxConditionDepth+1)), ErrMaxDepthExceeded)
}
