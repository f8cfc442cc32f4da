package router

import (
	"context"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// lawsTree returns a tree evaluator with two deterministic leaves:
// field "true" always matches, field "false" never does.
func lawsTree() *TreeEvaluator {
	yes := newFakeEvaluator("yes", 60, "true")
	yes.condResult = true
	no := newFakeEvaluator("no", 50, "false")
	return newTestTree(yes, no)
}

// randomTree grows a deterministic pseudo-random condition tree from a
// seed. Leaves reference the "true" and "false" fields plus an unowned
// one, so generated trees exercise the fail-closed path too.
func randomTree(rng *rand.Rand, depth int) ConditionNode {
	if depth <= 0 || rng.Intn(3) == 0 {
		field := [...]string{"true", "false", "unowned"}[rng.Intn(3)]
		leaf := NewCondition(field, OpEquals, StringValue("x"))
		leaf.Negate = rng.Intn(2) == 0
		return leaf
	}

	children := make([]ConditionNode, rng.Intn(4))
	for i := range children {
		children[i] = randomTree(rng, depth-1)
	}
	group := &ConditionGroup{Operator: LogicalAnd, Conditions: children}
	if rng.Intn(2) == 0 {
		group.Operator = LogicalOr
	}
	group.Negate = rng.Intn(2) == 0
	return group
}

func TestEvaluate_PropertyNegationFlips(t *testing.T) {
	tree := lawsTree()
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("negating a node flips its result", prop.ForAll(
		func(seed int64) bool {
			node := randomTree(rand.New(rand.NewSource(seed)), 4)
			plain := tree.Evaluate(ctx, node, testItem(), Context{})
			negated := tree.Evaluate(ctx, Negated(node), testItem(), Context{})
			return plain != negated
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}

func TestEvaluate_PropertyNegationInvolution(t *testing.T) {
	tree := lawsTree()
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("double negation restores the result", prop.ForAll(
		func(seed int64) bool {
			node := randomTree(rand.New(rand.NewSource(seed)), 4)
			plain := tree.Evaluate(ctx, node, testItem(), Context{})
			doubled := tree.Evaluate(ctx, Negated(Negated(node)), testItem(), Context{})
			return plain == doubled
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}

func TestEvaluate_PropertyDeMorgan(t *testing.T) {
	tree := lawsTree()
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("NOT(a AND b) equals (NOT a) OR (NOT b)", prop.ForAll(
		func(seedA, seedB int64) bool {
			a := randomTree(rand.New(rand.NewSource(seedA)), 3)
			b := randomTree(rand.New(rand.NewSource(seedB)), 3)

			left := tree.Evaluate(ctx, Negated(And(a, b)), testItem(), Context{})
			right := tree.Evaluate(ctx, Or(Negated(a), Negated(b)), testItem(), Context{})
			return left == right
		},
		gen.Int64(),
		gen.Int64(),
	))

	properties.TestingRun(t)
}

func TestEvaluate_PropertyGroupIdentityElement(t *testing.T) {
	tree := lawsTree()
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("appending an empty AND never changes an AND group", prop.ForAll(
		func(seed int64) bool {
			node := randomTree(rand.New(rand.NewSource(seed)), 3)
			plain := tree.Evaluate(ctx, And(node), testItem(), Context{})
			padded := tree.Evaluate(ctx, And(node, And()), testItem(), Context{})
			return plain == padded
		},
		gen.Int64(),
	))

	properties.Property("appending an empty OR never changes an OR group", prop.ForAll(
		func(seed int64) bool {
			node := randomTree(rand.New(rand.NewSource(seed)), 3)
			plain := tree.Evaluate(ctx, Or(node), testItem(), Context{})
			padded := tree.Evaluate(ctx, Or(node, Or()), testItem(), Context{})
			return plain == padded
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}

func TestEvaluate_PropertyDeterministic(t *testing.T) {
	tree := lawsTree()
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("evaluation is deterministic", prop.ForAll(
		func(seed int64) bool {
			node := randomTree(rand.New(rand.NewSource(seed)), 5)
			first := tree.Evaluate(ctx, node, testItem(), Context{})
			second := tree.Evaluate(ctx, node, testItem(), Context{})
			return first == second
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}
