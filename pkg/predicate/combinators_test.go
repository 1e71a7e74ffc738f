package predicate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func counting(result bool, calls *int) Predicate {
	return Func(func(any) bool {
		*calls++
		return result
	})
}

func TestAnd(t *testing.T) {
	tests := []struct {
		name     string
		left     bool
		right    bool
		expected bool
	}{
		{"both true", true, true, true},
		{"left false", false, true, false},
		{"right false", true, false, false},
		{"both false", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l, r int
			p := And(counting(tt.left, &l), counting(tt.right, &r))
			assert.Equal(t, tt.expected, p.Test(nil))
		})
	}
}

func TestAnd_ShortCircuits(t *testing.T) {
	var left, right int
	p := And(counting(false, &left), counting(true, &right))

	assert.False(t, p.Test("x"))
	assert.Equal(t, 1, left)
	assert.Zero(t, right)
}

func TestOr_EvaluatesLeftFirst(t *testing.T) {
	var left, right int
	p := Or(counting(true, &left), counting(false, &right))

	assert.True(t, p.Test("x"))
	assert.Equal(t, 1, left)
	assert.Zero(t, right)

	p = Or(counting(false, &left), counting(false, &right))
	assert.False(t, p.Test("x"))
	assert.Equal(t, 1, right)
}

func TestNot(t *testing.T) {
	p := Not(IsTrue())

	assert.False(t, p.Test(true))
	assert.True(t, p.Test(false))
	assert.Empty(t, DiffOf(p, true))
}

func TestCombinator_Descriptions(t *testing.T) {
	tests := []struct {
		name     string
		p        Predicate
		expected string
	}{
		{"and", And(IsTrue(), IsNil()), "is true and is null"},
		{"or", Or(IsTrue(), IsNil()), "is true or is null"},
		{"not leaf", Not(IsTrue()), "not is true"},
		{"not composite", Not(Or(IsTrue(), IsNil())), "not (is true or is null)"},
		{
			"and of or",
			And(IsNotNil(), Or(IsTrue(), IsFalse())),
			"is not null and (is true or is false)",
		},
		{
			"or of and",
			Or(And(IsNotNil(), IsEmpty()), IsNil()),
			"(is not null and is empty) or is null",
		},
		{
			"nested and",
			And(And(IsNotNil(), IsEmpty()), IsFalse()),
			"is not null and is empty and is false",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.p.String())
		})
	}
}

func TestAnd_DiffFromFirstFailingChild(t *testing.T) {
	p := And(IsNotNil(), Equals("foo"))

	assert.Equal(t, Equals("foo").Diff("bar"), DiffOf(p, "bar"))
	assert.Empty(t, DiffOf(p, "foo"))

	p = And(Equals("foo"), Equals("bar"))
	assert.Equal(t, Equals("foo").Diff("baz"), DiffOf(p, "baz"))
}

func TestOr_DiffFromFirstChildWithDiff(t *testing.T) {
	p := Or(IsNil(), Equals("foo"))

	assert.Equal(t, Equals("foo").Diff("bar"), DiffOf(p, "bar"))
	assert.Empty(t, DiffOf(p, "foo"))
}

func TestNot_DescribesValueLikeInner(t *testing.T) {
	p := Not(Wrap(Equals("x"), "error message %s"))

	assert.Equal(t, "error message 'x'", DescribeValue(p, "x"))
}

func TestEvaluate_ChildrenRunOnce(t *testing.T) {
	var left, right int
	passed, diff := Evaluate(And(counting(true, &left), counting(false, &right)), "x")

	assert.False(t, passed)
	assert.Empty(t, diff)
	assert.Equal(t, 1, left)
	assert.Equal(t, 1, right)

	left, right = 0, 0
	passed, _ = Evaluate(Or(counting(false, &left), counting(false, &right)), "x")

	assert.False(t, passed)
	assert.Equal(t, 1, left)
	assert.Equal(t, 1, right)

	left, right = 0, 0
	nested := Wrap(And(counting(true, &left), Or(counting(false, &right), Equals("foo"))), "%s")
	passed, diff = Evaluate(nested, "bar")

	assert.False(t, passed)
	assert.Equal(t, Equals("foo").Diff("bar"), diff)
	assert.Equal(t, 1, left)
	assert.Equal(t, 1, right)
}

func TestEvaluate_PlainPredicate(t *testing.T) {
	var calls int

	passed, diff := Evaluate(counting(false, &calls), nil)
	assert.False(t, passed)
	assert.Empty(t, diff)
	assert.Equal(t, 1, calls)

	passed, diff = Evaluate(Equals("foo"), "foo")
	assert.True(t, passed)
	assert.Empty(t, diff)
}
