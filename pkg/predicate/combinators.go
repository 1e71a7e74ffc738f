package predicate

type and struct {
	left, right Predicate
}

// And returns a predicate satisfied when both a and b are. b is
// not evaluated when a fails.
func And(a, b Predicate) Predicate {
	return &and{left: a, right: b}
}

func (p *and) Test(value any) bool {
	return p.left.Test(value) && p.right.Test(value)
}

func (p *and) String() string {
	return group(p.left, "and") + " and " + group(p.right, "and")
}

// Evaluate tests each child at most once and returns the diff of
// the first one that fails.
func (p *and) Evaluate(value any) (bool, string) {
	if ok, d := Evaluate(p.left, value); !ok {
		return false, d
	}
	if ok, d := Evaluate(p.right, value); !ok {
		return false, d
	}
	return true, ""
}

// Diff returns the diff of the first child that fails.
func (p *and) Diff(value any) string {
	_, d := p.Evaluate(value)
	return d
}

func (p *and) kind() string { return "and" }

type or struct {
	left, right Predicate
}

// Or returns a predicate satisfied when a or b is. a is always
// evaluated first and b only when a fails.
func Or(a, b Predicate) Predicate {
	return &or{left: a, right: b}
}

func (p *or) Test(value any) bool {
	return p.left.Test(value) || p.right.Test(value)
}

func (p *or) String() string {
	return group(p.left, "or") + " or " + group(p.right, "or")
}

// Evaluate tests the children in order until one passes. On failure
// it returns the first non-empty diff among them.
func (p *or) Evaluate(value any) (bool, string) {
	var first string
	for _, child := range []Predicate{p.left, p.right} {
		ok, d := Evaluate(child, value)
		if ok {
			return true, ""
		}
		if first == "" {
			first = d
		}
	}
	return false, first
}

// Diff returns the first non-empty diff among the failing
// children.
func (p *or) Diff(value any) string {
	_, d := p.Evaluate(value)
	return d
}

func (p *or) kind() string { return "or" }

type not struct {
	inner Predicate
}

// Not negates p. Its description is "not " followed by the
// description of p, parenthesised when p is itself a combinator.
func Not(p Predicate) Predicate {
	return &not{inner: p}
}

func (p *not) Test(value any) bool { return !p.inner.Test(value) }

func (p *not) String() string {
	if isComposite(p.inner) {
		return "not (" + p.inner.String() + ")"
	}
	return "not " + p.inner.String()
}

// DescribeValue keeps the inner predicate's rendering of the value.
func (p *not) DescribeValue(value any) string {
	return DescribeValue(p.inner, value)
}

func (p *not) kind() string { return "not" }

func isComposite(p Predicate) bool {
	switch p.(type) {
	case *and, *or:
		return true
	}
	return false
}

// group parenthesises a composite child whose kind differs from the
// combinator rendering it, so "a and (b or c)" stays unambiguous.
func group(p Predicate, parent string) string {
	if isComposite(p) && Kind(p) != parent {
		return "(" + p.String() + ")"
	}
	return p.String()
}
