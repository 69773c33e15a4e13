// Compound conditions: the constraint oracle discharges accesses that every
// feasible path to them has pinned non-null, and prunes contradictory arms.
package oracle

var slot int

func pick(ok bool) *int {
	if ok {
		return &slot
	}
	return nil
}

func conjunction(a, b bool) int {
	p := pick(a)
	q := pick(b)
	if p != nil && q != nil {
		return *p + *q
	}
	return 0
}

func disjunction(a, b bool) int {
	p := pick(a)
	q := pick(b)
	if p != nil || q != nil {
		return *p // want "possible nil pointer dereference"
	}
	return 0
}

func earlyReturn(a, b bool) int {
	p := pick(a)
	q := pick(b)
	if p == nil || q == nil {
		return 0
	}
	return *p + *q
}

func contradiction(a bool) int {
	p := pick(a)
	if p == nil {
		if p != nil {
			return *p
		}
	}
	return 0
}
