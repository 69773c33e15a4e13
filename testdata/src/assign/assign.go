// Assignment transfers: a nil initializer seeds a maybe-null fact, copies
// propagate it verbatim, each access site reports at most once, and a site
// reachable from several maybe-null paths yields a single diagnostic.
package assign

func nilInitializer() int {
	var p *int = nil
	return *p // want "possible nil pointer dereference"
}

func copied() int {
	var p *int = nil
	q := p
	return *q // want "possible nil pointer dereference"
}

func reportOnce() {
	var q *int = nil
	_ = *q // want "possible nil pointer dereference"
	_ = *q
}

func twoWays(a bool) int {
	var p *int = nil
	if a {
		_ = a
	}
	return *p // want "possible nil pointer dereference"
}

func copyThenCheck() int {
	var p *int = nil
	q := p
	if q == nil {
		return 0
	}
	return *q
}
