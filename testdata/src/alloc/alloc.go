// Allocation calls seed maybe-null facts: an unchecked use reports, a
// null-checked use narrows on the non-null arm and stays silent, and a use on
// the null arm still reports.
package alloc

var pool [64]byte

func kmalloc(size int) *byte {
	if size > len(pool) {
		return nil
	}
	return &pool[0]
}

func useUnchecked() byte {
	p := kmalloc(8)
	return *p // want "possible nil pointer dereference"
}

func useChecked() byte {
	p := kmalloc(8)
	if p == nil {
		return 0
	}
	return *p
}

func useBothArms(size int) byte {
	p := kmalloc(size)
	if p == nil {
		return *p // want "possible nil pointer dereference"
	}
	return *p
}

func useNegated(size int) byte {
	p := kmalloc(size)
	if p != nil {
		return *p
	}
	return 0
}

func drain(n int) {
	for i := 0; i < n; i++ {
		p := kmalloc(i)
		if p != nil {
			_ = *p
		}
	}
}
