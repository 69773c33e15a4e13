// Values with no tracked origin never report: taking the address of a local
// and calls outside the catalog stay untracked.
package untracked

func addressOfLocal() int {
	local := 42
	p := &local
	return *p
}

func freshAllocation() int {
	p := new(int)
	return *p
}

func parameter(p *int) int {
	return *p
}
