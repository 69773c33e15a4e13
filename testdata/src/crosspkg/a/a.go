// Upstream package: FindDevice can return nil, which the analysis exports as
// an object fact for downstream packages.
package a

type Device struct {
	ID int
}

var registry []*Device

func FindDevice(id int) *Device {
	if id < len(registry) {
		return registry[id]
	}
	return nil
}
