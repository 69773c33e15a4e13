// Downstream package: the imported maybe-null fact on a.FindDevice seeds the
// return value exactly like a catalog allocation call.
package b

import "crosspkg/a"

func probe() int {
	dev := a.FindDevice(3)
	return dev.ID // want "possible nil pointer dereference"
}

func probeChecked() int {
	dev := a.FindDevice(3)
	if dev == nil {
		return 0
	}
	return dev.ID
}
