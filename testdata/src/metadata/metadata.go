// Reads of cataloged metadata fields seed maybe-null facts on the
// destination; other fields stay untracked.
package metadata

type device struct {
	driver_data *int
	irq         int
}

func direct(dev *device) int {
	d := dev.driver_data
	return *d // want "possible nil pointer dereference"
}

func checked(dev *device) int {
	d := dev.driver_data
	if d == nil {
		return 0
	}
	return *d
}

func otherField(dev *device) int {
	return dev.irq
}

func copiedMetadata(dev *device) int {
	d := dev.driver_data
	e := d
	return *e // want "possible nil pointer dereference"
}
