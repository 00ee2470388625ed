package types

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis
)

// Return the two axes that follow a in cyclic order.
func (a Axis) Others() (Axis, Axis) {
	return (a + 1) % 3, (a + 2) % 3
}

func (a Axis) String() string {
	switch a {
	case XAxis:
		return "x"
	case YAxis:
		return "y"
	case ZAxis:
		return "z"
	}
	return "invalid"
}
