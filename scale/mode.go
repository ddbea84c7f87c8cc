package scale

import "fmt"

// Mode selects the transform applied to a raw magnitude
type Mode int

const (
	Auto Mode = iota
	Linear
	Logarithmic
	Square
	SquareRoot
	Uniform
)

var modeNames = [...]string{
	Auto:        "Auto",
	Linear:      "Linear",
	Logarithmic: "Logarithmic",
	Square:      "Square",
	SquareRoot:  "SquareRoot",
	Uniform:     "Uniform",
}

// Modes lists every mode in declaration order
func Modes() []Mode {
	return []Mode{Auto, Linear, Logarithmic, Square, SquareRoot, Uniform}
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode resolves a wire name. An empty name means Linear.
func ParseMode(name string) (Mode, error) {
	if name == "" {
		return Linear, nil
	}
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return Linear, fmt.Errorf("unknown scale mode %q", name)
}
