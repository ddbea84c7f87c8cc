package diagram

// taus88 is one step of a combined Tausworthe generator
func taus88(s uint32, a, b uint, c uint32, d uint) uint32 {
	s1 := (s & c) << d
	s2 := ((s << a) ^ s) >> b
	return s1 ^ s2
}

// Tag derives a stable 32-bit tag from a train id. The bytes of the id are folded
// into a seed and mixed through three Taus88 components.
func Tag(id string) uint32 {
	var seed uint32
	for i := 0; i < len(id); i++ {
		seed += uint32(id[i]) << ((uint(i) * 8) % 32)
	}
	return taus88(seed, 13, 19, 4294967294, 12) ^
		taus88(seed, 2, 25, 4294967288, 4) ^
		taus88(seed, 3, 11, 4294967280, 17)
}

// Color maps a tag to a hue in [0, 360)
func Color(tag uint32) uint16 {
	return uint16(tag % 360)
}
