// Package wire defines the CBOR documents exchanged with callers: the network
// description, the drawing request and the envelope combining both.
//
// Documents are maps with string keys. Unknown keys are ignored and optional keys
// may be absent; a missing required key, a value of the wrong type or a schema
// violation is reported as an error wrapping ErrMalformed:
//
//	rec, err := wire.DecodeNetwork(data)
//	if errors.Is(err, wire.ErrMalformed) {
//	    // reject the input
//	}
//	net, err := rec.Build() // *network.ConstructionError on bad references
//
// Output is encoded with canonical CBOR so identical diagrams produce identical
// bytes.
package wire
