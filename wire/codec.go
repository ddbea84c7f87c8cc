package wire

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-playground/validator/v10"
)

// ErrMalformed wraps every decode or schema validation failure
var ErrMalformed = errors.New("malformed input")

var (
	encMode  = mustEncMode()
	decMode  = mustDecMode()
	validate = validator.New()
)

func mustEncMode() cbor.EncMode {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}

func mustDecMode() cbor.DecMode {
	dm, err := cbor.DecOptions{
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		MaxArrayElements: 1 << 24,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}

// Marshal encodes v as canonical CBOR. Equal values always produce equal bytes.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR into v and validates it. Unknown keys are ignored.
func Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty document", ErrMalformed)
	}
	if err := decMode.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// Envelope carries a network and a request in one document, as posted to the
// render endpoint
type Envelope struct {
	Network cbor.RawMessage `cbor:"network" validate:"required"`
	Request cbor.RawMessage `cbor:"request" validate:"required"`
}

// DecodeEnvelope splits a combined document
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// EncodeEnvelope combines already encoded network and request documents
func EncodeEnvelope(networkData, requestData []byte) ([]byte, error) {
	return Marshal(&Envelope{Network: networkData, Request: requestData})
}
