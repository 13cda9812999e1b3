package cache

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
)

// msgpackCodec encodes values with msgpack, reading `json` tags when a field
// has no `msgpack` tag so domain types need a single set of tags.
type msgpackCodec struct{}

// NewMsgpackCodec returns the default Codec.
func NewMsgpackCodec() Codec {
	return msgpackCodec{}
}

func (msgpackCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (msgpackCodec) Unmarshal(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}
