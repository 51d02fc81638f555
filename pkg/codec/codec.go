package codec

import "github.com/bytedance/sonic"

// Codec abstracts the JSON serialization used for request and response
// bodies so callers can swap implementations.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

type sonicCodec struct{}

func (sonicCodec) Marshal(v any) ([]byte, error) {
	return sonic.ConfigStd.Marshal(v)
}

func (sonicCodec) Unmarshal(data []byte, v any) error {
	return sonic.ConfigStd.Unmarshal(data, v)
}

// Default is the codec used when none is injected. It is backed by sonic in
// its encoding/json-compatible configuration.
var Default Codec = sonicCodec{}
