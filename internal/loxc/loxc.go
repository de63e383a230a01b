// Package loxc serializes a compiled bytecode.Chunk to and from the
// .loxc cache format, with github.com/vmihailenco/msgpack/v5 (spec.md's
// ambient stack expansion's ".loxc compiled-chunk cache", analogous to
// the teacher's driver/dcache.go module cache repurposed for a single
// precompiled chunk).
package loxc

import (
	"github.com/vmihailenco/msgpack/v5"

	"lox/internal/bytecode"
)

// wireChunk mirrors bytecode.Chunk's fields for msgpack encoding;
// Constants are tagged so a decoder can tell Number/String/Bool/Nil
// apart without Go-specific type information leaking onto the wire.
type wireChunk struct {
	Code      []byte      `msgpack:"code"`
	Lines     []int       `msgpack:"lines"`
	Constants []wireValue `msgpack:"constants"`
}

type wireValue struct {
	Tag    string  `msgpack:"tag"` // "nil", "bool", "number", "string"
	Bool   bool    `msgpack:"bool,omitempty"`
	Number float64 `msgpack:"number,omitempty"`
	Str    string  `msgpack:"string,omitempty"`
}

func encodeValue(v bytecode.Value) wireValue {
	switch vv := v.(type) {
	case bool:
		return wireValue{Tag: "bool", Bool: vv}
	case float64:
		return wireValue{Tag: "number", Number: vv}
	case string:
		return wireValue{Tag: "string", Str: vv}
	default:
		return wireValue{Tag: "nil"}
	}
}

func decodeValue(v wireValue) bytecode.Value {
	switch v.Tag {
	case "bool":
		return v.Bool
	case "number":
		return v.Number
	case "string":
		return v.Str
	default:
		return nil
	}
}

// Marshal encodes chunk into the .loxc wire format.
func Marshal(chunk *bytecode.Chunk) ([]byte, error) {
	wire := wireChunk{Code: chunk.Code, Lines: chunk.Lines}
	for _, c := range chunk.Constants {
		wire.Constants = append(wire.Constants, encodeValue(c))
	}
	return msgpack.Marshal(wire)
}

// Unmarshal decodes data produced by Marshal back into a Chunk.
func Unmarshal(data []byte) (*bytecode.Chunk, error) {
	var wire wireChunk
	if err := msgpack.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	chunk := &bytecode.Chunk{Code: wire.Code, Lines: wire.Lines}
	for _, c := range wire.Constants {
		chunk.Constants = append(chunk.Constants, decodeValue(c))
	}
	return chunk, nil
}
