package cache

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Vectors are stored as packed little-endian float32 words. The encoding is
// lossless: element type, length and bit patterns all survive the round trip
// through a byte-oriented store.

// EncodeVector serializes a float32 vector for a key-value byte store.
func EncodeVector(value []float32) []byte {
	data := make([]byte, len(value)*4)
	for i, f := range value {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(f))
	}
	return data
}

// DecodeVector deserializes a packed float32 vector.
func DecodeVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("vector payload length %d is not a multiple of 4", len(data))
	}

	vector := make([]float32, len(data)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vector, nil
}
