package payload

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Encoder produces the fixed-layout binary form of samples.
//
// Layout per sample, no delimiters:
//
//	serial number bytes | temperature f32 BE | power f32 BE | dim level i16 BE | on u8
//
// The serial number is not length-prefixed; readers must know its length out of band.
type Encoder struct {
	// LegacyTruncation narrows temperature, power and dim level to a signed byte
	// before widening them back, matching fixtures produced by the first generator.
	LegacyTruncation bool
}

// Size returns the encoded length of s in bytes.
func (e Encoder) Size(s LightSample) int {
	return len(s.serialNumber) + 4 + 4 + 2 + 1
}

// Sample encodes a single sample.
func (e Encoder) Sample(s LightSample) []byte {
	return e.AppendSample(make([]byte, 0, e.Size(s)), s)
}

// AppendSample appends the encoding of s to dst.
func (e Encoder) AppendSample(dst []byte, s LightSample) []byte {
	temperature, power, dim := s.temperature, s.power, s.dimLevel
	if e.LegacyTruncation {
		temperature = float32(floatToByte(temperature))
		power = float32(floatToByte(power))
		dim = int16(int8(dim))
	}

	dst = append(dst, s.serialNumber...)
	dst = binary.BigEndian.AppendUint32(dst, math.Float32bits(temperature))
	dst = binary.BigEndian.AppendUint32(dst, math.Float32bits(power))
	dst = binary.BigEndian.AppendUint16(dst, uint16(dim))
	if s.on {
		dst = append(dst, 0x01)
	} else {
		dst = append(dst, 0x00)
	}
	return dst
}

// Batch encodes samples behind a big-endian uint16 count.
func (e Encoder) Batch(samples []LightSample) ([]byte, error) {
	if len(samples) > MaxBatch {
		return nil, fmt.Errorf("%w: %d samples, max %d", ErrBatchTooLarge, len(samples), MaxBatch)
	}

	size := 2
	for _, s := range samples {
		size += e.Size(s)
	}

	buf := make([]byte, 0, size)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(samples)))
	for _, s := range samples {
		buf = e.AppendSample(buf, s)
	}
	return buf, nil
}

// floatToByte narrows v the way a JVM float-to-byte conversion does:
// truncate toward zero into int32 with saturation (NaN becomes 0),
// then keep the low eight bits as a signed byte.
func floatToByte(v float32) int8 {
	f := float64(v)
	var i int32
	switch {
	case math.IsNaN(f):
		i = 0
	case f >= math.MaxInt32:
		i = math.MaxInt32
	case f <= math.MinInt32:
		i = math.MinInt32
	default:
		i = int32(f)
	}
	return int8(i)
}
