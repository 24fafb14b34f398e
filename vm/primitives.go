// Package vm implements the binary primitives (component C3) and the
// bytecode interpreter (component C4) that turn a compiled Program into
// bytes on the wire and back. Nothing in this package inspects a
// schema.Schema; by the time a Program reaches Exec or ExecDecode, all
// schema walking has already happened in the compiler package.
package vm

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// DefaultMaxBlockBytes bounds the length prefix accepted for bytes,
// strings, and block-framed arrays/maps, guarding a decoder reading
// attacker-controlled input against an unbounded allocation from a single
// forged length (spec §5).
const DefaultMaxBlockBytes = 1 << 30

// WriteBool writes the one-byte boolean encoding.
func WriteBool(w io.Writer, b bool) error {
	var buf [1]byte
	if b {
		buf[0] = 1
	}
	_, err := w.Write(buf[:])
	return err
}

// ReadBool reads the one-byte boolean encoding.
func ReadBool(r io.Reader) (bool, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return false, err
	}
	return buf[0] != 0, nil
}

// WriteInt writes a 32-bit int as a zig-zag encoded varint.
func WriteInt(w io.Writer, v int32) error {
	encoded := (uint32(v) << 1) ^ uint32(v>>31)
	return writeVarint(w, uint64(encoded))
}

// WriteLong writes a 64-bit long as a zig-zag encoded varint.
func WriteLong(w io.Writer, v int64) error {
	encoded := (uint64(v) << 1) ^ uint64(v>>63)
	return writeVarint(w, encoded)
}

func writeVarint(w io.Writer, encoded uint64) error {
	var buf [10]byte
	n := 0
	for encoded > 0x7f {
		buf[n] = byte(encoded&0x7f) | 0x80
		encoded >>= 7
		n++
	}
	buf[n] = byte(encoded)
	n++
	_, err := w.Write(buf[:n])
	return err
}

// ReadInt reads a zig-zag encoded varint into a 32-bit int.
func ReadInt(r io.Reader) (int32, error) {
	v, err := readVarint(r)
	if err != nil {
		return 0, err
	}
	return int32(v>>1) ^ -int32(v&1), nil
}

// ReadLong reads a zig-zag encoded varint into a 64-bit long.
func ReadLong(r io.Reader) (int64, error) {
	v, err := readVarint(r)
	if err != nil {
		return 0, err
	}
	return int64(v>>1) ^ -int64(v&1), nil
}

func readVarint(r io.Reader) (uint64, error) {
	var v uint64
	var buf [1]byte
	for shift := uint(0); ; shift += 7 {
		if shift >= 70 {
			return 0, fmt.Errorf("varint too long")
		}
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		v |= uint64(buf[0]&0x7f) << shift
		if buf[0]&0x80 == 0 {
			break
		}
	}
	return v, nil
}

// WriteFloat writes a 32-bit float as little-endian IEEE-754.
func WriteFloat(w io.Writer, v float32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
	_, err := w.Write(buf[:])
	return err
}

// ReadFloat reads a little-endian IEEE-754 32-bit float.
func ReadFloat(r io.Reader) (float32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[:])), nil
}

// WriteDouble writes a 64-bit float as little-endian IEEE-754.
func WriteDouble(w io.Writer, v float64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	_, err := w.Write(buf[:])
	return err
}

// ReadDouble reads a little-endian IEEE-754 64-bit float.
func ReadDouble(r io.Reader) (float64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[:])), nil
}

// WriteBytes writes a length-prefixed byte string.
func WriteBytes(w io.Writer, b []byte) error {
	if err := WriteLong(w, int64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// ReadBytes reads a length-prefixed byte string, rejecting a length
// outside [0, maxLen].
func ReadBytes(r io.Reader, maxLen int64) ([]byte, error) {
	n, err := ReadLong(r)
	if err != nil {
		return nil, err
	}
	if n < 0 || n > maxLen {
		return nil, fmt.Errorf("bytes length %d out of range [0, %d]", n, maxLen)
	}
	if n == 0 {
		return []byte{}, nil
	}
	b := make([]byte, n)
	_, err = io.ReadFull(r, b)
	return b, err
}

// WriteString writes a length-prefixed UTF-8 string.
func WriteString(w io.Writer, s string) error {
	if err := WriteLong(w, int64(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// ReadString reads a length-prefixed UTF-8 string, rejecting a length
// outside [0, maxLen].
func ReadString(r io.Reader, maxLen int64) (string, error) {
	b, err := ReadBytes(r, maxLen)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteFixed writes exactly len(b) raw bytes, with no length prefix.
func WriteFixed(w io.Writer, b []byte) error {
	_, err := w.Write(b)
	return err
}

// ReadFixed reads exactly size raw bytes.
func ReadFixed(r io.Reader, size int) ([]byte, error) {
	b := make([]byte, size)
	_, err := io.ReadFull(r, b)
	return b, err
}

// ReadBlockCount reads one array/map block header and returns the number
// of items in the block. A negative count is followed by the block's byte
// size (which this codec does not need to skip, since it always decodes
// every item) and is negated to its item count, matching the wire form
// spec.md §3.3 describes for "when writers want to include the block's
// byte size before the block's actual contents". A zero count means the
// block sequence has ended.
func ReadBlockCount(r io.Reader, maxBlockBytes int64) (int64, error) {
	n, err := ReadLong(r)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		if _, err := ReadLong(r); err != nil { // block byte size, unused
			return 0, err
		}
		n = -n
	}
	if n > maxBlockBytes {
		return 0, fmt.Errorf("block count %d exceeds limit %d", n, maxBlockBytes)
	}
	return n, nil
}

// WriteBlockHeader writes a positive block count header (this codec never
// emits the negative-count-with-byte-size form).
func WriteBlockHeader(w io.Writer, count int64) error {
	return WriteLong(w, count)
}

// WriteBlockEnd writes the terminating zero-length block.
func WriteBlockEnd(w io.Writer) error {
	return WriteLong(w, 0)
}
