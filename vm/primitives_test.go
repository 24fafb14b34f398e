package vm_test

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avroc/avroc/vm"
)

func TestWriteLongMatchesKnownEncoding(t *testing.T) {
	// spec §8.3: the long 1234567890123 encodes to this exact zig-zag
	// varint byte sequence.
	var buf bytes.Buffer
	require.NoError(t, vm.WriteLong(&buf, 1234567890123))
	want, err := hex.DecodeString("86EAB0DCCC8C48")
	require.NoError(t, err)
	require.Equal(t, want, buf.Bytes())
}

func TestLongRoundTripsAcrossFullRange(t *testing.T) {
	values := []int64{0, 1, -1, 2, -2, 127, -127, 128, -128, 1 << 31, -(1 << 31), 1<<63 - 1, -(1 << 62)}
	for _, v := range values {
		var buf bytes.Buffer
		require.NoError(t, vm.WriteLong(&buf, v))
		got, err := vm.ReadLong(&buf)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestIntRoundTripsAcrossFullRange(t *testing.T) {
	values := []int32{0, 1, -1, 1 << 30, -(1 << 30), 1<<31 - 1, -(1 << 31)}
	for _, v := range values {
		var buf bytes.Buffer
		require.NoError(t, vm.WriteInt(&buf, v))
		got, err := vm.ReadInt(&buf)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestFloatRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, vm.WriteFloat(&buf, 3.14))
	got, err := vm.ReadFloat(&buf)
	require.NoError(t, err)
	require.Equal(t, float32(3.14), got)
}

func TestDoubleRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, vm.WriteDouble(&buf, 2.71828))
	got, err := vm.ReadDouble(&buf)
	require.NoError(t, err)
	require.Equal(t, 2.71828, got)
}

func TestBytesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, vm.WriteBytes(&buf, []byte("hello")))
	got, err := vm.ReadBytes(&buf, vm.DefaultMaxBlockBytes)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)
}

func TestReadBytesRejectsLengthAboveLimit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, vm.WriteBytes(&buf, make([]byte, 100)))
	_, err := vm.ReadBytes(&buf, 10)
	require.Error(t, err)
}

func TestReadBytesRejectsNegativeLength(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, vm.WriteLong(&buf, -1))
	_, err := vm.ReadBytes(&buf, vm.DefaultMaxBlockBytes)
	require.Error(t, err)
}

func TestStringRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, vm.WriteString(&buf, "avro"))
	got, err := vm.ReadString(&buf, vm.DefaultMaxBlockBytes)
	require.NoError(t, err)
	require.Equal(t, "avro", got)
}

func TestFixedRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, vm.WriteFixed(&buf, []byte{1, 2, 3, 4}))
	got, err := vm.ReadFixed(&buf, 4)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, got)
}

func TestBlockCountPositiveForm(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, vm.WriteBlockHeader(&buf, 5))
	n, err := vm.ReadBlockCount(&buf, vm.DefaultMaxBlockBytes)
	require.NoError(t, err)
	require.Equal(t, int64(5), n)
}

func TestBlockCountNegativeFormWithByteSize(t *testing.T) {
	// A writer that wants to include the block's byte size encodes the
	// count as a negative long followed by that byte-size long; the
	// reader negates the count and discards the size.
	var buf bytes.Buffer
	require.NoError(t, vm.WriteLong(&buf, -3))
	require.NoError(t, vm.WriteLong(&buf, 42)) // block byte size, unused
	n, err := vm.ReadBlockCount(&buf, vm.DefaultMaxBlockBytes)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
}

func TestBlockCountZeroEndsSequence(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, vm.WriteBlockEnd(&buf))
	n, err := vm.ReadBlockCount(&buf, vm.DefaultMaxBlockBytes)
	require.NoError(t, err)
	require.Equal(t, int64(0), n)
}

func TestReadVarintRejectsMalformedOverlongEncoding(t *testing.T) {
	// 10 continuation bytes with the high bit always set never
	// terminates; readVarint must bail out instead of hanging.
	buf := bytes.NewReader(bytes.Repeat([]byte{0xff}, 12))
	_, err := vm.ReadLong(buf)
	require.Error(t, err)
}
