package vm

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// decimalCoefficient rescales d to the schema's declared scale and returns
// its unscaled integer coefficient, ready for two's complement encoding.
func decimalCoefficient(d decimal.Decimal, scale int) *big.Int {
	target := int32(-scale)
	switch {
	case d.Exponent() > target:
		// d has fewer decimal places than the target scale; pad with
		// zeros by rescaling to the common (finer) exponent.
		d, _ = decimal.RescalePair(d, decimal.New(0, target))
	case d.Exponent() < target:
		// d has more decimal places than the target scale; truncate
		// (no rounding) down to it.
		d = d.Truncate(int32(scale))
	}
	return d.Coefficient()
}

// bigIntToTwosComplement renders v as a minimal-length big-endian two's
// complement byte string, the wire representation Avro's decimal logical
// type uses for its unscaled coefficient.
func bigIntToTwosComplement(v *big.Int) []byte {
	if v.Sign() == 0 {
		return []byte{0}
	}
	if v.Sign() > 0 {
		b := v.Bytes()
		if b[0]&0x80 != 0 {
			b = append([]byte{0}, b...)
		}
		return b
	}
	length := new(big.Int).Add(v, big.NewInt(1)).BitLen()/8 + 1
	mod := new(big.Int).Lsh(big.NewInt(1), uint(length*8))
	tc := new(big.Int).Add(mod, v)
	b := tc.Bytes()
	for len(b) < length {
		b = append([]byte{0xff}, b...)
	}
	return b
}

// bigIntFromTwosComplement parses a big-endian two's complement byte
// string back into a signed big.Int.
func bigIntFromTwosComplement(b []byte) *big.Int {
	if len(b) == 0 {
		return big.NewInt(0)
	}
	v := new(big.Int).SetBytes(b)
	if b[0]&0x80 != 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8))
		v.Sub(v, mod)
	}
	return v
}

// padTwosComplement left-pads (sign-extends) b to size bytes for a
// fixed-backed decimal, whose wire width is the fixed type's declared
// size regardless of the coefficient's natural length.
func padTwosComplement(b []byte, size int) []byte {
	if len(b) >= size {
		return b[len(b)-size:]
	}
	pad := byte(0)
	if len(b) > 0 && b[0]&0x80 != 0 {
		pad = 0xff
	}
	out := make([]byte, size)
	for i := 0; i < size-len(b); i++ {
		out[i] = pad
	}
	copy(out[size-len(b):], b)
	return out
}
