/*
Package fixed implements an exact, non-negative decimal number type for
accumulator style accounting.

Dec is a big integer scaled by 18 decimal digits. All operations either
return an exact result or fail. A result that would exceed 256 bits fails
with ErrOverflow and a subtraction that would go below zero fails with
ErrUnderflow. There is no silent wrapping and no hidden rounding, the only
rounding step is the explicit round toward zero in QuoInt and FromRatio.

Dec implements the gogoprotobuf custom type interface so it can be declared
in protobuf messages as

	bytes dist_index = 4 [(gogoproto.customtype) = "github.com/iov-one/rill/fixed.Dec", (gogoproto.nullable) = false];

The zero value of Dec is a valid representation of zero.
*/
package fixed

import (
	"math/big"
	"math/bits"

	"github.com/iov-one/rill/errors"
)

// Digits is the number of decimal fractional digits carried by a Dec.
const Digits = 18

var (
	// unit is the scaling factor, 10^Digits.
	unit = new(big.Int).Exp(big.NewInt(10), big.NewInt(Digits), nil)

	// maxScaled is the highest allowed scaled value. Capping at 256 bits
	// keeps the serialized form bound to 32 bytes.
	maxScaled = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
)

// Dec is a non-negative decimal number with Digits fractional digits of
// precision. Use the package functions to create instances. Operations do
// not modify their receiver but return a new value.
type Dec struct {
	// i is the value multiplied by unit. A nil pointer represents zero so
	// that the zero value of Dec is usable.
	i *big.Int
}

// Zero returns a zero value decimal.
func Zero() Dec {
	return Dec{}
}

// FromInt64 returns a decimal representing given whole number.
func FromInt64(n int64) (Dec, error) {
	if n < 0 {
		return Dec{}, errors.Wrap(errors.ErrUnderflow, "negative value")
	}
	return Dec{i: new(big.Int).Mul(big.NewInt(n), unit)}, nil
}

// FromRatio returns a decimal representing num/den with a single rounding
// step toward zero.
func FromRatio(num, den int64) (Dec, error) {
	if den == 0 {
		return Dec{}, errors.Wrap(errors.ErrInvalidInput, "zero division")
	}
	if num < 0 || den < 0 {
		return Dec{}, errors.Wrap(errors.ErrUnderflow, "negative value")
	}
	v := new(big.Int).Mul(big.NewInt(num), unit)
	v.Quo(v, big.NewInt(den))
	return Dec{i: v}, nil
}

// value returns the scaled integer, never nil.
func (d Dec) value() *big.Int {
	if d.i == nil {
		return new(big.Int)
	}
	return d.i
}

// checked returns the decimal or an overflow error if the scaled value
// exceeds the 256 bit cap.
func checked(v *big.Int) (Dec, error) {
	if v.Cmp(maxScaled) > 0 {
		return Dec{}, errors.Wrap(errors.ErrOverflow, "decimal out of range")
	}
	return Dec{i: v}, nil
}

// Add returns the sum of both decimals.
func (d Dec) Add(o Dec) (Dec, error) {
	return checked(new(big.Int).Add(d.value(), o.value()))
}

// Sub returns the difference of both decimals. Because a decimal cannot
// represent a negative value, subtracting a bigger from a smaller value
// fails with ErrUnderflow.
func (d Dec) Sub(o Dec) (Dec, error) {
	v := new(big.Int).Sub(d.value(), o.value())
	if v.Sign() < 0 {
		return Dec{}, errors.Wrap(errors.ErrUnderflow, "negative result")
	}
	return Dec{i: v}, nil
}

// MulInt returns the decimal multiplied by a whole number.
func (d Dec) MulInt(n int64) (Dec, error) {
	if n < 0 {
		return Dec{}, errors.Wrap(errors.ErrUnderflow, "negative multiplier")
	}
	return checked(new(big.Int).Mul(d.value(), big.NewInt(n)))
}

// QuoInt returns the decimal divided by a whole number, rounding toward
// zero.
func (d Dec) QuoInt(n int64) (Dec, error) {
	if n == 0 {
		return Dec{}, errors.Wrap(errors.ErrInvalidInput, "zero division")
	}
	if n < 0 {
		return Dec{}, errors.Wrap(errors.ErrUnderflow, "negative divisor")
	}
	return Dec{i: new(big.Int).Quo(d.value(), big.NewInt(n))}, nil
}

// Split separates the decimal into its whole part and the fractional
// remainder. It fails if the whole part does not fit an int64.
func (d Dec) Split() (int64, Dec, error) {
	whole, frac := new(big.Int).QuoRem(d.value(), unit, new(big.Int))
	if !whole.IsInt64() {
		return 0, Dec{}, errors.Wrap(errors.ErrOverflow, "whole part out of range")
	}
	return whole.Int64(), Dec{i: frac}, nil
}

// IsZero returns true if this decimal represents no value.
func (d Dec) IsZero() bool {
	return d.i == nil || d.i.Sign() == 0
}

// Compare returns an integer comparing two decimals. The result is 0 if
// d == o, -1 if d < o and +1 if d > o.
func (d Dec) Compare(o Dec) int {
	return d.value().Cmp(o.value())
}

// Equal returns true if both decimals represent the same value. This
// method is required by the protobuf generated code.
func (d Dec) Equal(o Dec) bool {
	return d.Compare(o) == 0
}

// String returns the decimal notation of this value with trailing zeros of
// the fractional part removed.
func (d Dec) String() string {
	whole, frac := new(big.Int).QuoRem(d.value(), unit, new(big.Int))
	if frac.Sign() == 0 {
		return whole.String()
	}
	digits := frac.String()
	for len(digits) < Digits {
		digits = "0" + digits
	}
	for digits[len(digits)-1] == '0' {
		digits = digits[:len(digits)-1]
	}
	return whole.String() + "." + digits
}

// Marshal implements the gogoproto custom type interface. Serialized form
// is the big-endian byte representation of the scaled value.
func (d Dec) Marshal() ([]byte, error) {
	return d.value().Bytes(), nil
}

// MarshalTo implements the gogoproto custom type interface.
func (d Dec) MarshalTo(data []byte) (int, error) {
	raw := d.value().Bytes()
	copy(data, raw)
	return len(raw), nil
}

// Size implements the gogoproto custom type interface.
func (d Dec) Size() int {
	return len(d.value().Bytes())
}

// Unmarshal implements the gogoproto custom type interface.
func (d *Dec) Unmarshal(data []byte) error {
	v := new(big.Int).SetBytes(data)
	if v.Cmp(maxScaled) > 0 {
		return errors.Wrap(errors.ErrOverflow, "decimal out of range")
	}
	d.i = v
	return nil
}

// MulRatio computes amount*num/den with an exact 128 bit intermediate and
// a single rounding step toward zero. All arguments must be non-negative
// and den must not be zero.
func MulRatio(amount, num, den int64) (int64, error) {
	if den == 0 {
		return 0, errors.Wrap(errors.ErrInvalidInput, "zero division")
	}
	if amount < 0 || num < 0 || den < 0 {
		return 0, errors.Wrap(errors.ErrUnderflow, "negative value")
	}
	hi, lo := bits.Mul64(uint64(amount), uint64(num))
	if hi >= uint64(den) {
		return 0, errors.Wrap(errors.ErrOverflow, "quotient out of range")
	}
	quo, _ := bits.Div64(hi, lo, uint64(den))
	if quo > uint64(1<<63-1) {
		return 0, errors.Wrap(errors.ErrOverflow, "quotient out of range")
	}
	return int64(quo), nil
}
