package common

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

func StringFromUint(n uint64) string {
	return strconv.FormatUint(n, 10)
}

// StringToBig parses a base 10 integer, returning nil when input is not one.
func StringToBig(input string) *big.Int {
	result, ok := new(big.Int).SetString(strings.TrimSpace(input), 10)
	if !ok {
		return nil
	}
	return result
}

// ParsePositive parses a user entered identifier or count. Anything but a
// positive base 10 integer is a validation error mentioning field.
func ParsePositive(field, input string) (*big.Int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, Validation("Please enter %s", field)
	}
	n := StringToBig(input)
	if n == nil || n.Sign() <= 0 {
		return nil, Validation("%s must be a positive integer", strings.ToUpper(field[:1])+field[1:])
	}
	return n, nil
}

// DisplayUint converts a contract integer for display only. Values beyond
// uint64 saturate, nil and negatives become 0.
func DisplayUint(n *big.Int) uint64 {
	if n == nil || n.Sign() < 0 {
		return 0
	}
	if !n.IsUint64() {
		return math.MaxUint64
	}
	return n.Uint64()
}

// DaysToSeconds converts a warranty duration entered in days.
func DaysToSeconds(days *big.Int) *big.Int {
	return new(big.Int).Mul(days, big.NewInt(SecondsPerDay))
}

func IsZero(n *big.Int) bool {
	return n == nil || n.Sign() == 0
}
