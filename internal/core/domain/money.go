package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is an amount in minor currency units (cents).
type Money int64

var errMoneyFormat = errors.New("amount must look like 1234 or 1234.56")

// ParseMoney reads a decimal amount with at most two fractional digits.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errMoneyFormat
	}
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, hasFrac := strings.Cut(s, ".")
	if !digits(whole) || (hasFrac && (!digits(frac) || len(frac) > 2)) {
		return 0, errMoneyFormat
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, errMoneyFormat
	}
	var cents int64
	if hasFrac {
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, errMoneyFormat
		}
	}
	if units > (math.MaxInt64-cents)/100 {
		return 0, errMoneyFormat
	}
	m := Money(units*100 + cents)
	if neg {
		m = -m
	}
	return m, nil
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
