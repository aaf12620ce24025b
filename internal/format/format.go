package format

import (
	"fmt"
	"strconv"
	"strings"
)

// SeparadorMiles groups digits with '.' every three positions, but only for
// values greater than 100; smaller values pass through as numbers. The
// threshold is a wire-compatibility quirk that downstream consumers rely on.
func SeparadorMiles(num int64) any {
	if num > 100 {
		return milesString(num)
	}
	return num
}

// Miles always returns a string, for call sites that concatenate the amount
// with a currency or a check digit.
func Miles(num int64) string {
	if num > 100 {
		return milesString(num)
	}
	return strconv.FormatInt(num, 10)
}

func milesString(num int64) string {
	s := strconv.FormatInt(num, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// MontoConMoneda renders "monto moneda", e.g. "150.000 CLP".
func MontoConMoneda(monto int64, moneda string) string {
	return Miles(monto) + " " + moneda
}

// DigitoVerificador computes the modulus-11 check digit of a Chilean RUT.
// Digits are consumed least-significant-first with weights 9,8,7,6,5,4
// repeating; the accumulator starts at 1 and the result is sum-1, or "k"
// when the accumulator lands on zero. DigitoVerificador(0) is "0".
func DigitoVerificador(rut int64) string {
	m := int64(0)
	s := int64(1)
	for t := rut; t > 0; t = t / 10 {
		s = (s + t%10*(9-m%6)) % 11
		m++
	}
	if s == 0 {
		return "k"
	}
	return strconv.FormatInt(s-1, 10)
}

// RutConDV renders "12.345.678-5".
func RutConDV(rut int64) string {
	return fmt.Sprintf("%s-%s", Miles(rut), DigitoVerificador(rut))
}
