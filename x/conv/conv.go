// Package conv holds allocation-light number formatting for MCU builds, where
// fmt and strconv are too heavy to pull in for a handful of display strings.
package conv

// AppendUint appends the base-10 representation of n to dst.
func AppendUint(dst []byte, n uint64) []byte {
	var tmp [20]byte
	i := len(tmp)
	for {
		i--
		tmp[i] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	return append(dst, tmp[i:]...)
}

// AppendCenti appends v/100 with exactly two fractional digits, e.g.
// 2105 -> "21.05", -50 -> "-0.50".
func AppendCenti(dst []byte, v int64) []byte {
	if v < 0 {
		dst = append(dst, '-')
		v = -v
	}
	dst = AppendUint(dst, uint64(v/100))
	frac := v % 100
	return append(dst, '.', byte('0'+frac/10), byte('0'+frac%10))
}

// AppendHex8 appends b as two uppercase hex digits.
func AppendHex8(dst []byte, b byte) []byte {
	const hexd = "0123456789ABCDEF"
	return append(dst, hexd[b>>4], hexd[b&0xF])
}
