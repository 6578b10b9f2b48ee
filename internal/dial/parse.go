package dial

import "math"

// ParseInt reads a base-10 integer the way a form field would: leading
// whitespace is skipped, an optional sign is accepted, and digits are read
// up to the first non-digit. Anything without leading digits yields 0, as
// does a number that does not fit in an int.
func ParseInt(raw string) int {
	i := 0
	for i < len(raw) && isSpace(raw[i]) {
		i++
	}

	neg := false
	if i < len(raw) && (raw[i] == '+' || raw[i] == '-') {
		neg = raw[i] == '-'
		i++
	}

	n := 0
	digits := 0
	for ; i < len(raw) && raw[i] >= '0' && raw[i] <= '9'; i++ {
		d := int(raw[i] - '0')
		if n > (math.MaxInt-d)/10 {
			return 0
		}
		n = n*10 + d
		digits++
	}
	if digits == 0 {
		return 0
	}
	if neg {
		return -n
	}
	return n
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
