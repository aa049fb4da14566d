package form

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	floatPattern   = regexp.MustCompile(`^-?(?:\d+|\d+\.\d+|\.\d+)(?:[eE]-?\d+)?$`)
	integerPattern = regexp.MustCompile(`^-?\d+$`)
)

// ClassInvalid flags a field whose text failed its format guard.
const ClassInvalid = "invalid"

// IsFloat reports whether s is empty or a signed float. A trailing dot
// ("3.") is rejected.
func IsFloat(s string) bool {
	return s == "" || floatPattern.MatchString(s)
}

// IsInteger reports whether s is empty or a signed integer.
func IsInteger(s string) bool {
	return s == "" || integerPattern.MatchString(s)
}

// CheckFloat flags n invalid unless its trimmed text is empty or a finite
// float.
func CheckFloat(n *Node) {
	t := strings.TrimSpace(n.Text())
	_, ok := ParseFloat(t)
	setInvalid(n, t != "" && !ok)
}

// CheckInteger flags n invalid unless its trimmed text is empty or an
// integer that fits in 32 bits.
func CheckInteger(n *Node) {
	t := strings.TrimSpace(n.Text())
	_, ok := ParseInt32(t)
	setInvalid(n, t != "" && !ok)
}

func setInvalid(n *Node, invalid bool) {
	if invalid {
		n.AddClass(ClassInvalid)
		return
	}
	n.RemoveClass(ClassInvalid)
}

// ParseFloat parses trimmed field text. ok is false for empty text, text
// the float guard rejects and values that overflow to infinity.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !IsFloat(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseInt32 parses trimmed field text as a 32-bit integer. ok is false
// for empty text, text the integer guard rejects and out of range values.
func ParseInt32(s string) (int32, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !IsInteger(s) {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(v), true
}

// FormatFloat renders v rounded to 7 significant digits, in plain
// notation unless the magnitude calls for an exponent.
func FormatFloat(v float64) string {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 7, 64), 64)
	if err != nil {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	abs := math.Abs(r)
	if r != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strings.Replace(strconv.FormatFloat(r, 'e', -1, 64), "e+", "e", 1)
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// RoundFloats re-renders every parseable float field under root through
// FormatFloat.
func RoundFloats(root *Node) {
	root.Walk(func(n *Node) bool {
		if !n.HasClass("floattext") {
			return true
		}
		if v, ok := ParseFloat(n.Text()); ok {
			n.SetText(FormatFloat(v))
		}
		return true
	})
}
