package textutil

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// CleanText trims a scraped text fragment, collapses inner whitespace
// and drops non-printable characters.
func CleanText(s string) string {
	out := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || c == ' ' {
			out.WriteRune(c)
		}
	}
	s = strings.Trim(out.String(), " \t\n")
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// glyphs stripped before numeric parsing. ل.س is the Syrian pound sign,
// ٬ and ٫ are the arabic thousands and decimal separators.
var numberStripper = strings.NewReplacer(
	",", "",
	"٬", "",
	"$", "",
	"€", "",
	"£", "",
	"%", "",
	"ل.س", "",
	" ", " ",
	"٫", ".",
)

// ParseNumber converts scraped price text into a float.
// The second return is false for empty or non-numeric input, callers
// must skip the candidate in that case rather than read it as zero.
func ParseNumber(text string) (float64, bool) {
	s := numberStripper.Replace(text)
	s = asciiDigits(s)
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// asciiDigits maps arabic-indic digits onto their ascii counterparts.
func asciiDigits(s string) string {
	if !strings.ContainsFunc(s, func(r rune) bool { return r >= '٠' && r <= '٩' }) {
		return s
	}
	out := strings.Builder{}
	for _, r := range s {
		if r >= '٠' && r <= '٩' {
			out.WriteRune('0' + (r - '٠'))
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}
