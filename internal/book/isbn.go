package book

import "strings"

// ValidISBN reports whether candidate has the structural shape of a 10- or
// 13-digit ISBN. Hyphens and spaces are ignored. A 10-digit ISBN may end in
// "X". Check digits are deliberately not verified; the catalog provider is
// the authority on whether the number resolves to a book.
func ValidISBN(candidate string) bool {
	cleaned := strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return -1
		}
		return r
	}, candidate)

	switch len(cleaned) {
	case 10:
		last := cleaned[9]
		if !allDigits(cleaned[:9]) {
			return false
		}
		return last == 'X' || last == 'x' || (last >= '0' && last <= '9')
	case 13:
		return allDigits(cleaned)
	default:
		return false
	}
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
