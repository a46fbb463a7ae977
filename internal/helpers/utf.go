package helpers

import "unicode/utf8"

// Like "utf8.DecodeRuneInString" but also accepts encoded surrogate halves,
// which JavaScript strings may contain (WTF-8).
func decodeWTF8Rune(s string) (rune, int) {
	n := len(s)
	if n < 1 {
		return utf8.RuneError, 0
	}

	s0 := s[0]
	var size int
	var cp rune
	switch {
	case s0 < 0x80:
		return rune(s0), 1
	case s0&0xE0 == 0xC0:
		size, cp = 2, rune(s0&0x1F)
	case s0&0xF0 == 0xE0:
		size, cp = 3, rune(s0&0x0F)
	case s0&0xF8 == 0xF0:
		size, cp = 4, rune(s0&0x07)
	default:
		return utf8.RuneError, 1
	}
	if n < size {
		return utf8.RuneError, 0
	}

	for i := 1; i < size; i++ {
		if s[i]&0xC0 != 0x80 {
			return utf8.RuneError, 1
		}
		cp = cp<<6 | rune(s[i]&0x3F)
	}

	// Reject overlong encodings
	switch {
	case size == 2 && cp < 0x80,
		size == 3 && cp < 0x800,
		size == 4 && (cp < 0x10000 || cp > utf8.MaxRune):
		return utf8.RuneError, 1
	}
	return cp, size
}
