package helpers

const hexChars = "0123456789ABCDEF"

func needsEscape(c rune, asciiOnly bool) bool {
	if c < 0x7F {
		return c < 0x20 || c == '\\' || c == '"'
	}
	return asciiOnly || c == '\uFEFF' || (c >= 0xD800 && c <= 0xDFFF)
}

// Quotes a string so it is valid both as JSON and as a JavaScript string
// literal. Lone surrogates are escaped.
func QuoteForJSON(text string, asciiOnly bool) []byte {
	bytes := make([]byte, 0, len(text)+2)
	bytes = append(bytes, '"')

	for i := 0; i < len(text); {
		c, width := decodeWTF8Rune(text[i:])
		if width == 0 {
			break
		}
		if !needsEscape(c, asciiOnly) {
			bytes = append(bytes, text[i:i+width]...)
			i += width
			continue
		}
		i += width

		switch c {
		case '\b':
			bytes = append(bytes, `\b`...)
		case '\f':
			bytes = append(bytes, `\f`...)
		case '\n':
			bytes = append(bytes, `\n`...)
		case '\r':
			bytes = append(bytes, `\r`...)
		case '\t':
			bytes = append(bytes, `\t`...)
		case '\\':
			bytes = append(bytes, `\\`...)
		case '"':
			bytes = append(bytes, `\"`...)
		default:
			if c <= 0xFFFF {
				bytes = appendUnicodeEscape(bytes, c)
			} else {
				c -= 0x10000
				bytes = appendUnicodeEscape(bytes, 0xD800+((c>>10)&0x3FF))
				bytes = appendUnicodeEscape(bytes, 0xDC00+(c&0x3FF))
			}
		}
	}

	return append(bytes, '"')
}

func appendUnicodeEscape(bytes []byte, c rune) []byte {
	return append(bytes, '\\', 'u', hexChars[c>>12], hexChars[(c>>8)&15], hexChars[(c>>4)&15], hexChars[c&15])
}
