package helpers

import "unicode/utf8"

const hexChars = "0123456789ABCDEF"

// QuoteForJS returns a JavaScript string literal for "text" using the given
// quote character. Only the characters that cannot appear unescaped inside a
// string literal are escaped, so non-ASCII text passes through unchanged.
func QuoteForJS(text string, quoteChar byte) []byte {
	bytes := make([]byte, 0, len(text)+2)
	bytes = append(bytes, quoteChar)

	for i := 0; i < len(text); {
		c, width := utf8.DecodeRuneInString(text[i:])
		i += width

		switch c {
		case '\b':
			bytes = append(bytes, "\\b"...)
		case '\f':
			bytes = append(bytes, "\\f"...)
		case '\n':
			bytes = append(bytes, "\\n"...)
		case '\r':
			bytes = append(bytes, "\\r"...)
		case '\t':
			bytes = append(bytes, "\\t"...)
		case '\v':
			bytes = append(bytes, "\\v"...)
		case '\\':
			bytes = append(bytes, "\\\\"...)

		case '"', '\'':
			if byte(c) == quoteChar {
				bytes = append(bytes, '\\')
			}
			bytes = append(bytes, byte(c))

		// These are line terminators in JavaScript source
		case '\u2028', '\u2029':
			bytes = appendUnicodeEscape(bytes, c)

		default:
			switch {
			case c == utf8.RuneError && width == 1:
				bytes = appendUnicodeEscape(bytes, rune(text[i-1]))
			case c < 0x20 || c == 0x7F:
				bytes = append(bytes, '\\', 'x', hexChars[c>>4], hexChars[c&15])
			default:
				bytes = append(bytes, text[i-width:i]...)
			}
		}
	}

	return append(bytes, quoteChar)
}

func appendUnicodeEscape(bytes []byte, c rune) []byte {
	return append(bytes, '\\', 'u', hexChars[c>>12], hexChars[(c>>8)&15], hexChars[(c>>4)&15], hexChars[c&15])
}
