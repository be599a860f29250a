package sexpr

// tokenChars is the exact character class spec.md §4.2 defines for a
// bare token: letters, digits, and `- . / _ : * + =`.
const tokenChars = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789-./_:*+="

func isTokenChar(b byte) bool {
	for i := 0; i < len(tokenChars); i++ {
		if tokenChars[i] == b {
			return true
		}
	}
	return false
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isOctalDigit(b byte) bool {
	return b >= '0' && b <= '7'
}

func isDecimalDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	default:
		return false
	}
}

// hexNibble converts one ASCII hex digit to its 0-15 value. Callers
// must have already verified isHexDigit.
func hexNibble(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return 10 + b - 'a'
	default: // 'A'-'F'
		return 10 + b - 'A'
	}
}

// hexByte decodes a case-insensitive hex digit pair into one byte.
// Callers must have already verified both digits with isHexDigit.
func hexByte(hi, lo byte) byte {
	return hexNibble(hi)<<4 | hexNibble(lo)
}

// octalByte decodes three octal digits (already validated with
// isOctalDigit) into one byte, per spec.md §4.2's `\NNN` escape.
func octalByte(d0, d1, d2 byte) byte {
	return (d0-'0')<<6 | (d1-'0')<<3 | (d2 - '0')
}
