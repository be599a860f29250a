package sexpr

import (
	"fmt"
	"io"
)

// Mode selects canonical or advanced (human-readable) serialization,
// mirroring the two output modes of gcry_sexp_sprint.
type Mode int

const (
	// ModeCanonical emits the exact wire format: "(tag len:data...)"
	// with no extra whitespace.
	ModeCanonical Mode = iota
	// ModeAdvanced emits the same structure but appends a newline
	// after every CLOSE, for readability.
	ModeAdvanced
)

// Serialize renders tree into buf starting at offset 0, returning the
// number of bytes written. If buf is too small, it returns the
// required length and a non-nil error; callers should grow buf and
// retry, matching gcry_sexp_sprint's two-call sizing convention.
func Serialize(tree *Tree, mode Mode, buf []byte) (int, error) {
	n := serializedLen(tree, mode)
	if len(buf) < n {
		return n, fmt.Errorf("sexpr: buffer too small, need %d bytes", n)
	}
	pos := writeNode(tree, 0, mode, buf, 0)
	return pos, nil
}

// serializedLen computes the exact canonical/advanced byte length of
// tree without allocating, the same two-pass strategy
// gcry_sexp_sprint uses when called with a nil buffer.
func serializedLen(tree *Tree, mode Mode) int {
	if tree.Len() == 0 {
		return len("()")
	}
	return measureNode(tree, 0, mode)
}

func measureNode(t *Tree, pos int, mode Mode) int {
	switch tag(t.buf[pos]) {
	case tagData:
		n := readDataLen(t.buf, pos+1)
		return len(lenPrefix(n)) + 1 + n
	case tagOpen:
		total := 1 // "("
		p := pos + 1
		for t.buf[p] != byte(tagClose) {
			total += measureNode(t, p, mode)
			p = spanEnd(t.buf, p)
		}
		total += 1 // ")"
		if mode == ModeAdvanced {
			total += 1 // "\n"
		}
		return total
	default:
		// tagHint never reaches here: the parser discards display hints
		// rather than emitting a node for them (matches
		// gcry_sexp_sscan), so no canonical-form output path needs to
		// render one.
		return 0
	}
}

func writeNode(t *Tree, pos int, mode Mode, buf []byte, out int) int {
	if t.Len() == 0 {
		out += copy(buf[out:], "()")
		return out
	}
	return writeNodeAt(t, pos, mode, buf, out)
}

func writeNodeAt(t *Tree, pos int, mode Mode, buf []byte, out int) int {
	switch tag(t.buf[pos]) {
	case tagData:
		n := readDataLen(t.buf, pos+1)
		out += copy(buf[out:], lenPrefix(n))
		out += copy(buf[out:], ":")
		out += copy(buf[out:], t.buf[pos+1+lenFieldSize:pos+1+lenFieldSize+n])
		return out
	case tagOpen:
		out += copy(buf[out:], "(")
		p := pos + 1
		for t.buf[p] != byte(tagClose) {
			out = writeNodeAt(t, p, mode, buf, out)
			p = spanEnd(t.buf, p)
		}
		out += copy(buf[out:], ")")
		if mode == ModeAdvanced {
			out += copy(buf[out:], "\n")
		}
		return out
	}
	return out
}

func spanEnd(buf []byte, pos int) int {
	sp := readSpan(buf, pos)
	return sp.end
}

func lenPrefix(n int) string {
	return fmt.Sprintf("%d", n)
}

// Dump writes a verbose, indented diagnostic rendering of tree to w,
// showing tag boundaries and escaping non-printable atom bytes;
// mirrors gcry_sexp_dump. It is a debugging aid, not a wire format —
// its output is never intended to be re-parsed.
func Dump(tree *Tree, w io.Writer) {
	if tree.Len() == 0 {
		fmt.Fprintln(w, "[empty]")
		return
	}
	dumpNode(tree, 0, 0, w)
}

func dumpNode(t *Tree, pos int, depth int, w io.Writer) int {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	switch tag(t.buf[pos]) {
	case tagData:
		n := readDataLen(t.buf, pos+1)
		payload := t.buf[pos+1+lenFieldSize : pos+1+lenFieldSize+n]
		fmt.Fprintf(w, "%s[data=\"%s\"]\n", indent, escapeForDump(payload))
		return pos + 1 + lenFieldSize + n
	case tagOpen:
		fmt.Fprintf(w, "%s[open]\n", indent)
		p := pos + 1
		for t.buf[p] != byte(tagClose) {
			p = dumpNode(t, p, depth+1, w)
		}
		fmt.Fprintf(w, "%s[close]\n", indent)
		return p + 1
	default:
		return pos + 1
	}
}

// escapeForDump renders non-printable or structurally ambiguous bytes
// as backslash escapes, matching the C source's dump_hexvalue/
// dump_string choice of '\xx' for anything outside printable ASCII.
func escapeForDump(data []byte) string {
	out := make([]byte, 0, len(data))
	for _, c := range data {
		switch {
		case c == '"' || c == '\\':
			out = append(out, '\\', c)
		case c >= 0x20 && c < 0x7f:
			out = append(out, c)
		default:
			out = append(out, []byte(fmt.Sprintf("\\x%02x", c))...)
		}
	}
	return string(out)
}
