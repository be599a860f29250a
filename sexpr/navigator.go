package sexpr

import (
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/opal-lang/sexpr/mpi"
)

// Length returns the number of direct elements of tree's top-level
// list: 0 for the null tree or a bare atom, otherwise the count of
// immediate children of the outermost OPEN, mirroring
// gcry_sexp_length.
func Length(t *Tree) int {
	if t == nil {
		return 0
	}
	children, ok := splitTopLevel(t)
	if !ok {
		return 0
	}
	return len(children)
}

// Nth returns the index-th direct element of tree's top-level list as
// a standalone tree, or nil if index is out of range or tree is not a
// list. Mirrors gcry_sexp_nth. An atom element comes back as a bare
// atom tree (its DATA node followed by STOP), not wrapped in a list; a
// sub-list element comes back as its full OPEN...CLOSE span.
func Nth(t *Tree, index int) *Tree {
	if t == nil || index < 0 {
		return nil
	}
	children, ok := splitTopLevel(t)
	if !ok || index >= len(children) {
		return nil
	}
	return wrapSpan(t, children[index])
}

// Car returns the first element of tree's top-level list, equivalent
// to Nth(t, 0). Mirrors gcry_sexp_car.
func Car(t *Tree) *Tree {
	return Nth(t, 0)
}

// Cdr returns tree with its first element removed, as a new list
// tree; the null tree if fewer than two elements remain. Mirrors
// gcry_sexp_cdr.
func Cdr(t *Tree) *Tree {
	if t == nil {
		return nil
	}
	children, ok := splitTopLevel(t)
	if !ok || len(children) < 2 {
		return nil
	}
	return wrapList(t, children[1:])
}

// Cadr returns the second element of tree's top-level list, equivalent
// to Car(Cdr(t)). Mirrors gcry_sexp_cadr.
func Cadr(t *Tree) *Tree {
	return Nth(t, 1)
}

// NthData returns the raw atom bytes of the index-th element if and
// only if that element is a bare DATA atom (not a sub-list); ok is
// false otherwise. Mirrors gcry_sexp_nth_data.
func NthData(t *Tree, index int) (data []byte, ok bool) {
	if t == nil || index < 0 {
		return nil, false
	}
	children, listOK := splitTopLevel(t)
	if !listOK || index >= len(children) {
		return nil, false
	}
	sp := children[index]
	if sp.tag != tagData {
		return nil, false
	}
	return t.buf[sp.dataStart:sp.dataEnd], true
}

// NthMPI parses the index-th element's raw atom bytes as a standard
// format big integer via the mpi package. Mirrors gcry_sexp_nth_mpi.
func NthMPI(t *Tree, index int) (*mpi.Int, error) {
	data, ok := NthData(t, index)
	if !ok {
		return nil, &ParseError{Code: ErrBadTopLevelChar}
	}
	return mpi.Scan(data, mpi.FormatDefault)
}

// FindToken performs a depth-first search through every OPEN list at
// any depth in tree, returning the first sub-list whose own first
// element is a DATA atom exactly equal to token. Mirrors
// gcry_sexp_find_token.
func FindToken(t *Tree, token string) *Tree {
	if t == nil {
		return nil
	}
	return findTokenAt(t, 0, []byte(token))
}

// FindTokenFuzzy is a supplemental lookup for interactive/diagnostic
// callers (not part of the wire-format contract): it returns the
// first top-level-reachable sub-list whose head atom fuzzy-matches
// token, using the same subsequence-matching algorithm as command
// palette / "did you mean" tooling.
func FindTokenFuzzy(t *Tree, token string) *Tree {
	if t == nil {
		return nil
	}
	var best *Tree
	walkLists(t, 0, func(pos int) bool {
		sp, ok := firstChildSpan(t, pos)
		if !ok || sp.tag != tagData {
			return true
		}
		head := string(t.buf[sp.dataStart:sp.dataEnd])
		if fuzzy.MatchFold(token, head) {
			best = wrapSpan(t, topLevelSpanAt(t, pos))
			return false
		}
		return true
	})
	return best
}

// span describes one top-level child's position within t.buf.
type span struct {
	tag       tag
	start     int // offset of the tag byte
	end       int // offset just past this element (for lists, past CLOSE)
	dataStart int // for tagData: offset of payload
	dataEnd   int // for tagData: offset just past payload
}

// splitTopLevel reports tree's immediate children if tree's root is a
// list (starts with OPEN); ok is false for a bare atom or null tree.
func splitTopLevel(t *Tree) (children []span, ok bool) {
	if t.Len() == 0 || t.buf[0] != byte(tagOpen) {
		return nil, false
	}
	pos := 1
	for t.buf[pos] != byte(tagClose) {
		sp := readSpan(t.buf, pos)
		children = append(children, sp)
		pos = sp.end
	}
	return children, true
}

// firstChildSpan returns the first child element of the list whose
// OPEN tag sits at t.buf[pos], if any.
func firstChildSpan(t *Tree, pos int) (span, bool) {
	if t.buf[pos] != byte(tagOpen) {
		return span{}, false
	}
	if t.buf[pos+1] == byte(tagClose) {
		return span{}, false
	}
	return readSpan(t.buf, pos+1), true
}

// topLevelSpanAt builds the span of the full list rooted at pos.
func topLevelSpanAt(t *Tree, pos int) span {
	return readSpan(t.buf, pos)
}

// readSpan reads one element (atom or nested list) starting at
// buf[pos], returning its extent. tagHint is handled alongside tagData
// for forward compatibility with a future producer of HINT nodes, but
// nothing in this parser ever emits one.
func readSpan(buf []byte, pos int) span {
	start := pos
	switch tag(buf[pos]) {
	case tagData, tagHint:
		n := readDataLen(buf, pos+1)
		dataStart := pos + 1 + lenFieldSize
		dataEnd := dataStart + n
		return span{tag: tag(buf[pos]), start: start, end: dataEnd, dataStart: dataStart, dataEnd: dataEnd}
	case tagOpen:
		depth := 1
		p := pos + 1
		for depth > 0 {
			switch tag(buf[p]) {
			case tagOpen:
				depth++
				p++
			case tagClose:
				depth--
				p++
			case tagData, tagHint:
				n := readDataLen(buf, p+1)
				p = p + 1 + lenFieldSize + n
			default:
				p++
			}
		}
		return span{tag: tagOpen, start: start, end: p}
	default:
		return span{tag: tag(buf[pos]), start: start, end: pos + 1}
	}
}

// wrapSpan materializes a standalone Tree for one child span, copying
// its bytes and appending a STOP tag; bare atoms are copied as-is
// since a DATA/HINT node is already self-delimiting.
func wrapSpan(parent *Tree, sp span) *Tree {
	raw := parent.buf[sp.start:sp.end]
	buf := obtainOrDie(len(raw)+1, parent.class)
	copy(buf, raw)
	buf[len(raw)] = byte(tagStop)
	return normalize(&Tree{buf: buf[:len(raw)+1], class: parent.class})
}

// wrapList materializes a standalone list Tree from a slice of
// sibling spans (all taken from the same parent), re-wrapping them in
// a fresh OPEN...CLOSE envelope.
func wrapList(parent *Tree, children []span) *Tree {
	if len(children) == 0 {
		return nil
	}
	start := children[0].start
	end := children[len(children)-1].end
	inner := parent.buf[start:end]
	buf := obtainOrDie(len(inner)+3, parent.class)
	buf[0] = byte(tagOpen)
	copy(buf[1:], inner)
	buf[1+len(inner)] = byte(tagClose)
	buf[2+len(inner)] = byte(tagStop)
	return normalize(&Tree{buf: buf[:3+len(inner)], class: parent.class})
}

// findTokenAt recursively searches every list at and below pos.
func findTokenAt(t *Tree, pos int, token []byte) *Tree {
	if t.buf[pos] != byte(tagOpen) {
		return nil
	}
	if sp, ok := firstChildSpan(t, pos); ok && sp.tag == tagData {
		if bytesEqual(t.buf[sp.dataStart:sp.dataEnd], token) {
			return wrapSpan(t, topLevelSpanAt(t, pos))
		}
	}
	p := pos + 1
	for t.buf[p] != byte(tagClose) {
		if t.buf[p] == byte(tagOpen) {
			if found := findTokenAt(t, p, token); found != nil {
				return found
			}
		}
		sp := readSpan(t.buf, p)
		p = sp.end
	}
	return nil
}

// walkLists visits pos and the start position of every nested list
// within it in depth-first order, calling visit(pos) for each; visit
// returns false to stop the walk early.
func walkLists(t *Tree, pos int, visit func(pos int) bool) bool {
	if t.buf[pos] != byte(tagOpen) {
		return true
	}
	if !visit(pos) {
		return false
	}
	p := pos + 1
	for t.buf[p] != byte(tagClose) {
		sp := readSpan(t.buf, p)
		if t.buf[p] == byte(tagOpen) {
			if !walkLists(t, p, visit) {
				return false
			}
		}
		p = sp.end
	}
	return true
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
