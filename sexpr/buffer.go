package sexpr

import (
	"encoding/binary"

	"github.com/opal-lang/sexpr/internal/config"
)

var bufferCfg = config.Load()

// atomCeiling is the effective maximum atom size this build enforces:
// the narrower of the wire format's 16-bit length field and any
// tighter limit set by SEXPR_CONFIG's max_atom_bytes.
func atomCeiling() int {
	if bufferCfg.MaxAtomBytes > 0 && bufferCfg.MaxAtomBytes < maxAtomLen {
		return bufferCfg.MaxAtomBytes
	}
	return maxAtomLen
}

// lenFieldSize is the width of the DATA/HINT length field on the wire.
const lenFieldSize = 2 // sizeof(datalen)

// builder is the growable tagged stream with a cursor that the parser
// writes into. It mirrors the C source's make_space_ctx: one backing
// allocation, a write cursor, and doubling growth.
type builder struct {
	buf   []byte
	pos   int
	class memoryClass
}

// newBuilder allocates a builder whose starting capacity is sourceLen
// bytes plus one spare length field. The internal form can outgrow
// that (a one-byte token becomes a four-byte DATA node, a %m directive
// expands to the whole MPI); ensure grows the buffer when it does.
func newBuilder(sourceLen int, class memoryClass) *builder {
	cap0 := sourceLen + lenFieldSize
	return &builder{
		buf:   obtainOrDie(cap0, class),
		pos:   0,
		class: class,
	}
}

// ensure guarantees at least extra bytes plus room for one length
// field plus one tag byte beyond the cursor, growing by doubling the
// requested slack exactly as spec.md §4.3 describes.
func (b *builder) ensure(extra int) {
	need := b.pos + extra + lenFieldSize + 1
	if need < len(b.buf) {
		return
	}
	newCap := len(b.buf) + 2*(extra+lenFieldSize+1)
	b.buf = growBlock(b.buf, newCap, b.class)
}

// upgradeToSensitive migrates the builder's backing storage to the
// sensitive class in place, preserving the cursor and written bytes.
// Called when a %m argument turns out to carry the sensitive flag
// and the tree being built is not sensitive yet.
func (b *builder) upgradeToSensitive() {
	if b.class == classSensitive {
		return
	}
	b.buf = upgradeToSensitive(b.buf)
	b.class = classSensitive
}

// emitTag writes a single bare tag byte (OPEN, CLOSE, or STOP).
func (b *builder) emitTag(t tag) {
	b.ensure(0)
	b.buf[b.pos] = byte(t)
	b.pos++
}

// emitData writes a DATA or HINT node: tag, 16-bit length, payload.
func (b *builder) emitData(t tag, payload []byte) error {
	if len(payload) > atomCeiling() {
		return &ParseError{Code: ErrAtomTooLarge}
	}
	b.ensure(len(payload))
	b.buf[b.pos] = byte(t)
	b.pos++
	binary.LittleEndian.PutUint16(b.buf[b.pos:], uint16(len(payload)))
	b.pos += lenFieldSize
	copy(b.buf[b.pos:], payload)
	b.pos += len(payload)
	return nil
}

// finish appends the terminating STOP tag and returns the built tree,
// normalized per spec.md invariant 3.
func (b *builder) finish() *Tree {
	b.emitTag(tagStop)
	t := &Tree{buf: b.buf[:b.pos], class: b.class}
	return normalize(t)
}

// abandon releases partially-built storage after a parse error,
// leaving the builder unusable — spec.md §5/§7 requires that the
// parser's buffer be in a releasable state before every error return.
func (b *builder) abandon() {
	releaseBlock(b.buf, b.class)
	b.buf = nil
}

// readDataLen reads the 16-bit length field at buf[pos:].
func readDataLen(buf []byte, pos int) int {
	return int(binary.LittleEndian.Uint16(buf[pos:]))
}
