package sexpr

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/opal-lang/sexpr/mpi"
)

// ArgKind tags the payload of a variadic Arg, the Go stand-in for the
// C source's va_list consumption of %m/%s/%d directives (spec.md §9,
// "Representing variadic template arguments").
type ArgKind int

const (
	ArgKindMPI ArgKind = iota
	ArgKindString
	ArgKindInt
)

// Arg is one runtime argument consumed left-to-right as ParseTemplate
// walks %-directives in its format string.
type Arg struct {
	Kind ArgKind
	MPI  *mpi.Int
	Str  string
	Int  int
}

// ArgMPI builds an Arg carrying a big integer for a %m directive.
func ArgMPI(v *mpi.Int) Arg { return Arg{Kind: ArgKindMPI, MPI: v} }

// ArgString builds an Arg carrying a string for a %s directive.
func ArgString(s string) Arg { return Arg{Kind: ArgKindString, Str: s} }

// ArgInt builds an Arg carrying an integer for a %d directive.
func ArgInt(i int) Arg { return Arg{Kind: ArgKindInt, Int: i} }

// Parse scans buf as an S-expression with no template arguments. It
// is the Go equivalent of gcry_sexp_sscan.
func Parse(buf []byte) (*Tree, error) {
	return ParseTemplate(buf)
}

// ParseTemplate scans buf, which may contain %m/%s/%d directives,
// consuming args left to right as each directive is encountered. With
// zero args it behaves exactly like Parse. On error it returns a
// *ParseError carrying the stable code and byte offset from spec.md
// §4.4/§7; any partially-built tree storage is released before
// returning.
func ParseTemplate(buf []byte, args ...Arg) (*Tree, error) {
	p := &parser{
		src:     buf,
		args:    args,
		allowFmt: true,
		b:       newBuilder(len(buf), classOrdinary),
	}
	if len(args) == 0 {
		// Matches gcry_sexp_sscan, which passes a nil arg_ptr and so
		// disallows '%' entirely (top-level dispatch rule 13).
		p.allowFmt = false
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		logger.Debug("parse start", "bytes", len(buf), "args", len(args))
	}
	tree, err := p.run()
	if err != nil {
		p.b.abandon()
		return nil, err
	}
	return tree, nil
}

// state is the lexer's current "inside" mode; at most one is active
// at a time, per spec.md §4.4.
type state int

const (
	stTopLevel state = iota
	stToken
	stQuoted
	stHex
	stBase64
	stLength
	stPercent
	stDispHint
)

type parser struct {
	src      []byte
	args     []Arg
	argi     int
	allowFmt bool
	b        *builder

	st state

	tokenStart  int // stToken: index of first token byte
	quotedEsc   bool
	quotedBuf   []byte // stQuoted: accumulated unescaped payload
	hexStart    int    // stHex: index just after '#'
	hexCount    int
	lengthStart int // stLength: index of first digit
	dispHintAt  int // stDispHint: index of '['
}

func (p *parser) run() (*Tree, error) {
	i := 0
	for i < len(p.src) {
		n, err := p.step(i)
		if err != nil {
			return nil, err
		}
		i = n
	}
	if err := p.checkClosed(len(p.src)); err != nil {
		return nil, err
	}
	return p.b.finish(), nil
}

// checkClosed enforces spec.md §4.4's termination rule: no inside
// state may remain open once input is exhausted.
func (p *parser) checkClosed(end int) error {
	switch p.st {
	case stToken:
		// A dangling token is fine: it is flushed as a DATA node by
		// whatever dispatch would have followed it. Flush it here.
		return p.flushToken(end)
	case stQuoted:
		return parseErrorAt(ErrBadQuotedEscape, end)
	case stHex:
		return parseErrorAt(ErrBadHexChar, end)
	case stBase64:
		return parseErrorAt(ErrUnrecognizedByte, end)
	case stLength:
		return parseErrorAt(ErrBadTopLevelChar, end)
	case stPercent:
		return parseErrorAt(ErrBadFormatArg, end)
	case stDispHint:
		return parseErrorAt(ErrUnmatchedHint, end)
	}
	return nil
}

func (p *parser) flushToken(end int) error {
	if err := p.b.emitData(tagData, p.src[p.tokenStart:end]); err != nil {
		return err
	}
	p.st = stTopLevel
	return nil
}

// step processes the byte at index i, possibly consuming more than
// one byte (length-prefixed atoms, hex runs, etc.), and returns the
// index of the next byte to process.
func (p *parser) step(i int) (int, error) {
	c := p.src[i]

	switch p.st {
	case stToken:
		if isTokenChar(c) {
			return i + 1, nil
		}
		if err := p.flushToken(i); err != nil {
			return 0, err
		}
		return p.step(i) // re-dispatch this byte at top level

	case stQuoted:
		return p.stepQuoted(i)

	case stHex:
		return p.stepHex(i)

	case stBase64:
		if c == '|' {
			p.st = stTopLevel
		}
		return i + 1, nil

	case stLength:
		return p.stepLength(i)

	case stPercent:
		return p.stepPercent(i)

	case stDispHint:
		if c == '(' || c == ')' {
			return 0, parseErrorAt(ErrReservedPunct, i)
		}
		if c == '[' {
			return 0, parseErrorAt(ErrNestedDisplayHint, i)
		}
		if c == ']' {
			// Matches gcry_sexp_sscan's scan loop: a display hint is
			// scanned and discarded, never emitted as a tag of its own.
			// tagHint stays defined for future use but nothing in this
			// parser ever writes one.
			p.dispHintAt = 0
			p.st = stTopLevel
		}
		return i + 1, nil
	}

	return p.stepTopLevel(i)
}

func (p *parser) stepTopLevel(i int) (int, error) {
	c := p.src[i]
	switch {
	case c == '(':
		p.b.emitTag(tagOpen)
		return i + 1, nil
	case c == ')':
		p.b.emitTag(tagClose)
		return i + 1, nil
	case c == '"':
		p.st = stQuoted
		p.quotedEsc = false
		return i + 1, nil
	case c == '#':
		p.st = stHex
		p.hexStart = i + 1
		p.hexCount = 0
		return i + 1, nil
	case c == '|':
		p.st = stBase64
		return i + 1, nil
	case c == '[':
		p.st = stDispHint
		p.dispHintAt = i + 1
		return i + 1, nil
	case c == ']':
		return 0, parseErrorAt(ErrUnmatchedHint, i)
	case c == '0':
		return 0, parseErrorAt(ErrLeadingZeroLength, i)
	case isDecimalDigit(c):
		p.st = stLength
		p.lengthStart = i
		return i + 1, nil
	case isTokenChar(c):
		p.st = stToken
		p.tokenStart = i
		return i + 1, nil
	case isSpace(c):
		return i + 1, nil
	case c == '{':
		return 0, parseErrorAt(ErrReservedPunct, i)
	case c == '&' || c == '\\':
		return 0, parseErrorAt(ErrReservedPunct, i)
	case c == '%':
		if !p.allowFmt {
			return 0, parseErrorAt(ErrBadTopLevelChar, i)
		}
		p.st = stPercent
		return i + 1, nil
	default:
		return 0, parseErrorAt(ErrUnrecognizedByte, i)
	}
}

func (p *parser) stepQuoted(i int) (int, error) {
	c := p.src[i]
	if p.quotedEsc {
		p.quotedEsc = false
		return p.stepQuotedEscape(i)
	}
	switch c {
	case '\\':
		p.quotedEsc = true
		return i + 1, nil
	case '"':
		// Resolved per spec.md §9: quoted atoms DO emit a DATA node
		// (the unescaped bytes between the opening '"' and here have
		// been accumulated in quotedBuf by the default branch and the
		// escape handling below; the builder is written only now).
		if err := p.b.emitData(tagData, p.quotedBuf); err != nil {
			return 0, err
		}
		p.quotedBuf = nil
		p.st = stTopLevel
		return i + 1, nil
	default:
		p.quotedBuf = append(p.quotedBuf, c)
		return i + 1, nil
	}
}

func (p *parser) stepQuotedEscape(i int) (int, error) {
	c := p.src[i]
	switch c {
	case 'b':
		p.quotedBuf = append(p.quotedBuf, '\b')
		return i + 1, nil
	case 't':
		p.quotedBuf = append(p.quotedBuf, '\t')
		return i + 1, nil
	case 'v':
		p.quotedBuf = append(p.quotedBuf, '\v')
		return i + 1, nil
	case 'n':
		p.quotedBuf = append(p.quotedBuf, '\n')
		return i + 1, nil
	case 'f':
		p.quotedBuf = append(p.quotedBuf, '\f')
		return i + 1, nil
	case 'r':
		p.quotedBuf = append(p.quotedBuf, '\r')
		return i + 1, nil
	case '"', '\'', '\\':
		p.quotedBuf = append(p.quotedBuf, c)
		return i + 1, nil
	case '0', '1', '2', '3', '4', '5', '6', '7':
		if i+2 >= len(p.src) || !isOctalDigit(p.src[i+1]) || !isOctalDigit(p.src[i+2]) {
			return 0, parseErrorAt(ErrBadQuotedEscape, i)
		}
		p.quotedBuf = append(p.quotedBuf, octalByte(c, p.src[i+1], p.src[i+2]))
		return i + 3, nil
	case 'x':
		if i+2 >= len(p.src) || !isHexDigit(p.src[i+1]) || !isHexDigit(p.src[i+2]) {
			return 0, parseErrorAt(ErrBadQuotedEscape, i)
		}
		p.quotedBuf = append(p.quotedBuf, hexByte(p.src[i+1], p.src[i+2]))
		return i + 3, nil
	case '\r':
		if i+1 < len(p.src) && p.src[i+1] == '\n' {
			return i + 2, nil
		}
		return i + 1, nil
	case '\n':
		if i+1 < len(p.src) && p.src[i+1] == '\r' {
			return i + 2, nil
		}
		return i + 1, nil
	default:
		return 0, parseErrorAt(ErrBadQuotedEscape, i)
	}
}

func (p *parser) stepHex(i int) (int, error) {
	c := p.src[i]
	switch {
	case isHexDigit(c):
		p.hexCount++
		return i + 1, nil
	case c == '#':
		if p.hexCount&1 != 0 {
			return 0, parseErrorAt(ErrOddHexDigits, i)
		}
		payload := make([]byte, 0, p.hexCount/2)
		for j := p.hexStart; j < i; j++ {
			if isSpace(p.src[j]) {
				continue
			}
			hi := p.src[j]
			j++
			for j < i && isSpace(p.src[j]) {
				j++
			}
			lo := p.src[j]
			payload = append(payload, hexByte(hi, lo))
		}
		if err := p.b.emitData(tagData, payload); err != nil {
			return 0, err
		}
		p.st = stTopLevel
		return i + 1, nil
	case isSpace(c):
		return i + 1, nil
	default:
		return 0, parseErrorAt(ErrBadHexChar, i)
	}
}

func (p *parser) stepLength(i int) (int, error) {
	c := p.src[i]
	switch {
	case isDecimalDigit(c):
		return i + 1, nil
	case c == ':':
		n, err := strconv.Atoi(string(p.src[p.lengthStart:i]))
		if err != nil {
			return 0, parseErrorAt(ErrBadTopLevelChar, i)
		}
		remaining := len(p.src) - (i + 1)
		if n > remaining {
			return 0, parseErrorAt(ErrLengthOverflow, i)
		}
		if err := p.b.emitData(tagData, p.src[i+1:i+1+n]); err != nil {
			return 0, err
		}
		p.st = stTopLevel
		return i + 1 + n, nil
	case c == '"':
		p.st = stQuoted
		p.quotedEsc = false
		return i + 1, nil
	case c == '#':
		p.st = stHex
		p.hexStart = i + 1
		p.hexCount = 0
		return i + 1, nil
	case c == '|':
		p.st = stBase64
		return i + 1, nil
	default:
		return 0, parseErrorAt(ErrBadTopLevelChar, i)
	}
}

func (p *parser) stepPercent(i int) (int, error) {
	c := p.src[i]
	switch c {
	case 'm':
		if err := p.consumeMPIArg(i); err != nil {
			return 0, err
		}
	case 's':
		if err := p.consumeStringArg(i); err != nil {
			return 0, err
		}
	case 'd':
		if err := p.consumeIntArg(i); err != nil {
			return 0, err
		}
	default:
		return 0, parseErrorAt(ErrBadFormatArg, i)
	}
	p.st = stTopLevel
	return i + 1, nil
}

func (p *parser) nextArg(i int) (Arg, error) {
	if p.argi >= len(p.args) {
		return Arg{}, parseErrorAt(ErrBadFormatArg, i)
	}
	a := p.args[p.argi]
	p.argi++
	return a, nil
}

func (p *parser) consumeMPIArg(i int) error {
	a, err := p.nextArg(i)
	if err != nil {
		return err
	}
	if a.Kind != ArgKindMPI {
		return parseErrorAt(ErrBadFormatArg, i)
	}
	encoded, err := mpi.Print(a.MPI, mpi.FormatDefault)
	if err != nil {
		return parseErrorAt(ErrBadFormatArg, i)
	}
	if a.MPI.Sensitive() {
		p.b.upgradeToSensitive()
	}
	return p.b.emitData(tagData, encoded)
}

func (p *parser) consumeStringArg(i int) error {
	a, err := p.nextArg(i)
	if err != nil {
		return err
	}
	if a.Kind != ArgKindString {
		return parseErrorAt(ErrBadFormatArg, i)
	}
	return p.b.emitData(tagData, []byte(a.Str))
}

func (p *parser) consumeIntArg(i int) error {
	a, err := p.nextArg(i)
	if err != nil {
		return err
	}
	if a.Kind != ArgKindInt {
		return parseErrorAt(ErrBadFormatArg, i)
	}
	return p.b.emitData(tagData, []byte(fmt.Sprintf("%d", a.Int)))
}
