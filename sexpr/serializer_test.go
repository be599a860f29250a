package sexpr_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/sexpr/sexpr"
)

func serializeToString(t *testing.T, tree *sexpr.Tree, mode sexpr.Mode) string {
	t.Helper()
	n, err := sexpr.Serialize(tree, mode, nil)
	require.Error(t, err) // nil buffer always reports required size first
	buf := make([]byte, n)
	n, err = sexpr.Serialize(tree, mode, buf)
	require.NoError(t, err)
	return string(buf[:n])
}

func TestSerializeCanonicalRoundTrip(t *testing.T) {
	src := "(3:rsa(1:n3:abc)(1:e1:3))"
	tree := mustParse(t, src)
	defer tree.Release()

	out := serializeToString(t, tree, sexpr.ModeCanonical)
	assert.Equal(t, src, out)
}

func TestSerializeAdvancedAddsNewlineAfterClose(t *testing.T) {
	tree := mustParse(t, "(3:foo)")
	defer tree.Release()

	out := serializeToString(t, tree, sexpr.ModeAdvanced)
	assert.True(t, strings.HasSuffix(out, ")\n"))
}

func TestSerializeNullTree(t *testing.T) {
	out := serializeToString(t, nil, sexpr.ModeCanonical)
	assert.Equal(t, "()", out)
}

func TestSerializeDropsDisplayHintFromCanonicalOutput(t *testing.T) {
	tree := mustParse(t, "([hex]3:abc)")
	defer tree.Release()

	out := serializeToString(t, tree, sexpr.ModeCanonical)
	assert.Equal(t, "(3:abc)", out)
	assert.NotContains(t, out, "[hex]")
}

func TestDumpFormatsOpenCloseData(t *testing.T) {
	tree := mustParse(t, "(3:foo)")
	defer tree.Release()

	var buf bytes.Buffer
	sexpr.Dump(tree, &buf)
	out := buf.String()
	assert.Contains(t, out, "[open]")
	assert.Contains(t, out, `[data="foo"]`)
	assert.Contains(t, out, "[close]")
}

func TestDumpEscapesNonPrintable(t *testing.T) {
	tree := mustParse(t, "(#00ff#)")
	defer tree.Release()

	var buf bytes.Buffer
	sexpr.Dump(tree, &buf)
	assert.Contains(t, buf.String(), `\x00\xff`)
}
