package sexpr_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/sexpr/sexpr"
)

// flattenList renders a list tree into a comparable nested structure so
// two trees parsed from different source bytes but the same logical
// content can be diffed structurally rather than byte-for-byte.
func flattenList(t *testing.T, tree *sexpr.Tree) interface{} {
	t.Helper()
	out := make([]interface{}, 0, sexpr.Length(tree))
	for i := 0; i < sexpr.Length(tree); i++ {
		child := sexpr.Nth(tree, i)
		if data, ok := sexpr.NthData(tree, i); ok {
			out = append(out, string(data))
		} else {
			out = append(out, flattenList(t, child))
		}
		child.Release()
	}
	return out
}

func TestRoundTripPreservesStructure(t *testing.T) {
	src := "(3:rsa(1:n3:abc)(1:e1:3))"
	tree := mustParse(t, src)
	defer tree.Release()

	n, err := sexpr.Serialize(tree, sexpr.ModeCanonical, nil)
	require.Error(t, err)
	buf := make([]byte, n)
	_, err = sexpr.Serialize(tree, sexpr.ModeCanonical, buf)
	require.NoError(t, err)

	reparsed := mustParse(t, string(buf))
	defer reparsed.Release()

	if diff := cmp.Diff(flattenList(t, tree), flattenList(t, reparsed)); diff != "" {
		t.Errorf("round-trip structure mismatch (-original +reparsed):\n%s", diff)
	}
}
