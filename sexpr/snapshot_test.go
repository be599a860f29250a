package sexpr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/sexpr/sexpr"
)

func TestSnapshotOfEquivalentTreesMatch(t *testing.T) {
	a := mustParse(t, "(3:rsa(1:n3:abc))")
	defer a.Release()
	b := mustParse(t, "(3:rsa(1:n3:abc))")
	defer b.Release()

	snapA := sexpr.Snapshot("a", a)
	snapB := sexpr.Snapshot("b", b)

	hashA, err := snapA.Hash()
	require.NoError(t, err)
	hashB, err := snapB.Hash()
	require.NoError(t, err)
	assert.Equal(t, hashA, hashB)
}

func TestSnapshotOfDifferentTreesDiffer(t *testing.T) {
	a := mustParse(t, "(3:rsa)")
	defer a.Release()
	b := mustParse(t, "(3:dsa)")
	defer b.Release()

	hashA, err := sexpr.Snapshot("a", a).Hash()
	require.NoError(t, err)
	hashB, err := sexpr.Snapshot("b", b).Hash()
	require.NoError(t, err)
	assert.NotEqual(t, hashA, hashB)
}
