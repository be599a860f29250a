package snapshot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/sexpr/snapshot"
)

func TestHashIsDeterministic(t *testing.T) {
	node := snapshot.Node{
		IsList: true,
		Children: []snapshot.Node{
			{Data: []byte("rsa")},
			{Data: []byte("abc")},
		},
	}

	a := snapshot.Of("key", node)
	b := snapshot.Of("key", node)

	hashA, err := a.Hash()
	require.NoError(t, err)
	hashB, err := b.Hash()
	require.NoError(t, err)
	assert.Equal(t, hashA, hashB)
}

func TestHashDiffersOnContentChange(t *testing.T) {
	a := snapshot.Of("key", snapshot.Node{Data: []byte("rsa")})
	b := snapshot.Of("key", snapshot.Node{Data: []byte("dsa")})

	hashA, err := a.Hash()
	require.NoError(t, err)
	hashB, err := b.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, hashA, hashB)
}
