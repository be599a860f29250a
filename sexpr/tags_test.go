package sexpr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opal-lang/sexpr/sexpr"
)

func TestNilTreeLenIsZero(t *testing.T) {
	var tree *sexpr.Tree
	assert.Equal(t, 0, tree.Len())
}

func TestNilTreeIsNotSensitive(t *testing.T) {
	var tree *sexpr.Tree
	assert.False(t, tree.IsSensitive())
}

func TestReleaseNilTreeIsNoop(t *testing.T) {
	var tree *sexpr.Tree
	assert.NotPanics(t, func() { tree.Release() })
}

func TestReleaseIsIdempotentAfterParse(t *testing.T) {
	tree := mustParse(t, "(3:foo)")
	tree.Release()
	assert.NotPanics(t, func() { tree.Release() })
}

func TestOrdinaryTreeIsNotSensitiveByDefault(t *testing.T) {
	tree := mustParse(t, "(3:foo)")
	defer tree.Release()
	assert.False(t, tree.IsSensitive())
}
