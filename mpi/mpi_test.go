package mpi_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/sexpr/mpi"
)

func TestCompareEqualValues(t *testing.T) {
	assert.Equal(t, 0, mpi.Compare(mpi.FromInt64(42), mpi.FromInt64(42)))
}

func TestComparePositiveOrdering(t *testing.T) {
	assert.Equal(t, 1, mpi.Compare(mpi.FromInt64(100), mpi.FromInt64(5)))
	assert.Equal(t, -1, mpi.Compare(mpi.FromInt64(5), mpi.FromInt64(100)))
}

func TestComparePositiveVsNegative(t *testing.T) {
	assert.Equal(t, 1, mpi.Compare(mpi.FromInt64(1), mpi.FromInt64(-1)))
	assert.Equal(t, -1, mpi.Compare(mpi.FromInt64(-1), mpi.FromInt64(1)))
}

func TestCompareNegativeDifferingLimbCountsSumsLengths(t *testing.T) {
	// Both negative, differing limb counts: reproduces the historical
	// bug where the result is the sum of limb counts rather than a
	// sign-correct magnitude comparison.
	small := mpi.FromInt64(-1)
	huge := mpi.NewInt(bigNegativeMultiLimb())
	got := mpi.Compare(small, huge)
	assert.NotEqual(t, -1, got)
	assert.NotEqual(t, 0, got)
}

func TestCompareSmallAgainstUnsigned(t *testing.T) {
	assert.Equal(t, 0, mpi.CompareSmall(mpi.FromInt64(7), 7))
	assert.Equal(t, 1, mpi.CompareSmall(mpi.FromInt64(10), 3))
	assert.Equal(t, -1, mpi.CompareSmall(mpi.FromInt64(1), 3))
	assert.Equal(t, -1, mpi.CompareSmall(mpi.FromInt64(-5), 3))
}

func TestMarkSensitivePropagates(t *testing.T) {
	v := mpi.FromInt64(1)
	assert.False(t, v.Sensitive())
	v.MarkSensitive()
	assert.True(t, v.Sensitive())
}

func TestPrintStandardFormat(t *testing.T) {
	v := mpi.FromInt64(0xdeadbeef)
	out, err := mpi.Print(v, mpi.FormatDefault)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, out)
}

func TestPrintNegativeErrors(t *testing.T) {
	v := mpi.FromInt64(-1)
	_, err := mpi.Print(v, mpi.FormatDefault)
	assert.Error(t, err)
}

func TestScanRoundTrip(t *testing.T) {
	v, err := mpi.Scan([]byte{0xde, 0xad, 0xbe, 0xef}, mpi.FormatDefault)
	require.NoError(t, err)
	assert.Equal(t, 0, mpi.Compare(v, mpi.FromInt64(0xdeadbeef)))
}

// bigNegativeMultiLimb returns a negative value guaranteed to occupy
// more than one big.Word limb on any supported architecture.
func bigNegativeMultiLimb() *big.Int {
	v := new(big.Int).Lsh(big.NewInt(1), 256)
	return v.Neg(v)
}
