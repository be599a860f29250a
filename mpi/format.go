package mpi

import (
	"fmt"
	"math/big"
)

// Format selects the wire encoding Scan/Print use. spec.md §6 notes
// the MPI format is "an opaque enumeration supplied by the MPI
// library; a zero value selects the library's default (standard)
// format" — FormatDefault and FormatStandard are therefore
// equivalent here.
type Format int

const (
	FormatDefault  Format = 0
	FormatStandard Format = 1
)

// Print serializes a non-negative Int as its minimal unsigned
// big-endian magnitude — the encoding spec.md's worked example (§8
// scenario 6, 0xDEADBEEF -> atom "4:\xde\xad\xbe\xef") requires: no
// disambiguating sign byte is prepended, since every MPI this bridge
// has to serialize for %m is a key-material component and therefore
// never negative in practice. Negative values return an error rather
// than a silently wrong encoding.
func Print(v *Int, format Format) ([]byte, error) {
	if format != FormatDefault && format != FormatStandard {
		return nil, fmt.Errorf("mpi: unsupported format %d", format)
	}
	if v.v.Sign() < 0 {
		return nil, fmt.Errorf("mpi: standard format cannot represent a negative value")
	}
	if v.v.Sign() == 0 {
		return []byte{}, nil
	}
	return v.v.Bytes(), nil
}

// Scan parses a standard-format byte string (unsigned big-endian
// magnitude) into an Int.
func Scan(data []byte, format Format) (*Int, error) {
	if format != FormatDefault && format != FormatStandard {
		return nil, fmt.Errorf("mpi: unsupported format %d", format)
	}
	return &Int{v: new(big.Int).SetBytes(data)}, nil
}
