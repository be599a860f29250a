package sexpr

import (
	"log/slog"

	"github.com/opal-lang/sexpr/internal/invariant"
)

// memoryClass selects which allocator pool backs a Tree's buffer.
// class is a per-allocation property, chosen at creation and
// upgradeable exactly once, ordinary -> sensitive, during parsing.
type memoryClass int

const (
	classOrdinary memoryClass = iota
	classSensitive
)

var logger = newDefaultLogger()

func newDefaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: debugLevel(),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// obtain allocates a zeroed buffer of size bytes from the given class.
// Sensitive allocations are additionally locked against swap on
// platforms that support it; locking failure is logged, not fatal —
// refusing to hold key material at all is worse than holding it in
// unlocked memory, matching libgcrypt's own secmem degradation.
func obtain(size int, class memoryClass) []byte {
	invariant.Precondition(size >= 0, "allocation size must be non-negative, got %d", size)
	buf := make([]byte, size)
	if class == classSensitive && size > 0 {
		lockPages(buf)
	}
	return buf
}

// obtainOrDie is obtain's panicking counterpart, used where the
// allocator adapter has no error return — a deliberate choice:
// a crypto core must not continue after a memory failure.
func obtainOrDie(size int, class memoryClass) []byte {
	buf := obtain(size, class)
	invariant.Postcondition(len(buf) == size, "allocator returned wrong size")
	return buf
}

// growBlock reallocates buf to at least newSize bytes, preserving its
// memory class and existing contents.
func growBlock(buf []byte, newSize int, class memoryClass) []byte {
	if cap(buf) >= newSize {
		return buf[:newSize]
	}
	grown := obtainOrDie(newSize, class)
	copy(grown, buf)
	releaseBlock(buf, class)
	return grown
}

// upgradeToSensitive reallocates buf into the sensitive class,
// copying its bytes and releasing the ordinary backing storage. Used
// when a %m argument carries the sensitive flag and the tree buffer
// being built is not yet sensitive (spec.md §4.4, in_percent/%m).
func upgradeToSensitive(buf []byte) []byte {
	upgraded := obtainOrDie(len(buf), classSensitive)
	copy(upgraded, buf)
	releaseBlock(buf, classOrdinary)
	return upgraded
}

// releaseBlock zeroes a sensitive buffer before releasing it and
// unlocks its pages; ordinary buffers are simply dropped.
func releaseBlock(buf []byte, class memoryClass) {
	if class == classSensitive {
		for i := range buf {
			buf[i] = 0
		}
		unlockPages(buf)
	}
}
