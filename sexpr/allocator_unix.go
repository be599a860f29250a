//go:build unix

package sexpr

import (
	"golang.org/x/sys/unix"

	"github.com/opal-lang/sexpr/internal/config"
)

var lockCfg = config.Load()

// lockPages attempts to mlock buf so it is never paged to secondary
// storage. Failure (e.g. RLIMIT_MEMLOCK under an unprivileged process)
// is logged at warn level and otherwise ignored: the allocation still
// proceeds in unlocked memory rather than failing outright.
func lockPages(buf []byte) {
	if !lockCfg.LockSensitivePages || len(buf) == 0 {
		return
	}
	if err := unix.Mlock(buf); err != nil {
		logger.Warn("failed to lock sensitive pages", "error", err, "bytes", len(buf))
	}
}

// unlockPages releases a prior mlock taken by lockPages. Errors are
// logged, not propagated — the buffer has already been zeroed by the
// caller, which is the security-relevant part of release.
func unlockPages(buf []byte) {
	if !lockCfg.LockSensitivePages || len(buf) == 0 {
		return
	}
	if err := unix.Munlock(buf); err != nil {
		logger.Warn("failed to unlock sensitive pages", "error", err, "bytes", len(buf))
	}
}
