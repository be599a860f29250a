//go:build !unix

package sexpr

// lockPages is a no-op on platforms without mlock/munlock; sensitive
// buffers are still zeroed on release, just not swap-locked.
func lockPages(buf []byte) {}

// unlockPages is a no-op counterpart to lockPages.
func unlockPages(buf []byte) {}
