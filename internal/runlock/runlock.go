// Package runlock guards against overlapping invocations: external
// schedulers happily fire the next run while a slow IMAP fetch is still
// holding the previous one open.
package runlock

import (
	"github.com/gofrs/flock"
)

// Acquire tries to take the lock file without blocking. When ok is false
// another invocation holds it and the caller should exit cleanly. The
// returned release is safe to call in every case.
func Acquire(path string) (release func(), ok bool, err error) {
	fl := flock.New(path)
	ok, err = fl.TryLock()
	if err != nil || !ok {
		return func() {}, ok, err
	}
	return func() { _ = fl.Unlock() }, true, nil
}
