//go:build !tinygo

package critical

import "sync"

var mu sync.Mutex

// Do runs fn while holding the process-wide section lock.
func Do(fn func()) {
	mu.Lock()
	defer mu.Unlock()
	fn()
}
