package mirror

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyLockReleasesEntries(t *testing.T) {
	k := newKeyLock()
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.lock("same")
			counter++
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Empty(t, k.locks)
}
