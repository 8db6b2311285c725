package arena

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

func TestRWLock_Basic(t *testing.T) {
	var a int
	var rw RWLock
	rw.Lock()
	a = 1
	if rw.TryLock() {
		t.Fatal("TryLock succeeded while write-locked")
	}
	rw.Unlock()
	rw.RLock()
	_ = a
	if rw.TryLock() {
		t.Fatal("TryLock succeeded while read-locked")
	}
	rw.RUnlock()
	if !rw.TryLock() {
		t.Fatal("TryLock failed on a free lock")
	}
	rw.Unlock()
}

func TestRWLock_ReadersAndWriters(t *testing.T) {
	var rw RWLock
	var readers int32
	var writers int32

	const loops = 1000
	readerN := runtime.GOMAXPROCS(0)
	writerN := 2

	var wg sync.WaitGroup
	wg.Add(readerN + writerN)

	for range readerN {
		go func() {
			defer wg.Done()
			for range loops {
				rw.RLock()
				atomic.AddInt32(&readers, 1)
				if atomic.LoadInt32(&writers) != 0 {
					t.Errorf("reader observed active writer")
				}
				atomic.AddInt32(&readers, -1)
				rw.RUnlock()
			}
		}()
	}

	for range writerN {
		go func() {
			defer wg.Done()
			for range loops {
				rw.Lock()
				if atomic.AddInt32(&writers, 1) != 1 {
					t.Errorf("multiple writers active")
				}
				if atomic.LoadInt32(&readers) != 0 {
					t.Errorf("writer observed active readers")
				}
				atomic.AddInt32(&writers, -1)
				rw.Unlock()
			}
		}()
	}

	wg.Wait()
}
