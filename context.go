package blosc

import (
	"runtime"
	"sync"
)

// ambientConfig is the mutable process-wide context behind the
// "stateless" public API (Compress/Decompress). Entry points that
// read or mutate it serialize on a single lock held for the entire
// duration of one compress/decompress call, preventing concurrent
// reconfiguration from corrupting an in-flight call (spec §5,
// "process-wide state").
type ambientConfig struct {
	mu        sync.Mutex
	nthreads  int
	backend   Codec
	blocksize int // 0 means "let the planner choose"
}

var globalConfig = &ambientConfig{
	nthreads:  runtime.GOMAXPROCS(0),
	backend:   LZ4,
	blocksize: 0,
}

// SetNumThreads sets the thread count used by the non-ctx entry points.
// It returns the previous value.
func SetNumThreads(n int) int {
	globalConfig.mu.Lock()
	defer globalConfig.mu.Unlock()
	prev := globalConfig.nthreads
	if n < 1 {
		n = 1
	}
	globalConfig.nthreads = n
	return prev
}

// SetCompressor records a default backend, by name, in the ambient
// configuration. It returns an error if the name is unknown. No entry
// point in this package reads the recorded value: Compress takes its
// backend as an argument and Decompress reads it from the artifact header.
func SetCompressor(name string) error {
	b, ok := backendByName(name)
	if !ok || !b.Available {
		return ErrUnsupportedBackend
	}
	globalConfig.mu.Lock()
	defer globalConfig.mu.Unlock()
	globalConfig.backend = b.Code
	return nil
}

// SetBlockSize forces the blocksize used by the non-ctx entry points. A
// value of 0 restores automatic planning.
func SetBlockSize(n int) {
	globalConfig.mu.Lock()
	defer globalConfig.mu.Unlock()
	globalConfig.blocksize = n
}

