package starlark

import (
	"sync"

	"go.starlark.net/starlark"
)

const (
	defaultPoolSize = 10
	// DefaultMaxSteps bounds one expression evaluation. Override templates
	// are user code; a comprehension over a huge range stops here.
	DefaultMaxSteps uint64 = 1_000_000
)

// ThreadPool recycles Starlark threads across template evaluations.
// It is safe for concurrent use by renderers serving several documents.
type ThreadPool struct {
	mu       sync.Mutex
	threads  []*starlark.Thread
	maxSize  int
	maxSteps uint64
}

// PoolOption configures a ThreadPool.
type PoolOption func(*ThreadPool)

// WithMaxSteps sets the step budget of every thread; zero means unlimited.
func WithMaxSteps(n uint64) PoolOption {
	return func(p *ThreadPool) {
		p.maxSteps = n
	}
}

// NewThreadPool creates a pool holding at most maxSize idle threads.
func NewThreadPool(maxSize int, opts ...PoolOption) *ThreadPool {
	if maxSize <= 0 {
		maxSize = defaultPoolSize
	}
	p := &ThreadPool{
		threads:  make([]*starlark.Thread, 0, maxSize),
		maxSize:  maxSize,
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Get takes an idle thread or creates one. name shows up in Starlark
// error messages.
func (p *ThreadPool) Get(name string) *starlark.Thread {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n := len(p.threads); n > 0 {
		thread := p.threads[n-1]
		p.threads = p.threads[:n-1]
		thread.Name = name
		return thread
	}
	return newThread(name, p.maxSteps)
}

// Put returns a thread after a successful evaluation. Threads whose
// evaluation failed must be dropped instead: a thread that ran out of steps
// stays cancelled.
func (p *ThreadPool) Put(thread *starlark.Thread) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.threads) >= p.maxSize {
		return
	}
	thread.Name = ""
	thread.Steps = 0
	p.threads = append(p.threads, thread)
}

// Size returns the number of idle threads.
func (p *ThreadPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.threads)
}

func newThread(name string, maxSteps uint64) *starlark.Thread {
	thread := &starlark.Thread{
		Name:  name,
		Print: func(*starlark.Thread, string) {},
	}
	if maxSteps > 0 {
		thread.SetMaxExecutionSteps(maxSteps)
	}
	return thread
}
