package signet

import (
	"context"
	"runtime"
	"sync"
)

type cryptoOp int

const (
	opSign cryptoOp = iota
	opVerify
)

// cryptoTask carries one offloaded operation. The result channel is buffered
// and owned by the submitting caller; workers share no other state.
type cryptoTask struct {
	op        cryptoOp
	info      algorithmInfo
	key       any
	input     []byte
	signature []byte
	result    chan cryptoResult
}

type cryptoResult struct {
	signature []byte
	valid     bool
	err       *TokenError
}

// workerPool runs CPU-bound sign/verify operations on a fixed set of
// goroutines. The shared instance is created lazily on the first offloaded
// call and lives until process exit.
type workerPool struct {
	tasks     chan cryptoTask
	wg        sync.WaitGroup
	closeOnce sync.Once
}

var (
	sharedPoolOnce sync.Once
	sharedPoolInst *workerPool
)

func sharedPool() *workerPool {
	sharedPoolOnce.Do(func() {
		sharedPoolInst = newWorkerPool(runtime.GOMAXPROCS(0))
	})
	return sharedPoolInst
}

func newWorkerPool(size int) *workerPool {
	if size <= 0 {
		size = 1
	}
	p := &workerPool{tasks: make(chan cryptoTask, size)}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.run()
	}
	return p
}

func (p *workerPool) run() {
	defer p.wg.Done()
	for task := range p.tasks {
		var res cryptoResult
		switch task.op {
		case opSign:
			res.signature, res.err = signBytes(task.info, task.key, task.input)
		case opVerify:
			res.valid = verifyBytes(task.info, task.key, task.input, task.signature)
		}
		task.result <- res
	}
}

// submit dispatches a task and waits for its result. A cancelled context
// abandons the wait; the operation itself still runs to completion on the
// worker and its result is dropped.
func (p *workerPool) submit(ctx context.Context, task cryptoTask) (cryptoResult, error) {
	task.result = make(chan cryptoResult, 1)
	select {
	case p.tasks <- task:
	case <-ctx.Done():
		return cryptoResult{}, ctx.Err()
	}
	select {
	case res := <-task.result:
		return res, nil
	case <-ctx.Done():
		return cryptoResult{}, ctx.Err()
	}
}

// close is test support only; the shared pool is never closed.
func (p *workerPool) close() {
	p.closeOnce.Do(func() {
		close(p.tasks)
		p.wg.Wait()
	})
}
