// Package workers 提供一个固定大小、可复用的 goroutine 池，用来并行跑只读的路径查询。
package workers

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Pool 启动时拉起 size 个 worker，之后所有 Do 调用共用它们，不会按请求新建 goroutine。
// 任务里不能再调用同一个池的 Do，否则 worker 会互相等待。
type Pool struct {
	size   int
	tasks  chan func()
	cancel context.CancelFunc
	group  *errgroup.Group

	mu     sync.RWMutex
	closed bool
}

// New size <= 0 时取 CPU 数
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)
	p := &Pool{
		size:   size,
		tasks:  make(chan func()),
		cancel: cancel,
		group:  group,
	}
	for i := 0; i < size; i++ {
		group.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case t := <-p.tasks:
					t()
				}
			}
		})
	}
	return p
}

// Size worker 数
func (p *Pool) Size() int { return p.size }

// Do 把任务分发给 worker 并等全部完成。池已关闭或只有一个任务时在当前 goroutine 执行。
func (p *Pool) Do(tasks []func()) {
	if len(tasks) == 0 {
		return
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed || len(tasks) == 1 {
		for _, t := range tasks {
			t()
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for _, t := range tasks {
		t := t
		p.tasks <- func() {
			defer wg.Done()
			t()
		}
	}
	wg.Wait()
}

// Close 停掉所有 worker，重复调用无害
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.cancel()
	return p.group.Wait()
}
