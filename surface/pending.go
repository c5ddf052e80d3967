package surface

import (
	"context"
	"sync"
)

// Pending 是一次异步图片加载的结果，只会被完成一次。
type Pending struct {
	done chan struct{}
	once sync.Once
	err  error
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

func (p *Pending) resolve(err error) {
	p.once.Do(func() {
		p.err = err
		close(p.done)
	})
}

// Done 在加载完成（成功或失败）后关闭。
func (p *Pending) Done() <-chan struct{} { return p.done }

// Err 返回加载结果；尚未完成时返回 nil。
func (p *Pending) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Wait 阻塞到加载完成或 ctx 结束。ctx 结束不会取消正在进行的解码。
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
