package pointer

import "sync"

// EventType 区分两类通知。
type EventType int

const (
	// EventSelect 在每次按下后触发，Index 为命中下标或 layout.NoSelection。
	EventSelect EventType = iota
	// EventDragEnd 在拖拽结束时触发，Index 为刚结束拖拽的字幕。
	EventDragEnd
)

func (t EventType) String() string {
	switch t {
	case EventSelect:
		return "select"
	case EventDragEnd:
		return "drag-end"
	default:
		return "unknown"
	}
}

// Event 是一条控制器通知。
type Event struct {
	Type  EventType
	Index int
}

type handler struct {
	id    uint32
	event EventType
	fn    func(int)
}

type handlerRegistry struct {
	mu       sync.Mutex
	nextID   uint32
	handlers []handler
	channels map[uint32]chan Event
}

// Subscription 用于取消已注册的回调或事件通道。
type Subscription struct {
	id  uint32
	reg *handlerRegistry
}

// Remove 取消订阅。通道订阅在取消后会被关闭。重复调用是安全的。
func (s Subscription) Remove() {
	if s.reg == nil {
		return
	}
	s.reg.remove(s.id)
}

// OnSelect 注册选中通知，回调参数为命中下标或 -1。
func (c *Controller) OnSelect(fn func(index int)) Subscription {
	return c.handlers.add(EventSelect, fn)
}

// OnDragEnd 注册拖拽结束通知。
func (c *Controller) OnDragEnd(fn func(index int)) Subscription {
	return c.handlers.add(EventDragEnd, fn)
}

// Events 以通道形式订阅全部通知。缓冲区满时丢弃新事件，不会阻塞输入处理。
func (c *Controller) Events(buffer int) (<-chan Event, Subscription) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	r := &c.handlers
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	if r.channels == nil {
		r.channels = map[uint32]chan Event{}
	}
	r.channels[r.nextID] = ch
	return ch, Subscription{id: r.nextID, reg: r}
}

func (r *handlerRegistry) add(event EventType, fn func(int)) Subscription {
	if fn == nil {
		return Subscription{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.handlers = append(r.handlers, handler{id: r.nextID, event: event, fn: fn})
	return Subscription{id: r.nextID, reg: r}
}

func (r *handlerRegistry) remove(id uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, h := range r.handlers {
		if h.id == id {
			r.handlers = append(r.handlers[:i], r.handlers[i+1:]...)
			return
		}
	}
	if ch, ok := r.channels[id]; ok {
		delete(r.channels, id)
		close(ch)
	}
}

// emit 在锁外调用回调，回调中可以安全地注册或取消订阅。
func (r *handlerRegistry) emit(ev Event) {
	r.mu.Lock()
	var fns []func(int)
	for _, h := range r.handlers {
		if h.event == ev.Type {
			fns = append(fns, h.fn)
		}
	}
	for _, ch := range r.channels {
		select {
		case ch <- ev:
		default:
		}
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(ev.Index)
	}
}
