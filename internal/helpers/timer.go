package helpers

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Records nested begin/end pairs for the pipeline stages. A nil timer is
// valid and records nothing, so callers don't need to check.
type Timer struct {
	data  []timerData
	mutex sync.Mutex
}

type timerData struct {
	time  time.Time
	name  string
	isEnd bool
}

func (t *Timer) Begin(name string) {
	if t != nil {
		t.mutex.Lock()
		defer t.mutex.Unlock()
		t.data = append(t.data, timerData{
			name: name,
			time: time.Now(),
		})
	}
}

func (t *Timer) End(name string) {
	if t != nil {
		t.mutex.Lock()
		defer t.mutex.Unlock()
		t.data = append(t.data, timerData{
			name:  name,
			time:  time.Now(),
			isEnd: true,
		})
	}
}

// Writes one debug entry per completed stage. Nested stages are prefixed
// with their parents' names, e.g. "link/schedule".
func (t *Timer) Log(l *zap.Logger) {
	if t == nil {
		return
	}
	t.mutex.Lock()
	defer t.mutex.Unlock()

	var stack []timerData
	for _, item := range t.data {
		if !item.isEnd {
			stack = append(stack, item)
			continue
		}
		last := len(stack) - 1
		top := stack[last]
		if item.name != top.name {
			panic("Internal error")
		}
		names := make([]string, 0, len(stack))
		for _, parent := range stack {
			names = append(names, parent.name)
		}
		stack = stack[:last]
		l.Debug("timing",
			zap.String("stage", strings.Join(names, "/")),
			zap.Duration("elapsed", item.time.Sub(top.time)))
	}
}
