// Package executortest provides executors for tests.
package executortest

import (
	"sync"
	"untangle/pkg/executor"
	"untangle/pkg/util/context"

	"github.com/stretchr/testify/mock"
)

// Mock is an executor.Executor recording its invocations.
// Expectations are set on the request task name, such as
//   m.On("Invoke", "summarizer").Return(payload, nil)
type Mock struct {
	mock.Mock
}

// Invoke records the call and returns the configured output.
func (m *Mock) Invoke(ctx context.Context, req executor.Request) (interface{}, error) {
	args := m.Called(req.Task)
	return args.Get(0), args.Error(1)
}

// Counter wraps an executor and counts invocations per task.
type Counter struct {
	mutex  sync.Mutex
	next   executor.Executor
	counts map[string]int
}

// NewCounter returns a Counter delegating to next.
func NewCounter(next executor.Executor) *Counter {
	return &Counter{
		next:   next,
		counts: make(map[string]int),
	}
}

// Invoke counts the call and delegates it.
func (c *Counter) Invoke(ctx context.Context, req executor.Request) (interface{}, error) {
	c.mutex.Lock()
	c.counts[req.Task]++
	c.mutex.Unlock()
	return c.next.Invoke(ctx, req)
}

// Count returns the number of invocations for the task.
func (c *Counter) Count(task string) int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.counts[task]
}

// Total returns the number of invocations for all tasks.
func (c *Counter) Total() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Payloads returns an executor answering with the payload registered for the task,
// or with the error registered for it.
func Payloads(payloads map[string]interface{}, failures map[string]error) executor.Executor {
	return executor.Func(func(ctx context.Context, req executor.Request) (interface{}, error) {
		if err, exists := failures[req.Task]; exists {
			return nil, err
		}
		return payloads[req.Task], nil
	})
}
