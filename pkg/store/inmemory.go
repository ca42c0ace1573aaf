package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
	"untangle/pkg/api"

	"github.com/pkg/errors"
)

type run struct {
	name       string
	status     api.Status
	tasks      map[string]*task
	order      []string
	result     *api.RunResult
	createTime *time.Time
	startTime  *time.Time
	endTime    *time.Time
}

type task struct {
	name      string
	status    api.Status
	attempts  int
	err       string
	startTime *time.Time
	endTime   *time.Time
}

// ErrNotFinished is returned when the result of a run still in progress is requested.
var ErrNotFinished = errors.New("run not finished")

// NewInMemoryRegistry returns a new InMemory registry
func NewInMemoryRegistry() (Registry, error) {
	return &inMemory{
		runs: make(map[string]*run),
	}, nil
}

type inMemory struct {
	mutex sync.RWMutex
	runs  map[string]*run
}

func (s *inMemory) CreateRun(ctx context.Context, pid, name string, tasks []string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.runs[pid]; exists {
		return errors.Errorf("process %s already exists", pid)
	}
	now := time.Now()
	r := run{
		name:       name,
		status:     api.StatusCreated,
		tasks:      make(map[string]*task),
		order:      tasks,
		createTime: &now,
	}
	for _, t := range tasks {
		r.tasks[t] = &task{
			name:   t,
			status: api.StatusCreated,
		}
	}
	s.runs[pid] = &r
	return nil
}

func (s *inMemory) SetRunStatus(ctx context.Context, pid string, status api.Status) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	r, exists := s.runs[pid]
	if !exists {
		return NotFoundError(fmt.Sprintf("process %s", pid))
	}
	setStatus(r, status)
	return nil
}

func setStatus(r *run, status api.Status) {
	r.status = status
	now := time.Now()
	if status.Finished() {
		r.endTime = &now
	} else if status == api.StatusRunning {
		r.startTime = &now
	}
}

func (s *inMemory) SetTaskState(ctx context.Context, pid string, state api.TaskState) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	r, exists := s.runs[pid]
	if !exists {
		return NotFoundError(fmt.Sprintf("process %s", pid))
	}
	t, exists := r.tasks[state.Name]
	if !exists {
		return NotFoundError(fmt.Sprintf("task %s", state.Name))
	}
	t.status = state.Status
	t.attempts = state.Attempts
	t.err = state.Error
	if state.StartTime != nil {
		t.startTime = state.StartTime
	}
	if state.EndTime != nil {
		t.endTime = state.EndTime
	}
	return nil
}

func (s *inMemory) SetRunResult(ctx context.Context, pid string, result api.RunResult) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	r, exists := s.runs[pid]
	if !exists {
		return NotFoundError(fmt.Sprintf("process %s", pid))
	}
	if !result.Status.Finished() {
		return errors.Errorf("result status %s is not final", result.Status)
	}
	r.result = &result
	setStatus(r, result.Status)
	return nil
}

func (s *inMemory) ListRuns(ctx context.Context) ([]api.PipelineInfo, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	type item struct {
		info    api.PipelineInfo
		created time.Time
	}
	items := make([]item, 0, len(s.runs))
	for pid, r := range s.runs {
		items = append(items, item{
			info:    api.PipelineInfo{Name: r.name, ProcessID: pid, Status: r.status},
			created: *r.createTime,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].created.Equal(items[j].created) {
			return items[i].info.ProcessID < items[j].info.ProcessID
		}
		return items[i].created.After(items[j].created)
	})
	res := make([]api.PipelineInfo, 0, len(items))
	for _, i := range items {
		res = append(res, i.info)
	}
	return res, nil
}

func (s *inMemory) RunState(ctx context.Context, pid string) (api.PipelineState, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	r, exists := s.runs[pid]
	if !exists {
		return api.PipelineState{}, NotFoundError(fmt.Sprintf("process %s", pid))
	}
	var tasks []api.TaskState
	for _, name := range r.order {
		t := r.tasks[name]
		tasks = append(tasks, api.TaskState{
			Name:      t.name,
			Status:    t.status,
			Attempts:  t.attempts,
			Error:     t.err,
			StartTime: t.startTime,
			EndTime:   t.endTime,
		})
	}
	return api.PipelineState{
		ProcessID:  pid,
		Name:       r.name,
		Status:     r.status,
		Tasks:      tasks,
		CreateTime: r.createTime,
		StartTime:  r.startTime,
		EndTime:    r.endTime,
	}, nil
}

func (s *inMemory) RunResult(ctx context.Context, pid string) (api.RunResult, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	r, exists := s.runs[pid]
	if !exists {
		return api.RunResult{}, NotFoundError(fmt.Sprintf("process %s", pid))
	}
	if r.result == nil {
		return api.RunResult{}, errors.Wrapf(ErrNotFinished, "process %s is %s", pid, r.status)
	}
	return *r.result, nil
}
