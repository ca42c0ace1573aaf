// Package pipeline runs a stage tree of tasks over a document and produces a validated report.
package pipeline

import (
	gocontext "context"
	"sync"
	"time"
	"untangle/pkg/api"
	"untangle/pkg/schema"
	"untangle/pkg/store"
	"untangle/pkg/util/context"
	"untangle/pkg/util/maps"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Config is the configuration of a Runner.
type Config struct {
	// Timeout bounds a whole pipeline run. Zero means no timeout.
	Timeout time.Duration `json:"timeout" env:"RUNNER_TIMEOUT"`
	// Retries is the number of additional attempts of a task failing with a schema or execution error.
	// It is at most 1.
	Retries int `json:"retries" env:"RUNNER_RETRIES"`
	// MaxParallel bounds the number of children of a parallel stage running at once. Zero means no bound.
	MaxParallel int `json:"maxParallel" env:"RUNNER_MAX_PARALLEL"`
	// AllowEmptyMerge lets a tolerant sequential stage continue after a parallel stage whose children all failed.
	AllowEmptyMerge bool `json:"allowEmptyMerge" env:"RUNNER_ALLOW_EMPTY_MERGE"`
}

// SetupFunc is the function called when a pipeline run starts.
type SetupFunc func(ctx context.Context) error

// TearDownFunc is the function called when a pipeline run is finished. (Either success or failure)
type TearDownFunc func(ctx context.Context, res Result) error

// TaskCallback is the function called when a task starts and finishes.
// It is called concurrently by parallel tasks.
type TaskCallback func(ctx context.Context, state api.TaskState)

// Option configures a Runner.
type Option func(*Runner)

// WithConfig sets the whole configuration.
func WithConfig(cfg Config) Option {
	return func(r *Runner) {
		r.cfg = cfg
	}
}

// WithTimeout bounds the duration of a run.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.cfg.Timeout = d
	}
}

// WithRetries sets the number of additional attempts of failing tasks.
func WithRetries(n int) Option {
	return func(r *Runner) {
		r.cfg.Retries = n
	}
}

// WithMaxParallel bounds the number of children of a parallel stage running at once.
func WithMaxParallel(n int) Option {
	return func(r *Runner) {
		r.cfg.MaxParallel = n
	}
}

// WithAllowEmptyMerge lets tolerant stages continue when every child of a parallel stage failed.
func WithAllowEmptyMerge(allow bool) Option {
	return func(r *Runner) {
		r.cfg.AllowEmptyMerge = allow
	}
}

// WithTerminalSchema sets the schema the final report is validated against,
// instead of the schema of the last task.
func WithTerminalSchema(s *schema.Schema) Option {
	return func(r *Runner) {
		r.terminalSchema = s
	}
}

// WithSeed adds a read-only entry to the state of every run, such as user memory.
func WithSeed(key string, value interface{}) Option {
	return func(r *Runner) {
		r.seeds = append(r.seeds, store.Entry{Key: key, Value: value})
	}
}

// WithSetupFunc sets the function called when a run starts. A setup error fails the run.
func WithSetupFunc(f SetupFunc) Option {
	return func(r *Runner) {
		r.setupFunc = f
	}
}

// WithTearDownFunc sets the function called when a run is finished.
func WithTearDownFunc(f TearDownFunc) Option {
	return func(r *Runner) {
		r.teardownFunc = f
	}
}

// WithTaskCallback sets the function called when a task starts and finishes.
func WithTaskCallback(f TaskCallback) Option {
	return func(r *Runner) {
		r.taskCallback = f
	}
}

// Runner executes a stage tree. It is safe for concurrent use, each run having its own state.
type Runner struct {
	root           *Stage
	terminal       *TaskSpec
	terminalSchema *schema.Schema
	seeds          []store.Entry
	cfg            Config
	setupFunc      SetupFunc
	teardownFunc   TearDownFunc
	taskCallback   TaskCallback
}

// New returns a Runner for the stage tree.
// The tree is checked before any execution: task names must be unique and differ from reserved keys,
// and the tree must end with the task producing the final report.
func New(root *Stage, opts ...Option) (*Runner, error) {
	if root == nil {
		return nil, errors.New("root stage is required")
	}
	r := &Runner{root: root}
	for _, opt := range opts {
		opt(r)
	}
	if r.cfg.Retries > 1 {
		r.cfg.Retries = 1
	}
	if r.cfg.Retries < 0 {
		r.cfg.Retries = 0
	}

	if _, err := buildGraph(root, r.seedKeys(), nil); err != nil {
		return nil, err
	}

	r.terminal = root.last()
	if r.terminal == nil {
		return nil, errors.New("pipeline must end with a merge task")
	}
	if r.terminalSchema == nil {
		r.terminalSchema = r.terminal.Schema
	}
	return r, nil
}

// Root returns the stage tree.
func (r *Runner) Root() *Stage {
	return r.root
}

// Terminal returns the name of the task producing the final report.
func (r *Runner) Terminal() string {
	return r.terminal.Name
}

// Config returns the effective configuration.
func (r *Runner) Config() Config {
	return r.cfg
}

func (r *Runner) seedKeys() []string {
	keys := make([]string, len(r.seeds))
	for i, s := range r.seeds {
		keys[i] = s.Key
	}
	return keys
}

// Result is the outcome of a run.
type Result struct {
	ProcessID string
	// Status is COMPLETED or FAILED.
	Status api.Status
	// Value is the validated final report of a successful run.
	Value interface{}
	// Failure describes a failed run.
	Failure *Failure
	// State holds the task outputs produced by the run, keyed by task name.
	State map[string]interface{}
	// Keys lists the keys of State in insertion order.
	Keys []string
	// Partial lists the failures tolerant stages continued after.
	Partial []Failure
}

// Succeeded reports whether the run produced a report.
func (res Result) Succeeded() bool {
	return res.Status == api.StatusCompleted
}

// Decode decodes the report into out, matching json tags.
func (res Result) Decode(out interface{}) error {
	if !res.Succeeded() {
		return errors.Errorf("run %s has no report", res.ProcessID)
	}
	return maps.DecodeJSON(res.Value, out)
}

// API returns the transport representation of the result.
func (res Result) API() api.RunResult {
	out := api.RunResult{
		Status: res.Status,
		Value:  res.Value,
	}
	if res.Failure != nil {
		out.Failure = res.Failure.API()
	}
	return out
}

// execution holds what belongs to a single run.
type execution struct {
	*Runner
	mutex   sync.Mutex
	partial []Failure
}

func (e *execution) tolerated(err error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.partial = append(e.partial, *NewFailure(err))
}

func (e *execution) partials() []Failure {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return append([]Failure(nil), e.partial...)
}

func (e *execution) notify(ctx context.Context, state api.TaskState) {
	if e.taskCallback != nil {
		e.taskCallback(ctx, state)
	}
}

// Execute runs the pipeline over the document.
// The process ID of ctx identifies the run; a new one is generated when it is not set.
func (r *Runner) Execute(ctx gocontext.Context, document string) Result {
	c := context.FromContext(ctx)
	if c.ProcessID() == "" {
		c = context.WithProcessID(c, uuid.New().String())
	}
	res := Result{
		ProcessID: c.ProcessID(),
		Status:    api.StatusCreated,
	}

	st := store.New()
	for _, e := range append([]store.Entry{{Key: api.DocumentKey, Value: document}}, r.seeds...) {
		if err := st.Put(e); err != nil {
			return r.finish(c, res, st, nil, &TaskError{Task: e.Key, Kind: KindDuplicateKey, Err: err})
		}
	}

	if r.setupFunc != nil {
		if err := r.setupFunc(c); err != nil {
			return r.finish(c, res, st, nil, errors.Wrap(err, "error calling setup function"))
		}
	}

	res.Status = api.StatusRunning
	c.Logger().Infof("starting pipeline with %d tasks", len(r.root.Tasks()))
	start := time.Now()

	rctx, cancel := c, gocontext.CancelFunc(func() {})
	if r.cfg.Timeout > 0 {
		rctx, cancel = context.WithTimeout(c, r.cfg.Timeout)
	}
	defer cancel()

	e := &execution{Runner: r}
	done := make(chan error, 1)
	go func() {
		done <- e.run(rctx, r.root, st, true)
	}()
	var err error
	select {
	case err = <-done:
	case <-rctx.Done():
		// Tasks still running are abandoned; their outputs are discarded.
		select {
		case err = <-done:
		default:
			err = rctx.Err()
		}
	}
	if err != nil && rctx.Err() != nil {
		err = rctx.Err()
		if errors.Is(err, gocontext.DeadlineExceeded) {
			err = &TaskError{Kind: KindTimeout, Err: errors.Wrapf(err, "pipeline timed out after %s", time.Since(start).Round(time.Millisecond))}
		}
	}
	return r.finish(c, res, st, e.partials(), err)
}

func (r *Runner) finish(ctx context.Context, res Result, st store.Store, partial []Failure, err error) Result {
	res.Partial = partial
	res.State = make(map[string]interface{})
	tasks := make(map[string]bool)
	for _, t := range r.root.TaskNames() {
		tasks[t] = true
	}
	for _, k := range st.Keys() {
		if tasks[k] {
			v, _ := st.Get(k)
			res.State[k] = v
			res.Keys = append(res.Keys, k)
		}
	}

	if err == nil {
		value, _ := st.Get(r.terminal.Name)
		res.Value, err = schema.Validate(r.terminalSchema, value)
		if err != nil {
			res.Value = nil
			err = &TaskError{Task: r.terminal.Name, Kind: KindSchema, Err: errors.Wrap(err, "invalid report")}
		}
	}

	if err != nil {
		res.Status = api.StatusFailed
		res.Failure = NewFailure(err)
		ctx.Logger().Errorf("pipeline failed with %s: %v", res.Failure.Kind, err)
	} else {
		res.Status = api.StatusCompleted
		ctx.Logger().Infof("pipeline finished with status %s", res.Status)
	}

	//Call teardown func if set
	if r.teardownFunc != nil {
		if terr := r.teardownFunc(ctx, res); terr != nil {
			ctx.Logger().Error(errors.Wrap(terr, "error calling teardown function"))
		}
	}
	return res
}
