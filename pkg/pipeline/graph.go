package pipeline

import (
	"io"
	"untangle/pkg/api"
	"untangle/pkg/util/template"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1"
)

// buildGraph returns the execution graph of the stage tree: the document and seed entries are source vertices,
// and an edge links a task to every task running right after it.
// Declaring a task twice, or a task named after the document or a seed, is a DuplicateKey error.
// statuses, when set, colours the task vertices.
func buildGraph(root *Stage, seeds []string, statuses map[string]api.Status) (graph.Graph[string, string], error) {
	g := graph.New(graph.StringHash, graph.Directed(), graph.Acyclic())
	b := builder{g: g, statuses: statuses, seeds: make(map[string]bool)}

	if err := b.source(api.DocumentKey); err != nil {
		return nil, err
	}
	for _, s := range seeds {
		if err := b.source(s); err != nil {
			return nil, err
		}
		b.seeds[s] = true
	}
	if _, err := b.link(root, []string{api.DocumentKey}); err != nil {
		return nil, err
	}
	return g, nil
}

type builder struct {
	g        graph.Graph[string, string]
	statuses map[string]api.Status
	seeds    map[string]bool
}

func (b builder) source(key string) error {
	err := b.g.AddVertex(key, graph.VertexAttribute("shape", "note"))
	if errors.Is(err, graph.ErrVertexAlreadyExists) {
		return &TaskError{Task: key, Kind: KindDuplicateKey, Err: errors.Errorf("key %s is declared twice", key)}
	}
	return err
}

// link adds the stage to the graph after the preds vertices and returns the vertices the stage ends with.
func (b builder) link(s *Stage, preds []string) ([]string, error) {
	switch s.kind {
	case TypeTask:
		return b.task(s.task, preds)
	case TypeSequential:
		if len(s.children) == 0 {
			return nil, errors.Errorf("sequential stage %s has no children", s.Name())
		}
		exits := preds
		for _, c := range s.children {
			var err error
			if exits, err = b.link(c, exits); err != nil {
				return nil, err
			}
		}
		return exits, nil
	case TypeParallel:
		if len(s.children) == 0 {
			return nil, errors.Errorf("parallel stage %s has no children", s.Name())
		}
		var exits []string
		for _, c := range s.children {
			e, err := b.link(c, preds)
			if err != nil {
				return nil, err
			}
			exits = append(exits, e...)
		}
		return exits, nil
	}
	return nil, errors.Errorf("unknown stage type %s", s.kind)
}

func (b builder) task(t *TaskSpec, preds []string) ([]string, error) {
	switch {
	case t == nil || t.Name == "":
		return nil, errors.New("task name is required")
	case t.Schema == nil:
		return nil, errors.Errorf("task %s has no schema", t.Name)
	case t.Executor == nil:
		return nil, errors.Errorf("task %s has no executor", t.Name)
	}

	attrs := []func(*graph.VertexProperties){graph.VertexAttribute("shape", "box")}
	if status, exists := b.statuses[t.Name]; exists {
		color, err := statusColor(status)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, graph.VertexAttribute("style", "filled"), graph.VertexAttribute("fillcolor", color))
	}
	err := b.g.AddVertex(t.Name, attrs...)
	if errors.Is(err, graph.ErrVertexAlreadyExists) {
		return nil, &TaskError{Task: t.Name, Kind: KindDuplicateKey, Err: errors.Errorf("task %s is declared twice", t.Name)}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot add task %s", t.Name)
	}

	for _, p := range preds {
		if err := b.g.AddEdge(p, t.Name); err != nil {
			return nil, errors.Wrapf(err, "cannot link %s to %s", p, t.Name)
		}
	}
	for _, key := range template.New(t.Instruction).Keys() {
		if !b.seeds[key] {
			continue
		}
		err := b.g.AddEdge(key, t.Name, graph.EdgeAttribute("style", "dashed"))
		if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return nil, errors.Wrapf(err, "cannot link %s to %s", key, t.Name)
		}
	}
	return []string{t.Name}, nil
}

// statusColor returns the fill colour of a task in the given status.
func statusColor(s api.Status) (string, error) {
	var (
		c   *colors.RGBColor
		err error
	)
	switch s {
	case api.StatusRunning:
		c, err = colors.RGB(255, 215, 0)
	case api.StatusCompleted:
		c, err = colors.RGB(144, 238, 144)
	case api.StatusFailed:
		c, err = colors.RGB(255, 99, 71)
	case api.StatusCancelled:
		c, err = colors.RGB(192, 192, 192)
	default:
		c, err = colors.RGB(255, 255, 255)
	}
	if err != nil {
		return "", errors.Wrap(err, "unable to get colour")
	}
	return c.ToHEX().String(), nil
}

// DOT writes the execution graph in the DOT language. Tasks are coloured according to statuses, which may be nil.
func (r *Runner) DOT(w io.Writer, statuses map[string]api.Status) error {
	g, err := buildGraph(r.root, r.seedKeys(), statuses)
	if err != nil {
		return err
	}
	if err := draw.DOT(g, w, draw.GraphAttribute("rankdir", "LR")); err != nil {
		return errors.Wrap(err, "unable to draw graph")
	}
	return nil
}

// Order returns the tasks in an order compatible with their execution: a task comes after every task it runs after.
func (r *Runner) Order() ([]string, error) {
	g, err := buildGraph(r.root, r.seedKeys(), nil)
	if err != nil {
		return nil, err
	}
	order, err := graph.StableTopologicalSort(g, func(a, b string) bool { return a < b })
	if err != nil {
		return nil, errors.Wrap(err, "unable to sort tasks")
	}
	tasks := make(map[string]bool)
	for _, t := range r.root.TaskNames() {
		tasks[t] = true
	}
	res := make([]string, 0, len(tasks))
	for _, v := range order {
		if tasks[v] {
			res = append(res, v)
		}
	}
	return res, nil
}
