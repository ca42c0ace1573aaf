package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"time"
	"untangle/pkg/api"
)

const (
	progressBarWidth       = 20
	progressBarChar        = "■"
	progressBarPlaceholder = "·"
)

var (
	statusIconMap map[api.Status]string
)

func init() {
	statusIconMap = map[api.Status]string{
		api.StatusCreated:   "◷",
		api.StatusRunning:   "●",
		api.StatusCancelled: "ǁ",
		api.StatusCompleted: "✔",
		api.StatusFailed:    "✖",
	}
}

// PrintOptions defines print options
type PrintOptions struct {
	// Errors prints the error of failed tasks.
	Errors bool
}

// PrintRun prints the run state in the given writer
func PrintRun(w io.Writer, run api.PipelineState, opts PrintOptions) {
	fmt.Fprintln(w)

	// Header
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "Pipeline:\t%s\n", run.Name)
	fmt.Fprintf(tw, "ProcessID:\t%s\n", run.ProcessID)
	fmt.Fprintf(tw, "Status:\t%s\n", run.Status)
	fmt.Fprintf(tw, "Created:\t%s\n", date(run.CreateTime))
	fmt.Fprintf(tw, "Started:\t%s\n", date(run.StartTime))
	fmt.Fprintf(tw, "Finished:\t%s\n", date(run.EndTime))
	fmt.Fprintf(tw, "Duration:\t%s\n", duration(run.StartTime, run.EndTime))
	fmt.Fprintf(tw, "Progression:\t%s\n", progression(run.Tasks))
	tw.Flush()
	fmt.Fprintln(w)

	tw.Init(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK\tDURATION\tATTEMPTS")
	fmt.Fprintf(tw, "%s %s\t\t\n", statusIconMap[run.Status], run.Name)
	for i, task := range run.Tasks {
		prefix := "├"
		if i == len(run.Tasks)-1 {
			prefix = "└"
		}
		printTask(tw, task, prefix, opts)
	}
	tw.Flush()
}

func printTask(w io.Writer, task api.TaskState, prefix string, opts PrintOptions) {
	attempts := ""
	if task.Attempts > 0 {
		attempts = fmt.Sprintf("%d", task.Attempts)
	}
	fmt.Fprintf(w, "%s %s %s\t%s\t%s\n", prefix, statusIconMap[task.Status], task.Name, duration(task.StartTime, task.EndTime), attempts)
	if opts.Errors && task.Error != "" {
		fmt.Fprintf(w, "│   %s\t\t\n", task.Error)
	}
}

// PrintResult prints the report of a completed run as indented JSON, or the failure of a failed run.
func PrintResult(w io.Writer, res api.RunResult) error {
	if res.Failure != nil {
		fmt.Fprintf(w, "%s\n", res.Status)
		printFailure(w, *res.Failure, 0)
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Value)
}

func printFailure(w io.Writer, f api.Failure, depth int) {
	indent := strings.Repeat("  ", depth)
	task := f.Task
	if task == "" {
		task = "-"
	}
	fmt.Fprintf(w, "%s%s %s %s: %s\n", indent, statusIconMap[api.StatusFailed], f.Kind, task, f.Message)
	for _, c := range f.Children {
		printFailure(w, c, depth+1)
	}
}

// progression returns a string to be printed for task progression
func progression(tasks []api.TaskState) string {
	total := len(tasks)
	if total == 0 {
		return ""
	}
	finished := 0
	for _, t := range tasks {
		if t.Status.Finished() {
			finished++
		}
	}
	return fmt.Sprintf("%s %d/%d", progressBar(finished, total), finished, total)
}

func progressBar(current, total int) string {
	value := (current * progressBarWidth) / total
	buf := bytes.NewBuffer(make([]byte, 0, progressBarWidth))
	for i := 0; i < progressBarWidth; i++ {
		if i < value {
			buf.WriteString(progressBarChar)
		} else {
			buf.WriteString(progressBarPlaceholder)
		}
	}
	return buf.String()
}

func date(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2 Jan 2006 15:04:05.000")
}

func duration(start, end *time.Time) string {
	var d time.Duration
	if start == nil {
		return ""
	}
	if end == nil {
		d = time.Since(*start)
	} else {
		d = end.Sub(*start)
	}

	// Print
	if d.Seconds() <= 60.0 {
		return fmt.Sprintf("%0.0fs", d.Seconds())
	} else if d.Minutes() <= 60.0 {
		m := int64(d.Minutes())
		s := math.Mod(d.Seconds(), 60)
		return fmt.Sprintf("%0.dm %0.0fs", m, s)
	} else {
		h := int64(d.Hours())
		m := int64(math.Mod(d.Minutes(), 60))
		s := math.Mod(d.Seconds(), 60)
		return fmt.Sprintf("%0.dh %0.dm %0.0fs", h, m, s)
	}
}
