package scenario

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"jackut/internal/apperrors"
	"jackut/internal/jackut"
)

var varPattern = regexp.MustCompile(`\$\{([A-Za-z0-9_.-]+)\}`)

// Failure describes one step that did not behave as expected.
type Failure struct {
	Step   int // 1-based
	Op     string
	Reason string
}

func (f Failure) String() string {
	return fmt.Sprintf("step %d (%s): %s", f.Step, f.Op, f.Reason)
}

// Result captures the outcome of a scenario run.
type Result struct {
	Name       string
	Steps      int
	Failures   []Failure
	DurationMs int64
}

func (r Result) Passed() bool { return len(r.Failures) == 0 }

// Runner executes scenarios against one facade. Variables saved by a step stay visible
// to later steps of the same scenario only.
type Runner struct {
	facade *jackut.Facade
	log    zerolog.Logger
}

func NewRunner(f *jackut.Facade, log zerolog.Logger) *Runner {
	return &Runner{facade: f, log: log.With().Str("component", "scenario").Logger()}
}

// Run executes every step in order and keeps going after a failure so the report lists
// all of them. It only returns early when ctx is done.
func (r *Runner) Run(ctx context.Context, s *Scenario) Result {
	start := time.Now()
	res := Result{Name: s.Name, Steps: len(s.Steps)}
	vars := map[string]string{}

	for i, step := range s.Steps {
		if ctx.Err() != nil {
			res.Failures = append(res.Failures, Failure{Step: i + 1, Op: step.Op, Reason: ctx.Err().Error()})
			break
		}
		if reason := r.runStep(ctx, step, vars); reason != "" {
			f := Failure{Step: i + 1, Op: step.Op, Reason: reason}
			r.log.Debug().Str("scenario", s.Name).Msg(f.String())
			res.Failures = append(res.Failures, f)
		}
	}

	res.DurationMs = time.Since(start).Milliseconds()
	return res
}

// runStep returns an empty string when the step passed, or the reason it failed.
func (r *Runner) runStep(ctx context.Context, step Step, vars map[string]string) string {
	op, ok := operations[step.Op]
	if !ok {
		return "unknown op"
	}

	values := make([]string, len(op.params))
	for i, key := range op.params {
		raw, ok := step.Args[key]
		if !ok {
			return fmt.Sprintf("missing argument %q", key)
		}
		v, err := substitute(raw, vars)
		if err != nil {
			return err.Error()
		}
		values[i] = v
	}

	out, err := op.call(ctx, r.facade, values)

	if step.ExpectError != nil {
		want, serr := substitute(*step.ExpectError, vars)
		if serr != nil {
			return serr.Error()
		}
		if err == nil {
			return fmt.Sprintf("expected error %q, got output %q", want, out)
		}
		if got := apperrors.MessageOf(err); got != want {
			return fmt.Sprintf("expected error %q, got %q", want, got)
		}
		return ""
	}
	if err != nil {
		return fmt.Sprintf("unexpected error: %s", apperrors.MessageOf(err))
	}
	if step.Expect != nil {
		want, serr := substitute(*step.Expect, vars)
		if serr != nil {
			return serr.Error()
		}
		if out != want {
			return fmt.Sprintf("expected %q, got %q", want, out)
		}
	}
	if step.Save != "" {
		vars[step.Save] = out
	}
	return ""
}

func substitute(s string, vars map[string]string) (string, error) {
	if !strings.Contains(s, "${") {
		return s, nil
	}
	var missing string
	out := varPattern.ReplaceAllStringFunc(s, func(m string) string {
		name := varPattern.FindStringSubmatch(m)[1]
		v, ok := vars[name]
		if !ok && missing == "" {
			missing = name
		}
		return v
	})
	if missing != "" {
		return "", fmt.Errorf("undefined variable %q", missing)
	}
	return out, nil
}
