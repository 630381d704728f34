package simulation

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"

	"github.com/wowlab/guildsim/internal/logger"
)

// Runner executes one simulation and returns the HTML report. Progress is
// delivered through the emit callback as the run produces output.
type Runner interface {
	Run(ctx context.Context, input string, emit func(Event)) (string, error)
}

// progressRe matches the percentage simc prints while iterating, e.g.
// "Generating Baseline: 42%".
var progressRe = regexp.MustCompile(`(\d+)%`)

// SimcRunner shells out to the SimulationCraft binary.
type SimcRunner struct {
	// Path is the simc executable.
	Path string
}

// NewSimcRunner creates a runner for the given simc binary path.
func NewSimcRunner(path string) *SimcRunner {
	return &SimcRunner{Path: path}
}

// Run writes the profile to a scratch file, executes simc with an HTML
// report target, streams stdout/stderr lines through emit, and returns the
// report contents. The context cancels the child process.
func (r *SimcRunner) Run(ctx context.Context, input string, emit func(Event)) (string, error) {
	dir, err := os.MkdirTemp("", "guildsim-run-")
	if err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	inputPath := filepath.Join(dir, "profile.simc")
	reportPath := filepath.Join(dir, "report.html")
	if err := os.WriteFile(inputPath, []byte(input), 0600); err != nil {
		return "", fmt.Errorf("write profile: %w", err)
	}

	cmd := exec.CommandContext(ctx, r.Path, inputPath, "html="+reportPath)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("attach stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", fmt.Errorf("attach stderr: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("start simc: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		scanLines(stdout, EventStdout, emit)
	}()
	go func() {
		defer wg.Done()
		scanLines(stderr, EventStderr, emit)
	}()
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("simc run aborted: %w", ctx.Err())
		}
		return "", fmt.Errorf("simc exited: %w", err)
	}

	report, err := os.ReadFile(reportPath)
	if err != nil {
		return "", fmt.Errorf("read report: %w", err)
	}

	logger.FromContext(ctx).Info("simulation run finished",
		"report_bytes", len(report))
	return string(report), nil
}

// scanLines forwards each output line as an event, attaching the parsed
// progress percentage when the line carries one.
func scanLines(r io.Reader, eventType EventType, emit func(Event)) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		ev := Event{Type: eventType, Content: line}
		if m := progressRe.FindStringSubmatch(line); m != nil {
			ev.Progress, _ = strconv.Atoi(m[1])
		}
		emit(ev)
	}
}
