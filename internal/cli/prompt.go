package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sdejongh/imgsweep/pkg/models"
)

const (
	deletePrompt = "Do you want to delete bad images? Y/N"
	movePrompt   = "Do you want to move bad images? <folder>/N"
)

// prompter asks line-based questions on a terminal
type prompter struct {
	lines   chan string
	done    chan struct{}
	stopped chan struct{}
	out     io.Writer
}

// newPrompter reads answers from in. Unless allowPipe is set, in must be a
// terminal so the command never blocks waiting on a pipe nobody writes to.
func newPrompter(in io.Reader, out io.Writer, allowPipe bool) (*prompter, error) {
	if !allowPipe && !isTerminal(in) {
		return nil, &models.ConfigError{
			Field:   "prompt",
			Message: "stdin is not a terminal; pass --delete, --move or --prompt-stdin",
		}
	}

	p := &prompter{
		lines:   make(chan string, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		out:     out,
	}

	go func() {
		defer close(p.stopped)
		defer close(p.lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case p.lines <- scanner.Text():
			case <-p.done:
				return
			}
		}
	}()

	return p, nil
}

// close releases the reader goroutine. A reader blocked inside a terminal
// read exits after its next line.
func (p *prompter) close() {
	select {
	case <-p.done:
	default:
		close(p.done)
	}
}

// ask prints question and waits for one line. ok is false at end of input
// or when ctx is cancelled.
func (p *prompter) ask(ctx context.Context, question string) (string, bool) {
	fmt.Fprintln(p.out, question)

	select {
	case line, ok := <-p.lines:
		return strings.TrimSpace(line), ok
	case <-ctx.Done():
		return "", false
	}
}

// confirmDelete asks until it gets y or n, case-insensitively
func (p *prompter) confirmDelete(ctx context.Context) bool {
	for {
		answer, ok := p.ask(ctx, deletePrompt)
		if !ok {
			return false
		}
		switch strings.ToLower(answer) {
		case "y":
			return true
		case "n":
			return false
		}
	}
}

// moveFolder asks for a destination folder. ok is false when the user
// answers N or input ends.
func (p *prompter) moveFolder(ctx context.Context) (string, bool) {
	for {
		answer, ok := p.ask(ctx, movePrompt)
		if !ok || strings.EqualFold(answer, "n") {
			return "", false
		}
		if answer != "" {
			return answer, true
		}
	}
}
