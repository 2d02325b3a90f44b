// Package progress renders pipeline stage progress.
//
// All rendering goes to stderr; stdout stays reserved for program
// data. The render mode is chosen once at construction: an animated
// inline indicator when stderr is an interactive terminal, single
// inline lines otherwise (logs, CI).
package progress

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Pipeline renders `[i/total] name` stage progress. The total is fixed
// at construction and used for every label; the counter starts at zero
// and increments once per StartStage.
type Pipeline struct {
	total       int
	current     int
	interactive bool
	out         io.Writer

	prog *tea.Program
	done chan struct{}
}

// StageHandle identifies an in-flight stage between StartStage and
// FinishStage.
type StageHandle struct {
	name string
}

// New creates a pipeline renderer for the given stage total, writing
// to stderr. Interactive mode is selected when stderr is a terminal.
func New(total int) *Pipeline {
	interactive := term.IsTerminal(int(os.Stderr.Fd()))
	return newPipeline(total, os.Stderr, interactive)
}

// NewPlain creates a non-interactive renderer writing to w.
// Used in tests and wherever animated output is unwanted.
func NewPlain(total int, w io.Writer) *Pipeline {
	return newPipeline(total, w, false)
}

func newPipeline(total int, w io.Writer, interactive bool) *Pipeline {
	p := &Pipeline{
		total:       total,
		interactive: interactive,
		out:         w,
	}
	if interactive {
		p.prog = tea.NewProgram(
			newModel(),
			tea.WithOutput(w),
			tea.WithInput(nil),
			tea.WithoutSignalHandler(),
		)
		p.done = make(chan struct{})
		go func() {
			defer close(p.done)
			_, _ = p.prog.Run()
		}()
	}
	return p
}

// StartStage increments the stage counter and renders the stage line.
// In interactive mode the line is a live indicator re-rendered on a
// fixed tick; otherwise it is written immediately without a newline so
// FinishStage can append the result.
func (p *Pipeline) StartStage(name string) *StageHandle {
	p.current++
	prefix := fmt.Sprintf("[%d/%d]", p.current, p.total)

	if p.interactive {
		p.prog.Send(setLabelMsg(fmt.Sprintf("%s %s", prefix, name)))
	} else {
		fmt.Fprintf(p.out, "%s %s...", prefix, name)
	}
	return &StageHandle{name: name}
}

// FinishStage replaces the live indicator with a static success mark
// and the result text, or appends the result to the inline line.
func (p *Pipeline) FinishStage(_ *StageHandle, result string) {
	if p.interactive {
		p.prog.Send(printLineMsg(finishLine(result)))
		p.prog.Send(setLabelMsg(""))
		return
	}
	fmt.Fprintf(p.out, " %s\n", result)
}

// finishLine composes the persistent stage-completion line: a success
// mark with the result text muted so the stage labels stay dominant.
func finishLine(result string) string {
	return "  " + SuccessStyle.Render("✓") + " " + DetailStyle.Render(result)
}

// Finish writes the closing banner after the last stage and tears down
// the interactive renderer.
func (p *Pipeline) Finish(outputPath string) {
	if p.interactive {
		p.prog.Send(printLineMsg("\n  " + BannerStyle.Render("✓") + " Binary ready: " + outputPath + "\n"))
		p.quit()
		return
	}
	fmt.Fprintf(p.out, "\nDone: %s\n", outputPath)
}

// Close tears down the interactive renderer without a closing banner.
// Safe to call after Finish; used on fatal stage failure so the
// spinner does not outlive the run.
func (p *Pipeline) Close() {
	if p.interactive {
		p.quit()
	}
}

func (p *Pipeline) quit() {
	select {
	case <-p.done:
		return
	default:
	}
	p.prog.Send(quitMsg{})
	<-p.done
}
