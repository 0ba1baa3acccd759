package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/resumematch/internal/client/analysis"
	"github.com/dmitrijs2005/resumematch/internal/client/render"
	"github.com/dmitrijs2005/resumematch/internal/client/upload"
)

var getMultiline = GetMultiline

// Upload selects the file at path and uploads it. Rejections keep the
// previous selection in place.
func (a *App) Upload(ctx context.Context, path string) error {
	if path == "" {
		printlnFn("Usage: upload <path>")
		return nil
	}

	ref, err := a.widget.SelectPath(ctx, path)
	if err != nil {
		if errors.Is(err, upload.ErrSuperseded) {
			return err
		}
		if msg := a.widget.State().Error; msg != "" {
			printlnFn(msg)
		} else {
			printlnFn("Could not read file:", err)
		}
		return err
	}

	printlnFn("Resume uploaded: " + ref.FileName)
	return nil
}

func (a *App) RemoveResume(ctx context.Context) error {
	a.widget.Remove()
	printlnFn("Resume removed")
	return nil
}

// JobDescription sets the job description from text or, when text is
// empty, from lines typed until an empty line.
func (a *App) JobDescription(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		var err error
		text, err = getMultiline(a.reader, "Paste the job description, finish with an empty line", a.out)
		if err != nil {
			return err
		}
	}
	a.screen.SetJobDescription(text)
	printlnFn(fmt.Sprintf("Job description set (%d characters)", len(strings.TrimSpace(text))))
	return nil
}

// JobDescriptionFile reads the job description from a file.
func (a *App) JobDescriptionFile(ctx context.Context, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		printlnFn("Could not read file:", err)
		return err
	}
	return a.JobDescription(ctx, string(b))
}

// Analyze submits the current résumé and job description and prints the
// result.
func (a *App) Analyze(ctx context.Context) error {
	printlnFn("Analyzing...")
	res, err := a.screen.Submit(ctx)
	if err != nil {
		switch {
		case errors.Is(err, analysis.ErrInFlight):
			printlnFn("An analysis is already running")
		case errors.Is(err, analysis.ErrStale), errors.Is(err, context.Canceled):
		default:
			st := a.screen.State()
			if st.Error != "" {
				printlnFn(st.Error)
			}
			if st.CanRelogin() {
				printlnFn("Type 'relogin' to sign in again")
			}
		}
		return err
	}
	return a.view.Render(a.out, res)
}

// Result prints the last successful result again.
func (a *App) Result(ctx context.Context) error {
	res := a.screen.State().Result
	if res == nil {
		printlnFn("No analysis yet")
		return nil
	}
	return a.view.Render(a.out, res)
}

// Toggle expands or collapses a result section and redraws the result.
func (a *App) Toggle(ctx context.Context, name string) error {
	s, ok := render.ParseSection(name)
	if !ok {
		printlnFn("Usage: toggle strengths|missing|suggestions")
		return nil
	}
	a.view.Toggle(s)
	return a.Result(ctx)
}
