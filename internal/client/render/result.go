// Package render draws the analysis result and the profile card for the
// terminal. Everything here is a pure function of its inputs plus the local
// expand/collapse state of the result sections.
package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/resumematch/internal/client/models"
)

// Section identifies a collapsible block of the result view.
type Section string

const (
	SectionStrengths   Section = "strengths"
	SectionWeaknesses  Section = "weaknesses"
	SectionSuggestions Section = "suggestions"
)

// Sections lists the blocks in display order.
var Sections = []Section{SectionStrengths, SectionWeaknesses, SectionSuggestions}

func (s Section) Title() string {
	switch s {
	case SectionStrengths:
		return "Strengths"
	case SectionWeaknesses:
		return "Missing Skills"
	case SectionSuggestions:
		return "AI Suggestions"
	}
	return string(s)
}

// ParseSection accepts a section name or a short alias.
func ParseSection(name string) (Section, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "strengths", "s":
		return SectionStrengths, true
	case "weaknesses", "missing", "w", "m":
		return SectionWeaknesses, true
	case "suggestions", "g":
		return SectionSuggestions, true
	}
	return "", false
}

const barWidth = 30

// ResultView renders an analysis result. Each section toggles on its own
// and starts expanded.
type ResultView struct {
	Style Style

	mu        sync.Mutex
	collapsed map[Section]bool
}

func NewResultView(style Style) *ResultView {
	return &ResultView{Style: style, collapsed: map[Section]bool{}}
}

// Toggle flips section and reports whether it is now expanded.
func (v *ResultView) Toggle(s Section) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.collapsed[s] = !v.collapsed[s]
	return !v.collapsed[s]
}

func (v *ResultView) Expanded(s Section) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.collapsed[s]
}

// FormatScore prints a score without trailing zeros ("72", "72.5").
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func (v *ResultView) Render(w io.Writer, r *models.AnalysisResult) error {
	band := BandFor(r.MatchScore)
	st := v.Style

	var b strings.Builder
	b.WriteString(st.paint(bold, "Analysis Results") + "\n")
	b.WriteString(st.paint(dim, "Based on the job description and your resume") + "\n\n")
	fmt.Fprintf(&b, "%s %s\n",
		st.paint(band.Background+bold, " "+FormatScore(r.MatchScore)+"% "),
		st.paint(band.Text+bold, band.Label))
	b.WriteString(progressBar(st, band, r.MatchScore) + "\n")

	for _, s := range Sections {
		b.WriteString("\n")
		v.renderSection(&b, s, r)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func progressBar(st Style, band Band, score float64) string {
	clamped := math.Max(0, math.Min(100, score))
	filled := int(math.Round(clamped / 100 * barWidth))
	return "[" + st.paint(band.Fill, strings.Repeat("█", filled)) + strings.Repeat("░", barWidth-filled) + "]"
}

func (v *ResultView) renderSection(b *strings.Builder, s Section, r *models.AnalysisResult) {
	var items []string
	var summary string
	switch s {
	case SectionStrengths:
		items = r.Strengths
		summary = fmt.Sprintf("%d skills matched", len(items))
	case SectionWeaknesses:
		items = r.Weaknesses
		summary = fmt.Sprintf("%d skills to improve", len(items))
	case SectionSuggestions:
		items = r.Suggestions
		summary = fmt.Sprintf("%d recommendations", len(items))
	}

	expanded := v.Expanded(s)
	marker := "▸"
	if expanded {
		marker = "▾"
	}
	fmt.Fprintf(b, "%s %s %s\n", marker, v.Style.paint(bold, s.Title()), v.Style.paint(dim, "("+summary+")"))
	if !expanded {
		return
	}

	for i, item := range items {
		switch s {
		case SectionStrengths:
			fmt.Fprintf(b, "  %s %s\n", v.Style.paint(fgGreen, "✓"), item)
		case SectionWeaknesses:
			fmt.Fprintf(b, "  %s %s\n", v.Style.paint(fgRed, "✗"), item)
		default:
			fmt.Fprintf(b, "  %s %s\n", v.Style.paint(fgBlue, strconv.Itoa(i+1)+"."), item)
		}
	}
}
