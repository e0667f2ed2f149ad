// Package report renders a finished crawl: the banner, the colored site
// tree, the statistics block and the JSON, text, Markdown and CSV exports.
package report

import "github.com/fatih/color"

// Palette holds the colors used for terminal output
type Palette struct {
	Root     *color.Color
	Link     *color.Color
	External *color.Color
	Error    *color.Color
	Warning  *color.Color
	Info     *color.Color
	Dim      *color.Color
}

// NewPalette creates the terminal palette. With noColor every color
// prints plain text.
func NewPalette(noColor bool) *Palette {
	p := &Palette{
		Root:     color.New(color.FgGreen, color.Bold),
		Link:     color.New(color.FgCyan),
		External: color.New(color.FgYellow),
		Error:    color.New(color.FgRed),
		Warning:  color.New(color.FgYellow),
		Info:     color.New(color.FgBlue),
		Dim:      color.New(color.Faint),
	}
	if noColor {
		for _, c := range p.all() {
			c.DisableColor()
		}
	}
	return p
}

// Plain returns a palette that never emits escape codes
func Plain() *Palette {
	return NewPalette(true)
}

func (p *Palette) all() []*color.Color {
	return []*color.Color{p.Root, p.Link, p.External, p.Error, p.Warning, p.Info, p.Dim}
}
