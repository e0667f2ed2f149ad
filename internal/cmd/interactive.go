package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/masahif/rovercrawler/internal/config"
	"github.com/masahif/rovercrawler/internal/report"
)

// Accepted ranges for interactive answers
const (
	minPromptDepth = 1
	maxPromptDepth = 10
	minPromptPages = 10
	maxPromptPages = 1000
)

// ErrNoInput is returned when the prompt's input ends before a URL was given
var ErrNoInput = errors.New("no input")

// stdinIsTerminal reports whether the prompt can be shown
var stdinIsTerminal = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Prompter asks for the crawl settings on a terminal
type Prompter struct {
	in      *bufio.Reader
	out     io.Writer
	palette *report.Palette
}

// NewPrompter creates a Prompter reading answers from in
func NewPrompter(in io.Reader, out io.Writer, p *report.Palette) *Prompter {
	if p == nil {
		p = report.Plain()
	}
	return &Prompter{in: bufio.NewReader(in), out: out, palette: p}
}

// Run asks for the seed URL and the crawl settings. Answers are written
// into cfg; an empty or out-of-range answer keeps the current value.
func (p *Prompter) Run(cfg *config.Config) (string, error) {
	_, _ = p.palette.Root.Fprintln(p.out, "INTERACTIVE MODE")
	_, _ = p.palette.Dim.Fprintln(p.out, "Configure the crawler (press Enter for defaults):")
	_, _ = fmt.Fprintln(p.out)

	seed, err := p.askURL()
	if err != nil {
		return "", err
	}

	if depth, ok := p.askInt(fmt.Sprintf("Max depth [%d]: ", cfg.MaxDepth), minPromptDepth, maxPromptDepth,
		"Depth must be between 1-10, using default"); ok {
		cfg.MaxDepth = depth
	}

	if pages, ok := p.askInt(fmt.Sprintf("Max pages [%d]: ", cfg.MaxPages), minPromptPages, maxPromptPages,
		"Pages must be between 10-1000, using default"); ok {
		cfg.MaxPages = pages
	}

	if verbose, ok := p.askYesNo("Verbose output? [y/N]: "); ok {
		cfg.Verbose = verbose
	}
	if external, ok := p.askYesNo("Follow external links? [y/N]: "); ok {
		cfg.FollowExternal = external
	}

	_, _ = fmt.Fprintln(p.out)
	return seed, nil
}

func (p *Prompter) askURL() (string, error) {
	for {
		answer, err := p.readLine("Target URL: ")
		if answer == "" {
			if err != nil {
				return "", fmt.Errorf("failed to read URL: %w", ErrNoInput)
			}
			_, _ = p.palette.Error.Fprintln(p.out, "[!] URL is required")
			continue
		}

		if lower := strings.ToLower(answer); !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
			_, _ = p.palette.Warning.Fprintln(p.out, "[!] Please include http:// or https://")
		} else if config.ValidateSeedURL(answer) != nil {
			_, _ = p.palette.Error.Fprintln(p.out, "[!] Invalid URL format")
		} else {
			return answer, nil
		}

		if err != nil {
			return "", fmt.Errorf("failed to read URL: %w", ErrNoInput)
		}
	}
}

func (p *Prompter) askInt(prompt string, lo, hi int, warning string) (int, bool) {
	answer, _ := p.readLine(prompt)
	if answer == "" {
		return 0, false
	}

	n, err := strconv.Atoi(answer)
	if err != nil || n < lo || n > hi {
		_, _ = p.palette.Warning.Fprintf(p.out, "[!] %s\n", warning)
		return 0, false
	}
	return n, true
}

// askYesNo reports the answer and whether one was given
func (p *Prompter) askYesNo(prompt string) (bool, bool) {
	answer, _ := p.readLine(prompt)
	if answer == "" {
		return false, false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", true
}

// readLine prints prompt and returns the trimmed answer. The error is
// non-nil once input is exhausted; a final unterminated line is still returned.
func (p *Prompter) readLine(prompt string) (string, error) {
	_, _ = p.palette.Info.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	return strings.TrimSpace(line), err
}
