package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/masahif/rovercrawler/internal/config"
	"github.com/masahif/rovercrawler/internal/report"
)

func TestPrompterRun(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantSeed     string
		wantDepth    int
		wantPages    int
		wantVerbose  bool
		wantExternal bool
		wantOutput   []string
	}{
		{
			name:         "all answers",
			input:        "https://example.com\n4\n50\ny\nyes\n",
			wantSeed:     "https://example.com",
			wantDepth:    4,
			wantPages:    50,
			wantVerbose:  true,
			wantExternal: true,
		},
		{
			name:      "defaults kept",
			input:     "https://example.com/docs\n\n\n\n\n",
			wantSeed:  "https://example.com/docs",
			wantDepth: config.DefaultMaxDepth,
			wantPages: config.DefaultMaxPages,
		},
		{
			name:       "out of range answers",
			input:      "https://example.com\n20\n5\nn\nN\n",
			wantSeed:   "https://example.com",
			wantDepth:  config.DefaultMaxDepth,
			wantPages:  config.DefaultMaxPages,
			wantOutput: []string{"Depth must be between 1-10", "Pages must be between 10-1000"},
		},
		{
			name:       "URL retried",
			input:      "\nexample.com\nhttps://\nhttp://example.com\n2\n10\n\n\n",
			wantSeed:   "http://example.com",
			wantDepth:  2,
			wantPages:  10,
			wantOutput: []string{"URL is required", "Please include http:// or https://", "Invalid URL format"},
		},
		{
			name:      "upper-case scheme",
			input:     "HTTPS://Example.com\n\n\n\n\n",
			wantSeed:  "HTTPS://Example.com",
			wantDepth: config.DefaultMaxDepth,
			wantPages: config.DefaultMaxPages,
		},
		{
			name:         "unterminated last line",
			input:        "https://example.com\n5\n200\nn\ny",
			wantSeed:     "https://example.com",
			wantDepth:    5,
			wantPages:    200,
			wantExternal: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cfg := config.DefaultConfig()

			seed, err := NewPrompter(strings.NewReader(tt.input), &out, report.Plain()).Run(cfg)
			if err != nil {
				t.Fatalf("Prompt failed: %v", err)
			}

			if seed != tt.wantSeed {
				t.Errorf("Expected seed %s, got %s", tt.wantSeed, seed)
			}
			if cfg.MaxDepth != tt.wantDepth {
				t.Errorf("Expected depth %d, got %d", tt.wantDepth, cfg.MaxDepth)
			}
			if cfg.MaxPages != tt.wantPages {
				t.Errorf("Expected pages %d, got %d", tt.wantPages, cfg.MaxPages)
			}
			if cfg.Verbose != tt.wantVerbose {
				t.Errorf("Expected verbose %v, got %v", tt.wantVerbose, cfg.Verbose)
			}
			if cfg.FollowExternal != tt.wantExternal {
				t.Errorf("Expected external %v, got %v", tt.wantExternal, cfg.FollowExternal)
			}
			for _, want := range tt.wantOutput {
				if !strings.Contains(out.String(), want) {
					t.Errorf("Expected output to contain %q, got:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestPrompterKeepsConfiguredValues(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxDepth = 6
	cfg.FollowExternal = true

	var out bytes.Buffer
	if _, err := NewPrompter(strings.NewReader("https://example.com\n\n\n\n\n"), &out, nil).Run(cfg); err != nil {
		t.Fatalf("Prompt failed: %v", err)
	}

	if cfg.MaxDepth != 6 {
		t.Errorf("Expected depth 6 to be kept, got %d", cfg.MaxDepth)
	}
	if !cfg.FollowExternal {
		t.Error("Expected follow external to be kept")
	}
	if !strings.Contains(out.String(), "Max depth [6]: ") {
		t.Errorf("Expected current depth in prompt, got:\n%s", out.String())
	}
}

func TestPrompterNoInput(t *testing.T) {
	inputs := []string{"", "\n\n", "example.com"}

	for _, input := range inputs {
		_, err := NewPrompter(strings.NewReader(input), &bytes.Buffer{}, report.Plain()).Run(config.DefaultConfig())
		if !errors.Is(err, ErrNoInput) {
			t.Errorf("Input %q: expected ErrNoInput, got %v", input, err)
		}
	}
}
