// Package quotes tops up the companion's quote pool with lines
// generated by an LLM. Generated lines are buffered on disk so a restart
// does not cost another API call.
package quotes

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/b/ratrak/pkg/config"
	"github.com/b/ratrak/pkg/paths"
	"github.com/teilomillet/gollm"
)

// MaxRunes bounds a generated line so it fits the bubble.
const MaxRunes = 32

var ErrNoAPIKey = errors.New("no API key")

// Generator turns a prompt into raw text.
type Generator func(ctx context.Context, prompt string) (string, error)

// BufferPath is where generated lines are kept between runs.
func BufferPath() string {
	return paths.StatePath("quote_buffer.txt")
}

// NewLLM builds a gollm-backed generator for cfg.
func NewLLM(cfg config.LLM) (Generator, error) {
	provider := cfg.Provider
	model := cfg.Model
	if model == "" {
		// Default to cheapest option
		switch provider {
		case "anthropic":
			model = "claude-3-haiku-20240307"
		case "openai":
			model = "gpt-3.5-turbo"
		case "ollama":
			model = "llama3"
		}
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		switch provider {
		case "anthropic":
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		case "openai":
			apiKey = os.Getenv("OPENAI_API_KEY")
		case "ollama":
			apiKey = "ollama"
		}
	}
	if apiKey == "" {
		return nil, fmt.Errorf("provider %s: %w", provider, ErrNoAPIKey)
	}

	client, err := gollm.NewLLM(
		gollm.SetProvider(provider),
		gollm.SetModel(model),
		gollm.SetAPIKey(apiKey),
		gollm.SetMaxTokens(400),
		gollm.SetTemperature(0.9),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return func(ctx context.Context, prompt string) (string, error) {
		return client.Generate(ctx, gollm.NewPrompt(prompt))
	}, nil
}

// Prompt asks for count lines in the companion's voice. examples seed
// the tone.
func Prompt(count int, examples []string) string {
	return fmt.Sprintf(`You are Ratrak, a tiny snow groomer that lives in the corner of a developer's personal site.
You speak in short terminal-style status lines that mix snow grooming with software work.

Examples:
%s

Generate %d new lines in the same voice (max %d chars each).
Output ONLY the lines, one per line, each starting with "> ", no numbers, no explanation. Lowercase preferred.`,
		strings.Join(examples, "\n"), count, MaxRunes)
}

// Parse cleans a raw response into quote lines.
func Parse(response string) []string {
	var out []string
	for _, line := range strings.Split(response, "\n") {
		q := strings.TrimSpace(line)
		q = strings.Trim(q, "\"'`")
		if q == "" {
			continue
		}
		// Remove list prefixes like "1.", "1:", "- "
		if len(q) > 2 && q[0] >= '0' && q[0] <= '9' && (q[1] == '.' || q[1] == ':' || q[1] == ')') {
			q = strings.TrimSpace(q[2:])
		}
		q = strings.TrimSpace(strings.TrimPrefix(q, "- "))
		q = strings.TrimSpace(strings.TrimPrefix(q, ">"))
		q = strings.Trim(q, "\"'`")
		if q == "" {
			continue
		}
		q = "> " + q
		if runes := []rune(q); len(runes) > MaxRunes {
			q = string(runes[:MaxRunes-1]) + "…"
		}
		out = append(out, q)
	}
	return out
}

// Merge appends the lines of extra missing from pool.
func Merge(pool, extra []string) []string {
	seen := make(map[string]bool, len(pool)+len(extra))
	out := make([]string, 0, len(pool)+len(extra))
	for _, q := range append(append([]string(nil), pool...), extra...) {
		if seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
	}
	return out
}

// LoadBuffer reads buffered lines. A missing file is an empty buffer.
func LoadBuffer(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

// SaveBuffer replaces the buffer file with lines.
func SaveBuffer(path string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

// Options configure Fill.
type Options struct {
	Generate Generator
	Buffer   string // defaults to BufferPath()
	Count    int
	Timeout  time.Duration
	Log      *log.Logger
}

// Fill returns pool topped up with buffered lines, generating a fresh
// batch first when the buffer is empty. Failures are logged and leave
// the pool unchanged.
func Fill(ctx context.Context, pool []string, opts Options) []string {
	logger := opts.Log
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	path := opts.Buffer
	if path == "" {
		path = BufferPath()
	}

	buffered, err := LoadBuffer(path)
	if err != nil {
		logger.Printf("quote buffer: %v", err)
	}
	if len(buffered) == 0 && opts.Generate != nil {
		buffered = generate(ctx, pool, opts, logger)
		if len(buffered) > 0 {
			if err := SaveBuffer(path, buffered); err != nil {
				logger.Printf("save quote buffer: %v", err)
			}
		}
	}
	return Merge(pool, buffered)
}

func generate(ctx context.Context, pool []string, opts Options, logger *log.Logger) []string {
	count := opts.Count
	if count <= 0 {
		count = 40
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	response, err := opts.Generate(ctx, Prompt(count, pool))
	if err != nil {
		logger.Printf("generate quotes: %v", err)
		return nil
	}
	lines := Parse(response)
	logger.Printf("generated %d quotes in %s", len(lines), time.Since(start).Round(time.Millisecond))
	return lines
}
