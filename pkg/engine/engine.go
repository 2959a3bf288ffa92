package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"fable/pkg/utils"
)

const (
	// DefaultGenre is substituted when the caller supplies no genre.
	DefaultGenre = "adventure"

	// rateLimitWait is how long to pause before the single retry after a
	// rate-limit failure.
	rateLimitWait = 45 * time.Second
)

// Generator is the one-operation contract against a hosted text-generation
// provider: prompt in, text out. An empty string with a nil error means the
// provider produced no usable text.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Engine performs one logical generation per call, retrying exactly once on a
// rate-limit failure. It holds no state between calls.
type Engine struct {
	gen   Generator
	wait  time.Duration
	sleep func(time.Duration)
}

// New wraps a Generator. gen may be nil when no credential was configured;
// Generate then reports ErrMissingAPIKey per call instead of failing startup.
func New(gen Generator) *Engine {
	return &Engine{
		gen:   gen,
		wait:  rateLimitWait,
		sleep: time.Sleep,
	}
}

// BuildPrompt composes the full prompt sent to the provider. A blank genre
// becomes DefaultGenre. No length limits are enforced; the caller-maintained
// transcript may grow without bound.
func BuildPrompt(genre, instruction, hint string) string {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		genre = DefaultGenre
	}
	return fmt.Sprintf("You are a narrative engine for an interactive story. Genre: %s. %s\n\n%s", genre, hint, instruction)
}

// Generate builds the prompt and calls the provider once. On a rate-limit
// error it waits and retries the identical call exactly once; any other
// failure (or the retry's failure) comes back wrapped as *EngineError.
// Empty text is not a failure: callers must treat "" as "the engine produced
// nothing" and substitute their own placeholder.
func (e *Engine) Generate(ctx context.Context, genre, instruction, hint string) (string, error) {
	if e.gen == nil {
		return "", ErrMissingAPIKey
	}

	prompt := BuildPrompt(genre, instruction, hint)
	if log.GetLevel() <= log.DebugLevel {
		if tokens, err := utils.NumTokensFromMessages(prompt); err == nil {
			log.Debug("calling story generator", "genre", genre, "prompt_len", len(prompt), "prompt_tokens", tokens)
		}
	}

	text, err := e.gen.GenerateText(ctx, prompt)
	if err != nil && IsRateLimit(err) {
		log.Warn("rate limit hit; waiting then retrying once", "wait", e.wait, "error", err)
		e.sleep(e.wait)
		text, err = e.gen.GenerateText(ctx, prompt)
	}
	if err != nil {
		log.Error("story engine error", "genre", genre, "error", err)
		return "", &EngineError{Err: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		log.Warn("generator returned empty or no text", "genre", genre)
	}
	return text, nil
}

// IsRateLimit reports whether err looks like a quota / 429 condition. The
// match is textual since providers surface these inconsistently.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	return utils.StringContains(err.Error(), false, "429", "resource_exhausted", "quota")
}
