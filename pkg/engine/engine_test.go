package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type generatorFunc func(ctx context.Context, prompt string) (string, error)

func (f generatorFunc) GenerateText(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// newTestEngine swaps the real sleep for a recorder so retry timing is
// observable without waiting.
func newTestEngine(gen Generator) (*Engine, *[]time.Duration) {
	e := New(gen)
	slept := &[]time.Duration{}
	e.sleep = func(d time.Duration) { *slept = append(*slept, d) }
	return e, slept
}

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt("noir", "Write something.", "Character: Ava.")
	assert.Equal(t, "You are a narrative engine for an interactive story. Genre: noir. Character: Ava.\n\nWrite something.", got)
}

func TestBuildPromptDefaultGenre(t *testing.T) {
	for _, genre := range []string{"", "   "} {
		got := BuildPrompt(genre, "Write something.", "")
		assert.True(t, strings.HasPrefix(got, "You are a narrative engine for an interactive story. Genre: adventure. "), got)
	}
}

func TestGenerateTrimsText(t *testing.T) {
	e, slept := newTestEngine(generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "\n  Once upon a time.  \n", nil
	}))

	text, err := e.Generate(context.Background(), "fantasy", "Begin.", "")
	require.NoError(t, err)
	assert.Equal(t, "Once upon a time.", text)
	assert.Empty(t, *slept)
}

func TestGenerateEmptyTextIsNotAnError(t *testing.T) {
	e, _ := newTestEngine(generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", nil
	}))

	text, err := e.Generate(context.Background(), "fantasy", "Begin.", "")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestGenerateWithoutGenerator(t *testing.T) {
	e, slept := newTestEngine(nil)

	_, err := e.Generate(context.Background(), "fantasy", "Begin.", "")
	require.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Empty(t, *slept)
}

func TestGenerateRetriesOnceOnRateLimit(t *testing.T) {
	var calls int
	e, slept := newTestEngine(generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED")
		}
		return "It begins.", nil
	}))

	text, err := e.Generate(context.Background(), "fantasy", "Begin.", "")
	require.NoError(t, err)
	assert.Equal(t, "It begins.", text)
	assert.Equal(t, 2, calls)
	require.Len(t, *slept, 1)
	assert.Equal(t, 45*time.Second, (*slept)[0])
}

func TestGenerateRetryFailureWraps(t *testing.T) {
	var calls int
	rateErr := errors.New("quota exceeded for model")
	e, slept := newTestEngine(generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		calls++
		return "", rateErr
	}))

	_, err := e.Generate(context.Background(), "fantasy", "Begin.", "")
	require.Error(t, err)

	var engErr *EngineError
	require.ErrorAs(t, err, &engErr)
	assert.ErrorIs(t, err, rateErr)
	assert.Equal(t, 2, calls)
	assert.Len(t, *slept, 1)
}

func TestGenerateNoRetryOnOtherErrors(t *testing.T) {
	var calls int
	boom := errors.New("connection refused")
	e, slept := newTestEngine(generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		calls++
		return "", boom
	}))

	_, err := e.Generate(context.Background(), "fantasy", "Begin.", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *slept)
}

func TestGenerateSendsIdenticalPromptOnRetry(t *testing.T) {
	var prompts []string
	e, _ := newTestEngine(generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		prompts = append(prompts, prompt)
		if len(prompts) == 1 {
			return "", errors.New("HTTP 429 Too Many Requests")
		}
		return "ok", nil
	}))

	_, err := e.Generate(context.Background(), "fantasy", "Begin.", "Character: Ava.")
	require.NoError(t, err)
	require.Len(t, prompts, 2)
	assert.Equal(t, prompts[0], prompts[1])
}

func TestIsRateLimit(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("googleapi: Error 429"), true},
		{errors.New("RESOURCE_EXHAUSTED: quota metric exceeded"), true},
		{errors.New("resource_exhausted"), true},
		{errors.New("Quota exceeded, please retry"), true},
		{errors.New("connection refused"), false},
		{errors.New("model not found"), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsRateLimit(tc.err), "err=%v", tc.err)
	}
}
