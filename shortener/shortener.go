package shortener

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/spance/concise-go/shortener/definitions"
	"github.com/spance/concise-go/shortener/helper"
	"github.com/spance/concise-go/shortener/llm"
)

type Shortener struct {
	Config      *definitions.Config
	ModelClient *llm.ModelClient
}

func NewShortener(cfg *definitions.Config, logger *zerolog.Logger) *Shortener {
	return &Shortener{
		Config:      cfg,
		ModelClient: llm.NewModelClient(cfg, logger),
	}
}

// Run reads the whole of input and returns its shortened rewrite. Input that
// is not UTF-8, or is empty after trimming, fails before any request is sent.
func (s *Shortener) Run(ctx context.Context, input io.Reader) (string, error) {
	raw, err := io.ReadAll(input)
	if err != nil {
		return "", definitions.NewInputError(fmt.Errorf("read input: %w", err))
	}

	if !utf8.Valid(raw) {
		return "", definitions.NewInputError(definitions.ErrInvalidInput)
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", definitions.NewInputError(definitions.ErrEmptyInput)
	}

	prompt := helper.BuildPrompt(s.Config.Ratio)
	zerolog.Ctx(ctx).Debug().
		Int("input_chars", len([]rune(text))).
		Float64("ratio", s.Config.Ratio).
		Msg("built rewrite prompt")

	return s.ModelClient.Request(ctx, helper.BuildMessages(prompt, text))
}
