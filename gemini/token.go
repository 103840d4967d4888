package gemini

import (
	"context"

	"github.com/fwojciec/navigator"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// DefaultTokenizerModel is the model whose vocabulary fetch estimates use.
const DefaultTokenizerModel = "gemini-2.5-flash"

var _ navigator.TokenCounter = (*TokenCounter)(nil)

// TokenCounter estimates token counts offline with the Gemini sentencepiece
// vocabulary. No API key is needed.
type TokenCounter struct {
	model string
	tok   *tokenizer.LocalTokenizer
}

// NewTokenCounter loads the tokenizer for model. An unsupported model is
// EMODELUNAVAILABLE.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, navigator.WrapError(navigator.EMODELUNAVAILABLE, err, "no local tokenizer for %q", model)
	}
	return &TokenCounter{model: model, tok: tok}, nil
}

// Model returns the tokenizer's model name.
func (tc *TokenCounter) Model() string {
	return tc.model
}

// CountTokens returns the token count of text as a single user turn.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if text == "" {
		return 0, nil
	}

	result, err := tc.tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, nil)
	if err != nil {
		return 0, navigator.WrapError(navigator.EINTERNAL, err, "counting tokens")
	}
	return int(result.TotalTokens), nil
}
