// Package ai optionally enriches detected belief updates with short
// rationale summaries. Without an API key the digest ships with passages only.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/pkg/errors"

	"github.com/alethic/forumdigest/internal/models"
)

const summarizerModel = "gpt-4o-mini"

// Summarizer produces one-sentence rationales for belief-update passages.
type Summarizer struct {
	client openai.Client
}

// NewSummarizer creates a summarizer backed by the OpenAI API.
func NewSummarizer(apiKey string) *Summarizer {
	return &Summarizer{client: openai.NewClient(option.WithAPIKey(apiKey))}
}

type rationaleResponse struct {
	Rationales []struct {
		Index     int    `json:"index"`
		Rationale string `json:"rationale"`
	} `json:"rationales"`
}

// SummarizeRationales fills the Rationale field of each update with a short
// summary of what changed and why. Updates are returned in input order;
// indices the model omits keep an empty rationale.
func (s *Summarizer) SummarizeRationales(ctx context.Context, updates []models.BeliefUpdate) ([]models.BeliefUpdate, error) {
	if len(updates) == 0 {
		return updates, nil
	}

	response, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: summarizerModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String("You summarize stated changes of opinion. For each quoted passage, state in one sentence what the author previously believed and what they believe now."),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(buildRationalePrompt(updates)),
					},
				},
			},
		},
		Temperature: openai.Float(0.1),
		MaxTokens:   openai.Int(2000),
	})
	if err != nil {
		return nil, errors.Wrap(err, "openai request failed")
	}
	if len(response.Choices) == 0 {
		return nil, errors.New("no response from openai")
	}

	var parsed rationaleResponse
	if err := json.Unmarshal([]byte(response.Choices[0].Message.Content), &parsed); err != nil {
		return nil, errors.Wrap(err, "parsing openai response")
	}

	enriched := make([]models.BeliefUpdate, len(updates))
	copy(enriched, updates)
	for _, rationale := range parsed.Rationales {
		if rationale.Index >= 0 && rationale.Index < len(enriched) {
			enriched[rationale.Index].Rationale = rationale.Rationale
		}
	}
	return enriched, nil
}

func buildRationalePrompt(updates []models.BeliefUpdate) string {
	var sb strings.Builder
	sb.WriteString("Summarize the opinion change in each passage below.\n")
	sb.WriteString("Respond with JSON format:\n")
	sb.WriteString(`{"rationales": [{"index": 0, "rationale": "one sentence"}]}`)
	sb.WriteString("\n\nPassages:\n\n")

	for i, update := range updates {
		sb.WriteString(fmt.Sprintf("Passage %d:\n", i))
		sb.WriteString(fmt.Sprintf("Source: %s (%s)\n", update.Item.Title, update.Item.URL))
		sb.WriteString(fmt.Sprintf("Text: %s\n", update.QuotedPassage))
		sb.WriteString("\n")
	}

	return sb.String()
}
