// Package gemini generates AI narratives for meal responses and crash
// events using Google's Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/schema"
)

// Assessor wraps a Gemini client bound to one model.
type Assessor struct {
	client *genai.Client
	model  string
}

// NewAssessor creates an Assessor from the configured API key and model.
// A missing key is an error up front rather than a failed request later.
func NewAssessor(ctx context.Context, cfg *contract.Config) (*Assessor, error) {
	if cfg.GeminiKey == "" {
		return nil, fmt.Errorf("%w: set GLUCODIP_GEMINI_API_KEY or add it to .env", contract.ErrNoGeminiKey)
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Assessor{client: client, model: cfg.GeminiModel}, nil
}

// Model returns the model name the assessor generates with.
func (a *Assessor) Model() string {
	return a.model
}

// Close releases the underlying client connection.
func (a *Assessor) Close() error {
	return a.client.Close()
}

// AssessMeal generates a narrative assessment of one meal's glucose response.
func (a *Assessor) AssessMeal(ctx context.Context, meal *schema.MealResult) (string, error) {
	return a.generate(ctx, BuildMealPrompt(meal))
}

// ExplainCrash generates an explanation of one crash event, given the foods
// eaten in the hours before it.
func (a *Assessor) ExplainCrash(ctx context.Context, crash schema.CrashEvent, priorFoods []schema.FoodEntry) (string, error) {
	return a.generate(ctx, BuildCrashPrompt(crash, priorFoods))
}

// generate sends one prompt and extracts the text of the first candidate.
func (a *Assessor) generate(ctx context.Context, prompt string) (string, error) {
	model := a.client.GenerativeModel(a.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return responseText(resp)
}

// responseText flattens the first candidate's text parts. Gemini can return
// multiple parts for one candidate, so all of them are joined.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from model")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", fmt.Errorf("response contained no text parts")
	}
	return out, nil
}
