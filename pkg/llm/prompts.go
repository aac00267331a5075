package llm

import (
	"context"
	"fmt"
	"strings"
)

const (
	generationSystemPrompt = "Please generate an essay."
	styleSystemPrompt      = "You are a style analysis engine."

	styleUserPrompt = "Analyze the human claimed text inputted. Does it show signs of repetitiveness or " +
		"excessive listing that are typical of AI-generated writing? Specifically, check for " +
		"(1) repeated phrases or patterns, (2) heavy use of enumeration or bullet-like structures, " +
		"and (3) lack of natural flow. Answer only with 'Likely AI', 'Likely Human', or 'Unclear'.\n\nEssay:\n"
)

// Generator writes reference essays. It satisfies generation.Service.
type Generator struct {
	client *Client
}

// NewGenerator returns a Generator backed by client.
func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

// Generate asks for an essay on thesis of about targetWordCount words.
func (g *Generator) Generate(ctx context.Context, targetWordCount int, thesis string) (string, error) {
	return g.client.Complete(ctx, []Message{
		{Role: "system", Content: generationSystemPrompt},
		{Role: "user", Content: GenerationPrompt(targetWordCount, thesis)},
	})
}

// GenerationPrompt is the user message sent for one reference essay.
func GenerationPrompt(targetWordCount int, thesis string) string {
	return fmt.Sprintf("Generate an essay based on the thesis: '%s'. The essay should be approximately %d words long.", thesis, targetWordCount)
}

// StyleJudge asks the model whether an essay shows machine-typical
// repetition and listing. It satisfies style.Judge.
type StyleJudge struct {
	client *Client
}

// NewStyleJudge returns a StyleJudge backed by client.
func NewStyleJudge(client *Client) *StyleJudge {
	return &StyleJudge{client: client}
}

// JudgeStyle returns the trimmed answer.
func (j *StyleJudge) JudgeStyle(ctx context.Context, text string) (string, error) {
	answer, err := j.client.Complete(ctx, []Message{
		{Role: "system", Content: styleSystemPrompt},
		{Role: "user", Content: styleUserPrompt + text},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}
