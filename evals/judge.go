package evals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/SaiNageswarS/tiny-tales/llm"
	"github.com/SaiNageswarS/tiny-tales/prompts"
	"github.com/invopop/jsonschema"
)

var ErrInvalidVerdict = errors.New("judge returned an invalid verdict")

// Verdict is the judge's grading of one output.
type Verdict struct {
	Reason string  `json:"reason" jsonschema:"description=One or two sentences explaining the grade"`
	Pass   bool    `json:"pass" jsonschema:"description=Whether the output satisfies the rubric"`
	Score  float64 `json:"score" jsonschema:"minimum=0,maximum=1,description=How well the output satisfies the rubric"`
}

// VerdictSchema returns the inlined JSON schema of Verdict shown to the judge.
func VerdictSchema() (string, error) {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := reflector.Reflect(&Verdict{})

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal verdict schema: %w", err)
	}
	return string(schemaBytes), nil
}

type Judge interface {
	Judge(ctx context.Context, c Case, output string) (Verdict, error)
}

// LLMJudge grades outputs against a rubric with a language model.
type LLMJudge struct {
	client llm.LLMClient
}

func NewLLMJudge(client llm.LLMClient) *LLMJudge {
	return &LLMJudge{client: client}
}

func (j *LLMJudge) Judge(ctx context.Context, c Case, output string) (Verdict, error) {
	schema, err := VerdictSchema()
	if err != nil {
		return Verdict{}, err
	}

	data := prompts.JudgePromptData{
		Output: output,
		Rubric: c.Rubric,
		Schema: schema,
	}
	if c.IncludeInput {
		data.Input = c.Input
	}

	systemPrompt, userPrompt, err := prompts.RenderJudgePrompt(data)
	if err != nil {
		return Verdict{}, err
	}

	var sb strings.Builder
	err = j.client.GenerateInference(ctx,
		[]llm.Message{{Role: "user", Content: userPrompt}},
		func(chunk string) error {
			sb.WriteString(chunk)
			return nil
		},
		llm.WithSystemPrompt(systemPrompt),
		llm.WithTemperature(0),
		llm.WithMaxTokens(1024),
	)
	if err != nil {
		return Verdict{}, fmt.Errorf("judge inference failed: %w", err)
	}

	return parseVerdict(sb.String())
}

// parseVerdict reads the first JSON object in the reply, ignoring code fences or prose around it.
func parseVerdict(reply string) (Verdict, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return Verdict{}, fmt.Errorf("%w: no JSON object in %q", ErrInvalidVerdict, reply)
	}

	var v Verdict
	if err := json.Unmarshal([]byte(reply[start:end+1]), &v); err != nil {
		return Verdict{}, fmt.Errorf("%w: %v", ErrInvalidVerdict, err)
	}

	if v.Score == 0 && v.Pass {
		v.Score = 1
	}
	return v, nil
}
