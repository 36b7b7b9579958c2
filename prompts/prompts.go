package prompts

import (
	"bytes"
	"embed"
	"text/template"
)

//go:embed templates/*
var templatesFS embed.FS

// Rewritten stories land in this many characters.
const (
	StoryMinChars = 500
	StoryMaxChars = 600
)

func loadPrompt(path string, data any) (string, error) {
	content, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(path).Parse(string(content))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func loadPromptPair(systemPath, userPath string, data any) (systemPrompt, userPrompt string, err error) {
	systemPrompt, err = loadPrompt(systemPath, data)
	if err != nil {
		return "", "", err
	}

	userPrompt, err = loadPrompt(userPath, data)
	if err != nil {
		return "", "", err
	}

	return systemPrompt, userPrompt, nil
}

// RenderStoryRewritePrompt renders the prompt that turns a dataset story into a short
// conversational story for a 4 to 5 year old.
func RenderStoryRewritePrompt(story string) (systemPrompt, userPrompt string, err error) {
	data := struct {
		Story    string
		MinChars int
		MaxChars int
	}{
		Story:    story,
		MinChars: StoryMinChars,
		MaxChars: StoryMaxChars,
	}

	return loadPromptPair("templates/story_rewrite_system.md", "templates/story_rewrite_user.md", data)
}

type StorytellerPromptData struct {
	LanguageList   string // e.g. "Tamil or Hindi"
	EnglishTool    string
	TranslatedTool string
}

// RenderStorytellerPrompt renders the agent's system prompt.
func RenderStorytellerPrompt(data StorytellerPromptData) (string, error) {
	return loadPrompt("templates/storyteller_system.md", data)
}

// RenderToolSelectionPrompt renders the system prompt for the tool-selection step of a turn.
func RenderToolSelectionPrompt(turn int) (string, error) {
	return loadPrompt("templates/tool_selection_system.md", struct{ Turn int }{Turn: turn})
}

type InferenceWithToolPromptData struct {
	Instructions     string
	ToolDescriptions []string
	Query            string
	Context          string
	ToolResults      string
}

// RenderInferenceWithToolPrompt renders the JSON-reply prompt used by models without native tool calling.
func RenderInferenceWithToolPrompt(data InferenceWithToolPromptData) (systemPrompt, userPrompt string, err error) {
	return loadPromptPair("templates/inference_with_tool_system.md", "templates/inference_with_tool_user.md", data)
}

type JudgePromptData struct {
	Input  string // empty when the judge should not see the input
	Output string
	Rubric string
	Schema string // JSON schema of the verdict
}

func RenderJudgePrompt(data JudgePromptData) (systemPrompt, userPrompt string, err error) {
	return loadPromptPair("templates/judge_system.md", "templates/judge_user.md", data)
}
