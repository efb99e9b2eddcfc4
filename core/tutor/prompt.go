package tutor

import (
	"strings"
	"text/template"

	"github.com/pkg/errors"
)

const (
	defaultDisplayName = "student"
	defaultInterests   = "farming"
)

var tutorTmpl = template.Must(template.New("tutor").Parse(
	`You are FarmWise Tutor, an expert AI assistant specializing in agriculture and aquaculture. Your goal is to help users learn effectively. You are friendly, encouraging, and an expert in breaking down complex topics.

Your current student is {{.DisplayName}}, who is interested in {{.Interests}}.
Their progress so far: {{.LearningProgress}}.

You are tutoring them on the lesson: "{{.LessonTitle}}".
Here is the lesson content:
---
{{.LessonContent}}
---

Below is the conversation history. The user's latest message is at the end.
{{range .History}}**{{.Role}}**: {{.Content}}
{{end}}**user**: {{.UserMessage}}

Based on the lesson content and the conversation, provide a helpful and encouraging response to the user.
- If the user asks a question, answer it clearly using the lesson content as the primary source.
- If the user is confused, break down the concept into simpler terms.
- If the user is seeking more information, provide relevant details or suggest what to focus on next in the lesson.
- Keep your responses concise and focused on the user's message.
- Address the user by name ({{.DisplayName}}) when appropriate.
- Do not ask what they want to do next, instead, provide a clear explanation or answer and encourage them to ask more questions if they have any.
`))

var suggestTmpl = template.Must(template.New("suggest").Parse(
	`You are an AI assistant designed to suggest relevant learning modules for farmers.

Based on the farmer's profile, their current learning progress, and available modules, recommend the most helpful modules for their specific needs.

Farmer Profile: {{.Profile}}
Learning Progress: {{.Progress}}
Available Modules: {{.Modules}}

Consider the farmer's experience level, interests, and any specific challenges they may be facing.
Explain why you are suggesting these specific modules and how they can benefit the farmer.

Output the suggested modules and reasoning in a JSON format.
`))

const avatarPromptFmt = "A cute, modern, vector-style avatar for a user profile based on the following prompt: %s. The background should be a simple, pleasing solid color."

// BuildPrompt fills the tutor template. Values are inserted verbatim.
func BuildPrompt(in TutorInput) (string, error) {
	if strings.TrimSpace(in.DisplayName) == "" {
		in.DisplayName = defaultDisplayName
	}
	if strings.TrimSpace(in.Interests) == "" {
		in.Interests = defaultInterests
	}
	// the template closes the sentence
	in.LearningProgress = strings.TrimSuffix(strings.TrimSpace(in.LearningProgress), ".")

	var sb strings.Builder
	if err := tutorTmpl.Execute(&sb, in); err != nil {
		return "", errors.Wrap(err, "executing tutor template")
	}
	return sb.String(), nil
}

type suggestInput struct {
	Profile  string
	Progress string
	Modules  string
}

func buildSuggestPrompt(in suggestInput) (string, error) {
	var sb strings.Builder
	if err := suggestTmpl.Execute(&sb, in); err != nil {
		return "", errors.Wrap(err, "executing suggestion template")
	}
	return sb.String(), nil
}

// suggestionSchema is the JSON schema of Suggestion.
var suggestionSchema = Schema{
	Name: "learning_module_suggestion",
	Definition: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"suggestedModules": map[string]interface{}{
				"type":        "string",
				"description": "A list of suggested learning modules tailored to the user.",
			},
			"reasoning": map[string]interface{}{
				"type":        "string",
				"description": "Explanation of why these modules were suggested.",
			},
		},
		"required":             []interface{}{"suggestedModules", "reasoning"},
		"additionalProperties": false,
	},
}
