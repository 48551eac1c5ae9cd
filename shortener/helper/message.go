package helper

import (
	"strconv"

	"github.com/sashabaranov/go-openai"
	"github.com/spance/concise-go/constants"
	"github.com/valyala/fasttemplate"
)

func CreateSystemMessage(content string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: content,
	}
}

// CreateUserMessage fences text below the rewrite instruction.
func CreateUserMessage(prompt, text string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		Content: render(constants.UserMessage, map[string]any{
			"prompt": prompt,
			"text":   text,
		}),
	}
}

// BuildPrompt renders the rewrite instruction for the given length ratio.
// The percentage is truncated toward zero and the ratio is not range checked.
func BuildPrompt(ratio float64) string {
	target := int(ratio * 100)
	return render(constants.RewritePrompt, map[string]any{
		"target": strconv.Itoa(target),
	})
}

// BuildMessages returns the system and user turns of a rewrite request.
func BuildMessages(prompt, text string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		CreateSystemMessage(constants.SystemPrompt),
		CreateUserMessage(prompt, text),
	}
}

func render(template string, values map[string]any) string {
	return fasttemplate.ExecuteString(template, constants.TemplateStartTag, constants.TemplateEndTag, values)
}
