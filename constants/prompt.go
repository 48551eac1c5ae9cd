package constants

const (
	SystemPrompt = "You are a concise editor that trims redundant words without losing nuance."

	// RewritePrompt is rendered with fasttemplate; {{ target }} is the
	// target length in whole percent.
	RewritePrompt = `Rewrite the provided text so it is roughly {{ target }}% of the original length (25-30% shorter).
Keep the tone neutral and ensure the meaning stays intact.
Return only the revised text without commentary or code fences.`

	// UserMessage wraps the source text between fences after the instruction.
	UserMessage = "{{ prompt }}\n\n---\n{{ text }}\n---"

	TemplateStartTag = "{{ "
	TemplateEndTag   = " }}"
)
