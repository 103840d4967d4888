package navigator

import "strings"

// Prompt placeholders.
const (
	ContextPlaceholder  = "{context}"
	QuestionPlaceholder = "{question}"
)

// DefaultPromptTemplate is used until a session sets its own.
const DefaultPromptTemplate PromptTemplate = "You are a knowledgeable assistant answering the following question based on the provided documents: {context} Question: {question}"

// PromptTemplate is a prompt with {context} and {question} placeholders.
type PromptTemplate string

// Validate returns EINVALID unless both placeholders are present.
func (t PromptTemplate) Validate() error {
	if !strings.Contains(string(t), ContextPlaceholder) {
		return Errorf(EINVALID, "prompt template must contain %s", ContextPlaceholder)
	}
	if !strings.Contains(string(t), QuestionPlaceholder) {
		return Errorf(EINVALID, "prompt template must contain %s", QuestionPlaceholder)
	}
	return nil
}

// Render substitutes the formatted passages and the question. Placeholder
// text inside the substituted values is not expanded again.
func (t PromptTemplate) Render(passages []*Passage, question string) string {
	r := strings.NewReplacer(
		ContextPlaceholder, FormatPassages(passages),
		QuestionPlaceholder, question,
	)
	return r.Replace(string(t))
}
