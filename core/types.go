// Package core provides the Lumen SDK types.
package core

// InteractionStatus is the lifecycle state of an interaction.
type InteractionStatus string

const (
	StatusQueued     InteractionStatus = "queued"
	StatusInProgress InteractionStatus = "in_progress"
	StatusCompleted  InteractionStatus = "completed"
	StatusFailed     InteractionStatus = "failed"
	StatusCancelled  InteractionStatus = "cancelled"
)

// Terminal reports whether the status is a final state.
func (s InteractionStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Role represents a message participant role.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn of input to an interaction.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// FileIDs references files previously uploaded through the Files API.
	FileIDs []string `json:"file_ids,omitempty"`
}

// ContentType identifies the kind of a content block.
type ContentType string

const (
	ContentTypeText    ContentType = "text"
	ContentTypeThought ContentType = "thought"
)

// Content is one output block of an interaction. Blocks are streamed
// incrementally: content.start carries the initial block, content.delta
// events extend it, content.stop closes it.
type Content struct {
	Type ContentType `json:"type"`
	Text string      `json:"text,omitempty"`
}

// Delta is an incremental extension of a content block.
type Delta struct {
	Type ContentType `json:"type,omitempty"`
	Text string      `json:"text,omitempty"`
}

// TokenUsage reports token consumption for an interaction.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Interaction is a model run and its accumulated output.
type Interaction struct {
	ID         string            `json:"id"`
	Model      string            `json:"model,omitempty"`
	Status     InteractionStatus `json:"status,omitempty"`
	Contents   []Content         `json:"contents,omitempty"`
	Usage      *TokenUsage       `json:"usage,omitempty"`
	CreateTime string            `json:"create_time,omitempty"`
	UpdateTime string            `json:"update_time,omitempty"`
}

// Text returns the concatenated text of all text content blocks.
func (i *Interaction) Text() string {
	var out string
	for _, c := range i.Contents {
		if c.Type == ContentTypeText {
			out += c.Text
		}
	}
	return out
}

// InteractionRequest describes an interaction to create.
type InteractionRequest struct {
	// Model is the model identifier (required).
	Model string `json:"model"`

	// Input is the ordered conversation input (at least one message).
	Input []Message `json:"input"`

	// Temperature adjusts sampling. Nil uses the server default.
	Temperature *float32 `json:"temperature,omitempty"`

	// MaxOutputTokens caps generated tokens. Nil uses the server default.
	MaxOutputTokens *int `json:"max_output_tokens,omitempty"`

	// Cache names a content cache to prepend as implicit context.
	Cache string `json:"cache,omitempty"`
}
