package ai

// Message roles accepted by the messages endpoint.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ContentBlock is one part of a message: plain text or an inline image.
type ContentBlock struct {
	Type   string       `json:"type"` // "text" or "image"
	Text   string       `json:"text,omitempty"`
	Source *ImageSource `json:"source,omitempty"`
}

// ImageSource carries base64-encoded image data for the vision endpoint.
type ImageSource struct {
	Type      string `json:"type"` // always "base64"
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// Message is one turn of a conversation.
type Message struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// Usage tracks token consumption as reported by the provider.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Result is the provider's answer to one completion call.
type Result struct {
	Text       string `json:"text"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason,omitempty"`
	Usage      Usage  `json:"usage"`
}

// TextMessage builds a single-turn user message from plain text.
func TextMessage(text string) []Message {
	return []Message{{
		Role:    RoleUser,
		Content: []ContentBlock{{Type: "text", Text: text}},
	}}
}

// VisionMessage builds a single-turn user message carrying one image plus an
// instruction.
func VisionMessage(mediaType string, base64Data string, instruction string) []Message {
	return []Message{{
		Role: RoleUser,
		Content: []ContentBlock{
			{Type: "image", Source: &ImageSource{Type: "base64", MediaType: mediaType, Data: base64Data}},
			{Type: "text", Text: instruction},
		},
	}}
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Usage      Usage  `json:"usage"`
}
