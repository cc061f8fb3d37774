package model

// GenerationRequest represents one user-initiated generation. It is
// created per action, consumed synchronously by the client, and
// discarded once the result has been delivered; it is never retried.
type GenerationRequest struct {
	// OriginalEmail is the quoted message being replied to, if any.
	OriginalEmail string

	// SenderName and SenderEmail identify the original sender when
	// recoverable from the reply context.
	SenderName  string
	SenderEmail string

	// Prompt is the text sent as the user turn. Required.
	Prompt string

	// Response holds the generated text. Populated only on success.
	Response string
}
