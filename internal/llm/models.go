package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Recognized chat-model families and variants that are filtered out of
// the model catalog because they cannot serve email generation.
var (
	chatModelPrefixes = []string{"gpt-4", "gpt-3.5"}

	excludedModelSuffixes = []string{"-vision", "-instruct", "-audio-preview"}
)

// ModelOption pairs a model identifier with a short description for
// the preferences dialog.
type ModelOption struct {
	ID          string
	Description string
}

// FallbackModels is the built-in catalog used when the live model list
// cannot be fetched. Listing models is a convenience, not a required
// capability.
func FallbackModels() []ModelOption {
	return []ModelOption{
		{ID: "gpt-4o", Description: "GPT-4o (Most capable, expensive)"},
		{ID: "gpt-4o-mini", Description: "GPT-4o Mini (Recommended, balanced)"},
		{ID: "gpt-4-turbo", Description: "GPT-4 Turbo (Fast, capable)"},
		{ID: "gpt-4", Description: "GPT-4 (Capable, slower)"},
		{ID: "gpt-3.5-turbo", Description: "GPT-3.5 Turbo (Fast, affordable)"},
	}
}

// FetchAvailableModels queries the models endpoint and returns the
// identifiers of supported chat models in provider order. The key must
// already satisfy the configuration validity threshold; the shorter
// timeout applies. Callers are expected to fall back to
// FallbackModels on any error.
func (c *Client) FetchAvailableModels(
	ctx context.Context,
	apiKey string,
) ([]string, error) {
	if len(apiKey) <= 10 {
		return nil, ErrInvalidAPIKey
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.modelsURL, nil,
	)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)

	body, err := c.do(c.modelsHTTP, req)
	if err != nil {
		return nil, err
	}

	var doc modelsResponse
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &ParseError{Err: err}
	}

	return extractModelIDs(&doc), nil
}

// extractModelIDs keeps identifiers from a recognized chat-model
// family, minus excluded variants. Provider order is preserved and
// duplicates are not filtered; an absent data list yields an empty
// result.
func extractModelIDs(doc *modelsResponse) []string {
	ids := make([]string, 0, len(doc.Data))
	for _, entry := range doc.Data {
		if isSupportedChatModel(entry.ID) {
			ids = append(ids, entry.ID)
		}
	}
	return ids
}

func isSupportedChatModel(id string) bool {
	supported := false
	for _, prefix := range chatModelPrefixes {
		if strings.HasPrefix(id, prefix) {
			supported = true
			break
		}
	}
	if !supported {
		return false
	}

	for _, suffix := range excludedModelSuffixes {
		if strings.HasSuffix(id, suffix) {
			return false
		}
	}
	return true
}

type modelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}
