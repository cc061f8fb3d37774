package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFetchAvailableModelsFiltering(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/v1/models", r.URL.Path)
		require.Equal(t, "Bearer "+testAPIKey, r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":[
			{"id":"gpt-4o"},
			{"id":"gpt-4-vision"},
			{"id":"dall-e-3"},
			{"id":"gpt-3.5-turbo-instruct"}
		]}`))
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL)
	ids, err := client.FetchAvailableModels(context.Background(), testAPIKey)
	require.NoError(t, err)
	require.Equal(t, []string{"gpt-4o"}, ids)
}

func TestFetchAvailableModelsPreservesOrderAndDuplicates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[
			{"id":"gpt-4-turbo"},
			{"id":"gpt-3.5-turbo"},
			{"id":"gpt-4-turbo"},
			{"id":"gpt-4o-audio-preview"}
		]}`))
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL)
	ids, err := client.FetchAvailableModels(context.Background(), testAPIKey)
	require.NoError(t, err)
	require.Equal(t, []string{"gpt-4-turbo", "gpt-3.5-turbo", "gpt-4-turbo"}, ids)
}

func TestFetchAvailableModelsAbsentData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL)
	ids, err := client.FetchAvailableModels(context.Background(), testAPIKey)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestFetchAvailableModelsShortKey(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL)
	_, err := client.FetchAvailableModels(context.Background(), "0123456789")
	require.ErrorIs(t, err, ErrInvalidAPIKey)
	require.Zero(t, calls)
}

func TestFetchAvailableModelsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"Rate limit reached"}}`))
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL)
	_, err := client.FetchAvailableModels(context.Background(), testAPIKey)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}

func TestFallbackModels(t *testing.T) {
	models := FallbackModels()
	require.Len(t, models, 5)
	require.Equal(t, "gpt-4o", models[0].ID)
	require.Equal(t, "gpt-4o-mini", models[1].ID)

	for _, m := range models {
		require.True(t, isSupportedChatModel(m.ID),
			"fallback model %s must pass the catalog filter", m.ID)
		require.NotEmpty(t, m.Description)
	}
}

func TestIsSupportedChatModel(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"gpt-4o", true},
		{"gpt-4o-mini", true},
		{"gpt-3.5-turbo", true},
		{"gpt-4-vision", false},
		{"gpt-3.5-turbo-instruct", false},
		{"gpt-4o-audio-preview", false},
		{"dall-e-3", false},
		{"o1-preview", false},
		{"", false},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, isSupportedChatModel(tt.id), tt.id)
	}
}
