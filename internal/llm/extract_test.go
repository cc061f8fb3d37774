package llm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractPrompt(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{
			name:   "marker followed by more text",
			text:   "/aw: write a reply\nmore text",
			want:   "write a reply",
			wantOK: true,
		},
		{
			name:   "marker at end of buffer",
			text:   "Hi Jane,\n\n/aw: decline politely",
			want:   "decline politely",
			wantOK: true,
		},
		{
			name:   "marker mid-line",
			text:   "draft so far /aw: make it shorter",
			want:   "make it shorter",
			wantOK: true,
		},
		{
			name:   "no marker",
			text:   "just a normal email body",
			wantOK: false,
		},
		{
			name:   "marker with empty instruction",
			text:   "/aw:   \nrest of email",
			wantOK: false,
		},
		{
			name:   "marker with only trailing newline",
			text:   "/aw:\n",
			wantOK: false,
		},
		{
			name:   "empty text",
			text:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractPrompt(tt.text)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				require.Equal(t, tt.want, got)
			}
		})
	}
}

func TestExtractQuotedOriginal(t *testing.T) {
	t.Run("attribution line", func(t *testing.T) {
		text := "My reply.\n\nOn Mon, Jan 2, Jane wrote:\n> original"
		got, ok := ExtractQuotedOriginal(text)
		require.True(t, ok)
		require.Equal(t, "On Mon, Jan 2, Jane wrote:\n> original", got)
	})

	t.Run("quote marker only", func(t *testing.T) {
		text := "My reply.\n\n> first quoted line\n> second"
		got, ok := ExtractQuotedOriginal(text)
		require.True(t, ok)
		require.Equal(t, "> first quoted line\n> second", got)
	})

	t.Run("no quoted block", func(t *testing.T) {
		_, ok := ExtractQuotedOriginal("fresh email, nothing quoted")
		require.False(t, ok)
	})
}

func TestExtractSenderInfo(t *testing.T) {
	t.Run("name and angle address", func(t *testing.T) {
		headers := "From: Jane Doe <jane@example.com>\nSubject: x"
		info, ok := ExtractSenderInfo(headers)
		require.True(t, ok)
		require.Equal(t, "Jane Doe", info.Name)
		require.Equal(t, "jane@example.com", info.Address)
	})

	t.Run("bare address", func(t *testing.T) {
		info, ok := ExtractSenderInfo("From: jane@example.com\n")
		require.True(t, ok)
		require.Equal(t, "Unknown", info.Name)
		require.Equal(t, "jane@example.com", info.Address)
	})

	t.Run("unterminated angle bracket", func(t *testing.T) {
		_, ok := ExtractSenderInfo("From: Jane Doe <jane@example.com\nSubject: x")
		require.False(t, ok)
	})

	t.Run("no from header", func(t *testing.T) {
		_, ok := ExtractSenderInfo("Subject: hello\nTo: someone@example.com")
		require.False(t, ok)
	})

	t.Run("value without address", func(t *testing.T) {
		_, ok := ExtractSenderInfo("From: undisclosed recipients\n")
		require.False(t, ok)
	})
}
