package mail

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const simpleMessage = "From: Jane Doe <jane@example.com>\r\n" +
	"To: me@example.com\r\n" +
	"Subject: Quarterly numbers\r\n" +
	"Date: Mon, 02 Jun 2025 09:30:00 +0000\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Hi,\r\n" +
	"\r\n" +
	"Could you send the Q2 figures?\r\n"

const multipartMessage = "From: bob@example.com\r\n" +
	"Subject: Re: status\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/alternative; boundary=frontier\r\n" +
	"\r\n" +
	"--frontier\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"plain text body\r\n" +
	"--frontier\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"\r\n" +
	"<p>html body</p>\r\n" +
	"--frontier--\r\n"

func TestParseSimpleMessage(t *testing.T) {
	rc, err := Parse(strings.NewReader(simpleMessage))
	require.NoError(t, err)

	require.Equal(t, "Jane Doe", rc.SenderName)
	require.Equal(t, "jane@example.com", rc.SenderAddress)
	require.Equal(t, "Quarterly numbers", rc.Subject)
	require.Equal(t, time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC), rc.Date.UTC())
	require.Contains(t, rc.TextBody, "Could you send the Q2 figures?")
}

func TestParsePrefersPlainTextPart(t *testing.T) {
	rc, err := Parse(strings.NewReader(multipartMessage))
	require.NoError(t, err)

	require.Equal(t, "bob@example.com", rc.SenderAddress)
	require.Empty(t, rc.SenderName)
	require.Contains(t, rc.TextBody, "plain text body")
	require.NotContains(t, rc.TextBody, "html body")
}

func TestReplySubject(t *testing.T) {
	rc := &ReplyContext{Subject: "Quarterly numbers"}
	require.Equal(t, "Re: Quarterly numbers", rc.ReplySubject())

	rc.Subject = "Re: status"
	require.Equal(t, "Re: status", rc.ReplySubject())

	rc.Subject = "RE: STATUS"
	require.Equal(t, "RE: STATUS", rc.ReplySubject())

	rc.Subject = ""
	require.Empty(t, rc.ReplySubject())
}

func TestQuotedBlock(t *testing.T) {
	rc := &ReplyContext{
		SenderName: "Jane Doe",
		Date:       time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
		TextBody:   "line one\nline two\n",
	}

	got := rc.QuotedBlock()
	require.Equal(t,
		"On Mon, 2 Jun 2025 at 09:30, Jane Doe wrote:\n"+
			"> line one\n"+
			"> line two\n",
		got,
	)
}

func TestQuotedBlockFallbackAttribution(t *testing.T) {
	rc := &ReplyContext{SenderAddress: "jane@example.com", TextBody: "hi"}
	require.True(t, strings.HasPrefix(rc.QuotedBlock(), "jane@example.com wrote:\n"))

	rc = &ReplyContext{TextBody: "hi"}
	require.True(t, strings.HasPrefix(rc.QuotedBlock(), "Unknown wrote:\n"))
}
