// Package mail parses an RFC 822 message into the context needed to
// compose a reply: who sent it, what it said, and a quoted block to
// seed the compose area with.
package mail

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
)

// ReplyContext holds the parts of an original message a reply needs.
type ReplyContext struct {
	SenderName    string
	SenderAddress string
	Subject       string
	Date          time.Time
	TextBody      string
}

// Parse reads a full RFC 822 message and extracts the reply context.
// A message whose MIME structure cannot be walked still yields the
// raw body as plain text rather than failing outright.
func Parse(r io.Reader) (*ReplyContext, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading message: %w", err)
	}
	defer mr.Close()

	rc := &ReplyContext{}

	if addrs, err := mr.Header.AddressList("From"); err == nil && len(addrs) > 0 {
		rc.SenderName = addrs[0].Name
		rc.SenderAddress = addrs[0].Address
	}
	if subject, err := mr.Header.Subject(); err == nil {
		rc.Subject = subject
	}
	if date, err := mr.Header.Date(); err == nil {
		rc.Date = date
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, _ := h.ContentType()
		if !strings.HasPrefix(contentType, "text/plain") {
			continue
		}

		body, readErr := io.ReadAll(part.Body)
		if readErr != nil {
			continue
		}
		rc.TextBody = string(body)
		break
	}

	return rc, nil
}

// ParseFile parses a message stored in an .eml file.
func ParseFile(path string) (*ReplyContext, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening message file %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f)
}

// ReplySubject prefixes the original subject with "Re: " unless it
// already carries one.
func (rc *ReplyContext) ReplySubject() string {
	if rc.Subject == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(rc.Subject), "re:") {
		return rc.Subject
	}
	return "Re: " + rc.Subject
}

// QuotedBlock renders the original message as a quoted reply: an
// attribution line followed by "> "-prefixed body lines.
func (rc *ReplyContext) QuotedBlock() string {
	var b strings.Builder

	b.WriteString(rc.attribution())
	b.WriteString("\n")

	body := strings.TrimRight(rc.TextBody, "\n")
	for _, line := range strings.Split(body, "\n") {
		b.WriteString("> ")
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

// attribution builds the "On <date>, <name> wrote:" line.
func (rc *ReplyContext) attribution() string {
	who := rc.SenderName
	if who == "" {
		who = rc.SenderAddress
	}
	if who == "" {
		who = "Unknown"
	}

	if rc.Date.IsZero() {
		return fmt.Sprintf("%s wrote:", who)
	}
	return fmt.Sprintf(
		"On %s, %s wrote:",
		rc.Date.Format("Mon, 2 Jan 2006 at 15:04"), who,
	)
}
