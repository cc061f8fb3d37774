// Package imap fetches recent inbox messages so the user can pick one
// to reply to. It is an optional source: without an [imap] config
// section the inbox view simply shows setup guidance.
package imap

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	mailpkg "github.com/nhle/mail-assistant/internal/mail"
	"github.com/nhle/mail-assistant/internal/model"
)

// Envelope holds the data shown in the inbox list for one message.
type Envelope struct {
	UID     uint32
	Subject string
	From    string
	Date    time.Time
	Seen    bool
}

// Client wraps go-imap v2 for connecting to and querying one mailbox.
// Each operation opens a fresh connection and logs out when done.
type Client struct {
	cfg      model.IMAPConfig
	password string
}

// NewClient creates an IMAP client for the configured account.
func NewClient(cfg model.IMAPConfig, password string) *Client {
	return &Client{cfg: cfg, password: password}
}

// connect dials the server, authenticates, and returns the connected
// client. The caller is responsible for calling Logout.
func (c *Client) connect(_ context.Context) (*imapclient.Client, error) {
	addr := c.cfg.Host + ":" + c.cfg.Port

	var client *imapclient.Client
	var err error

	if c.cfg.TLS {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(c.cfg.Username, c.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf(
			"authentication failed for %s: %w", c.cfg.Username, err,
		)
	}

	return client, nil
}

// FetchEnvelopes selects INBOX, searches the last 7 days, and returns
// envelope data for the most recent messages, up to limit.
func (c *Client) FetchEnvelopes(
	ctx context.Context, limit int,
) ([]Envelope, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	if _, err := client.Select("INBOX", nil).Wait(); err != nil {
		return nil, fmt.Errorf("selecting INBOX: %w", err)
	}

	since := time.Now().AddDate(0, 0, -7)
	criteria := &imap.SearchCriteria{Since: since}

	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching messages: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	if limit > 0 && len(uids) > limit {
		uids = uids[len(uids)-limit:]
	}

	uidSet := imap.UIDSetNum(uids...)
	fetchOpts := &imap.FetchOptions{
		Envelope: true,
		Flags:    true,
		UID:      true,
	}

	fetchCmd := client.Fetch(uidSet, fetchOpts)
	defer fetchCmd.Close()

	var envelopes []Envelope
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}

		buf, err := msg.Collect()
		if err != nil {
			continue
		}

		envelopes = append(envelopes, envelopeFromBuffer(buf))
	}

	if err := fetchCmd.Close(); err != nil {
		return envelopes, fmt.Errorf("fetching envelopes: %w", err)
	}

	return envelopes, nil
}

// FetchReplyContext fetches the full message body for the given UID
// and parses it into the reply context used to seed the compose view.
func (c *Client) FetchReplyContext(
	ctx context.Context, uid uint32,
) (*mailpkg.ReplyContext, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	if _, err := client.Select("INBOX", nil).Wait(); err != nil {
		return nil, fmt.Errorf("selecting INBOX: %w", err)
	}

	uidSet := imap.UIDSetNum(imap.UID(uid))
	bodySection := &imap.FetchItemBodySection{Peek: true}

	fetchOpts := &imap.FetchOptions{
		Envelope:    true,
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := client.Fetch(uidSet, fetchOpts)
	defer fetchCmd.Close()

	msg := fetchCmd.Next()
	if msg == nil {
		return nil, fmt.Errorf("message UID %d not found", uid)
	}

	buf, err := msg.Collect()
	if err != nil {
		return nil, fmt.Errorf("collecting message data: %w", err)
	}

	raw := buf.FindBodySection(bodySection)
	if raw == nil {
		return nil, fmt.Errorf("message UID %d has no body", uid)
	}

	rc, err := mailpkg.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing message UID %d: %w", uid, err)
	}

	if err := fetchCmd.Close(); err != nil {
		return rc, fmt.Errorf("closing fetch: %w", err)
	}

	return rc, nil
}

// envelopeFromBuffer extracts an Envelope from a FetchMessageBuffer.
func envelopeFromBuffer(buf *imapclient.FetchMessageBuffer) Envelope {
	env := Envelope{UID: uint32(buf.UID)}

	if buf.Envelope != nil {
		env.Subject = buf.Envelope.Subject
		env.Date = buf.Envelope.Date

		if len(buf.Envelope.From) > 0 {
			from := buf.Envelope.From[0]
			if from.Name != "" {
				env.From = from.Name
			} else {
				env.From = from.Addr()
			}
		}
	}

	for _, flag := range buf.Flags {
		if flag == imap.FlagSeen {
			env.Seen = true
		}
	}

	return env
}
