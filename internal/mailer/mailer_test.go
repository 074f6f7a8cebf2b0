package mailer

import (
	"context"
	"errors"
	"mime"
	"strings"
	"testing"

	"github.com/atinyakov/baristafolio/internal/config"
	"github.com/atinyakov/baristafolio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTransport struct {
	SendFunc func(ctx context.Context, from, to string, msg []byte) error
	from, to string
	msg      []byte
}

func (f *fakeTransport) Send(ctx context.Context, from, to string, msg []byte) error {
	f.from, f.to, f.msg = from, to, msg
	if f.SendFunc != nil {
		return f.SendFunc(ctx, from, to, msg)
	}
	return nil
}

var testSite = config.SiteOptions{
	URL:        "https://barista.example",
	OwnerName:  "Sam Brewer",
	OwnerTitle: "Head Barista",
}

func TestSendReply(t *testing.T) {
	tr := &fakeTransport{}
	m, err := New(config.SMTPOptions{User: "owner@example.com"}, testSite, tr, zap.NewNop())
	require.NoError(t, err)

	err = m.SendReply(context.Background(), models.ReplyEmail{
		To: "ann@example.com", Name: "Ann", OriginalMessage: "Do you do <workshops>?", Reply: "Yes!\nEvery Friday.",
	})
	require.NoError(t, err)

	assert.Equal(t, "owner@example.com", tr.from)
	assert.Equal(t, "ann@example.com", tr.to)
	raw := string(tr.msg)
	assert.Contains(t, raw, "Subject: "+mime.QEncoding.Encode("utf-8", "Re: Your Message - Sam Brewer"))
	assert.Contains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, `From: "Sam Brewer" <owner@example.com>`)
}

func TestRender_EscapesHTML(t *testing.T) {
	r, err := newRenderer(testSite)
	require.NoError(t, err)

	text, html, err := r.render(models.ReplyEmail{Name: "Ann", OriginalMessage: "<script>x</script>", Reply: "line1\nline2"})
	require.NoError(t, err)

	assert.Contains(t, text, "line1\nline2")
	assert.Contains(t, text, "<script>x</script>")
	assert.Contains(t, html, "line1<br>line2")
	assert.NotContains(t, html, "<script>")
	assert.True(t, strings.Contains(html, "Head Barista"))
	assert.Contains(t, html, `href="https://barista.example"`)
}

func TestSendReply_NotConfigured(t *testing.T) {
	m, err := New(config.SMTPOptions{}, testSite, &fakeTransport{}, zap.NewNop())
	require.NoError(t, err)
	err = m.SendReply(context.Background(), models.ReplyEmail{To: "a@b.co"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSendReply_TransportError(t *testing.T) {
	tr := &fakeTransport{SendFunc: func(context.Context, string, string, []byte) error {
		return errors.New("535 auth failed")
	}}
	m, err := New(config.SMTPOptions{User: "owner@example.com"}, testSite, tr, zap.NewNop())
	require.NoError(t, err)

	err = m.SendReply(context.Background(), models.ReplyEmail{To: "a@b.co"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "535 auth failed")
}
