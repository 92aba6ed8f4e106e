package contact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposerAdmin(t *testing.T) {
	c := Composer{Sender: "owner@example.com", Owner: "Salwyn Christopher"}

	msg, err := c.Admin(Submission{
		Name:    `<b>Jo</b> & "friends"`,
		Email:   "jo@x.com",
		Subject: "Hi <there>",
		Message: "line one\nit's <script>alert(1)</script>\r\nline three",
	})
	require.NoError(t, err)

	assert.Equal(t, "owner@example.com", msg.From)
	assert.Equal(t, "owner@example.com", msg.To)
	assert.Equal(t, "jo@x.com", msg.ReplyTo)
	assert.Equal(t, "Portfolio Contact: Hi <there>", msg.Subject)

	assert.Contains(t, msg.HTML, "&lt;b&gt;Jo&lt;/b&gt; &amp; &#34;friends&#34;")
	assert.Contains(t, msg.HTML, "Hi &lt;there&gt;")
	assert.Contains(t, msg.HTML, "line one<br>it&#39;s &lt;script&gt;alert(1)&lt;/script&gt;<br>line three")
	assert.NotContains(t, msg.HTML, "<script>")
	assert.NotContains(t, msg.HTML, "\r")
}

func TestComposerAcknowledgment(t *testing.T) {
	c := Composer{Sender: "owner@example.com", Owner: "Salwyn Christopher"}

	msg, err := c.Acknowledgment(Submission{
		Name:    "Jo's <img>",
		Email:   "jo@x.com",
		Subject: "Hi",
		Message: "Hello there, nice site!",
	})
	require.NoError(t, err)

	assert.Equal(t, "owner@example.com", msg.From)
	assert.Equal(t, "jo@x.com", msg.To)
	assert.Empty(t, msg.ReplyTo)
	assert.Equal(t, "Thank you for contacting me", msg.Subject)
	assert.Contains(t, msg.HTML, "Thank you, Jo&#39;s &lt;img&gt;!")
	assert.Contains(t, msg.HTML, "Best regards,<br>Salwyn Christopher")
	// the acknowledgment echoes the subject, not the message body
	assert.False(t, strings.Contains(msg.HTML, "nice site"))
}
