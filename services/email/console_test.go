package emailsvc

import (
	"bytes"
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shms/core"
	testutil "github.com/trezcool/shms/tests"
)

func testConfig() *core.Config {
	return &core.Config{AppName: "SHMS", FrontendBaseURL: "http://localhost:4000"}
}

func TestConsoleServiceMock_SendMessages(t *testing.T) {
	core.ParseEmailTemplates(testutil.NopLogger{})
	svc := NewConsoleServiceMock(testConfig(), testutil.NopLogger{})

	svc.SendMessages(
		&core.EmailMessage{
			To:           []mail.Address{{Name: "Ravi", Address: "ravi@uni.edu"}},
			Subject:      "Welcome",
			TemplateName: "welcome",
			TemplateData: map[string]string{"Name": "Ravi", "Email": "ravi@uni.edu", "Role": "student"},
		},
		&core.EmailMessage{Subject: "no recipients", BodyStr: "dropped"},
		&core.EmailMessage{To: []mail.Address{{Address: "a@b.c"}}, TemplateName: "missing"},
	)

	sent := svc.Sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].TextContent, "Hi Ravi")
	assert.Contains(t, sent[0].TextContent, "ravi@uni.edu")
	assert.Contains(t, sent[0].HTMLContent, "<strong>ravi@uni.edu</strong>")
}

func TestConsoleService_send(t *testing.T) {
	var out bytes.Buffer
	svc := NewConsoleService(testConfig(), testutil.NopLogger{})
	svc.out = &out

	require.True(t, svc.sendMessage(&core.EmailMessage{
		To:      []mail.Address{{Address: "ravi@uni.edu"}},
		Subject: "Hello",
		BodyStr: "plain body",
	}))
	assert.Contains(t, out.String(), "Subject: [SHMS] Hello")
	assert.Contains(t, out.String(), "To: <ravi@uni.edu>")
	assert.Contains(t, out.String(), "plain body")
}
