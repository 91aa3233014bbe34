package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"hrms-backend/config"
	"hrms-backend/models"
)

type memLog struct{ emails []*models.Email }

func (m *memLog) CreateEmail(ctx context.Context, email *models.Email) error {
	m.emails = append(m.emails, email)
	return nil
}

type stubTransport struct {
	err  error
	sent int
}

func (s *stubTransport) Send(ctx context.Context, from string, to []string, subject, body, messageID string) error {
	s.sent++
	return s.err
}

func (s *stubTransport) Enabled() bool { return true }

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("hr@example.com", []string{"a@example.com", "b@example.com"}, "Hello", "Body", "id-1@hrms"))
	for _, want := range []string{"To: a@example.com, b@example.com\r\n", "Subject: Hello\r\n", "Message-ID: <id-1@hrms>\r\n", "\r\n\r\nBody"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestNewTransportDisabled(t *testing.T) {
	if NewTransport(&config.AppConfig{EmailEnabled: false}).Enabled() {
		t.Fatal("expected noop transport")
	}
	if NewTransport(&config.AppConfig{EmailEnabled: true}).Enabled() {
		t.Fatal("missing SMTP host should fall back to noop")
	}
}

func TestServiceRecordsOutcome(t *testing.T) {
	logs := &memLog{}

	skipped := NewService(noopTransport{}, "hr@example.com", logs)
	email, err := skipped.Send(context.Background(), models.EmailCategoryGeneral, []string{"a@example.com"}, "s", "b")
	if err != nil || email.Status != models.EmailSkipped {
		t.Fatalf("expected skipped, got %s %v", email.Status, err)
	}

	ok := &stubTransport{}
	email, err = NewService(ok, "hr@example.com", logs).Send(context.Background(), models.EmailCategoryGeneral, []string{"a@example.com"}, "s", "b")
	if err != nil || email.Status != models.EmailSent || email.SentAt == nil || ok.sent != 1 {
		t.Fatalf("expected sent, got %+v %v", email, err)
	}

	failing := &stubTransport{err: errors.New("dial tcp: refused")}
	email, err = NewService(failing, "hr@example.com", logs).Send(context.Background(), models.EmailCategoryGeneral, []string{"a@example.com"}, "s", "b")
	if err == nil || email.Status != models.EmailFailed || email.Error == "" {
		t.Fatalf("expected failed, got %+v", email)
	}

	if len(logs.emails) != 3 {
		t.Fatalf("every send should be logged, got %d", len(logs.emails))
	}
}

func TestServiceRedactsCredentialMail(t *testing.T) {
	logs := &memLog{}
	transport := &recordingTransport{}
	svc := NewService(transport, "hr@example.com", logs)

	const body = "Set your password: https://hrms.example.com/reset-password?token=abc.def.ghi"
	for _, category := range []string{models.EmailCategoryHiring, models.EmailCategoryReset} {
		if _, err := svc.Send(context.Background(), category, []string{"new@example.com"}, "Welcome", body); err != nil {
			t.Fatalf("%s: %v", category, err)
		}
	}
	if _, err := svc.Send(context.Background(), models.EmailCategoryGeneral, []string{"all@example.com"}, "Note", "Office closed"); err != nil {
		t.Fatal(err)
	}

	for _, b := range transport.bodies[:2] {
		if b != body {
			t.Errorf("delivered body = %q, want the full message", b)
		}
	}
	for _, email := range logs.emails[:2] {
		if strings.Contains(email.Body, "token=") {
			t.Errorf("%s body stored with the link: %q", email.Category, email.Body)
		}
	}
	if logs.emails[2].Body != "Office closed" {
		t.Errorf("general body = %q, want it stored as sent", logs.emails[2].Body)
	}
}

type recordingTransport struct{ bodies []string }

func (r *recordingTransport) Send(ctx context.Context, from string, to []string, subject, body, messageID string) error {
	r.bodies = append(r.bodies, body)
	return nil
}

func (r *recordingTransport) Enabled() bool { return true }
