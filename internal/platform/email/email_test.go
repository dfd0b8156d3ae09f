package email

import (
	"context"
	"strings"
	"testing"

	"jobcore/internal/platform/config"
)

func TestNewReturnsNoopWhenDisabled(t *testing.T) {
	mailer := New(config.Config{EmailEnabled: false, SMTPHost: "smtp.acme.example"})
	if _, ok := mailer.(noop); !ok {
		t.Fatalf("expected noop mailer, got %T", mailer)
	}
	if err := mailer.Send(context.Background(), "a@acme.example", "b@acme.example", "subject", "body"); err != nil {
		t.Fatalf("expected noop send to succeed, got %v", err)
	}
}

func TestNewReturnsNoopWithoutHost(t *testing.T) {
	mailer := New(config.Config{EmailEnabled: true})
	if _, ok := mailer.(noop); !ok {
		t.Fatalf("expected noop mailer without a host, got %T", mailer)
	}
}

func TestNewBuildsSenderFromConfig(t *testing.T) {
	mailer := New(config.Config{
		EmailEnabled: true,
		SMTPHost:     "smtp.acme.example",
		SMTPPort:     587,
		SMTPUser:     "mailer",
		SMTPPassword: "secret",
		SMTPUseTLS:   true,
	})
	sender, ok := mailer.(*Sender)
	if !ok {
		t.Fatalf("expected *Sender, got %T", mailer)
	}
	if sender.host != "smtp.acme.example" || sender.port != 587 {
		t.Fatalf("unexpected endpoint %s:%d", sender.host, sender.port)
	}
	if !sender.startTLS {
		t.Fatalf("expected STARTTLS to be enabled")
	}
}

func TestSendSkipsEmptyRecipient(t *testing.T) {
	sender := &Sender{host: "smtp.acme.example", port: 587}
	if err := sender.Send(context.Background(), "a@acme.example", "   ", "subject", "body"); err != nil {
		t.Fatalf("expected empty recipient to be a no-op, got %v", err)
	}
}

func TestMessageLayout(t *testing.T) {
	raw := string(message("payroll@acme.example", "ops@acme.example", "Periods ready", "2 periods generated"))
	head, body, ok := strings.Cut(raw, "\r\n\r\n")
	if !ok {
		t.Fatalf("expected blank line between headers and body")
	}
	for _, want := range []string{
		"From: payroll@acme.example",
		"To: ops@acme.example",
		"Subject: Periods ready",
		"Content-Type: text/plain",
	} {
		if !strings.Contains(head, want) {
			t.Fatalf("missing header %q in %q", want, head)
		}
	}
	if body != "2 periods generated" {
		t.Fatalf("unexpected body %q", body)
	}
}
