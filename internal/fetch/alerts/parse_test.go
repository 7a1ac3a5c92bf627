package alerts

import (
	"strings"
	"testing"
)

const rawAlertEmail = "From: Google Alerts <googlealerts-noreply@google.com>\r\n" +
	"To: me@example.com\r\n" +
	"Subject: =?UTF-8?Q?Google_Alert_-_coursera?=\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/alternative; boundary=\"b1\"\r\n" +
	"\r\n" +
	"--b1\r\n" +
	"Content-Type: text/plain; charset=UTF-8\r\n" +
	"\r\n" +
	"See your alert online.\r\n" +
	"--b1\r\n" +
	"Content-Type: text/html; charset=UTF-8\r\n" +
	"Content-Transfer-Encoding: quoted-printable\r\n" +
	"\r\n" +
	"<html><body><a href=3D\"https://www.linkedin.com/posts/jane\">Jane landed=\r\n" +
	" a job</a></body></html>\r\n" +
	"--b1--\r\n"

func TestParseMessageExtractsHTMLPart(t *testing.T) {
	subject, htmlBody := parseMessage([]byte(rawAlertEmail), "")

	if subject != "Google Alert - coursera" {
		t.Fatalf("bad subject: %q", subject)
	}
	if !strings.Contains(htmlBody, `href="https://www.linkedin.com/posts/jane"`) {
		t.Fatalf("quoted-printable href not decoded:\n%s", htmlBody)
	}
	if !strings.Contains(htmlBody, "Jane landed a job") {
		t.Fatalf("soft line break not joined:\n%s", htmlBody)
	}
}

func TestParseMessagePlainFallback(t *testing.T) {
	raw := "From: a@example.com\r\n" +
		"Subject: plain only\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		"just text with https://example.com/story\r\n"

	subject, body := parseMessage([]byte(raw), "")
	if subject != "plain only" {
		t.Fatalf("bad subject: %q", subject)
	}
	if !strings.Contains(body, "https://example.com/story") {
		t.Fatalf("plain body lost: %q", body)
	}
}

func TestParseMessageEmptyRaw(t *testing.T) {
	subject, body := parseMessage(nil, "envelope subject")
	if subject != "envelope subject" {
		t.Fatalf("expected envelope fallback subject, got %q", subject)
	}
	if body != "" {
		t.Fatalf("expected empty body, got %q", body)
	}
}
