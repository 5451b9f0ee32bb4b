// Package mailer sends the notify(ctx, name, ...) hook's named
// notifications (spec.md §6) over SMTP — net/smtp plus a thin MIME
// multipart wrapper, since no example repo in the pack carries a mail
// client dependency (see DESIGN.md).
package mailer

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
)

// Message is a single outbound notification email.
type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Build assembles Message into a MIME multipart/alternative document with
// the headers net/smtp.SendMail expects to find at the start of the body.
func (m Message) Build(from string) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", m.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", m.Subject))
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", w.Boundary())

	if m.TextBody != "" {
		if err := writePart(w, "text/plain; charset=utf-8", m.TextBody); err != nil {
			return nil, err
		}
	}
	if m.HTMLBody != "" {
		if err := writePart(w, "text/html; charset=utf-8", m.HTMLBody); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("mailer: close multipart writer: %w", err)
	}
	return buf.Bytes(), nil
}

func writePart(w *multipart.Writer, contentType, body string) error {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", contentType)
	header.Set("Content-Transfer-Encoding", "quoted-printable")

	part, err := w.CreatePart(header)
	if err != nil {
		return fmt.Errorf("mailer: create mime part: %w", err)
	}
	qp := quotedprintable.NewWriter(part)
	if _, err := qp.Write([]byte(body)); err != nil {
		return fmt.Errorf("mailer: write mime part: %w", err)
	}
	return qp.Close()
}
