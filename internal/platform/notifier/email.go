package notifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"sort"
	"strings"
	"time"

	"github.com/ParksWS/payments_recon_app/internal/core/domain"
	portsrepo "github.com/ParksWS/payments_recon_app/internal/core/ports/repositories"
	portssvc "github.com/ParksWS/payments_recon_app/internal/core/ports/services"
)

// EmailNotifier delivers run outcomes over SMTP. Success mails carry the
// per-code totals as a CSV attachment; failure mails carry the error text.
// Recipients come from the system's registered recipient list, falling back
// to the configured notification address when the list is empty.
type EmailNotifier struct {
	host     string
	port     string
	user     string
	password string
	from     string
	fallback string

	registry portsrepo.OracleRegistryReader
}

// NewEmailNotifier creates an SMTP-backed notifier.
func NewEmailNotifier(host, port, user, password, from, fallback string, registry portsrepo.OracleRegistryReader) portssvc.Notifier {
	return &EmailNotifier{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
		fallback: fallback,
		registry: registry,
	}
}

// Ensure EmailNotifier implements the portssvc.Notifier interface
var _ portssvc.Notifier = (*EmailNotifier)(nil)

func (n *EmailNotifier) ParserRunSucceeded(ctx context.Context, transDate time.Time, totals domain.CodeTotals, systemName string, systemID string) error {
	dt := transDate.Format("02/01/2006")
	subject := fmt.Sprintf("Oracle Interface for %s for transactions received on %s", systemName, dt)
	body := fmt.Sprintf("Oracle Interface Summary File for %s for transactions received on %s", systemName, dt)

	summary, err := summaryCSV(totals)
	if err != nil {
		return err
	}
	attachment := fmt.Sprintf("OracleInterface_%s.csv", dt)

	msg, err := buildMessage(n.from, n.recipients(ctx, systemID), subject, body, attachment, summary)
	if err != nil {
		return err
	}
	return n.send(ctx, systemID, msg)
}

func (n *EmailNotifier) ParserRunFailed(ctx context.Context, transDate time.Time, totals domain.CodeTotals, systemName string, systemID string, errorTrace string) error {
	dt := transDate.Format("02/01/2006")
	today := time.Now().Format("02/01/2006")
	subject := fmt.Sprintf("Oracle Interface Error for %s for transactions received on %s", systemName, dt)
	body := fmt.Sprintf("There was an error in generating a summary report for the oracle interface parser for transactions processed on %s. Please refer to the following log output:\n\n\n%s", today, errorTrace)

	msg, err := buildMessage(n.from, n.recipients(ctx, systemID), subject, body, "", nil)
	if err != nil {
		return err
	}
	return n.send(ctx, systemID, msg)
}

// recipients resolves the system's registered addresses, falling back to the
// configured notification address. An unknown system also falls back rather
// than failing, so failure notifications still go somewhere.
func (n *EmailNotifier) recipients(ctx context.Context, systemID string) []string {
	system, err := n.registry.FindSystemByID(ctx, systemID)
	if err == nil && len(system.Recipients) > 0 {
		return system.Recipients
	}
	return []string{n.fallback}
}

func (n *EmailNotifier) send(ctx context.Context, systemID string, msg *message) error {
	var auth smtp.Auth
	if n.user != "" {
		auth = smtp.PlainAuth("", n.user, n.password, n.host)
	}
	addr := n.host + ":" + n.port
	if err := smtp.SendMail(addr, auth, n.from, msg.to, msg.raw); err != nil {
		return fmt.Errorf("failed to send notification for system %s: %w", systemID, err)
	}
	return nil
}

// summaryCSV renders the per-code totals with an Activity Code / Amount
// header, codes in ascending order. Codes with no movement are left out.
func summaryCSV(totals domain.CodeTotals) ([]byte, error) {
	codes := make([]string, 0, len(totals))
	for code := range totals {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Activity Code", "Amount"}); err != nil {
		return nil, fmt.Errorf("failed to write summary header: %w", err)
	}
	for _, code := range codes {
		if totals[code].IsZero() {
			continue
		}
		if err := w.Write([]string{code, totals[code].String()}); err != nil {
			return nil, fmt.Errorf("failed to write summary row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to render summary csv: %w", err)
	}
	return buf.Bytes(), nil
}

type message struct {
	to  []string
	raw []byte
}

// buildMessage assembles a MIME message with a plain text body and an
// optional csv attachment.
func buildMessage(from string, to []string, subject, body, attachmentName string, attachment []byte) (*message, error) {
	var buf bytes.Buffer
	mp := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mp.Boundary())

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", "text/plain; charset=utf-8")
	textPart, err := mp.CreatePart(textHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to create message body: %w", err)
	}
	if _, err := textPart.Write([]byte(body)); err != nil {
		return nil, fmt.Errorf("failed to write message body: %w", err)
	}

	if attachmentName != "" {
		attHeader := textproto.MIMEHeader{}
		attHeader.Set("Content-Type", "text/csv")
		attHeader.Set("Content-Transfer-Encoding", "base64")
		attHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachmentName))
		attPart, err := mp.CreatePart(attHeader)
		if err != nil {
			return nil, fmt.Errorf("failed to create attachment: %w", err)
		}
		encoded := base64.StdEncoding.EncodeToString(attachment)
		if _, err := attPart.Write([]byte(encoded)); err != nil {
			return nil, fmt.Errorf("failed to write attachment: %w", err)
		}
	}

	if err := mp.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize message: %w", err)
	}
	return &message{to: to, raw: buf.Bytes()}, nil
}
