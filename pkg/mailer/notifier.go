package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/widyatama/go-account-api/internal/application"
	"github.com/widyatama/go-account-api/pkg/mailer/templates"
	"github.com/widyatama/go-account-api/pkg/queue"
)

// Links carries the branding and front-end URLs embedded in outgoing
// messages. The lifecycle service hands over tokens; the notifier
// turns them into clickable links.
type Links struct {
	CompanyName    string
	SupportURL     string
	VerifyEmailURL string
	ResetURL       string
}

func (l Links) enrich(kind application.NotificationKind, data map[string]any) map[string]any {
	out := make(map[string]any, len(data)+4)
	for k, v := range data {
		out[k] = v
	}
	out["CompanyName"] = l.CompanyName
	out["SupportURL"] = l.SupportURL
	if tok, ok := out["Token"].(string); ok {
		switch kind {
		case application.NotifyVerification:
			out["VerifyURL"] = l.VerifyEmailURL + "?token=" + tok
		case application.NotifyPasswordReset:
			out["ResetURL"] = l.ResetURL + "?token=" + tok
		}
	}
	if exp, ok := out["ExpiresAt"].(time.Time); ok {
		out["ExpiresAt"] = exp.Format(time.RFC3339)
	}
	return out
}

// QueueNotifier dispatches messages by publishing persistent jobs to
// the durable email queue. Dispatch succeeds when the broker accepts
// the publish; rendering and SMTP delivery happen in the worker.
type QueueNotifier struct {
	Pub     *queue.RabbitPublisher
	Links   Links
	Enabled bool
}

func NewQueueNotifier(pub *queue.RabbitPublisher, links Links, enabled bool) *QueueNotifier {
	return &QueueNotifier{Pub: pub, Links: links, Enabled: enabled}
}

func (n *QueueNotifier) Notify(ctx context.Context, address string, kind application.NotificationKind, data map[string]any) error {
	if !n.Enabled {
		return nil
	}
	job := EmailJob{To: address, Kind: string(kind), Data: n.Links.enrich(kind, data)}
	if err := n.Pub.PublishJSON(ctx, job); err != nil {
		return fmt.Errorf("enqueue %s for %s: %w", kind, address, err)
	}
	return nil
}

// DirectNotifier renders and sends through Mailgun synchronously, for
// deployments without a broker.
type DirectNotifier struct {
	MG      *Mailgun
	Links   Links
	Enabled bool
}

func NewDirectNotifier(mg *Mailgun, links Links, enabled bool) *DirectNotifier {
	return &DirectNotifier{MG: mg, Links: links, Enabled: enabled}
}

func (n *DirectNotifier) Notify(ctx context.Context, address string, kind application.NotificationKind, data map[string]any) error {
	if !n.Enabled {
		return nil
	}
	enriched := n.Links.enrich(kind, data)
	html, err := templates.RenderHTML(string(kind), enriched)
	if err != nil {
		return fmt.Errorf("render %s: %w", kind, err)
	}
	text := templates.RenderText(string(kind), enriched)
	if err := n.MG.Send(ctx, address, templates.Subject(string(kind)), text, html); err != nil {
		return fmt.Errorf("send %s to %s: %w", kind, address, err)
	}
	return nil
}

var (
	_ application.Notifier = (*QueueNotifier)(nil)
	_ application.Notifier = (*DirectNotifier)(nil)
)
