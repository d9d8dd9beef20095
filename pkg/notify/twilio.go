package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JurrevE/pararius-monitor/pkg/config"
	"github.com/JurrevE/pararius-monitor/pkg/listing"
)

const twilioAPIBase = "https://api.twilio.com/2010-04-01"

// TwilioNotifier sends SMS through the Twilio Messages API.
type TwilioNotifier struct {
	accountSID string
	authToken  string
	from       string
	to         string
	endpoint   string
	client     *http.Client
}

func NewTwilioNotifier(cfg config.TwilioConfig) *TwilioNotifier {
	return &TwilioNotifier{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.FromNumber,
		to:         cfg.ToNumber,
		endpoint:   fmt.Sprintf("%s/Accounts/%s/Messages.json", twilioAPIBase, cfg.AccountSID),
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (t *TwilioNotifier) Notify(ctx context.Context, snap listing.Snapshot) bool {
	form := url.Values{}
	form.Set("Body", snap.Message())
	form.Set("From", t.from)
	form.Set("To", t.to)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		slog.Error("could not build SMS request", slog.Any("err", err))
		return false
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		slog.Error("SMS send failed", slog.String("title", snap.Title), slog.Any("err", err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Error("SMS rejected by provider",
			slog.String("title", snap.Title),
			slog.Int("status_code", resp.StatusCode),
		)
		return false
	}

	slog.Info("notification sent", slog.String("title", snap.Title))
	return true
}
