package pushover

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultEndpoint = "https://api.pushover.net/1/messages.json"

// Notifier delivers best-effort push notifications through the Pushover API.
// Missing credentials disable delivery without failing callers.
type Notifier struct {
	client   *http.Client
	logger   *slog.Logger
	endpoint string
	userKey  string
	apiToken string
}

func NewNotifier(logger *slog.Logger, endpoint, userKey, apiToken string) *Notifier {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Notifier{
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
		endpoint: endpoint,
		userKey:  userKey,
		apiToken: apiToken,
	}
}

// Enabled reports whether credentials are configured.
func (n *Notifier) Enabled() bool {
	return n.userKey != "" && n.apiToken != ""
}

// Notify posts the message. Delivery problems are returned for the caller to
// log; they never abort a conversation.
func (n *Notifier) Notify(ctx context.Context, message string) error {
	if !n.Enabled() {
		n.logger.Debug("pushover disabled, skipping notification", "message", message)
		return nil
	}

	form := url.Values{
		"user":    {n.userKey},
		"token":   {n.apiToken},
		"message": {message},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call pushover: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pushover returned %d (%s)", resp.StatusCode, statusText(resp.StatusCode))
	}

	n.logger.Debug("notification delivered", "message", truncate(message, 80))
	return nil
}

func statusText(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "bad request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not found"
	case http.StatusInternalServerError:
		return "internal server error"
	default:
		return "unexpected status"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
