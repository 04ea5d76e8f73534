package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"agrolink_backend/platform/apperr"
	"agrolink_backend/platform/config"
	"agrolink_backend/platform/logger"
)

const requestTimeout = 10 * time.Second

// Client talks to a Twilio-compatible messaging API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	accountSID string
	authToken  string
	from       string
	log        *logger.Logger
}

func NewClient(cfg config.SMSConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    strings.TrimRight(cfg.GetSMSGatewayURL(), "/"),
		accountSID: cfg.GetSMSAccountSID(),
		authToken:  cfg.GetSMSAuthToken(),
		from:       cfg.GetSMSFromNumber(),
		log:        log,
	}
}

var _ Sender = (*Client)(nil)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Send posts a message to the gateway's Messages endpoint.
func (c *Client) Send(ctx context.Context, to, body string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.from)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return apperr.Dependency("failed to build SMS request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Dependency("failed to reach SMS gateway", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr apiError
	if json.Unmarshal(payload, &apiErr) == nil && apiErr.Message != "" {
		return apperr.Dependency("SMS gateway rejected message",
			fmt.Errorf("status %d, code %d: %s", resp.StatusCode, apiErr.Code, apiErr.Message))
	}
	return apperr.Dependency("SMS gateway rejected message",
		fmt.Errorf("status %d", resp.StatusCode))
}

// LogSender logs messages instead of sending them. Used when SMS delivery is
// disabled, typically in development.
type LogSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log}
}

var _ Sender = (*LogSender)(nil)

func (s *LogSender) Send(ctx context.Context, to, body string) error {
	s.log.Info("sms delivery disabled, logging instead",
		"to", logger.MaskPhone(to),
		"body", body,
	)
	return nil
}
