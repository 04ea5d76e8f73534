// Package sms delivers one-time passwords over SMS through a Twilio-style
// REST gateway. When no gateway is configured the module falls back to a
// logging sender so local development works without credentials.
package sms

import "context"

// Sender delivers an SMS message to a phone number in E.164 format.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}
