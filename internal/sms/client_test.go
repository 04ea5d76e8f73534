package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"agrolink_backend/platform/apperr"
	"agrolink_backend/platform/logger"
)

type smsConfigStub struct {
	gatewayURL string
}

func (s smsConfigStub) GetSMSGatewayURL() string { return s.gatewayURL }
func (s smsConfigStub) GetSMSAccountSID() string { return "AC123" }
func (s smsConfigStub) GetSMSAuthToken() string  { return "secret" }
func (s smsConfigStub) GetSMSFromNumber() string { return "+15005550006" }
func (s smsConfigStub) IsSMSEnabled() bool       { return true }

func TestClientSend(t *testing.T) {
	var gotPath, gotTo, gotBody string
	var gotUser, gotPass string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotTo = r.PostFormValue("To")
		gotBody = r.PostFormValue("Body")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewClient(smsConfigStub{gatewayURL: srv.URL}, logger.New("test"))
	if err := client.Send(context.Background(), "+919876543210", "Your OTP is 123456"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if gotPath != "/2010-04-01/Accounts/AC123/Messages.json" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotUser != "AC123" || gotPass != "secret" {
		t.Fatalf("basic auth = %q:%q", gotUser, gotPass)
	}
	if gotTo != "+919876543210" || gotBody != "Your OTP is 123456" {
		t.Fatalf("to = %q, body = %q", gotTo, gotBody)
	}
}

func TestClientSendGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code": 20003, "message": "Authentication Error"}`))
	}))
	defer srv.Close()

	client := NewClient(smsConfigStub{gatewayURL: srv.URL}, logger.New("test"))
	err := client.Send(context.Background(), "+919876543210", "Your OTP is 123456")
	if !apperr.Is(err, apperr.KindDependency) {
		t.Fatalf("err = %v, want dependency error", err)
	}
}

func TestLogSenderNeverFails(t *testing.T) {
	s := NewLogSender(logger.New("test"))
	if err := s.Send(context.Background(), "+919876543210", "Your OTP is 123456"); err != nil {
		t.Fatalf("Send: %v", err)
	}
}
