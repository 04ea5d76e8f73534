package phone

import "testing"

func TestNormalizeE164_IndianMobile(t *testing.T) {
	got := NormalizeE164("98765 43210")
	if got != "+919876543210" {
		t.Fatalf("expected +919876543210, got %q", got)
	}
}

func TestNormalizeE164_AlreadyE164(t *testing.T) {
	got := NormalizeE164("+919876543210")
	if got != "+919876543210" {
		t.Fatalf("expected unchanged number, got %q", got)
	}
}

func TestNormalizeE164_InvalidReturnsTrimmedInput(t *testing.T) {
	got := NormalizeE164("  not-a-number ")
	if got != "not-a-number" {
		t.Fatalf("expected trimmed input back, got %q", got)
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid("9876543210") {
		t.Fatal("expected valid Indian mobile number")
	}
	if IsValid("12") {
		t.Fatal("expected short number to be invalid")
	}
}
