package otp

import "testing"

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateCode(6)
		if err != nil {
			t.Fatalf("GenerateCode: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q has length %d, want 6", code, len(code))
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q contains non-digit %q", code, r)
			}
		}
		seen[code] = true
	}
	// 50 draws from a million-value space colliding down to a handful would
	// mean the generator is broken.
	if len(seen) < 40 {
		t.Fatalf("only %d distinct codes out of 50 draws", len(seen))
	}
}

func TestGenerateCodeRejectsBadLength(t *testing.T) {
	for _, n := range []int{0, 3, 11} {
		if _, err := GenerateCode(n); err == nil {
			t.Fatalf("GenerateCode(%d) succeeded, want error", n)
		}
	}
}
