package token

import (
	"strings"
	"testing"
)

func TestFingerprint(t *testing.T) {
	fp := Fingerprint("eyJhbGciOiJIUzI1NiJ9.some.token")

	if len(fp) != FingerprintLength {
		t.Errorf("len(Fingerprint()) = %d, want %d", len(fp), FingerprintLength)
	}

	// Deterministic
	if fp2 := Fingerprint("eyJhbGciOiJIUzI1NiJ9.some.token"); fp2 != fp {
		t.Errorf("Fingerprint not deterministic: %q != %q", fp2, fp)
	}

	// Distinct tokens get distinct fingerprints
	if other := Fingerprint("a-different-token"); other == fp {
		t.Error("distinct tokens should not share a fingerprint")
	}

	// Fingerprint must not leak the token value
	if strings.Contains(fp, "eyJ") {
		t.Error("fingerprint appears to contain token material")
	}
}

func TestFingerprintEmpty(t *testing.T) {
	if fp := Fingerprint(""); fp != "" {
		t.Errorf("Fingerprint(\"\") = %q, want empty", fp)
	}
}

func TestEqual(t *testing.T) {
	if !Equal("T1", "T1") {
		t.Error("Equal should be true for identical tokens")
	}
	if Equal("T1", "T2") {
		t.Error("Equal should be false for different tokens")
	}
	if !Equal("", "") {
		t.Error("Equal should be true for two empty tokens")
	}
}
