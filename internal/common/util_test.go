package common

import (
	"encoding/hex"
	"testing"
)

func TestMakeRandHexString_LengthAndHex(t *testing.T) {
	const n = 16
	s, err := MakeRandHexString(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != n*2 {
		t.Fatalf("expected hex length %d, got %d", n*2, len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		t.Fatalf("string is not valid hex: %v", err)
	}
}

func TestMakeRandHexString_ZeroSize(t *testing.T) {
	s, err := MakeRandHexString(0)
	if err != nil {
		t.Fatalf("unexpected error for size=0: %v", err)
	}
	if s != "" {
		t.Fatalf("expected empty string for size=0, got %q", s)
	}
}

func TestMakeRandHexString_Distinct(t *testing.T) {
	a, err := MakeRandHexString(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := MakeRandHexString(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Fatalf("two 32-byte random strings are identical: %s", a)
	}
}

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte("Secret123!")
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}
