package validate

import (
	"testing"
	"time"
)

func TestID(t *testing.T) {
	if _, err := ID("id", "42"); err != nil {
		t.Fatalf("valid id rejected: %v", err)
	}
	for _, v := range []string{"", "0", "-5", "abc", "4.2"} {
		if _, err := ID("id", v); err == nil {
			t.Fatalf("expected error for %q", v)
		}
	}
}

func TestOneOf(t *testing.T) {
	if err := OneOf("type", "email", false, "email", "messaging"); err != nil {
		t.Fatalf("allowed value rejected: %v", err)
	}
	if err := OneOf("type", "fax", false, "email", "messaging"); err == nil {
		t.Fatal("expected error for disallowed value")
	}
	if err := OneOf("status", "", true, "connected"); err != nil {
		t.Fatalf("empty value should pass with allowEmpty: %v", err)
	}
	if err := OneOf("status", "", false, "connected"); err == nil {
		t.Fatal("expected error for required empty value")
	}
}

func TestTime(t *testing.T) {
	got, err := Time("from", "2024-03-10T09:00:00Z")
	if err != nil {
		t.Fatalf("valid timestamp rejected: %v", err)
	}
	want := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if _, err := Time("from", "yesterday"); err == nil {
		t.Fatal("expected error for malformed timestamp")
	}
}
