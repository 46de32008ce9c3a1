package repository

import (
	"reflect"
	"testing"
)

func TestInterestsRoundTrip(t *testing.T) {
	raw, err := encodeInterests([]string{"music", "art"})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	got, err := decodeInterests(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	want := []string{"music", "art"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip changed interests: got %v, want %v", got, want)
	}
}

func TestEncodeInterestsNil(t *testing.T) {
	raw, err := encodeInterests(nil)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if raw != "[]" {
		t.Errorf("expected empty JSON array, got %q", raw)
	}
}
