package util

import (
	"testing"
	"time"
)

func TestCursorRoundTrip(t *testing.T) {
	t.Parallel()

	publicDate := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	cursor := EncodeCursor(publicDate, 42)
	if cursor == "" {
		t.Fatalf("empty cursor")
	}

	gotDate, gotID, err := DecodeCursor(cursor)
	if err != nil {
		t.Fatalf("DecodeCursor error: %v", err)
	}
	if gotID != 42 {
		t.Fatalf("expected id 42, got %d", gotID)
	}
	if !gotDate.Equal(publicDate) {
		t.Fatalf("expected %v, got %v", publicDate, gotDate)
	}
}

func TestDecodeCursorEmpty(t *testing.T) {
	t.Parallel()

	date, id, err := DecodeCursor("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if date != nil || id != 0 {
		t.Fatalf("expected zero values, got %v %d", date, id)
	}
}

func TestDecodeCursorInvalid(t *testing.T) {
	t.Parallel()

	if _, _, err := DecodeCursor("not-base64!!"); err == nil {
		t.Fatalf("expected error for invalid cursor")
	}

	// 合法 Base64 だが JSON ではない
	if _, _, err := DecodeCursor("aGVsbG8="); err == nil {
		t.Fatalf("expected error for non-json cursor")
	}
}

func TestGetMidnight(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 29, 23, 59, 59, 123, time.UTC)
	midnight := GetMidnight(now)

	if midnight.Hour() != 0 || midnight.Minute() != 0 || midnight.Second() != 0 {
		t.Fatalf("not midnight: %v", midnight)
	}
	if midnight.Day() != 29 {
		t.Fatalf("wrong day: %v", midnight)
	}
}
