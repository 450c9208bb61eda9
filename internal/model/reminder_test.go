package model

import (
	"errors"
	"testing"
)

func TestReminderPayloadEncodeDecode(t *testing.T) {
	raw := NewReminderPayload("job-1", "Buy milk").Encode()
	if raw[PayloadTaskID] != "job-1" || raw[PayloadTaskTitle] != "Buy milk" {
		t.Fatalf("unexpected encoded payload: %#v", raw)
	}
	got, err := DecodeReminderPayload(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.TaskID != "job-1" || got.TaskTitle != "Buy milk" {
		t.Fatalf("unexpected payload: %#v", got)
	}
}

func TestDecodeReminderPayloadMissingKey(t *testing.T) {
	for _, raw := range []map[string]string{
		nil,
		{PayloadTaskTitle: "Buy milk"},
		{PayloadTaskID: "  ", PayloadTaskTitle: "Buy milk"},
	} {
		_, err := DecodeReminderPayload(raw)
		if !errors.Is(err, ErrMissingJobKey) {
			t.Fatalf("expected ErrMissingJobKey for %#v, got %v", raw, err)
		}
	}
}

func TestDecodeReminderPayloadDefaultTitle(t *testing.T) {
	got, err := DecodeReminderPayload(map[string]string{PayloadTaskID: "job-2"})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.TaskTitle != DefaultReminderTitle {
		t.Fatalf("expected default title, got %q", got.TaskTitle)
	}
}
