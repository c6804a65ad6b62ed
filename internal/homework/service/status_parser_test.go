package service_test

import (
	"testing"

	"hwbot/internal/homework/service"
	pkgerrors "hwbot/pkg/errors"
)

func TestParseStatusKnownCodes(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"approved":  `Изменился статус проверки работы "hw1". Работа проверена: ревьюеру всё понравилось. Ура!`,
		"reviewing": `Изменился статус проверки работы "hw1". Работа взята на проверку ревьюером.`,
		"rejected":  `Изменился статус проверки работы "hw1". Работа проверена: у ревьюера есть замечания.`,
	}
	for status, want := range tests {
		change, err := service.ParseStatus(map[string]any{"homework_name": "hw1", "status": status, "id": 7})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", status, err)
		}
		if change.Message != want {
			t.Fatalf("%s: expected %q, got %q", status, want, change.Message)
		}
		if change.HomeworkName != "hw1" || change.Status != status {
			t.Fatalf("%s: unexpected fields %+v", status, change)
		}
	}
}

func TestParseStatusFailures(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		record any
		code   pkgerrors.ErrorCode
	}{
		{name: "not-object", record: "hw1", code: pkgerrors.HomeworkRecordInvalid},
		{name: "no-name", record: map[string]any{"status": "approved"}, code: pkgerrors.HomeworkNameMissing},
		{name: "name-not-string", record: map[string]any{"homework_name": 5, "status": "approved"}, code: pkgerrors.HomeworkNameMissing},
		{name: "no-status", record: map[string]any{"homework_name": "hw1"}, code: pkgerrors.HomeworkStatusMissing},
		{name: "unknown-status", record: map[string]any{"homework_name": "hw1", "status": "pending"}, code: pkgerrors.UnknownHomeworkStatus},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := service.ParseStatus(tt.record); !pkgerrors.Is(err, tt.code) {
				t.Fatalf("expected code %d, got %v", tt.code, err)
			}
		})
	}
}

func TestParseStatusUnknownListsCatalog(t *testing.T) {
	t.Parallel()
	_, err := service.ParseStatus(map[string]any{"homework_name": "hw1", "status": "pending"})
	known, ok := pkgerrors.GetError(err).Details["known"].([]string)
	if !ok || len(known) != 3 {
		t.Fatalf("expected known statuses in details, got %v", pkgerrors.GetError(err).Details)
	}
}
