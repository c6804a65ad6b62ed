package service

import (
	"fmt"

	"hwbot/internal/homework/model"
	pkgerrors "hwbot/pkg/errors"
)

// StatusChange is a parsed homework record ready to be sent.
type StatusChange struct {
	HomeworkName string
	Status       string
	Message      string
}

// ParseStatus turns one homework record into the notification text.
func ParseStatus(record any) (StatusChange, error) {
	fields, ok := record.(model.Record)
	if !ok {
		return StatusChange{}, pkgerrors.New(pkgerrors.HomeworkRecordInvalid).
			WithDetail("type", typeName(record))
	}

	name, ok := fields[model.FieldHomeworkName].(string)
	if !ok {
		return StatusChange{}, pkgerrors.FieldError(pkgerrors.HomeworkNameMissing, model.FieldHomeworkName)
	}
	status, ok := fields[model.FieldStatus].(string)
	if !ok {
		return StatusChange{}, pkgerrors.FieldError(pkgerrors.HomeworkStatusMissing, model.FieldStatus).
			WithDetail("homework_name", name)
	}
	verdict, ok := model.Verdict(status)
	if !ok {
		return StatusChange{}, pkgerrors.Newf(pkgerrors.UnknownHomeworkStatus, "Unknown homework status %q", status).
			WithDetail("homework_name", name).
			WithDetail("status", status).
			WithDetail("known", model.KnownStatuses())
	}

	return StatusChange{
		HomeworkName: name,
		Status:       status,
		Message:      fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", name, verdict),
	}, nil
}
