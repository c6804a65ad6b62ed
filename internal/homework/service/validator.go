package service

import (
	"encoding/json"
	"math"

	"hwbot/internal/homework/model"
	pkgerrors "hwbot/pkg/errors"
)

// ValidateResponse checks the shape of a decoded API payload and returns
// its homework records and current_date.
// Elements of the list are not inspected; ParseStatus rejects them one by one.
func ValidateResponse(payload any) ([]any, int64, error) {
	body, ok := payload.(model.Record)
	if !ok {
		return nil, 0, pkgerrors.New(pkgerrors.ResponseNotObject).
			WithDetail("type", typeName(payload))
	}

	rawHomeworks, ok := body[model.FieldHomeworks]
	if !ok {
		return nil, 0, pkgerrors.FieldError(pkgerrors.HomeworksMissing, model.FieldHomeworks)
	}
	homeworks, ok := rawHomeworks.([]any)
	if !ok {
		return nil, 0, pkgerrors.FieldError(pkgerrors.HomeworksNotList, model.FieldHomeworks).
			WithDetail("type", typeName(rawHomeworks))
	}

	rawDate, ok := body[model.FieldCurrentDate]
	if !ok {
		return nil, 0, pkgerrors.FieldError(pkgerrors.CurrentDateMissing, model.FieldCurrentDate)
	}
	currentDate, ok := asInt64(rawDate)
	if !ok {
		return nil, 0, pkgerrors.FieldError(pkgerrors.CurrentDateInvalid, model.FieldCurrentDate).
			WithDetail("value", rawDate)
	}

	return homeworks, currentDate, nil
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case float64:
		if n != math.Trunc(n) || n >= 1<<63 || n < -(1<<63) {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "list"
	case string:
		return "string"
	case bool:
		return "bool"
	case json.Number, float64, int, int64:
		return "number"
	default:
		return "unknown"
	}
}
