package TaskBoard

import "errors"

var (
	ErrUnknownTaskType = errors.New("unknown task type")
	ErrTaskNotFound    = errors.New("task not found")
	ErrForbidden       = errors.New("not allowed to modify this task")
	ErrInvalidStatus   = errors.New("invalid status")
)
