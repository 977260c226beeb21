package AbstractFunctions

import "strings"

const (
	StatusPending      = "pending"
	StatusCompleted    = "completed"
	StatusNotDone      = "not done"
	StatusCannotBeDone = "can not be done"
	StatusShifted      = "shifted"
)

// StatusOptions is the fixed list a user may set from the task screens
var StatusOptions = []string{
	StatusPending,
	StatusCompleted,
	StatusNotDone,
	StatusCannotBeDone,
	StatusShifted,
}

var statusSynonyms = map[string]string{
	"":                StatusPending,
	"pending":         StatusPending,
	"open":            StatusPending,
	"done":            StatusCompleted,
	"yes":             StatusCompleted,
	"y":               StatusCompleted,
	"complete":        StatusCompleted,
	"completed":       StatusCompleted,
	"not done":        StatusNotDone,
	"notdone":         StatusNotDone,
	"no":              StatusNotDone,
	"cant be done":    StatusCannotBeDone,
	"can't be done":   StatusCannotBeDone,
	"cannot be done":  StatusCannotBeDone,
	"can not be done": StatusCannotBeDone,
	"shifted":         StatusShifted,
}

var statusReplacer = strings.NewReplacer("’", "'", "‘", "'", "-", " ", "_", " ")

// NormalizeStatus folds case, whitespace and known synonyms into one canonical value
func NormalizeStatus(s string) string {
	s = strings.ToLower(statusReplacer.Replace(s))
	s = strings.Join(strings.Fields(s), " ")
	if canonical, ok := statusSynonyms[s]; ok {
		return canonical
	}
	return s
}

// IsStatusOption reports whether s normalizes to one of StatusOptions
func IsStatusOption(s string) bool {
	n := NormalizeStatus(s)
	for _, opt := range StatusOptions {
		if n == opt {
			return true
		}
	}
	return false
}

// IsClosedStatus reports statuses that end a task without completing it
func IsClosedStatus(s string) bool {
	switch NormalizeStatus(s) {
	case StatusNotDone, StatusCannotBeDone, StatusShifted:
		return true
	}
	return false
}
