package models

// ValidationError carries a field-keyed map of messages for a rejected
// document write. The first offending field's message is what ends up in
// the HTTP response.
type ValidationError struct {
	Fields map[string]string
	// order remembers which field failed first, map iteration is random.
	order []string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add records a message for a field. Only the first message per field is kept.
func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Fields[field]; ok {
		return
	}
	e.Fields[field] = message
	e.order = append(e.order, field)
}

// HasErrors reports whether any field was rejected.
func (e *ValidationError) HasErrors() bool {
	return len(e.order) > 0
}

// First returns the first offending field and its message.
func (e *ValidationError) First() (field, message string) {
	if len(e.order) == 0 {
		return "", ""
	}
	return e.order[0], e.Fields[e.order[0]]
}

func (e *ValidationError) Error() string {
	_, msg := e.First()
	return msg
}
