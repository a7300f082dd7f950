package httpserver

import (
	"strings"

	validators "github.com/go-playground/validator/v10"
)

type StartSessionRequest struct {
	SessionID string `json:"session_id" validate:"omitempty,max=128"`
	Service   string `json:"service" validate:"required,oneof=travel cab hotel restaurant"`
}

// normalize lowercases the service label so oneof accepts "Hotel".
func (r *StartSessionRequest) normalize() {
	r.SessionID = strings.TrimSpace(r.SessionID)
	r.Service = strings.ToLower(strings.TrimSpace(r.Service))
}

// AnswerRequest keeps Text untouched; blank answers are judged by the slot
// validator, not here.
type AnswerRequest struct {
	Text *string `json:"text" validate:"required"`
}

type Validator interface {
	ValidateStruct(v any) error
}

type structValidator struct {
	validate *validators.Validate
}

func NewValidator() Validator {
	return &structValidator{validate: validators.New()}
}

func (v *structValidator) ValidateStruct(s any) error {
	return v.validate.Struct(s)
}

// validationMessages flattens validator errors into one line per field.
func validationMessages(err error) []string {
	verrs, ok := err.(validators.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := strings.ToLower(fe.Field()) + ": failed " + fe.Tag()
		if fe.Param() != "" {
			msg += " " + fe.Param()
		}
		msgs = append(msgs, msg)
	}
	return msgs
}
