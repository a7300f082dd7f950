package httpserver

import "net/http"

var (
	Success             = Status{Code: http.StatusOK, Message: []string{"Success"}}
	Created             = Status{Code: http.StatusCreated, Message: []string{"Created"}}
	BadRequest          = Status{Code: http.StatusBadRequest, Message: []string{"Sorry, Not responding because of incorrect syntax"}}
	NotFound            = Status{Code: http.StatusNotFound, Message: []string{"Sorry, Resource not found"}}
	Conflict            = Status{Code: http.StatusConflict, Message: []string{"Sorry, Data is conflict"}}
	Unprocessable       = Status{Code: http.StatusUnprocessableEntity, Message: []string{"Sorry, The answer is not valid"}}
	TooManyRequests     = Status{Code: http.StatusTooManyRequests, Message: []string{"Rate limit exceeded. Try again later."}}
	InternalServerError = Status{Code: http.StatusInternalServerError, Message: []string{"Internal Server Error"}}
)

// ResponseBody wraps every response.
type ResponseBody struct {
	Status Status `json:"status"`
	Data   any    `json:"data,omitempty"`
}

type Status struct {
	Code    int      `json:"code"`
	Message []string `json:"message,omitempty"`
}

// withMessage returns a copy of s carrying msgs instead of its default text.
func (s Status) withMessage(msgs ...string) Status {
	if len(msgs) == 0 {
		return s
	}
	s.Message = msgs
	return s
}
