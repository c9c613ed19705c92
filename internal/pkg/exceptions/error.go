package exceptions

import (
	"errors"
	"fmt"
	"patient-directory-service/internal/pkg/constvars"
	"runtime"
)

type CustomError struct {
	StatusCode    int         `json:"status_code"`
	Success       bool        `json:"success"`
	ClientMessage string      `json:"message"`
	DevMessage    string      `json:"dev_message,omitempty"`
	Details       interface{} `json:"details,omitempty"`
	Locations     []Location  `json:"locations,omitempty"`
	Err           error       `json:"-"`
}

type Location struct {
	File         string `json:"file"`
	Line         int    `json:"line"`
	FunctionName string `json:"function_name"`
}

func (e *CustomError) Error() string {
	if len(e.Locations) == 0 {
		return e.DevMessage
	}
	location := e.Locations[0]
	return fmt.Sprintf("%s (%s:%d %s)", e.DevMessage, location.File, location.Line, location.FunctionName)
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// BuildNewCustomError records the location of the caller of the exported
// constructor. Locations of a wrapped CustomError are kept after the new one.
func BuildNewCustomError(err error, statusCode int, clientMessage, devMessage string) *CustomError {
	if err != nil {
		devMessage = fmt.Sprintf("%s: %s", devMessage, err.Error())
	}

	locations := []Location{getLocation(3)}
	var inner *CustomError
	if errors.As(err, &inner) {
		locations = append(locations, inner.Locations...)
	}

	return &CustomError{
		StatusCode:    statusCode,
		ClientMessage: clientMessage,
		DevMessage:    devMessage,
		Locations:     locations,
		Err:           err,
	}
}

func getLocation(skip int) Location {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Location{
			File:         constvars.ResponseUnknown,
			Line:         0,
			FunctionName: constvars.ResponseUnknown,
		}
	}
	return Location{
		File:         file,
		Line:         line,
		FunctionName: runtime.FuncForPC(pc).Name(),
	}
}

// kindError ties a sentinel to the underlying cause so both are reachable
// through errors.Is.
type kindError struct {
	kind  error
	cause error
}

func (k *kindError) Error() string {
	if k.cause == nil {
		return k.kind.Error()
	}
	return fmt.Sprintf("%s: %s", k.kind.Error(), k.cause.Error())
}

func (k *kindError) Unwrap() []error {
	if k.cause == nil {
		return []error{k.kind}
	}
	return []error{k.kind, k.cause}
}

func withKind(kind, cause error) error {
	return &kindError{kind: kind, cause: cause}
}
