package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/UmangSachdeva/MessMate/models"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Responder writes envelopes. With Debug set, 500 responses carry the
// underlying error text.
type Responder struct {
	Log   *logrus.Entry
	Debug bool
}

func (rs Responder) JSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		rs.Log.WithError(err).Warn("Failed to encode response")
	}
}

func (rs Responder) OK(w http.ResponseWriter, message string, data interface{}) {
	rs.JSON(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func (rs Responder) Created(w http.ResponseWriter, message string, data interface{}) {
	rs.JSON(w, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

func (rs Responder) Page(w http.ResponseWriter, data interface{}, p Pagination) {
	rs.JSON(w, http.StatusOK, Envelope{Success: true, Data: data, Pagination: &p})
}

// Error maps domain errors to status codes and writes the failure envelope.
func (rs Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	body := Envelope{Success: false, Message: http.StatusText(status), Error: err.Error()}

	if status >= http.StatusInternalServerError {
		rs.Log.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Error("Request failed")
		body.Message = "Server error"
		body.Error = ""
		if rs.Debug {
			body.Error = err.Error()
		}
	}
	rs.JSON(w, status, body)
}

// Fail writes a failure envelope with an explicit status.
func (rs Responder) Fail(w http.ResponseWriter, status int, message string) {
	rs.JSON(w, status, Envelope{Success: false, Message: message, Error: message})
}

func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrInsufficientBalance),
		errors.Is(err, models.ErrInsufficientStock),
		errors.Is(err, models.ErrInsufficientQuantity),
		errors.Is(err, models.ErrUnavailable):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

var validate = validator.New()

// DecodeJSON decodes the request body into dst and runs its validate tags.
func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", models.ErrValidation, err)
	}
	return Validate(dst)
}

func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", models.ErrValidation, strings.Join(msgs, ", "))
}
