package handler

import (
	"net/http"

	"church-admin-go/internal/domain/congregation"
	"church-admin-go/pkg/logger"
	"github.com/go-playground/validator/v10"
)

const defaultReminderDays = 7

type Handlers struct {
	Congregation *congregation.Service
	reminderDays int
	log          logger.Logger
	validate     *validator.Validate
}

func New(congregationService *congregation.Service, reminderDays int, log logger.Logger) *Handlers {
	if reminderDays < 1 {
		reminderDays = defaultReminderDays
	}
	return &Handlers{
		Congregation: congregationService,
		reminderDays: reminderDays,
		log:          log,
		validate:     validator.New(),
	}
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// validateRequest reports the first failing field of a decoded request body.
func (h *Handlers) validateRequest(req interface{}) (string, bool) {
	err := h.validate.Struct(req)
	if err == nil {
		return "", true
	}
	if fieldErrors, ok := err.(validator.ValidationErrors); ok && len(fieldErrors) > 0 {
		first := fieldErrors[0]
		switch first.Tag() {
		case "required":
			return first.Field() + " is required", false
		case "email":
			return first.Field() + " must be a valid email", false
		case "len", "numeric":
			return first.Field() + " must be a 10-digit number", false
		default:
			return first.Field() + " is invalid", false
		}
	}
	return "invalid request", false
}
