package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/raushankrgupta/udyam-registration/models"
	"github.com/raushankrgupta/udyam-registration/utils"
)

// WelcomeHandler answers the bare root.
func (s *Server) WelcomeHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "Welcome to the Udyam API")
}

// HealthHandler reports liveness.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"service": "udyam-backend",
		"time":    s.now().UTC().Format(time.RFC3339Nano),
	})
}

// SchemaHandler serves the form schema the server validates against.
func (s *Server) SchemaHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, s.schema)
}

// ValidateHandler checks a candidate record without storing it.
func (s *Server) ValidateHandler(w http.ResponseWriter, r *http.Request) {
	logMessageBuilder := utils.StartLogMessage(r, "[Validate API]")
	defer utils.FlushLogMessage(logMessageBuilder)

	record, err := utils.DecodeJSONBody(r)
	if err != nil {
		utils.RespondError(w, logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	if errs := s.schema.Validate(record); len(errs) > 0 {
		utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("Validation failed: %d field error(s)", len(errs)))
		utils.RespondJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": errs})
		return
	}

	utils.AddToLogMessage(logMessageBuilder, "Record valid")
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// SubmitHandler validates and stores the final registration.
func (s *Server) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	logMessageBuilder := utils.StartLogMessage(r, "[Submit API]")
	defer utils.FlushLogMessage(logMessageBuilder)

	record, err := utils.DecodeJSONBody(r)
	if err != nil {
		utils.RespondError(w, logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	if errs := s.schema.Validate(record); len(errs) > 0 {
		utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("Validation failed: %d field error(s)", len(errs)))
		utils.RespondJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": errs})
		return
	}

	now := s.now()
	id, err := s.registrations.InsertRegistration(r.Context(), models.Registration{
		Values:    record,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("DB save failed: %v", err))
		utils.RespondJSON(w, http.StatusInternalServerError, map[string]string{"message": "DB save failed"})
		return
	}

	utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("Registration saved with id %s", id))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "id": id})
}
