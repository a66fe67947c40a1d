package api

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/raushankrgupta/udyam-registration/models"
	"github.com/raushankrgupta/udyam-registration/schema"
	"github.com/raushankrgupta/udyam-registration/utils"
)

// panFormat is case-sensitive: lower-case PANs are rejected.
var panFormat = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]{1}$`)

// ValidPAN reports whether pan has the ABCDE1234F shape.
func ValidPAN(pan string) bool {
	return panFormat.MatchString(pan)
}

// SubmitPANHandler stores the PAN verification step.
func (s *Server) SubmitPANHandler(w http.ResponseWriter, r *http.Request) {
	logMessageBuilder := utils.StartLogMessage(r, "[Submit PAN API]")
	defer utils.FlushLogMessage(logMessageBuilder)

	record, err := utils.DecodeJSONBody(r)
	if err != nil {
		utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("Invalid request body: %v", err))
		utils.RespondError(w, logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	rec := models.PanRecord{
		Aadhaar:    stringField(record, "aadhaar"),
		OrgType:    stringField(record, "orgType"),
		PAN:        stringField(record, "pan"),
		PANName:    stringField(record, "panName"),
		PANDob:     stringField(record, "panDob"),
		PANConsent: schema.IsPresent(record["panConsent"]),
	}
	if rec.Aadhaar == "" || rec.OrgType == "" || rec.PAN == "" || rec.PANName == "" || rec.PANDob == "" {
		utils.RespondError(w, logMessageBuilder, "All PAN fields are required", http.StatusBadRequest)
		return
	}

	if !ValidPAN(rec.PAN) {
		utils.RespondError(w, logMessageBuilder, "Invalid PAN format", http.StatusBadRequest)
		return
	}

	rec.CreatedAt = s.now()
	if err := s.pans.InsertPAN(r.Context(), rec); err != nil {
		utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("PAN submission failed: %v", err))
		utils.RespondError(w, logMessageBuilder, "Server error", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(logMessageBuilder, "PAN details saved")
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"message": "PAN details saved successfully",
	})
}
