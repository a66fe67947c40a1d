package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/raushankrgupta/udyam-registration/otp"
	"github.com/raushankrgupta/udyam-registration/schema"
	"github.com/raushankrgupta/udyam-registration/utils"
)

// GenerateOTPRequest represents the payload for issuing an OTP
type GenerateOTPRequest struct {
	Aadhaar string
	Name    string
	Consent bool
}

// VerifyOTPRequest represents the payload for verifying an OTP
type VerifyOTPRequest struct {
	Aadhaar string
	OTP     string
}

// stringField reads a submitted value as typed text.
func stringField(record map[string]any, key string) string {
	v, ok := record[key]
	if !ok {
		return ""
	}
	return schema.Stringify(v)
}

// GenerateOTPHandler validates the Aadhaar step and issues a code.
func (s *Server) GenerateOTPHandler(w http.ResponseWriter, r *http.Request) {
	logMessageBuilder := utils.StartLogMessage(r, "[Generate OTP API]")
	defer utils.FlushLogMessage(logMessageBuilder)

	record, err := utils.DecodeJSONBody(r)
	if err != nil {
		utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("Invalid request body: %v", err))
		utils.RespondError(w, logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	if errs := s.identity.Validate(record); len(errs) > 0 {
		utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("Validation failed: %d field error(s)", len(errs)))
		utils.RespondJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": errs})
		return
	}

	req := GenerateOTPRequest{
		Aadhaar: stringField(record, "aadhaar"),
		Name:    stringField(record, "name"),
		Consent: schema.IsPresent(record["consent"]),
	}
	if req.Aadhaar == "" || req.Name == "" || !req.Consent {
		utils.RespondError(w, logMessageBuilder, "Missing required fields", http.StatusBadRequest)
		return
	}

	code, err := s.otp.Issue(r.Context(), req.Aadhaar, req.Name)
	if err != nil {
		utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("OTP generation failed: %v", err))
		utils.RespondError(w, logMessageBuilder, "Server error", http.StatusInternalServerError)
		return
	}

	// no delivery channel: the code is logged and returned to the caller
	utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("OTP for %s: %s", req.Aadhaar, code))
	utils.AddToLogMessage(logMessageBuilder, otp.Unverified.To(otp.Issued))
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "OTP generated successfully",
		"otp":     code,
	})
}

// VerifyOTPHandler checks an identifier and code pair.
func (s *Server) VerifyOTPHandler(w http.ResponseWriter, r *http.Request) {
	logMessageBuilder := utils.StartLogMessage(r, "[Verify OTP API]")
	defer utils.FlushLogMessage(logMessageBuilder)

	record, err := utils.DecodeJSONBody(r)
	if err != nil {
		utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("Invalid request body: %v", err))
		utils.RespondError(w, logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	req := VerifyOTPRequest{
		Aadhaar: stringField(record, "aadhaar"),
		OTP:     stringField(record, "otp"),
	}

	err = s.otp.Verify(r.Context(), req.Aadhaar, req.OTP)
	switch {
	case errors.Is(err, otp.ErrMissingFields):
		utils.RespondError(w, logMessageBuilder, "Aadhaar and OTP are required", http.StatusBadRequest)
		return
	case errors.Is(err, otp.ErrMismatch):
		utils.RespondError(w, logMessageBuilder, "Invalid OTP", http.StatusBadRequest)
		return
	case err != nil:
		utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("OTP verification failed: %v", err))
		utils.RespondError(w, logMessageBuilder, "Server error", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(logMessageBuilder, otp.Issued.To(otp.Verified))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"message": "OTP verified successfully",
	})
}
