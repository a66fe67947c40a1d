package api

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/raushankrgupta/udyam-registration/pincode"
	"github.com/raushankrgupta/udyam-registration/utils"
)

var pinFormat = regexp.MustCompile(`^\d{6}$`)

// PincodeHandler proxies the postal-code directory for clients that cannot
// reach it themselves.
func (s *Server) PincodeHandler(w http.ResponseWriter, r *http.Request) {
	logMessageBuilder := utils.StartLogMessage(r, "[Pincode API]")
	defer utils.FlushLogMessage(logMessageBuilder)

	code := r.PathValue("code")
	if !pinFormat.MatchString(code) {
		utils.RespondError(w, logMessageBuilder, "PIN code must be 6 digits", http.StatusBadRequest)
		return
	}
	if s.pincodes == nil {
		utils.RespondError(w, logMessageBuilder, "PIN code lookup unavailable", http.StatusServiceUnavailable)
		return
	}

	place, err := s.pincodes.Lookup(r.Context(), code)
	if errors.Is(err, pincode.ErrNotFound) {
		utils.RespondError(w, logMessageBuilder, "PIN code not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("Lookup failed: %v", err))
		utils.RespondError(w, logMessageBuilder, "PIN code lookup failed", http.StatusBadGateway)
		return
	}

	utils.RespondJSON(w, http.StatusOK, place)
}
