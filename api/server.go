package api

import (
	"context"
	"net/http"
	"time"

	"github.com/raushankrgupta/udyam-registration/models"
	"github.com/raushankrgupta/udyam-registration/otp"
	"github.com/raushankrgupta/udyam-registration/pincode"
	"github.com/raushankrgupta/udyam-registration/schema"
)

// PANStore persists the PAN step.
type PANStore interface {
	InsertPAN(ctx context.Context, rec models.PanRecord) error
}

// RegistrationStore persists final submissions.
type RegistrationStore interface {
	InsertRegistration(ctx context.Context, reg models.Registration) (string, error)
}

// Dependencies are the collaborators a Server is built from. All are
// constructed once at startup.
type Dependencies struct {
	Schema        *schema.FormSchema
	OTP           *otp.Service
	PANs          PANStore
	Registrations RegistrationStore
	Pincodes      pincode.Lookuper
}

// Server serves the registration API.
type Server struct {
	schema        *schema.FormSchema
	identity      *schema.FormSchema // fields checked before issuing an OTP
	otp           *otp.Service
	pans          PANStore
	registrations RegistrationStore
	pincodes      pincode.Lookuper
	now           func() time.Time
}

func NewServer(deps Dependencies) *Server {
	s := deps.Schema
	if s == nil {
		s = schema.Empty()
	}
	return &Server{
		schema:        s,
		identity:      s.FirstStep(),
		otp:           deps.OTP,
		pans:          deps.PANs,
		registrations: deps.Registrations,
		pincodes:      deps.Pincodes,
		now:           time.Now,
	}
}

// Routes returns the API mux.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.WelcomeHandler)
	mux.HandleFunc("GET /api", s.HealthHandler)
	mux.HandleFunc("GET /api/schema", s.SchemaHandler)
	mux.HandleFunc("POST /api/validate", s.ValidateHandler)
	mux.HandleFunc("POST /api/generate-otp", s.GenerateOTPHandler)
	mux.HandleFunc("POST /api/verify-otp", s.VerifyOTPHandler)
	mux.HandleFunc("POST /api/submit-pan", s.SubmitPANHandler)
	mux.HandleFunc("POST /api/submit", s.SubmitHandler)
	mux.HandleFunc("GET /api/pincode/{code}", s.PincodeHandler)
	return mux
}
