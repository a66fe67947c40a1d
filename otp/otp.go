// Package otp issues and checks the one-time codes that stand in for
// Aadhaar possession.
//
// A registration moves UNVERIFIED -> OTP_ISSUED -> VERIFIED. Codes are
// neither consumed by a successful verification nor expired, so the same
// code verifies any number of times, and concurrent issues for one
// identifier leave several valid codes.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/raushankrgupta/udyam-registration/models"
	"github.com/raushankrgupta/udyam-registration/store"
)

var (
	// ErrMissingFields is returned before any store access when the
	// identifier or code is empty.
	ErrMissingFields = errors.New("otp: aadhaar and otp are required")
	// ErrMismatch is returned when no issued code matches the pair.
	ErrMismatch = errors.New("otp: invalid otp")
)

// State is a registration's position in the verification flow.
type State int

const (
	Unverified State = iota
	Issued
	Verified
)

func (s State) String() string {
	switch s {
	case Unverified:
		return "UNVERIFIED"
	case Issued:
		return "OTP_ISSUED"
	case Verified:
		return "VERIFIED"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// To formats the move from s to next for the request log.
func (s State) To(next State) string {
	return "state " + s.String() + " -> " + next.String()
}

const (
	codeMin   = 100000
	codeRange = 900000
)

// Generate returns a code drawn uniformly from 100000..999999.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeRange))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}

// Store persists issued codes.
type Store interface {
	InsertOTP(ctx context.Context, rec models.OtpRecord) error
	FindOTP(ctx context.Context, aadhaar, code string) (*models.OtpRecord, error)
}

// Service issues and verifies codes against a Store.
type Service struct {
	store    Store
	generate func() (string, error)
	now      func() time.Time
}

func NewService(s Store) *Service {
	return &Service{store: s, generate: Generate, now: time.Now}
}

// Issue generates a code for aadhaar and stores it.
func (s *Service) Issue(ctx context.Context, aadhaar, name string) (string, error) {
	if aadhaar == "" || name == "" {
		return "", ErrMissingFields
	}
	code, err := s.generate()
	if err != nil {
		return "", err
	}
	rec := models.OtpRecord{
		Aadhaar:   aadhaar,
		Name:      name,
		OTP:       code,
		CreatedAt: s.now(),
	}
	if err := s.store.InsertOTP(ctx, rec); err != nil {
		return "", err
	}
	return code, nil
}

// Verify succeeds iff a stored record carries exactly this aadhaar and code.
func (s *Service) Verify(ctx context.Context, aadhaar, code string) error {
	if aadhaar == "" || code == "" {
		return ErrMissingFields
	}
	_, err := s.store.FindOTP(ctx, aadhaar, code)
	if errors.Is(err, store.ErrNotFound) {
		return ErrMismatch
	}
	return err
}
