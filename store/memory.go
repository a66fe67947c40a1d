package store

import (
	"context"
	"sync"

	"github.com/raushankrgupta/udyam-registration/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps records in process memory. It backs local demos
// (STORE_DRIVER=memory) and tests.
type MemoryStore struct {
	mu            sync.Mutex
	otps          []models.OtpRecord
	pans          []models.PanRecord
	registrations map[string]models.Registration
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{registrations: make(map[string]models.Registration)}
}

func (m *MemoryStore) InsertOTP(_ context.Context, rec models.OtpRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	m.otps = append(m.otps, rec)
	return nil
}

func (m *MemoryStore) FindOTP(_ context.Context, aadhaar, code string) (*models.OtpRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.otps {
		if rec.Aadhaar == aadhaar && rec.OTP == code {
			found := rec
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) InsertPAN(_ context.Context, rec models.PanRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	m.pans = append(m.pans, rec)
	return nil
}

func (m *MemoryStore) InsertRegistration(_ context.Context, reg models.Registration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID().Hex()
	m.registrations[id] = reg
	return id, nil
}

// OTPs returns a snapshot of issued codes.
func (m *MemoryStore) OTPs() []models.OtpRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.OtpRecord(nil), m.otps...)
}

// PANs returns a snapshot of stored PAN records.
func (m *MemoryStore) PANs() []models.PanRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.PanRecord(nil), m.pans...)
}

// Registration returns the submission stored under id.
func (m *MemoryStore) Registration(id string) (models.Registration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.registrations[id]
	return reg, ok
}

// RegistrationCount is the number of stored submissions.
func (m *MemoryStore) RegistrationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.registrations)
}
