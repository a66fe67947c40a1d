package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/raushankrgupta/udyam-registration/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DatabaseName           = "udyam"
	OTPCollection          = "otps"
	PANCollection          = "udyam-pan"
	RegistrationCollection = "registrations"
)

var (
	// ErrNotFound is returned when a lookup matches no document.
	ErrNotFound = errors.New("store: not found")
	// ErrPersistence wraps every driver failure.
	ErrPersistence = errors.New("store: persistence failure")
)

// Connect opens the process-wide MongoDB client and pings it. The caller
// owns the client and must Disconnect it on shutdown.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.Println("Connected to MongoDB!")
	return client, nil
}

// MongoStore persists OTP, PAN and registration records in three
// append-only collections.
type MongoStore struct {
	otps          *mongo.Collection
	pans          *mongo.Collection
	registrations *mongo.Collection
}

// NewMongoStore binds the store to db.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		otps:          db.Collection(OTPCollection),
		pans:          db.Collection(PANCollection),
		registrations: db.Collection(RegistrationCollection),
	}
}

// InsertOTP stores an issued code.
func (s *MongoStore) InsertOTP(ctx context.Context, rec models.OtpRecord) error {
	if _, err := s.otps.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert otp: %w: %w", ErrPersistence, err)
	}
	return nil
}

// FindOTP returns the record matching both aadhaar and code exactly.
func (s *MongoStore) FindOTP(ctx context.Context, aadhaar, code string) (*models.OtpRecord, error) {
	var rec models.OtpRecord
	err := s.otps.FindOne(ctx, bson.M{"aadhaar": aadhaar, "otp": code}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find otp: %w: %w", ErrPersistence, err)
	}
	return &rec, nil
}

// InsertPAN stores the PAN step of a registration.
func (s *MongoStore) InsertPAN(ctx context.Context, rec models.PanRecord) error {
	if _, err := s.pans.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert pan: %w: %w", ErrPersistence, err)
	}
	return nil
}

// InsertRegistration stores a final submission and returns its id.
func (s *MongoStore) InsertRegistration(ctx context.Context, reg models.Registration) (string, error) {
	res, err := s.registrations.InsertOne(ctx, reg.Document())
	if err != nil {
		return "", fmt.Errorf("insert registration: %w: %w", ErrPersistence, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}
