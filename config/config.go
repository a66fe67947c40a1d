package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the process settings read at startup.
type Config struct {
	MongoURI      string
	DBName        string
	StoreDriver   string // "mongo" or "memory"
	Port          string
	SchemaSource  string // file path, s3://bucket/key or http(s) URL
	PincodeAPIURL string
	AWSRegion     string
	AWSBucketName string
	ScrapeURL     string
	APIBaseURL    string // used by the terminal wizard
}

// LoadConfig loads environment variables from .env file
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}

	return &Config{
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017/"),
		DBName:        getEnv("DB_NAME", "udyam"),
		StoreDriver:   getEnv("STORE_DRIVER", "mongo"),
		Port:          getEnv("PORT", "4000"),
		SchemaSource:  getEnv("SCHEMA_SOURCE", "form_schema.json"),
		PincodeAPIURL: getEnv("PINCODE_API_URL", "https://api.postalpincode.in"),
		AWSRegion:     os.Getenv("AWS_REGION"),
		AWSBucketName: os.Getenv("AWS_BUCKET_NAME"),
		ScrapeURL:     getEnv("SCRAPE_URL", "https://udyamregistration.gov.in/UdyamRegistration.aspx"),
		APIBaseURL:    getEnv("API_BASE_URL", "http://localhost:4000"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
