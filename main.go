package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/raushankrgupta/udyam-registration/api"
	"github.com/raushankrgupta/udyam-registration/config"
	"github.com/raushankrgupta/udyam-registration/otp"
	"github.com/raushankrgupta/udyam-registration/pincode"
	"github.com/raushankrgupta/udyam-registration/schema"
	"github.com/raushankrgupta/udyam-registration/store"
	"github.com/raushankrgupta/udyam-registration/utils"
)

func main() {
	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	formSchema := loadSchema(ctx, cfg)

	deps := api.Dependencies{
		Schema:   formSchema,
		Pincodes: pincode.NewClient(cfg.PincodeAPIURL),
	}

	switch cfg.StoreDriver {
	case "memory":
		log.Println("Using in-memory store, data is lost on exit")
		mem := store.NewMemoryStore()
		deps.OTP, deps.PANs, deps.Registrations = otp.NewService(mem), mem, mem
	default:
		client, err := store.Connect(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				log.Printf("MongoDB disconnect: %v", err)
			}
		}()
		mongoStore := store.NewMongoStore(client.Database(cfg.DBName))
		deps.OTP, deps.PANs, deps.Registrations = otp.NewService(mongoStore), mongoStore, mongoStore
	}

	server := api.NewServer(deps)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", utils.RequestIDHeader},
		ExposedHeaders: []string{utils.RequestIDHeader},
		MaxAge:         300,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsMiddleware.Handler(utils.RequestLogMiddleware(server.Routes())),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		fmt.Printf("Server starting on port %s...\n", cfg.Port)
		fmt.Printf("Usage: curl \"http://localhost:%s/api/schema\"\n", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown: %v", err)
	}
}

// loadSchema reads the configured schema. A missing or broken schema is not
// fatal: the server keeps running with an empty schema that accepts every
// record.
func loadSchema(ctx context.Context, cfg *config.Config) *schema.FormSchema {
	opts := schema.LoadOptions{}
	if cfg.AWSRegion != "" {
		objects, err := utils.NewObjectStore(ctx, cfg.AWSRegion)
		if err != nil {
			log.Printf("S3 unavailable, s3:// schema sources will fail: %v", err)
		} else {
			opts.Objects = objects
		}
	}

	s, err := schema.Load(ctx, cfg.SchemaSource, opts)
	if err != nil {
		log.Printf("WARNING: schema not loaded, validation is disabled: %v", err)
		return schema.Empty()
	}
	for _, issue := range s.Issues() {
		log.Printf("WARNING: %v", issue)
	}
	log.Printf("Loaded %d fields from %s", s.Len(), cfg.SchemaSource)
	return s
}
