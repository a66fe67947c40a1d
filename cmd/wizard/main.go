package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/raushankrgupta/udyam-registration/config"
	"github.com/raushankrgupta/udyam-registration/pincode"
	"github.com/raushankrgupta/udyam-registration/schema"
	"github.com/raushankrgupta/udyam-registration/wizard"
)

const maxOTPAttempts = 3

// identityFields are the API names generate-otp requires.
var identityFields = []string{"aadhaar", "name", "consent"}

func main() {
	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := wizard.NewClient(cfg.APIBaseURL)
	fs, err := client.FetchSchema(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch schema from %s: %v", cfg.APIBaseURL, err)
	}
	if fs.Len() == 0 {
		log.Fatal("Server has no form schema loaded")
	}

	w := wizard.New(fs,
		wizard.WithSubmitter(client),
		wizard.WithAutoFill(pincode.NewAutoFiller(fs, pincode.NewClient(cfg.PincodeAPIURL))),
	)

	if err := run(ctx, w, client); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Println("Cancelled, nothing was submitted.")
			os.Exit(1)
		}
		log.Fatalf("Registration failed: %v", err)
	}
}

func run(ctx context.Context, w *wizard.Wizard, client *wizard.Client) error {
	panSent := false
	for {
		labels := w.Labels()
		fmt.Printf("\n== %s of %d ==\n", labels[w.Current()], w.Len())
		if err := askPage(ctx, w); err != nil {
			return err
		}

		if !w.IsLast() {
			if err := w.Next(); err != nil {
				printStepError(err)
				continue
			}
			if w.Current() == 1 {
				err := verifyIdentity(ctx, w, client)
				if rejected(err) {
					w.Back()
					continue
				}
				if err != nil {
					return err
				}
			}
			continue
		}

		if err := w.Validate(); err != nil {
			printStepError(err)
			continue
		}
		if !panSent {
			sent, err := submitPAN(ctx, w, client)
			if rejected(err) {
				continue
			}
			if err != nil {
				return err
			}
			panSent = sent
		}

		id, err := w.Submit(ctx)
		if rejected(err) {
			continue
		}
		if err != nil {
			return err
		}
		fmt.Printf("Submitted successfully! Registration id: %s\n", id)
		return nil
	}
}

// rejected prints validation failures the user can correct by answering
// the page again.
func rejected(err error) bool {
	var stepErr *wizard.StepError
	if errors.As(err, &stepErr) {
		printStepError(err)
		return true
	}
	var apiErr *wizard.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
		fmt.Printf("Rejected by server: %s\n", apiErr.Message)
		for _, fe := range apiErr.Fields {
			fmt.Printf("  - %s\n", fe.Message)
		}
		return true
	}
	return false
}

func askPage(ctx context.Context, w *wizard.Wizard) error {
	problems := w.Errors()
	for _, f := range w.CurrentFields() {
		v, err := askField(ctx, f, w.Value(f.Key()), problems[f.Key()])
		if err != nil {
			return err
		}
		for name, value := range w.Set(ctx, f.Key(), v) {
			fmt.Printf("  auto-filled %s: %s\n", name, value)
		}
	}
	return nil
}

// verifyIdentity runs the OTP exchange once the first page is valid. Identity
// fields the form places on a later page are asked for first.
func verifyIdentity(ctx context.Context, w *wizard.Wizard, client *wizard.Client) error {
	for _, f := range w.Missing(identityFields...) {
		v, err := askField(ctx, f, w.Value(f.Key()), "")
		if err != nil {
			return err
		}
		w.Set(ctx, f.Key(), v)
	}

	payload := wizard.Canonical(w.Values())
	aadhaar := schema.Stringify(payload["aadhaar"])
	if aadhaar == "" {
		fmt.Println("No Aadhaar field on this form, skipping OTP verification.")
		return nil
	}

	code, err := client.GenerateOTP(ctx, payload)
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	// no delivery channel exists yet, so the code is shown here
	fmt.Printf("OTP: %s\n", code)

	for attempt := 1; attempt <= maxOTPAttempts; attempt++ {
		entered, err := askInput(ctx, "Enter the OTP")
		if err != nil {
			return err
		}
		err = client.VerifyOTP(ctx, aadhaar, entered)
		if err == nil {
			fmt.Println("OTP verified.")
			return nil
		}
		var apiErr *wizard.APIError
		if !errors.As(err, &apiErr) {
			return err
		}
		fmt.Printf("OTP Invalid: %s\n", apiErr.Message)
	}
	return errors.New("too many invalid OTP attempts")
}

// submitPAN sends the PAN step once the last page is valid. It reports
// whether the details were stored.
func submitPAN(ctx context.Context, w *wizard.Wizard, client *wizard.Client) (bool, error) {
	v := wizard.Canonical(w.Values())
	details := wizard.PANDetails{
		Aadhaar:    schema.Stringify(v["aadhaar"]),
		OrgType:    schema.Stringify(v["orgType"]),
		PAN:        schema.Stringify(v["pan"]),
		PANName:    schema.Stringify(v["panName"]),
		PANDob:     schema.Stringify(v["panDob"]),
		PANConsent: v["panConsent"] == true,
	}
	if details.PAN == "" {
		return false, nil
	}
	if details.OrgType == "" || details.PANName == "" || details.PANDob == "" {
		fmt.Println("PAN details incomplete, skipping PAN verification.")
		return false, nil
	}
	ok, err := askConfirm(ctx, "Submit PAN details for verification?", true)
	if err != nil || !ok {
		return false, err
	}
	if err := client.SubmitPAN(ctx, details); err != nil {
		return false, fmt.Errorf("submit pan: %w", err)
	}
	fmt.Println("PAN submitted successfully!")
	return true, nil
}

func printStepError(err error) {
	var stepErr *wizard.StepError
	if !errors.As(err, &stepErr) {
		fmt.Println(err)
		return
	}
	fmt.Printf("Please fix %d field(s):\n", len(stepErr.Errors))
	for _, fe := range stepErr.Errors {
		fmt.Printf("  - %s\n", fe.Message)
	}
}
