package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func keysOf(step []FieldDescriptor) []string {
	out := make([]string, len(step))
	for i, f := range step {
		out[i] = f.Key()
	}
	return out
}

func TestInferPattern(t *testing.T) {
	cases := map[string]string{
		"ctl00$ContentPlaceHolder1$txtadharno": AadhaarPattern,
		"txtPan":                               PANPattern,
		"otp":                                  OTPPattern,
		"txtPinCode":                           PinPattern,
		"Postal":                               PinPattern,
		"email":                                "",
	}
	for key, want := range cases {
		assert.Equal(t, want, InferPattern(key), key)
	}
}

func TestEnrichKeepsExplicitPatterns(t *testing.T) {
	s := New("", "", []FieldDescriptor{
		{Name: "aadhaar"},
		{Name: "pan", Pattern: `^[A-Z]{5}[0-9]{4}[A-Z]$`},
		{Name: "city"},
	})
	enriched := s.Enrich().Fields()
	assert.Equal(t, AadhaarPattern, enriched[0].Pattern)
	assert.Equal(t, `^[A-Z]{5}[0-9]{4}[A-Z]$`, enriched[1].Pattern)
	assert.Empty(t, enriched[2].Pattern)
	assert.Empty(t, s.Fields()[0].Pattern, "enrich must not mutate the source schema")
}

func TestStepsExplicitSingleStep(t *testing.T) {
	fields := []FieldDescriptor{
		{Name: "pan", Step: intPtr(0)},
		{Name: "aadhaar", Step: intPtr(0)},
		{Name: "city", Step: intPtr(0)},
	}
	steps := Steps(fields)
	require.Len(t, steps, 1)
	if diff := cmp.Diff(fields, steps[0]); diff != "" {
		t.Fatalf("step mismatch (-want +got):\n%s", diff)
	}
}

func TestStepsExplicitTagsAscending(t *testing.T) {
	steps := Steps([]FieldDescriptor{
		{Name: "c", Step: intPtr(10)},
		{Name: "a", Step: intPtr(2)},
		{Name: "untagged"},
		{Name: "b", Step: intPtr(2)},
	})
	require.Len(t, steps, 3)
	assert.Equal(t, []string{"untagged"}, keysOf(steps[0]))
	assert.Equal(t, []string{"a", "b"}, keysOf(steps[1]))
	assert.Equal(t, []string{"c"}, keysOf(steps[2]))
}

func TestStepsClassifiesByKeyword(t *testing.T) {
	steps := Steps([]FieldDescriptor{
		{Name: "ctl00$ContentPlaceHolder1$txtadharno"},
		{Name: "ctl00$ContentPlaceHolder1$txtownername"},
		{Name: "__VIEWSTATE", Type: "hidden"},
		{Name: "txtPan"},
		{Name: "otp"},
		{Name: "city"},
	})
	require.Len(t, steps, 2)
	assert.Equal(t, []string{"ctl00$ContentPlaceHolder1$txtadharno", "ctl00$ContentPlaceHolder1$txtownername", "otp"}, keysOf(steps[0]))
	assert.Equal(t, []string{"txtPan", "city"}, keysOf(steps[1]))
}

func TestStepsFallbackBorrowsTwoFields(t *testing.T) {
	steps := Steps([]FieldDescriptor{
		{Name: "email"},
		{Name: "mobile"},
		{Name: "city"},
	})
	require.Len(t, steps, 2)
	assert.Equal(t, []string{"email", "mobile"}, keysOf(steps[0]))
	assert.Equal(t, []string{"city"}, keysOf(steps[1]))
}

func TestStepsFallbackWithSingleField(t *testing.T) {
	steps := Steps([]FieldDescriptor{{Name: "email"}})
	require.Len(t, steps, 2)
	assert.Equal(t, []string{"email"}, keysOf(steps[0]))
	assert.Empty(t, steps[1])
}

func TestClassifyHiddenTag(t *testing.T) {
	assert.Equal(t, PlaceNone, Classify(FieldDescriptor{Name: "token", Tag: "hidden"}))
	assert.Equal(t, PlaceIdentity, Classify(FieldDescriptor{Name: "otp", Type: "hidden"}))
}

func TestPrettify(t *testing.T) {
	assert.Equal(t, "Ctl ContentPlaceHolder Txtownername", Prettify("ctl00$ContentPlaceHolder1$txtownername"))
	assert.Equal(t, "Pan Dob", Prettify("pan_dob"))
}

func TestFirstStepValidatesOnlyIdentityFields(t *testing.T) {
	s := New("test", "", []FieldDescriptor{
		{Name: "aadhaar", Label: "Aadhaar", Required: true, Pattern: AadhaarPattern},
		{Name: "ownername", Label: "Name", Required: true},
		{Name: "pan", Label: "PAN", Required: true},
	})
	first := s.FirstStep()
	assert.Equal(t, 2, first.Len())

	errs := first.Validate(map[string]any{"aadhaar": "123456789012", "ownername": "Asha"})
	assert.Empty(t, errs)
	assert.Len(t, s.Validate(map[string]any{"aadhaar": "123456789012", "ownername": "Asha"}), 1)

	assert.Equal(t, 0, Empty().FirstStep().Len())
}
