package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

// validInput returns a buyer that passes every rule; tests mutate one field
// at a time from here.
func validInput() BuyerInput {
	return BuyerInput{
		FullName:     "Jane Doe",
		Phone:        "9876543210",
		City:         "Mohali",
		PropertyType: "Plot",
		Purpose:      "Buy",
		Timeline:     "Exploring",
		Source:       "Website",
	}
}

func TestValidateBuyer_Valid(t *testing.T) {
	out, errs := ValidateBuyer(validInput())
	require.Nil(t, errs)

	assert.Equal(t, "Jane Doe", out.FullName)
	assert.Nil(t, out.Email)
	// Absent tags normalize to an empty slice, never nil.
	require.NotNil(t, out.Tags)
	assert.Empty(t, out.Tags)
}

func TestValidateBuyer_EmptyEmailNormalizesToAbsent(t *testing.T) {
	in := validInput()
	in.Email = strPtr("")

	out, errs := ValidateBuyer(in)
	require.Nil(t, errs)
	assert.Nil(t, out.Email)

	in.Email = strPtr("not-an-email")
	_, errs = ValidateBuyer(in)
	require.NotNil(t, errs)
	assert.Equal(t, []string{"Invalid email"}, errs["email"])
}

func TestValidateBuyer_FullNameLength(t *testing.T) {
	in := validInput()
	in.FullName = "J"

	_, errs := ValidateBuyer(in)
	require.NotNil(t, errs)
	assert.Contains(t, errs["fullName"], "Must be at least 2 characters")
}

func TestValidateBuyer_Phone(t *testing.T) {
	cases := map[string]bool{
		"9876543210":       true,
		"987654321012345":  true,
		"987654321":        false, // 9 digits
		"9876543210123456": false, // 16 digits
		"98765abcde":       false,
	}
	for phone, ok := range cases {
		in := validInput()
		in.Phone = phone
		_, errs := ValidateBuyer(in)
		if ok {
			assert.Nil(t, errs, "phone %q should be valid", phone)
		} else {
			require.NotNil(t, errs, "phone %q should be invalid", phone)
			assert.Contains(t, errs["phone"], "Phone must be 10-15 digits")
		}
	}
}

func TestValidateBuyer_EnumMembership(t *testing.T) {
	in := validInput()
	in.City = "Delhi"
	in.Source = "Twitter"

	_, errs := ValidateBuyer(in)
	require.NotNil(t, errs)
	assert.Len(t, errs["city"], 1)
	assert.Len(t, errs["source"], 1)
	assert.Contains(t, errs["city"][0], "Must be one of:")
}

func TestValidateBuyer_BudgetOrdering(t *testing.T) {
	in := validInput()
	in.BudgetMin = intPtr(5000000)
	in.BudgetMax = intPtr(4000000)

	_, errs := ValidateBuyer(in)
	require.NotNil(t, errs)
	// The ordering violation is scoped to budgetMax only.
	assert.Equal(t, []string{"Minimum budget must be less than or equal to maximum budget"}, errs["budgetMax"])
	assert.NotContains(t, errs, "budgetMin")

	// Equal bounds are allowed.
	in.BudgetMax = intPtr(5000000)
	_, errs = ValidateBuyer(in)
	assert.Nil(t, errs)

	// Either bound alone is fine.
	in.BudgetMax = nil
	_, errs = ValidateBuyer(in)
	assert.Nil(t, errs)
}

func TestValidateBuyer_BudgetOrderingSkippedWhenOperandInvalid(t *testing.T) {
	in := validInput()
	in.BudgetMin = intPtr(5000000)
	in.BudgetMax = intPtr(-1)

	_, errs := ValidateBuyer(in)
	require.NotNil(t, errs)
	// Only the individual-field failure surfaces; the cross-field rule does
	// not pile a second message onto the same root cause.
	assert.Equal(t, []string{"Must be a positive number"}, errs["budgetMax"])
}

func TestValidateBuyer_BHKConditional(t *testing.T) {
	in := validInput()
	in.PropertyType = "Apartment"

	_, errs := ValidateBuyer(in)
	require.NotNil(t, errs)
	assert.Equal(t, []string{"BHK is required for Apartment or Villa"}, errs["bhk"])

	in.BHK = strPtr("Two")
	_, errs = ValidateBuyer(in)
	assert.Nil(t, errs)

	// Non-residential types never require BHK.
	in = validInput()
	in.PropertyType = "Office"
	_, errs = ValidateBuyer(in)
	assert.Nil(t, errs)

	// Villa behaves like Apartment.
	in.PropertyType = "Villa"
	_, errs = ValidateBuyer(in)
	require.NotNil(t, errs)
	assert.Contains(t, errs["bhk"], "BHK is required for Apartment or Villa")
}

func TestValidateBuyer_CollectsAllErrors(t *testing.T) {
	in := BuyerInput{
		FullName:     "John Doe",
		Phone:        "1234567890",
		City:         "Chandigarh",
		PropertyType: "Apartment",
		Purpose:      "Buy",
		BudgetMin:    intPtr(5000000),
		BudgetMax:    intPtr(4000000),
		Timeline:     "ZeroToThree",
		Source:       "Website",
	}

	_, errs := ValidateBuyer(in)
	require.NotNil(t, errs)
	// Both independent violations are reported in one pass.
	assert.Contains(t, errs["budgetMax"], "Minimum budget must be less than or equal to maximum budget")
	assert.Contains(t, errs["bhk"], "BHK is required for Apartment or Villa")
	assert.Len(t, errs, 2)
}

func TestValidateBuyer_VillaWithBHKSucceeds(t *testing.T) {
	in := BuyerInput{
		FullName:     "Jane Doe",
		Phone:        "9876543210",
		City:         "Mohali",
		PropertyType: "Villa",
		BHK:          strPtr("Two"),
		Purpose:      "Rent",
		BudgetMin:    intPtr(100000),
		BudgetMax:    intPtr(500000),
		Timeline:     "ThreeToSix",
		Source:       "Referral",
	}

	out, errs := ValidateBuyer(in)
	require.Nil(t, errs)
	assert.Nil(t, out.Email)
	require.NotNil(t, out.Tags)
	assert.Empty(t, out.Tags)
}

func TestValidateBuyer_Idempotent(t *testing.T) {
	in := validInput()
	in.Email = strPtr("")
	in.Notes = strPtr("corner plot preferred")
	in.Tags = []string{"hot", "site-visit"}

	first, errs := ValidateBuyer(in)
	require.Nil(t, errs)

	second, errs := ValidateBuyer(first)
	require.Nil(t, errs)
	assert.Equal(t, first, second)
}

func TestValidateBuyer_StatusOptional(t *testing.T) {
	in := validInput()
	_, errs := ValidateBuyer(in)
	assert.Nil(t, errs)

	in.Status = strPtr("Qualified")
	out, errs := ValidateBuyer(in)
	require.Nil(t, errs)
	assert.Equal(t, "Qualified", *out.Status)

	in.Status = strPtr("Archived")
	_, errs = ValidateBuyer(in)
	require.NotNil(t, errs)
	assert.Contains(t, errs["status"][0], "Must be one of:")
}
