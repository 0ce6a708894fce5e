package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Type
	}{
		{"empty", "", TypeUnknown},
		{"whitespace only", "   \t ", TypeUnknown},
		{"email", "user@example.com", TypeEmail},
		{"email with plus", "pay+ops@bank.example.org", TypeEmail},
		{"at without dot after", "user@localhost", TypeCustom},
		{"phone 11 digits", "98412345670", TypePhone},
		{"phone lower bound 8 digits", "98412345", TypePhone},
		{"phone upper bound 15 digits", "984123456789012", TypePhone},
		{"account 16 digits", "9841234567890123", TypeAccountNumber},
		{"account upper bound 19 digits", "1234567890123456789", TypeAccountNumber},
		{"large number boundary 20 digits", "12345678901234567890", TypeLargeNumber},
		{"large number 21 digits", "123456789012345678901", TypeLargeNumber},
		{"numeric 7 digits", "1234567", TypeNumeric},
		{"digits with inner spaces", "9841 234 567", TypePhone},
		{"uuid", "f47ac10b-58cc-4372-a567-0e02b2c3d479", TypeUUID},
		{"uuid uppercase", "F47AC10B-58CC-4372-A567-0E02B2C3D479", TypeUUID},
		{"reference code", "abc123", TypeReferenceCode},
		{"reference code with dash", "ABC-999", TypeReferenceCode},
		{"plain text", "khalti", TypeText},
		{"symbols only", "!!??", TypeCustom},
		{"trimmed before rules", "  9841234567  ", TypePhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.input))
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	inputs := []string{"user@example.com", "9841234567", "ABC-999", strings.Repeat("9", 25)}
	for _, in := range inputs {
		first := Classify(in)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, Classify(in))
		}
	}
}
