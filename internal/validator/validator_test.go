package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	Color     string `validate:"omitempty,hex_color"`
	Frequency string `validate:"omitempty,recurrence_frequency"`
	Method    string `validate:"omitempty,payment_method"`
}

func TestCustomValidations(t *testing.T) {
	v := validator.New()
	RegisterOn(v)

	tests := []struct {
		name    string
		in      sample
		wantErr bool
	}{
		{"empty", sample{}, false},
		{"short_hex", sample{Color: "#fff"}, false},
		{"long_hex", sample{Color: "#3B82F6"}, false},
		{"bad_hex", sample{Color: "blue"}, true},
		{"monthly", sample{Frequency: "monthly"}, false},
		{"biweekly", sample{Frequency: "biweekly"}, true},
		{"bank_transfer", sample{Method: "bank_transfer"}, false},
		{"cheque", sample{Method: "cheque"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}
