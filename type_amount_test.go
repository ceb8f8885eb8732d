package finance

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	testCases := []struct {
		in      string
		want    Amount
		wantErr bool
	}{
		{in: "1000", want: A(1000)},
		{in: " 12.50 ", want: A(12.5)},
		{in: "0", want: A(0)},
		{in: "0.1", want: A(0.1)},
		{in: "", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "12,50", wantErr: true},
		{in: "NaN", wantErr: true},
		{in: "-5", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseAmount(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("ParseAmount(%q) error = %v, want %v", tc.in, err, ErrInvalidAmount)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tc.in, err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("ParseAmount(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParsePositiveAmount(t *testing.T) {
	if _, err := ParsePositiveAmount("0"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("ParsePositiveAmount(0) error = %v, want %v", err, ErrInvalidAmount)
	}
	if _, err := ParsePositiveAmount("-1"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("ParsePositiveAmount(-1) error = %v, want %v", err, ErrInvalidAmount)
	}
	got, err := ParsePositiveAmount("300")
	if err != nil || !got.Equal(A(300)) {
		t.Errorf("ParsePositiveAmount(300) = %v, %v; want 300, nil", got, err)
	}
}

func TestAmount_Format(t *testing.T) {
	testCases := []struct {
		amount   Amount
		currency string
		want     string
	}{
		{A(1000), "USD", "$1,000.00"},
		{A(1234.5), "", "$1,234.50"},
		{A(0.07), "USD", "$0.07"},
		{A(-50), "USD", "-$50.00"},
		{Amount{}, "USD", "$0.00"},
	}
	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			if got := tc.amount.Format(tc.currency); got != tc.want {
				t.Errorf("Format(%q) = %q, want %q", tc.currency, got, tc.want)
			}
		})
	}
}

func TestAmount_Percent(t *testing.T) {
	if got := A(300).Percent(A(5000)).String(); got != "6" {
		t.Errorf("Percent() = %s, want 6", got)
	}
	if got := A(300).Percent(Amount{}); !got.IsZero() {
		t.Errorf("Percent() of a zero total = %s, want 0", got)
	}
}

func TestAmount_JSON(t *testing.T) {
	data, err := json.Marshal(A(12.5))
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(data) != "12.5" {
		t.Errorf("json.Marshal() = %s, want a bare number 12.5", data)
	}

	for _, in := range []string{`12.5`, `"12.5"`} {
		var a Amount
		if err := json.Unmarshal([]byte(in), &a); err != nil {
			t.Fatalf("json.Unmarshal(%s) error = %v", in, err)
		}
		if !a.Equal(A(12.5)) {
			t.Errorf("json.Unmarshal(%s) = %v, want 12.5", in, a)
		}
	}
}
