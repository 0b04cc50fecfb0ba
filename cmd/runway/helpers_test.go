package main

import (
	"testing"

	"github.com/calebgardner/runway/internal/model"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{input: "0", want: 0},
		{input: "12", want: 1200},
		{input: "12.5", want: 1250},
		{input: "12.50", want: 1250},
		{input: "-12.50", want: -1250},
		{input: "+3.07", want: 307},
		{input: ".99", want: 99},
		{input: "-0.01", want: -1},
		{input: " 1500 ", want: 150000},
		{input: "", wantErr: true},
		{input: "12.505", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "12.x5", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseAmount(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseAmount(%q) expected error, got %d", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseAmount(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseAmount(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseAddStatus(t *testing.T) {
	if got, err := parseAddStatus("PLANNED"); err != nil || got != model.StatusPlanned {
		t.Errorf("parseAddStatus(PLANNED) = %v, %v", got, err)
	}
	if got, err := parseAddStatus("CONFIRMED"); err != nil || got != model.StatusConfirmed {
		t.Errorf("parseAddStatus(CONFIRMED) = %v, %v", got, err)
	}
	for _, value := range []string{"SKIPPED", "planned", ""} {
		if _, err := parseAddStatus(value); err == nil {
			t.Errorf("parseAddStatus(%q) expected error", value)
		}
	}
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("2024-02-29")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Format(isoDate) != "2024-02-29" {
		t.Errorf("parseDate round trip = %s", got.Format(isoDate))
	}

	if _, err := parseDate("02/29/2024"); err == nil {
		t.Error("expected error for non-ISO date")
	}
	if _, err := parseDate("2023-02-29"); err == nil {
		t.Error("expected error for invalid calendar date")
	}
}
