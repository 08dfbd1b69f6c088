package utils

import (
	"testing"
	"time"
)

func TestParseRemindDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{input: "10m", want: 10 * time.Minute},
		{input: "2h", want: 2 * time.Hour},
		{input: "1d", want: 24 * time.Hour},
		{input: "45s", want: 45 * time.Second},
		{input: "10x", wantErr: true},
		{input: "m10", wantErr: true},
		{input: "m", wantErr: true},
		{input: "", wantErr: true},
		{input: "0m", wantErr: true},
		{input: "-5m", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRemindDuration(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRemindDuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseRemindDuration(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
