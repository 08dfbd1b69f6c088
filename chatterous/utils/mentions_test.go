package utils

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
)

func TestParseUserMention(t *testing.T) {
	tests := []struct {
		input  string
		want   snowflake.ID
		wantOK bool
	}{
		{input: "<@123456789>", want: 123456789, wantOK: true},
		{input: "<@!123456789>", want: 123456789, wantOK: true},
		{input: "123456789", want: 123456789, wantOK: true},
		{input: "<@&123456789>", wantOK: false},
		{input: "someone", wantOK: false},
		{input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseUserMention(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseUserMention(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseUserMention(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRoleMention(t *testing.T) {
	if id, ok := ParseRoleMention("<@&42>"); !ok || id != 42 {
		t.Errorf("ParseRoleMention(<@&42>) = %v, %v", id, ok)
	}
	if _, ok := ParseRoleMention("<#42>"); ok {
		t.Error("ParseRoleMention accepted a channel mention")
	}
}

func TestParseChannelMention(t *testing.T) {
	if id, ok := ParseChannelMention("<#42>"); !ok || id != 42 {
		t.Errorf("ParseChannelMention(<#42>) = %v, %v", id, ok)
	}
	if _, ok := ParseChannelMention("<@42>"); ok {
		t.Error("ParseChannelMention accepted a user mention")
	}
}
