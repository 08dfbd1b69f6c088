package utils

import (
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
)

func TestEmojiKey(t *testing.T) {
	tests := []struct {
		name  string
		emoji discord.PartialEmoji
		want  string
	}{
		{
			name:  "unicode",
			emoji: discord.PartialEmoji{Name: json.Ptr("👍")},
			want:  "👍",
		},
		{
			name: "custom",
			emoji: discord.PartialEmoji{
				ID:   json.Ptr(snowflake.ID(123456789)),
				Name: json.Ptr("blob"),
			},
			want: "blob:123456789",
		},
		{
			name:  "empty",
			emoji: discord.PartialEmoji{},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EmojiKey(tt.emoji); got != tt.want {
				t.Errorf("EmojiKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReactionEmojiKey(t *testing.T) {
	tests := []struct {
		name  string
		emoji discord.Emoji
		want  string
	}{
		{
			name:  "unicode",
			emoji: discord.Emoji{Name: "1⃣"},
			want:  "1⃣",
		},
		{
			name:  "custom",
			emoji: discord.Emoji{ID: snowflake.ID(123456789), Name: "blob"},
			want:  "blob:123456789",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReactionEmojiKey(tt.emoji); got != tt.want {
				t.Errorf("ReactionEmojiKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Reaction counts and stored bindings must agree on the canonical key for the
// same emoji or poll tallies and reaction roles silently stop matching.
func TestReactionEmojiKey_MatchesPartialForm(t *testing.T) {
	id := snowflake.ID(123456789)
	full := discord.Emoji{ID: id, Name: "blob"}
	partial := discord.PartialEmoji{ID: json.Ptr(id), Name: json.Ptr("blob")}
	if got, want := ReactionEmojiKey(full), EmojiKey(partial); got != want {
		t.Errorf("ReactionEmojiKey() = %q, EmojiKey() = %q, want equal", got, want)
	}
}

func TestNormalizeEmoji(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "👍", want: "👍"},
		{input: "<:blob:123456789>", want: "blob:123456789"},
		{input: "<a:party:987654321>", want: "party:987654321"},
		{input: "  🔥  ", want: "🔥"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeEmoji(tt.input); got != tt.want {
				t.Errorf("NormalizeEmoji(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
