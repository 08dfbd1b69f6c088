package utils

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
)

// EmojiKey returns the canonical textual form of a reaction emoji: the raw
// unicode character, or "name:id" for custom emojis. This is the exact string
// reaction-role bindings are stored and matched under, and the form the REST
// reaction endpoints accept.
func EmojiKey(emoji discord.PartialEmoji) string {
	name := ""
	if emoji.Name != nil {
		name = *emoji.Name
	}
	if emoji.ID != nil {
		return fmt.Sprintf("%s:%s", name, emoji.ID.String())
	}
	return name
}

// ReactionEmojiKey is EmojiKey for the full emoji shape message reactions
// carry. Both produce the same canonical form, so reaction counts and stored
// bindings match under one key.
func ReactionEmojiKey(emoji discord.Emoji) string {
	if emoji.ID != 0 {
		return fmt.Sprintf("%s:%s", emoji.Name, emoji.ID.String())
	}
	return emoji.Name
}

// NormalizeEmoji converts user-typed emoji input to its canonical form,
// unwrapping the <:name:id> and <a:name:id> mention syntax. Unicode emojis
// pass through untouched.
func NormalizeEmoji(input string) string {
	input = strings.TrimSpace(input)
	if strings.HasPrefix(input, "<") && strings.HasSuffix(input, ">") {
		inner := strings.TrimSuffix(strings.TrimPrefix(input, "<"), ">")
		inner = strings.TrimPrefix(inner, "a")
		inner = strings.TrimPrefix(inner, ":")
		return inner
	}
	return input
}
