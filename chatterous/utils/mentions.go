package utils

import (
	"strings"

	"github.com/disgoorg/snowflake/v2"
)

func parseMention(s, prefix string) (snowflake.ID, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "<"+prefix) || !strings.HasSuffix(s, ">") {
		return 0, false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "<"+prefix), ">")
	inner = strings.TrimPrefix(inner, "!")
	id, err := snowflake.Parse(inner)
	if err != nil {
		return 0, false
	}
	return id, true
}

// ParseUserMention extracts the user ID from <@id> or <@!id>. A bare
// snowflake is accepted too, so prefix commands work with raw IDs.
func ParseUserMention(s string) (snowflake.ID, bool) {
	if id, ok := parseMention(s, "@"); ok {
		return id, true
	}
	if id, err := snowflake.Parse(strings.TrimSpace(s)); err == nil {
		return id, true
	}
	return 0, false
}

// ParseRoleMention extracts the role ID from <@&id> or a bare snowflake.
func ParseRoleMention(s string) (snowflake.ID, bool) {
	if id, ok := parseMention(s, "@&"); ok {
		return id, true
	}
	if id, err := snowflake.Parse(strings.TrimSpace(s)); err == nil {
		return id, true
	}
	return 0, false
}

// ParseChannelMention extracts the channel ID from <#id> or a bare snowflake.
func ParseChannelMention(s string) (snowflake.ID, bool) {
	if id, ok := parseMention(s, "#"); ok {
		return id, true
	}
	if id, err := snowflake.Parse(strings.TrimSpace(s)); err == nil {
		return id, true
	}
	return 0, false
}
