package repositories

import (
	"context"
	"testing"

	"github.com/chatterous/chatterous/chatterous/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactionRoleRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewReactionRoleRepository(setupDB(t))

	require.NoError(t, repo.Create(ctx, &models.ReactionRole{
		GuildID:   "1",
		ChannelID: "2",
		MessageID: "3",
		Emoji:     "👍",
		RoleID:    "4",
	}))

	binding, err := repo.Find(ctx, "1", "3", "👍")
	require.NoError(t, err)
	assert.Equal(t, "4", binding.RoleID)

	_, err = repo.Find(ctx, "1", "3", "🔥")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReactionRoleRepository_DuplicateBindingRejected(t *testing.T) {
	ctx := context.Background()
	repo := NewReactionRoleRepository(setupDB(t))

	binding := &models.ReactionRole{
		GuildID:   "1",
		ChannelID: "2",
		MessageID: "3",
		Emoji:     "👍",
		RoleID:    "4",
	}
	require.NoError(t, repo.Create(ctx, binding))

	err := repo.Create(ctx, &models.ReactionRole{
		GuildID:   "1",
		ChannelID: "2",
		MessageID: "3",
		Emoji:     "👍",
		RoleID:    "999",
	})
	assert.ErrorIs(t, err, ErrDuplicateBinding)

	// The original binding is untouched.
	found, err := repo.Find(ctx, "1", "3", "👍")
	require.NoError(t, err)
	assert.Equal(t, "4", found.RoleID)

	// The same emoji on a different message is a separate binding.
	require.NoError(t, repo.Create(ctx, &models.ReactionRole{
		GuildID:   "1",
		ChannelID: "2",
		MessageID: "30",
		Emoji:     "👍",
		RoleID:    "5",
	}))
}
