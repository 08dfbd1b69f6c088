package dispatch

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chatterous/chatterous/chatterous/database/models"
	"github.com/chatterous/chatterous/chatterous/database/repositories"
	"github.com/chatterous/chatterous/chatterous/session"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testGuildID   = snowflake.ID(10)
	testChannelID = snowflake.ID(20)
	testMessageID = snowflake.ID(30)
	testAuthorID  = snowflake.ID(40)
	testRoleID    = snowflake.ID(50)
)

type sentMessage struct {
	channelID snowflake.ID
	content   string
}

type fakeSender struct {
	mu          sync.Mutex
	messages    []sentMessage
	reactions   []string
	rolesAdded  []snowflake.ID
	rolesTaken  []snowflake.ID
	reactionErr error
}

func (f *fakeSender) SendMessage(_ context.Context, channelID snowflake.ID, message discord.MessageCreate) (*discord.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, sentMessage{channelID: channelID, content: message.Content})
	return &discord.Message{ID: snowflake.ID(len(f.messages)), ChannelID: channelID}, nil
}

func (f *fakeSender) AddReaction(_ context.Context, _, _ snowflake.ID, emoji string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reactionErr != nil {
		return f.reactionErr
	}
	f.reactions = append(f.reactions, emoji)
	return nil
}

func (f *fakeSender) AddRole(_ context.Context, _, _, roleID snowflake.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rolesAdded = append(f.rolesAdded, roleID)
	return nil
}

func (f *fakeSender) RemoveRole(_ context.Context, _, _, roleID snowflake.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rolesTaken = append(f.rolesTaken, roleID)
	return nil
}

func (f *fakeSender) sentContents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.messages))
	for i, m := range f.messages {
		out[i] = m.content
	}
	return out
}

type fakeUserRepo struct {
	xpCalls   int
	newLevel  int64
	leveledUp bool
}

func (f *fakeUserRepo) EnsureUser(context.Context, string) error { return nil }
func (f *fakeUserRepo) GetByDiscordID(context.Context, string) (*models.User, error) {
	return nil, repositories.ErrNotFound
}
func (f *fakeUserRepo) AddXP(context.Context, string, int64) (int64, bool, error) {
	f.xpCalls++
	return f.newLevel, f.leveledUp, nil
}
func (f *fakeUserRepo) AddCoins(context.Context, string, int64) (int64, error) { return 0, nil }
func (f *fakeUserRepo) Transfer(context.Context, string, string, int64) error  { return nil }
func (f *fakeUserRepo) ClaimDaily(context.Context, string, int64, time.Time) error {
	return nil
}

type fakeGuildConfigRepo struct {
	configs map[string]*models.GuildConfig
}

func (f *fakeGuildConfigRepo) Upsert(_ context.Context, cfg *models.GuildConfig) error {
	f.configs[cfg.GuildID] = cfg
	return nil
}

func (f *fakeGuildConfigRepo) Get(_ context.Context, guildID string) (*models.GuildConfig, error) {
	cfg, ok := f.configs[guildID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cfg, nil
}

type fakeReactionRoleRepo struct {
	bindings  map[string]*models.ReactionRole
	findCalls int
}

func bindingKey(guildID, messageID, emoji string) string {
	return guildID + "|" + messageID + "|" + emoji
}

func (f *fakeReactionRoleRepo) Create(_ context.Context, b *models.ReactionRole) error {
	f.bindings[bindingKey(b.GuildID, b.MessageID, b.Emoji)] = b
	return nil
}

func (f *fakeReactionRoleRepo) Find(_ context.Context, guildID, messageID, emoji string) (*models.ReactionRole, error) {
	f.findCalls++
	b, ok := f.bindings[bindingKey(guildID, messageID, emoji)]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return b, nil
}

type testEnv struct {
	dispatcher *Dispatcher
	sender     *fakeSender
	users      *fakeUserRepo
	guilds     *fakeGuildConfigRepo
	bindings   *fakeReactionRoleRepo
	registry   *session.Registry
	router     *Router
}

func newTestEnv(t *testing.T, cfg Config) *testEnv {
	t.Helper()

	env := &testEnv{
		sender:   &fakeSender{},
		users:    &fakeUserRepo{},
		guilds:   &fakeGuildConfigRepo{configs: make(map[string]*models.GuildConfig)},
		bindings: &fakeReactionRoleRepo{bindings: make(map[string]*models.ReactionRole)},
		registry: session.NewRegistry(nil),
		router:   NewRouter(),
	}
	env.dispatcher = New(cfg, env.users, env.guilds, env.bindings, env.registry, env.sender, env.router)
	// Deterministic randomness for tests.
	env.dispatcher.xpDelta = func() int64 { return 1 }
	env.dispatcher.chanceRoll = func() int { return 100 }
	return env
}

func testMessage(content string) Message {
	guildID := testGuildID
	return Message{
		ID:         testMessageID,
		ChannelID:  testChannelID,
		GuildID:    &guildID,
		AuthorID:   testAuthorID,
		AuthorName: "tester",
		Content:    content,
	}
}

func TestHandleMessage_IgnoresBots(t *testing.T) {
	env := newTestEnv(t, Config{Prefix: "!"})

	msg := testMessage("hello")
	msg.AuthorIsBot = true
	env.dispatcher.HandleMessage(context.Background(), msg)

	assert.Zero(t, env.users.xpCalls)
	assert.Empty(t, env.sender.sentContents())
}

func TestHandleMessage_AwardsXPAndAnnouncesLevelUp(t *testing.T) {
	env := newTestEnv(t, Config{Prefix: "!"})
	env.users.newLevel = 2
	env.users.leveledUp = true

	env.dispatcher.HandleMessage(context.Background(), testMessage("hello"))

	assert.Equal(t, 1, env.users.xpCalls)
	contents := env.sender.sentContents()
	require.Len(t, contents, 1)
	assert.Contains(t, contents[0], "leveled up to **2**")
}

func TestHandleMessage_NoAnnouncementWithoutLevelUp(t *testing.T) {
	env := newTestEnv(t, Config{Prefix: "!"})

	env.dispatcher.HandleMessage(context.Background(), testMessage("hello"))

	assert.Equal(t, 1, env.users.xpCalls)
	assert.Empty(t, env.sender.sentContents())
}

func TestHandleMessage_TriviaSuppressesAutoActionsButNotCommands(t *testing.T) {
	env := newTestEnv(t, Config{
		Prefix: "!",
		AutoReact: AutoReactConfig{
			Channels: []snowflake.ID{testChannelID},
			Emojis:   []string{"👍"},
			Cooldown: time.Minute,
		},
	})

	commandRan := false
	env.router.Register("roll", func(context.Context, Message, []string) error {
		commandRan = true
		return nil
	})

	// The answer happens to look like a prefix command.
	env.registry.StartTrivia(testChannelID, "!roll", snowflake.ID(99))
	env.dispatcher.HandleMessage(context.Background(), testMessage("!roll"))

	contents := env.sender.sentContents()
	require.Len(t, contents, 1)
	assert.Contains(t, contents[0], "Correct! +1 point")
	assert.Empty(t, env.sender.reactions, "trivia match must suppress auto-react")
	assert.True(t, commandRan, "prefix commands still run after a trivia match")
}

func TestHandleMessage_AutoReact(t *testing.T) {
	env := newTestEnv(t, Config{
		Prefix: "!",
		AutoReact: AutoReactConfig{
			Channels: []snowflake.ID{testChannelID},
			Emojis:   []string{"👍"},
			Keywords: []string{"golang"},
			Cooldown: time.Minute,
		},
	})

	ctx := context.Background()

	// Keyword missing: nothing happens.
	env.dispatcher.HandleMessage(ctx, testMessage("plain message"))
	assert.Empty(t, env.sender.reactions)

	// Keyword present: reacts once.
	env.dispatcher.HandleMessage(ctx, testMessage("i love golang"))
	assert.Equal(t, []string{"👍"}, env.sender.reactions)

	// Within the cooldown window: suppressed.
	env.dispatcher.HandleMessage(ctx, testMessage("golang again"))
	assert.Equal(t, []string{"👍"}, env.sender.reactions)
}

func TestHandleMessage_AutoReactOtherChannelIgnored(t *testing.T) {
	env := newTestEnv(t, Config{
		Prefix: "!",
		AutoReact: AutoReactConfig{
			Channels: []snowflake.ID{snowflake.ID(999)},
			Emojis:   []string{"👍"},
			Cooldown: time.Minute,
		},
	})

	env.dispatcher.HandleMessage(context.Background(), testMessage("hello"))
	assert.Empty(t, env.sender.reactions)
}

func TestHandleMessage_AutoReply(t *testing.T) {
	cfg := Config{
		Prefix: "!",
		AutoReply: AutoReplyConfig{
			Channels:      []snowflake.ID{testChannelID},
			Cooldown:      time.Minute,
			ChancePercent: 15,
			Replies:       []string{"Lol true! 😂"},
		},
	}
	env := newTestEnv(t, cfg)

	ctx := context.Background()

	// Roll above the chance: no reply, and the cooldown is not consumed.
	env.dispatcher.chanceRoll = func() int { return 16 }
	env.dispatcher.HandleMessage(ctx, testMessage("hello"))
	assert.Empty(t, env.sender.sentContents())

	// Roll inside the chance: reply fires.
	env.dispatcher.chanceRoll = func() int { return 15 }
	env.dispatcher.HandleMessage(ctx, testMessage("hello again"))
	contents := env.sender.sentContents()
	require.Len(t, contents, 1)
	assert.True(t, strings.HasPrefix(contents[0], "<@40>"), "reply mentions the author: %q", contents[0])

	// Now inside the cooldown window: suppressed even on a winning roll.
	env.dispatcher.HandleMessage(ctx, testMessage("hello once more"))
	assert.Len(t, env.sender.sentContents(), 1)
}

func TestHandleMessage_PrefixCommandDispatch(t *testing.T) {
	env := newTestEnv(t, Config{Prefix: "!"})

	var gotArgs []string
	env.router.Register("give", func(_ context.Context, _ Message, args []string) error {
		gotArgs = args
		return nil
	})

	env.dispatcher.HandleMessage(context.Background(), testMessage("!give <@123> 50"))
	assert.Equal(t, []string{"<@123>", "50"}, gotArgs)
}

func TestHandleMessage_UnknownCommandSuggestion(t *testing.T) {
	env := newTestEnv(t, Config{Prefix: "!"})
	env.router.Register("balance", func(context.Context, Message, []string) error { return nil })

	env.dispatcher.HandleMessage(context.Background(), testMessage("!balanec"))

	contents := env.sender.sentContents()
	require.Len(t, contents, 1)
	assert.Contains(t, contents[0], "did you mean `!balance`")
}

func TestHandleMemberJoin_WelcomeTemplate(t *testing.T) {
	env := newTestEnv(t, Config{Prefix: "!"})
	env.guilds.configs[testGuildID.String()] = &models.GuildConfig{
		GuildID:        testGuildID.String(),
		WelcomeChannel: testChannelID.String(),
		WelcomeMessage: "Welcome {user} to {guild}!",
	}

	env.dispatcher.HandleMemberJoin(context.Background(), MemberJoin{
		GuildID:   testGuildID,
		GuildName: "Testville",
		UserID:    testAuthorID,
		Username:  "tester",
	})

	contents := env.sender.sentContents()
	require.Len(t, contents, 1)
	assert.Equal(t, "Welcome <@40> to Testville!", contents[0])
}

func TestHandleMemberJoin_NoConfigNoMessage(t *testing.T) {
	env := newTestEnv(t, Config{Prefix: "!"})

	env.dispatcher.HandleMemberJoin(context.Background(), MemberJoin{
		GuildID:  testGuildID,
		UserID:   testAuthorID,
		Username: "tester",
	})

	assert.Empty(t, env.sender.sentContents())
}

func TestHandleReaction_RoleGrantAndRemoval(t *testing.T) {
	env := newTestEnv(t, Config{Prefix: "!"})
	env.bindings.bindings[bindingKey(testGuildID.String(), testMessageID.String(), "👍")] = &models.ReactionRole{
		GuildID:   testGuildID.String(),
		MessageID: testMessageID.String(),
		Emoji:     "👍",
		RoleID:    testRoleID.String(),
	}

	reaction := Reaction{
		GuildID:   testGuildID,
		ChannelID: testChannelID,
		MessageID: testMessageID,
		UserID:    testAuthorID,
		Emoji:     "👍",
	}

	ctx := context.Background()
	env.dispatcher.HandleReactionAdd(ctx, reaction)
	assert.Equal(t, []snowflake.ID{testRoleID}, env.sender.rolesAdded)

	env.dispatcher.HandleReactionRemove(ctx, reaction)
	assert.Equal(t, []snowflake.ID{testRoleID}, env.sender.rolesTaken)

	// The second resolution came from the cache.
	assert.Equal(t, 1, env.bindings.findCalls)
}

func TestHandleReaction_UnboundEmojiIgnored(t *testing.T) {
	env := newTestEnv(t, Config{Prefix: "!"})

	env.dispatcher.HandleReactionAdd(context.Background(), Reaction{
		GuildID:   testGuildID,
		MessageID: testMessageID,
		UserID:    testAuthorID,
		Emoji:     "🔥",
	})

	assert.Empty(t, env.sender.rolesAdded)
	// Negative results are not cached; the next event hits the store again.
	env.dispatcher.HandleReactionAdd(context.Background(), Reaction{
		GuildID:   testGuildID,
		MessageID: testMessageID,
		UserID:    testAuthorID,
		Emoji:     "🔥",
	})
	assert.Equal(t, 2, env.bindings.findCalls)
}
