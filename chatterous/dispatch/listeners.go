package dispatch

import (
	"context"

	"github.com/chatterous/chatterous/chatterous/utils"
	"github.com/disgoorg/disgo/events"
)

// Gateway listener adapters. Each converts the transport event into its
// normalized form and hands it to the dispatcher; the event manager runs
// listeners asynchronously, so a long-running handler (a poll waiting out its
// duration) never stalls other events.

func (d *Dispatcher) OnMessageCreate(event *events.MessageCreate) {
	d.HandleMessage(context.Background(), Message{
		ID:          event.MessageID,
		ChannelID:   event.ChannelID,
		GuildID:     event.GuildID,
		AuthorID:    event.Message.Author.ID,
		AuthorName:  event.Message.Author.Username,
		AuthorIsBot: event.Message.Author.Bot,
		Content:     event.Message.Content,
	})
}

func (d *Dispatcher) OnReactionAdd(event *events.GuildMessageReactionAdd) {
	if event.UserID == event.Client().ID() {
		return
	}
	d.HandleReactionAdd(context.Background(), Reaction{
		GuildID:   event.GuildID,
		ChannelID: event.ChannelID,
		MessageID: event.MessageID,
		UserID:    event.UserID,
		Emoji:     utils.EmojiKey(event.Emoji),
	})
}

func (d *Dispatcher) OnReactionRemove(event *events.GuildMessageReactionRemove) {
	if event.UserID == event.Client().ID() {
		return
	}
	d.HandleReactionRemove(context.Background(), Reaction{
		GuildID:   event.GuildID,
		ChannelID: event.ChannelID,
		MessageID: event.MessageID,
		UserID:    event.UserID,
		Emoji:     utils.EmojiKey(event.Emoji),
	})
}

func (d *Dispatcher) OnMemberJoin(event *events.GuildMemberJoin) {
	guildName := ""
	if guild, ok := event.Client().Caches().Guild(event.GuildID); ok {
		guildName = guild.Name
	}
	d.HandleMemberJoin(context.Background(), MemberJoin{
		GuildID:   event.GuildID,
		GuildName: guildName,
		UserID:    event.Member.User.ID,
		Username:  event.Member.User.Username,
	})
}
