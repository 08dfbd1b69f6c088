// Package commands holds every named bot operation. Each command ships in
// two forms that converge on the same core logic: a slash handler registered
// on the handler mux, and a prefix handler registered on the dispatch router.
package commands

import (
	"github.com/chatterous/chatterous/chatterous"
	"github.com/chatterous/chatterous/chatterous/dispatch"
	"github.com/disgoorg/disgo/discord"
)

var Commands = []discord.ApplicationCommandCreate{
	Ask,
	Trivia,
	RPS,
	Poll,
	Balance,
	Give,
	Daily,
	RemindMe,
	Kick,
	Ban,
	Warn,
	Infractions,
	SetWelcome,
	CreateReactionRole,
	Help,
}

// RegisterPrefix wires the prefix-command surface onto the dispatch router.
// Owner-only admin commands exist only here; everything else mirrors a slash
// command.
func RegisterPrefix(b *chatterous.Bot, r *dispatch.Router) {
	r.Register("ask", AskPrefix(b))
	r.Register("img", ImgPrefix(b))
	r.Register("trivia", TriviaPrefix(b))
	r.Register("rps", RPSPrefix(b))
	r.Register("poll", PollPrefix(b))
	r.Register("balance", BalancePrefix(b))
	r.Register("give", GivePrefix(b))
	r.Register("daily", DailyPrefix(b))
	r.Register("remindme", RemindMePrefix(b))
	r.Register("kick", ModerationPrefix(b, "kick"))
	r.Register("ban", ModerationPrefix(b, "ban"))
	r.Register("warn", ModerationPrefix(b, "warn"))
	r.Register("infractions", InfractionsPrefix(b))
	r.Register("setwelcome", SetWelcomePrefix(b))
	r.Register("createreactionrole", CreateReactionRolePrefix(b))
	r.Register("shutdown", ShutdownPrefix(b))
	r.Register("restart", RestartPrefix(b))
	r.Register("help", HelpPrefix(b))
}
