package session

import "strings"

// Event is an inbound chat message after classification. The concrete types
// are Start, Guess and GiveUp.
type Event interface {
	event()
}

// Start asks for a new game.
type Start struct{}

// Guess submits a word. Word is already trimmed and lower-cased.
type Guess struct {
	Word string
}

// GiveUp abandons the running game and reveals the solution.
type GiveUp struct{}

func (Start) event()  {}
func (Guess) event()  {}
func (GiveUp) event() {}

// Commands are the tokens that turn a message into a command instead of a
// guess. An empty token disables that command.
type Commands struct {
	Start  string
	GiveUp string
}

// DefaultCommands returns the stock command tokens.
func DefaultCommands() Commands {
	return Commands{Start: "/wordle", GiveUp: "/giveup"}
}

// ParseEvent classifies raw message text. Only the leading token is compared
// against commands, and a "@botname" suffix on it is ignored, so
// "/wordle@my_bot please" starts a game.
func ParseEvent(raw string, cmds Commands) Event {
	text := strings.TrimSpace(raw)
	switch {
	case isCommand(text, cmds.Start):
		return Start{}
	case isCommand(text, cmds.GiveUp):
		return GiveUp{}
	}
	return Guess{Word: strings.ToLower(text)}
}

func isCommand(text, cmd string) bool {
	if cmd == "" {
		return false
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	tok, _, _ := strings.Cut(fields[0], "@")
	return strings.EqualFold(tok, cmd)
}
