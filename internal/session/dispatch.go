package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	msgStarted       = "A new Wordle game starts, reply with your guess."
	msgAlreadyActive = "A game is ongoing, reply with your guess."
	msgNoGame        = "No game is ongoing, input command '%s' to start a new game."
	msgInvalidWord   = "Not in word list."
	msgTooShort      = "Not enough letters."
	msgTooLong       = "Too many letters."
	msgWon           = "Congratulations, you got it!"
	msgLost          = "You failed to find the word, it is '%s'."
	msgGaveUp        = "You gave up, the word was '%s'."
)

// HandleEvent classifies raw and applies it to sessionID, returning the text
// to send back to the chat.
func (m *Manager) HandleEvent(ctx context.Context, sessionID, raw string) string {
	return m.Dispatch(ctx, sessionID, ParseEvent(raw, m.commands))
}

// Dispatch applies ev to sessionID. Every rejection is turned into a reply,
// so the returned text is always suitable for the player.
func (m *Manager) Dispatch(ctx context.Context, sessionID string, ev Event) string {
	switch ev := ev.(type) {
	case Start:
		if err := m.Start(ctx, sessionID); err != nil {
			return m.errorReply(err)
		}
		return msgStarted
	case Guess:
		res, err := m.Guess(ctx, sessionID, ev.Word)
		if err != nil {
			return m.errorReply(err)
		}
		return FormatResult(res)
	case GiveUp:
		solution, err := m.GiveUp(ctx, sessionID)
		if err != nil {
			return m.errorReply(err)
		}
		return fmt.Sprintf(msgGaveUp, strings.ToUpper(solution))
	default:
		// Event is sealed, so only a nil Event lands here.
		return ""
	}
}

// FormatResult renders a scored guess as "attempt/max: glyphs", followed by
// a closing line when the game ended.
func FormatResult(res Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d/%d: %s", res.Attempts, res.MaxTrials, res.Row)
	switch res.Outcome {
	case Won:
		b.WriteString("\n" + msgWon)
	case Lost:
		b.WriteString("\n" + fmt.Sprintf(msgLost, strings.ToUpper(res.Solution)))
	}
	return b.String()
}

func (m *Manager) errorReply(err error) string {
	var lengthErr *LengthError
	switch {
	case errors.Is(err, ErrGameAlreadyActive):
		return msgAlreadyActive
	case errors.Is(err, ErrNoActiveGame):
		return fmt.Sprintf(msgNoGame, m.commands.Start)
	case errors.As(err, &lengthErr):
		if lengthErr.TooShort() {
			return msgTooShort
		}
		return msgTooLong
	case errors.Is(err, ErrInvalidWord):
		return msgInvalidWord
	default:
		return err.Error()
	}
}
