// Package session runs Wordle games for many independent chat sessions.
//
// A Manager owns a Store of per-session state and moves each session between
// NoGame and Active as Start, Guess and GiveUp events arrive. Guesses are
// scored with the wordle package.
package session

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/samber/oops"

	"wordlebot/internal/wordle"
)

// DefaultMaxTrials is the number of guesses allowed when Config.MaxTrials is 0.
const DefaultMaxTrials = 6

// Config describes the games a Manager hands out.
type Config struct {
	Words     []string // solution pool, all the same length
	Accepted  []string // extra words accepted as guesses but never chosen
	MaxTrials int
	Commands  Commands
}

// Option customises a Manager.
type Option func(*Manager)

// WithPicker replaces the solution picker. It is called with the full
// solution pool and must return one of its entries.
func WithPicker(pick func(words []string) string) Option {
	return func(m *Manager) { m.pick = pick }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithStore makes the Manager use s instead of a fresh Store.
func WithStore(s *Store) Option {
	return func(m *Manager) { m.store = s }
}

// Outcome is how a scored guess left the game.
type Outcome int

const (
	Ongoing Outcome = iota
	Won
	Lost
)

// Result describes one accepted guess.
type Result struct {
	Row       wordle.Row
	Attempts  int
	MaxTrials int
	Outcome   Outcome
	Solution  string // set only once the game has ended
}

// Manager is safe for concurrent use.
type Manager struct {
	store     *Store
	words     []string
	vocab     map[string]struct{}
	length    int
	maxTrials int
	commands  Commands
	pick      func([]string) string
	now       func() time.Time
}

// New validates cfg and builds a Manager. It fails when the word list is
// empty or its entries do not all have the same length.
func New(cfg Config, opts ...Option) (*Manager, error) {
	errb := oops.In("session")

	if len(cfg.Words) == 0 {
		return nil, errb.Wrapf(ErrInvalidConfig, "word list is empty")
	}
	if cfg.MaxTrials < 0 {
		return nil, errb.With("max_trials", cfg.MaxTrials).Wrapf(ErrInvalidConfig, "max trials must be positive")
	}

	normalize := func(w string, _ int) string { return strings.ToLower(strings.TrimSpace(w)) }
	words := lo.Map(cfg.Words, normalize)
	accepted := lo.Map(cfg.Accepted, normalize)

	vocab := append(append([]string{}, words...), accepted...)
	length := utf8.RuneCountInString(words[0])
	for _, w := range vocab {
		n := utf8.RuneCountInString(w)
		if n == 0 {
			return nil, errb.Wrapf(ErrInvalidConfig, "word list contains an empty entry")
		}
		if n != length {
			return nil, errb.With("word", w).
				Wrapf(ErrInvalidConfig, "word %q has %d letters, want %d", w, n, length)
		}
	}

	m := &Manager{
		words:     words,
		length:    length,
		maxTrials: cfg.MaxTrials,
		commands:  cfg.Commands,
		pick:      lo.Sample[string],
		now:       time.Now,
	}
	if m.maxTrials == 0 {
		m.maxTrials = DefaultMaxTrials
	}
	if m.commands == (Commands{}) {
		m.commands = DefaultCommands()
	}
	m.vocab = lo.Associate(vocab, func(w string) (string, struct{}) {
		return w, struct{}{}
	})
	for _, opt := range opts {
		opt(m)
	}
	if m.store == nil {
		m.store = NewStore()
	}
	return m, nil
}

// WordLength is the number of letters in every solution.
func (m *Manager) WordLength() int { return m.length }

// MaxTrials is the number of guesses per game.
func (m *Manager) MaxTrials() int { return m.maxTrials }

// Commands returns the command tokens used by HandleEvent.
func (m *Manager) Commands() Commands { return m.commands }

// Active returns the number of games in progress.
func (m *Manager) Active() int { return m.store.Len() }

// Lookup reports the phase of a session and, when Active, its state.
func (m *Manager) Lookup(sessionID string) (Phase, State) {
	st, ok := m.store.Get(sessionID)
	if !ok {
		return NoGame, State{}
	}
	return Active, st
}

// Start begins a game for sessionID. It returns ErrGameAlreadyActive and
// leaves the running game untouched if one exists.
func (m *Manager) Start(ctx context.Context, sessionID string) error {
	var err error
	m.store.Update(sessionID, func(cur State, ok bool) (State, bool) {
		if ok {
			err = ErrGameAlreadyActive
			return cur, true
		}
		now := m.now()
		return State{Solution: m.pick(m.words), StartedAt: now, LastActive: now}, true
	})

	logger := zerolog.Ctx(ctx).With().Str("session_id", sessionID).Logger()
	if err != nil {
		logger.Debug().Msg("start ignored, game already in progress")
		return err
	}
	logger.Info().Msg("game started")
	return nil
}

// Guess scores word for sessionID. Rejected guesses do not use up an
// attempt. The game is removed when the guess wins or uses the last attempt.
func (m *Manager) Guess(ctx context.Context, sessionID, word string) (Result, error) {
	word = strings.ToLower(strings.TrimSpace(word))

	var (
		res Result
		err error
	)
	m.store.Update(sessionID, func(cur State, ok bool) (State, bool) {
		if !ok {
			err = ErrNoActiveGame
			return cur, false
		}
		if err = m.validate(word, cur.Solution); err != nil {
			return cur, true
		}

		cur.Attempts++
		cur.LastActive = m.now()
		res = Result{
			Row:       wordle.Evaluate(word, cur.Solution),
			Attempts:  cur.Attempts,
			MaxTrials: m.maxTrials,
		}
		switch {
		case res.Row.Solved():
			res.Outcome, res.Solution = Won, cur.Solution
			return cur, false
		case cur.Attempts >= m.maxTrials:
			res.Outcome, res.Solution = Lost, cur.Solution
			return cur, false
		}
		return cur, true
	})

	logger := zerolog.Ctx(ctx).With().Str("session_id", sessionID).Logger()
	if err != nil {
		logger.Debug().Err(err).Str("guess", word).Msg("guess rejected")
		return Result{}, err
	}
	event := logger.Info().Int("attempt", res.Attempts).Int("max_trials", res.MaxTrials)
	switch res.Outcome {
	case Won:
		event.Msg("game won")
	case Lost:
		event.Str("solution", res.Solution).Msg("game lost")
	default:
		event.Msg("guess scored")
	}
	return res, nil
}

// GiveUp ends the game for sessionID and returns its solution.
func (m *Manager) GiveUp(ctx context.Context, sessionID string) (string, error) {
	var (
		solution string
		found    bool
	)
	m.store.Update(sessionID, func(cur State, ok bool) (State, bool) {
		solution, found = cur.Solution, ok
		return cur, false
	})
	if !found {
		return "", ErrNoActiveGame
	}
	zerolog.Ctx(ctx).Info().Str("session_id", sessionID).Msg("game abandoned")
	return solution, nil
}

// Sweep removes games idle for longer than maxIdle. It does nothing when
// maxIdle is not positive.
func (m *Manager) Sweep(maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}
	return m.store.Sweep(m.now().Add(-maxIdle))
}

// RunJanitor calls Sweep every interval until ctx is done.
func (m *Manager) RunJanitor(ctx context.Context, every, maxIdle time.Duration) {
	if every <= 0 || maxIdle <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(maxIdle); n > 0 {
				zerolog.Ctx(ctx).Info().Int("removed", n).Dur("max_idle", maxIdle).Msg("expired idle games")
			}
		}
	}
}

func (m *Manager) validate(word, solution string) error {
	if n, want := utf8.RuneCountInString(word), utf8.RuneCountInString(solution); n != want {
		return &LengthError{Got: n, Want: want}
	}
	if _, ok := m.vocab[word]; !ok {
		return ErrInvalidWord
	}
	return nil
}
