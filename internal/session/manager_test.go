package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordlebot/internal/wordle"
)

var testWords = []string{"apple", "table", "peach", "banjo", "alley", "hello", "world", "crane"}

func fixedPicker(word string) Option {
	return WithPicker(func([]string) string { return word })
}

func newTestManager(t *testing.T, solution string, opts ...Option) *Manager {
	t.Helper()
	m, err := New(Config{Words: testWords}, append([]Option{fixedPicker(solution)}, opts...)...)
	require.NoError(t, err)
	return m
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"empty list", Config{}},
		{"mixed lengths", Config{Words: []string{"apple", "pear"}}},
		{"accepted length differs", Config{Words: []string{"apple"}, Accepted: []string{"apples"}}},
		{"blank entry", Config{Words: []string{"", ""}}},
		{"negative trials", Config{Words: []string{"apple"}, MaxTrials: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Nil(t, m)
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	m, err := New(Config{Words: []string{" APPLE ", "table"}})
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxTrials, m.MaxTrials())
	assert.Equal(t, 5, m.WordLength())
	assert.Equal(t, DefaultCommands(), m.Commands())

	require.NoError(t, m.Start(context.Background(), "s"))
	_, st := m.Lookup("s")
	assert.Contains(t, []string{"apple", "table"}, st.Solution)
}

func TestScenarioA_LossAfterMaxTrials(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, "apple")

	require.NoError(t, m.Start(ctx, "chat"))
	phase, st := m.Lookup("chat")
	require.Equal(t, Active, phase)
	assert.Equal(t, 0, st.Attempts)

	reply := m.HandleEvent(ctx, "chat", "table")
	assert.True(t, strings.HasPrefix(reply, "1/6: "), reply)
	phase, st = m.Lookup("chat")
	require.Equal(t, Active, phase)
	assert.Equal(t, 1, st.Attempts)

	for i := 2; i <= 5; i++ {
		reply = m.HandleEvent(ctx, "chat", "crane")
		assert.True(t, strings.HasPrefix(reply, fmt.Sprintf("%d/6: ", i)), reply)
	}
	phase, _ = m.Lookup("chat")
	require.Equal(t, Active, phase)

	reply = m.HandleEvent(ctx, "chat", "hello")
	assert.True(t, strings.HasPrefix(reply, "6/6: "), reply)
	assert.Contains(t, reply, "You failed to find the word, it is 'APPLE'.")

	phase, _ = m.Lookup("chat")
	assert.Equal(t, NoGame, phase)
	assert.Equal(t, 0, m.Active())
}

func TestScenarioB_StartTwice(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, "apple")

	assert.Equal(t, msgStarted, m.HandleEvent(ctx, "chat", "/wordle"))
	assert.Equal(t, msgAlreadyActive, m.HandleEvent(ctx, "chat", "/wordle"))
	assert.ErrorIs(t, m.Start(ctx, "chat"), ErrGameAlreadyActive)

	phase, st := m.Lookup("chat")
	require.Equal(t, Active, phase)
	assert.Equal(t, 0, st.Attempts)
	assert.Equal(t, "apple", st.Solution)
}

func TestStartTwice_KeepsProgress(t *testing.T) {
	ctx := context.Background()
	picks := []string{"apple", "table"}
	m, err := New(Config{Words: testWords}, WithPicker(func([]string) string {
		w := picks[0]
		picks = picks[1:]
		return w
	}))
	require.NoError(t, err)

	require.NoError(t, m.Start(ctx, "chat"))
	_, err = m.Guess(ctx, "chat", "crane")
	require.NoError(t, err)
	require.ErrorIs(t, m.Start(ctx, "chat"), ErrGameAlreadyActive)

	_, st := m.Lookup("chat")
	assert.Equal(t, 1, st.Attempts)
	assert.Equal(t, "apple", st.Solution)
}

func TestScenarioC_GuessWithoutGame(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, "apple")

	reply := m.HandleEvent(ctx, "chat", "apple")
	assert.Equal(t, "No game is ongoing, input command '/wordle' to start a new game.", reply)

	_, err := m.Guess(ctx, "chat", "apple")
	assert.ErrorIs(t, err, ErrNoActiveGame)

	phase, _ := m.Lookup("chat")
	assert.Equal(t, NoGame, phase)
	assert.Equal(t, 0, m.Active())
	assert.Equal(t, 0, m.store.slotCount())
}

func TestGuess_Win(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, "apple")
	require.NoError(t, m.Start(ctx, "chat"))

	res, err := m.Guess(ctx, "chat", "table")
	require.NoError(t, err)
	assert.Equal(t, Ongoing, res.Outcome)
	assert.Empty(t, res.Solution)

	res, err = m.Guess(ctx, "chat", "  APPLE ")
	require.NoError(t, err)
	assert.Equal(t, Won, res.Outcome)
	assert.Equal(t, 2, res.Attempts)
	assert.True(t, res.Row.Solved())
	assert.Equal(t, "2/6: 🟩🟩🟩🟩🟩\nCongratulations, you got it!", FormatResult(res))

	phase, _ := m.Lookup("chat")
	assert.Equal(t, NoGame, phase)
}

func TestGuess_RegressionRow(t *testing.T) {
	ctx := context.Background()
	m, err := New(Config{Words: []string{"apple"}, Accepted: []string{"epppl"}}, fixedPicker("apple"))
	require.NoError(t, err)
	require.NoError(t, m.Start(ctx, "chat"))

	res, err := m.Guess(ctx, "chat", "epppl")
	require.NoError(t, err)
	assert.Equal(t, wordle.Row{wordle.Present, wordle.Correct, wordle.Correct, wordle.Absent, wordle.Present}, res.Row)
	assert.Equal(t, "1/6: 🟨🟩🟩⬛🟨", FormatResult(res))
}

func TestGuess_RejectionsKeepState(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, "apple")
	require.NoError(t, m.Start(ctx, "chat"))
	_, err := m.Guess(ctx, "chat", "table")
	require.NoError(t, err)

	tests := []struct {
		guess string
		reply string
		err   error
	}{
		{"zzzzz", msgInvalidWord, ErrInvalidWord},
		{"app", msgTooShort, ErrWrongLength},
		{"apples", msgTooLong, ErrWrongLength},
		{"", msgTooShort, ErrWrongLength},
	}
	for _, tt := range tests {
		t.Run(tt.guess, func(t *testing.T) {
			_, err := m.Guess(ctx, "chat", tt.guess)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.reply, m.Dispatch(ctx, "chat", Guess{Word: tt.guess}))

			phase, st := m.Lookup("chat")
			require.Equal(t, Active, phase)
			assert.Equal(t, 1, st.Attempts)
			assert.Equal(t, "apple", st.Solution)
		})
	}
}

func TestGuess_LengthCheckedBeforeVocabulary(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, "apple")
	require.NoError(t, m.Start(ctx, "chat"))

	_, err := m.Guess(ctx, "chat", "qq")
	var lengthErr *LengthError
	require.True(t, errors.As(err, &lengthErr))
	assert.Equal(t, 2, lengthErr.Got)
	assert.Equal(t, 5, lengthErr.Want)
	assert.True(t, lengthErr.TooShort())
}

func TestGuess_AcceptedWordsAreNeverSolutions(t *testing.T) {
	ctx := context.Background()
	var pool []string
	m, err := New(Config{Words: []string{"apple"}, Accepted: []string{"zesty"}}, WithPicker(func(words []string) string {
		pool = words
		return words[0]
	}))
	require.NoError(t, err)
	require.NoError(t, m.Start(ctx, "chat"))
	assert.Equal(t, []string{"apple"}, pool)

	res, err := m.Guess(ctx, "chat", "zesty")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Attempts)
}

func TestGiveUp(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, "apple")

	assert.Equal(t, "No game is ongoing, input command '/wordle' to start a new game.", m.HandleEvent(ctx, "chat", "/giveup"))

	m.HandleEvent(ctx, "chat", "/wordle")
	assert.Equal(t, "You gave up, the word was 'APPLE'.", m.HandleEvent(ctx, "chat", "/giveup@wordle_bot"))
	phase, _ := m.Lookup("chat")
	assert.Equal(t, NoGame, phase)
}

func TestSessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, "apple")

	m.HandleEvent(ctx, "a", "/wordle")
	m.HandleEvent(ctx, "a", "table")
	m.HandleEvent(ctx, "b", "/wordle")

	_, a := m.Lookup("a")
	_, b := m.Lookup("b")
	assert.Equal(t, 1, a.Attempts)
	assert.Equal(t, 0, b.Attempts)
	assert.Equal(t, 2, m.Active())
}

func TestCustomMaxTrialsAndCommands(t *testing.T) {
	ctx := context.Background()
	m, err := New(Config{
		Words:     testWords,
		MaxTrials: 2,
		Commands:  Commands{Start: "/play"},
	}, fixedPicker("apple"))
	require.NoError(t, err)

	assert.Equal(t, "No game is ongoing, input command '/play' to start a new game.", m.HandleEvent(ctx, "c", "table"))
	assert.Equal(t, msgStarted, m.HandleEvent(ctx, "c", "/play"))
	assert.Equal(t, "1/2: ⬛🟨⬛🟩🟩", m.HandleEvent(ctx, "c", "table"))
	assert.Contains(t, m.HandleEvent(ctx, "c", "crane"), "2/2: ")
	phase, _ := m.Lookup("c")
	assert.Equal(t, NoGame, phase)
}

func TestConcurrentGuessesSameSession(t *testing.T) {
	ctx := context.Background()
	const n = 50
	m, err := New(Config{Words: testWords, MaxTrials: n + 1}, fixedPicker("apple"))
	require.NoError(t, err)
	require.NoError(t, m.Start(ctx, "chat"))

	attempts := make(chan int, n)
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := m.Guess(ctx, "chat", "crane")
			if assert.NoError(t, err) {
				attempts <- res.Attempts
			}
		}()
	}
	wg.Wait()
	close(attempts)

	seen := make(map[int]bool, n)
	for a := range attempts {
		assert.False(t, seen[a], "attempt %d reported twice", a)
		seen[a] = true
	}
	assert.Len(t, seen, n)
	_, st := m.Lookup("chat")
	assert.Equal(t, n, st.Attempts)
}

func TestConcurrentStartsSameSession(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, "apple")

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		started int
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.Start(ctx, "chat") == nil {
				mu.Lock()
				started++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, started)
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager(t, "apple", WithClock(func() time.Time { return now }))

	require.NoError(t, m.Start(ctx, "old"))
	now = now.Add(2 * time.Hour)
	require.NoError(t, m.Start(ctx, "new"))

	assert.Equal(t, 0, m.Sweep(0))
	assert.Equal(t, 1, m.Sweep(time.Hour))

	phase, _ := m.Lookup("old")
	assert.Equal(t, NoGame, phase)
	phase, _ = m.Lookup("new")
	assert.Equal(t, Active, phase)
}

func TestRunJanitor_StopsOnCancel(t *testing.T) {
	m := newTestManager(t, "apple")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.RunJanitor(ctx, time.Millisecond, time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestDispatch_NilEvent(t *testing.T) {
	m := newTestManager(t, "apple")
	assert.Empty(t, m.Dispatch(context.Background(), "chat", nil))
}
