// Command console plays wordlebot games in a terminal, one message per line.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"wordlebot/internal/config"
	"wordlebot/internal/session"
	"wordlebot/internal/words"
)

func main() {
	sessionID := flag.String("session", "console", "session id to play as")
	verbose := flag.Bool("v", false, "log game events to stderr")
	flag.Parse()

	_ = godotenv.Load()

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	if err := run(logger.WithContext(context.Background()), *sessionID); err != nil {
		logger.Error().Err(err).Msg("console exited")
		os.Exit(1)
	}
}

func run(ctx context.Context, sessionID string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	solutions, err := words.Load(cfg.WordListFile)
	if err != nil {
		return err
	}
	accepted, err := words.LoadOptional(cfg.AcceptedWordsFile)
	if err != nil {
		return err
	}
	manager, err := session.New(session.Config{
		Words:     solutions,
		Accepted:  accepted,
		MaxTrials: cfg.MaxTrials,
		Commands:  session.Commands{Start: cfg.StartCommand, GiveUp: cfg.GiveUpCommand},
	})
	if err != nil {
		return err
	}
	log.Ctx(ctx).Debug().Int("words", len(solutions)).Str("session_id", sessionID).Msg("console ready")

	fmt.Printf("Type %s to start a game, %s to give up. Ctrl-D quits.\n", cfg.StartCommand, cfg.GiveUpCommand)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if scanner.Text() == "" {
			continue
		}
		fmt.Println(manager.HandleEvent(ctx, sessionID, scanner.Text()))
	}
	return scanner.Err()
}
