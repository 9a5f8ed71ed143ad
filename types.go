package main

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"wordlebot/internal/config"
	"wordlebot/internal/session"
)

type contextKey string

// App holds the process-wide dependencies shared by the HTTP handlers.
type App struct {
	Config        config.Config
	Sessions      *session.Manager
	WordCount     int
	AcceptedCount int
	LimiterMap    map[string]*rate.Limiter
	LimiterMutex  sync.Mutex // Protects LimiterMap
	StartTime     time.Time
}
