package main

// Route constants
const (
	RouteEvents          = "/events"
	RouteTelegramWebhook = "/telegram/webhook"
	RouteHealth          = "/healthz"
)

// Header constants
const (
	HeaderRequestID      = "X-Request-Id"
	HeaderTelegramSecret = "X-Telegram-Bot-Api-Secret-Token"
)

// Error message constants
const (
	ErrorBadRequest      = "Request body must be JSON with session_id and text."
	ErrorTooManyRequests = "Too many requests. Please slow down."
	ErrorUnauthorized    = "Invalid webhook secret."
)

// Context key constants
const (
	requestIDKey contextKey = "request_id"
)
