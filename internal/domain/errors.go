package domain

import "errors"

var (
	// ErrNoMessage is returned when a chat request carries an empty message
	ErrNoMessage = errors.New("no message provided")

	// ErrSessionNotFound is returned when an explicit chat id resolves to no session
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoChatID is returned when a message listing request omits the chat id
	ErrNoChatID = errors.New("no chat_id provided")
)
