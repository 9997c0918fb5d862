package ota

import "context"

// Button is an inline link button attached to a message.
type Button struct {
	Text string
	URL  string
}

// Messenger sends announcements to chat destinations. Chat identifiers are
// passed through verbatim: numeric IDs or channel usernames.
type Messenger interface {
	// SendPhoto posts the image at photoPath with an HTML caption.
	SendPhoto(ctx context.Context, chat, photoPath, caption string) error

	// SendMessage posts an HTML text message, optionally with one inline button.
	// Link previews are disabled.
	SendMessage(ctx context.Context, chat, text string, button *Button) error
}
