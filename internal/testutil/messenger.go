package testutil

import (
	"context"
	"fmt"
	"sync"

	"otabot/internal/ota"
)

// SentPhoto is one SendPhoto call recorded by RecordingMessenger.
type SentPhoto struct {
	Chat    string
	Path    string
	Caption string
}

// SentMessage is one SendMessage call recorded by RecordingMessenger.
type SentMessage struct {
	Chat   string
	Text   string
	Button *ota.Button
}

// RecordingMessenger records every send. FailPhotoAt makes the n-th
// SendPhoto call (1-based) fail; 0 disables the failure. OnPhoto, if set,
// runs after each recorded photo.
type RecordingMessenger struct {
	mu          sync.Mutex
	Photos      []SentPhoto
	Messages    []SentMessage
	FailPhotoAt int
	FailMessage bool
	OnPhoto     func()
	photoCalls  int
}

func NewRecordingMessenger() *RecordingMessenger {
	return &RecordingMessenger{}
}

func (m *RecordingMessenger) SendPhoto(_ context.Context, chat, photoPath, caption string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.photoCalls++
	if m.FailPhotoAt != 0 && m.photoCalls == m.FailPhotoAt {
		return fmt.Errorf("send photo: injected failure")
	}
	m.Photos = append(m.Photos, SentPhoto{Chat: chat, Path: photoPath, Caption: caption})
	if m.OnPhoto != nil {
		m.OnPhoto()
	}
	return nil
}

func (m *RecordingMessenger) SendMessage(_ context.Context, chat, text string, button *ota.Button) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailMessage {
		return fmt.Errorf("send message: injected failure")
	}
	m.Messages = append(m.Messages, SentMessage{Chat: chat, Text: text, Button: button})
	return nil
}

// Calls returns the total number of sends attempted.
func (m *RecordingMessenger) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.photoCalls + len(m.Messages)
}

var _ ota.Messenger = (*RecordingMessenger)(nil)
