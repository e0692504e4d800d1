package library

import (
	"log"
	"sync"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notification is a message meant for the person using the screen.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier surfaces operation outcomes to whatever presents the screen.
type Notifier interface {
	Notify(Notification)
}

// LogNotifier writes notifications to the standard logger.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notification) {
	log.Printf("[%s] %s", n.Level, n.Message)
}

// RecordingNotifier keeps notifications until they are drained and
// forwards each one to next, if set.
type RecordingNotifier struct {
	mu      sync.Mutex
	next    Notifier
	pending []Notification
}

func NewRecordingNotifier(next Notifier) *RecordingNotifier {
	return &RecordingNotifier{next: next}
}

func (n *RecordingNotifier) Notify(note Notification) {
	n.mu.Lock()
	n.pending = append(n.pending, note)
	n.mu.Unlock()

	if n.next != nil {
		n.next.Notify(note)
	}
}

// Drain returns the recorded notifications in order and forgets them.
func (n *RecordingNotifier) Drain() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	drained := n.pending
	n.pending = nil
	if drained == nil {
		drained = []Notification{}
	}
	return drained
}

func info(message string) Notification {
	return Notification{Level: LevelInfo, Message: message}
}

func failure(message string) Notification {
	return Notification{Level: LevelError, Message: message}
}

const (
	msgDeleted            = "Successfully deleted selected books"
	msgAdded              = "Successfully added selected books to all selected categories"
	msgMoved              = "Successfully moved selected books to all selected categories"
	msgAddFailed          = "Failed to add selected books to all categories"
	msgDeleteOrigFailed   = "Failed to delete selected books in current category"
	msgNoOtherCategories  = "No other categories to move or add books to!"
	msgCustomBookAdded    = "Custom book added successfully!"
	msgCustomBookFailed   = "Failed to add custom book"
	msgDeleteFailedLogged = "Failed to delete user books that were selected"
)
