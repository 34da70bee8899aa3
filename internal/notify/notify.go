package notify

import (
	"fmt"
	"log"
	"strconv"
)

// Event kinds sent to the chat/email sinks.
const (
	KindCreated   = "task_created"
	KindCompleted = "task_completed"
	KindReminder  = "task_reminder"
	KindImport    = "import_summary"
)

// Event is one outbound notification payload.
type Event struct {
	Kind     string `json:"kind"`
	Task     string `json:"task,omitempty"`
	Category string `json:"category,omitempty"`
	Assignee string `json:"assignee,omitempty"`
	CostCent int64  `json:"cost_cent,omitempty"`
	Detail   string `json:"detail,omitempty"` // free text, e.g. import batch summary
}

// Notifier is the hook the store invokes after a successful mutation.
// Implementations must never block the caller or surface delivery errors.
type Notifier interface {
	Notify(e Event)
}

// Sender delivers one event to a single transport.
type Sender interface {
	Send(e Event) error
}

// Dispatcher fans events out to all configured senders, each on its own
// goroutine. Delivery failures are logged and swallowed: a dead webhook
// must never fail the mutation that raised the event.
type Dispatcher struct {
	senders []Sender
}

func NewDispatcher(senders ...Sender) *Dispatcher {
	return &Dispatcher{senders: senders}
}

func (d *Dispatcher) Notify(e Event) {
	for _, s := range d.senders {
		go func(s Sender) {
			if err := s.Send(e); err != nil {
				log.Printf("notify: %s delivery failed: %v", e.Kind, err)
			}
		}(s)
	}
}

// Headline returns the message title for an event kind.
func Headline(e Event) string {
	switch e.Kind {
	case KindCreated:
		return "New item on the board"
	case KindCompleted:
		return "Item completed"
	case KindReminder:
		return "Reminder"
	case KindImport:
		return "Bulk import finished"
	default:
		return "Board update"
	}
}

// FormatText renders an event as the plain-text message body shared by
// the webhook and email transports.
func FormatText(e Event) string {
	s := Headline(e)
	if e.Task != "" {
		s += ": " + e.Task
	}
	if e.Category != "" {
		s += " [" + e.Category + "]"
	}
	if e.Assignee != "" {
		s += " - " + e.Assignee
	}
	if e.CostCent > 0 {
		s += fmt.Sprintf(" ($%s)", FormatCentToDollar(e.CostCent))
	}
	if e.Detail != "" {
		s += " - " + e.Detail
	}
	return s
}

// FormatCentToDollar turns cents into a dollar string with two decimals.
func FormatCentToDollar(cent int64) string {
	return strconv.FormatFloat(float64(cent)/100.0, 'f', 2, 64)
}
