package domain

import "time"

type MessageStatus string

const (
	MessageUnread    MessageStatus = "unread"
	MessageResponded MessageStatus = "responded"
	MessageResolved  MessageStatus = "resolved"
)

var messageSuccessors = map[MessageStatus][]MessageStatus{
	MessageUnread:    {MessageResponded, MessageResolved},
	MessageResponded: {MessageResolved},
	MessageResolved:  {},
}

func (s MessageStatus) Valid() bool {
	_, ok := messageSuccessors[s]
	return ok
}

func (s MessageStatus) CanTransitionTo(next MessageStatus) bool {
	for _, n := range messageSuccessors[s] {
		if n == next {
			return true
		}
	}
	return false
}

// ContactMessage is a note left through the public contact form. Messages
// are triaged by status and never auto-expire.
type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Body      string
	Status    MessageStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
