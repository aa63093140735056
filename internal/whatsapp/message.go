package whatsapp

import (
	"strings"
	"time"

	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
)

// Incoming is a direct text message addressed to the desk account
type Incoming struct {
	ID        string
	Sender    string
	Text      string
	Timestamp time.Time
}

// FromEvent extracts a desk query from a whatsmeow message event. Own
// messages, group chats and messages without text are reported as false.
func FromEvent(msg *events.Message) (Incoming, bool) {
	if msg == nil || msg.Info.IsFromMe || msg.Info.IsGroup {
		return Incoming{}, false
	}

	text := strings.TrimSpace(MessageText(msg))
	if text == "" {
		return Incoming{}, false
	}

	return Incoming{
		ID:        msg.Info.ID,
		Sender:    SenderPhone(msg),
		Text:      text,
		Timestamp: msg.Info.Timestamp,
	}, true
}

// SenderPhone returns the sender's phone number. Senders addressed by a
// hidden LID carry their phone number in SenderAlt.
func SenderPhone(msg *events.Message) string {
	sender := msg.Info.Sender
	if sender.Server == types.HiddenUserServer && !msg.Info.SenderAlt.IsEmpty() {
		sender = msg.Info.SenderAlt
	}
	return sender.User
}

// MessageText returns the body of a plain or extended text message
func MessageText(msg *events.Message) string {
	if msg.Message == nil {
		return ""
	}
	if text := msg.Message.GetConversation(); text != "" {
		return text
	}
	return msg.Message.GetExtendedTextMessage().GetText()
}
