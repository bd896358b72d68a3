package bot

import (
	"github.com/HoussamAlMoughrabiCME/FriendlyRobot/internal/messenger"
)

// IncomingEvent is the closed set of classified webhook events. Raw messaging
// callbacks discriminate by field presence; Classify turns that into an
// explicit variant once, so downstream code can type-switch exhaustively.
type IncomingEvent interface {
	incomingEvent()
}

// MessageEvent is a message sent to the page, or an echo of a page message.
type MessageEvent struct {
	SenderID          string
	RecipientID       string
	Timestamp         int64
	IsEcho            bool
	MID               string
	AppID             int64
	Text              string
	QuickReplyPayload string
	Attachments       []messenger.InboundAttachment
}

// PostbackEvent is a button tap carrying a payload token.
type PostbackEvent struct {
	SenderID    string
	RecipientID string
	Timestamp   int64
	Payload     string
}

// DeliveryEvent confirms delivery of previously sent messages.
type DeliveryEvent struct {
	SenderID    string
	RecipientID string
	MessageIDs  []string
	Watermark   int64
}

// ReadEvent confirms that messages before the watermark were read.
type ReadEvent struct {
	SenderID    string
	RecipientID string
	Watermark   int64
}

// OptInEvent is the "Send to Messenger" plugin authentication callback.
type OptInEvent struct {
	SenderID    string
	RecipientID string
	Timestamp   int64
	Ref         string
}

// AccountLinkEvent reports a Link Account / Unlink Account action.
type AccountLinkEvent struct {
	SenderID    string
	RecipientID string
	Status      string
	AuthCode    string
}

// UnknownEvent is any raw event matching none of the known shapes. It is
// logged and dropped; no outbound action follows.
type UnknownEvent struct {
	Raw messenger.MessagingEvent
}

func (MessageEvent) incomingEvent()     {}
func (PostbackEvent) incomingEvent()    {}
func (DeliveryEvent) incomingEvent()    {}
func (ReadEvent) incomingEvent()        {}
func (OptInEvent) incomingEvent()       {}
func (AccountLinkEvent) incomingEvent() {}
func (UnknownEvent) incomingEvent()     {}

// Classify maps a raw messaging event to exactly one IncomingEvent variant.
// It is a pure function with no side effects.
func Classify(raw messenger.MessagingEvent) IncomingEvent {
	switch {
	case raw.OptIn != nil:
		return OptInEvent{
			SenderID:    raw.Sender.ID,
			RecipientID: raw.Recipient.ID,
			Timestamp:   raw.Timestamp,
			Ref:         raw.OptIn.Ref,
		}

	case raw.Message != nil:
		ev := MessageEvent{
			SenderID:    raw.Sender.ID,
			RecipientID: raw.Recipient.ID,
			Timestamp:   raw.Timestamp,
			IsEcho:      raw.Message.IsEcho,
			MID:         raw.Message.MID,
			AppID:       raw.Message.AppID,
			Text:        raw.Message.Text,
			Attachments: raw.Message.Attachments,
		}
		if raw.Message.QuickReply != nil {
			ev.QuickReplyPayload = raw.Message.QuickReply.Payload
		}
		return ev

	case raw.Delivery != nil:
		return DeliveryEvent{
			SenderID:    raw.Sender.ID,
			RecipientID: raw.Recipient.ID,
			MessageIDs:  raw.Delivery.MIDs,
			Watermark:   raw.Delivery.Watermark,
		}

	case raw.Postback != nil:
		return PostbackEvent{
			SenderID:    raw.Sender.ID,
			RecipientID: raw.Recipient.ID,
			Timestamp:   raw.Timestamp,
			Payload:     raw.Postback.Payload,
		}

	case raw.Read != nil:
		return ReadEvent{
			SenderID:    raw.Sender.ID,
			RecipientID: raw.Recipient.ID,
			Watermark:   raw.Read.Watermark,
		}

	case raw.AccountLinking != nil:
		return AccountLinkEvent{
			SenderID:    raw.Sender.ID,
			RecipientID: raw.Recipient.ID,
			Status:      raw.AccountLinking.Status,
			AuthCode:    raw.AccountLinking.AuthorizationCode,
		}

	default:
		return UnknownEvent{Raw: raw}
	}
}
