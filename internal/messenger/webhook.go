package messenger

// Messenger Platform webhook types.
// Ref: https://developers.facebook.com/docs/messenger-platform/webhooks

// ObjectPage is the top-level object type for page subscriptions; it is the
// only object type this bot acts on.
const ObjectPage = "page"

// WebhookBatch is the top-level webhook delivery from the platform.
type WebhookBatch struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry represents a single page's webhook events. One delivery may batch
// several entries, each with several messaging events.
type Entry struct {
	ID        string           `json:"id"`
	Time      int64            `json:"time"`
	Messaging []MessagingEvent `json:"messaging"`
}

// MessagingEvent is one raw messaging callback. Exactly one of the optional
// event fields is populated; which one determines the event kind.
type MessagingEvent struct {
	Sender    Principal `json:"sender"`
	Recipient Principal `json:"recipient"`
	Timestamp int64     `json:"timestamp"`

	Message        *InboundMessage `json:"message,omitempty"`
	Postback       *Postback       `json:"postback,omitempty"`
	Delivery       *Delivery       `json:"delivery,omitempty"`
	Read           *Read           `json:"read,omitempty"`
	OptIn          *OptIn          `json:"optin,omitempty"`
	AccountLinking *AccountLinking `json:"account_linking,omitempty"`
}

// Principal is a sender or recipient, identified by page-scoped ID.
type Principal struct {
	ID string `json:"id"`
}

// InboundMessage is the content of a message event. Text and attachments are
// mutually exclusive in practice; is_echo marks messages sent by the page
// itself.
type InboundMessage struct {
	MID         string              `json:"mid"`
	AppID       int64               `json:"app_id,omitempty"`
	Metadata    string              `json:"metadata,omitempty"`
	IsEcho      bool                `json:"is_echo,omitempty"`
	Text        string              `json:"text,omitempty"`
	QuickReply  *InboundQuickReply  `json:"quick_reply,omitempty"`
	Attachments []InboundAttachment `json:"attachments,omitempty"`
}

// InboundQuickReply carries the payload token of a tapped quick reply.
type InboundQuickReply struct {
	Payload string `json:"payload"`
}

// InboundAttachment is a media attachment on an inbound message.
type InboundAttachment struct {
	Type    string `json:"type"`
	Payload struct {
		URL string `json:"url,omitempty"`
	} `json:"payload"`
}

// Postback reports a button tap carrying a developer-defined payload token.
type Postback struct {
	Payload string `json:"payload"`
}

// Delivery confirms delivery of previously sent messages.
type Delivery struct {
	MIDs      []string `json:"mids,omitempty"`
	Watermark int64    `json:"watermark"`
	Seq       int64    `json:"seq,omitempty"`
}

// Read confirms that all messages before the watermark were read.
type Read struct {
	Watermark int64 `json:"watermark"`
	Seq       int64 `json:"seq,omitempty"`
}

// OptIn is the "Send to Messenger" plugin authentication callback; Ref is the
// developer-defined data-ref pass-through value.
type OptIn struct {
	Ref string `json:"ref"`
}

// AccountLinking reports a Link Account / Unlink Account action.
type AccountLinking struct {
	Status            string `json:"status"`
	AuthorizationCode string `json:"authorization_code,omitempty"`
}
