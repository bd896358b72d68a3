package messenger

// Send API payload builders. Every constructor is total: inputs that exceed a
// platform schema bound (button, element, quick-reply counts) are clamped to
// the documented maximum rather than failing at send time.

// Platform schema bounds.
const (
	MaxButtons      = 3
	MaxElements     = 10
	MaxQuickReplies = 13
)

// Sender action values recognized by the platform.
const (
	ActionMarkSeen  = "mark_seen"
	ActionTypingOn  = "typing_on"
	ActionTypingOff = "typing_off"
)

// Button types.
const (
	ButtonTypeWebURL      = "web_url"
	ButtonTypePostback    = "postback"
	ButtonTypePhoneNumber = "phone_number"
	ButtonTypeAccountLink = "account_link"
)

const developerMetadata = "DEVELOPER_DEFINED_METADATA"

// SendRequest is one canonical Send API payload addressed to a recipient.
type SendRequest struct {
	Recipient    Principal    `json:"recipient"`
	Message      *MessageData `json:"message,omitempty"`
	SenderAction string       `json:"sender_action,omitempty"`
}

// MessageData is the message portion of a SendRequest.
type MessageData struct {
	Text         string       `json:"text,omitempty"`
	Metadata     string       `json:"metadata,omitempty"`
	Attachment   *Attachment  `json:"attachment,omitempty"`
	QuickReplies []QuickReply `json:"quick_replies,omitempty"`
}

// Attachment wraps media and template payloads.
type Attachment struct {
	Type    string            `json:"type"`
	Payload AttachmentPayload `json:"payload"`
}

// AttachmentPayload covers media URLs and all template shapes. Unused fields
// stay zero and are omitted from the wire form.
type AttachmentPayload struct {
	URL          string    `json:"url,omitempty"`
	TemplateType string    `json:"template_type,omitempty"`
	Text         string    `json:"text,omitempty"`
	Buttons      []Button  `json:"buttons,omitempty"`
	Elements     []Element `json:"elements,omitempty"`

	// Receipt template fields.
	RecipientName string       `json:"recipient_name,omitempty"`
	OrderNumber   string       `json:"order_number,omitempty"`
	Currency      string       `json:"currency,omitempty"`
	PaymentMethod string       `json:"payment_method,omitempty"`
	Timestamp     string       `json:"timestamp,omitempty"`
	Address       *Address     `json:"address,omitempty"`
	Summary       *Summary     `json:"summary,omitempty"`
	Adjustments   []Adjustment `json:"adjustments,omitempty"`
}

// Button is one call-to-action on a button or generic template.
type Button struct {
	Type    string `json:"type"`
	Title   string `json:"title,omitempty"`
	URL     string `json:"url,omitempty"`
	Payload string `json:"payload,omitempty"`
}

// Element is one bubble of a generic template, or one line item of a receipt.
type Element struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	ItemURL  string   `json:"item_url,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
	Buttons  []Button `json:"buttons,omitempty"`

	// Receipt line-item fields.
	Quantity int     `json:"quantity,omitempty"`
	Price    float64 `json:"price,omitempty"`
	Currency string  `json:"currency,omitempty"`
}

// QuickReply is one quick-reply option under a message.
type QuickReply struct {
	ContentType string `json:"content_type"`
	Title       string `json:"title"`
	Payload     string `json:"payload"`
}

// Address is the shipping address of a receipt template.
type Address struct {
	Street1    string `json:"street_1"`
	Street2    string `json:"street_2"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	State      string `json:"state"`
	Country    string `json:"country"`
}

// Summary is the cost summary of a receipt template.
type Summary struct {
	Subtotal     float64 `json:"subtotal,omitempty"`
	ShippingCost float64 `json:"shipping_cost,omitempty"`
	TotalTax     float64 `json:"total_tax,omitempty"`
	TotalCost    float64 `json:"total_cost"`
}

// Adjustment is one discount line of a receipt template.
type Adjustment struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Receipt carries the order metadata of a receipt template.
type Receipt struct {
	RecipientName string
	OrderNumber   string
	Currency      string
	PaymentMethod string
	Timestamp     string
	LineItems     []Element
	Address       Address
	Summary       Summary
	Adjustments   []Adjustment
}

// Text builds a plain text message.
func Text(recipientID, text string) SendRequest {
	return SendRequest{
		Recipient: Principal{ID: recipientID},
		Message: &MessageData{
			Text:     text,
			Metadata: developerMetadata,
		},
	}
}

// MediaAttachment builds an image/audio/video/file attachment message
// pointing at a hosted media URL.
func MediaAttachment(recipientID, kind, url string) SendRequest {
	return SendRequest{
		Recipient: Principal{ID: recipientID},
		Message: &MessageData{
			Attachment: &Attachment{
				Type:    kind,
				Payload: AttachmentPayload{URL: url},
			},
		},
	}
}

// ButtonTemplate builds a button template with up to MaxButtons buttons.
func ButtonTemplate(recipientID, text string, buttons ...Button) SendRequest {
	return SendRequest{
		Recipient: Principal{ID: recipientID},
		Message: &MessageData{
			Attachment: &Attachment{
				Type: "template",
				Payload: AttachmentPayload{
					TemplateType: "button",
					Text:         text,
					Buttons:      clamp(buttons, MaxButtons),
				},
			},
		},
	}
}

// GenericTemplate builds a generic (carousel) template with up to MaxElements
// elements carrying up to MaxButtons buttons each.
func GenericTemplate(recipientID string, elements ...Element) SendRequest {
	elements = clamp(elements, MaxElements)
	for i := range elements {
		elements[i].Buttons = clamp(elements[i].Buttons, MaxButtons)
	}
	return SendRequest{
		Recipient: Principal{ID: recipientID},
		Message: &MessageData{
			Attachment: &Attachment{
				Type: "template",
				Payload: AttachmentPayload{
					TemplateType: "generic",
					Elements:     elements,
				},
			},
		},
	}
}

// ReceiptTemplate builds a receipt template.
func ReceiptTemplate(recipientID string, receipt Receipt) SendRequest {
	addr := receipt.Address
	summary := receipt.Summary
	return SendRequest{
		Recipient: Principal{ID: recipientID},
		Message: &MessageData{
			Attachment: &Attachment{
				Type: "template",
				Payload: AttachmentPayload{
					TemplateType:  "receipt",
					RecipientName: receipt.RecipientName,
					OrderNumber:   receipt.OrderNumber,
					Currency:      receipt.Currency,
					PaymentMethod: receipt.PaymentMethod,
					Timestamp:     receipt.Timestamp,
					Elements:      receipt.LineItems,
					Address:       &addr,
					Summary:       &summary,
					Adjustments:   receipt.Adjustments,
				},
			},
		},
	}
}

// QuickReplies builds a text message offering up to MaxQuickReplies options.
func QuickReplies(recipientID, text string, options ...QuickReply) SendRequest {
	return SendRequest{
		Recipient: Principal{ID: recipientID},
		Message: &MessageData{
			Text:         text,
			Metadata:     developerMetadata,
			QuickReplies: clamp(options, MaxQuickReplies),
		},
	}
}

// TextQuickReply builds one text-typed quick-reply option.
func TextQuickReply(title, payload string) QuickReply {
	return QuickReply{ContentType: "text", Title: title, Payload: payload}
}

// SenderAction builds a contentless sender action (mark_seen, typing_on,
// typing_off).
func SenderAction(recipientID, action string) SendRequest {
	return SendRequest{
		Recipient:    Principal{ID: recipientID},
		SenderAction: action,
	}
}

// URLButton builds a web-link button.
func URLButton(title, url string) Button {
	return Button{Type: ButtonTypeWebURL, Title: title, URL: url}
}

// PostbackButton builds a postback button carrying a payload token.
func PostbackButton(title, payload string) Button {
	return Button{Type: ButtonTypePostback, Title: title, Payload: payload}
}

// CallButton builds a phone-number button.
func CallButton(title, phone string) Button {
	return Button{Type: ButtonTypePhoneNumber, Title: title, Payload: phone}
}

// AccountLinkButton builds an account-linking button pointing at the
// authorize endpoint.
func AccountLinkButton(url string) Button {
	return Button{Type: ButtonTypeAccountLink, URL: url}
}

func clamp[T any](s []T, max int) []T {
	if len(s) > max {
		return s[:max]
	}
	return s
}
