package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HoussamAlMoughrabiCME/FriendlyRobot/internal/messenger"
)

const testPublicURL = "https://bot.example.com"

func testPolicy() *Policy {
	return NewPolicy(testPublicURL)
}

func textOf(t *testing.T, req messenger.SendRequest) string {
	t.Helper()
	require.NotNil(t, req.Message, "expected a message payload")
	return req.Message.Text
}

func TestRouteEchoProducesNothing(t *testing.T) {
	actions := testPolicy().Route(MessageEvent{
		SenderID: "u1",
		IsEcho:   true,
		Text:     "plans",
	})
	assert.Empty(t, actions)
}

func TestRouteObservationEventsProduceNothing(t *testing.T) {
	p := testPolicy()
	for name, ev := range map[string]IncomingEvent{
		"delivery":     DeliveryEvent{SenderID: "u1", Watermark: 1},
		"read":         ReadEvent{SenderID: "u1", Watermark: 1},
		"account_link": AccountLinkEvent{SenderID: "u1", Status: "linked"},
		"unknown":      UnknownEvent{},
	} {
		assert.Empty(t, p.Route(ev), "event %s should produce no actions", name)
	}
}

func TestRouteOptIn(t *testing.T) {
	actions := testPolicy().Route(OptInEvent{SenderID: "u1", Ref: "ref"})
	require.Len(t, actions, 1)
	assert.Equal(t, "Authentication successful", textOf(t, actions[0]))
	assert.Equal(t, "u1", actions[0].Recipient.ID)
}

func TestRouteCommandCaseInsensitive(t *testing.T) {
	p := testPolicy()
	for _, text := range []string{"plans", "Plans", "PLANS", "pLaNs"} {
		actions := p.Route(MessageEvent{SenderID: "u1", Text: text})
		require.Len(t, actions, 1, "text %q", text)

		att := actions[0].Message.Attachment
		require.NotNil(t, att)
		assert.Equal(t, "generic", att.Payload.TemplateType)
		assert.Len(t, att.Payload.Elements, 3)
	}
}

func TestRouteMyID(t *testing.T) {
	actions := testPolicy().Route(MessageEvent{SenderID: "12345", Text: "my id"})
	require.Len(t, actions, 1)
	assert.Equal(t, "Your facebook Id: 12345", textOf(t, actions[0]))
}

func TestRouteMediaCommands(t *testing.T) {
	p := testPolicy()
	cases := map[string]struct {
		kind string
		url  string
	}{
		"image": {"image", testPublicURL + "/assets/rift.png"},
		"gif":   {"image", testPublicURL + "/assets/instagram_logo.gif"},
		"audio": {"audio", testPublicURL + "/assets/sample.mp3"},
		"video": {"video", testPublicURL + "/assets/allofus480.mov"},
		"file":  {"file", testPublicURL + "/assets/test.txt"},
	}
	for text, want := range cases {
		actions := p.Route(MessageEvent{SenderID: "u1", Text: text})
		require.Len(t, actions, 1, "command %q", text)

		att := actions[0].Message.Attachment
		require.NotNil(t, att, "command %q", text)
		assert.Equal(t, want.kind, att.Type, "command %q", text)
		assert.Equal(t, want.url, att.Payload.URL, "command %q", text)
	}
}

func TestRouteSenderActions(t *testing.T) {
	p := testPolicy()
	cases := map[string]string{
		"read receipt": messenger.ActionMarkSeen,
		"typing on":    messenger.ActionTypingOn,
		"typing off":   messenger.ActionTypingOff,
	}
	for text, action := range cases {
		actions := p.Route(MessageEvent{SenderID: "u1", Text: text})
		require.Len(t, actions, 1, "command %q", text)
		assert.Equal(t, action, actions[0].SenderAction)
		assert.Nil(t, actions[0].Message)
	}
}

// The recharge marker matches anywhere in the text and takes precedence over
// the send-credit marker when both appear.
func TestRouteVoucherMarker(t *testing.T) {
	p := testPolicy()
	for _, text := range []string{"1234#v", "Recharge #V now", "#v and #sc together"} {
		actions := p.Route(MessageEvent{SenderID: "u1", Text: text})
		require.Len(t, actions, 1, "text %q", text)
		assert.Equal(t, "Your line has been successfully recharged with 300 JMD.",
			textOf(t, actions[0]), "text %q", text)
	}
}

func TestRouteSendCreditMarker(t *testing.T) {
	actions := testPolicy().Route(MessageEvent{SenderID: "u1", Text: "8761234567#sc"})
	require.Len(t, actions, 1)

	msg := actions[0].Message
	require.NotNil(t, msg)
	assert.Equal(t, "Select Transfer Amount: (JMD)", msg.Text)
	require.Len(t, msg.QuickReplies, 4)
	for _, qr := range msg.QuickReplies {
		assert.Equal(t, PayloadCreditAmount, qr.Payload)
	}
	assert.Equal(t, []string{"15", "25", "50", "100"}, []string{
		msg.QuickReplies[0].Title, msg.QuickReplies[1].Title,
		msg.QuickReplies[2].Title, msg.QuickReplies[3].Title,
	})
}

func TestRouteUnmatchedTextStartsConversation(t *testing.T) {
	actions := testPolicy().Route(MessageEvent{SenderID: "u1", Text: "hello there"})
	require.Len(t, actions, 2)

	// Account options first, promotions second.
	first := actions[0].Message.Attachment
	require.NotNil(t, first)
	assert.Equal(t, "button", first.Payload.TemplateType)
	assert.Equal(t, "Account Details", first.Payload.Text)
	require.Len(t, first.Payload.Buttons, 3)

	second := actions[1].Message.Attachment
	require.NotNil(t, second)
	assert.Equal(t, "generic", second.Payload.TemplateType)
	assert.Len(t, second.Payload.Elements, 5)
}

func TestRouteAttachmentOnlyMessage(t *testing.T) {
	actions := testPolicy().Route(MessageEvent{
		SenderID:    "u1",
		Attachments: []messenger.InboundAttachment{{Type: "image"}},
	})
	require.Len(t, actions, 1)
	assert.Equal(t, "Message with attachment received", textOf(t, actions[0]))
}

func TestRouteEmptyMessageProducesNothing(t *testing.T) {
	assert.Empty(t, testPolicy().Route(MessageEvent{SenderID: "u1"}))
}

func TestRouteKnownQuickReply(t *testing.T) {
	actions := testPolicy().Route(MessageEvent{
		SenderID:          "u1",
		Text:              "15",
		QuickReplyPayload: PayloadCreditAmount,
	})
	require.Len(t, actions, 1)
	assert.Equal(t, "Customer line has been successfully recharged.", textOf(t, actions[0]))
}

func TestRouteUnknownQuickReply(t *testing.T) {
	actions := testPolicy().Route(MessageEvent{
		SenderID:          "u1",
		Text:              "Action",
		QuickReplyPayload: "DEVELOPER_DEFINED_PAYLOAD_FOR_PICKING_ACTION",
	})
	require.Len(t, actions, 1)
	assert.Equal(t, "Quick reply tapped", textOf(t, actions[0]))
}

func TestRouteUnknownPostback(t *testing.T) {
	actions := testPolicy().Route(PostbackEvent{SenderID: "u1", Payload: "NOT_A_TOKEN"})
	require.Len(t, actions, 1)
	assert.Equal(t, "Postback called", textOf(t, actions[0]))
}

func TestRouteGetStartedPostback(t *testing.T) {
	actions := testPolicy().Route(PostbackEvent{SenderID: "u1", Payload: PayloadGetStarted})
	require.Len(t, actions, 2)
	assert.Equal(t, "button", actions[0].Message.Attachment.Payload.TemplateType)
	assert.Equal(t, "generic", actions[1].Message.Attachment.Payload.TemplateType)
}

func TestRouteBalanceAndActivePlans(t *testing.T) {
	actions := testPolicy().Route(PostbackEvent{SenderID: "u1", Payload: PayloadBalanceActivePlans})
	require.Len(t, actions, 2)

	assert.Contains(t, textOf(t, actions[0]), "Main Balance: 351.91JMD")

	att := actions[1].Message.Attachment
	require.NotNil(t, att)
	assert.Equal(t, "generic", att.Payload.TemplateType)
	require.Len(t, att.Payload.Elements, 2)
	for _, el := range att.Payload.Elements {
		require.Len(t, el.Buttons, 2)
		assert.Equal(t, PayloadRenewPlan, el.Buttons[0].Payload)
		assert.Equal(t, PayloadDeactivatePlan, el.Buttons[1].Payload)
	}
}

func TestRoutePlansPostbackLeadsWithLabel(t *testing.T) {
	actions := testPolicy().Route(PostbackEvent{SenderID: "u1", Payload: PayloadPlans})
	require.Len(t, actions, 2)
	assert.Equal(t, "Offer Plans", textOf(t, actions[0]))
}

func TestRouteAccountLinkingCommand(t *testing.T) {
	actions := testPolicy().Route(MessageEvent{SenderID: "u1", Text: "account linking"})
	require.Len(t, actions, 1)

	att := actions[0].Message.Attachment
	require.NotNil(t, att)
	require.Len(t, att.Payload.Elements, 1)
	el := att.Payload.Elements[0]
	assert.Equal(t, "Welcome to Digicel", el.Title)
	require.Len(t, el.Buttons, 1)
	assert.Equal(t, messenger.ButtonTypeAccountLink, el.Buttons[0].Type)
	assert.Equal(t, testPublicURL+"/authorize", el.Buttons[0].URL)
}

// The same event must always yield the same actions; the receipt demo is the
// easiest place for nondeterminism to sneak in.
func TestRouteDeterministic(t *testing.T) {
	p := testPolicy()
	ev := MessageEvent{SenderID: "u1", Text: "receipt"}

	first := p.Route(ev)
	second := p.Route(ev)
	require.Len(t, first, 1)
	assert.Equal(t, first, second)

	order := first[0].Message.Attachment.Payload.OrderNumber
	assert.NotEmpty(t, order)
	assert.Equal(t, order, second[0].Message.Attachment.Payload.OrderNumber)
}

func TestReceiptDemoContents(t *testing.T) {
	actions := testPolicy().Route(MessageEvent{SenderID: "u1", Text: "receipt"})
	require.Len(t, actions, 1)

	pl := actions[0].Message.Attachment.Payload
	assert.Equal(t, "receipt", pl.TemplateType)
	assert.Equal(t, "Peter Chang", pl.RecipientName)
	assert.Equal(t, "Visa 1234", pl.PaymentMethod)
	require.Len(t, pl.Elements, 2)
	require.NotNil(t, pl.Summary)
	assert.Equal(t, 626.66, pl.Summary.TotalCost)
	require.Len(t, pl.Adjustments, 2)
}
