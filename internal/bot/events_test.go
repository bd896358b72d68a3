package bot

import (
	"encoding/json"
	"testing"

	"github.com/HoussamAlMoughrabiCME/FriendlyRobot/internal/messenger"
)

func classifyJSON(t *testing.T, raw string) IncomingEvent {
	t.Helper()
	var ev messenger.MessagingEvent
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	return Classify(ev)
}

func TestClassifyMessage(t *testing.T) {
	ev := classifyJSON(t, `{
		"sender": {"id": "111"},
		"recipient": {"id": "222"},
		"timestamp": 1458692752478,
		"message": {"mid": "mid.1457764197618:41d102a3e1ae206a38", "text": "plans"}
	}`)

	m, ok := ev.(MessageEvent)
	if !ok {
		t.Fatalf("expected MessageEvent, got %T", ev)
	}
	if m.SenderID != "111" || m.Text != "plans" || m.MID != "mid.1457764197618:41d102a3e1ae206a38" {
		t.Errorf("unexpected fields: %+v", m)
	}
	if m.IsEcho {
		t.Error("plain message classified as echo")
	}
}

func TestClassifyEcho(t *testing.T) {
	ev := classifyJSON(t, `{
		"sender": {"id": "222"},
		"recipient": {"id": "111"},
		"message": {"mid": "mid.echo", "is_echo": true, "app_id": 1517776481860111, "text": "hi"}
	}`)

	m, ok := ev.(MessageEvent)
	if !ok {
		t.Fatalf("expected MessageEvent, got %T", ev)
	}
	if !m.IsEcho || m.AppID != 1517776481860111 {
		t.Errorf("echo fields not carried: %+v", m)
	}
}

func TestClassifyQuickReply(t *testing.T) {
	ev := classifyJSON(t, `{
		"sender": {"id": "111"},
		"recipient": {"id": "222"},
		"message": {"mid": "mid.qr", "text": "15", "quick_reply": {"payload": "CREDIT_AMOUNT_PAYLOAD"}}
	}`)

	m, ok := ev.(MessageEvent)
	if !ok {
		t.Fatalf("expected MessageEvent, got %T", ev)
	}
	if m.QuickReplyPayload != PayloadCreditAmount {
		t.Errorf("quick reply payload = %q", m.QuickReplyPayload)
	}
}

func TestClassifyPostback(t *testing.T) {
	ev := classifyJSON(t, `{
		"sender": {"id": "111"},
		"recipient": {"id": "222"},
		"timestamp": 1458692752478,
		"postback": {"payload": "PLANS_PAYLOAD"}
	}`)

	p, ok := ev.(PostbackEvent)
	if !ok {
		t.Fatalf("expected PostbackEvent, got %T", ev)
	}
	if p.Payload != PayloadPlans {
		t.Errorf("payload = %q", p.Payload)
	}
}

func TestClassifyDelivery(t *testing.T) {
	ev := classifyJSON(t, `{
		"sender": {"id": "111"},
		"recipient": {"id": "222"},
		"delivery": {"mids": ["mid.a", "mid.b"], "watermark": 1458668856253, "seq": 37}
	}`)

	d, ok := ev.(DeliveryEvent)
	if !ok {
		t.Fatalf("expected DeliveryEvent, got %T", ev)
	}
	if len(d.MessageIDs) != 2 || d.Watermark != 1458668856253 {
		t.Errorf("unexpected fields: %+v", d)
	}
}

func TestClassifyRead(t *testing.T) {
	ev := classifyJSON(t, `{
		"sender": {"id": "111"},
		"recipient": {"id": "222"},
		"read": {"watermark": 1458668856253, "seq": 38}
	}`)

	r, ok := ev.(ReadEvent)
	if !ok {
		t.Fatalf("expected ReadEvent, got %T", ev)
	}
	if r.Watermark != 1458668856253 {
		t.Errorf("watermark = %d", r.Watermark)
	}
}

func TestClassifyOptIn(t *testing.T) {
	ev := classifyJSON(t, `{
		"sender": {"id": "111"},
		"recipient": {"id": "222"},
		"optin": {"ref": "PASS_THROUGH_PARAM"}
	}`)

	o, ok := ev.(OptInEvent)
	if !ok {
		t.Fatalf("expected OptInEvent, got %T", ev)
	}
	if o.Ref != "PASS_THROUGH_PARAM" {
		t.Errorf("ref = %q", o.Ref)
	}
}

func TestClassifyAccountLinking(t *testing.T) {
	ev := classifyJSON(t, `{
		"sender": {"id": "111"},
		"recipient": {"id": "222"},
		"account_linking": {"status": "linked", "authorization_code": "abc-123"}
	}`)

	a, ok := ev.(AccountLinkEvent)
	if !ok {
		t.Fatalf("expected AccountLinkEvent, got %T", ev)
	}
	if a.Status != "linked" || a.AuthCode != "abc-123" {
		t.Errorf("unexpected fields: %+v", a)
	}
}

func TestClassifyUnknown(t *testing.T) {
	ev := classifyJSON(t, `{
		"sender": {"id": "111"},
		"recipient": {"id": "222"},
		"timestamp": 1458692752478
	}`)

	if _, ok := ev.(UnknownEvent); !ok {
		t.Fatalf("expected UnknownEvent, got %T", ev)
	}
}

// OptIn checks run before the message check, so an event carrying both is an
// opt-in.
func TestClassifyOptInPrecedence(t *testing.T) {
	ev := classifyJSON(t, `{
		"sender": {"id": "111"},
		"recipient": {"id": "222"},
		"optin": {"ref": "R"},
		"message": {"mid": "mid.x", "text": "ignored"}
	}`)

	if _, ok := ev.(OptInEvent); !ok {
		t.Fatalf("expected OptInEvent, got %T", ev)
	}
}
