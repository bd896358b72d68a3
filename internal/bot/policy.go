package bot

import (
	"strings"

	"github.com/HoussamAlMoughrabiCME/FriendlyRobot/internal/messenger"
)

// Payload tokens are the only cross-turn state this bot holds: a token goes
// out inside a button or quick reply and comes back inside a postback or
// quick-reply event. The vocabulary is closed; anything else hits a fallback.
const (
	PayloadRenewPlan          = "RENEW_PLAN_PAYLOAD"
	PayloadDeactivatePlan     = "DEACTIVATE_PLAN_PAYLOAD"
	PayloadBuyPlan            = "BUY_PLAN_PAYLOAD"
	PayloadBuyPlanNoCredit    = "BUY_PLAN_NO_ENOUGH_CREDIT_PAYLOAD"
	PayloadGetStartedAuth     = "GET_STARTED_AUTHORIZE_PAYLOAD"
	PayloadGetStarted         = "GET_STARTED_PAYLOAD"
	PayloadPlans              = "PLANS_PAYLOAD"
	PayloadPromotions         = "PROMOTIONS_PAYLOAD"
	PayloadBalanceActivePlans = "BALANCE_AND_ACTIVE_PLANS_PAYLOAD"
	PayloadAddCredits         = "ADD_CREDITS_PAYLOAD"
	PayloadSendCredits        = "SEND_CREDITS_PAYLOAD"
	PayloadCreditAmount       = "CREDIT_AMOUNT_PAYLOAD"
)

const balanceSummary = "Main Balance: 351.91JMD - 660 min(s) left\n\n" +
	"Other Balances:\nData Remaining: 0.00 MB\nLoyalty Credit: 7.65 JMD\n" +
	"International Minutes: 660 min(s)\n\nActive Plans:"

// replyFn builds the action sequence for one recognized command or payload.
type replyFn func(p *Policy, senderID string) []messenger.SendRequest

// commandTable maps lower-cased message text to its reply. Keeping the
// vocabulary as data makes it auditable and testable without walking a switch.
var commandTable = map[string]replyFn{
	"plans": func(p *Policy, id string) []messenger.SendRequest {
		return p.one(p.plansMessage(id))
	},
	"my id": func(p *Policy, id string) []messenger.SendRequest {
		return p.one(messenger.Text(id, "Your facebook Id: "+id))
	},
	"image": func(p *Policy, id string) []messenger.SendRequest {
		return p.one(messenger.MediaAttachment(id, "image", p.asset("/assets/rift.png")))
	},
	"gif": func(p *Policy, id string) []messenger.SendRequest {
		return p.one(messenger.MediaAttachment(id, "image", p.asset("/assets/instagram_logo.gif")))
	},
	"audio": func(p *Policy, id string) []messenger.SendRequest {
		return p.one(messenger.MediaAttachment(id, "audio", p.asset("/assets/sample.mp3")))
	},
	"video": func(p *Policy, id string) []messenger.SendRequest {
		return p.one(messenger.MediaAttachment(id, "video", p.asset("/assets/allofus480.mov")))
	},
	"file": func(p *Policy, id string) []messenger.SendRequest {
		return p.one(messenger.MediaAttachment(id, "file", p.asset("/assets/test.txt")))
	},
	"button": func(p *Policy, id string) []messenger.SendRequest {
		return p.one(p.buttonDemo(id))
	},
	"generic": func(p *Policy, id string) []messenger.SendRequest {
		return p.one(p.genericDemo(id))
	},
	"receipt": func(p *Policy, id string) []messenger.SendRequest {
		return p.one(p.receiptDemo(id))
	},
	"quick reply": func(p *Policy, id string) []messenger.SendRequest {
		return p.one(p.quickReplyDemo(id))
	},
	"read receipt": func(p *Policy, id string) []messenger.SendRequest {
		return p.one(messenger.SenderAction(id, messenger.ActionMarkSeen))
	},
	"typing on": func(p *Policy, id string) []messenger.SendRequest {
		return p.one(messenger.SenderAction(id, messenger.ActionTypingOn))
	},
	"typing off": func(p *Policy, id string) []messenger.SendRequest {
		return p.one(messenger.SenderAction(id, messenger.ActionTypingOff))
	},
	"account linking": func(p *Policy, id string) []messenger.SendRequest {
		return p.one(p.accountLinkingCard(id))
	},
}

// postbackTable maps payload tokens to their reply sequences.
var postbackTable = map[string]replyFn{
	PayloadRenewPlan: func(p *Policy, id string) []messenger.SendRequest {
		return p.one(messenger.Text(id, "Plan has been renewed and valid until 02/01/2017 12:00AM, 150JMD were deduced from your balance. Thank you."))
	},
	PayloadDeactivatePlan: func(p *Policy, id string) []messenger.SendRequest {
		return p.one(messenger.Text(id, "Plan has been deactivated. Thank you."))
	},
	PayloadBuyPlan: func(p *Policy, id string) []messenger.SendRequest {
		return p.one(messenger.Text(id, "Plan activated successfully, 200JMD were deduced from your balance. Thank you."))
	},
	PayloadBuyPlanNoCredit: func(p *Policy, id string) []messenger.SendRequest {
		return p.one(messenger.Text(id, "You do not have enough credit to activate this plan, please recharge and reactivate it.\nTo recharge please enter your voucher code followed by #v:"))
	},
	PayloadGetStartedAuth: func(p *Policy, id string) []messenger.SendRequest {
		return p.one(p.accountLinkingCard(id))
	},
	PayloadGetStarted: func(p *Policy, id string) []messenger.SendRequest {
		return p.InitConversation(id)
	},
	PayloadPlans: func(p *Policy, id string) []messenger.SendRequest {
		return []messenger.SendRequest{
			messenger.Text(id, "Offer Plans"),
			p.plansMessage(id),
		}
	},
	PayloadPromotions: func(p *Policy, id string) []messenger.SendRequest {
		return []messenger.SendRequest{
			messenger.Text(id, "Promotions"),
			p.promotionsMessage(id),
		}
	},
	PayloadBalanceActivePlans: func(p *Policy, id string) []messenger.SendRequest {
		return []messenger.SendRequest{
			messenger.Text(id, balanceSummary),
			p.activePlansMessage(id),
		}
	},
	PayloadAddCredits: func(p *Policy, id string) []messenger.SendRequest {
		return p.one(messenger.Text(id, "Please enter your voucher code followed by #v:"))
	},
	PayloadSendCredits: func(p *Policy, id string) []messenger.SendRequest {
		return p.one(messenger.Text(id, "Enter phone number followed by #sc:"))
	},
}

// quickReplyTable maps quick-reply payload tokens to their fixed reply text.
var quickReplyTable = map[string]string{
	PayloadCreditAmount: "Customer line has been successfully recharged.",
}

// Policy is the conversation decision core: it turns one classified event
// into zero or more outbound actions. It holds no conversation state and no
// I/O; the same event always yields the same actions.
type Policy struct {
	publicURL string
}

// NewPolicy creates a Policy. publicURL is the base URL under which the
// bot's static assets are reachable (used inside template payloads).
func NewPolicy(publicURL string) *Policy {
	return &Policy{publicURL: strings.TrimSuffix(publicURL, "/")}
}

// Route decides the outbound actions for one classified event. Delivery,
// read, and account-link events are observation-only and produce nothing.
func (p *Policy) Route(ev IncomingEvent) []messenger.SendRequest {
	switch e := ev.(type) {
	case OptInEvent:
		return p.one(messenger.Text(e.SenderID, "Authentication successful"))
	case MessageEvent:
		return p.routeMessage(e)
	case PostbackEvent:
		if fn, ok := postbackTable[e.Payload]; ok {
			return fn(p, e.SenderID)
		}
		return p.one(messenger.Text(e.SenderID, "Postback called"))
	case DeliveryEvent, ReadEvent, AccountLinkEvent, UnknownEvent:
		return nil
	}
	return nil
}

func (p *Policy) routeMessage(e MessageEvent) []messenger.SendRequest {
	if e.IsEcho {
		return nil
	}

	if e.QuickReplyPayload != "" {
		if reply, ok := quickReplyTable[e.QuickReplyPayload]; ok {
			return p.one(messenger.Text(e.SenderID, reply))
		}
		return p.one(messenger.Text(e.SenderID, "Quick reply tapped"))
	}

	if e.Text != "" {
		lower := strings.ToLower(e.Text)

		// Voucher (#v) and send-credit (#sc) markers fire anywhere in the
		// text and bypass the command vocabulary; #v wins when both appear.
		switch {
		case strings.Contains(lower, "#v"):
			return p.one(messenger.Text(e.SenderID, "Your line has been successfully recharged with 300 JMD."))
		case strings.Contains(lower, "#sc"):
			return p.one(p.creditAmounts(e.SenderID))
		}

		if fn, ok := commandTable[lower]; ok {
			return fn(p, e.SenderID)
		}
		return p.InitConversation(e.SenderID)
	}

	if len(e.Attachments) > 0 {
		return p.one(messenger.Text(e.SenderID, "Message with attachment received"))
	}

	return nil
}

// InitConversation is the fixed greeting flow for first contact and
// unmatched input: account options first, promotions second.
func (p *Policy) InitConversation(recipientID string) []messenger.SendRequest {
	return []messenger.SendRequest{
		p.accountOptionsMessage(recipientID),
		p.promotionsMessage(recipientID),
	}
}

func (p *Policy) one(req messenger.SendRequest) []messenger.SendRequest {
	return []messenger.SendRequest{req}
}

func (p *Policy) asset(path string) string {
	return p.publicURL + path
}
