package bot

import (
	"fmt"
	"hash/fnv"

	"github.com/HoussamAlMoughrabiCME/FriendlyRobot/internal/messenger"
)

// Canned page content. Asset paths resolve against the configured public URL
// so the platform can fetch the referenced media.

func (p *Policy) plansMessage(recipientID string) messenger.SendRequest {
	return messenger.GenericTemplate(recipientID,
		messenger.Element{
			Title:    "Be A Millionaire",
			Subtitle: "1st Grand Prize 2,000,000$",
			ItemURL:  "https://product-staging.digicelgroup.com/selfcare3/img/whatsnew/jamjackpot.png",
			ImageURL: p.asset("/assets/jamjackpot.png"),
			Buttons: []messenger.Button{
				messenger.URLButton("Buy Now", "https://product-staging.digicelgroup.com/selfcare3/img/whatsnew/jamjackpot.png"),
			},
		},
		messenger.Element{
			Title:    "LTE Prepaid Smart Plan",
			Subtitle: "1GB - 7 Days for 900$",
			ItemURL:  "https://product-staging.digicelgroup.com/selfcare3/img/whatsnew/jamltepre.png",
			ImageURL: p.asset("/assets/jamltepre.png"),
			Buttons: []messenger.Button{
				messenger.URLButton("Buy Now", "https://product-staging.digicelgroup.com/selfcare3/img/whatsnew/jamltepre.png"),
			},
		},
		messenger.Element{
			Title:    "LTE Prepaid Smart Plan",
			Subtitle: "1GB - 7 Days for 900$",
			ItemURL:  "https://product-staging.digicelgroup.com/selfcare3/img/whatsnew/jamltepre.png",
			ImageURL: p.asset("/assets/jamltepre.png"),
			Buttons: []messenger.Button{
				messenger.URLButton("Buy Now", "https://product-staging.digicelgroup.com/selfcare3/img/whatsnew/jamltepre.png"),
			},
		},
	)
}

func (p *Policy) promotionsMessage(recipientID string) messenger.SendRequest {
	return messenger.GenericTemplate(recipientID,
		messenger.Element{
			Title:    "Be A Millionaire",
			Subtitle: "1st Grand Prize 2,000,000$",
			ImageURL: p.asset("/assets/jamjackpot.png"),
			Buttons: []messenger.Button{
				messenger.PostbackButton("Buy Now", PayloadBuyPlan),
			},
		},
		messenger.Element{
			Title:    "LTE Prepaid Smart Plan",
			Subtitle: "1GB - 7 Days for 900$",
			ImageURL: p.asset("/assets/jamltepre.png"),
			Buttons: []messenger.Button{
				messenger.PostbackButton("Buy Now", PayloadBuyPlanNoCredit),
			},
		},
		messenger.Element{
			Title:    "PROUD SPONSOR OF WEST INDIES CRICKET",
			ImageURL: p.asset("/assets/promo-1.jpg"),
			Buttons: []messenger.Button{
				messenger.URLButton("Read More", "https://www.digicelgroup.com/en/media/news/2016/may/24/-winning-ways-continue-with-new-digicel-wicb-partnership.html"),
			},
		},
		messenger.Element{
			Title:    "GO MOBILE!",
			Subtitle: "Keeping you connected wherever you are.",
			ImageURL: p.asset("/assets/promo-2.jpg"),
			Buttons: []messenger.Button{
				messenger.URLButton("Learn More", "https://www.digicelgroup.com/en/what-we-do/mobile.html"),
			},
		},
		messenger.Element{
			Title:    "COMPLETE BUSINESS SOLUTIONS",
			Subtitle: "Finding the right solution for you",
			ImageURL: p.asset("/assets/promo-3.jpg"),
			Buttons: []messenger.Button{
				messenger.URLButton("Learn More", "https://www.digicelgroup.com/en/what-we-do/business-solutions.html"),
			},
		},
	)
}

func (p *Policy) activePlansMessage(recipientID string) messenger.SendRequest {
	renewDeactivate := []messenger.Button{
		messenger.PostbackButton("Renew", PayloadRenewPlan),
		messenger.PostbackButton("Deactivate", PayloadDeactivatePlan),
	}
	return messenger.GenericTemplate(recipientID,
		messenger.Element{
			Title:    "D'Music Premium Plan",
			Subtitle: "Valid till 30/09/2016 08:05PM",
			Buttons:  renewDeactivate,
		},
		messenger.Element{
			Title:    "In'tl 1000",
			Subtitle: "Valid till 29/09/2016 11:15AM",
			Buttons:  renewDeactivate,
		},
	)
}

func (p *Policy) accountOptionsMessage(recipientID string) messenger.SendRequest {
	return messenger.ButtonTemplate(recipientID, "Account Details",
		messenger.PostbackButton("My Balance & Plans", PayloadBalanceActivePlans),
		messenger.PostbackButton("Add Credits", PayloadAddCredits),
		messenger.PostbackButton("Send Credits", PayloadSendCredits),
	)
}

func (p *Policy) accountLinkingCard(recipientID string) messenger.SendRequest {
	return messenger.GenericTemplate(recipientID,
		messenger.Element{
			Title:    "Welcome to Digicel",
			ImageURL: p.asset("/assets/small-logo.png"),
			Buttons: []messenger.Button{
				messenger.AccountLinkButton(p.asset("/authorize")),
			},
		},
	)
}

func (p *Policy) creditAmounts(recipientID string) messenger.SendRequest {
	return messenger.QuickReplies(recipientID, "Select Transfer Amount: (JMD)",
		messenger.TextQuickReply("15", PayloadCreditAmount),
		messenger.TextQuickReply("25", PayloadCreditAmount),
		messenger.TextQuickReply("50", PayloadCreditAmount),
		messenger.TextQuickReply("100", PayloadCreditAmount),
	)
}

func (p *Policy) buttonDemo(recipientID string) messenger.SendRequest {
	return messenger.ButtonTemplate(recipientID, "This is test text",
		messenger.URLButton("Open Web URL", "https://www.oculus.com/en-us/rift/"),
		messenger.PostbackButton("Trigger Postback", "DEVELOPED_DEFINED_PAYLOAD"),
		messenger.CallButton("Call Phone Number", "+16505551234"),
	)
}

func (p *Policy) genericDemo(recipientID string) messenger.SendRequest {
	return messenger.GenericTemplate(recipientID,
		messenger.Element{
			Title:    "rift",
			Subtitle: "Next-generation virtual reality",
			ItemURL:  "https://www.oculus.com/en-us/rift/",
			ImageURL: p.asset("/assets/rift.png"),
			Buttons: []messenger.Button{
				messenger.URLButton("Open Web URL", "https://www.oculus.com/en-us/rift/"),
				messenger.PostbackButton("Call Postback", "Payload for first bubble"),
			},
		},
		messenger.Element{
			Title:    "touch",
			Subtitle: "Your Hands, Now in VR",
			ItemURL:  "https://www.oculus.com/en-us/touch/",
			ImageURL: p.asset("/assets/touch.png"),
			Buttons: []messenger.Button{
				messenger.URLButton("Open Web URL", "https://www.oculus.com/en-us/touch/"),
				messenger.PostbackButton("Call Postback", "Payload for second bubble"),
			},
		},
	)
}

func (p *Policy) receiptDemo(recipientID string) messenger.SendRequest {
	return messenger.ReceiptTemplate(recipientID, messenger.Receipt{
		RecipientName: "Peter Chang",
		OrderNumber:   orderNumber(recipientID),
		Currency:      "USD",
		PaymentMethod: "Visa 1234",
		Timestamp:     "1428444852",
		LineItems: []messenger.Element{
			{
				Title:    "Oculus Rift",
				Subtitle: "Includes: headset, sensor, remote",
				Quantity: 1,
				Price:    599.00,
				Currency: "USD",
				ImageURL: p.asset("/assets/riftsq.png"),
			},
			{
				Title:    "Samsung Gear VR",
				Subtitle: "Frost White",
				Quantity: 1,
				Price:    99.99,
				Currency: "USD",
				ImageURL: p.asset("/assets/gearvrsq.png"),
			},
		},
		Address: messenger.Address{
			Street1:    "1 Hacker Way",
			Street2:    "",
			City:       "Menlo Park",
			PostalCode: "94025",
			State:      "CA",
			Country:    "US",
		},
		Summary: messenger.Summary{
			Subtotal:     698.99,
			ShippingCost: 20.00,
			TotalTax:     57.67,
			TotalCost:    626.66,
		},
		Adjustments: []messenger.Adjustment{
			{Name: "New Customer Discount", Amount: -50},
			{Name: "$100 Off Coupon", Amount: -100},
		},
	})
}

func (p *Policy) quickReplyDemo(recipientID string) messenger.SendRequest {
	return messenger.QuickReplies(recipientID, "What's your favorite movie genre?",
		messenger.TextQuickReply("Action", "DEVELOPER_DEFINED_PAYLOAD_FOR_PICKING_ACTION"),
		messenger.TextQuickReply("Comedy", "DEVELOPER_DEFINED_PAYLOAD_FOR_PICKING_COMEDY"),
		messenger.TextQuickReply("Drama", "DEVELOPER_DEFINED_PAYLOAD_FOR_PICKING_DRAMA"),
	)
}

// orderNumber derives a stable demo receipt order ID from the recipient; the
// Send API requires order numbers to be unique per order, and keeping it a
// pure function of the event keeps routing deterministic.
func orderNumber(recipientID string) string {
	h := fnv.New32a()
	h.Write([]byte(recipientID))
	return fmt.Sprintf("order%d", h.Sum32()%1000)
}
