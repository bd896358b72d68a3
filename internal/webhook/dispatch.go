package webhook

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/HoussamAlMoughrabiCME/FriendlyRobot/internal/messenger"
	"github.com/HoussamAlMoughrabiCME/FriendlyRobot/internal/relay"
)

const sendTimeout = 15 * time.Second

// Sender delivers one built payload to the platform.
type Sender interface {
	Send(ctx context.Context, req messenger.SendRequest) (*messenger.SendResponse, error)
}

// Dispatcher runs outbound action sequences as fire-and-forget tasks. The
// webhook acknowledgment never waits on it: one event's actions are issued in
// order inside a single task, but tasks for different events are unordered
// and their failures are observed only through logs and the operator relay.
type Dispatcher struct {
	sender Sender
	events *relay.Client
	sem    chan struct{}
	wg     sync.WaitGroup
	log    *slog.Logger
}

// NewDispatcher creates a Dispatcher running at most maxWorkers concurrent
// action sequences. events may be nil.
func NewDispatcher(sender Sender, events *relay.Client, maxWorkers int, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		sender: sender,
		events: events,
		sem:    make(chan struct{}, maxWorkers),
		log:    log.With("component", "dispatch"),
	}
}

// Dispatch schedules one event's action sequence and returns immediately.
func (d *Dispatcher) Dispatch(actions []messenger.SendRequest) {
	if len(actions) == 0 {
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.sem <- struct{}{}
		defer func() { <-d.sem }()
		defer func() {
			if r := recover(); r != nil {
				d.log.Error("recovered panic in send task", "panic", fmt.Sprintf("%v", r))
			}
		}()

		for _, action := range actions {
			d.send(action)
		}
	}()
}

// Close waits for in-flight send tasks to drain, bounded by ctx.
func (d *Dispatcher) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain send tasks: %w", ctx.Err())
	}
}

func (d *Dispatcher) send(req messenger.SendRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	kind := actionKind(req)
	resp, err := d.sender.Send(ctx, req)
	if err != nil {
		// Deliberately swallowed: the webhook was already acknowledged, so
		// a failed send is a local diagnostic, not a request error.
		d.log.Error("send failed",
			"kind", kind,
			"recipient_id", req.Recipient.ID,
			"error", err.Error())
		d.publish(relay.Event{
			Type:        "outbound",
			Kind:        kind,
			RecipientID: req.Recipient.ID,
			Error:       err.Error(),
		})
		return
	}

	d.publish(relay.Event{
		Type:        "outbound",
		Kind:        kind,
		RecipientID: resp.RecipientID,
		MessageID:   resp.MessageID,
	})
}

func (d *Dispatcher) publish(ev relay.Event) {
	if err := d.events.Publish(ev); err != nil {
		d.log.Debug("relay publish failed", "error", err.Error())
	}
}

// actionKind names an outbound payload for diagnostics.
func actionKind(req messenger.SendRequest) string {
	switch {
	case req.SenderAction != "":
		return "sender_action:" + req.SenderAction
	case req.Message == nil:
		return "empty"
	case req.Message.Attachment != nil && req.Message.Attachment.Payload.TemplateType != "":
		return req.Message.Attachment.Payload.TemplateType + "_template"
	case req.Message.Attachment != nil:
		return req.Message.Attachment.Type + "_attachment"
	case len(req.Message.QuickReplies) > 0:
		return "quick_replies"
	default:
		return "text"
	}
}
