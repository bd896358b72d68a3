package webhook

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/HoussamAlMoughrabiCME/FriendlyRobot/internal/bot"
	"github.com/HoussamAlMoughrabiCME/FriendlyRobot/internal/config"
	"github.com/HoussamAlMoughrabiCME/FriendlyRobot/internal/messenger"
	"github.com/HoussamAlMoughrabiCME/FriendlyRobot/internal/relay"
	"github.com/HoussamAlMoughrabiCME/FriendlyRobot/internal/security"
)

//go:embed templates/*.html
var templateFS embed.FS

// RecipientResolver resolves an account linking token to a recipient ID.
type RecipientResolver interface {
	LinkedRecipient(ctx context.Context, accountLinkingToken string) (string, error)
}

// Server is the inbound HTTP surface of the bot: the webhook endpoints, the
// account-linking pages, static assets, and a health probe.
type Server struct {
	cfg        *config.Config
	verifier   *security.Verifier
	policy     *bot.Policy
	dispatcher *Dispatcher
	resolver   RecipientResolver
	events     *relay.Client
	log        *slog.Logger
	templates  *template.Template
}

// NewServer wires the webhook server. events may be nil.
func NewServer(
	cfg *config.Config,
	verifier *security.Verifier,
	policy *bot.Policy,
	dispatcher *Dispatcher,
	resolver RecipientResolver,
	events *relay.Client,
	log *slog.Logger,
) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}

	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Server{
		cfg:        cfg,
		verifier:   verifier,
		policy:     policy,
		dispatcher: dispatcher,
		resolver:   resolver,
		events:     events,
		log:        log.With("component", "webhook"),
		templates:  templates,
	}, nil
}

// Handler returns the HTTP handler tree.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", s.handleWebhook)
	mux.HandleFunc("/authorize", s.handleAuthorize)
	mux.HandleFunc("/validateAuth", s.handleValidateAuth)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/assets/", http.StripPrefix("/assets/",
		http.FileServer(http.Dir(s.cfg.Server.AssetsDir))))
	return mux
}

// Run starts the HTTP server. It blocks until ctx is cancelled, at which
// point the server is gracefully shut down.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("webhook listen: %w", err)
	}
	s.log.Info("webhook server listening", "addr", ln.Addr().String())

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("webhook serve: %w", err)
	}
	return nil
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleVerification(w, r)
	case http.MethodPost:
		s.handleBatch(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleVerification responds to the platform's webhook subscription
// challenge: GET /webhook?hub.mode=subscribe&hub.verify_token=T&hub.challenge=C
func (s *Server) handleVerification(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == s.cfg.Messenger.ValidationToken {
		s.log.Info("webhook verification successful")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, challenge)
		return
	}

	s.log.Warn("webhook verification failed",
		"mode", mode,
		"token_match", token == s.cfg.Messenger.ValidationToken)
	http.Error(w, "verification failed", http.StatusForbidden)
}

// handleBatch authenticates, unpacks, and dispatches one webhook delivery.
// Acknowledgment is unconditional for any authenticated, well-formed envelope
// and never waits on the outbound sends the batch triggers; the platform
// redelivers unacknowledged batches after ~20s.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read error", http.StatusBadRequest)
		return
	}

	// Signature failure aborts before any parsing or dispatch. Missing and
	// mismatched signatures are rejected alike.
	if err := s.verifier.Verify(body, r.Header.Get("x-hub-signature")); err != nil {
		s.log.Warn("webhook rejected", "error", err.Error())
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	var batch messenger.WebhookBatch
	if err := json.Unmarshal(body, &batch); err != nil {
		s.log.Warn("webhook: invalid JSON", "error", err.Error())
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if batch.Object != messenger.ObjectPage {
		// Unknown object types are still acknowledged so the platform does
		// not redeliver them forever.
		s.log.Warn("ignoring unrecognized webhook object", "object", batch.Object)
		w.WriteHeader(http.StatusOK)
		return
	}

	for _, entry := range batch.Entry {
		for _, raw := range entry.Messaging {
			s.processEvent(entry.ID, raw)
		}
	}

	w.WriteHeader(http.StatusOK)
}

// processEvent classifies one raw event and schedules its reply actions.
// Failures here are contained: nothing an event does may block or fail the
// batch acknowledgment.
func (s *Server) processEvent(pageID string, raw messenger.MessagingEvent) {
	ev := bot.Classify(raw)
	s.observe(pageID, ev)

	actions := s.policy.Route(ev)
	if len(actions) == 0 {
		return
	}
	s.dispatcher.Dispatch(actions)
}

// observe logs the classified event and mirrors it to the operator relay.
func (s *Server) observe(pageID string, ev bot.IncomingEvent) {
	relayEv := relay.Event{Type: "inbound"}

	switch e := ev.(type) {
	case bot.MessageEvent:
		relayEv.Kind = "message"
		relayEv.SenderID = e.SenderID
		relayEv.Detail = e.Text
		if e.IsEcho {
			s.log.Info("received echo", "mid", e.MID, "app_id", e.AppID)
		} else {
			s.log.Info("received message",
				"sender_id", e.SenderID, "page_id", pageID, "mid", e.MID)
		}
	case bot.PostbackEvent:
		relayEv.Kind = "postback"
		relayEv.SenderID = e.SenderID
		relayEv.Detail = e.Payload
		s.log.Info("received postback",
			"sender_id", e.SenderID, "page_id", pageID, "payload", e.Payload)
	case bot.DeliveryEvent:
		relayEv.Kind = "delivery"
		relayEv.SenderID = e.SenderID
		s.log.Info("received delivery confirmation",
			"watermark", e.Watermark, "mids", len(e.MessageIDs))
	case bot.ReadEvent:
		relayEv.Kind = "read"
		relayEv.SenderID = e.SenderID
		s.log.Info("received read receipt", "watermark", e.Watermark)
	case bot.OptInEvent:
		relayEv.Kind = "optin"
		relayEv.SenderID = e.SenderID
		relayEv.Detail = e.Ref
		s.log.Info("received authentication",
			"sender_id", e.SenderID, "ref", e.Ref)
	case bot.AccountLinkEvent:
		relayEv.Kind = "account_link"
		relayEv.SenderID = e.SenderID
		relayEv.Detail = e.Status
		s.log.Info("received account link event",
			"sender_id", e.SenderID, "status", e.Status)
	case bot.UnknownEvent:
		relayEv.Kind = "unknown"
		s.log.Warn("received unknown messaging event", "page_id", pageID)
	}

	if err := s.events.Publish(relayEv); err != nil {
		s.log.Debug("relay publish failed", "error", err.Error())
	}
}

// handleAuthorize renders the account-linking consent page. The generated
// authorization code is appended to the redirect URI the platform supplied.
func (s *Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	linkingToken := r.URL.Query().Get("account_linking_token")
	redirectURI := r.URL.Query().Get("redirect_uri")
	authCode := uuid.NewString()

	data := struct {
		AccountLinkingToken string
		RedirectURI         string
		RedirectURISuccess  string
	}{
		AccountLinkingToken: linkingToken,
		RedirectURI:         redirectURI,
		RedirectURISuccess:  redirectURI + "&authorization_code=" + authCode,
	}

	if err := s.templates.ExecuteTemplate(w, "authorize.html", data); err != nil {
		s.log.Error("render authorize page failed", "error", err.Error())
	}
}

// handleValidateAuth resolves the linking token against the platform and, on
// success, greets the linked user with the InitConversation sequence.
func (s *Server) handleValidateAuth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	linkingToken := r.URL.Query().Get("account_linking_token")

	linked := false
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	recipientID, err := s.resolver.LinkedRecipient(ctx, linkingToken)
	if err != nil {
		s.log.Error("account linking lookup failed", "error", err.Error())
	} else {
		linked = true
		s.dispatcher.Dispatch(s.policy.InitConversation(recipientID))
	}

	data := struct {
		AccountLinkingToken string
		Linked              bool
	}{
		AccountLinkingToken: linkingToken,
		Linked:              linked,
	}

	if err := s.templates.ExecuteTemplate(w, "validateauth.html", data); err != nil {
		s.log.Error("render validateAuth page failed", "error", err.Error())
	}
}

// handleHealth returns 200 OK.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}
