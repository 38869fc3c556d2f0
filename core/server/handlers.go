package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m3rciful/kondate/core/kondate"
	"github.com/m3rciful/kondate/core/logger"
	"github.com/m3rciful/kondate/core/sender"
	"github.com/m3rciful/kondate/core/slack"
	"log/slog"
)

const (
	msgTokenUnset    = "`SLACK_VERIFICATION_TOKEN` needs to be set."
	msgTokenInvalid  = "`SLACK_VERIFICATION_TOKEN` is invalid."
	msgStale         = "This message is out of date. Use the latest prompt."
	msgFinished      = "This menu is already decided or canceled."
	msgUnsupported   = "Unsupported action."
	msgPostFailed    = "Could not start planning, try again later."
	msgPlanning      = "Planning today's menu..."
	msgEmptyMessage  = "The message carries no dialog to advance."
	msgMissingAction = "The payload carries no action."
)

// Poster delivers a message into a channel. Satisfied by slack.Client.
type Poster interface {
	PostMessage(ctx context.Context, channel string, msg slack.Message) error
}

// handleAction advances the conversation carried by an interactive
// callback and answers with the updated message, which the client
// renders in place of the previous one. Only actions[0] is consulted;
// the client sends one interaction per callback.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	raw := r.FormValue("payload")
	if raw == "" {
		http.Error(w, "missing payload", http.StatusBadRequest)
		return
	}

	p, err := slack.ParseInteraction(raw)
	if err != nil {
		logger.Warn(ctx, "http", "action.decode_failed", slog.String("err", err.Error()))
		http.Error(w, "malformed payload", http.StatusBadRequest)
		return
	}

	ctx = logger.WithRequestMeta(ctx, p.User.Name, p.Channel.ID)

	if text, ok := s.verifyToken(ctx, p.Token); !ok {
		writeJSON(w, slack.NewEphemeral(text))
		return
	}

	act, err := p.Action()
	if err != nil {
		logger.Warn(ctx, "http", "action.missing", slog.String("err", err.Error()))
		writeJSON(w, slack.NewEphemeral(msgMissingAction))
		return
	}

	advanced, err := kondate.Advance(p.OriginalMessage.Attachments, act)
	if err != nil {
		logger.Warn(ctx, "flow", "advance.rejected",
			slog.String("status", "rejected"),
			slog.String("action", act.Name),
			slog.String("err", err.Error()),
		)
		writeJSON(w, slack.NewEphemeral(rejectText(err)))
		return
	}

	logger.Info(ctx, "flow", "advance.ok",
		slog.String("action", act.Name),
		slog.String("value", logger.SanitizeLimit(act.SelectedValue, 64)),
		slog.Int("attachments", len(advanced)),
		slog.Bool("terminal", advanced.Terminal()),
	)

	msg := p.OriginalMessage
	msg.Attachments = advanced
	writeJSON(w, msg)
}

// handleOptions answers the choices for the step a select control is
// being rendered for. Unknown steps degrade to an empty list so the
// client shows an empty select instead of an error.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	raw := r.FormValue("payload")
	if raw == "" {
		http.Error(w, "missing payload", http.StatusBadRequest)
		return
	}

	p, err := slack.ParseOptionsRequest(raw)
	if err != nil {
		logger.Warn(ctx, "http", "options.decode_failed", slog.String("err", err.Error()))
		http.Error(w, "malformed payload", http.StatusBadRequest)
		return
	}

	step, ok := kondate.ParseStep(p.CallbackID)
	if !ok {
		logger.Warn(ctx, "http", "options.unknown_step",
			slog.String("step", logger.SanitizeLimit(p.CallbackID, 64)),
		)
		writeJSON(w, slack.OptionsResponse{Options: []kondate.Option{}})
		return
	}

	opts := s.catalog.Options(step)
	logger.Debug(ctx, "http", "options.served",
		slog.String("step", string(step)),
		slog.Int("options", len(opts)),
	)
	writeJSON(w, slack.OptionsResponse{Options: opts})
}

// handleCommand seeds a new conversation: it builds the breakfast
// prompt and hands it to the outbound dispatcher. Delivery is
// fire-and-forget; a failed post is logged by the sender and never
// leaves state behind, so the next command starts clean.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := r.FormValue("user_name")
	channel := r.FormValue("channel_id")
	if channel == "" {
		channel = s.cfg.Slack.DefaultChannel
	}
	ctx = logger.WithRequestMeta(ctx, user, channel)

	if text, ok := s.verifyToken(ctx, r.FormValue("token")); !ok {
		writeJSON(w, slack.NewEphemeral(text))
		return
	}
	if channel == "" {
		writeJSON(w, slack.NewEphemeral(msgPostFailed))
		return
	}

	msg := slack.NewConversationMessage()
	if err := s.post(ctx, channel, msg); err != nil {
		logger.Error(ctx, "http", "command.post_failed", slog.String("err", err.Error()))
		writeJSON(w, slack.NewEphemeral(msgPostFailed))
		return
	}
	writeJSON(w, slack.NewEphemeral(msgPlanning))
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// post enqueues the delivery when a dispatcher is wired and falls back
// to a synchronous send when the queue is saturated or absent.
func (s *Server) post(ctx context.Context, channel string, msg slack.Message) error {
	if s.dispatcher == nil {
		return s.poster.PostMessage(ctx, channel, msg)
	}
	run := func() error {
		// Detached from the request context: the response returns
		// before delivery completes.
		return s.poster.PostMessage(context.Background(), channel, msg)
	}
	if err := s.dispatcher.Enqueue(ctx, "post.message", "chat.postMessage", run); err != nil {
		if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
			logger.Warn(ctx, "slack.sender", "queue.fallback", slog.String("err", err.Error()))
			return run()
		}
		return err
	}
	return nil
}

// verifyToken checks the incoming token against the configured secret.
// Both failure modes are recoverable and user-visible only.
func (s *Server) verifyToken(ctx context.Context, token string) (string, bool) {
	secret := s.cfg.Slack.VerificationToken
	if secret == "" {
		logger.Info(ctx, "http", "auth.secret_unset")
		return msgTokenUnset, false
	}
	if token != secret {
		logger.Info(ctx, "http", "auth.token_invalid")
		return msgTokenInvalid, false
	}
	return "", true
}

func rejectText(err error) string {
	switch {
	case errors.Is(err, kondate.ErrStepMismatch):
		return msgStale
	case errors.Is(err, kondate.ErrTerminal):
		return msgFinished
	case errors.Is(err, kondate.ErrEmptyConversation):
		return msgEmptyMessage
	default:
		return msgUnsupported
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error(context.Background(), "http", "response.encode_failed", slog.String("err", err.Error()))
	}
}
