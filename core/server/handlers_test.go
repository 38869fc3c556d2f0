package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/kondate/core/config"
	"github.com/m3rciful/kondate/core/kondate"
	"github.com/m3rciful/kondate/core/slack"
)

type fakePoster struct {
	channel string
	msg     slack.Message
	calls   int
	err     error
}

func (f *fakePoster) PostMessage(_ context.Context, channel string, msg slack.Message) error {
	f.calls++
	f.channel = channel
	f.msg = msg
	return f.err
}

func testConfig() *coreconfig.Config {
	cfg := &coreconfig.Config{}
	cfg.Slack.VerificationToken = "sekrit"
	cfg.Slack.DefaultChannel = "C-default"
	if err := coreconfig.Normalize(cfg); err != nil {
		panic(err)
	}
	return cfg
}

func newTestServer(t *testing.T, cfg *coreconfig.Config, poster Poster) http.Handler {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	if poster == nil {
		poster = &fakePoster{}
	}
	return New(cfg, nil, poster, nil).Handler()
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func interactionPayload(t *testing.T, token string, msg slack.Message, actions []slack.PayloadAction) string {
	t.Helper()
	raw, err := json.Marshal(slack.InteractionPayload{
		Token:           token,
		CallbackID:      "breakfast",
		User:            slack.User{ID: "U1", Name: "alice"},
		Channel:         slack.Channel{ID: "C1"},
		OriginalMessage: msg,
		Actions:         actions,
	})
	require.NoError(t, err)
	return string(raw)
}

func decodeEphemeral(t *testing.T, rec *httptest.ResponseRecorder) slack.Ephemeral {
	t.Helper()
	var eph slack.Ephemeral
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &eph))
	return eph
}

func selectAction(step, value string) []slack.PayloadAction {
	return []slack.PayloadAction{{
		Name:            step,
		Type:            "select",
		SelectedOptions: []slack.SelectedOption{{Value: value}},
	}}
}

func TestActionAdvancesConversation(t *testing.T) {
	h := newTestServer(t, nil, nil)
	msg := slack.NewConversationMessage()
	payload := interactionPayload(t, "sekrit", msg, selectAction("breakfast", "toast"))

	rec := postForm(t, h, "/action", url.Values{"payload": {payload}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var got slack.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, " ", got.Text)
	require.Len(t, got.Attachments, 2)
	assert.Equal(t, "@alice eats toast!", got.Attachments[0].Fields[0].Value)
	assert.Equal(t, "lunch", got.Attachments[1].CallbackID)
}

func TestActionCancelEndsConversation(t *testing.T) {
	h := newTestServer(t, nil, nil)
	msg := slack.NewConversationMessage()
	payload := interactionPayload(t, "sekrit", msg, []slack.PayloadAction{{
		Name: "cancel", Type: "button", Value: "cancel",
	}})

	rec := postForm(t, h, "/action", url.Values{"payload": {payload}})
	require.Equal(t, http.StatusOK, rec.Code)

	var got slack.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Attachments, 1)
	assert.True(t, got.Attachments.Terminal())
	assert.Equal(t, "@alice canceled", got.Attachments[0].Fields[0].Title)
}

func TestActionRejectsInvalidToken(t *testing.T) {
	h := newTestServer(t, nil, nil)
	payload := interactionPayload(t, "wrong", slack.NewConversationMessage(), selectAction("breakfast", "toast"))

	rec := postForm(t, h, "/action", url.Values{"payload": {payload}})
	require.Equal(t, http.StatusOK, rec.Code)

	eph := decodeEphemeral(t, rec)
	assert.Equal(t, "ephemeral", eph.ResponseType)
	assert.False(t, eph.ReplaceOriginal)
	assert.Equal(t, "`SLACK_VERIFICATION_TOKEN` is invalid.", eph.Text)
}

func TestActionRejectsWhenTokenUnset(t *testing.T) {
	cfg := testConfig()
	cfg.Slack.VerificationToken = ""
	h := newTestServer(t, cfg, nil)
	payload := interactionPayload(t, "anything", slack.NewConversationMessage(), selectAction("breakfast", "toast"))

	rec := postForm(t, h, "/action", url.Values{"payload": {payload}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "`SLACK_VERIFICATION_TOKEN` needs to be set.", decodeEphemeral(t, rec).Text)
}

func TestActionRejectsStaleCallback(t *testing.T) {
	h := newTestServer(t, nil, nil)
	// Message already past breakfast, but a dinner click arrives.
	msg := slack.Message{Attachments: kondate.Conversation{
		kondate.NewResolved(kondate.StepBreakfast, "alice", "toast"),
		kondate.NewPending(kondate.StepLunch),
	}}
	payload := interactionPayload(t, "sekrit", msg, selectAction("dinner", "sushi"))

	rec := postForm(t, h, "/action", url.Values{"payload": {payload}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "This message is out of date. Use the latest prompt.", decodeEphemeral(t, rec).Text)
}

func TestActionRejectsTerminalConversation(t *testing.T) {
	h := newTestServer(t, nil, nil)
	msg := slack.Message{Attachments: kondate.Conversation{kondate.NewCanceled("alice")}}
	payload := interactionPayload(t, "sekrit", msg, selectAction("breakfast", "toast"))

	rec := postForm(t, h, "/action", url.Values{"payload": {payload}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "This menu is already decided or canceled.", decodeEphemeral(t, rec).Text)
}

func TestActionRejectsMissingPayload(t *testing.T) {
	h := newTestServer(t, nil, nil)
	rec := postForm(t, h, "/action", url.Values{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestActionRejectsMalformedPayload(t *testing.T) {
	h := newTestServer(t, nil, nil)
	rec := postForm(t, h, "/action", url.Values{"payload": {"{broken"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestActionRejectsPayloadWithoutActions(t *testing.T) {
	h := newTestServer(t, nil, nil)
	payload := interactionPayload(t, "sekrit", slack.NewConversationMessage(), nil)

	rec := postForm(t, h, "/action", url.Values{"payload": {payload}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "The payload carries no action.", decodeEphemeral(t, rec).Text)
}

func TestOptionsForKnownStep(t *testing.T) {
	h := newTestServer(t, nil, nil)
	rec := postForm(t, h, "/options", url.Values{"payload": {`{"token":"sekrit","callback_id":"dinner"}`}})
	require.Equal(t, http.StatusOK, rec.Code)

	var got slack.OptionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, []kondate.Option{
		{Text: "sushi", Value: "sushi"},
		{Text: "tempura", Value: "tempura"},
		{Text: "sukiyaki", Value: "sukiyaki"},
	}, got.Options)
}

func TestOptionsForUnknownStep(t *testing.T) {
	h := newTestServer(t, nil, nil)
	rec := postForm(t, h, "/options", url.Values{"payload": {`{"callback_id":"brunch"}`}})
	require.Equal(t, http.StatusOK, rec.Code)

	var got slack.OptionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotNil(t, got.Options)
	assert.Empty(t, got.Options)
}

func TestCommandPostsInitialPrompt(t *testing.T) {
	poster := &fakePoster{}
	h := newTestServer(t, nil, poster)

	rec := postForm(t, h, "/command", url.Values{
		"token":      {"sekrit"},
		"user_name":  {"alice"},
		"channel_id": {"C42"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Planning today's menu...", decodeEphemeral(t, rec).Text)

	require.Equal(t, 1, poster.calls)
	assert.Equal(t, "C42", poster.channel)
	require.Len(t, poster.msg.Attachments, 1)
	assert.Equal(t, "breakfast", poster.msg.Attachments[0].CallbackID)
}

func TestCommandFallsBackToDefaultChannel(t *testing.T) {
	poster := &fakePoster{}
	h := newTestServer(t, nil, poster)

	rec := postForm(t, h, "/command", url.Values{"token": {"sekrit"}, "user_name": {"alice"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "C-default", poster.channel)
}

func TestCommandReportsPostFailure(t *testing.T) {
	poster := &fakePoster{err: errors.New("boom")}
	h := newTestServer(t, nil, poster)

	rec := postForm(t, h, "/command", url.Values{
		"token":      {"sekrit"},
		"channel_id": {"C42"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Could not start planning, try again later.", decodeEphemeral(t, rec).Text)
}

func TestCommandRejectsInvalidToken(t *testing.T) {
	poster := &fakePoster{}
	h := newTestServer(t, nil, poster)

	rec := postForm(t, h, "/command", url.Values{"token": {"wrong"}, "channel_id": {"C42"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "`SLACK_VERIFICATION_TOKEN` is invalid.", decodeEphemeral(t, rec).Text)
	assert.Zero(t, poster.calls)
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, nil, nil)
	// Generate one observation first.
	postForm(t, h, "/options", url.Values{"payload": {`{"callback_id":"lunch"}`}})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "kondate_http_requests_total")
}
