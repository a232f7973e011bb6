package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	classifyx "github.com/nycscout/agent/agent/classify"
	contractx "github.com/nycscout/agent/agent/contract"
	profilex "github.com/nycscout/agent/agent/profile"
	statex "github.com/nycscout/agent/agent/state"
)

// fakeChatModel replays a scripted sequence of responses and records every
// transcript it was asked to complete.
type fakeChatModel struct {
	script []scriptedResponse
	calls  [][]*schema.Message
	tools  []*schema.ToolInfo
}

type scriptedResponse struct {
	msg *schema.Message
	err error
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	snapshot := append([]*schema.Message(nil), input...)
	f.calls = append(f.calls, snapshot)

	if len(f.script) == 0 {
		return nil, errors.New("fake model script exhausted")
	}
	next := f.script[0]
	f.script = f.script[1:]
	return next.msg, next.err
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func (f *fakeChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	f.tools = tools
	return f, nil
}

// loopingChatModel requests the same tool call on every round, forever.
type loopingChatModel struct {
	fakeChatModel
	rounds int
}

func (f *loopingChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.rounds++
	return schema.AssistantMessage("", []schema.ToolCall{searchCall("loop", `{"cuisine": "Thai"}`)}), nil
}

func (f *loopingChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return f, nil
}

type stubRetriever struct {
	lastCriteria contractx.SearchCriteria
	results      []contractx.Restaurant
}

func (s *stubRetriever) Search(_ context.Context, _ profilex.TasteProfile, criteria contractx.SearchCriteria) []contractx.Restaurant {
	s.lastCriteria = criteria
	return s.results
}

func searchCall(id, args string) schema.ToolCall {
	return schema.ToolCall{
		ID:       id,
		Function: schema.FunctionCall{Name: ToolSearchRestaurants, Arguments: args},
	}
}

func updateCall(id, args string) schema.ToolCall {
	return schema.ToolCall{
		ID:       id,
		Function: schema.FunctionCall{Name: ToolUpdateTasteProfile, Arguments: args},
	}
}

func newTestSession(t *testing.T) *statex.Session {
	t.Helper()
	session, err := statex.NewSession("s1", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	return session
}

func newTestOrchestrator(t *testing.T, chatModel model.ToolCallingChatModel, retriever contractx.Retriever, cfg Config) *Orchestrator {
	t.Helper()
	o, err := New(context.Background(), chatModel, retriever, "You are NYC Scout.", cfg)
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if _, err := New(ctx, nil, &stubRetriever{}, "prompt", Config{}); err == nil {
		t.Fatal("expected error for nil chat model")
	}
	if _, err := New(ctx, &fakeChatModel{}, nil, "prompt", Config{}); err == nil {
		t.Fatal("expected error for nil retriever")
	}
	if _, err := New(ctx, &fakeChatModel{}, &stubRetriever{}, "  ", Config{}); err == nil {
		t.Fatal("expected error for blank system prompt")
	}
}

func TestNewRegistersTools(t *testing.T) {
	t.Parallel()

	chatModel := &fakeChatModel{}
	newTestOrchestrator(t, chatModel, &stubRetriever{}, Config{})

	if len(chatModel.tools) != 2 {
		t.Fatalf("expected 2 registered tools, got %d", len(chatModel.tools))
	}
	names := map[string]bool{}
	for _, tool := range chatModel.tools {
		names[tool.Name] = true
	}
	if !names[ToolUpdateTasteProfile] || !names[ToolSearchRestaurants] {
		t.Fatalf("unexpected tool set: %v", names)
	}
}

func TestSendTurnRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(t, &fakeChatModel{}, &stubRetriever{}, Config{})
	_, err := o.SendTurn(context.Background(), TurnInput{Session: newTestSession(t), Text: "   "})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestSendTurnPlainReply(t *testing.T) {
	t.Parallel()

	chatModel := &fakeChatModel{script: []scriptedResponse{
		{msg: schema.AssistantMessage("The West Village is a safe bet.", nil)},
	}}
	o := newTestOrchestrator(t, chatModel, &stubRetriever{}, Config{})
	session := newTestSession(t)

	out, err := o.SendTurn(context.Background(), TurnInput{Session: session, Text: "date night ideas?"})
	if err != nil {
		t.Fatal(err)
	}

	if out.DisplayText != "The West Village is a safe bet." {
		t.Fatalf("unexpected display text %q", out.DisplayText)
	}
	if out.Structured != nil {
		t.Fatalf("expected no structured payload, got %+v", out.Structured)
	}
	if out.UpdatedProfile != nil {
		t.Fatal("profile must not report as updated without an update tool call")
	}

	// Committed history is user + assistant, system prompt stripped.
	if len(session.History) != 2 {
		t.Fatalf("expected 2 history messages, got %d", len(session.History))
	}
	if session.History[0].Role != schema.User || session.History[1].Role != schema.Assistant {
		t.Fatalf("unexpected history roles: %v %v", session.History[0].Role, session.History[1].Role)
	}
}

func TestSendTurnGroundsUserMessageWithProfile(t *testing.T) {
	t.Parallel()

	chatModel := &fakeChatModel{script: []scriptedResponse{
		{msg: schema.AssistantMessage("ok", nil)},
	}}
	o := newTestOrchestrator(t, chatModel, &stubRetriever{}, Config{})

	_, err := o.SendTurn(context.Background(), TurnInput{Session: newTestSession(t), Text: "hi"})
	if err != nil {
		t.Fatal(err)
	}

	sent := chatModel.calls[0]
	if sent[0].Role != schema.System {
		t.Fatalf("first message must be the system prompt, got %v", sent[0].Role)
	}
	user := sent[len(sent)-1]
	if !strings.Contains(user.Content, profileContextOpen) || !strings.Contains(user.Content, profileContextClose) {
		t.Fatalf("user message missing profile context markers:\n%s", user.Content)
	}
	if !strings.Contains(user.Content, `"session_id": "s1"`) {
		t.Fatalf("user message missing serialized profile:\n%s", user.Content)
	}
	if !strings.HasSuffix(user.Content, "hi") {
		t.Fatalf("user text must follow the context block:\n%s", user.Content)
	}
}

func TestSendTurnImageOnly(t *testing.T) {
	t.Parallel()

	chatModel := &fakeChatModel{script: []scriptedResponse{
		{msg: schema.AssistantMessage("Looks like ramen.", nil)},
	}}
	o := newTestOrchestrator(t, chatModel, &stubRetriever{}, Config{})

	_, err := o.SendTurn(context.Background(), TurnInput{
		Session:      newTestSession(t),
		ImageDataURI: "data:image/jpeg;base64,abc",
	})
	if err != nil {
		t.Fatal(err)
	}

	sent := chatModel.calls[0]
	user := sent[len(sent)-1]
	if len(user.MultiContent) != 2 {
		t.Fatalf("expected image and text parts, got %d", len(user.MultiContent))
	}
	if user.MultiContent[0].Type != schema.ChatMessagePartTypeImageURL {
		t.Fatalf("first part must be the image, got %v", user.MultiContent[0].Type)
	}
	if !strings.Contains(user.MultiContent[1].Text, defaultImagePrompt) {
		t.Fatalf("expected default image prompt, got:\n%s", user.MultiContent[1].Text)
	}
}

func TestSendTurnToolRound(t *testing.T) {
	t.Parallel()

	chatModel := &fakeChatModel{script: []scriptedResponse{
		{msg: schema.AssistantMessage("", []schema.ToolCall{
			updateCall("call-1", `{"update_type": "text_query", "cuisine_signal": "Thai"}`),
			searchCall("call-2", `{"cuisine": "Thai", "is_viral": true}`),
		})},
		{msg: schema.AssistantMessage("Try Ugly Baby in Carroll Gardens.", nil)},
	}}
	retriever := &stubRetriever{results: []contractx.Restaurant{{Name: "Ugly Baby"}}}
	o := newTestOrchestrator(t, chatModel, retriever, Config{})
	session := newTestSession(t)

	out, err := o.SendTurn(context.Background(), TurnInput{Session: session, Text: "thai tonight, something viral"})
	if err != nil {
		t.Fatal(err)
	}

	if out.DisplayText != "Try Ugly Baby in Carroll Gardens." {
		t.Fatalf("unexpected display text %q", out.DisplayText)
	}

	if out.UpdatedProfile == nil {
		t.Fatal("expected updated profile after update_taste_profile call")
	}
	if got := out.UpdatedProfile.CuisineIntelligence.Favorites["Thai"]; got == 0 {
		t.Fatal("cuisine signal not applied to profile")
	}
	if session.Profile.CuisineIntelligence.Favorites["Thai"] == 0 {
		t.Fatal("updated profile not committed to session")
	}

	if retriever.lastCriteria.Cuisine != "Thai" || !retriever.lastCriteria.IsViral {
		t.Fatalf("search criteria not decoded: %+v", retriever.lastCriteria)
	}

	// The second request must carry both tool responses, bound to their call
	// ids, after the assistant message that requested them.
	second := chatModel.calls[1]
	var toolMsgs []*schema.Message
	for _, m := range second {
		if m.Role == schema.Tool {
			toolMsgs = append(toolMsgs, m)
		}
	}
	if len(toolMsgs) != 2 {
		t.Fatalf("expected 2 tool responses resubmitted, got %d", len(toolMsgs))
	}
	if toolMsgs[0].ToolCallID != "call-1" || toolMsgs[1].ToolCallID != "call-2" {
		t.Fatalf("tool responses bound to wrong call ids: %q %q", toolMsgs[0].ToolCallID, toolMsgs[1].ToolCallID)
	}

	var envelope struct {
		Name     string         `json:"name"`
		CallID   string         `json:"call_id"`
		Response map[string]any `json:"response"`
	}
	if err := json.Unmarshal([]byte(toolMsgs[0].Content), &envelope); err != nil {
		t.Fatalf("tool response is not a JSON envelope: %v", err)
	}
	if envelope.Name != ToolUpdateTasteProfile || envelope.CallID != "call-1" {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
	if envelope.Response["result"] != "Profile Updated Successfully" {
		t.Fatalf("unexpected update response: %+v", envelope.Response)
	}
}

func TestSendTurnStructuredReply(t *testing.T) {
	t.Parallel()

	reply := "```json\n[{\"name\": \"Kiki's\", \"neighborhood\": \"LES\", \"cuisine\": \"Greek\", \"price\": \"$$\"}]\n```"
	chatModel := &fakeChatModel{script: []scriptedResponse{
		{msg: schema.AssistantMessage(reply, nil)},
	}}
	o := newTestOrchestrator(t, chatModel, &stubRetriever{}, Config{})

	out, err := o.SendTurn(context.Background(), TurnInput{Session: newTestSession(t), Text: "greek spots?"})
	if err != nil {
		t.Fatal(err)
	}

	if out.Structured == nil || out.Structured.Kind != classifyx.KindRecommendations {
		t.Fatalf("expected recommendations payload, got %+v", out)
	}
	if out.DisplayText != "" {
		t.Fatalf("display text must be empty for structured replies, got %q", out.DisplayText)
	}
}

func TestSendTurnTransportFailureAbortsWithoutCommit(t *testing.T) {
	t.Parallel()

	chatModel := &fakeChatModel{script: []scriptedResponse{
		{err: errors.New("connection reset")},
	}}
	o := newTestOrchestrator(t, chatModel, &stubRetriever{}, Config{})
	session := newTestSession(t)

	out, err := o.SendTurn(context.Background(), TurnInput{Session: session, Text: "hi"})
	if err != nil {
		t.Fatal(err)
	}

	if out.DisplayText != apologyReply {
		t.Fatalf("expected apology, got %q", out.DisplayText)
	}
	if out.Structured != nil || out.UpdatedProfile != nil {
		t.Fatalf("aborted turn must carry nothing else: %+v", out)
	}
	if len(session.History) != 0 {
		t.Fatalf("aborted turn must not commit history, got %d messages", len(session.History))
	}
	if session.Profile.ProfileMetadata.TotalInteractions != 0 {
		t.Fatal("aborted turn must not touch the profile")
	}
}

func TestSendTurnRoundCapDegrades(t *testing.T) {
	t.Parallel()

	chatModel := &loopingChatModel{}
	o := newTestOrchestrator(t, chatModel, &stubRetriever{}, Config{MaxToolRounds: 3})
	session := newTestSession(t)

	out, err := o.SendTurn(context.Background(), TurnInput{Session: session, Text: "keep searching"})
	if err != nil {
		t.Fatal(err)
	}

	if chatModel.rounds != 4 {
		t.Fatalf("expected cap after 3 full rounds plus the capped one, got %d generates", chatModel.rounds)
	}
	if out.DisplayText != degradedReply {
		t.Fatalf("expected degraded reply, got %q", out.DisplayText)
	}

	// The committed transcript must end with plain assistant text; a trailing
	// assistant message with unanswered tool calls would break the next turn.
	last := session.History[len(session.History)-1]
	if last.Role != schema.Assistant || len(last.ToolCalls) != 0 {
		t.Fatalf("transcript ends with dangling tool calls: %+v", last)
	}
	if last.Content != degradedReply {
		t.Fatalf("unexpected final transcript message %q", last.Content)
	}
}

func TestSendTurnCarriesHistoryForward(t *testing.T) {
	t.Parallel()

	chatModel := &fakeChatModel{script: []scriptedResponse{
		{msg: schema.AssistantMessage("first", nil)},
		{msg: schema.AssistantMessage("second", nil)},
	}}
	o := newTestOrchestrator(t, chatModel, &stubRetriever{}, Config{})
	session := newTestSession(t)

	ctx := context.Background()
	if _, err := o.SendTurn(ctx, TurnInput{Session: session, Text: "one"}); err != nil {
		t.Fatal(err)
	}
	if _, err := o.SendTurn(ctx, TurnInput{Session: session, Text: "two"}); err != nil {
		t.Fatal(err)
	}

	// Second request replays the first turn's transcript after the system
	// prompt.
	second := chatModel.calls[1]
	if len(second) != 4 {
		t.Fatalf("expected system + 2 history + user, got %d messages", len(second))
	}
	if second[2].Content != "first" {
		t.Fatalf("history not carried forward: %q", second[2].Content)
	}
	if len(session.History) != 4 {
		t.Fatalf("expected 4 committed messages after two turns, got %d", len(session.History))
	}
}
