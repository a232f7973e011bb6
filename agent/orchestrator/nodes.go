package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	classifyx "github.com/nycscout/agent/agent/classify"
	contractx "github.com/nycscout/agent/agent/contract"
	profilex "github.com/nycscout/agent/agent/profile"
	statex "github.com/nycscout/agent/agent/state"
)

const (
	// The single user-facing line for the fatal path: model transport failed.
	apologyReply = "Sorry, I had trouble connecting to the NYC grid. Please try again."

	// Shown when the round cap trips and the model's last round carried no text.
	degradedReply = "I got stuck gathering details for that one. Mind asking again?"

	defaultImagePrompt = "Analyze this image and recommend similar NYC spots."

	profileContextOpen  = "[CURRENT_PROFILE_CONTEXT]"
	profileContextClose = "[END_CONTEXT]"
)

// TurnInput is one user turn against an existing session.
type TurnInput struct {
	Session *statex.Session
	Text    string

	// ImageDataURI is an optional data URI of an uploaded image.
	ImageDataURI string
}

// TurnResult is what the caller renders. UpdatedProfile is nil unless at
// least one update_taste_profile call ran during the turn.
type TurnResult struct {
	DisplayText    string
	Structured     *classifyx.Payload
	UpdatedProfile *profilex.TasteProfile
}

// turnState threads one turn through the graph nodes.
type turnState struct {
	session *statex.Session

	// messages is the working transcript: system prompt, prior history, the
	// new user message, then every round's model and tool messages.
	messages []*schema.Message

	exec *toolExecutor

	rawReply string
	degraded bool
	aborted  bool

	classified classifyx.Result
}

func (o *Orchestrator) validateTurn(in TurnInput) (*turnState, error) {
	if err := in.Session.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrValidation, err)
	}

	text := strings.TrimSpace(in.Text)
	if text == "" && in.ImageDataURI == "" {
		return nil, fmt.Errorf("%w: turn needs text or an image", contractx.ErrValidation)
	}

	messages := make([]*schema.Message, 0, len(in.Session.History)+2)
	messages = append(messages, schema.SystemMessage(o.systemPrompt))
	messages = append(messages, in.Session.History...)
	messages = append(messages, buildUserMessage(text, in.ImageDataURI, in.Session.Profile))

	return &turnState{
		session:  in.Session,
		messages: messages,
		exec: &toolExecutor{
			retriever: o.retriever,
			profile:   in.Session.Profile,
			now:       o.now,
		},
	}, nil
}

// buildUserMessage grounds the model with the serialized profile snapshot and
// attaches the image part when present.
func buildUserMessage(text, imageDataURI string, p profilex.TasteProfile) *schema.Message {
	snapshot, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		snapshot = []byte("{}")
	}
	if text == "" {
		text = defaultImagePrompt
	}
	content := fmt.Sprintf("%s\n%s\n%s\n\n%s", profileContextOpen, snapshot, profileContextClose, text)

	if imageDataURI == "" {
		return schema.UserMessage(content)
	}
	return &schema.Message{
		Role: schema.User,
		MultiContent: []schema.ChatMessagePart{
			{
				Type:     schema.ChatMessagePartTypeImageURL,
				ImageURL: &schema.ChatMessageImageURL{URL: imageDataURI},
			},
			{
				Type: schema.ChatMessagePartTypeText,
				Text: content,
			},
		},
	}
}

// runToolLoop drives the per-turn state machine: send, execute every tool
// call of the round, resubmit, repeat. A transport failure aborts the turn
// (the one fatal path); everything else degrades in place.
func (o *Orchestrator) runToolLoop(ctx context.Context, st *turnState) (*turnState, error) {
	for rounds := 0; ; rounds++ {
		resp, err := o.chatModel.Generate(ctx, st.messages)
		if err != nil {
			err = fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
			log.Error().Err(err).Str("session_id", st.session.SessionID).Msg("orchestrator: model transport failed, aborting turn")
			st.aborted = true
			st.rawReply = apologyReply
			return st, nil
		}

		if len(resp.ToolCalls) == 0 {
			st.messages = append(st.messages, resp)
			st.rawReply = resp.Content
			return st, nil
		}

		if rounds >= o.maxToolRounds {
			log.Warn().Int("rounds", rounds).Str("session_id", st.session.SessionID).
				Msg("orchestrator: tool round cap reached, degrading to text")
			st.degraded = true
			st.rawReply = strings.TrimSpace(resp.Content)
			if st.rawReply == "" {
				st.rawReply = degradedReply
			}
			// resp is dropped: an assistant message with unanswered tool
			// calls must not enter the transcript.
			return st, nil
		}

		st.messages = append(st.messages, resp)
		// Every call of the round executes before any response is resubmitted.
		for _, call := range resp.ToolCalls {
			response := st.exec.execute(ctx, call)
			st.messages = append(st.messages, toolResponseMessage(call, response))
		}
	}
}

func classifyReply(st *turnState) (*turnState, error) {
	if st.aborted {
		st.classified = classifyx.Result{DisplayText: st.rawReply}
		return st, nil
	}
	st.classified = classifyx.Classify(st.rawReply)
	return st, nil
}

// finalizeTurn publishes the turn outcome. An aborted turn publishes nothing:
// the session keeps its prior history and profile.
func (o *Orchestrator) finalizeTurn(st *turnState) (TurnResult, error) {
	if st.aborted {
		return TurnResult{DisplayText: st.rawReply}, nil
	}

	history := st.messages[1:] // strip the system prompt
	if st.degraded {
		history = append(history, schema.AssistantMessage(st.rawReply, nil))
	}
	st.session.Commit(history, st.exec.profile, o.now())

	result := TurnResult{
		DisplayText: st.classified.DisplayText,
		Structured:  st.classified.Structured,
	}
	if st.exec.updated {
		updated := st.exec.profile
		result.UpdatedProfile = &updated
	}
	return result, nil
}
