package orchestrator

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/nycscout/agent/agent/contract"
	profilex "github.com/nycscout/agent/agent/profile"
)

const (
	ToolUpdateTasteProfile = "update_taste_profile"
	ToolSearchRestaurants  = "search_restaurants"
)

// ToolInfos declares the tools the model may call. The schemas here and the
// argument structs in agent/profile and agent/contract must stay in lockstep.
func ToolInfos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolUpdateTasteProfile,
			Desc: "Updates the user's taste profile based on interaction signals. Call this when you detect new preferences.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"update_type": {
					Type:     schema.String,
					Enum:     []string{profilex.UpdateImageUpload, profilex.UpdateTextQuery, profilex.UpdateRecommendationFeedback, profilex.UpdateExplicitPreference},
					Required: true,
				},
				"cuisine_signal": {Type: schema.String, Desc: "Cuisine preference detected (e.g. Italian)"},
				"dish_signal":    {Type: schema.String, Desc: "Specific dish preference detected (e.g. Dosa, Ramen, Bagel)"},
				"vibe_signals": {
					Type:     schema.Array,
					ElemInfo: &schema.ParameterInfo{Type: schema.String},
					Desc:     "Vibe keywords detected",
				},
				"fashion_signal":      {Type: schema.String, Desc: "Fashion aesthetic detected from image (e.g. 'streetwear', 'old_money')"},
				"neighborhood_signal": {Type: schema.String, Desc: "Neighborhood preference detected"},
				"price_signal": {
					Type: schema.String,
					Enum: []string{"$", "$$", "$$$", "$$$$"},
					Desc: "Price preference detected",
				},
				"feedback_restaurant": {Type: schema.String, Desc: "Restaurant name if providing feedback"},
				"feedback_type": {
					Type: schema.String,
					Enum: []string{profilex.FeedbackClicked, profilex.FeedbackSaved, profilex.FeedbackIgnored, profilex.FeedbackRejected},
				},
			}),
		},
		{
			Name: ToolSearchRestaurants,
			Desc: "Searches the internal database for restaurants matching criteria.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"cuisine":      {Type: schema.String, Desc: "Cuisine OR Specific Dish (e.g. 'Dosa')"},
				"neighborhood": {Type: schema.String},
				"vibe": {
					Type:     schema.Array,
					ElemInfo: &schema.ParameterInfo{Type: schema.String},
				},
				"is_viral": {Type: schema.Boolean, Desc: "Filter for viral/trending spots"},
				"price_range": {
					Type: schema.String,
					Enum: []string{"$", "$$", "$$$", "$$$$", "any"},
				},
			}),
		},
	}
}

// toolExecutor dispatches one turn's tool calls. It carries the working
// profile snapshot across rounds; the snapshot only reaches the session once
// the whole turn completes.
type toolExecutor struct {
	retriever contractx.Retriever
	profile   profilex.TasteProfile
	updated   bool
	now       func() time.Time
}

// execute runs a single tool call and returns its response payload. Tool
// failures become payloads the model can react to in natural language; this
// method never fails the turn.
func (e *toolExecutor) execute(ctx context.Context, call schema.ToolCall) map[string]any {
	name := strings.TrimSpace(call.Function.Name)
	log.Debug().Str("tool", name).Str("call_id", call.ID).Msg("orchestrator: executing tool call")

	switch name {
	case ToolUpdateTasteProfile:
		var signals profilex.Signals
		if err := unmarshalArgs(call.Function.Arguments, &signals); err != nil {
			log.Warn().Err(err).Msg("orchestrator: malformed update_taste_profile args, applying as empty bundle")
		}
		e.profile = profilex.Apply(e.profile, signals, e.now())
		e.updated = true
		return map[string]any{"result": "Profile Updated Successfully"}

	case ToolSearchRestaurants:
		var criteria contractx.SearchCriteria
		if err := unmarshalArgs(call.Function.Arguments, &criteria); err != nil {
			return map[string]any{"error": "invalid search criteria: " + err.Error()}
		}
		results := e.retriever.Search(ctx, e.profile, criteria)
		return map[string]any{"results": results}

	default:
		// Forward-compatible no-op for tools this client does not implement.
		log.Warn().Str("tool", name).Msg("orchestrator: unknown tool requested, returning generic success")
		return map[string]any{"result": "Success"}
	}
}

// toolResponseMessage wraps a payload in the {name, call_id, response}
// envelope the model expects and binds it to the originating call id.
func toolResponseMessage(call schema.ToolCall, response map[string]any) *schema.Message {
	envelope := map[string]any{
		"name":     call.Function.Name,
		"call_id":  call.ID,
		"response": response,
	}
	content, err := json.Marshal(envelope)
	if err != nil {
		// Payloads are maps of marshalable values; this is unreachable in
		// practice but must not break the round.
		content = []byte(`{"response":{"error":"failed to encode tool response"}}`)
	}
	return schema.ToolMessage(string(content), call.ID)
}

func unmarshalArgs(raw string, dst any) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return json.Unmarshal([]byte(trimmed), dst)
}
