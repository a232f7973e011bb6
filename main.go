package main

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	classifyx "github.com/nycscout/agent/agent/classify"
	contractx "github.com/nycscout/agent/agent/contract"
	orchestratorx "github.com/nycscout/agent/agent/orchestrator"
	profilex "github.com/nycscout/agent/agent/profile"
	promptx "github.com/nycscout/agent/agent/prompt"
	"github.com/nycscout/agent/agent/retrieval"
	statex "github.com/nycscout/agent/agent/state"
	configx "github.com/nycscout/agent/pkg/config"
	embeddingx "github.com/nycscout/agent/pkg/embedding"
	geminix "github.com/nycscout/agent/pkg/gemini"
	_ "github.com/nycscout/agent/pkg/logger/autoload"
	vectordbx "github.com/nycscout/agent/pkg/vectordb"
)

type AppConfig struct {
	SessionID string `envconfig:"SESSION_ID" split_words:"true" default:"scout-local"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("")
	geminiCfg := configx.MustNew[geminix.Config]("GEMINI")
	embedCfg := configx.MustNew[embeddingx.Config]("EMBEDDING")

	ctx := context.Background()

	chatModel, err := geminiCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("create chat model")
	}

	embedder, err := embeddingx.NewEngine(ctx, *embedCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("create embedding engine")
	}

	retriever, err := retrieval.New(embedder, newSearcher())
	if err != nil {
		log.Fatal().Err(err).Msg("create retriever")
	}

	orch, err := orchestratorx.New(ctx, chatModel, retriever, promptx.System(), orchestratorx.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("create orchestrator")
	}

	store := statex.NewMemoryStore()
	session, err := store.LoadOrCreate(ctx, appCfg.SessionID, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("create session")
	}

	fmt.Println("NYC Scout ready. Tell me what you're craving, or:")
	fmt.Println("  /image <path> [text]   analyze a photo")
	fmt.Println("  /save <name>           save a recommended spot")
	fmt.Println("  /reject <name>         reject a recommended spot")
	fmt.Println("  /profile               show the taste profile")
	fmt.Println("  /quit                  exit")

	repl(ctx, orch, session)
}

// newSearcher connects the vector index if SUPABASE_DSN is configured; an
// unconfigured or unreachable index means every search serves the fallback
// dataset through the retrieval adapter.
func newSearcher() contractx.RestaurantSearcher {
	cfg, err := configx.New[vectordbx.Config]("SUPABASE")
	if err != nil {
		log.Warn().Err(err).Msg("vector index not configured, searches will use the fallback dataset")
		return offlineSearcher{}
	}

	store, err := vectordbx.New(*cfg)
	if err != nil {
		log.Warn().Err(err).Msg("vector index unavailable, searches will use the fallback dataset")
		return offlineSearcher{}
	}
	return store
}

type offlineSearcher struct{}

func (offlineSearcher) Match(context.Context, []float32, float64, int) ([]contractx.RestaurantRecord, error) {
	return nil, contractx.ErrSearch
}

func repl(ctx context.Context, orch *orchestratorx.Orchestrator, session *statex.Session) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/quit" || line == "/exit":
			return

		case line == "/profile":
			printJSON(session.Profile)

		case strings.HasPrefix(line, "/save "):
			applyFeedback(session, strings.TrimSpace(strings.TrimPrefix(line, "/save ")), profilex.FeedbackSaved)

		case strings.HasPrefix(line, "/reject "):
			applyFeedback(session, strings.TrimSpace(strings.TrimPrefix(line, "/reject ")), profilex.FeedbackRejected)

		case strings.HasPrefix(line, "/image "):
			rest := strings.TrimSpace(strings.TrimPrefix(line, "/image "))
			path, text, _ := strings.Cut(rest, " ")
			uri, err := imageDataURI(path)
			if err != nil {
				fmt.Printf("could not read image: %v\n", err)
				continue
			}
			runTurn(ctx, orch, session, strings.TrimSpace(text), uri)

		default:
			runTurn(ctx, orch, session, line, "")
		}
	}
}

func runTurn(ctx context.Context, orch *orchestratorx.Orchestrator, session *statex.Session, text, imageDataURI string) {
	out, err := orch.SendTurn(ctx, orchestratorx.TurnInput{
		Session:      session,
		Text:         text,
		ImageDataURI: imageDataURI,
	})
	if err != nil {
		log.Error().Err(err).Msg("turn failed")
		fmt.Println("Something went wrong with that one.")
		return
	}
	render(out)
}

func render(out orchestratorx.TurnResult) {
	if out.Structured == nil {
		fmt.Println(out.DisplayText)
		return
	}

	switch out.Structured.Kind {
	case classifyx.KindRecommendations:
		printJSON(out.Structured.Recommendations)
	case classifyx.KindWeeklyPicks:
		printJSON(out.Structured.WeeklyPicks)
	case classifyx.KindItinerary:
		printJSON(out.Structured.Itinerary)
	}
}

func applyFeedback(session *statex.Session, restaurant, kind string) {
	if restaurant == "" {
		fmt.Println("usage: /save <name> or /reject <name>")
		return
	}
	now := time.Now()
	updated := profilex.Apply(session.Profile, profilex.Signals{
		UpdateType:         profilex.UpdateRecommendationFeedback,
		FeedbackRestaurant: restaurant,
		FeedbackType:       kind,
	}, now)
	session.ReplaceProfile(updated, now)
	fmt.Printf("Noted: %s %s\n", restaurant, kind)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%+v\n", v)
		return
	}
	fmt.Println(string(out))
}

func imageDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	mime := "image/jpeg"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		mime = "image/png"
	case ".webp":
		mime = "image/webp"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
