// Package coach wraps the LLM client with the wellness-coaching persona:
// it assembles user context from the store, maintains conversation history,
// and records call metrics.
package coach

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hazyhaar/lifewheel/internal/db"
	"github.com/hazyhaar/lifewheel/internal/llm"
)

const systemPrompt = `You are a supportive lifestyle medicine coach. You help the user improve
six pillars of health: nutrition, physical activity, sleep, stress management,
social connection, and avoiding risky substances.

Guidelines:
- Be warm, concise, and practical. Suggest one small next step, not a lecture.
- Ground advice in lifestyle medicine evidence; never diagnose or prescribe.
- Use the wellness snapshot below to personalize your answer.
- If the user mentions self-harm or a medical emergency, tell them to seek
  professional help immediately.`

// historyWindow is how many prior messages are replayed to the model.
const historyWindow = 20

type Coach struct {
	store   *db.DB
	metrics *db.MetricsDB
	client  *llm.Client
	model   string
	maxTok  int
}

func New(store *db.DB, metrics *db.MetricsDB, client *llm.Client, model string, maxTokens int) *Coach {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Coach{store: store, metrics: metrics, client: client, model: model, maxTok: maxTokens}
}

// Available reports whether at least one LLM provider is configured.
func (c *Coach) Available() bool {
	return len(c.client.Providers()) > 0
}

// Chat persists the user message, calls the model with recent history plus a
// wellness snapshot, persists the reply, and returns it.
func (c *Coach) Chat(ctx context.Context, userID int64, message, contextType string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("empty message")
	}
	if _, err := c.store.AddCoachingMessage(userID, "user", message, contextType); err != nil {
		return "", fmt.Errorf("saving message: %w", err)
	}

	history, err := c.store.RecentCoachingMessages(userID, historyWindow)
	if err != nil {
		return "", err
	}

	msgs := []llm.Message{{Role: "system", Content: c.buildSystem(userID)}}
	for _, m := range history {
		msgs = append(msgs, llm.Message{Role: m.Role, Content: m.Content})
	}

	start := time.Now()
	resp, err := c.client.Complete(ctx, llm.Request{
		Model:     c.model,
		Messages:  msgs,
		MaxTokens: c.maxTok,
	})
	if err != nil {
		if c.metrics != nil {
			c.metrics.RecordLLMCall("", c.model, 0, 0, int(time.Since(start).Milliseconds()), false, err.Error())
		}
		return "", fmt.Errorf("coach unavailable: %w", err)
	}
	if c.metrics != nil {
		c.metrics.RecordLLMCall(resp.Provider, resp.Model, resp.TokensIn, resp.TokensOut,
			int(resp.Latency.Milliseconds()), true, "")
	}

	if _, err := c.store.AddCoachingMessage(userID, "assistant", resp.Content, contextType); err != nil {
		return "", fmt.Errorf("saving reply: %w", err)
	}
	return resp.Content, nil
}

// buildSystem appends a wellness snapshot to the persona prompt. Every lookup
// is best-effort; a missing section just drops out of the snapshot.
func (c *Coach) buildSystem(userID int64) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\nWellness snapshot:\n")

	today := time.Now().Format("2006-01-02")

	if wheel, err := c.store.LatestWheel(userID); err == nil && len(wheel) > 0 {
		pillars, _ := c.store.ListPillars()
		names := make(map[int64]string, len(pillars))
		for _, p := range pillars {
			names[p.ID] = p.DisplayName
		}
		b.WriteString("- Latest wheel scores (1-10): ")
		parts := make([]string, 0, len(wheel))
		for _, w := range wheel {
			name := names[w.PillarID]
			if name == "" {
				name = fmt.Sprintf("pillar %d", w.PillarID)
			}
			parts = append(parts, fmt.Sprintf("%s %d", name, w.Score))
		}
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString("\n")
	}

	if ci, err := c.store.GetCheckin(userID, today); err == nil && ci != nil {
		if ci.Mood != nil && ci.Energy != nil {
			fmt.Fprintf(&b, "- Today: mood %d/10, energy %d/10\n", *ci.Mood, *ci.Energy)
		}
		if ci.Challenge != nil && *ci.Challenge != "" {
			fmt.Fprintf(&b, "- Today's challenge: %s\n", *ci.Challenge)
		}
	}
	if streak, err := c.store.CheckinStreak(userID, today); err == nil && streak > 1 {
		fmt.Fprintf(&b, "- Check-in streak: %d days\n", streak)
	}

	if goals, err := c.store.ListGoals(userID, "active"); err == nil && len(goals) > 0 {
		b.WriteString("- Active goals: ")
		parts := make([]string, 0, len(goals))
		for _, g := range goals {
			parts = append(parts, fmt.Sprintf("%s (%d%%)", g.Title, g.ProgressPct))
		}
		b.WriteString(strings.Join(parts, "; "))
		b.WriteString("\n")
	}

	if habits, err := c.store.ListHabits(userID, true); err == nil && len(habits) > 0 {
		names := make([]string, 0, len(habits))
		for _, h := range habits {
			names = append(names, h.Name)
		}
		fmt.Fprintf(&b, "- Tracked habits: %s\n", strings.Join(names, ", "))
	}

	if avgMin, avgScore, err := c.store.AvgSleep(userID, 7); err == nil && avgMin > 0 {
		fmt.Fprintf(&b, "- Sleep (7-night avg): %.1fh, score %.0f/100\n", avgMin/60, avgScore)
	}

	if week, err := c.store.ExerciseWeekSummary(userID, db.WeekStartOf(today)); err == nil && week != nil {
		fmt.Fprintf(&b, "- This week's exercise: %d min moderate, %d min vigorous\n",
			week.ModerateMin, week.VigorousMin)
	}

	if stages, err := c.store.LatestStages(userID); err == nil && len(stages) > 0 {
		parts := make([]string, 0, len(stages))
		for id, stage := range stages {
			parts = append(parts, fmt.Sprintf("pillar %d: %s", id, stage))
		}
		fmt.Fprintf(&b, "- Stage of change: %s\n", strings.Join(parts, ", "))
	}

	return b.String()
}

// ClearHistory wipes the user's conversation so the next chat starts fresh.
func (c *Coach) ClearHistory(userID int64) error {
	return c.store.ClearCoachingHistory(userID)
}
