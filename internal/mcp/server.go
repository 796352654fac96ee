// Package mcp registers the core lifewheel tools on an MCP server.
// These tools let MCP clients (coaching agents, automation) read and
// write wellness data on behalf of a user.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/lifewheel/internal/db"
	"github.com/hazyhaar/lifewheel/pkg/audit"
	"github.com/hazyhaar/pkg/kit"
)

// NewServer creates an MCP server with all core lifewheel tools registered.
func NewServer(database *db.DB, auditLog audit.Logger) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: "lifewheel", Version: "0.1.0"}, nil)

	registerLogCheckin(srv, database, auditLog)
	registerToggleHabit(srv, database, auditLog)
	registerRecordWheel(srv, database, auditLog)
	registerLogGoalProgress(srv, database, auditLog)
	registerWheelSnapshot(srv, database)
	registerListGoals(srv, database)
	registerListHabits(srv, database)
	registerCoinBalance(srv, database)
	registerWellnessStats(srv, database)

	return srv
}

// --- log_checkin ---

func registerLogCheckin(srv *mcp.Server, database *db.DB, auditLog audit.Logger) {
	var endpoint kit.Endpoint = func(ctx context.Context, request any) (any, error) {
		r := request.(*logCheckinReq)
		if r.UserID <= 0 {
			return nil, errors.New("user_id is required")
		}
		date := r.CheckinDate
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		c := db.DailyCheckin{UserID: r.UserID, CheckinDate: date}
		if r.Mood > 0 {
			c.Mood = &r.Mood
		}
		if r.Energy > 0 {
			c.Energy = &r.Energy
		}
		if r.Journal != "" {
			c.JournalEntry = &r.Journal
		}
		if r.Gratitude != "" {
			c.Gratitude = &r.Gratitude
		}
		if r.WinOfDay != "" {
			c.WinOfDay = &r.WinOfDay
		}
		if err := database.UpsertDailyCheckin(c); err != nil {
			return nil, err
		}
		awarded, _ := database.AwardCoins(r.UserID, 10, "daily_checkin", date)
		streak, _ := database.CheckinStreak(r.UserID, date)
		return map[string]any{"checkin_date": date, "coins_awarded": awarded, "streak": streak}, nil
	}
	if auditLog != nil {
		endpoint = audit.Middleware(auditLog, "log_checkin")(endpoint)
	}

	schema, _ := json.Marshal(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"user_id":      map[string]string{"type": "integer", "description": "User ID"},
			"checkin_date": map[string]string{"type": "string", "description": "Date YYYY-MM-DD (defaults to today)"},
			"mood":         map[string]string{"type": "integer", "description": "Mood 1-10"},
			"energy":       map[string]string{"type": "integer", "description": "Energy 1-10"},
			"journal":      map[string]string{"type": "string", "description": "Free-form journal entry"},
			"gratitude":    map[string]string{"type": "string", "description": "Gratitude note"},
			"win_of_day":   map[string]string{"type": "string", "description": "Win of the day"},
		},
		"required": []string{"user_id"},
	})
	tool := &mcp.Tool{Name: "log_checkin", Description: "Record or update a daily wellness check-in", InputSchema: json.RawMessage(schema)}

	kit.RegisterMCPTool(srv, tool, endpoint, func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := arguments(req)
		return &kit.MCPDecodeResult{Request: &logCheckinReq{
			UserID:      int64Arg(args, "user_id"),
			CheckinDate: stringArg(args, "checkin_date"),
			Mood:        intArg(args, "mood", 0),
			Energy:      intArg(args, "energy", 0),
			Journal:     stringArg(args, "journal"),
			Gratitude:   stringArg(args, "gratitude"),
			WinOfDay:    stringArg(args, "win_of_day"),
		}}, nil
	})
}

type logCheckinReq struct {
	UserID      int64  `json:"user_id"`
	CheckinDate string `json:"checkin_date"`
	Mood        int    `json:"mood"`
	Energy      int    `json:"energy"`
	Journal     string `json:"journal"`
	Gratitude   string `json:"gratitude"`
	WinOfDay    string `json:"win_of_day"`
}

// --- toggle_habit ---

func registerToggleHabit(srv *mcp.Server, database *db.DB, auditLog audit.Logger) {
	var endpoint kit.Endpoint = func(ctx context.Context, request any) (any, error) {
		r := request.(*toggleHabitReq)
		date := r.Date
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		count, err := database.ToggleHabitLog(r.HabitID, r.UserID, date)
		if err != nil {
			return nil, err
		}
		return map[string]any{"habit_id": r.HabitID, "log_date": date, "completed_count": count}, nil
	}
	if auditLog != nil {
		endpoint = audit.Middleware(auditLog, "toggle_habit")(endpoint)
	}

	schema, _ := json.Marshal(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"user_id":  map[string]string{"type": "integer", "description": "User ID"},
			"habit_id": map[string]string{"type": "integer", "description": "Habit ID"},
			"date":     map[string]string{"type": "string", "description": "Date YYYY-MM-DD (defaults to today)"},
		},
		"required": []string{"user_id", "habit_id"},
	})
	tool := &mcp.Tool{Name: "toggle_habit", Description: "Toggle a habit's completion for a date", InputSchema: json.RawMessage(schema)}

	kit.RegisterMCPTool(srv, tool, endpoint, func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := arguments(req)
		return &kit.MCPDecodeResult{Request: &toggleHabitReq{
			UserID:  int64Arg(args, "user_id"),
			HabitID: int64Arg(args, "habit_id"),
			Date:    stringArg(args, "date"),
		}}, nil
	})
}

type toggleHabitReq struct {
	UserID  int64  `json:"user_id"`
	HabitID int64  `json:"habit_id"`
	Date    string `json:"date"`
}

// --- record_wheel ---

func registerRecordWheel(srv *mcp.Server, database *db.DB, auditLog audit.Logger) {
	var endpoint kit.Endpoint = func(ctx context.Context, request any) (any, error) {
		r := request.(*recordWheelReq)
		if len(r.Scores) == 0 {
			return nil, errors.New("at least one pillar score is required")
		}
		scores := make([]db.PillarScore, 0, len(r.Scores))
		for _, s := range r.Scores {
			if s.Score < 1 || s.Score > 10 {
				return nil, errors.New("scores must be between 1 and 10")
			}
			scores = append(scores, db.PillarScore{PillarID: s.PillarID, Score: s.Score, Notes: s.Notes})
		}
		sessionID, err := database.RecordWheelAssessment(r.UserID, scores)
		if err != nil {
			return nil, err
		}
		return map[string]any{"session_id": sessionID, "pillars_scored": len(scores)}, nil
	}
	if auditLog != nil {
		endpoint = audit.Middleware(auditLog, "record_wheel")(endpoint)
	}

	schema, _ := json.Marshal(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"user_id": map[string]string{"type": "integer", "description": "User ID"},
			"scores": map[string]any{
				"type":        "array",
				"description": "One entry per pillar",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"pillar_id": map[string]string{"type": "integer", "description": "Pillar ID"},
						"score":     map[string]string{"type": "integer", "description": "Satisfaction 1-10"},
						"notes":     map[string]string{"type": "string", "description": "Optional notes"},
					},
					"required": []string{"pillar_id", "score"},
				},
			},
		},
		"required": []string{"user_id", "scores"},
	})
	tool := &mcp.Tool{Name: "record_wheel", Description: "Record a wheel-of-life assessment (one score per pillar)", InputSchema: json.RawMessage(schema)}

	kit.RegisterMCPTool(srv, tool, endpoint, func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := arguments(req)
		r := &recordWheelReq{UserID: int64Arg(args, "user_id")}
		if raw, ok := args["scores"].([]any); ok {
			for _, item := range raw {
				m, ok := item.(map[string]any)
				if !ok {
					continue
				}
				r.Scores = append(r.Scores, wheelScore{
					PillarID: int64Arg(m, "pillar_id"),
					Score:    intArg(m, "score", 0),
					Notes:    stringArg(m, "notes"),
				})
			}
		}
		return &kit.MCPDecodeResult{Request: r}, nil
	})
}

type wheelScore struct {
	PillarID int64  `json:"pillar_id"`
	Score    int    `json:"score"`
	Notes    string `json:"notes"`
}

type recordWheelReq struct {
	UserID int64        `json:"user_id"`
	Scores []wheelScore `json:"scores"`
}

// --- log_goal_progress ---

func registerLogGoalProgress(srv *mcp.Server, database *db.DB, auditLog audit.Logger) {
	var endpoint kit.Endpoint = func(ctx context.Context, request any) (any, error) {
		r := request.(*goalProgressReq)
		if r.ProgressPct < 0 || r.ProgressPct > 100 {
			return nil, errors.New("progress_pct must be between 0 and 100")
		}
		if err := database.LogGoalProgress(r.GoalID, r.UserID, r.ProgressPct, nil, r.Notes); err != nil {
			return nil, err
		}
		return map[string]any{"goal_id": r.GoalID, "progress_pct": r.ProgressPct}, nil
	}
	if auditLog != nil {
		endpoint = audit.Middleware(auditLog, "log_goal_progress")(endpoint)
	}

	schema, _ := json.Marshal(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"user_id":      map[string]string{"type": "integer", "description": "User ID"},
			"goal_id":      map[string]string{"type": "integer", "description": "Goal ID"},
			"progress_pct": map[string]string{"type": "integer", "description": "Progress 0-100"},
			"notes":        map[string]string{"type": "string", "description": "Optional progress notes"},
		},
		"required": []string{"user_id", "goal_id", "progress_pct"},
	})
	tool := &mcp.Tool{Name: "log_goal_progress", Description: "Record progress on an active goal", InputSchema: json.RawMessage(schema)}

	kit.RegisterMCPTool(srv, tool, endpoint, func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := arguments(req)
		return &kit.MCPDecodeResult{Request: &goalProgressReq{
			UserID:      int64Arg(args, "user_id"),
			GoalID:      int64Arg(args, "goal_id"),
			ProgressPct: intArg(args, "progress_pct", 0),
			Notes:       stringArg(args, "notes"),
		}}, nil
	})
}

type goalProgressReq struct {
	UserID      int64  `json:"user_id"`
	GoalID      int64  `json:"goal_id"`
	ProgressPct int    `json:"progress_pct"`
	Notes       string `json:"notes"`
}

// --- wheel_snapshot ---

func registerWheelSnapshot(srv *mcp.Server, database *db.DB) {
	schema, _ := json.Marshal(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"user_id": map[string]string{"type": "integer", "description": "User ID"},
		},
		"required": []string{"user_id"},
	})
	tool := &mcp.Tool{Name: "wheel_snapshot", Description: "Get the latest wheel-of-life scores and change stages per pillar", InputSchema: json.RawMessage(schema)}

	kit.RegisterMCPTool(srv, tool, func(ctx context.Context, request any) (any, error) {
		r := request.(*userReq)
		wheel, err := database.LatestWheel(r.UserID)
		if err != nil {
			return nil, err
		}
		stages, _ := database.LatestStages(r.UserID)
		return map[string]any{"wheel": wheel, "stages": stages}, nil
	}, func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := arguments(req)
		return &kit.MCPDecodeResult{Request: &userReq{UserID: int64Arg(args, "user_id")}}, nil
	})
}

type userReq struct {
	UserID int64 `json:"user_id"`
}

// --- list_goals ---

func registerListGoals(srv *mcp.Server, database *db.DB) {
	schema, _ := json.Marshal(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"user_id": map[string]string{"type": "integer", "description": "User ID"},
			"status":  map[string]string{"type": "string", "description": "Filter: active, completed, paused, abandoned (default active)"},
		},
		"required": []string{"user_id"},
	})
	tool := &mcp.Tool{Name: "list_goals", Description: "List a user's goals, optionally filtered by status", InputSchema: json.RawMessage(schema)}

	kit.RegisterMCPTool(srv, tool, func(ctx context.Context, request any) (any, error) {
		r := request.(*listGoalsReq)
		status := r.Status
		if status == "" {
			status = "active"
		}
		goals, err := database.ListGoals(r.UserID, status)
		if err != nil {
			return nil, err
		}
		return map[string]any{"goals": goals, "count": len(goals)}, nil
	}, func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := arguments(req)
		return &kit.MCPDecodeResult{Request: &listGoalsReq{
			UserID: int64Arg(args, "user_id"),
			Status: stringArg(args, "status"),
		}}, nil
	})
}

type listGoalsReq struct {
	UserID int64  `json:"user_id"`
	Status string `json:"status"`
}

// --- list_habits ---

func registerListHabits(srv *mcp.Server, database *db.DB) {
	schema, _ := json.Marshal(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"user_id": map[string]string{"type": "integer", "description": "User ID"},
			"date":    map[string]string{"type": "string", "description": "Include completion for this date (defaults to today)"},
		},
		"required": []string{"user_id"},
	})
	tool := &mcp.Tool{Name: "list_habits", Description: "List active habits with completion counts for a date", InputSchema: json.RawMessage(schema)}

	kit.RegisterMCPTool(srv, tool, func(ctx context.Context, request any) (any, error) {
		r := request.(*listHabitsReq)
		date := r.Date
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		habits, err := database.ListHabits(r.UserID, true)
		if err != nil {
			return nil, err
		}
		logs, _ := database.HabitLogsForDate(r.UserID, date)
		done := make(map[int64]int, len(logs))
		for _, l := range logs {
			done[l.HabitID] = l.CompletedCount
		}
		out := make([]map[string]any, 0, len(habits))
		for _, h := range habits {
			out = append(out, map[string]any{
				"id":              h.ID,
				"name":            h.Name,
				"frequency":       h.Frequency,
				"target_per_day":  h.TargetPerDay,
				"completed_count": done[h.ID],
			})
		}
		return map[string]any{"date": date, "habits": out}, nil
	}, func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := arguments(req)
		return &kit.MCPDecodeResult{Request: &listHabitsReq{
			UserID: int64Arg(args, "user_id"),
			Date:   stringArg(args, "date"),
		}}, nil
	})
}

type listHabitsReq struct {
	UserID int64  `json:"user_id"`
	Date   string `json:"date"`
}

// --- coin_balance ---

func registerCoinBalance(srv *mcp.Server, database *db.DB) {
	schema, _ := json.Marshal(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"user_id": map[string]string{"type": "integer", "description": "User ID"},
		},
		"required": []string{"user_id"},
	})
	tool := &mcp.Tool{Name: "coin_balance", Description: "Get a user's current wellness coin balance", InputSchema: json.RawMessage(schema)}

	kit.RegisterMCPTool(srv, tool, func(ctx context.Context, request any) (any, error) {
		r := request.(*userReq)
		balance, err := database.CoinBalance(r.UserID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"balance": balance}, nil
	}, func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := arguments(req)
		return &kit.MCPDecodeResult{Request: &userReq{UserID: int64Arg(args, "user_id")}}, nil
	})
}

// --- wellness_stats ---

func registerWellnessStats(srv *mcp.Server, database *db.DB) {
	schema, _ := json.Marshal(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"user_id": map[string]string{"type": "integer", "description": "User ID"},
		},
		"required": []string{"user_id"},
	})
	tool := &mcp.Tool{Name: "wellness_stats", Description: "Get a cross-pillar summary: check-in streak, sleep average, weekly exercise minutes, habit completion, coin balance", InputSchema: json.RawMessage(schema)}

	kit.RegisterMCPTool(srv, tool, func(ctx context.Context, request any) (any, error) {
		r := request.(*userReq)
		today := time.Now().Format("2006-01-02")
		weekStart := db.WeekStartOf(today)

		stats := map[string]any{"date": today}
		if streak, err := database.CheckinStreak(r.UserID, today); err == nil {
			stats["checkin_streak"] = streak
		}
		if avgMin, avgScore, err := database.AvgSleep(r.UserID, 7); err == nil && avgMin > 0 {
			stats["avg_sleep_min"] = avgMin
			stats["avg_sleep_score"] = avgScore
		}
		if week, err := database.ExerciseWeekSummary(r.UserID, weekStart); err == nil && week != nil {
			stats["exercise_moderate_min"] = week.ModerateMin
			stats["exercise_vigorous_min"] = week.VigorousMin
		}
		if pct, err := database.HabitCompletionPct(r.UserID, weekStart, today); err == nil {
			stats["habit_completion_pct"] = pct
		}
		if balance, err := database.CoinBalance(r.UserID); err == nil {
			stats["coin_balance"] = balance
		}
		return stats, nil
	}, func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := arguments(req)
		return &kit.MCPDecodeResult{Request: &userReq{UserID: int64Arg(args, "user_id")}}, nil
	})
}

// --- helpers ---

func arguments(req *mcp.CallToolRequest) map[string]any {
	args := map[string]any{}
	if len(req.Params.Arguments) > 0 {
		_ = json.Unmarshal(req.Params.Arguments, &args)
	}
	return args
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func intArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	default:
		return def
	}
}

func int64Arg(args map[string]any, key string) int64 {
	return int64(intArg(args, key, 0))
}
