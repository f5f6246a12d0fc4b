package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"

	botdb "herhaalbot/internal/bot/db"
	"herhaalbot/internal/bot/services"
)

const maxListLimit = 100

// RunHistory is the read side of the run history.
type RunHistory interface {
	ListRuns(ctx context.Context, limit int) ([]botdb.Run, error)
	GetRun(ctx context.Context, runID string) (*botdb.Run, error)
}

type RunHandler struct {
	History RunHistory
	Runner  services.Runner
}

func NewRunHandler(history RunHistory, runner services.Runner) *RunHandler {
	return &RunHandler{History: history, Runner: runner}
}

// RegisterRoutes mounts the admin routes on h.
func RegisterRoutes(h *server.Hertz, rh *RunHandler) {
	h.GET("/ping", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(http.StatusOK, utils.H{"message": "pong"})
	})
	runGroup := h.Group("/runs")
	{
		runGroup.GET("", rh.ListRuns)
		runGroup.GET("/:id", rh.GetRun)
	}
	h.POST("/admin/run", rh.TriggerRun)
}

type OutcomeResponse struct {
	Title    string `json:"title"`
	Action   string `json:"action"`
	Interval string `json:"interval"`
	Page     string `json:"page"`
	Template string `json:"template"`
}

type FailureResponse struct {
	Title string `json:"title,omitempty"`
	Line  int    `json:"line,omitempty"`
	Stage string `json:"stage"`
	Error string `json:"error"`
}

type RunResponse struct {
	ID             string            `json:"id"`
	ProcessingDate string            `json:"processing_date"`
	Gated          bool              `json:"gated"`
	Forced         bool              `json:"forced"`
	Outcomes       []OutcomeResponse `json:"outcomes"`
	Failures       []FailureResponse `json:"failures"`
}

func newRunResponse(report *services.RunReport) RunResponse {
	resp := RunResponse{
		ID:             report.ID,
		ProcessingDate: report.ProcessingDate.Format("2006-01-02"),
		Gated:          report.Gated,
		Forced:         report.Forced,
		Outcomes:       make([]OutcomeResponse, 0, len(report.Outcomes)),
		Failures:       make([]FailureResponse, 0, len(report.Failures)),
	}
	for _, o := range report.Outcomes {
		resp.Outcomes = append(resp.Outcomes, OutcomeResponse{
			Title: o.Title, Action: string(o.Action), Interval: o.Interval, Page: o.Page, Template: o.Template,
		})
	}
	for _, f := range report.Failures {
		resp.Failures = append(resp.Failures, FailureResponse{Title: f.Title, Line: f.Line, Stage: f.Stage, Error: f.Err.Error()})
	}
	return resp
}

func (h *RunHandler) ListRuns(ctx context.Context, c *app.RequestContext) {
	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, utils.H{"error": "Invalid limit: " + limitStr})
			return
		}
		limit = min(parsed, maxListLimit)
	}
	runs, err := h.History.ListRuns(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.H{"error": "Failed to fetch runs: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, runs)
}

func (h *RunHandler) GetRun(ctx context.Context, c *app.RequestContext) {
	runID := c.Param("id")
	run, err := h.History.GetRun(ctx, runID)
	if errors.Is(err, services.ErrRunNotFound) {
		c.JSON(http.StatusNotFound, utils.H{"error": "Run not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.H{"error": "Failed to fetch run: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, run)
}

// TriggerRun runs the bot now. With force=true the last-day-of-month check is skipped.
func (h *RunHandler) TriggerRun(ctx context.Context, c *app.RequestContext) {
	force := false
	if forceStr := c.Query("force"); forceStr != "" {
		parsed, err := strconv.ParseBool(forceStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.H{"error": "Invalid force flag: " + forceStr})
			return
		}
		force = parsed
	}

	hlog.CtxInfof(ctx, "Manual run requested (force=%t)", force)
	report, err := h.Runner.Run(ctx, services.RunOptions{Force: force})
	if err != nil {
		hlog.CtxErrorf(ctx, "Manual run failed: %v", err)
		c.JSON(http.StatusBadGateway, utils.H{"error": "Run failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, newRunResponse(report))
}
