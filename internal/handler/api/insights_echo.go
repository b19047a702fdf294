package api

import (
	"time"

	models "SalesPulse/internal/domain/models"
	"SalesPulse/internal/service/ratelimit"
	"SalesPulse/internal/usecase"
	xhttp "SalesPulse/pkg/http"
	xlogger "SalesPulse/pkg/logger"
	"SalesPulse/pkg/util"

	"github.com/labstack/echo/v4"
)

// InsightsEchoHandler exposes the analytics surface over Echo.
type InsightsEchoHandler struct {
	logger  *xlogger.Logger
	uc      *usecase.InsightUseCase
	limiter *ratelimit.Limiter
}

func NewInsightsEchoHandler(logger *xlogger.Logger, uc *usecase.InsightUseCase, limiter *ratelimit.Limiter) *InsightsEchoHandler {
	return &InsightsEchoHandler{logger: logger, uc: uc, limiter: limiter}
}

func (h *InsightsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/summary", h.Summary)
	g.GET("/market", h.Market)
	g.GET("/anomalies", h.Anomalies)
	g.GET("/insights", h.Insights)
	g.POST("/generate", h.Generate)
}

func (h *InsightsEchoHandler) Summary(c echo.Context) error {
	req := &models.SummaryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	from, verr := parseWindowBound("from", req.From)
	if verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	to, verr := parseWindowBound("to", req.To)
	if verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.uc.Summary(c.Request().Context(), from, to)
	if err != nil {
		h.logger.Error("summary usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

// parseWindowBound parses an optional YYYY-MM-DD query value. An empty value
// leaves the bound open; anything else must parse or the request fails.
func parseWindowBound(field, raw string) (time.Time, []xhttp.ValidationError) {
	if raw == "" {
		return time.Time{}, nil
	}
	d, ok := util.ParseDate(raw)
	if !ok {
		return time.Time{}, []xhttp.ValidationError{{
			Code:    "ERR_DATE",
			Field:   field,
			Message: field + " must be a date (YYYY-MM-DD)",
		}}
	}
	return d, nil
}

func (h *InsightsEchoHandler) Market(c echo.Context) error {
	res, err := h.uc.MarketView(c.Request().Context())
	if err != nil {
		h.logger.Error("market usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *InsightsEchoHandler) Anomalies(c echo.Context) error {
	req := &models.AnomalyQueryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.uc.Anomalies(c.Request().Context(), req.Threshold)
	if err != nil {
		h.logger.Error("anomalies usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *InsightsEchoHandler) Insights(c echo.Context) error {
	req := &models.AnomalyQueryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.uc.Insights(c.Request().Context(), req.Threshold)
	if err != nil {
		h.logger.Error("insights usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *InsightsEchoHandler) Generate(c echo.Context) error {
	if h.limiter != nil && !h.limiter.Allow(c.RealIP(), 5, 0.5) {
		return xhttp.TooManyRequestsResponse(c)
	}

	req := &models.GenerateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	start, ok := util.ParseDate(req.Start)
	if !ok {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code:    "ERR_DATE",
			Field:   "start",
			Message: "start must be a date (YYYY-MM-DD)",
		}})
	}

	res, err := h.uc.Generate(c.Request().Context(), usecase.GenerateParams{
		Start:   start,
		Periods: req.Periods,
		Seed:    req.Seed,
	})
	if err != nil {
		h.logger.Error("generate usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, res)
}
