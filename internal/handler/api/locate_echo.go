package api

import (
	"net/http"
	"sync"
	"time"

	"LedgerSeek/internal/domain/models"
	drepo "LedgerSeek/internal/domain/repository"
	"LedgerSeek/internal/service/ratelimit"
	"LedgerSeek/internal/usecase"
	xhttp "LedgerSeek/pkg/http"
	xlogger "LedgerSeek/pkg/logger"
	"LedgerSeek/pkg/util"

	"github.com/labstack/echo/v4"
)

// LocateEchoHandler serves the locate API. Searches run one at a time: the
// locator issues strictly sequential oracle calls and the WebSocket
// transport supports no concurrent use.
type LocateEchoHandler struct {
	logger  *xlogger.Logger
	locator *usecase.Locator
	metrics drepo.Metrics
	history drepo.HistoryStore // nil when history is disabled
	limiter *ratelimit.Limiter

	rateCapacity float64
	rateRefill   float64

	searchMu sync.Mutex
}

func NewLocateEchoHandler(
	logger *xlogger.Logger,
	locator *usecase.Locator,
	metrics drepo.Metrics,
	history drepo.HistoryStore,
	rateCapacity, rateRefill float64,
) *LocateEchoHandler {
	if rateCapacity <= 0 {
		rateCapacity = 5
	}
	if rateRefill <= 0 {
		rateRefill = 1
	}
	return &LocateEchoHandler{
		logger:       logger,
		locator:      locator,
		metrics:      metrics,
		history:      history,
		limiter:      ratelimit.New(),
		rateCapacity: rateCapacity,
		rateRefill:   rateRefill,
	}
}

func (h *LocateEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/locate", h.Locate)
	g.GET("/history", h.History)
	e.GET("/healthz", h.Healthz)
}

func (h *LocateEchoHandler) Locate(c echo.Context) error {
	if !h.limiter.Allow(c.RealIP(), h.rateCapacity, h.rateRefill) {
		return xhttp.TooManyRequestsResponse(c)
	}

	req := &models.LocateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	at, ok := util.ParseTime(req.Time)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("cannot parse time %q", req.Time))
	}
	target := util.ToRippleTime(at)

	h.searchMu.Lock()
	start := time.Now()
	res, err := h.locator.Locate(c.Request().Context(), target)
	dur := time.Since(start)
	h.searchMu.Unlock()

	if err != nil {
		h.metrics.RecordError("search")
		h.logger.Error("locate failed", xlogger.Int64("target", target), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadGatewayError("ledger lookup failed").WithError(err))
	}

	h.metrics.RecordSearch(res.Iterations, dur)
	h.metrics.RecordLocated(res.Sample.Sequence)
	h.recordHistory(c, target, res, dur)

	return xhttp.SuccessResponse(c, &models.LocateResponse{
		Sequence:   res.Sample.Sequence,
		CloseTime:  res.Sample.CloseTime,
		ClosedAt:   util.FormatRippleTime(res.Sample.CloseTime),
		ExactMatch: res.ExactMatch,
		Iterations: res.Iterations,
		DurationMS: dur.Milliseconds(),
	})
}

func (h *LocateEchoHandler) History(c echo.Context) error {
	if h.history == nil {
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_DISABLED", "", "lookup history is not enabled", http.StatusNotFound))
	}

	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rows, err := h.history.Recent(c.Request().Context(), req.Limit)
	if err != nil {
		h.logger.Error("history query failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *LocateEchoHandler) Healthz(c echo.Context) error {
	if h.history != nil {
		if err := h.history.Health(c.Request().Context()); err != nil {
			return xhttp.AppErrorResponse(c, xhttp.InternalError("history store unavailable").WithError(err))
		}
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *LocateEchoHandler) recordHistory(c echo.Context, target int64, res usecase.Result, dur time.Duration) {
	if h.history == nil {
		return
	}
	l := &models.Lookup{
		Target:     target,
		Sequence:   res.Sample.Sequence,
		CloseTime:  res.Sample.CloseTime,
		Iterations: res.Iterations,
		DurationMS: dur.Milliseconds(),
	}
	if err := h.history.Record(c.Request().Context(), l); err != nil {
		h.logger.Warn("history record failed", xlogger.Error(err))
	}
}
