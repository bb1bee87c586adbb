package api

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"scan-sync/core/logger"
	"scan-sync/core/qr"
	"scan-sync/core/report"
	"scan-sync/core/session"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the session API.
type Handler struct {
	service   *Service
	publicURL string
}

// NewHandler creates a new HTTP handler. publicURL is embedded into join QR
// payloads so scanners know where to connect.
func NewHandler(service *Service, publicURL string) *Handler {
	return &Handler{service: service, publicURL: publicURL}
}

// RegisterRoutes registers the API routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/api")
	group.Post("/upload", h.HandleUpload)
	group.Get("/session", h.HandleGetSession)
	group.Delete("/session", h.HandleClearSession)
	group.Post("/scan", h.HandleScan)
	group.Post("/catalog", h.HandleReplaceCatalog)
	group.Get("/stats", h.HandleStats)
	group.Get("/report", h.HandleReport)
	group.Get("/qr", h.HandleQR)
	group.Get("/health", h.HandleHealth)
}

// scanRequest is the body of POST /api/scan.
type scanRequest struct {
	// Session is the six-symbol session code.
	Session string `json:"session"`
	// Code is the scanned value.
	Code string `json:"code"`
}

// HandleUpload creates a session from an uploaded catalog file.
// @Summary Upload catalog
// @Description Create a new inventory session from a CSV or XLSX catalog file.
// @Tags session
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Catalog file (.csv or .xlsx)"
// @Success 201 {object} session.Session "Created session"
// @Failure 400 {object} map[string]string "Empty or malformed catalog"
// @Router /api/upload [post]
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	file, err := c.FormFile("file")
	if err != nil {
		return h.fail(c, l, fmt.Errorf("%w: missing catalog file", session.ErrInvalidInput))
	}
	src, err := file.Open()
	if err != nil {
		return h.fail(c, l, fmt.Errorf("failed to open upload: %w", err))
	}
	defer src.Close()

	s, err := h.service.Upload(c.Context(), file.Filename, src)
	if err != nil {
		return h.fail(c, l, err)
	}
	return c.Status(fiber.StatusCreated).JSON(s)
}

// HandleGetSession returns the full session snapshot.
// @Summary Get session
// @Description Fetch the authoritative session state, catalog and ledger included.
// @Tags session
// @Produce json
// @Param code query string true "Session code"
// @Success 200 {object} session.Session "Session snapshot"
// @Failure 404 {object} map[string]string "Unknown or expired session"
// @Router /api/session [get]
func (h *Handler) HandleGetSession(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	s, err := h.service.Snapshot(c.Context(), c.Query("code"))
	if err != nil {
		return h.fail(c, l, err)
	}
	return c.JSON(s)
}

// HandleClearSession destroys a session.
// @Summary Clear session
// @Description Destroy a session. Clearing an unknown session succeeds.
// @Tags session
// @Produce json
// @Param code query string true "Session code"
// @Success 200 {object} map[string]string "Cleared"
// @Router /api/session [delete]
func (h *Handler) HandleClearSession(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if err := h.service.Clear(c.Context(), c.Query("code")); err != nil {
		return h.fail(c, l, err)
	}
	return c.JSON(fiber.Map{"status": "cleared"})
}

// HandleScan submits one scanned code.
// @Summary Submit scan
// @Description Classify a scanned code against the session and record it.
// @Tags scan
// @Accept json
// @Produce json
// @Param request body scanRequest true "Session code and scanned value"
// @Success 200 {object} session.Decision "Classifier decision"
// @Failure 404 {object} map[string]string "Unknown or expired session"
// @Router /api/scan [post]
func (h *Handler) HandleScan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req scanRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, l, fmt.Errorf("%w: malformed scan body", session.ErrInvalidInput))
	}

	decision, err := h.service.Scan(c.Context(), req.Session, req.Code)
	if err != nil {
		return h.fail(c, l, err)
	}
	return c.JSON(decision)
}

// HandleReplaceCatalog swaps a new catalog into an existing session.
// @Summary Replace catalog
// @Description Replace the catalog of an existing session and reset its ledger.
// @Tags session
// @Accept multipart/form-data
// @Produce json
// @Param code query string true "Session code"
// @Param file formData file true "Catalog file (.csv or .xlsx)"
// @Success 200 {object} session.Session "Updated session"
// @Failure 404 {object} map[string]string "Unknown or expired session"
// @Router /api/catalog [post]
func (h *Handler) HandleReplaceCatalog(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	file, err := c.FormFile("file")
	if err != nil {
		return h.fail(c, l, fmt.Errorf("%w: missing catalog file", session.ErrInvalidInput))
	}
	src, err := file.Open()
	if err != nil {
		return h.fail(c, l, fmt.Errorf("failed to open upload: %w", err))
	}
	defer src.Close()

	s, err := h.service.ReplaceCatalog(c.Context(), c.Query("code"), file.Filename, src)
	if err != nil {
		return h.fail(c, l, err)
	}
	return c.JSON(s)
}

// HandleStats returns aggregate progress counters.
// @Summary Session stats
// @Description Fetch matched/missing/surplus counters and completion percentage.
// @Tags session
// @Produce json
// @Param code query string true "Session code"
// @Success 200 {object} Stats "Aggregate counters"
// @Failure 404 {object} map[string]string "Unknown or expired session"
// @Router /api/stats [get]
func (h *Handler) HandleStats(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	stats, err := h.service.Stats(c.Context(), c.Query("code"))
	if err != nil {
		return h.fail(c, l, err)
	}
	return c.JSON(stats)
}

// HandleReport downloads the reconciliation report as CSV.
// @Summary Download report
// @Description Generate the matched/missing/surplus report and stream it as CSV.
// @Tags report
// @Produce text/csv
// @Param code query string true "Session code"
// @Param archive query bool false "Also archive the CSV to object storage"
// @Success 200 {string} string "Report CSV"
// @Failure 404 {object} map[string]string "Unknown or expired session"
// @Router /api/report [get]
func (h *Handler) HandleReport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	catalog, rep, err := h.service.Report(c.Context(), c.Query("code"), c.QueryBool("archive"))
	if err != nil {
		return h.fail(c, l, err)
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, catalog, rep); err != nil {
		return h.fail(c, l, err)
	}

	filename := fmt.Sprintf("reporte_inventario_%s.csv", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(buf.Bytes())
}

// HandleQR renders the session join QR code.
// @Summary Session join QR
// @Description Render a PNG QR code that hands the session off to another device.
// @Tags session
// @Produce image/png
// @Param code query string true "Session code"
// @Param size query int false "Image size in pixels (default 256)"
// @Success 200 {string} string "PNG image"
// @Failure 404 {object} map[string]string "Unknown or expired session"
// @Router /api/qr [get]
func (h *Handler) HandleQR(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	// Only live sessions get a QR; a stale code would strand the scanner.
	s, err := h.service.Snapshot(c.Context(), c.Query("code"))
	if err != nil {
		return h.fail(c, l, err)
	}

	png, err := qr.JoinPNG(s.ID, h.publicURL, c.QueryInt("size"))
	if err != nil {
		return h.fail(c, l, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

// HandleHealth reports service liveness.
// @Summary Health check
// @Description Report service liveness with the current server time.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string "OK"
// @Router /api/health [get]
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// fail maps service errors to HTTP statuses: unknown/expired sessions are
// 404, rejected input is 400, anything else is 500.
func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, session.ErrInvalidInput), errors.Is(err, session.ErrEmptyCatalog):
		status = fiber.StatusBadRequest
	}

	if status == fiber.StatusInternalServerError {
		l.Error("API request failed", zap.Error(err))
	} else {
		l.Debug("API request rejected", zap.Int("status", status), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
