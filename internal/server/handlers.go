package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"cotizador/internal/export"
	"cotizador/internal/history"
	"cotizador/internal/notice"
	"cotizador/internal/pricing"
	"cotizador/internal/quote"
	"cotizador/internal/service"
)

// Handler adapts the service to HTTP.
type Handler struct {
	svc    *service.Service
	logger zerolog.Logger
}

// NewHandler constructs the HTTP handler adapter.
func NewHandler(svc *service.Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.With().Str("component", "handlers").Logger()}
}

// inputValue accepts a form value sent either as a JSON string or a number.
type inputValue string

func (v *inputValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = inputValue(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = inputValue(n.String())
	}
	return nil
}

type formRequest struct {
	Area     inputValue `json:"metrosCuadrados"`
	Property inputValue `json:"propiedad"`
	Location inputValue `json:"ubicacion"`
}

func (r formRequest) form() *quote.Form {
	return &quote.Form{Area: string(r.Area), Property: string(r.Property), Location: string(r.Location)}
}

type selectionRequest struct {
	IDs []string `json:"ids"`
}

func (r selectionRequest) selection() history.Selection {
	return history.NewSelection(r.IDs...)
}

type saveResponse struct {
	Notice notice.Notice `json:"notice"`
	Record quote.Record  `json:"record"`
}

type deleteResponse struct {
	Notice  notice.Notice `json:"notice"`
	Removed int           `json:"removed"`
}

type historyResponse struct {
	Records []quote.Record `json:"records"`
}

// Options lists the form choices.
func (h *Handler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Options())
}

// Calculate prices a form without saving it.
func (h *Handler) Calculate(c *gin.Context) {
	var req formRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	q, err := h.svc.Calculate(req.form())
	if err != nil {
		h.fail(c, notice.ActionCalculate, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// History lists saved quotes, optionally filtered by propiedad and ubicacion.
func (h *Handler) History(c *gin.Context) {
	var filter history.Filter
	if raw := c.Query("propiedad"); raw != "" {
		p, err := pricing.ParsePropertyType(raw)
		if err != nil {
			h.badRequest(c, err)
			return
		}
		filter.Property = p
	}
	if raw := c.Query("ubicacion"); raw != "" {
		l, err := pricing.ParseLocation(raw)
		if err != nil {
			h.badRequest(c, err)
			return
		}
		filter.Location = l
	}

	records, err := h.svc.History(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, notice.ActionList, err)
		return
	}
	if records == nil {
		records = []quote.Record{}
	}
	c.JSON(http.StatusOK, historyResponse{Records: records})
}

// Save prices the form and appends it to the history.
func (h *Handler) Save(c *gin.Context) {
	var req formRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	form := req.form()
	if _, err := h.svc.Calculate(form); err != nil {
		h.fail(c, notice.ActionSave, err)
		return
	}
	rec, err := h.svc.Save(c.Request.Context(), form)
	if err != nil {
		h.fail(c, notice.ActionSave, err)
		return
	}
	c.JSON(http.StatusCreated, saveResponse{Notice: notice.Saved(), Record: rec})
}

// DeleteSelected removes the quotes named in the body.
func (h *Handler) DeleteSelected(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	removed, err := h.svc.DeleteSelected(c.Request.Context(), req.selection())
	if err != nil {
		h.fail(c, notice.ActionDelete, err)
		return
	}
	c.JSON(http.StatusOK, deleteResponse{Notice: notice.Deleted(removed), Removed: removed})
}

// ClearAll removes the whole history.
func (h *Handler) ClearAll(c *gin.Context) {
	if err := h.svc.ClearAll(c.Request.Context()); err != nil {
		h.fail(c, notice.ActionClear, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notice": notice.Cleared()})
}

// Export returns the PDF for the quotes named in the body.
func (h *Handler) Export(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	var buf bytes.Buffer
	if err := h.svc.ExportPDF(c.Request.Context(), req.selection(), &buf); err != nil {
		h.fail(c, notice.ActionExport, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.PDFFilename+`"`)
	c.Header("Content-Length", strconv.Itoa(buf.Len()))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	h.logger.Warn().Err(err).Msg("invalid request")
	c.JSON(http.StatusBadRequest, notice.Notice{Level: notice.LevelError, Title: "Solicitud inválida", Text: err.Error()})
}

func (h *Handler) fail(c *gin.Context, action notice.Action, err error) {
	n, ok := notice.FromError(action, err)
	if !ok {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("action", string(action)).Msg("request failed")
		c.JSON(http.StatusInternalServerError, notice.Notice{Level: notice.LevelError, Title: "Error", Text: "No se pudo completar la operación."})
		return
	}
	c.JSON(statusFor(err), n)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, history.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}
