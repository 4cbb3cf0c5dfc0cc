package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"cotizador/internal/history"
	"cotizador/internal/notice"
	"cotizador/internal/quote"
	"cotizador/internal/service"
	"cotizador/internal/storage"
)

func newTestRouter(t *testing.T) (*gin.Engine, *storage.MemorySlot) {
	t.Helper()
	slot := storage.NewMemorySlot(nil)
	next := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)
	clock := quote.Clock{
		Now: func() time.Time {
			now := next
			next = next.Add(time.Second)
			return now
		},
		Zone: time.UTC,
	}
	svc := service.New(history.New(slot, zerolog.Nop()), nil, clock, zerolog.Nop())
	return NewRouter(NewHandler(svc, zerolog.Nop()), zerolog.Nop()), slot
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeNotice(t *testing.T, rec *httptest.ResponseRecorder) notice.Notice {
	t.Helper()
	var n notice.Notice
	if err := json.Unmarshal(rec.Body.Bytes(), &n); err != nil {
		t.Fatalf("decode notice: %v (%s)", err, rec.Body.String())
	}
	return n
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := do(t, r, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatal("request id header missing")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	r, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("request id = %q", got)
	}
}

func TestOptions(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := do(t, r, http.MethodGet, "/api/options", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var opts service.Options
	if err := json.Unmarshal(rec.Body.Bytes(), &opts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(opts.PropertyTypes) != 7 || len(opts.Locations) != 4 {
		t.Fatalf("options = %+v", opts)
	}
}

func TestCalculate(t *testing.T) {
	r, slot := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/quotes", `{"metrosCuadrados":120,"propiedad":"1","ubicacion":24}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var q quote.Quote
	if err := json.Unmarshal(rec.Body.Bytes(), &q); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if q.Total != 2402000 || q.Display != "$ 2.402.000" {
		t.Fatalf("quote = %+v", q)
	}
	if slot.Exists() {
		t.Fatal("calculating must not persist")
	}

	rec = do(t, r, http.MethodPost, "/api/quotes", `{"metrosCuadrados":"-5","propiedad":"1","ubicacion":"24"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	if n := decodeNotice(t, rec); n.Text != quote.MsgInvalidArea {
		t.Fatalf("notice = %+v", n)
	}

	rec = do(t, r, http.MethodPost, "/api/quotes", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSaveListDeleteFlow(t *testing.T) {
	r, slot := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/history", `{"metrosCuadrados":"50","propiedad":"3","ubicacion":"12"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("save status = %d body=%s", rec.Code, rec.Body.String())
	}
	var saved saveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if saved.Notice.Title != "Cotización guardada exitosamente" || saved.Record.PolicyPrice != 1126200 {
		t.Fatalf("saved = %+v", saved)
	}

	do(t, r, http.MethodPost, "/api/history", `{"metrosCuadrados":"300","propiedad":"5","ubicacion":"24"}`)

	rec = do(t, r, http.MethodGet, "/api/history?propiedad=3", "")
	var listed historyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listed.Records) != 1 || listed.Records[0].Timestamp != saved.Record.Timestamp {
		t.Fatalf("filtered history = %+v", listed.Records)
	}

	rec = do(t, r, http.MethodGet, "/api/history?ubicacion=Rosario", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown location status = %d", rec.Code)
	}

	rec = do(t, r, http.MethodDelete, "/api/history", `{"ids":[]}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty delete status = %d", rec.Code)
	}
	if n := decodeNotice(t, rec); n.Title != "Atención" || n.Text != "Selecciona las cotizaciones que quieres borrar" {
		t.Fatalf("notice = %+v", n)
	}

	body, _ := json.Marshal(selectionRequest{IDs: []string{saved.Record.ID()}})
	rec = do(t, r, http.MethodDelete, "/api/history", string(body))
	var deleted deleteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &deleted); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusOK || deleted.Removed != 1 {
		t.Fatalf("delete = %d %+v", rec.Code, deleted)
	}

	rec = do(t, r, http.MethodDelete, "/api/history/all", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("clear status = %d", rec.Code)
	}
	if slot.Exists() {
		t.Fatal("clear should remove the slot")
	}

	rec = do(t, r, http.MethodGet, "/api/history", "")
	if strings.TrimSpace(rec.Body.String()) != `{"records":[]}` {
		t.Fatalf("empty history body = %s", rec.Body.String())
	}
}

func TestSaveDuplicate(t *testing.T) {
	slot := storage.NewMemorySlot(nil)
	clock := quote.Clock{Now: func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }}
	svc := service.New(history.New(slot, zerolog.Nop()), nil, clock, zerolog.Nop())
	r := NewRouter(NewHandler(svc, zerolog.Nop()), zerolog.Nop())

	body := `{"metrosCuadrados":"10","propiedad":"1","ubicacion":"24"}`
	if rec := do(t, r, http.MethodPost, "/api/history", body); rec.Code != http.StatusCreated {
		t.Fatalf("first save = %d", rec.Code)
	}
	rec := do(t, r, http.MethodPost, "/api/history", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d", rec.Code)
	}
	if n := decodeNotice(t, rec); n.Title != "Cotización duplicada" {
		t.Fatalf("notice = %+v", n)
	}
}

type brokenSlot struct{ err error }

func (b brokenSlot) Load(ctx context.Context) ([]byte, bool, error) { return nil, false, b.err }
func (b brokenSlot) Save(ctx context.Context, data []byte) error { return b.err }
func (b brokenSlot) Clear(ctx context.Context) error { return b.err }

func TestHistoryFaultLogsListAction(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	svc := service.New(history.New(brokenSlot{err: errors.New("connection refused")}, zerolog.Nop()), nil, quote.Clock{}, zerolog.Nop())
	r := NewRouter(NewHandler(svc, zerolog.Nop()), logger)

	rec := do(t, r, http.MethodGet, "/api/history", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(logs.String(), `"action":"list"`) {
		t.Fatalf("log should name the list action: %s", logs.String())
	}
}

func TestSaveRejectsOutOfRangeInput(t *testing.T) {
	r, slot := newTestRouter(t)

	for _, body := range []string{
		`{"metrosCuadrados":"80","propiedad":"99","ubicacion":"24"}`,
		`{"metrosCuadrados":"80","propiedad":"1","ubicacion":"-5"}`,
		`{"metrosCuadrados":"1e400","propiedad":"1","ubicacion":"24"}`,
	} {
		rec := do(t, r, http.MethodPost, "/api/history", body)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%s: status = %d body=%s", body, rec.Code, rec.Body.String())
		}
		if n := decodeNotice(t, rec); n.Text != quote.MsgRequiredFields {
			t.Fatalf("%s: notice = %+v", body, n)
		}
	}
	if slot.Exists() {
		t.Fatal("rejected input must not be persisted")
	}
}

func TestPersistenceFaultIsInternalError(t *testing.T) {
	slot := storage.NewMemorySlot(nil)
	slot.FailSave = errors.New("disk full")
	svc := service.New(history.New(slot, zerolog.Nop()), nil, quote.Clock{}, zerolog.Nop())
	r := NewRouter(NewHandler(svc, zerolog.Nop()), zerolog.Nop())

	rec := do(t, r, http.MethodPost, "/api/history", `{"metrosCuadrados":"10","propiedad":"1","ubicacion":"24"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestExport(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/history/export", `{"ids":[]}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty export status = %d", rec.Code)
	}
	if n := decodeNotice(t, rec); n.Text != "Selecciona cotizaciones haciendo clic sobre las que deseas imprimir" {
		t.Fatalf("notice = %+v", n)
	}

	rec = do(t, r, http.MethodPost, "/api/history", `{"metrosCuadrados":"80","propiedad":"7","ubicacion":"10"}`)
	var saved saveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil {
		t.Fatalf("decode: %v", err)
	}

	body, _ := json.Marshal(selectionRequest{IDs: []string{saved.Record.ID()}})
	rec = do(t, r, http.MethodPost, "/api/history/export", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d body=%s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "historial_seleccionado.pdf") {
		t.Fatalf("content disposition = %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Fatal("body is not a PDF")
	}
}

func TestInputValueAcceptsNumbersAndStrings(t *testing.T) {
	var req formRequest
	if err := json.Unmarshal([]byte(`{"metrosCuadrados":42.5,"propiedad":"Casa","ubicacion":null}`), &req); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if req.Area != "42.5" || req.Property != "Casa" || req.Location != "" {
		t.Fatalf("req = %+v", req)
	}
}
