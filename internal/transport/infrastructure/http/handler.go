package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"shipflow/internal/transport/application"
	"shipflow/internal/transport/domain"
	"shipflow/pkg/faults"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("transport-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.createTransport)
	r.Post("/finalize", h.finalizeTransport)
	r.Get("/{id}", h.getTransport)

	return r
}

func (h *Handler) createTransport(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateTransport")
	defer span.End()

	var t domain.Transport
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, faults.Validation("invalid body: %v", err))
		return
	}

	created, err := h.service.CreateTransport(ctx, t)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"message":     "transport created",
		"transportId": created.ID,
	})
}

// finalizeTransport trusts the line items in the request body as supplied;
// they are not reconciled against the record persisted at creation time.
func (h *Handler) finalizeTransport(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "FinalizeTransport")
	defer span.End()

	var t domain.Transport
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, faults.Validation("invalid body: %v", err))
		return
	}

	if err := h.service.FinalizeTransport(ctx, t); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "transport finalized"})
}

func (h *Handler) getTransport(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetTransport")
	defer span.End()

	t, err := h.service.GetTransport(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	body := map[string]string{"message": err.Error()}
	if step := faults.StepOf(err); step != "" {
		body["step"] = step
	}
	writeJSON(w, faults.HTTPStatus(err), body)
}
