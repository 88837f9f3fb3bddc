package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/sliderstack/sliderstack/pkg/marshal"
	"github.com/sliderstack/sliderstack/pkg/wire"
	"github.com/sliderstack/sliderstack/server/internal/service"
	"github.com/sliderstack/sliderstack/server/internal/store"
)

// ContentTypeProtobuf selects the binary envelope encoding of a response.
const ContentTypeProtobuf = "application/x-protobuf"

// Handler is the HTTP handler for all /api/v1/* endpoints.
// It reads application status from the store and returns JSON responses,
// or the wire envelopes when the client asks for application/x-protobuf.
type Handler struct {
	store *store.Store
	mux   *http.ServeMux
}

// New creates a Handler wired to the given status store and registers all routes.
func New(st *store.Store) http.Handler {
	h := &Handler{store: st, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/liveness", h.liveness)
	h.mux.HandleFunc("/api/v1/components", h.listComponents)
	h.mux.HandleFunc("/api/v1/components/", h.getComponent) // subtree, extracts {name}
	h.mux.HandleFunc("/api/v1/containers", h.containers)
	h.mux.HandleFunc("/api/v1/models", h.listModels)
	h.mux.HandleFunc("/api/v1/model/", h.model) // subtree, {name}[/{section}]
	h.mux.HandleFunc("/api/v1/snapshot", h.snapshot)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health: liveness plus component and container counts.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}
	l := h.store.Liveness()
	resp := HealthResponse{
		State:                "pending",
		AllRequestsSatisfied: l.AllRequestsSatisfied,
		RequestsOutstanding:  l.RequestsOutstanding,
		ComponentCount:       len(h.store.Components()),
		ContainerCount:       len(h.store.Containers()),
	}
	if l.AllRequestsSatisfied {
		resp.State = "satisfied"
	}
	jsonResp(w, http.StatusOK, resp)
}

// liveness returns GET /api/v1/liveness.
func (h *Handler) liveness(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}
	l := h.store.Liveness()
	if wantsProtobuf(r) {
		protoResp(w, marshal.MarshalLiveness(&l))
		return
	}
	jsonResp(w, http.StatusOK, l)
}

// listComponents returns GET /api/v1/components: all components by priority.
func (h *Handler) listComponents(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}
	comps := h.store.Components()
	if wantsProtobuf(r) {
		protoResp(w, marshal.MarshalComponents(comps))
		return
	}
	jsonResp(w, http.StatusOK, comps)
}

// getComponent returns GET /api/v1/components/{name}.
func (h *Handler) getComponent(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/api/v1/components/")
	if name == "" {
		h.listComponents(w, r)
		return
	}

	c, ok := h.store.Component(name)
	if !ok {
		jsonErr(w, http.StatusNotFound, "component not found")
		return
	}
	if wantsProtobuf(r) {
		protoResp(w, marshal.MarshalComponent(&c))
		return
	}
	jsonResp(w, http.StatusOK, c)
}

// containers returns GET /api/v1/containers: live containers by creation time.
func (h *Handler) containers(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}
	live := h.store.Containers()
	if wantsProtobuf(r) {
		protoResp(w, marshal.MarshalLiveContainers(live))
		return
	}
	jsonResp(w, http.StatusOK, live)
}

// listModels returns GET /api/v1/models: stored model names.
func (h *Handler) listModels(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}
	jsonResp(w, http.StatusOK, h.store.ModelNames())
}

// model returns GET /api/v1/model/{name}[/{section}]. The JSON form is the
// document itself.
func (h *Handler) model(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}

	name, section, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/api/v1/model/"), "/")
	if name == "" {
		jsonErr(w, http.StatusNotFound, "model not found")
		return
	}

	doc, err := service.ResolveModel(h.store, name, section)
	if err != nil {
		var decErr *marshal.DecodeError
		switch {
		case errors.Is(err, service.ErrModelNotFound):
			jsonErr(w, http.StatusNotFound, "model not found")
		case errors.Is(err, service.ErrUnknownSection):
			jsonErr(w, http.StatusNotFound, err.Error())
		case errors.As(err, &decErr):
			slog.Error("api: stored model unreadable", "model", name, "err", err)
			jsonErr(w, http.StatusInternalServerError, "model unreadable")
		default:
			jsonErr(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	if wantsProtobuf(r) {
		protoResp(w, doc)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(marshal.UnmarshalJSON(doc))) //nolint:errcheck
}

// snapshot returns GET /api/v1/snapshot: full JSON dump of application status.
func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}
	jsonResp(w, http.StatusOK, SnapshotResponse{
		Liveness:    h.store.Liveness(),
		Components:  h.store.Components(),
		Containers:  h.store.Containers(),
		Models:      h.store.ModelNames(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// --- helpers ----------------------------------------------------------------

func requireGET(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

// wantsProtobuf reports whether the Accept header names the envelope encoding.
func wantsProtobuf(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mt == ContentTypeProtobuf {
			return true
		}
	}
	return false
}

func protoResp(w http.ResponseWriter, m wire.Message) {
	b, err := m.Marshal()
	if err != nil {
		jsonErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", ContentTypeProtobuf)
	w.WriteHeader(http.StatusOK)
	w.Write(b) //nolint:errcheck
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
