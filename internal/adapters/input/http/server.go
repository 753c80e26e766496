package http

import (
	"encoding/json"
	"errors"
	"io"
	"lightbridge/internal/domain/model"
	"lightbridge/internal/ports"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Server struct {
	bridge    ports.BridgePort
	metrics   http.Handler
	staticDir string
}

// NewServer builds the JSON API. metrics and staticDir are optional.
func NewServer(bridge ports.BridgePort, metrics http.Handler, staticDir string) *Server {
	return &Server{
		bridge:    bridge,
		metrics:   metrics,
		staticDir: staticDir,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Route("/api/device", func(r chi.Router) {
		r.Get("/", s.handleListDevices)
		r.Post("/", s.handleWriteDevice)
		r.Get("/{id}", s.handleGetDevice)
	})
	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	if s.staticDir != "" {
		if fi, err := os.Stat(s.staticDir); err == nil && fi.IsDir() {
			r.Handle("/*", http.FileServer(http.Dir(s.staticDir)))
		} else {
			log.Warn().Str("dir", s.staticDir).Msg("Static directory not found, not serving files")
		}
	}
	return r
}

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.bridge.ListDevices(r.Context())
	if err != nil {
		writeError(w, toAPIError(err))
		return
	}
	writeJSON(w, http.StatusOK, devices)
}

func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))
	device, err := s.bridge.GetDevice(r.Context(), chi.URLParam(r, "id"), force)
	if err != nil {
		writeError(w, toAPIError(err))
		return
	}
	writeJSON(w, http.StatusOK, device)
}

func (s *Server) handleWriteDevice(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, model.NewValidationError(model.ErrInvalidJSON, err.Error()))
		return
	}
	req, apiErr := decodeWriteRequest(body)
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}

	device, apiErr := s.bridge.UpdateDevice(r.Context(), req)
	if apiErr != nil {
		if apiErr.Status >= http.StatusInternalServerError {
			log.Error().Str("code", string(apiErr.Code)).Str("message", apiErr.Message).Msg("Device write failed")
		}
		writeError(w, apiErr)
		return
	}
	writeJSON(w, http.StatusOK, device)
}

// writeEnvelope is the POST body before the device itself is decoded.
type writeEnvelope struct {
	Device         json.RawMessage `json:"device"`
	TransitionTime json.RawMessage `json:"transitionTime"`
}

type deviceHeader struct {
	ID   json.RawMessage `json:"id"`
	Type json.RawMessage `json:"type"`
}

// decodeWriteRequest decodes in stages so that a missing device or a device
// that is not a lightbulb reaches the dispatcher as such, whatever else is
// wrong in the body. Only then are the remaining fields decoded strictly.
func decodeWriteRequest(body []byte) (*model.WriteRequest, *model.APIError) {
	if !json.Valid(body) {
		return nil, model.NewValidationError(model.ErrInvalidJSON, "Request body is not valid JSON")
	}

	var env writeEnvelope
	if err := json.Unmarshal(body, &env); err != nil || isNull(env.Device) {
		return &model.WriteRequest{}, nil
	}

	var header deviceHeader
	_ = json.Unmarshal(env.Device, &header)
	var typ string
	_ = json.Unmarshal(header.Type, &typ)
	if model.DeviceType(typ) != model.DeviceTypeLightbulb {
		return &model.WriteRequest{Device: &model.FormattedDevice{
			ID:   rawText(header.ID),
			Type: model.DeviceType(typ),
		}}, nil
	}

	var req model.WriteRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, model.NewValidationError(model.ErrInvalidJSON, err.Error())
	}
	return &req, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// rawText returns a JSON string's value, or the raw JSON text otherwise.
func rawText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	state := s.bridge.ConnectionState()
	status := http.StatusOK
	if state != model.StateConnected {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"gateway": string(state)})
}

func toAPIError(err error) *model.APIError {
	if errors.Is(err, model.ErrDeviceMissing) {
		return &model.APIError{Status: http.StatusNotFound, Code: model.ErrDeviceNotFound, Message: err.Error()}
	}
	return model.AsTransportError("fetchDevices", err).ToAPIError()
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, apiErr *model.APIError) {
	writeJSON(w, apiErr.Status, apiErr)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}
