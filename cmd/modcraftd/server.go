package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"modcraft/internal/eventbus"
	"modcraft/internal/runengine"
	"modcraft/internal/specstore"
)

// newServer builds the HTTP surface spec.md carves out for the run engine:
// trigger/approve/reject/cancel methods on runengine.Controller, a snapshot
// read endpoint, and an SSE stream backed by eventbus.Bus.Subscribe.
func newServer(ctrl *runengine.Controller, bus eventbus.Bus) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /workspaces/{workspaceID}/generate", handleTriggerGenerate(ctrl))
	mux.HandleFunc("POST /workspaces/{workspaceID}/build", handleTriggerBuild(ctrl))
	mux.HandleFunc("POST /runs/{runID}/approve", handleApprove(ctrl))
	mux.HandleFunc("POST /runs/{runID}/reject", handleReject(ctrl))
	mux.HandleFunc("POST /runs/{runID}/cancel", handleCancel(ctrl))
	mux.HandleFunc("GET /runs/{runID}", handleSnapshot(ctrl))
	mux.HandleFunc("GET /runs/{runID}/events", handleEvents(bus))
	return mux
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

func handleTriggerGenerate(ctrl *runengine.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		runID, err := ctrl.TriggerGenerate(r.Context(), r.PathValue("workspaceID"), req.Prompt)
		if err != nil {
			writeControllerError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"run_id": runID})
	}
}

func handleTriggerBuild(ctrl *runengine.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runID, err := ctrl.TriggerBuild(r.Context(), r.PathValue("workspaceID"))
		if err != nil {
			writeControllerError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"run_id": runID})
	}
}

type approveRequest struct {
	ModifiedDeltas []specstore.SpecDelta `json:"modified_deltas"`
}

func handleApprove(ctrl *runengine.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req approveRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
		}
		if err := ctrl.Approve(r.Context(), r.PathValue("runID"), req.ModifiedDeltas); err != nil {
			writeControllerError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func handleReject(ctrl *runengine.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rejectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := ctrl.Reject(r.Context(), r.PathValue("runID"), req.Reason); err != nil {
			writeControllerError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleCancel(ctrl *runengine.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ctrl.Cancel(r.Context(), r.PathValue("runID")); err != nil {
			writeControllerError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleSnapshot(ctrl *runengine.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := ctrl.Snapshot(r.Context(), r.PathValue("runID"))
		if err != nil {
			writeControllerError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

// handleEvents streams a run's event log as Server-Sent Events, replaying
// from the Last-Event-ID header (or ?since=) if present before switching to
// live delivery (spec.md §6 "SSE Event bus").
func handleEvents(bus eventbus.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, errors.New("streaming unsupported"))
			return
		}

		since := 0
		if v := r.Header.Get("Last-Event-ID"); v != "" {
			since, _ = strconv.Atoi(v)
		} else if v := r.URL.Query().Get("since"); v != "" {
			since, _ = strconv.Atoi(v)
		}

		events, err := bus.Subscribe(r.Context(), r.PathValue("runID"), since)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for event := range events {
			payload, err := json.Marshal(event.Payload)
			if err != nil {
				continue
			}
			sseWrite(w, event.Seq, event.Type, payload)
			flusher.Flush()
		}
	}
}

func sseWrite(w http.ResponseWriter, seq int, eventType string, payload []byte) {
	var b strings.Builder
	b.WriteString("id: ")
	b.WriteString(strconv.Itoa(seq))
	b.WriteString("\nevent: ")
	b.WriteString(eventType)
	b.WriteString("\ndata: ")
	b.Write(payload)
	b.WriteString("\n\n")
	w.Write([]byte(b.String()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeControllerError maps runengine error types to HTTP status codes.
func writeControllerError(w http.ResponseWriter, err error) {
	var notFound *runengine.NotFoundError
	var inProgress *runengine.RunInProgressError
	var invalidTransition *runengine.InvalidTransitionError
	switch {
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, err)
	case errors.As(err, &inProgress):
		writeError(w, http.StatusConflict, err)
	case errors.As(err, &invalidTransition):
		writeError(w, http.StatusConflict, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

