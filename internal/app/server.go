package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mediactl/mediagraph/internal/ctxlog"
)

// serveControl runs the HTTP control surface until the context is
// cancelled. The surface is a plain device attribute: the streaming flag
// is readable and writing to it triggers a whole-graph activate.
// Deactivation exists on the Go API but is deliberately not exposed here.
func (a *App) serveControl(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/stream", a.streamHandler)
	mux.HandleFunc("/graph", a.graphHandler)

	server := &http.Server{Addr: a.cfg.ListenAddr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Control surface listening.", "address", a.cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("control surface failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

// streamHandler reads or raises the whole-device streaming flag.
func (a *App) streamHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		flag := 0
		if a.device.Streaming() {
			flag = 1
		}
		fmt.Fprintf(w, "%d\n", flag)

	case http.MethodPost:
		// The activation pass logs through the context logger and must not
		// be torn down mid-sequence by a client disconnect.
		ctx := ctxlog.WithLogger(context.WithoutCancel(r.Context()), a.logger)
		a.logger.Info("Stream start requested.")
		if err := a.device.Activate(ctx); err != nil {
			a.logger.Error("Whole-graph activation failed.", "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "1")

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// graphHandler exposes the published graph: entities, pads and links.
func (a *App) graphHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	media := a.device.Media()
	if !media.Registered() {
		http.Error(w, "graph not published", http.StatusServiceUnavailable)
		return
	}

	type padJSON struct {
		Index int    `json:"index"`
		Role  string `json:"role"`
	}
	type entityJSON struct {
		Name         string            `json:"name"`
		Pads         []padJSON         `json:"pads"`
		Capabilities map[string]string `json:"capabilities,omitempty"`
	}
	type linkJSON struct {
		Source    string `json:"source"`
		SourcePad int    `json:"source_pad"`
		Sink      string `json:"sink"`
		SinkPad   int    `json:"sink_pad"`
		Enabled   bool   `json:"enabled"`
	}

	var out struct {
		Model    string       `json:"model"`
		Entities []entityJSON `json:"entities"`
		Links    []linkJSON   `json:"links"`
	}
	out.Model = media.Model()

	for _, e := range media.Entities() {
		ej := entityJSON{Name: e.Name, Capabilities: e.Capabilities}
		for _, p := range e.Pads {
			role := "source"
			if p.Sink {
				role = "sink"
			}
			ej.Pads = append(ej.Pads, padJSON{Index: p.Index, Role: role})
		}
		out.Entities = append(out.Entities, ej)
	}
	for _, l := range media.Links() {
		out.Links = append(out.Links, linkJSON{
			Source:    l.Source.Name,
			SourcePad: l.SourcePad,
			Sink:      l.Sink.Name,
			SinkPad:   l.SinkPad,
			Enabled:   l.Enabled,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		a.logger.Error("Encoding graph response failed.", "error", err)
	}
}
