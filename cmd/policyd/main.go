// Command policyd serves resolved prompt-cache policies over HTTP.
//
// Endpoints:
//
//	GET /v1/providers                - registered provider ids
//	GET /v1/policy/{provider}        - resolved policy for a provider
//	GET /healthz                     - liveness
//	GET /metrics                     - Prometheus metrics (configurable path)
//
// The policy endpoint accepts optional query parameters: model (catalog id),
// api (wire-level model id), family, and agent (agent id selecting the
// agent-level override layer from configuration).
//
// SIGHUP reloads the configuration file and swaps the registry atomically.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rhuss/speicher/pkg/config"
	"github.com/rhuss/speicher/pkg/debug"
	"github.com/rhuss/speicher/pkg/observability"
	"github.com/rhuss/speicher/pkg/policy"
	"github.com/rhuss/speicher/pkg/policy/baseline"
	"github.com/rhuss/speicher/pkg/transport"
)

func main() {
	if err := run(); err != nil {
		slog.Error("policyd failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := ""
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	debug.Init("", "")
	if cats := debug.Categories(); len(cats) > 0 {
		slog.Info("debug categories enabled", "categories", cats)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		return fmt.Errorf("building registry: %w", err)
	}
	store := policy.NewStore(registry)

	svc := &service{store: store}
	svc.cfg.Store(cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/providers", svc.handleProviders)
	mux.HandleFunc("GET /v1/policy/{provider}", svc.handlePolicy)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	if cfg.Observability.Metrics.Enabled {
		mux.Handle("GET "+cfg.Observability.Metrics.Path, promhttp.Handler())
	}

	handler := transport.Chain(observability.MetricsMiddleware(mux),
		transport.RequestID(),
		transport.Recovery(slog.Default()),
		transport.Logging(slog.Default()),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// SIGHUP reloads configuration and swaps the registry.
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	go func() {
		for range reload {
			if err := svc.reload(configPath); err != nil {
				slog.Error("reload failed, keeping current registry", "error", err)
				continue
			}
			slog.Info("registry reloaded")
		}
	}()

	// Start server in background.
	errCh := make(chan error, 1)
	go func() {
		slog.Info("policyd starting", "port", cfg.Server.Port, "providers", len(store.Load().Providers()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error.
	select {
	case <-ctx.Done():
		slog.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// buildRegistry overlays the configured registry entries on top of the
// built-in baseline table and validates the result.
func buildRegistry(cfg *config.Config) (*policy.Registry, error) {
	entries := baseline.Entries()
	for id, raw := range cfg.Registry {
		base, ok := entries[id]
		if !ok {
			base = entries[policy.DefaultProviderID]
		}
		entries[id] = policy.Merge(base, policy.FromUserProviderConfig(&raw))
	}
	return policy.NewRegistry(entries)
}

// service holds the request-time state of the policy endpoints. Both the
// configuration and the registry sit behind atomic pointers so a SIGHUP
// reload never races with in-flight requests.
type service struct {
	cfg   atomic.Pointer[config.Config]
	store *policy.Store
}

// reload re-reads the configuration file and atomically swaps the registry.
func (s *service) reload(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}
	s.cfg.Store(cfg)
	s.store.Swap(registry)
	observability.RegistrySwapsTotal.Inc()
	return nil
}

func (s *service) handleProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"providers": s.store.Load().Providers()})
}

// policyResponse is the JSON shape of a resolved policy.
type policyResponse struct {
	Provider          string         `json:"provider"`
	EffectiveProvider string         `json:"effectiveProvider,omitempty"`
	Config            policy.Config  `json:"config"`
	SupportsExplicit  bool           `json:"supportsExplicitCaching"`
	CacheProperty     string         `json:"cacheProperty,omitempty"`
	CacheControl      map[string]any `json:"cacheControl"`
}

func (s *service) handlePolicy(w http.ResponseWriter, r *http.Request) {
	providerID := r.PathValue("provider")
	resolver := policy.NewResolver(s.store.Load())

	var model *policy.Model
	if id := r.URL.Query().Get("model"); id != "" {
		model = &policy.Model{
			ID:         id,
			ProviderID: providerID,
			APIID:      r.URL.Query().Get("api"),
			Family:     r.URL.Query().Get("family"),
		}
	}

	cfg := s.cfg.Load()
	agentID := r.URL.Query().Get("agent")
	resolved := resolver.GetConfig(providerID, model, agentID,
		cfg.ProviderOverride(providerID), cfg.AgentOverride(agentID))

	resp := policyResponse{
		Provider:         providerID,
		Config:           resolved,
		SupportsExplicit: resolver.SupportsExplicitCaching(providerID),
		CacheProperty:    resolver.CacheProperty(providerID),
		CacheControl:     resolver.BuildCacheControl(providerID, resolved.Cache.TTL),
	}

	if model != nil {
		effective := policy.DetectEffectiveProvider(*model)
		resp.EffectiveProvider = effective
		debug.Trace("policy", "effective provider detected",
			"model", model.ID, "effective", effective)
		if providerID == policy.RoutingProviderID {
			observability.EffectiveProviderTotal.WithLabelValues(providerID, effective).Inc()
		}
	}

	observability.ResolutionsTotal.WithLabelValues(providerID, string(resolved.Cache.Type)).Inc()
	debug.Log("policy", "resolved",
		"provider", providerID,
		"agent", agentID,
		"cache_type", resolved.Cache.Type,
		"ttl", resolved.Cache.TTL)
	if debug.Enabled("policy") {
		if dump, err := json.MarshalIndent(resolved, "", "  "); err == nil {
			debug.Raw("policy", string(dump))
		}
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}
