package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"audiodeck/config"
	"audiodeck/core/library"
	"audiodeck/core/watcher"
	"audiodeck/logger"
	"audiodeck/repository"
	"audiodeck/storage"

	"github.com/gorilla/mux"
)

// NewRouter wires every API route under cfg.APIPrefix and serves the assets
// tree under /assets/.
func NewRouter(h *APIHandler, cfg *config.Config) *mux.Router {
	router := mux.NewRouter()
	router.Use(recoverMiddleware, requestLogMiddleware, corsMiddleware)

	api := router
	if cfg.APIPrefix != "" {
		api = router.PathPrefix(cfg.APIPrefix).Subrouter()
	}

	api.HandleFunc("/system/prune", h.PruneHandler).Methods(http.MethodPost)
	api.HandleFunc("/system/resync", h.ResyncHandler).Methods(http.MethodPost)
	api.HandleFunc("/structure", h.StructureHandler).Methods(http.MethodGet)

	api.HandleFunc("/tracks", h.GetTracksHandler).Methods(http.MethodGet)
	api.HandleFunc("/tracks", h.UploadTrackHandler).Methods(http.MethodPost)
	api.HandleFunc("/tracks", h.DeleteTrackHandler).Methods(http.MethodDelete)
	api.HandleFunc("/tracks/move", h.MoveTrackHandler).Methods(http.MethodPost)
	api.HandleFunc("/tracks/rename", h.RenameTrackHandler).Methods(http.MethodPost)
	api.HandleFunc("/tracks/metadata", h.UpdateMetadataHandler).Methods(http.MethodPatch)

	api.HandleFunc("/categories/rename", h.RenameCategoryHandler).Methods(http.MethodPost)
	api.HandleFunc("/categories", h.CreateCategoryHandler).Methods(http.MethodPost)
	api.HandleFunc("/categories", h.DeleteCategoryHandler).Methods(http.MethodDelete)

	api.HandleFunc("/settings", h.SettingsHandler).Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/presets", h.PresetsHandler).Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/presets/{id}", h.DeletePresetHandler).Methods(http.MethodDelete)
	api.HandleFunc("/playlist/order", h.SaveOrderHandler).Methods(http.MethodPost)
	api.HandleFunc("/playlist/orders", h.GetOrdersHandler).Methods(http.MethodGet)

	// 预检请求
	router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	assets := http.FileServer(http.Dir(h.library.Root()))
	router.PathPrefix("/assets/").Handler(noWriteDeadline(http.StripPrefix("/assets/", assets)))

	return router
}

// Start builds the stores and serves HTTP until SIGINT/SIGTERM.
func Start(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.NewDocumentStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer store.Close()

	if err := os.MkdirAll(cfg.AssetsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create assets directory %s: %w", cfg.AssetsDir, err)
	}

	lib := library.New(cfg.AssetsDir, repository.NewMetadataRepository(store))
	handler := NewAPIHandler(
		lib,
		repository.NewPresetRepository(store),
		repository.NewOrderRepository(store),
		repository.NewSettingsRepository(store),
		cfg,
	)

	if cfg.AutoPrune {
		w := watcher.New(cfg.AssetsDir, lib, watcher.DefaultDebounce)
		go func() {
			if err := w.Run(ctx); err != nil {
				logger.Error("assets watcher stopped", logger.ErrorField(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      NewRouter(handler, cfg),
		ReadTimeout:  5 * time.Minute, // uploads
		WriteTimeout: 30 * time.Second, // lifted for /assets/
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting",
			logger.String("addr", cfg.ServerAddr),
			logger.String("apiPrefix", cfg.APIPrefix),
			logger.String("assets", cfg.AssetsDir),
			logger.String("store", cfg.StoreBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-stop:
	}

	logger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
