// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"go.uber.org/zap"

	"mcp-meal-preferences/internal/config"
	"mcp-meal-preferences/internal/models"
	"mcp-meal-preferences/internal/preferences"
	"mcp-meal-preferences/internal/profile"
	"mcp-meal-preferences/internal/validation"
)

const Version = "1.0.0"

type toolHandler func(*protocol.CallToolRequest) (*protocol.CallToolResult, error)

// PreferenceServer exposes one in-memory intake session as MCP tools over HTTP.
type PreferenceServer struct {
	info       protocol.Implementation
	httpServer *http.Server
	config     *config.Config
	logger     *zap.Logger
	tools      map[string]toolHandler

	// mu serializes tool calls; the session types are single-owner.
	mu     sync.Mutex
	store  *preferences.Store
	editor *profile.Editor
	views  map[models.CollectionKind]preferences.SectionView
}

func NewPreferenceServer(cfg *config.Config, logger *zap.Logger) (*PreferenceServer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &PreferenceServer{
		config: cfg,
		logger: logger,
		views: map[models.CollectionKind]preferences.SectionView{
			models.Favorites: preferences.NewSectionView(),
			models.Dislikes:  preferences.NewSectionView(),
			models.Allergies: preferences.NewSectionView(),
		},
	}
	s.store = preferences.NewStore(
		preferences.WithLogger(logger.Named("preferences")),
		preferences.WithNoticeTTL(cfg.NoticeTTL),
		preferences.WithSubmitHandler(s.onSubmit),
	)
	s.editor = profile.NewEditor(models.DefaultResidentProfile(), s.onProfileSave, logger.Named("profile"))

	s.info = protocol.Implementation{
		Name:    "meal-preferences",
		Version: Version,
	}
	s.registerTools()

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHTTP)
	s.httpServer = &http.Server{
		Addr:    cfg.Address(),
		Handler: mux,
	}

	return s, nil
}

// Handler returns the HTTP handler serving tool calls.
func (s *PreferenceServer) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *PreferenceServer) handleHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	handler, ok := s.tools[request.Name]
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown tool: %s", request.Name), http.StatusNotFound)
		return
	}

	s.mu.Lock()
	result, err := handler(&request)
	s.mu.Unlock()

	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("Tool call failed", zap.String("tool", request.Name), zap.Error(err))
		}
		http.Error(w, preferences.UserMessage(err), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.logger.Warn("Failed to encode response", zap.Error(err))
	}
}

func statusFor(err error) int {
	var verr *preferences.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, validation.ErrInvalidEmailFormat),
		errors.Is(err, validation.ErrInvalidPhoneFormat):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errInvalidParams),
		errors.Is(err, models.ErrInvalidCategory),
		errors.Is(err, models.ErrInvalidSeverity),
		errors.Is(err, models.ErrInvalidCollection):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *PreferenceServer) Start(ctx context.Context) error {
	s.logger.Info("Starting meal preferences server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *PreferenceServer) Stop(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *PreferenceServer) onSubmit(p models.Preferences) {
	s.logger.Info("Preferences saved",
		zap.Any("favorites", p.Favorites),
		zap.Any("dislikes", p.Dislikes),
		zap.Any("allergies", p.Allergies),
		zap.String("notes", p.Notes))
}

func (s *PreferenceServer) onProfileSave(p models.ResidentProfile) {
	s.logger.Info("Resident profile saved",
		zap.String("resident", p.Name),
		zap.Int("age", p.Age),
		zap.String("caregiver", p.PrimaryCaregiver.Name))
}

func (s *PreferenceServer) createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}
