package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/verdant/sommelier/internal/config"
	"github.com/verdant/sommelier/internal/credentials"
	"github.com/verdant/sommelier/internal/gateway"
	"github.com/verdant/sommelier/internal/sommelier"
	"github.com/verdant/sommelier/internal/storage"
	"github.com/verdant/sommelier/pkg/types"
)

// APIHandlers contains HTTP handlers for the REST API.
type APIHandlers struct {
	som      *sommelier.Sommelier
	profiles storage.ProfileStore // optional
	creds    *credentials.Store   // optional
	gw       *gateway.Gateway     // optional, for provider availability
	config   *config.Config
}

// NewAPIHandlers creates a new APIHandlers instance.
func NewAPIHandlers(som *sommelier.Sommelier, cfg *config.Config) *APIHandlers {
	return &APIHandlers{som: som, config: cfg}
}

// SetProfileStore attaches a profile store for per-user personalization.
func (h *APIHandlers) SetProfileStore(store storage.ProfileStore) {
	h.profiles = store
}

// SetCredentialStore attaches the credential store for runtime key rotation.
func (h *APIHandlers) SetCredentialStore(creds *credentials.Store) {
	h.creds = creds
}

// SetGateway attaches the generation gateway, used only to report provider
// availability in GET /api/config.
func (h *APIHandlers) SetGateway(gw *gateway.Gateway) {
	h.gw = gw
}

// Register wires all REST routes onto the mux.
func (h *APIHandlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chat", h.Chat)
	mux.HandleFunc("POST /api/recommend", h.Recommend)
	mux.HandleFunc("POST /api/analyze", h.Analyze)
	mux.HandleFunc("POST /api/pairings", h.Pair)
	mux.HandleFunc("GET /api/strains", h.ListStrains)
	mux.HandleFunc("GET /api/strains/{id}", h.GetStrain)
	mux.HandleFunc("GET /api/strains/{id}/analysis", h.AnalyzeStrain)
	mux.HandleFunc("GET /api/profiles/{id}", h.GetProfile)
	mux.HandleFunc("PUT /api/profiles/{id}", h.PutProfile)
	mux.HandleFunc("DELETE /api/profiles/{id}", h.DeleteProfile)
	mux.HandleFunc("GET /api/config", h.GetConfig)
	mux.HandleFunc("POST /api/config/credentials", h.PostCredential)
}

// Chat handles POST /api/chat - one conversational turn.
// When a user_id is supplied and a profile store is attached, the stored
// profile is folded into the generation context.
func (h *APIHandlers) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}
	if req.Message == "" {
		respondError(w, http.StatusBadRequest, "message is required", nil)
		return
	}

	chatCtx := h.chatContext(r, req.UserID)
	reply := h.som.Chat(r.Context(), req.Message, req.History, chatCtx)

	respondJSON(w, http.StatusOK, struct {
		sommelier.ChatReply
		ConversationID string `json:"conversation_id"`
	}{reply, uuid.New().String()[:8]})
}

// Recommend handles POST /api/recommend - structured recommendation request.
func (h *APIHandlers) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}

	result := h.som.Recommend(r.Context(), types.RecommendationParams{
		Mood:            req.Mood,
		Activity:        req.Activity,
		TimeOfDay:       req.TimeOfDay,
		DesiredEffects:  req.DesiredEffects,
		AvoidEffects:    req.AvoidEffects,
		ExperienceLevel: req.ExperienceLevel,
		MedicalNeeds:    req.MedicalNeeds,
		Method:          req.Method,
	})
	respondJSON(w, http.StatusOK, result)
}

// Analyze handles POST /api/analyze - analysis for an arbitrary strain.
func (h *APIHandlers) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	if !types.IsValidStrainType(req.Type) {
		respondError(w, http.StatusBadRequest,
			"type must be indica, sativa, or hybrid", nil)
		return
	}

	analysis := h.som.Analyze(r.Context(), req.Name, types.StrainType(req.Type),
		req.THC, req.CBD, req.Terpenes)
	respondJSON(w, http.StatusOK, analysis)
}

// Pair handles POST /api/pairings - strain suggestions for an activity.
func (h *APIHandlers) Pair(w http.ResponseWriter, r *http.Request) {
	var req PairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}
	if req.Activity == "" {
		respondError(w, http.StatusBadRequest, "activity is required", nil)
		return
	}

	respondJSON(w, http.StatusOK, h.som.PairActivity(r.Context(), req.Activity))
}

// ListStrains handles GET /api/strains - list catalog strains.
// Supports q (substring search), type, and effect query filters.
func (h *APIHandlers) ListStrains(w http.ResponseWriter, r *http.Request) {
	cat := h.som.Engine().Catalog()

	var strains []types.Strain
	switch {
	case r.URL.Query().Get("q") != "":
		strains = cat.Search(r.URL.Query().Get("q"))
	case r.URL.Query().Get("type") != "":
		t := r.URL.Query().Get("type")
		if !types.IsValidStrainType(t) {
			respondError(w, http.StatusBadRequest,
				"type must be indica, sativa, or hybrid", nil)
			return
		}
		strains = cat.ByType(types.StrainType(t))
	case r.URL.Query().Get("effect") != "":
		e := r.URL.Query().Get("effect")
		if !types.IsValidEffect(e) {
			respondError(w, http.StatusBadRequest,
				fmt.Sprintf("unknown effect %q", e), nil)
			return
		}
		strains = cat.ByEffect(types.Effect(e))
	default:
		strains = cat.All()
	}

	respondJSON(w, http.StatusOK, StrainListResponse{Strains: strains, Total: len(strains)})
}

// GetStrain handles GET /api/strains/{id} - one catalog strain.
func (h *APIHandlers) GetStrain(w http.ResponseWriter, r *http.Request) {
	strain := h.som.Engine().Catalog().Get(r.PathValue("id"))
	if strain == nil {
		respondError(w, http.StatusNotFound, "strain not found", nil)
		return
	}
	respondJSON(w, http.StatusOK, strain)
}

// AnalyzeStrain handles GET /api/strains/{id}/analysis - analysis for a
// catalog strain, built from its recorded ranges and terpenes.
func (h *APIHandlers) AnalyzeStrain(w http.ResponseWriter, r *http.Request) {
	strain := h.som.Engine().Catalog().Get(r.PathValue("id"))
	if strain == nil {
		respondError(w, http.StatusNotFound, "strain not found", nil)
		return
	}

	terpenes := make([]string, 0, len(strain.Terpenes))
	for _, t := range strain.Terpenes {
		terpenes = append(terpenes, t.Name)
	}

	analysis := h.som.Analyze(r.Context(), strain.Name, strain.Type,
		strain.THCRange.Mean(), strain.CBDRange.Mean(), terpenes)
	respondJSON(w, http.StatusOK, analysis)
}

// GetProfile handles GET /api/profiles/{id} - retrieve a stored profile.
func (h *APIHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	if h.profiles == nil {
		respondError(w, http.StatusNotImplemented, "profile store not configured", nil)
		return
	}

	profile, err := h.profiles.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "profile not found", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to get profile", err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// PutProfile handles PUT /api/profiles/{id} - create or replace a profile.
func (h *APIHandlers) PutProfile(w http.ResponseWriter, r *http.Request) {
	if h.profiles == nil {
		respondError(w, http.StatusNotImplemented, "profile store not configured", nil)
		return
	}

	var profile types.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}

	// The path is authoritative for identity.
	profile.UserID = r.PathValue("id")
	profile.UpdatedAt = time.Now()

	if err := h.profiles.Put(r.Context(), &profile); err != nil {
		if errors.Is(err, storage.ErrInvalidInput) {
			respondError(w, http.StatusBadRequest, "invalid profile", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to store profile", err)
		return
	}
	respondJSON(w, http.StatusOK, &profile)
}

// DeleteProfile handles DELETE /api/profiles/{id} - remove a profile.
func (h *APIHandlers) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	if h.profiles == nil {
		respondError(w, http.StatusNotImplemented, "profile store not configured", nil)
		return
	}

	if err := h.profiles.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "profile not found", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete profile", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetConfig handles GET /api/config - current configuration with masked keys.
func (h *APIHandlers) GetConfig(w http.ResponseWriter, r *http.Request) {
	var available []string
	if h.gw != nil {
		available = h.gw.AvailableProviders()
	}
	respondJSON(w, http.StatusOK, ToConfigResponse(h.config, available))
}

// PostCredential handles POST /api/config/credentials - rotate a provider
// key at runtime.
func (h *APIHandlers) PostCredential(w http.ResponseWriter, r *http.Request) {
	if h.creds == nil {
		respondError(w, http.StatusNotImplemented, "credential store not configured", nil)
		return
	}

	var req CredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}
	switch req.Provider {
	case credentials.ProviderOpenAI, credentials.ProviderAnthropic:
	default:
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("unknown provider %q", req.Provider), nil)
		return
	}

	h.creds.Set(req.Provider, req.Key)
	respondJSON(w, http.StatusOK, map[string]string{
		"provider": req.Provider,
		"key":      MaskAPIKey(req.Key),
	})
}

// chatContext builds a generation context from the stored profile for the
// given user, or nil when unavailable.
func (h *APIHandlers) chatContext(r *http.Request, userID string) *types.ChatContext {
	if userID == "" || h.profiles == nil {
		return nil
	}
	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		return nil
	}

	var preferred []string
	for _, e := range types.AllEffects {
		if profile.EffectWeight(e) >= 4 {
			preferred = append(preferred, string(e))
		}
	}
	avoid := make([]string, 0, len(profile.AvoidEffects))
	for _, e := range profile.AvoidEffects {
		avoid = append(avoid, string(e))
	}

	return &types.ChatContext{
		PreferredEffects: preferred,
		Tolerance:        string(profile.THCTolerance),
		AvoidEffects:     avoid,
	}
}

// Helper functions

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers already sent; nothing more to do.
		fmt.Printf("failed to encode JSON response: %v\n", err)
	}
}

// respondError writes an error response with the given status code.
func respondError(w http.ResponseWriter, statusCode int, message string, err error) {
	errResp := ErrorResponse{
		Error: message,
		Code:  http.StatusText(statusCode),
	}

	if err != nil {
		errResp.Details = map[string]interface{}{
			"error": err.Error(),
		}
	}

	respondJSON(w, statusCode, errResp)
}
