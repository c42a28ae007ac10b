package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"foodie-planner/internal/auth"
	"foodie-planner/internal/metrics"
	"foodie-planner/internal/planner"
	"foodie-planner/internal/session"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeTextError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

func writeAttachment(w http.ResponseWriter, filename, content string) {
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(content))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"sys":    metrics.GetSysHealth(filepath.Dir(s.cfg.DatabasePath)),
	})
}

// --- Account handlers ---

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request body"})
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "name, email and password are required"})
		return
	}

	msg, err := auth.ValidateEmail(r.Context(), s.users, req.Email)
	if err != nil {
		s.logger.Error("email validation failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		return
	}
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": msg})
		return
	}

	if msg := auth.ValidatePassword(req.Password); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": msg})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		return
	}

	if _, err := s.users.Create(r.Context(), req.Email, req.Name, hash); err != nil {
		s.logger.Error("user creation failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"success": true})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request body"})
		return
	}

	user, err := s.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		s.logger.Error("user lookup failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid credentials"})
		return
	}

	sess, err := s.sessions.Create(r.Context(), user.ID)
	if err != nil {
		s.logger.Error("session creation failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		return
	}

	token, err := s.tokens.Issue(sess.ID, user.ID, time.Until(sess.ExpiresAt))
	if err != nil {
		s.logger.Error("token signing failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  sess.ExpiresAt,
	})

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "name": user.Name})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), currentSessionID(r)); err != nil {
		s.logger.Warn("session deletion failed", zap.Error(err))
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type updateAccountRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request body"})
		return
	}

	userID := currentUserID(r)

	if req.Email != "" {
		msg, err := auth.ValidateEmail(r.Context(), s.users, req.Email)
		if err != nil {
			s.logger.Error("email validation failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
			return
		}
		if msg != "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": msg})
			return
		}
	}

	if req.Password != "" {
		if msg := auth.ValidatePassword(req.Password); msg != "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": msg})
			return
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			s.logger.Error("password hashing failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
			return
		}
		if err := s.users.UpdatePassword(r.Context(), userID, hash); err != nil {
			s.logger.Error("password update failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
			return
		}
	}

	if req.Email != "" {
		if err := s.users.UpdateEmail(r.Context(), userID, req.Email); err != nil {
			s.logger.Error("email update failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
			return
		}
	}
	if req.Name != "" {
		if err := s.users.UpdateName(r.Context(), userID, req.Name); err != nil {
			s.logger.Error("name update failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": "account updated successfully!"})
}

// --- Diet plan handlers ---

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var payload planner.RequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "missing required data"})
		return
	}

	result, err := s.planner.GenerateDietPlan(r.Context(), payload)
	if err != nil {
		var vErr *planner.ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": vErr.Reason})
			return
		}
		s.logger.Error("diet plan generation failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "failed to generate diet plan"})
		return
	}

	for _, call := range result.Calls {
		if err := s.metricsStore.Record(r.Context(), metrics.ExecutionMetric{
			Model:            call.Usage.Model,
			PromptTokens:     call.Usage.PromptTokens,
			CompletionTokens: call.Usage.CompletionTokens,
			LatencyMS:        call.Latency.Milliseconds(),
		}); err != nil {
			s.logger.Warn("failed to record generation metric", zap.Error(err))
		}
	}

	staged, err := json.Marshal(result.RawDays)
	if err != nil {
		s.logger.Error("failed to marshal staged plan", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "failed to generate diet plan"})
		return
	}

	// One write covers all three slots, replacing any previous generation.
	err = s.sessions.SetValues(r.Context(), currentSessionID(r), map[string]string{
		session.SlotDisplay:  string(staged),
		session.SlotDownload: string(staged),
		session.SlotSave:     string(staged),
	})
	if err != nil {
		s.logger.Error("failed to stage diet plan in session", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "failed to generate diet plan"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// stagedPlan reads and decodes one session slot. A slot that was never set
// yields an empty plan.
func (s *Server) stagedPlan(r *http.Request, slot string) ([]string, error) {
	value, err := s.sessions.Value(r.Context(), currentSessionID(r), slot)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return nil, nil
	}

	var rawDays []string
	if err := json.Unmarshal([]byte(value), &rawDays); err != nil {
		return nil, fmt.Errorf("staged plan is corrupted: %w", err)
	}
	return rawDays, nil
}

func (s *Server) handleShowRecipes(w http.ResponseWriter, r *http.Request) {
	rawDays, err := s.stagedPlan(r, session.SlotDisplay)
	if err != nil {
		s.logger.Error("failed to read staged plan", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		return
	}

	plan, err := planner.ParsePlan(rawDays)
	if err != nil {
		s.logger.Error("failed to parse staged plan", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "failed to parse diet plan"})
		return
	}

	if plan == nil {
		plan = []planner.DayPlan{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"diet_plan": plan})
}

func (s *Server) handleDownloadDietPlan(w http.ResponseWriter, r *http.Request) {
	s.downloadStaged(w, r, func(plan []planner.DayPlan) (string, string) {
		return chi.URLParam(r, "name") + ".txt", planner.FormatTranscript(plan)
	})
}

func (s *Server) handleDownloadIngredientList(w http.ResponseWriter, r *http.Request) {
	s.downloadStaged(w, r, func(plan []planner.DayPlan) (string, string) {
		return chi.URLParam(r, "name") + "_ingredients.txt", planner.FormatShoppingList(plan)
	})
}

func (s *Server) downloadStaged(w http.ResponseWriter, r *http.Request, render func([]planner.DayPlan) (string, string)) {
	rawDays, err := s.stagedPlan(r, session.SlotDownload)
	if err != nil {
		s.logger.Error("failed to read staged plan", zap.Error(err))
		writeTextError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if len(rawDays) == 0 {
		writeTextError(w, http.StatusNotFound, "no diet plan available for download")
		return
	}

	plan, err := planner.ParsePlan(rawDays)
	if err != nil {
		s.logger.Error("failed to parse staged plan", zap.Error(err))
		writeTextError(w, http.StatusInternalServerError, "failed to parse diet plan")
		return
	}

	filename, content := render(plan)
	writeAttachment(w, filename, content)
}

type savePlanRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleSaveDietPlan(w http.ResponseWriter, r *http.Request) {
	var req savePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request body"})
		return
	}

	planName := strings.TrimSpace(req.Name)
	if planName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "please provide a name for the diet plan"})
		return
	}

	userID := currentUserID(r)

	exists, err := s.plans.Exists(r.Context(), userID, planName)
	if err != nil {
		s.logger.Error("plan existence check failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		return
	}
	if exists {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "a diet plan with this name already exists"})
		return
	}

	rawDays, err := s.stagedPlan(r, session.SlotSave)
	if err != nil {
		s.logger.Error("failed to read staged plan", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		return
	}
	if len(rawDays) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "no diet plan available for saving"})
		return
	}

	plan, err := planner.ParsePlan(rawDays)
	if err != nil {
		s.logger.Error("failed to parse staged plan", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "failed to parse diet plan"})
		return
	}

	if err := s.plans.Save(r.Context(), userID, planName, plan); err != nil {
		if errors.Is(err, planner.ErrDuplicateName) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "a diet plan with this name already exists"})
			return
		}
		s.logger.Error("plan save failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": "diet plan saved successfully"})
}

func (s *Server) handleGetRecipes(w http.ResponseWriter, r *http.Request) {
	plans, err := s.plans.List(r.Context(), currentUserID(r))
	if err != nil {
		s.logger.Error("plan listing failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		return
	}

	if plans == nil {
		plans = []planner.SavedPlanInfo{}
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleDownloadSavedDiet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	plan, err := s.plans.Load(r.Context(), currentUserID(r), name)
	if err != nil {
		if errors.Is(err, planner.ErrNotFound) {
			writeTextError(w, http.StatusNotFound, "no diet plan found with that name")
			return
		}
		s.logger.Error("plan load failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	writeAttachment(w, name+".txt", planner.FormatTranscript(plan))
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	recipeID := chi.URLParam(r, "recipeID")

	if err := s.plans.Delete(r.Context(), currentUserID(r), recipeID); err != nil {
		s.logger.Error("plan deletion failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": "recipe deleted successfully"})
}
