package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"
	"unicode"

	"dive-server/src/store"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

// Admin password requirements.
const (
	MinPasswordLength = 10
	MaxPasswordLength = 72 // bcrypt limit is 72 bytes
)

var (
	ErrPasswordTooShort       = fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	ErrPasswordTooLong        = fmt.Errorf("password must be at most %d bytes long", MaxPasswordLength)
	ErrPasswordContainsSpaces = errors.New("password must not contain spaces")
	ErrPasswordTooSimple      = errors.New("password must mix letters with digits or symbols")
)

// ValidatePassword checks the admin password before it is hashed.
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	var hasLetter, hasOther bool
	for _, char := range password {
		switch {
		case unicode.IsSpace(char):
			return ErrPasswordContainsSpaces
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsDigit(char), unicode.IsPunct(char), unicode.IsSymbol(char):
			hasOther = true
		}
	}
	if !hasLetter || !hasOther {
		return ErrPasswordTooSimple
	}
	return nil
}

// AdminHandler lets event staff review and moderate stored scores. The list
// includes phone numbers so prize winners can be contacted.
type AdminHandler struct {
	cfg   Config
	store store.Store
	hash  []byte
}

// NewAdminHandler hashes cfg.AdminPassword. With no password set every login
// is refused.
func NewAdminHandler(cfg Config, st store.Store) *AdminHandler {
	h := &AdminHandler{cfg: cfg, store: st}
	if cfg.AdminPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[WARN] Admin password hashing failed: %v", err)
		} else {
			h.hash = hash
		}
	}
	return h
}

// Routes registers admin routes.
func (h *AdminHandler) Routes(r chi.Router) {
	r.Post("/admin/login", h.Login)
	r.With(AuthMiddleware(h.cfg), RequireRole(RoleAdmin)).Get("/admin/scores", h.List)
	r.With(AuthMiddleware(h.cfg), RequireRole(RoleAdmin)).Delete("/admin/scores/{id}", h.Delete)
}

// Login POST /admin/login {"password": "..."}
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	if h.hash == nil || bcrypt.CompareHashAndPassword(h.hash, []byte(in.Password)) != nil {
		errorJSON(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := GenerateToken(h.cfg.JWTSecret, h.cfg.JWTIssuer, "admin", RoleAdmin, 12*time.Hour)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "could not generate token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "token": token})
}

// List GET /admin/scores?page=1&page_size=20
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	page := clamp(parseInt(r.URL.Query().Get("page"), 1), 1, 1000000)
	pageSize := clamp(parseInt(r.URL.Query().Get("page_size"), 20), 1, 100)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	items, total, err := h.store.List(ctx, page, pageSize)
	if err != nil {
		log.Printf("admin list error: %v", err)
		errorJSON(w, http.StatusInternalServerError, "DB error")
		return
	}
	writeJSON(w, http.StatusOK, apiListResponse[store.Score]{
		OK:         true,
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
	})
}

// Delete DELETE /admin/scores/{id}
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	if err := h.store.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			errorJSON(w, http.StatusNotFound, "not found")
			return
		}
		log.Printf("admin delete error: %v", err)
		errorJSON(w, http.StatusInternalServerError, "DB error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
