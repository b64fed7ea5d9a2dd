package app

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"ticklist/internal/appwrite"
	"ticklist/internal/assets"
	"ticklist/internal/config"
	"ticklist/internal/logger"
	"ticklist/internal/session"
)

// platformCookieName holds the platform-issued session secret. It is
// separate from the signed local session cookie; the route guard requires
// both.
const platformCookieName = "appwrite_session"

type HTTPServer struct {
	service   *Service
	cfg       config.Config
	templates *template.Template
}

func NewHTTPServer(service *Service, cfg config.Config) *HTTPServer {
	return &HTTPServer{
		service:   service,
		cfg:       cfg,
		templates: assets.Templates(),
	}
}

// Handler builds the routing table. The auth guard is composed explicitly
// on every item route; auth flows stay open.
func (s *HTTPServer) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(logger.Middleware)

	router.Handle("/", s.guard(http.HandlerFunc(s.handleIndex))).Methods(http.MethodGet)
	router.Handle("/items", s.guard(http.HandlerFunc(s.handleCreateItem))).Methods(http.MethodPost)
	router.Handle("/items/{item_id}", s.guard(http.HandlerFunc(s.handleUpdateItem))).Methods(http.MethodPut)
	router.Handle("/items/{item_id}", s.guard(http.HandlerFunc(s.handleDeleteItem))).Methods(http.MethodDelete)

	router.HandleFunc("/register", s.handleRegisterForm).Methods(http.MethodGet)
	router.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	router.HandleFunc("/login", s.handleLoginForm).Methods(http.MethodGet)
	router.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	router.HandleFunc("/guest-login", s.handleGuestLogin).Methods(http.MethodGet)
	router.HandleFunc("/logout", s.handleLogout).Methods(http.MethodGet)

	return handlers.RecoveryHandler()(router)
}

type sessionContextKey struct{}
type platformSecretContextKey struct{}

// guard redirects unauthenticated requests to the login page. A request is
// authenticated only when the signed local session decodes and the platform
// session cookie is present; a local session without the platform cookie is
// cleared and sent back to login.
func (s *HTTPServer) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		localSession, err := s.localSession(r)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		cookie, err := r.Cookie(platformCookieName)
		if err != nil || cookie.Value == "" {
			s.clearLocalSession(w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		ctx := context.WithValue(r.Context(), sessionContextKey{}, localSession)
		ctx = context.WithValue(ctx, platformSecretContextKey{}, cookie.Value)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) session.Session {
	localSession, _ := r.Context().Value(sessionContextKey{}).(session.Session)
	return localSession
}

func platformSecretFrom(r *http.Request) string {
	secret, _ := r.Context().Value(platformSecretContextKey{}).(string)
	return secret
}

// Item handlers

type indexView struct {
	DisplayName string
	Items       []Item
	Error       string
}

func (s *HTTPServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	view := indexView{DisplayName: sessionFrom(r).DisplayName}

	items, err := s.service.ListItems(r.Context(), platformSecretFrom(r))
	if err != nil {
		logger.FromContext(r.Context()).WithError(err).Error("list items failed")
		view.Error = err.Error()
	}
	view.Items = items

	s.render(w, r, http.StatusOK, "index.html", view)
}

func (s *HTTPServer) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	content := itemContent(r)
	if content == "" {
		http.Error(w, "Content is required", http.StatusBadRequest)
		return
	}

	item, err := s.service.CreateItem(r.Context(), sessionFrom(r).UserID, content)
	if err != nil {
		s.platformError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "item.html", item)
}

func (s *HTTPServer) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	content := itemContent(r)
	if content == "" {
		http.Error(w, "Content is required", http.StatusBadRequest)
		return
	}

	itemID := mux.Vars(r)["item_id"]
	item, err := s.service.UpdateItem(r.Context(), platformSecretFrom(r), itemID, content)
	if err != nil {
		s.platformError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "item.html", item)
}

func (s *HTTPServer) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["item_id"]
	if err := s.service.DeleteItem(r.Context(), platformSecretFrom(r), itemID); err != nil {
		s.platformError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Auth handlers

type authView struct {
	Error string
}

func (s *HTTPServer) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login.html", authView{})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		s.render(w, r, http.StatusBadRequest, "login.html", authView{Error: "Email and password are required"})
		return
	}

	platformSession, user, err := s.service.Login(r.Context(), email, password)
	if err != nil {
		logger.FromContext(r.Context()).WithError(err).Warn("login failed")
		_, message := mapError(err)
		s.render(w, r, http.StatusUnauthorized, "login.html", authView{Error: message})
		return
	}

	s.beginSession(w, platformSession, user.ID, displayName(user))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *HTTPServer) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "register.html", authView{})
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	name := strings.TrimSpace(r.FormValue("name"))
	if email == "" || password == "" || name == "" {
		s.render(w, r, http.StatusBadRequest, "register.html", authView{Error: "Name, email and password are required"})
		return
	}

	platformSession, user, err := s.service.Register(r.Context(), email, password, name)
	if err != nil {
		logger.FromContext(r.Context()).WithError(err).Warn("registration failed")
		_, message := mapError(err)
		s.render(w, r, http.StatusBadRequest, "register.html", authView{Error: message})
		return
	}

	s.beginSession(w, platformSession, user.ID, name)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *HTTPServer) handleGuestLogin(w http.ResponseWriter, r *http.Request) {
	platformSession, err := s.service.GuestLogin(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).WithError(err).Error("guest login failed")
		status, message := mapError(err)
		s.render(w, r, status, "login.html", authView{Error: message})
		return
	}

	s.beginSession(w, platformSession, platformSession.UserID, "Guest")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *HTTPServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Best effort: the platform session dies if it can; local state dies
	// either way.
	if cookie, err := r.Cookie(platformCookieName); err == nil && cookie.Value != "" {
		if err := s.service.Logout(r.Context(), cookie.Value); err != nil {
			logger.FromContext(r.Context()).WithError(err).Warn("platform logout failed")
		}
	}
	s.clearPlatformCookie(w)
	s.clearLocalSession(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Session plumbing

func (s *HTTPServer) beginSession(w http.ResponseWriter, platformSession appwrite.Session, userID, name string) {
	s.setPlatformCookie(w, platformSession)
	s.setLocalSession(w, session.New(userID, name, s.cfg.SessionTTL))
}

func (s *HTTPServer) localSession(r *http.Request) (session.Session, error) {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil {
		return session.Session{}, err
	}
	return session.Decode([]byte(s.cfg.SessionSecret), cookie.Value)
}

func (s *HTTPServer) setLocalSession(w http.ResponseWriter, localSession session.Session) {
	value, err := session.Encode([]byte(s.cfg.SessionSecret), localSession)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  time.Unix(localSession.Exp, 0),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *HTTPServer) clearLocalSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *HTTPServer) setPlatformCookie(w http.ResponseWriter, platformSession appwrite.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     platformCookieName,
		Value:    platformSession.Secret,
		Path:     "/",
		Expires:  platformSession.ExpiresAt(),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *HTTPServer) clearPlatformCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     platformCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Helpers

// itemContent reads the content field from a JSON body or from form data,
// matching what the list page and API clients send.
func itemContent(r *http.Request) string {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return ""
		}
		return strings.TrimSpace(body.Content)
	}
	return strings.TrimSpace(r.FormValue("content"))
}

func displayName(user appwrite.User) string {
	if user.Name != "" {
		return user.Name
	}
	return user.Email
}

func (s *HTTPServer) platformError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).WithError(err).Error("platform call failed")
	status, message := mapError(err)
	http.Error(w, message, status)
}

func (s *HTTPServer) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		logger.FromContext(r.Context()).WithError(err).Error("template render failed")
	}
}
