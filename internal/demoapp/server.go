// Package demoapp serves a small deals and admin web application whose markup
// matches resources/selectors.csv, so the page objects and browser specs
// have a local target.
package demoapp

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kuitang/pom-e2e/internal/logutil"
	"github.com/kuitang/pom-e2e/internal/obs"
)

const sessionCookie = "demo_session"

// Options configures the demo application.
type Options struct {
	// Users maps usernames to passwords accepted by the login form.
	Users map[string]string
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// DefaultUsers matches fixtures/dev.json.
func DefaultUsers() map[string]string {
	return map[string]string{"qa-admin": "demo-password"}
}

// Server is the demo application.
type Server struct {
	store  *store
	pages  *renderer
	router *chi.Mux
	now    func() time.Time
	logger *slog.Logger
}

// New builds the application and its routes.
func New(opts Options) (*Server, error) {
	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}
	if opts.Users == nil {
		opts.Users = DefaultUsers()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Server{
		store:  newStore(opts.Users),
		pages:  pages,
		router: chi.NewRouter(),
		now:    opts.Now,
		logger: obs.Pkg("demoapp"),
	}
	s.routes()
	return s, nil
}

// Handler returns the application wrapped in request-id and access-log
// middleware.
func (s *Server) Handler() http.Handler {
	return obs.RequestContextMiddleware(obs.AccessLogMiddleware("demoapp", s.router))
}

func (s *Server) routes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.StripSlashes)

	s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Get("/", s.handleLoginPage)
	s.router.Post("/login", s.handleLogin)
	s.router.Get("/home", s.handleHome)

	s.router.Route("/admin", func(r chi.Router) {
		r.Get("/", s.handleAdmin)
		r.Get("/users", s.handleUsers)
		r.Get("/users/{username}", s.handleUser)
		r.Post("/users/{username}/permissions", s.handleGrant)
	})

	s.router.Route("/deals", func(r chi.Router) {
		r.Get("/", s.handleDeals)
		r.Post("/", s.handleCreateDeal)
		r.Get("/repository", s.handleRepository)
		r.Get("/new", s.handleNewDeal)
		r.Get("/{id}", s.handleDeal)
		r.Post("/{id}/save", s.handleSaveDeal)
	})

	s.router.Get("/budgets", s.handleBudgets)
}

// view is the data every template receives.
type view struct {
	Title   string
	User    string
	Section string
	Flash   string
	Error   string
	Data    any
}

func (s *Server) newView(r *http.Request, title, section string) view {
	v := view{Title: title, Section: section}
	if c, err := r.Cookie(sessionCookie); err == nil {
		if u, ok := s.store.sessionUser(c.Value); ok {
			v.User = u
		}
	}
	return v
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, code int, name string, v view) {
	if err := s.pages.render(w, code, name, v); err != nil {
		obs.From(r.Context()).Error("render failed", "pkg", "demoapp", "template", name, "error", err)
	}
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request, what string) {
	v := s.newView(r, "Not found", "")
	v.Error = what + " not found"
	s.render(w, r, http.StatusNotFound, "error.html", v)
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login.html", s.newView(r, "Sign in", "login"))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.PostForm.Get("username"))
	id, ok := s.store.login(username, r.PostForm.Get("password"))
	if !ok {
		form := make(map[string]string, len(r.PostForm))
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		obs.From(r.Context()).Info("login rejected", "pkg", "demoapp", "form", logutil.RedactMap(form))
		v := s.newView(r, "Sign in", "login")
		v.Error = "Invalid username or password"
		s.render(w, r, http.StatusUnauthorized, "login.html", v)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "home.html", s.newView(r, "Home", "home"))
}

func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "admin.html", s.newView(r, "Admin", "admin"))
}

type usersData struct {
	Query   string
	By      string
	Results []Account
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v := s.newView(r, "Users", "admin")
	data := usersData{Query: q.Get("q"), By: q.Get("by")}
	if q.Has("q") {
		data.Results = s.store.searchAccounts(data.Query)
	}
	v.Data = data
	s.render(w, r, http.StatusOK, "users.html", v)
}

type userData struct {
	Account     Account
	Assigned    []Permission
	Permissions []Permission
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	a, ok := s.store.account(chi.URLParam(r, "username"))
	if !ok {
		s.notFound(w, r, "user")
		return
	}
	data := userData{Account: a, Permissions: permissions}
	for _, p := range a.Permissions {
		data.Assigned = append(data.Assigned, Permission{Value: p, Label: permissionLabel(p)})
	}
	v := s.newView(r, a.Name, "admin")
	if r.URL.Query().Get("granted") != "" {
		v.Flash = "Permission assigned: " + permissionLabel(r.URL.Query().Get("granted"))
	}
	v.Data = data
	s.render(w, r, http.StatusOK, "user.html", v)
}

func (s *Server) handleGrant(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	perm := r.PostForm.Get("permission")
	if !s.store.grant(username, perm) {
		s.notFound(w, r, "user or permission")
		return
	}
	s.logger.Info("permission granted", "username", username, "permission", perm)
	http.Redirect(w, r, "/admin/users/"+url.PathEscape(username)+"?granted="+url.QueryEscape(perm), http.StatusSeeOther)
}

func (s *Server) handleDeals(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "deals.html", s.newView(r, "Deals", "deals"))
}

type repositoryData struct {
	Status string
	Deals  []Deal
}

func (s *Server) handleRepository(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	v := s.newView(r, "Deals repository", "deals")
	if id, err := strconv.Atoi(r.URL.Query().Get("saved")); err == nil {
		if d, ok := s.store.deal(id); ok {
			v.Flash = "Deal saved: " + d.Partner
		}
	}
	v.Data = repositoryData{Status: status, Deals: s.store.listDeals(status)}
	s.render(w, r, http.StatusOK, "repository.html", v)
}

func (s *Server) handleNewDeal(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "new_deal.html", s.newView(r, "Create deal", "deals"))
}

func (s *Server) handleCreateDeal(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	partner := strings.TrimSpace(r.PostForm.Get("partner"))
	if partner == "" {
		v := s.newView(r, "Create deal", "deals")
		v.Error = "Select a roaming partner"
		s.render(w, r, http.StatusUnprocessableEntity, "new_deal.html", v)
		return
	}
	d := s.store.createDeal(partner, strings.TrimSpace(r.PostForm.Get("operator")), s.now())
	s.logger.Info("deal created", "deal_id", d.ID, "partner", d.Partner)
	http.Redirect(w, r, "/deals/repository?saved="+strconv.Itoa(d.ID), http.StatusSeeOther)
}

func (s *Server) dealFromPath(r *http.Request) (Deal, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return Deal{}, err
	}
	d, ok := s.store.deal(id)
	if !ok {
		return Deal{}, errors.New("unknown deal")
	}
	return d, nil
}

func (s *Server) handleDeal(w http.ResponseWriter, r *http.Request) {
	d, err := s.dealFromPath(r)
	if err != nil {
		s.notFound(w, r, "deal")
		return
	}
	v := s.newView(r, "Deal "+strconv.Itoa(d.ID), "deals")
	if r.URL.Query().Get("saved") != "" {
		v.Flash = "Deal " + strconv.Itoa(d.ID) + " saved"
	}
	v.Data = d
	s.render(w, r, http.StatusOK, "deal.html", v)
}

func (s *Server) handleSaveDeal(w http.ResponseWriter, r *http.Request) {
	d, err := s.dealFromPath(r)
	if err != nil {
		s.notFound(w, r, "deal")
		return
	}
	d, _ = s.store.saveDeal(d.ID, s.now())
	s.logger.Info("deal saved", "deal_id", d.ID)
	http.Redirect(w, r, "/deals/"+strconv.Itoa(d.ID)+"?saved=1", http.StatusSeeOther)
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "budgets.html", s.newView(r, "Budgets", "budgets"))
}
