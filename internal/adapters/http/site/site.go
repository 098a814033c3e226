// Package site renders the HTML pages for standings, drivers and circuits.
package site

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"

	"github.com/okian/paddock/internal/domain/model"
	"github.com/okian/paddock/internal/domain/types"
	"github.com/okian/paddock/pkg/logger"
)

// homePreview is how many standings rows the front page shows.
const homePreview = 3

// Dependencies required by the pages.
type Dependencies interface {
	TopN(ctx context.Context, season, n int) ([]types.Entry, error)
	Drivers(ctx context.Context, season int) []model.Driver
	Circuits(ctx context.Context, season int) []model.Meeting
}

// Handler renders the site pages.
type Handler struct {
	deps     Dependencies
	season   int
	maxRows  int
	log      logger.Logger
	pages    map[string]*template.Template
	navItems []navItem
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger used for render failures.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithMaxRows caps the standings table.
func WithMaxRows(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxRows = n
		}
	}
}

type navItem struct {
	Name string
	Href string
}

type pageData struct {
	Title     string
	Active    string
	Nav       []navItem
	Season    int
	Standings []types.Entry
	Drivers   []types.Driver
	Circuits  []types.Circuit
}

// NewHandler parses the embedded templates.
// defaultSeason is shown when a request has no ?season.
func NewHandler(deps Dependencies, defaultSeason int, opts ...Option) (*Handler, error) {
	h := &Handler{
		deps:    deps,
		season:  defaultSeason,
		maxRows: 100,
		log:     logger.Nop(),
		navItems: []navItem{
			{Name: "Etusivu", Href: "/"},
			{Name: "Sarjatilanne", Href: "/standings"},
			{Name: "Kuljettajat", Href: "/drivers"},
			{Name: "Radat", Href: "/circuits"},
		},
	}
	for _, opt := range opts {
		opt(h)
	}

	funcs := template.FuncMap{
		"flag": model.FlagEmoji,
		"date": formatDate,
	}
	h.pages = make(map[string]*template.Template, 4)
	for _, name := range []string{"home", "standings", "drivers", "circuits"} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrGenerate, name, err)
		}
		h.pages[name] = t
	}
	return h, nil
}

// Register attaches the site routes to mux.
func (h *Handler) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/", h.HandleHome)
	mux.HandleFunc("/standings", h.HandleStandings)
	mux.HandleFunc("/drivers", h.HandleDrivers)
	mux.HandleFunc("/circuits", h.HandleCircuits)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(FS())))
}

// HandleHome handles GET / requests.
func (h *Handler) HandleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	season, ok := h.parseSeason(w, r)
	if !ok {
		return
	}
	data := h.newPage("Formula 1 Finland", "/", season)
	data.Standings = h.standings(r.Context(), season, homePreview)
	h.render(w, r, "home", data)
}

// HandleStandings handles GET /standings requests.
func (h *Handler) HandleStandings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	season, ok := h.parseSeason(w, r)
	if !ok {
		return
	}
	data := h.newPage("Sarjatilanne", "/standings", season)
	data.Standings = h.standings(r.Context(), season, h.maxRows)
	h.render(w, r, "standings", data)
}

// HandleDrivers handles GET /drivers requests.
func (h *Handler) HandleDrivers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	season, ok := h.parseSeason(w, r)
	if !ok {
		return
	}
	data := h.newPage("Kuljettajat", "/drivers", season)
	data.Drivers = types.Drivers(h.deps.Drivers(r.Context(), season))
	h.render(w, r, "drivers", data)
}

// HandleCircuits handles GET /circuits requests.
func (h *Handler) HandleCircuits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	season, ok := h.parseSeason(w, r)
	if !ok {
		return
	}
	data := h.newPage("Radat", "/circuits", season)
	data.Circuits = types.Circuits(h.deps.Circuits(r.Context(), season))
	h.render(w, r, "circuits", data)
}

func (h *Handler) newPage(title, active string, season int) pageData {
	return pageData{Title: title, Active: active, Nav: h.navItems, Season: season}
}

// standings degrades to an empty table; the page still renders.
func (h *Handler) standings(ctx context.Context, season, n int) []types.Entry {
	entries, err := h.deps.TopN(ctx, season, n)
	if err != nil {
		h.log.Warn(ctx, "standings unavailable",
			logger.Int("season", season),
			logger.Error(err))
		return nil
	}
	return entries
}

func (h *Handler) parseSeason(w http.ResponseWriter, r *http.Request) (int, bool) {
	season, err := model.ParseSeason(r.URL.Query().Get("season"), h.season)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return 0, false
	}
	return season, true
}

// render buffers the page so a failed template never sends a partial body.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	var buf bytes.Buffer
	if err := h.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		h.log.Error(r.Context(), "render page",
			logger.String("page", name),
			logger.Error(fmt.Errorf("%w: %w", ErrServe, err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func formatDate(raw string) string {
	t, err := model.ParseTimestamp(raw)
	if err != nil {
		return raw
	}
	return t.Format("2.1.2006")
}
