package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"go-admin-panel/internal/resource"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the admin templates. Output is buffered so a failing
// template never leaves a half-written response.
type Renderer struct {
	tmpl     *template.Template
	nav      []NavItem
	basePath string
}

type NavItem struct {
	Name  string
	Title string
	URL   string
}

// Chrome is the part of every full page that does not depend on the view:
// the document title and the resource navigation.
type Chrome struct {
	Title  string
	Nav    []NavItem
	Active string
	Home   string
}

func New(resources []*resource.Resource, basePath string) (*Renderer, error) {
	tmpl, err := template.New("admin").Funcs(template.FuncMap{
		"statusClass": statusClass,
		"formatTime":  formatTime,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	basePath = strings.TrimRight(basePath, "/")
	nav := make([]NavItem, 0, len(resources))
	for _, res := range resources {
		nav = append(nav, NavItem{Name: res.Name, Title: res.Title, URL: basePath + "/" + res.Name})
	}

	return &Renderer{tmpl: tmpl, nav: nav, basePath: basePath}, nil
}

func (r *Renderer) Chrome(title string, active string) Chrome {
	return Chrome{Title: title, Nav: r.nav, Active: active, Home: r.basePath}
}

// BasePath is the URL prefix the admin pages are mounted under.
func (r *Renderer) BasePath() string {
	return r.basePath
}

// Render executes the named template into w.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	_, err := buf.WriteTo(w)
	return err
}

func statusClass(status string) string {
	switch strings.ToLower(status) {
	case "active", "published", "paid", "done", "created":
		return "badge-success"
	case "draft", "pending", "scheduled", "updated":
		return "badge-warning"
	case "archived", "suspended", "void", "cancelled", "inactive", "deleted":
		return "badge-muted"
	default:
		return "badge-default"
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.UTC().Format("Jan 2, 2006 15:04")
}
