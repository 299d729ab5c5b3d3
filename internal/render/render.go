// Package render собирает HTML-фрагменты для живого канала и писем.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"ejaraat_backend/internal/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Имена шаблонов
const (
	RecentActivities = "recent_activities"
	Notifications    = "notifications"
	OverdueEmail     = "overdue_email"
)

// Renderer хранит разобранные шаблоны фрагментов
type Renderer struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// New загружает встроенные шаблоны
func New() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template)}
	if err := r.load(templatesFS, "templates"); err != nil {
		return nil, err
	}
	return r, nil
}

// MustNew: для wiring на старте и тестов
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Renderer) load(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read templates: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".html")
		tpl, err := template.New(e.Name()).Funcs(funcMap()).ParseFS(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return fmt.Errorf("failed to parse template %s: %w", name, err)
		}

		r.mutex.Lock()
		r.templates[name] = tpl
		r.mutex.Unlock()
	}
	return nil
}

// Render рендерит шаблон с данными
func (r *Renderer) Render(name string, data any) (string, error) {
	r.mutex.RLock()
	tpl, exists := r.templates[name]
	r.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", name)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatNumber группирует разряды: 12500 -> "12,500"
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// ActivityText: подпись активности в ленте
func ActivityText(t models.ActivityType, propertyName string) string {
	switch t {
	case models.ActivityAdd:
		return fmt.Sprintf("New property %s added", propertyName)
	case models.ActivityRent:
		return fmt.Sprintf("%s has been rented", propertyName)
	case models.ActivityPayment:
		return fmt.Sprintf("Payment received for %s", propertyName)
	case models.ActivityOverdue:
		return fmt.Sprintf("Payment overdue for %s", propertyName)
	case models.ActivityContract:
		return fmt.Sprintf("Contract for %s is expiring", propertyName)
	default:
		return propertyName
	}
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"number": FormatNumber,
		"activity": func(a models.RecentActivity) string {
			name := ""
			if a.Property != nil {
				name = a.Property.Name
			}
			return ActivityText(a.ActivityType, name)
		},
		"date": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"datetime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 15:04")
		},
	}
}
