package server

import (
	"embed"
	"html/template"
	"io/fs"
	"strings"

	"github.com/Artem18071998/portfolio/contact"
	"github.com/Artem18071998/portfolio/content"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFiles embed.FS

const invalidFieldsMessage = "Please fill in your name, a valid email address and a message."
const rateLimitedMessage = "Too many messages in a short time. Please wait a minute and try again."

type pageView struct {
	Site    *content.Site
	Contact contactView
}

type contactView struct {
	Status  string
	Error   string
	Notice  string
	Success string
	Fields  contact.Fields
}

func newContactView(state contact.State, fields contact.Fields) contactView {
	v := contactView{
		Status: state.Status().String(),
		Error:  state.Message(),
		Fields: fields,
	}
	if state.Status() == contact.StatusSuccess {
		v.Success = contact.SuccessMessage
	}
	return v
}

var icons = map[string]string{
	"code":       `<polyline points="16 18 22 12 16 6"/><polyline points="8 6 2 12 8 18"/>`,
	"palette":    `<circle cx="13.5" cy="6.5" r=".5"/><circle cx="17.5" cy="10.5" r=".5"/><circle cx="8.5" cy="7.5" r=".5"/><circle cx="6.5" cy="12.5" r=".5"/><path d="M12 2C6.5 2 2 6.5 2 12s4.5 10 10 10c.9 0 1.6-.7 1.6-1.7 0-.4-.2-.8-.4-1.1-.3-.3-.4-.7-.4-1.1a1.6 1.6 0 0 1 1.6-1.7h2c3 0 5.6-2.5 5.6-5.6C22 6 17.5 2 12 2z"/>`,
	"database":   `<ellipse cx="12" cy="5" rx="9" ry="3"/><path d="M3 5v14a9 3 0 0 0 18 0V5"/><path d="M3 12a9 3 0 0 0 18 0"/>`,
	"git-branch": `<line x1="6" x2="6" y1="3" y2="15"/><circle cx="18" cy="6" r="3"/><circle cx="6" cy="18" r="3"/><path d="M18 9a9 9 0 0 1-9 9"/>`,
}

func icon(name string) template.HTML {
	paths, ok := icons[name]
	if !ok {
		paths = icons["code"]
	}
	return template.HTML(`<svg class="icon" xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" aria-hidden="true">` + paths + `</svg>`)
}

// safeURL passes owner-authored links such as tel: through unfiltered.
func safeURL(s string) template.URL {
	return template.URL(s)
}

func parseTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"icon":    icon,
		"lower":   strings.ToLower,
		"safeURL": safeURL,
	}
	return template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}

func staticFS() (fs.FS, error) {
	return fs.Sub(staticFiles, "static")
}
