package message

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Booking-Engine/agent/contract"
)

//go:embed template/*.tmpl
var templateFS embed.FS

const (
	kindSuccess = "success"
	kindError   = "error"
)

var funcs = template.FuncMap{
	"join":  strings.Join,
	"comma": func(n int) string { return humanize.Comma(int64(n)) },
	"plural": func(n int, singular, plural string) string {
		return english.Plural(n, singular, plural)
	},
}

// view is what every template renders against.
type view struct {
	Reference string
	Offer     any
	Error     string
}

var _ contractx.Composer = (*Composer)(nil)

// Composer renders fulfillment results. It is stateless after New and safe
// for concurrent use.
type Composer struct {
	templates map[string]*template.Template
}

func New() (*Composer, error) {
	entries, err := templateFS.ReadDir("template")
	if err != nil {
		return nil, fmt.Errorf("read message templates: %w", err)
	}

	templates := make(map[string]*template.Template, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		raw, err := templateFS.ReadFile("template/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", e.Name(), err)
		}
		name := strings.TrimSuffix(e.Name(), ".tmpl")
		tpl, err := template.New(name).
			Funcs(funcs).
			Option("missingkey=error").
			Parse(strings.TrimSpace(string(raw)))
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", e.Name(), err)
		}
		templates[name] = tpl
	}
	return &Composer{templates: templates}, nil
}

func MustNew() *Composer {
	c, err := New()
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Composer) Compose(serviceType contractx.ServiceType, result contractx.FulfillmentResult) string {
	if result.Success {
		msg, ok := c.render(templateName(serviceType, kindSuccess), view{
			Reference: result.Reference,
			Offer:     result.Data,
		})
		if ok {
			return msg
		}
		return genericSuccess(serviceType, result.Reference)
	}

	errText := strings.TrimSpace(result.Error)
	if errText == "" {
		errText = "Unknown error"
	}
	msg, ok := c.render(templateName(serviceType, kindError), view{Error: errText})
	if ok {
		return msg
	}
	return genericError(serviceType, errText)
}

func (c *Composer) render(name string, data view) (string, bool) {
	tpl, ok := c.templates[name]
	if !ok {
		return "", false
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		log.Warn().Err(err).Str("template", name).Msg("message template failed, using generic phrase")
		return "", false
	}
	return buf.String(), true
}

func templateName(serviceType contractx.ServiceType, kind string) string {
	return string(serviceType) + "." + kind
}

func genericSuccess(serviceType contractx.ServiceType, reference string) string {
	msg := fmt.Sprintf("✅ Your %s request has been processed successfully!", serviceType)
	if reference != "" {
		msg += "\n📋 Booking Reference: " + reference
	}
	return msg
}

func genericError(serviceType contractx.ServiceType, errText string) string {
	return fmt.Sprintf("❌ Sorry, there was an error processing your %s request: %s", serviceType, errText)
}
