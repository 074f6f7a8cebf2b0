package mailer

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/atinyakov/baristafolio/internal/config"
	"github.com/atinyakov/baristafolio/internal/models"
)

//go:embed templates/*
var templateFS embed.FS

type replyData struct {
	Name            string
	OriginalMessage string
	Reply           string
	OwnerName       string
	OwnerTitle      string
	SiteURL         string
	Year            int
}

type renderer struct {
	site config.SiteOptions
	html *htmltemplate.Template
	text *texttemplate.Template
}

func newRenderer(site config.SiteOptions) (*renderer, error) {
	html, err := htmltemplate.New("reply.html").Funcs(htmltemplate.FuncMap{
		// lines escapes s and keeps its line breaks.
		"lines": func(s string) htmltemplate.HTML {
			escaped := htmltemplate.HTMLEscapeString(s)
			return htmltemplate.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
		},
	}).ParseFS(templateFS, "templates/reply.html")
	if err != nil {
		return nil, fmt.Errorf("parse html template: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/reply.txt")
	if err != nil {
		return nil, fmt.Errorf("parse text template: %w", err)
	}
	return &renderer{site: site, html: html, text: text}, nil
}

func (r *renderer) subject() string {
	return "Re: Your Message - " + r.site.OwnerName
}

func (r *renderer) render(email models.ReplyEmail) (text, html string, err error) {
	data := replyData{
		Name:            email.Name,
		OriginalMessage: email.OriginalMessage,
		Reply:           email.Reply,
		OwnerName:       r.site.OwnerName,
		OwnerTitle:      r.site.OwnerTitle,
		SiteURL:         r.site.URL,
		Year:            time.Now().Year(),
	}

	var textBuf, htmlBuf bytes.Buffer
	if err := r.text.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("render text reply: %w", err)
	}
	if err := r.html.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("render html reply: %w", err)
	}
	return textBuf.String(), htmlBuf.String(), nil
}
