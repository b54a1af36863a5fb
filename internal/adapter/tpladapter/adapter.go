package tpladapter

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	_ "embed"

	"github.com/jgivc/backupnotify/internal/entity"
	"github.com/jgivc/backupnotify/internal/util"
	"github.com/spf13/afero"
)

const (
	funcNameTimeAgo   = "timeago"
	funcNameHumanSize = "humansize"
	funcNameBasename  = "basename"
	funcNameSafe      = "safe"
)

var (
	//go:embed templates/report.txt
	defaultTextTemplate string

	//go:embed templates/report.html
	defaultHTMLTemplate string
)

type tplAdapter struct {
	text *texttemplate.Template
	html *htmltemplate.Template
}

// NewTplAdapter parses the report templates. An empty file name selects the
// built in template for that format.
func NewTplAdapter(fs afero.Fs, textFileName, htmlFileName string) (*tplAdapter, error) {
	textSrc, err := readTemplate(fs, textFileName, defaultTextTemplate)
	if err != nil {
		return nil, err
	}

	htmlSrc, err := readTemplate(fs, htmlFileName, defaultHTMLTemplate)
	if err != nil {
		return nil, err
	}

	// Placeholder funcs, rebound to the report time on every render.
	funcs := funcMap(time.Time{})

	text, err := texttemplate.New("text").Funcs(funcs).Parse(textSrc)
	if err != nil {
		return nil, fmt.Errorf("cannot parse text template: %w", err)
	}

	html, err := htmltemplate.New("html").Funcs(funcs).Parse(htmlSrc)
	if err != nil {
		return nil, fmt.Errorf("cannot parse html template: %w", err)
	}

	return &tplAdapter{
		text: text,
		html: html,
	}, nil
}

// Render executes both templates against report. Relative ages are computed
// against report.GeneratedAt.
func (a *tplAdapter) Render(report *entity.Report) (string, string, error) {
	funcs := funcMap(report.GeneratedAt)

	text, err := a.text.Clone()
	if err != nil {
		return "", "", fmt.Errorf("cannot clone text template: %w", err)
	}

	html, err := a.html.Clone()
	if err != nil {
		return "", "", fmt.Errorf("cannot clone html template: %w", err)
	}

	textBuf := bytes.Buffer{}
	if err := text.Funcs(funcs).Execute(&textBuf, report); err != nil {
		return "", "", fmt.Errorf("cannot execute text template: %w", err)
	}

	htmlBuf := bytes.Buffer{}
	if err := html.Funcs(funcs).Execute(&htmlBuf, report); err != nil {
		return "", "", fmt.Errorf("cannot execute html template: %w", err)
	}

	return textBuf.String(), htmlBuf.String(), nil
}

func funcMap(now time.Time) map[string]any {
	return map[string]any{
		funcNameTimeAgo: func(ts time.Time) string {
			return util.TimeAgo(ts, now)
		},
		funcNameHumanSize: util.HumanSize,
		funcNameBasename:  util.Basename,
		funcNameSafe: func(s string) htmltemplate.HTML {
			return htmltemplate.HTML(s)
		},
	}
}

func readTemplate(fs afero.Fs, fileName, fallback string) (string, error) {
	if fileName == "" {
		return fallback, nil
	}

	data, err := afero.ReadFile(fs, fileName)
	if err != nil {
		return "", fmt.Errorf("cannot read template: %w", err)
	}

	return string(data), nil
}
