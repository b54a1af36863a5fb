package mdadapter

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jgivc/backupnotify/internal/entity"
	"github.com/spf13/afero"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

var frontmatterDelimiters = []string{"---", "+++"}

// Frontmatter holds the optional header of a note file.
type Frontmatter struct {
	Subject string `yaml:"subject" toml:"subject"`
	Title   string `yaml:"title" toml:"title"`
}

type noteAdapter struct {
	fs  afero.Fs
	md  goldmark.Markdown
	log *slog.Logger
}

func NewNoteAdapter(fs afero.Fs, log *slog.Logger) *noteAdapter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			&frontmatter.Extender{},
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	return &noteAdapter{
		fs:  fs,
		md:  md,
		log: log.With(slog.String("item", "NoteAdapter")),
	}
}

// Load reads a Markdown note and renders it to HTML. The frontmatter, if
// any, is decoded into Subject and Title and is not part of the body.
func (a *noteAdapter) Load(fileName string) (*entity.Note, error) {
	content, err := afero.ReadFile(a.fs, fileName)
	if err != nil {
		return nil, fmt.Errorf("cannot read note file: %w", err)
	}
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))

	var buf bytes.Buffer

	ctx := parser.NewContext()
	if err := a.md.Convert(content, &buf, parser.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("cannot convert note: %w", err)
	}

	note := &entity.Note{
		Markdown: strings.TrimSpace(stripFrontmatter(string(content))),
		HTML:     strings.TrimSpace(buf.String()),
	}

	if fm := frontmatter.Get(ctx); fm != nil {
		var meta Frontmatter
		if err := fm.Decode(&meta); err != nil {
			return nil, fmt.Errorf("cannot decode frontmatter: %w", err)
		}

		note.Subject = meta.Subject
		note.Title = meta.Title
	}

	a.log.Debug("Note loaded", slog.String("file", fileName), slog.String("subject", note.Subject))

	return note, nil
}

func stripFrontmatter(src string) string {
	for _, delim := range frontmatterDelimiters {
		if !strings.HasPrefix(src, delim+"\n") {
			continue
		}

		parts := strings.SplitN(src, delim+"\n", 3)
		if len(parts) < 3 {
			return src
		}

		return parts[2]
	}

	return src
}
