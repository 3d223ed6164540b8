package store

import (
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

type transcriptExport struct {
	UID       string          `yaml:"uid"`
	Service   string          `yaml:"service"`
	Email     string          `yaml:"email,omitempty"`
	CreatedAt time.Time       `yaml:"created_at"`
	Messages  []messageExport `yaml:"messages"`
}

type messageExport struct {
	Role   string    `yaml:"role"`
	Text   string    `yaml:"text"`
	Failed bool      `yaml:"failed,omitempty"`
	At     time.Time `yaml:"at"`
}

// ExportYAML writes the transcript as a YAML document.
func ExportYAML(t *Transcript, w io.Writer) error {
	doc := transcriptExport{
		UID:       t.UID,
		Service:   t.ServiceID,
		Email:     t.Email,
		CreatedAt: t.CreatedAt,
		Messages:  make([]messageExport, 0, len(t.Messages)),
	}
	for _, m := range t.Messages {
		doc.Messages = append(doc.Messages, messageExport{
			Role:   m.Role,
			Text:   m.Text,
			Failed: m.Failed,
			At:     m.CreatedAt,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "failed to encode transcript")
	}
	return errors.Wrap(enc.Close(), "failed to flush transcript")
}

// ExportMarkdown writes the transcript as a readable Markdown document.
func ExportMarkdown(t *Transcript, w io.Writer) error {
	title := cases.Title(language.English)

	if _, err := fmt.Fprintf(w, "# Transcript %s\n\n", t.UID); err != nil {
		return errors.Wrap(err, "failed to write transcript")
	}
	fmt.Fprintf(w, "- Service: %s\n", t.ServiceID)
	if t.Email != "" {
		fmt.Fprintf(w, "- Email: %s\n", t.Email)
	}
	fmt.Fprintf(w, "- Saved: %s\n\n", t.CreatedAt.Format(time.RFC3339))

	for _, m := range t.Messages {
		speaker := title.String(m.Role)
		if m.Failed {
			speaker += " (failed)"
		}
		if _, err := fmt.Fprintf(w, "**%s**: %s\n\n", speaker, m.Text); err != nil {
			return errors.Wrap(err, "failed to write transcript")
		}
	}
	return nil
}
