package conversation

import (
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig"
	"github.com/pkg/errors"
)

// Renderer writes a conversation out as a markdown transcript.
type Renderer struct {
	// WithMetadata includes message IDs and timestamps in the verbose form.
	WithMetadata bool
	// Concise collapses each message to a single `**role**: text` block.
	Concise bool
	// RenameRoles maps role names to display names (e.g. assistant -> gemini).
	RenameRoles map[string]string
}

type transcriptData struct {
	Title        string
	CreateTime   string
	Concise      bool
	WithMetadata bool
	Messages     []transcriptMessage
}

type transcriptMessage struct {
	ID   string
	Role string
	Time string
	Text string
}

const transcriptTemplate = `# {{ .Title }}
Created at: {{ .CreateTime }}

{{ range .Messages -}}
{{ template "message" (list $ .) -}}
{{ end -}}
`

const messageTemplate = `
{{- $top := index . 0 -}}
{{ with (index . 1) -}}
{{ if $top.Concise -}}
**{{ .Role }}**: {{ .Text }}

{{ else -}}
### {{ .Role | title }}
{{ if $top.WithMetadata -}}
- **ID**: {{ .ID }}
- **Time**: {{ .Time }}
{{ end }}
{{- .Text }}

---

{{ end -}}
{{ end -}}
`

// RenderTo writes the transcript for the given history. Messages whose text is
// blank are skipped.
func (r *Renderer) RenderTo(w io.Writer, title string, c Conversation) error {
	t := template.Must(template.New("transcript").Funcs(sprig.FuncMap()).Parse(transcriptTemplate))
	t = template.Must(t.New("message").Parse(messageTemplate))

	createTime := time.Now().UTC()
	if len(c) > 0 {
		createTime = c[0].Time
	}

	data := transcriptData{
		Title:        title,
		CreateTime:   createTime.Format(time.RFC3339),
		Concise:      r.Concise,
		WithMetadata: r.WithMetadata,
	}

	for _, message := range c {
		if strings.TrimSpace(message.Text) == "" {
			continue
		}

		role := string(message.Role)
		if r.RenameRoles != nil {
			if newRole, ok := r.RenameRoles[role]; ok {
				role = newRole
			}
		}

		data.Messages = append(data.Messages, transcriptMessage{
			ID:   message.ID.String(),
			Role: role,
			Time: message.Time.Format(time.RFC3339),
			Text: message.Text,
		})
	}

	if err := t.ExecuteTemplate(w, "transcript", data); err != nil {
		return errors.Wrap(err, "failed to render transcript")
	}

	return nil
}

// Render returns the transcript as a string.
func (r *Renderer) Render(title string, c Conversation) (string, error) {
	var sb strings.Builder
	if err := r.RenderTo(&sb, title, c); err != nil {
		return "", err
	}
	return sb.String(), nil
}
