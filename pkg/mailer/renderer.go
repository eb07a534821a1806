package mailer

import (
	"bytes"
	"errors"
	"html/template"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	reBold           = regexp.MustCompile(`\*\*(.*?)\*\*`)
	reItalic         = regexp.MustCompile(`\*(.*?)\*`)
	reExcessNewlines = regexp.MustCompile(`\n{3,}`)
)

// layoutHTML is the minimal standalone document every campaign message is
// embedded in: capped container width, basic sans-serif styling, and
// exactly one unsubscribe footer scoped to the sending domain.
const layoutHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.5; color: #333; margin: 0; padding: 0;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    {{.Content}}
    <div style="margin-top: 25px; padding-top: 15px; border-top: 1px solid #e0e0e0; font-size: 11px; color: #888; text-align: center;">
      <p style="margin: 0;">If you no longer wish to receive emails, <a href="mailto:unsubscribe@{{.Domain}}?subject=Unsubscribe" style="color: #888;">unsubscribe here</a>.</p>
    </div>
  </div>
</body>
</html>`

// Renderer converts personalized plain text into a minimal HTML document
// tuned for deliverability.
type Renderer struct {
	layout *template.Template
	policy *bluemonday.Policy
	domain string
}

// NewRenderer creates a renderer whose unsubscribe footer points at the
// given sending domain.
func NewRenderer(domain string) *Renderer {
	return &Renderer{
		layout: template.Must(template.New("layout").Parse(layoutHTML)),
		policy: bluemonday.StrictPolicy(),
		domain: domain,
	}
}

// Render normalizes the text and wraps it in the layout document:
// line endings are normalized, runs of 3+ newlines collapse to one blank
// line, any markup in the input is stripped, **bold** and *italic* markers
// become inline emphasis, and blank-line-separated blocks turn into
// paragraphs (single embedded newlines become spaces).
func (r *Renderer) Render(text string) (string, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(text), "\r\n", "\n")
	normalized = reExcessNewlines.ReplaceAllString(normalized, "\n\n")

	// Strip and escape anything resembling markup before we introduce our
	// own emphasis tags: template text is caller-supplied.
	safe := r.policy.Sanitize(normalized)
	safe = reBold.ReplaceAllString(safe, "<strong>$1</strong>")
	safe = reItalic.ReplaceAllString(safe, "<em>$1</em>")

	var content strings.Builder
	for _, para := range strings.Split(safe, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		content.WriteString(`<p style="margin: 0 0 16px 0;">`)
		content.WriteString(strings.ReplaceAll(para, "\n", " "))
		content.WriteString(`</p>`)
	}

	var out bytes.Buffer
	err := r.layout.Execute(&out, map[string]any{
		"Content": template.HTML(content.String()), //nolint:gosec // sanitized above
		"Domain":  r.domain,
	})
	if err != nil {
		return "", errors.Join(ErrRenderFailed, err)
	}
	return out.String(), nil
}
