package mockserver

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/jsondb"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// mdRenderer escapes raw HTML; resource names come from the document.
var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()),
)

var homeTemplate = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>tripbtoz mock server</title>
  <style>
    body { font-family: sans-serif; max-width: 720px; margin: 40px auto; color: #1f2937; }
    code { background: #f3f4f6; padding: 1px 4px; border-radius: 3px; }
    table { border-collapse: collapse; }
    td, th { border: 1px solid #e5e7eb; padding: 4px 10px; text-align: left; }
  </style>
</head>
<body>
{{.}}
</body>
</html>
`))

// homeMarkdown describes the resources of the document.
func homeMarkdown(resources []jsondb.Resource) string {
	var b strings.Builder
	b.WriteString("# tripbtoz mock server\n\n")
	b.WriteString("## Resources\n\n")
	b.WriteString("| resource | kind | items |\n|---|---|---|\n")
	for _, r := range resources {
		count := ""
		if r.Kind == jsondb.KindCollection {
			count = fmt.Sprintf("%d", r.Count)
		}
		fmt.Fprintf(&b, "| [/%s](/%s) | %s | %s |\n", r.Name, r.Name, r.Kind, count)
	}
	b.WriteString("\nThe whole document is available at [/db](/db).\n\n")
	b.WriteString("## Queries\n\n")
	b.WriteString("Filter with `field=value`, `field_gte`, `field_lte`, `field_ne`, `field_like` and `q`.\n")
	b.WriteString("Sort with `_sort` and `_order`, paginate with `_page` and `_limit` or `_start` and `_end`.\n")
	return b.String()
}

func (s *Server) handleHome(w http.ResponseWriter, _ *http.Request) {
	var body bytes.Buffer
	if err := mdRenderer.Convert([]byte(homeMarkdown(s.store.Resources())), &body); err != nil {
		s.fail(w, err)
		return
	}

	var page bytes.Buffer
	if err := homeTemplate.Execute(&page, template.HTML(body.String())); err != nil {
		s.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page.Bytes())
}
