// Package docs renders the command reference into README.md.
package docs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/keshon/smartcmd/internal/invoke"
	"github.com/keshon/smartcmd/pkg/cmd"
)

// CommandSections renders one section per command with its call forms.
func CommandSections(registry *cmd.Registry, prefix string) string {
	var buf bytes.Buffer
	for i, c := range registry.GetAll() {
		if i > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "### %s%s\n\n%s\n", prefix, c.Name(), c.Description())
		if a, ok := cmd.Root(c).(cmd.Aliased); ok && len(a.Aliases()) > 0 {
			fmt.Fprintf(&buf, "\nAliases: %s\n", strings.Join(a.Aliases(), ", "))
		}
		ic, ok := cmd.Root(c).(*invoke.Command)
		if !ok {
			continue
		}
		buf.WriteString("\n")
		for _, sig := range ic.Signatures() {
			line := "- `" + prefix + sig.Usage() + "`"
			if sig.Doc() != "" {
				line += " - " + sig.Doc()
			}
			buf.WriteString(line + "\n")
		}
	}
	return buf.String()
}

// Render executes tmpl with the command sections as .CommandSections.
func Render(w io.Writer, tmpl *template.Template, registry *cmd.Registry, prefix string) error {
	data := struct {
		CommandSections string
	}{
		CommandSections: CommandSections(registry, prefix),
	}
	return tmpl.Execute(w, data)
}

// UpdateReadme renders the template at tmplPath into outPath.
func UpdateReadme(registry *cmd.Registry, prefix, tmplPath, outPath string) error {
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Render(&buf, tmpl, registry, prefix); err != nil {
		return fmt.Errorf("render %s: %w", tmplPath, err)
	}
	return os.WriteFile(outPath, buf.Bytes(), 0o644)
}
