// Package renderer turns ledger data into markdown documents.
//
// Documents are text/template files embedded from the templates folder. A
// main template may call partials, which are declared at render time.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/finance"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.md
var templatesFS embed.FS

var templates = mustSub(templatesFS, "templates")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// funcs returns the helpers available in every template, formatting money in
// currency.
func funcs(currency string) template.FuncMap {
	return template.FuncMap{
		"money":   func(a finance.Amount) string { return a.Format(currency) },
		"signed":  func(tx finance.Transaction) string { return tx.Signed().Format(currency) },
		"percent": func(d decimal.Decimal) string { return d.StringFixed(1) + "%" },
		"cell":    cell,
	}
}

// cell makes s safe to use in a markdown table cell.
func cell(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "-"
	}
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

// renderTemplate renders the main template file with data, after parsing the
// partials it depends on: a map of template names to file names.
func renderTemplate(templateName, mainFile string, partials map[string]string, currency string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs(currency)).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
