// Package toon implements TOON (Token-Oriented Object Notation) encoding of
// stimref results.
package toon

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/phobologic/stimref/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Field is a top-level scalar.
type Field struct {
	Key   string
	Value string
}

// Table is a uniform list of rows.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Document is a list of scalar fields followed by tables.
type Document struct {
	Fields []Field
	Tables []Table
}

// AddField appends a scalar field.
func (d *Document) AddField(key, value string) {
	d.Fields = append(d.Fields, Field{Key: key, Value: value})
}

// AddTable appends a table.
func (d *Document) AddTable(name string, columns []string, rows [][]string) {
	d.Tables = append(d.Tables, Table{Name: name, Columns: columns, Rows: rows})
}

// Encode converts a Document into TOON format.
func Encode(doc *Document) string {
	var parts []string
	for _, f := range doc.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Key, encodeValue(f.Value)))
	}
	for _, t := range doc.Tables {
		parts = append(parts, formatTabular(t.Name, t.Columns, t.Rows))
	}
	return strings.Join(parts, "\n")
}

// Usages converts a usage report.
func Usages(rep *model.UsageReport) *Document {
	doc := &Document{}
	if rep.Root != "" {
		doc.AddField("root", rep.Root)
	}

	var controllerRows [][]string
	for i := range rep.Controllers {
		c := &rep.Controllers[i]
		controllerRows = append(controllerRows, []string{
			c.Identifier,
			c.File,
			strconv.Itoa(c.References),
			fmt.Sprintf("%.4f", c.Rank),
			status(c),
		})
	}
	doc.AddTable("controllers", []string{"identifier", "file", "references", "rank", "status"}, controllerRows)

	var depRows [][]string
	for i := range rep.Dependencies {
		d := &rep.Dependencies[i]
		depRows = append(depRows, []string{
			d.Source,
			d.Target,
			strings.Join(d.Identifiers, " "),
		})
	}
	doc.AddTable("dependencies", []string{"source", "target", "identifiers"}, depRows)

	return doc
}

func status(c *model.ControllerUsage) string {
	if c.Unused() {
		return "unused"
	}
	return "used"
}

// Problems converts validation findings.
func Problems(problems []model.Problem) *Document {
	var rows [][]string
	for i := range problems {
		p := &problems[i]
		rows = append(rows, []string{
			p.File,
			strconv.Itoa(p.Line),
			strconv.Itoa(p.Column),
			string(p.Kind),
			p.Text,
			p.Message,
		})
	}
	doc := &Document{}
	doc.AddTable("problems", []string{"file", "line", "column", "kind", "text", "message"}, rows)
	return doc
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
