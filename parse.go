package quickbase

import (
	"strings"

	"github.com/beevik/etree"
)

// fieldTag is the generic element used for fields identified by numeric id.
const fieldTag = "f"

// Record maps a field identifier (numeric field id or tag name) to its value.
type Record map[string]string

// ParseRecords returns every record element in the response.
//
// Values may contain inline markup such as <BR/> or comments; the value is
// the field's own text followed by the text trailing each inline node.
func ParseRecords(env *Envelope) []Record {
	rows := env.Root().FindElements(".//record")
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		record := make(Record, len(row.ChildElements()))
		for _, field := range row.ChildElements() {
			key := field.Tag
			if field.Tag == fieldTag {
				key = field.SelectAttrValue("id", "")
			}
			record[key] = textWithTails(field)
		}
		records = append(records, record)
	}
	return records
}

// textWithTails joins the element's direct character data: its leading text
// and whatever trails each child element, comment or processing instruction.
func textWithTails(el *etree.Element) string {
	var b strings.Builder
	for _, tok := range el.Child {
		if cd, ok := tok.(*etree.CharData); ok {
			b.WriteString(cd.Data)
		}
	}
	return b.String()
}

// ChildTable describes a table of an application.
type ChildTable struct {
	Name string
	ID   string
}

// FieldSchema describes a table field. Values holds the field element's
// attributes (id, field_type, base_type, ...) followed by one entry per
// child element; Choices holds the entries of a choices child, if any.
type FieldSchema struct {
	Values  map[string]string
	Choices []string
}

// ID returns the field id.
func (f FieldSchema) ID() string { return f.Values["id"] }

// Label returns the field label.
func (f FieldSchema) Label() string { return f.Values["label"] }

// Type returns the field type, e.g. "text" or "float".
func (f FieldSchema) Type() string { return f.Values["field_type"] }

// Schema is a parsed GetSchema response. An application schema lists its
// tables; a table schema lists its fields. Only one of the two is set.
type Schema struct {
	Tables []ChildTable
	Fields []FieldSchema
}

// ParseSchema returns the child tables of an application schema, or the
// fields of a table schema when there are no child tables.
func ParseSchema(env *Envelope) *Schema {
	root := env.Root()
	schema := &Schema{}

	if tables := root.FindElements(".//chdbid"); len(tables) > 0 {
		for _, t := range tables {
			schema.Tables = append(schema.Tables, ChildTable{
				Name: t.SelectAttrValue("name", ""),
				ID:   t.Text(),
			})
		}
		return schema
	}

	for _, f := range root.FindElements(".//field") {
		field := FieldSchema{Values: make(map[string]string, len(f.Attr))}
		for _, attr := range f.Attr {
			field.Values[attr.Key] = attr.Value
		}
		for _, child := range f.ChildElements() {
			if child.Tag == "choices" {
				field.Choices = make([]string, 0, len(child.ChildElements()))
				for _, choice := range child.ChildElements() {
					field.Choices = append(field.Choices, choice.Text())
				}
				continue
			}
			field.Values[child.Tag] = child.Text()
		}
		schema.Fields = append(schema.Fields, field)
	}
	return schema
}

// PageRow is one entry of a ListDBPages response.
type PageRow struct {
	ID   string
	Type string
	Name string
}

// ParsePages returns the pages of a ListDBPages response. Pages without an
// id are skipped.
func ParsePages(env *Envelope) []PageRow {
	var pages []PageRow
	for _, p := range env.Root().FindElements(".//page") {
		id := p.SelectAttrValue("id", "")
		if id == "" {
			continue
		}
		pages = append(pages, PageRow{
			ID:   id,
			Type: p.SelectAttrValue("type", ""),
			Name: p.Text(),
		})
	}
	return pages
}

// ParsePageBody returns the trimmed text content of the response's page
// body, including text nested in any embedded markup.
func ParsePageBody(env *Envelope) string {
	body := env.Root().FindElement(".//pagebody")
	if body == nil {
		return ""
	}
	var b strings.Builder
	innerText(&b, body)
	return strings.TrimSpace(b.String())
}

func innerText(b *strings.Builder, el *etree.Element) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			innerText(b, t)
		}
	}
}

// Database is one entry of a GrantedDBs response.
type Database struct {
	Name string
	ID   string
}

// ParseDatabases returns the databases of a GrantedDBs response.
func ParseDatabases(env *Envelope) []Database {
	var dbs []Database
	for _, info := range env.Root().FindElements(".//dbinfo") {
		db := Database{}
		if el := info.SelectElement("dbname"); el != nil {
			db.Name = el.Text()
		}
		if el := info.SelectElement("dbid"); el != nil {
			db.ID = el.Text()
		}
		dbs = append(dbs, db)
	}
	return dbs
}
