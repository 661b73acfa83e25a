package quickbase

import (
	"context"
	"fmt"
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"
)

const (
	defaultPageSize = 100
	maxPageSize     = 1000
)

// Query selects records for DoQuery. Exactly one of Query, QID and QName
// must be set.
type Query struct {
	// Query is a query string such as "{'7'.EX.'open'}".
	Query string
	QID   string
	QName string

	// Columns and Sort are field ids (or "a" for all columns).
	Columns []string
	Sort    []string

	// Unstructured requests the flat record layout instead of fmt=structured.
	Unstructured bool

	// Num limits the number of records returned; zero means no limit.
	Num int

	// Skip skips the first Skip records.
	Skip int

	OnlyNew     bool
	Descending  bool
	IncludeRIDs bool
}

func (q *Query) fields() (Fields, error) {
	if q == nil {
		return nil, ErrNoQuery
	}
	set := 0
	for _, s := range []string{q.Query, q.QID, q.QName} {
		if s != "" {
			set++
		}
	}
	if set != 1 {
		return nil, ErrNoQuery
	}

	var fields Fields
	switch {
	case q.Query != "":
		fields.Add("query", String(q.Query))
	case q.QID != "":
		fields.Add("qid", String(q.QID))
	default:
		fields.Add("qname", String(q.QName))
	}

	if len(q.Columns) > 0 {
		fields.Add("clist", String(strings.Join(q.Columns, ".")))
	}
	if len(q.Sort) > 0 {
		fields.Add("slist", String(strings.Join(q.Sort, ".")))
	}
	if !q.Unstructured {
		fields.Add("fmt", String("structured"))
	}

	var options []string
	if q.Num > 0 {
		options = append(options, fmt.Sprintf("num-%d", q.Num))
	}
	if q.OnlyNew {
		options = append(options, "onlynew")
	}
	if q.Skip > 0 {
		options = append(options, fmt.Sprintf("skp-%d", q.Skip))
	}
	if q.Descending {
		options = append(options, "sortorder-D")
	}
	if len(options) > 0 {
		fields.Add("options", String(strings.Join(options, ".")))
	}

	if q.IncludeRIDs {
		fields.Add("includeRids", Int(1))
	}
	return fields, nil
}

// DoQuery returns the records matching q.
func (s *Session) DoQuery(ctx context.Context, database string, q *Query, opts ...RequestOption) ([]Record, error) {
	fields, err := q.fields()
	if err != nil {
		return nil, err
	}
	env, err := s.execute(ctx, &Request{Action: "DoQuery", Database: database, Fields: fields}, opts...)
	if err != nil {
		return nil, err
	}
	return ParseRecords(env), nil
}

// Query returns an iterator over all records matching q, fetching pageSize
// records per call. q.Num and q.Skip are overridden per page.
func (s *Session) Query(ctx context.Context, database string, q *Query, pageSize int, opts ...RequestOption) iter.Seq2[Record, error] {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return func(yield func(Record, error) bool) {
		if q == nil {
			yield(nil, ErrNoQuery)
			return
		}
		page := *q
		page.Num = pageSize

		for {
			records, err := s.DoQuery(ctx, database, &page, opts...)
			if err != nil {
				yield(nil, err)
				return
			}

			for _, record := range records {
				if err := ctx.Err(); err != nil {
					yield(nil, err)
					return
				}
				if !yield(record, nil) {
					return
				}
			}

			if len(records) < pageSize {
				return
			}
			page.Skip += len(records)
		}
	}
}

// DoQueryCount returns the number of records matching query.
func (s *Session) DoQueryCount(ctx context.Context, database, query string, opts ...RequestOption) (int, error) {
	var fields Fields
	fields.Add("query", String(query))

	values, err := s.executeFields(ctx, &Request{Action: "DoQueryCount", Database: database, Fields: fields},
		[]string{"numMatches"}, opts...)
	if err != nil {
		return 0, err
	}
	return atoiField(values, "numMatches")
}

// recordFields builds one field element per value. Keys are field ids, or
// field labels when named is true. Keys are emitted in sorted order.
func recordFields(values map[string]any, named bool) Repeated {
	attr := "fid"
	if named {
		attr = "name"
	}
	out := make(Repeated, 0, len(values))
	for _, key := range slices.Sorted(maps.Keys(values)) {
		id := key
		if named {
			id = XMLName(key)
		}
		out = append(out, WithAttrs(values[key], attr, id))
	}
	return out
}

// AddRecord adds a record and returns its record id.
func (s *Session) AddRecord(ctx context.Context, database string, values map[string]any, named bool, opts ...RequestOption) (int, error) {
	var fields Fields
	fields.Add("field", recordFields(values, named))

	resp, err := s.executeFields(ctx, &Request{Action: "AddRecord", Database: database, Fields: fields},
		[]string{"rid"}, opts...)
	if err != nil {
		return 0, err
	}
	return atoiField(resp, "rid")
}

// EditResult is the outcome of EditRecord.
type EditResult struct {
	RID           string
	FieldsChanged int
	UpdateID      string
}

// EditRecord updates fields of record rid.
func (s *Session) EditRecord(ctx context.Context, database string, rid int, values map[string]any, named bool, opts ...RequestOption) (*EditResult, error) {
	var fields Fields
	fields.Add("rid", Int(rid))
	fields.Add("field", recordFields(values, named))

	env, err := s.execute(ctx, &Request{Action: "EditRecord", Database: database, Fields: fields}, opts...)
	if err != nil {
		return nil, err
	}
	resp, err := env.Fields("rid", "num_fields_changed")
	if err != nil {
		return nil, err
	}
	changed, err := atoiField(resp, "num_fields_changed")
	if err != nil {
		return nil, err
	}
	updateID, _ := env.Text("update_id")
	return &EditResult{RID: resp["rid"], FieldsChanged: changed, UpdateID: updateID}, nil
}

// DeleteRecord deletes record rid.
func (s *Session) DeleteRecord(ctx context.Context, database string, rid int, opts ...RequestOption) error {
	var fields Fields
	fields.Add("rid", Int(rid))

	_, err := s.executeFields(ctx, &Request{Action: "DeleteRecord", Database: database, Fields: fields},
		[]string{"rid"}, opts...)
	return err
}

// CSVImport describes an ImportFromCSV call.
type CSVImport struct {
	// Records is the CSV data.
	Records string

	// Columns maps CSV columns to field ids, in order.
	Columns []string

	// OutputColumns lists the field ids returned for each imported record.
	OutputColumns []string

	// SkipFirst skips a header row.
	SkipFirst bool
}

// ImportFromCSV adds or updates records from CSV data and returns the number
// of records added.
func (s *Session) ImportFromCSV(ctx context.Context, database string, imp *CSVImport, opts ...RequestOption) (int, error) {
	var fields Fields
	fields.Add("records_csv", String(imp.Records))
	if len(imp.Columns) > 0 {
		fields.Add("clist", String(strings.Join(imp.Columns, ".")))
	}
	if len(imp.OutputColumns) > 0 {
		fields.Add("clist_output", String(strings.Join(imp.OutputColumns, ".")))
	}
	if imp.SkipFirst {
		fields.Add("skipfirst", Int(1))
	}

	resp, err := s.executeFields(ctx, &Request{Action: "ImportFromCSV", Database: database, Fields: fields},
		[]string{"num_recs_added"}, opts...)
	if err != nil {
		return 0, err
	}
	return atoiField(resp, "num_recs_added")
}

func atoiField(values map[string]string, name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(values[name]))
	if err != nil {
		return 0, &ResponseError{
			APIError: APIError{
				Code:    CodeMissingField,
				Message: fmt.Sprintf("%q is not an integer: %q", name, values[name]),
			},
		}
	}
	return n, nil
}
