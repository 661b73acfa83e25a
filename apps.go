package quickbase

import "context"

// Page types accepted by AddReplaceDBPage.
const (
	PageTypeXSL  = 1
	PageTypeHTML = 2
)

// GetSchema returns the tables of an application or the fields of a table.
func (s *Session) GetSchema(ctx context.Context, database string, opts ...RequestOption) (*Schema, error) {
	env, err := s.execute(ctx, &Request{Action: "GetSchema", Database: database}, opts...)
	if err != nil {
		return nil, err
	}
	return ParseSchema(env), nil
}

// GrantedDBsOptions filters GrantedDBs.
type GrantedDBsOptions struct {
	AdminOnly          bool
	ExcludeParents     bool
	IncludeAncestors   bool
	WithEmbeddedTables bool
}

// GrantedDBs lists the databases the session's user can access.
func (s *Session) GrantedDBs(ctx context.Context, o *GrantedDBsOptions, opts ...RequestOption) ([]Database, error) {
	var fields Fields
	if o != nil {
		for _, flag := range []struct {
			name string
			set  bool
		}{
			{"adminOnly", o.AdminOnly},
			{"excludeparents", o.ExcludeParents},
			{"includeancestors", o.IncludeAncestors},
			{"withembeddedtables", o.WithEmbeddedTables},
		} {
			if flag.set {
				fields.Add(flag.name, Int(1))
			}
		}
	}

	env, err := s.execute(ctx, &Request{Action: "GrantedDBs", Database: realmDatabase, Fields: fields}, opts...)
	if err != nil {
		return nil, err
	}
	return ParseDatabases(env), nil
}

// ListDBPages lists the pages of an application.
func (s *Session) ListDBPages(ctx context.Context, database string, opts ...RequestOption) ([]PageRow, error) {
	env, err := s.execute(ctx, &Request{Action: "ListDBPages", Database: database}, opts...)
	if err != nil {
		return nil, err
	}
	return ParsePages(env), nil
}

// GetDBPage returns the content of a page, addressed by name when named is
// true and by page id otherwise.
func (s *Session) GetDBPage(ctx context.Context, database, page string, named bool, opts ...RequestOption) (string, error) {
	var fields Fields
	if named {
		fields.Add("pagename", String(page))
	} else {
		fields.Add("pageID", String(page))
	}

	env, err := s.execute(ctx, &Request{
		Action:   "GetDBPage",
		Database: database,
		Fields:   fields,
		Lenient:  true,
	}, opts...)
	if err != nil {
		return "", err
	}
	return ParsePageBody(env), nil
}

// DBPage is the input of AddReplaceDBPage. A zero ID adds a new page named
// Name; otherwise page ID is replaced.
type DBPage struct {
	ID   int
	Name string
	Type int
	Body string
}

// AddReplaceDBPage adds or replaces a page and returns its page id.
func (s *Session) AddReplaceDBPage(ctx context.Context, database string, page *DBPage, opts ...RequestOption) (int, error) {
	var fields Fields
	if page.ID > 0 {
		fields.Add("pageid", Int(page.ID))
	} else {
		fields.Add("pagename", String(page.Name))
	}
	pageType := page.Type
	if pageType == 0 {
		pageType = PageTypeHTML
	}
	fields.Add("pagetype", Int(pageType))
	fields.Add("pagebody", String(page.Body))

	resp, err := s.executeFields(ctx, &Request{Action: "AddReplaceDBPage", Database: database, Fields: fields},
		[]string{"pageID"}, opts...)
	if err != nil {
		return 0, err
	}
	return atoiField(resp, "pageID")
}
