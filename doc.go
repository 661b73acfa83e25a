// Package quickbase provides a Go client for the QuickBase XML API.
//
// # Features
//
//   - Typed request parameters: scalars, attributed values and repeated
//     elements, encoded in call order
//   - Response charset normalization before XML parsing
//   - Typed errors for transport, XML and service failures
//   - Explicit sessions instead of mutable client state
//   - Go 1.23+ iterators for paging through query results
//
// # Quick Start
//
//	client, err := quickbase.NewClient(
//	    quickbase.WithBaseURL("https://example.quickbase.com"),
//	    quickbase.WithAppToken(appToken),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	session, err := client.Authenticate(ctx, username, password)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for record, err := range session.Query(ctx, tableID, &quickbase.Query{QID: "1"}, 500) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(record["3"])
//	}
//
// # Error Handling
//
// The service reports failures inside a successful HTTP response, as an
// errcode element. Every error returned by the package can be matched as
// *APIError; use the specific kinds to tell failures apart:
//
//	_, err := session.EditRecord(ctx, tableID, 12, values, false)
//	var respErr *quickbase.ResponseError
//	if errors.As(err, &respErr) {
//	    fmt.Println(respErr.Code, respErr.Message)
//	}
//
// # Low-level access
//
// Actions without a dedicated method can be called through Client.Execute
// with any parameter list; the returned Envelope can be handed to the
// ParseRecords, ParseSchema, ParsePages, ParsePageBody and ParseDatabases
// extractors or queried with Envelope.Fields.
package quickbase
