// Package auth provides QuickBase ticket and application token credentials.
package auth

import "net/http"

// Credentials holds the values that authenticate a single API call.
type Credentials struct {
	Ticket   string
	AppToken string
}

// Param is a request body parameter.
type Param struct {
	Name  string
	Value string
}

// Params returns the body parameters that authenticate an XML API request.
func (c *Credentials) Params() []Param {
	if c == nil {
		return nil
	}
	var params []Param
	if c.Ticket != "" {
		params = append(params, Param{Name: "ticket", Value: c.Ticket})
	}
	if c.AppToken != "" {
		params = append(params, Param{Name: "apptoken", Value: c.AppToken})
	}
	return params
}

// Apply adds the ticket to a plain HTTP request, such as an attachment
// download, which carries no XML body.
func (c *Credentials) Apply(req *http.Request) {
	if c == nil || c.Ticket == "" {
		return
	}
	q := req.URL.Query()
	q.Set("ticket", c.Ticket)
	req.URL.RawQuery = q.Encode()
}
