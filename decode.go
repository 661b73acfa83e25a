package quickbase

import (
	"bytes"
	"encoding/xml"
	"errors"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html"
)

// Envelope element names shared by every response.
const (
	tagErrCode   = "errcode"
	tagErrText   = "errtext"
	tagErrDetail = "errdetail"
)

var errNoRoot = errors.New("document has no root element")

// Envelope is a parsed response whose errcode reported success.
type Envelope struct {
	doc *etree.Document
	raw []byte
}

type decodeConfig struct {
	lenient bool
}

// DecodeOption configures Decode.
type DecodeOption func(*decodeConfig)

// Lenient tolerates markup that is not strict XML, such as void elements
// (<br>, <img>), unclosed paragraphs and HTML entities in a page body.
// Documents that still fail to parse are read with an HTML parser, which
// lower-cases element names.
func Lenient() DecodeOption {
	return func(c *decodeConfig) {
		c.lenient = true
	}
}

// Decode parses a UTF-8 response body and checks its error envelope. The
// body should already have been passed through NormalizeCharset.
func Decode(raw []byte, opts ...DecodeOption) (*Envelope, error) {
	cfg := &decodeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = passthroughCharset
	if cfg.lenient {
		doc.ReadSettings.Permissive = true
		doc.ReadSettings.AutoClose = xml.HTMLAutoClose
		doc.ReadSettings.Entity = xml.HTMLEntity
	}
	if err := doc.ReadFromBytes(raw); err != nil {
		if !cfg.lenient {
			return nil, newXMLError(err, raw)
		}
		// Unbalanced HTML such as an unclosed <p> is rebuilt by an HTML parser
		htmlDoc, htmlErr := parseHTML(raw)
		if htmlErr != nil {
			return nil, newXMLError(err, raw)
		}
		doc = htmlDoc
	}
	root := doc.Root()
	if root == nil {
		return nil, newXMLError(errNoRoot, raw)
	}

	codeEl := root.SelectElement(tagErrCode)
	if codeEl == nil {
		return nil, missingField(tagErrCode, raw)
	}
	code := strings.TrimSpace(codeEl.Text())
	if code != "0" {
		msg := noErrorText
		if el := root.SelectElement(tagErrText); el != nil {
			msg = el.Text()
		}
		var detail string
		if el := root.SelectElement(tagErrDetail); el != nil {
			detail = strings.TrimSpace(el.Text())
		}
		return nil, &ResponseError{
			APIError: APIError{Code: code, Message: msg, Response: raw},
			Detail:   detail,
		}
	}

	return &Envelope{doc: doc, raw: raw}, nil
}

// Root returns the response root element.
func (e *Envelope) Root() *etree.Element {
	return e.doc.Root()
}

// Raw returns the UTF-8 response body.
func (e *Envelope) Raw() []byte {
	return e.raw
}

// Text returns the text of the top-level element name.
func (e *Envelope) Text(name string) (string, bool) {
	el := e.Root().SelectElement(name)
	if el == nil {
		return "", false
	}
	return el.Text(), true
}

// Fields returns the text of every named top-level element. It fails with a
// ResponseError if any of them is missing; no partial result is returned.
func (e *Envelope) Fields(required ...string) (map[string]string, error) {
	values := make(map[string]string, len(required))
	for _, name := range required {
		text, ok := e.Text(name)
		if !ok {
			return nil, missingField(name, e.raw)
		}
		values[name] = text
	}
	return values, nil
}

// parseHTML reads raw with an HTML5 parser and rebuilds the qdbapi element
// as an etree document.
func parseHTML(raw []byte) (*etree.Document, error) {
	node, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	root := findHTMLElement(node, requestRoot)
	if root == nil {
		return nil, errNoRoot
	}
	doc := etree.NewDocument()
	appendHTML(&doc.Element, root)
	return doc, nil
}

func findHTMLElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findHTMLElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func appendHTML(parent *etree.Element, n *html.Node) {
	switch n.Type {
	case html.ElementNode:
		el := parent.CreateElement(n.Data)
		for _, a := range n.Attr {
			el.CreateAttr(a.Key, a.Val)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			appendHTML(el, c)
		}
	case html.TextNode:
		parent.CreateText(n.Data)
	}
}
