package quickbase

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/beevik/etree"
)

// requestRoot is the root element of every request body.
const requestRoot = "qdbapi"

// Value is a single request parameter. It is one of Scalar, Attributed or
// Repeated; the set is closed.
type Value interface {
	appendTo(parent *etree.Element, name string)
}

// Scalar is a plain element value.
type Scalar string

// Attr is a single element attribute.
type Attr struct {
	Key   string
	Value string
}

// Attributed is an element value carrying attributes, rendered in order.
type Attributed struct {
	Attrs []Attr
	Value string
}

// Repeated emits one sibling element per entry, in order.
type Repeated []Value

func (s Scalar) appendTo(parent *etree.Element, name string) {
	setText(parent.CreateElement(name), string(s))
}

func (a Attributed) appendTo(parent *etree.Element, name string) {
	el := parent.CreateElement(name)
	for _, attr := range a.Attrs {
		el.CreateAttr(attr.Key, attr.Value)
	}
	setText(el, a.Value)
}

func setText(el *etree.Element, text string) {
	if text != "" {
		el.SetText(text)
	}
}

func (r Repeated) appendTo(parent *etree.Element, name string) {
	for _, v := range r {
		if v != nil {
			v.appendTo(parent, name)
		}
	}
}

// String returns a scalar value.
func String(s string) Value { return Scalar(s) }

// Int returns a scalar value holding the decimal form of n.
func Int(n int) Value { return Scalar(strconv.Itoa(n)) }

// Bool returns a scalar value holding "true" or "false".
func Bool(b bool) Value { return Scalar(strconv.FormatBool(b)) }

// Text returns a scalar holding the canonical string form of v.
func Text(v any) Value { return Scalar(stringify(v)) }

// WithAttrs returns an attributed value. Attribute values are coerced with
// the same rules as Text. keyvals alternates key and value; a trailing key
// without a value renders with an empty value.
func WithAttrs(value any, keyvals ...any) Value {
	a := Attributed{Value: stringify(value)}
	for i := 0; i < len(keyvals); i += 2 {
		attr := Attr{Key: stringify(keyvals[i])}
		if i+1 < len(keyvals) {
			attr.Value = stringify(keyvals[i+1])
		}
		a.Attrs = append(a.Attrs, attr)
	}
	return a
}

// Repeat returns a repeated value from scalars coerced with Text.
func Repeat[T any](values ...T) Value {
	r := make(Repeated, 0, len(values))
	for _, v := range values {
		if val, ok := any(v).(Value); ok {
			r = append(r, val)
			continue
		}
		r = append(r, Text(v))
	}
	return r
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// Field is a named request parameter.
type Field struct {
	Name  string
	Value Value
}

// Fields is an ordered request parameter list. Names may repeat.
type Fields []Field

// Add appends a field.
func (f *Fields) Add(name string, v Value) {
	*f = append(*f, Field{Name: name, Value: v})
}

// Set replaces the first field named name, or appends it.
func (f *Fields) Set(name string, v Value) {
	for i := range *f {
		if (*f)[i].Name == name {
			(*f)[i].Value = v
			return
		}
	}
	f.Add(name, v)
}

// Get returns the first field named name.
func (f Fields) Get(name string) (Value, bool) {
	for _, field := range f {
		if field.Name == name {
			return field.Value, true
		}
	}
	return nil, false
}

var errEmptyFieldName = errors.New("empty field name")

// Encode renders fields as a qdbapi request document.
func Encode(fields Fields) ([]byte, error) {
	doc := etree.NewDocument()
	// Write \r, and tabs and newlines in attributes, as character references
	doc.WriteSettings.CanonicalText = true
	doc.WriteSettings.CanonicalAttrVal = true
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement(requestRoot)

	for _, field := range fields {
		if field.Name == "" {
			return nil, fmt.Errorf("encoding request: %w", errEmptyFieldName)
		}
		if field.Value == nil {
			continue
		}
		field.Value.appendTo(root, field.Name)
	}

	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	return data, nil
}
