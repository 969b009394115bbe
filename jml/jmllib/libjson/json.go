// Copyright © 2018 The ELPS authors

// Package libjson converts between JSON documents and jml values.  Object key
// order is preserved in both directions.
package libjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/luthersystems/jml/jml"
)

// ErrNotSerializable is returned by Dump when a value has no JSON
// representation.
var ErrNotSerializable = errors.New("value is not serializable")

// Load decodes a single JSON document.  Numbers written without a fraction or
// exponent become Int values when they fit in 64 bits.  Every other number is
// a Float.
func Load(b []byte) (*jml.Value, error) {
	return Decode(bytes.NewReader(b))
}

// Decode reads a single JSON document from r.  Trailing data other than
// whitespace is an error.
func Decode(r io.Reader) (*jml.Value, error) {
	d := json.NewDecoder(r)
	d.UseNumber()
	v, err := decodeValue(d)
	if err != nil {
		return nil, err
	}
	_, err = d.Token()
	if err == nil {
		return nil, fmt.Errorf("json: unexpected data after top-level value at offset %d", d.InputOffset())
	}
	if err != io.EOF {
		return nil, err
	}
	return v, nil
}

func decodeValue(d *json.Decoder) (*jml.Value, error) {
	tok, err := d.Token()
	if err == io.EOF {
		return nil, io.ErrUnexpectedEOF
	}
	if err != nil {
		return nil, err
	}
	switch tok := tok.(type) {
	case nil:
		return jml.Null(), nil
	case bool:
		return jml.Bool(tok), nil
	case string:
		return jml.String(tok), nil
	case json.Number:
		return loadNumber(tok)
	case json.Delim:
		switch tok {
		case '[':
			return decodeList(d)
		case '{':
			return decodeObject(d)
		}
		return nil, fmt.Errorf("json: unexpected delimiter %v", tok)
	default:
		return nil, fmt.Errorf("json: unexpected token %v", tok)
	}
}

func decodeList(d *json.Decoder) (*jml.Value, error) {
	items := []*jml.Value{}
	for d.More() {
		v, err := decodeValue(d)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	if err := closeDelim(d, ']'); err != nil {
		return nil, err
	}
	return jml.List(items), nil
}

func decodeObject(d *json.Decoder) (*jml.Value, error) {
	obj := jml.NewObject()
	for d.More() {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("json: invalid object key %v", tok)
		}
		v, err := decodeValue(d)
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}
	if err := closeDelim(d, '}'); err != nil {
		return nil, err
	}
	return jml.ObjectValue(obj), nil
}

func closeDelim(d *json.Decoder, delim json.Delim) error {
	tok, err := d.Token()
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	if err != nil {
		return err
	}
	if tok != delim {
		return fmt.Errorf("json: expected %v but found %v", delim, tok)
	}
	return nil
}

func loadNumber(n json.Number) (*jml.Value, error) {
	text := n.String()
	if !strings.ContainsAny(text, ".eE") {
		x, err := strconv.ParseInt(text, 10, 64)
		if err == nil {
			return jml.Int(x), nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("json: invalid number %s: %w", text, err)
	}
	return jml.Float(f), nil
}
