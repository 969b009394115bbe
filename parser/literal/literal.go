// Copyright © 2018 The ELPS authors

// Package literal parses literal jml values, as used on the command line.
//
// 	value  := 'null' | 'true' | 'false' | <number> | <string> | <list> | <object> | <word>
// 	number := /-?[0-9][0-9_]*/ <fraction>? <exponent>?
// 	fraction := '.' /[0-9]+/
// 	exponent := e /[+-]?[0-9]+/
// 	string := '"' <strcontent> '"'
// 	list   := '[' (<value> ','?)* ']'
// 	object := '{' (<key> ':' <value> ','?)* '}'
// 	key    := <string> | <word>
// 	word   := /[\pL_][\pL0-9_\-.\/]*/
//
// A bare word that is not a keyword is a string, so `--set env=prod` binds the
// string "prod".
package literal

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/luthersystems/jml/jml"
	parsec "github.com/prataprc/goparsec"
)

// Parse parses text as a single literal value.
func Parse(text []byte) (*jml.Value, error) {
	s := parsec.NewScanner(text)
	root, s := newParsecParser()(s)
	if root == nil {
		return nil, fmt.Errorf("invalid literal: %q", text)
	}
	if err, ok := root.(error); ok {
		return nil, err
	}
	_, s = s.SkipWS()
	if !s.Endof() {
		b, _ := s.Match(`.{1,16}`)
		if len(b) > 15 {
			b = append(b[:15:15], []byte("...")...)
		}
		return nil, fmt.Errorf("%d: unexpected text possibly starting: %s", s.GetCursor(), b)
	}
	v, ok := root.(*jml.Value)
	if !ok {
		return nil, fmt.Errorf("invalid literal: %q", text)
	}
	return v, nil
}

// ParseString parses s as a single literal value.
func ParseString(s string) (*jml.Value, error) {
	return Parse([]byte(s))
}

func newParsecParser() parsec.Parser {
	openB := parsec.Atom("[", "OPENB")
	closeB := parsec.Atom("]", "CLOSEB")
	openC := parsec.Atom("{", "OPENC")
	closeC := parsec.Atom("}", "CLOSEC")
	comma := parsec.Atom(",", "COMMA")
	colon := parsec.Atom(":", "COLON")
	decimal := parsec.Token(`-?[0-9][0-9_]*([.][0-9]+)?([eE][+-]?[0-9]+)?`, "DECIMAL")
	str := parsec.Token(`"(?:[^"\\]|\\.)*"`, "STRING")
	word := parsec.Token(`[\pL_][\pL0-9_\-./]*`, "WORD")

	var value parsec.Parser // forward declaration allows for recursive parsing
	term := parsec.OrdChoice(termNode, str, decimal, word)
	item := parsec.And(first, &value, parsec.Maybe(nil, comma))
	items := parsec.Kleene(listItems, item)
	list := parsec.And(listNode, openB, items, closeB)
	key := parsec.OrdChoice(keyNode, str, word)
	entry := parsec.And(entryNode, key, colon, &value, parsec.Maybe(nil, comma))
	entries := parsec.Kleene(listItems, entry)
	object := parsec.And(objectNode, openC, entries, closeC)
	value = parsec.OrdChoice(nil, term, list, object)
	return value
}

type entryValue struct {
	key   string
	value *jml.Value
}

func first(nodes []parsec.ParsecNode) parsec.ParsecNode {
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func listItems(nodes []parsec.ParsecNode) parsec.ParsecNode {
	return nodes
}

func termNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	term, ok := first(nodes).(*parsec.Terminal)
	if !ok {
		return fmt.Errorf("unexpected node: %v", first(nodes))
	}
	switch term.Name {
	case "STRING":
		s, err := unquote(term.Value)
		if err != nil {
			return err
		}
		return jml.String(s)
	case "DECIMAL":
		text := strings.ReplaceAll(term.Value, "_", "")
		if strings.ContainsAny(text, ".eE") {
			f, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return fmt.Errorf("bad number: %v (%s)", err, term.Value)
			}
			return jml.Float(f)
		}
		x, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return fmt.Errorf("bad number: %v (%s)", err, term.Value)
		}
		return jml.Int(x)
	case "WORD":
		switch term.Value {
		case "null":
			return jml.Null()
		case "true":
			return jml.Bool(true)
		case "false":
			return jml.Bool(false)
		}
		return jml.String(term.Value)
	}
	return fmt.Errorf("unexpected terminal: %s", term.Name)
}

func keyNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	term, ok := first(nodes).(*parsec.Terminal)
	if !ok {
		return fmt.Errorf("unexpected node: %v", first(nodes))
	}
	if term.Name == "STRING" {
		s, err := unquote(term.Value)
		if err != nil {
			return err
		}
		return s
	}
	return term.Value
}

func entryNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	if len(nodes) < 3 {
		return fmt.Errorf("invalid object entry")
	}
	if err, ok := nodes[0].(error); ok {
		return err
	}
	if err, ok := nodes[2].(error); ok {
		return err
	}
	key, _ := nodes[0].(string)
	v, ok := nodes[2].(*jml.Value)
	if !ok {
		return fmt.Errorf("invalid value for key %q", key)
	}
	return &entryValue{key: key, value: v}
}

func listNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	children, _ := nodes[1].([]parsec.ParsecNode)
	items := make([]*jml.Value, 0, len(children))
	for _, c := range children {
		switch c := c.(type) {
		case error:
			return c
		case *jml.Value:
			items = append(items, c)
		default:
			return fmt.Errorf("unexpected list element: %v", c)
		}
	}
	return jml.List(items)
}

func objectNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	children, _ := nodes[1].([]parsec.ParsecNode)
	obj := jml.NewObject()
	for _, c := range children {
		switch c := c.(type) {
		case error:
			return c
		case *entryValue:
			obj.Set(c.key, c.value)
		default:
			return fmt.Errorf("unexpected object entry: %v", c)
		}
	}
	return jml.ObjectValue(obj)
}

func unquote(s string) (string, error) {
	var out string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return "", fmt.Errorf("invalid string %s: %w", s, err)
	}
	return out, nil
}
