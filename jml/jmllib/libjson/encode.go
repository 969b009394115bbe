// Copyright © 2018 The ELPS authors

package libjson

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/luthersystems/jml/jml"
)

// Dump encodes v as JSON.  When indent is non-empty each nested element is
// written on its own line, indented by one copy of indent per level.  Object
// entries are written in insertion order.
func Dump(v *jml.Value, indent string) ([]byte, error) {
	enc := &encoder{indent: indent}
	err := enc.encode(v, 0)
	if err != nil {
		return nil, err
	}
	return enc.buf.Bytes(), nil
}

type encoder struct {
	buf    bytes.Buffer
	indent string
}

func (enc *encoder) encode(v *jml.Value, depth int) error {
	switch v.Kind {
	case jml.VNull:
		enc.buf.WriteString("null")
	case jml.VBool:
		enc.buf.WriteString(strconv.FormatBool(v.Bool))
	case jml.VInt:
		enc.buf.WriteString(strconv.FormatInt(v.Int, 10))
	case jml.VFloat:
		return enc.encodeFloat(v.Float)
	case jml.VString:
		enc.encodeString(v.Str)
	case jml.VList:
		return enc.encodeList(v.Items, depth)
	case jml.VObject:
		return enc.encodeObject(v.Obj, depth)
	default:
		return fmt.Errorf("%w: %v", ErrNotSerializable, v.Type())
	}
	return nil
}

func (enc *encoder) newline(depth int) {
	if enc.indent == "" {
		return
	}
	enc.buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		enc.buf.WriteString(enc.indent)
	}
}

func (enc *encoder) encodeList(items []*jml.Value, depth int) error {
	enc.buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			enc.buf.WriteByte(',')
		}
		enc.newline(depth + 1)
		err := enc.encode(item, depth+1)
		if err != nil {
			return err
		}
	}
	if len(items) > 0 {
		enc.newline(depth)
	}
	enc.buf.WriteByte(']')
	return nil
}

func (enc *encoder) encodeObject(obj *jml.Object, depth int) error {
	enc.buf.WriteByte('{')
	entries := obj.Entries()
	for i, e := range entries {
		if i > 0 {
			enc.buf.WriteByte(',')
		}
		enc.newline(depth + 1)
		enc.encodeString(e.Key)
		enc.buf.WriteByte(':')
		if enc.indent != "" {
			enc.buf.WriteByte(' ')
		}
		err := enc.encode(e.Value, depth+1)
		if err != nil {
			return err
		}
	}
	if len(entries) > 0 {
		enc.newline(depth)
	}
	enc.buf.WriteByte('}')
	return nil
}

// encodeFloat always writes a fraction or an exponent so that the value
// decodes as a Float again.
func (enc *encoder) encodeFloat(x float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fmt.Errorf("%w: float %v", ErrNotSerializable, x)
	}
	abs := math.Abs(x)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	s := strconv.FormatFloat(x, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(s)
		if n >= 4 && s[n-4] == 'e' && s[n-3] == '-' && s[n-2] == '0' {
			s = s[:n-2] + s[n-1:]
		}
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	enc.buf.WriteString(s)
	return nil
}

// NOTE:  encodeString adapted from the json package, without HTML escaping.
func (enc *encoder) encodeString(s string) {
	const hex = "0123456789abcdef"
	enc.buf.WriteByte('"')
	start := 0
	for i := 0; i < len(s); {
		if b := s[i]; b < utf8.RuneSelf {
			if b >= 0x20 && b != '"' && b != '\\' {
				i++
				continue
			}
			if start < i {
				enc.buf.WriteString(s[start:i])
			}
			enc.buf.WriteByte('\\')
			switch b {
			case '\\', '"':
				enc.buf.WriteByte(b)
			case '\n':
				enc.buf.WriteByte('n')
			case '\r':
				enc.buf.WriteByte('r')
			case '\t':
				enc.buf.WriteByte('t')
			default:
				enc.buf.WriteString(`u00`)
				enc.buf.WriteByte(hex[b>>4])
				enc.buf.WriteByte(hex[b&0xF])
			}
			i++
			start = i
			continue
		}
		c, size := utf8.DecodeRuneInString(s[i:])
		if c == utf8.RuneError && size == 1 {
			if start < i {
				enc.buf.WriteString(s[start:i])
			}
			enc.buf.WriteString(`\ufffd`)
			i += size
			start = i
			continue
		}
		// U+2028 and U+2029 are valid in JSON strings but not in
		// javascript source.
		if c == '\u2028' || c == '\u2029' {
			if start < i {
				enc.buf.WriteString(s[start:i])
			}
			enc.buf.WriteString(`\u202`)
			enc.buf.WriteByte(hex[c&0xF])
			i += size
			start = i
			continue
		}
		i += size
	}
	if start < len(s) {
		enc.buf.WriteString(s[start:])
	}
	enc.buf.WriteByte('"')
}
