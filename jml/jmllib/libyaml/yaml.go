// Copyright © 2024 The ELPS authors

// Package libyaml converts between YAML documents and jml values.  Mapping key
// order is preserved in both directions.
package libyaml

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/goccy/go-yaml"
	"github.com/luthersystems/jml/jml"
)

// ErrNotSerializable is returned by Dump when a value has no YAML
// representation.
var ErrNotSerializable = errors.New("value is not serializable")

// Load decodes a single YAML document.  Mappings become objects in document
// order and mapping keys that are not strings are formatted as strings.
func Load(b []byte) (*jml.Value, error) {
	var x interface{}
	err := yaml.UnmarshalWithOptions(b, &x, yaml.UseOrderedMap())
	if err != nil {
		return nil, err
	}
	return loadInterface(x)
}

func loadInterface(x interface{}) (*jml.Value, error) {
	switch x := x.(type) {
	case nil:
		return jml.Null(), nil
	case bool:
		return jml.Bool(x), nil
	case string:
		return jml.String(x), nil
	case int:
		return jml.Int(int64(x)), nil
	case int64:
		return jml.Int(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return jml.Float(float64(x)), nil
		}
		return jml.Int(int64(x)), nil
	case float32:
		return jml.Float(float64(x)), nil
	case float64:
		return jml.Float(x), nil
	case []interface{}:
		items := make([]*jml.Value, len(x))
		for i := range x {
			v, err := loadInterface(x[i])
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return jml.List(items), nil
	case yaml.MapSlice:
		obj := jml.NewObject()
		for _, item := range x {
			v, err := loadInterface(item.Value)
			if err != nil {
				return nil, err
			}
			obj.Set(keyString(item.Key), v)
		}
		return jml.ObjectValue(obj), nil
	default:
		return nil, fmt.Errorf("yaml: unsupported value of type %T", x)
	}
}

func keyString(k interface{}) string {
	if s, ok := k.(string); ok {
		return s
	}
	if k == nil {
		return "null"
	}
	return fmt.Sprint(k)
}

// Dump encodes v as a YAML document using indent spaces per nesting level.
// An indent less than one produces flow style output.
func Dump(v *jml.Value, indent int) ([]byte, error) {
	return DumpContext(context.Background(), v, indent)
}

// DumpContext is like Dump but passes ctx to the encoder.
func DumpContext(ctx context.Context, v *jml.Value, indent int) ([]byte, error) {
	x, err := GoValue(v)
	if err != nil {
		return nil, err
	}
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}
	return yaml.MarshalContext(ctx, x, opts...)
}

// GoValue converts v into values understood by the yaml encoder.  Objects
// become yaml.MapSlice so that key order survives encoding.
func GoValue(v *jml.Value) (interface{}, error) {
	switch v.Kind {
	case jml.VNull:
		return nil, nil
	case jml.VBool:
		return v.Bool, nil
	case jml.VInt:
		return v.Int, nil
	case jml.VFloat:
		return v.Float, nil
	case jml.VString:
		return v.Str, nil
	case jml.VList:
		items := make([]interface{}, len(v.Items))
		for i, item := range v.Items {
			x, err := GoValue(item)
			if err != nil {
				return nil, err
			}
			items[i] = x
		}
		return items, nil
	case jml.VObject:
		m := make(yaml.MapSlice, 0, v.Obj.Len())
		for _, e := range v.Obj.Entries() {
			x, err := GoValue(e.Value)
			if err != nil {
				return nil, err
			}
			m = append(m, yaml.MapItem{Key: e.Key, Value: x})
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrNotSerializable, v.Type())
	}
}
