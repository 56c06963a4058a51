package tree

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// FromAny converts plain Go values (as produced by encoding/json, yaml.v3 or
// go-toml when decoding into `any`) into a tree. Keys of Go maps carry no order,
// so they are sorted.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint:
		return Int(val), nil
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case uint64:
		return Int(val), nil
	case float32:
		return Float(val), nil
	case float64:
		return Float(val), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", val)
		}
		return Float(f), nil
	case time.Time:
		return String(val.Format(time.RFC3339Nano)), nil
	case fmt.Stringer:
		// go-toml local dates and times
		return String(val.String()), nil
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			conv, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = conv
		}
		return arr, nil
	case []string:
		arr := make(Array, len(val))
		for i, elem := range val {
			arr[i] = String(elem)
		}
		return arr, nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			conv, err := FromAny(val[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			obj.Set(k, conv)
		}
		return obj, nil
	case map[string]string:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			obj.Set(k, String(val[k]))
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
}

// ToAny converts a tree into plain Go values: map[string]any, []any, string,
// int64, float64, bool and nil. Key order is lost.
func ToAny(v Value) any {
	switch val := v.(type) {
	case nil, Null:
		return nil
	case String:
		return string(val)
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case Bool:
		return bool(val)
	case Array:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = ToAny(elem)
		}
		return out
	case *Object:
		out := make(map[string]any, val.Len())
		_ = val.Each(func(key string, elem Value) error {
			out[key] = ToAny(elem)
			return nil
		})
		return out
	default:
		return nil
	}
}

// Equal reports whether a and b are deeply equal, including object key order.
func Equal(a, b Value) bool {
	return equal(a, b, true)
}

// EqualUnordered reports whether a and b are deeply equal ignoring object key order.
func EqualUnordered(a, b Value) bool {
	return equal(a, b, false)
}

func equal(a, b Value, ordered bool) bool {
	if a == nil {
		a = Null{}
	}
	if b == nil {
		b = Null{}
	}
	switch av := a.(type) {
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equal(av[i], bv[i], ordered) {
				return false
			}
		}
		return true
	case *Object:
		bv, ok := b.(*Object)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		ak, bk := av.Keys(), bv.Keys()
		for i, key := range ak {
			if ordered && bk[i] != key {
				return false
			}
			x, _ := av.Get(key)
			y, present := bv.Get(key)
			if !present || !equal(x, y, ordered) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// Merge deep-merges two raw values: objects merge by key (left order first,
// then new keys from right), anything else is replaced by right. Neither input
// is modified.
func Merge(left, right Value) Value {
	if right == nil {
		return left
	}
	if _, isNull := right.(Null); isNull && left != nil {
		return left
	}
	lo, lok := left.(*Object)
	ro, rok := right.(*Object)
	if !lok || !rok {
		return right
	}
	out := lo.Clone()
	_ = ro.Each(func(key string, rv Value) error {
		if lv, ok := out.Get(key); ok {
			out.Set(key, Merge(lv, rv))
		} else {
			out.Set(key, rv)
		}
		return nil
	})
	return out
}
