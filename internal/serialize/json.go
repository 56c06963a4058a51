package serialize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/roach88/sketch/internal/tree"
)

const jsonIndent = "  "

// MarshalJSON renders v as two-space indented JSON in stored key order,
// without HTML escaping, ending in a newline.
func MarshalJSON(v tree.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v, 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v tree.Value, depth int) error {
	switch val := v.(type) {
	case nil, tree.Null:
		buf.WriteString("null")
	case tree.String:
		writeJSONString(buf, string(val))
	case tree.Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case tree.Float:
		f := float64(val)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return fmt.Errorf("serialize: %s cannot be represented in JSON", tree.FormatFloat(f))
		}
		buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	case tree.Bool:
		buf.WriteString(strconv.FormatBool(bool(val)))
	case tree.Array:
		if len(val) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, elem := range val {
			indent(buf, depth+1)
			if err := writeJSON(buf, elem, depth+1); err != nil {
				return err
			}
			if i < len(val)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		indent(buf, depth)
		buf.WriteByte(']')
	case *tree.Object:
		if val.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		i, n := 0, val.Len()
		err := val.Each(func(key string, elem tree.Value) error {
			indent(buf, depth+1)
			writeJSONString(buf, key)
			buf.WriteString(": ")
			if err := writeJSON(buf, elem, depth+1); err != nil {
				return err
			}
			if i++; i < n {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
			return nil
		})
		if err != nil {
			return err
		}
		indent(buf, depth)
		buf.WriteByte('}')
	default:
		return fmt.Errorf("serialize: unsupported value %T", v)
	}
	return nil
}

func indent(buf *bytes.Buffer, depth int) {
	for range depth {
		buf.WriteString(jsonIndent)
	}
}

func writeJSONString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
}
