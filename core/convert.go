package core

import (
	"fmt"
	"math"
)

// NewValue converts a native Go value, as produced by a YAML or JSON decoder,
// into a Value. Nested slices become lists and string-keyed maps become maps.
func NewValue(data any) (Value, error) {
	switch v := data.(type) {
	case nil:
		return NullValue, nil
	case Value:
		return v, nil
	case bool:
		return NewBool(v), nil
	case int:
		return NewInt(int64(v)), nil
	case int8:
		return NewInt(int64(v)), nil
	case int16:
		return NewInt(int64(v)), nil
	case int32:
		return NewInt(int64(v)), nil
	case int64:
		return NewInt(v), nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return NewNull(NullKindErrOverflow), nil
		}
		return NewInt(int64(v)), nil
	case uint32:
		return NewInt(int64(v)), nil
	case uint64:
		if v > math.MaxInt64 {
			return NewNull(NullKindErrOverflow), nil
		}
		return NewInt(int64(v)), nil
	case float32:
		return NewFloat(float64(v)), nil // Promote to float64
	case float64:
		return NewFloat(v), nil
	case string:
		return NewString(v), nil
	case Date:
		return NewDate(v), nil
	case Time:
		return NewTime(v), nil
	case DateTime:
		return NewDateTime(v), nil
	case *Vertex:
		return NewVertexValue(v), nil
	case *Edge:
		return NewEdgeValue(v), nil
	case *Path:
		return NewPathValue(v), nil
	case *DataSet:
		return NewDataSetValue(v), nil
	case []Value:
		return NewListValue(&List{Values: v}), nil
	case []any:
		list := &List{Values: make([]Value, 0, len(v))}
		for i, e := range v {
			ev, err := NewValue(e)
			if err != nil {
				return Value{}, fmt.Errorf("invalid list element %d: %w", i, err)
			}
			list.Values = append(list.Values, ev)
		}
		return NewListValue(list), nil
	case map[string]any:
		m := &Map{KVs: make(map[string]Value, len(v))}
		for k, e := range v {
			ev, err := NewValue(e)
			if err != nil {
				return Value{}, fmt.Errorf("invalid value for key '%s': %w", k, err)
			}
			m.KVs[k] = ev
		}
		return NewMapValue(m), nil
	default:
		return Value{}, &UnsupportedTypeError{Message: fmt.Sprintf("unsupported value type: %T", data)}
	}
}

// Native converts a Value back into plain Go data. Graph objects become maps
// keyed by their field names. Empty and every null kind become nil.
func (v Value) Native() any {
	switch v.valueType {
	case ValueTypeEmpty, ValueTypeNull:
		return nil
	case ValueTypeBool, ValueTypeInt, ValueTypeFloat, ValueTypeString:
		return v.data
	case ValueTypeDate, ValueTypeTime, ValueTypeDateTime:
		return v.String()
	case ValueTypeList:
		return nativeValues(v.List().Values)
	case ValueTypeSet:
		return nativeValues(v.Set().Values)
	case ValueTypeMap:
		return nativeProps(v.Map().KVs)
	case ValueTypeVertex:
		return nativeVertex(v.Vertex())
	case ValueTypeEdge:
		e := v.Edge()
		return map[string]any{
			"src":     e.Src.Native(),
			"dst":     e.Dst.Native(),
			"type":    e.Type,
			"name":    e.Name,
			"ranking": e.Ranking,
			"props":   nativeProps(e.Props),
		}
	case ValueTypePath:
		p := v.Path()
		steps := make([]any, len(p.Steps))
		for i, s := range p.Steps {
			steps[i] = map[string]any{
				"dst":     nativeVertex(&s.Dst),
				"type":    s.Type,
				"name":    s.Name,
				"ranking": s.Ranking,
				"props":   nativeProps(s.Props),
			}
		}
		return map[string]any{"src": nativeVertex(&p.Src), "steps": steps}
	case ValueTypeDataSet:
		ds := v.DataSet()
		cols := make([]any, len(ds.ColNames))
		for i, c := range ds.ColNames {
			cols[i] = c
		}
		rows := make([]any, len(ds.Rows))
		for i, r := range ds.Rows {
			rows[i] = nativeValues(r.Values)
		}
		return map[string]any{"columns": cols, "rows": rows}
	default:
		return nil
	}
}

func nativeValues(values []Value) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v.Native()
	}
	return out
}

func nativeProps(props map[string]Value) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = v.Native()
	}
	return out
}

func nativeVertex(vx *Vertex) map[string]any {
	tags := make(map[string]any, len(vx.Tags))
	for _, t := range vx.Tags {
		tags[t.Name] = nativeProps(t.Props)
	}
	return map[string]any{"vid": vx.Vid.Native(), "tags": tags}
}
