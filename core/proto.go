package core

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// ToProto converts the value into a *structpb.Value for export to clients.
// Empty and null values map to a protobuf null; graph objects and data sets
// map to structs as described by Native.
func (v Value) ToProto() (*structpb.Value, error) {
	pv, err := structpb.NewValue(v.Native())
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s value to protobuf: %w", v.Type(), err)
	}
	return pv, nil
}

// RowToProto converts a row into a protobuf list value.
func RowToProto(row Row) (*structpb.ListValue, error) {
	list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(row.Values))}
	for i, cell := range row.Values {
		pv, err := cell.ToProto()
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		list.Values = append(list.Values, pv)
	}
	return list, nil
}
