package main

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/INLOpen/nexusgraph/core"
)

// emptyCell is how a fixture spells an empty cell, since YAML has no way to
// tell an absent value from null.
const emptyCell = "__EMPTY__"

type fixtureDataSet struct {
	Columns []string `yaml:"columns"`
	Rows    [][]any  `yaml:"rows"`
}

type fixture struct {
	DataSets []fixtureDataSet `yaml:"datasets"`
}

// loadFixture decodes a YAML result fixture into data sets.
func loadFixture(r io.Reader) ([]*core.DataSet, error) {
	var fx fixture
	if err := yaml.NewDecoder(r).Decode(&fx); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode fixture yaml: %w", err)
	}

	out := make([]*core.DataSet, 0, len(fx.DataSets))
	for i, fds := range fx.DataSets {
		ds := core.NewDataSet(fds.Columns...)
		for j, cells := range fds.Rows {
			row := core.Row{Values: make([]core.Value, 0, len(cells))}
			for k, cell := range cells {
				v, err := fixtureCell(cell)
				if err != nil {
					return nil, fmt.Errorf("data set %d row %d cell %d: %w", i, j, k, err)
				}
				row.Values = append(row.Values, v)
			}
			if err := ds.Append(row); err != nil {
				return nil, fmt.Errorf("data set %d row %d: %w", i, j, err)
			}
		}
		out = append(out, ds)
	}
	return out, nil
}

func fixtureCell(cell any) (core.Value, error) {
	switch c := cell.(type) {
	case string:
		if c == emptyCell {
			return core.EmptyValue, nil
		}
	case []any:
		list := &core.List{Values: make([]core.Value, 0, len(c))}
		for _, e := range c {
			v, err := fixtureCell(e)
			if err != nil {
				return core.Value{}, err
			}
			list.Append(v)
		}
		return core.NewListValue(list), nil
	}
	return core.NewValue(cell)
}
