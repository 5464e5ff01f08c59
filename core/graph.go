package core

import (
	"fmt"
	"strings"
)

// Tag is a named group of vertex properties.
type Tag struct {
	Name  string
	Props map[string]Value
}

func (t Tag) Equal(o Tag) bool {
	return t.Name == o.Name && propsEqual(t.Props, o.Props)
}

func (t Tag) Clone() Tag {
	return Tag{Name: t.Name, Props: cloneProps(t.Props)}
}

func (t Tag) String() string {
	return t.Name + "{" + formatProps(t.Props) + "}"
}

// Vertex is a vertex id plus the tags attached to it.
type Vertex struct {
	Vid  Value
	Tags []Tag
}

func (v *Vertex) Equal(o *Vertex) bool {
	if v == nil || o == nil {
		return v == o
	}
	if !v.Vid.Equal(o.Vid) || len(v.Tags) != len(o.Tags) {
		return false
	}
	for i := range v.Tags {
		if !v.Tags[i].Equal(o.Tags[i]) {
			return false
		}
	}
	return true
}

func (v *Vertex) Clone() *Vertex {
	if v == nil {
		return nil
	}
	out := &Vertex{Vid: v.Vid.Clone()}
	if v.Tags != nil {
		out.Tags = make([]Tag, len(v.Tags))
		for i, t := range v.Tags {
			out.Tags[i] = t.Clone()
		}
	}
	return out
}

func (v *Vertex) String() string {
	tags := make([]string, len(v.Tags))
	for i, t := range v.Tags {
		tags[i] = t.String()
	}
	return "(" + v.Vid.String() + " " + strings.Join(tags, " ") + ")"
}

// Edge is a directed, typed, ranked edge between two vertices. A negative
// Type marks an edge read in the reverse direction.
type Edge struct {
	Src     Value
	Dst     Value
	Type    int64
	Name    string
	Ranking int64
	Props   map[string]Value
}

// Format rewrites a reverse edge into its canonical direction by swapping the
// endpoints and negating the type.
func (e *Edge) Format() {
	if e.Type < 0 {
		e.Src, e.Dst = e.Dst, e.Src
		e.Type = -e.Type
	}
}

func (e *Edge) Equal(o *Edge) bool {
	if e == nil || o == nil {
		return e == o
	}
	return e.Src.Equal(o.Src) && e.Dst.Equal(o.Dst) && e.Type == o.Type &&
		e.Name == o.Name && e.Ranking == o.Ranking && propsEqual(e.Props, o.Props)
}

func (e *Edge) Clone() *Edge {
	if e == nil {
		return nil
	}
	out := *e
	out.Src = e.Src.Clone()
	out.Dst = e.Dst.Clone()
	out.Props = cloneProps(e.Props)
	return &out
}

func (e *Edge) String() string {
	return fmt.Sprintf("(%s)-[%s(%d)@%d{%s}]->(%s)", e.Src, e.Name, e.Type, e.Ranking, formatProps(e.Props), e.Dst)
}

// Step is one hop of a path.
type Step struct {
	Dst     Vertex
	Type    int64
	Name    string
	Ranking int64
	Props   map[string]Value
}

func (s Step) Equal(o Step) bool {
	return s.Dst.Equal(&o.Dst) && s.Type == o.Type && s.Name == o.Name &&
		s.Ranking == o.Ranking && propsEqual(s.Props, o.Props)
}

// Path is a source vertex followed by a sequence of steps.
type Path struct {
	Src   Vertex
	Steps []Step
}

func (p *Path) Equal(o *Path) bool {
	if p == nil || o == nil {
		return p == o
	}
	if !p.Src.Equal(&o.Src) || len(p.Steps) != len(o.Steps) {
		return false
	}
	for i := range p.Steps {
		if !p.Steps[i].Equal(o.Steps[i]) {
			return false
		}
	}
	return true
}

func (p *Path) Clone() *Path {
	if p == nil {
		return nil
	}
	out := &Path{Src: *p.Src.Clone()}
	if p.Steps != nil {
		out.Steps = make([]Step, len(p.Steps))
		for i, s := range p.Steps {
			out.Steps[i] = Step{
				Dst:     *s.Dst.Clone(),
				Type:    s.Type,
				Name:    s.Name,
				Ranking: s.Ranking,
				Props:   cloneProps(s.Props),
			}
		}
	}
	return out
}

func (p *Path) String() string {
	var sb strings.Builder
	sb.WriteString(p.Src.String())
	for _, s := range p.Steps {
		fmt.Fprintf(&sb, "-[%s(%d)@%d]->%s", s.Name, s.Type, s.Ranking, s.Dst.String())
	}
	return sb.String()
}

// IsValidVid reports whether v can serve as a vertex id. Both integer and
// string ids are accepted.
func IsValidVid(v Value) bool {
	return v.IsString() || v.IsInt()
}
