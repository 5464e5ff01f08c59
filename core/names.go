package core

// Reserved property and column names of the neighbor-expansion and
// property-projection result layouts. User properties must not reuse them.
const (
	KID   = "_id"
	KVid  = "_vid"
	KTag  = "_tag"
	KSrc  = "_src"
	KType = "_type"
	KRank = "_rank"
	KDst  = "_dst"
)

// Column name prefixes of a neighbor-expansion data set:
// _vid | _stats | _tag:<name>:<prop>... | _edge:<+|-><name>:<prop>... | _expr
const (
	ColumnPrefixStats = "_stats"
	ColumnPrefixTag   = "_tag"
	ColumnPrefixEdge  = "_edge"
	ColumnPrefixExpr  = "_expr"
)

// IsReservedEdgeProp reports whether prop is one of the edge key columns that
// are lifted into Edge fields rather than kept as a property.
func IsReservedEdgeProp(prop string) bool {
	return prop == KSrc || prop == KDst || prop == KRank || prop == KType
}
