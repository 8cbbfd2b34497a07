package engine

// Query is a node of the boolean query tree understood by every engine.
type Query interface {
	isQuery()
}

// Bool combines clauses. Must and Filter are required, MustNot excluded and,
// when no required clause exists, at least one Should clause must match.
type Bool struct {
	Must    []Query
	Filter  []Query
	Should  []Query
	MustNot []Query
}

// Term matches field exactly.
type Term struct {
	Field string
	Value string
}

// Terms matches when field equals any of Values.
type Terms struct {
	Field  string
	Values []string
}

// IDs matches documents by id.
type IDs struct {
	Values []string
}

// Phrase matches analyzed field text against a phrase; tokens must appear in order.
type Phrase struct {
	Field  string
	Phrase string
}

// Wildcard matches field tokens against a pattern where * is any run and ? any rune.
type Wildcard struct {
	Field   string
	Pattern string
}

// Nested requires that one object under Path satisfies Query on its own.
type Nested struct {
	Path  string
	Query Query
}

// MatchAll matches every document.
type MatchAll struct{}

func (Bool) isQuery()     {}
func (Term) isQuery()     {}
func (Terms) isQuery()    {}
func (IDs) isQuery()      {}
func (Phrase) isQuery()   {}
func (Wildcard) isQuery() {}
func (Nested) isQuery()   {}
func (MatchAll) isQuery() {}

// Required reports whether b has clauses that every match must satisfy.
func (b Bool) Required() bool {
	return len(b.Must) > 0 || len(b.Filter) > 0
}
