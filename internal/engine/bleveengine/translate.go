package bleveengine

import (
	"fmt"

	"github.com/blevesearch/bleve/search/query"

	"github.com/docgraph/docgraph/internal/engine"
)

// translate converts the engine query tree into a bleve query.
func translate(q engine.Query) (query.Query, error) { //nolint:gocyclo // one case per query node.
	switch q := q.(type) {
	case nil, engine.MatchAll:
		return query.NewMatchAllQuery(), nil
	case engine.Bool:
		return translateBool(q)
	case engine.Term:
		tq := query.NewTermQuery(q.Value)
		tq.SetField(q.Field)
		return tq, nil
	case engine.Terms:
		if len(q.Values) == 0 {
			return query.NewMatchNoneQuery(), nil
		}
		bq := query.NewBooleanQuery(nil, nil, nil)
		for _, v := range q.Values {
			tq := query.NewTermQuery(v)
			tq.SetField(q.Field)
			bq.AddShould(tq)
		}
		bq.SetMinShould(1)
		return bq, nil
	case engine.IDs:
		if len(q.Values) == 0 {
			return query.NewMatchNoneQuery(), nil
		}
		return query.NewDocIDQuery(q.Values), nil
	case engine.Phrase:
		pq := query.NewMatchPhraseQuery(q.Phrase)
		pq.SetField(q.Field)
		return pq, nil
	case engine.Wildcard:
		wq := query.NewWildcardQuery(q.Pattern)
		wq.SetField(q.Field)
		return wq, nil
	case engine.Nested:
		// Flattened: see package doc.
		return translate(q.Query)
	default:
		return nil, fmt.Errorf("unsupported query node %T", q)
	}
}

func translateBool(q engine.Bool) (query.Query, error) {
	must, err := translateAll(append(append([]engine.Query{}, q.Must...), q.Filter...))
	if err != nil {
		return nil, err
	}

	should, err := translateAll(q.Should)
	if err != nil {
		return nil, err
	}

	mustNot, err := translateAll(q.MustNot)
	if err != nil {
		return nil, err
	}

	if len(must) == 0 && len(should) == 0 {
		must = []query.Query{query.NewMatchAllQuery()}
	}

	bq := query.NewBooleanQuery(must, should, mustNot)
	if len(should) > 0 && !q.Required() {
		bq.SetMinShould(1)
	}

	return bq, nil
}

func translateAll(qs []engine.Query) ([]query.Query, error) {
	out := make([]query.Query, 0, len(qs))
	for _, q := range qs {
		bq, err := translate(q)
		if err != nil {
			return nil, err
		}
		out = append(out, bq)
	}

	return out, nil
}
