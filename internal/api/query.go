package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/docgraph/docgraph/internal/models"
)

// predicateParser turns the query string of a listing endpoint into a PredicateSet.
type predicateParser func(c *gin.Context) (models.PredicateSet, error)

// queryFunc runs a predicate query over one element kind.
type queryFunc[T any] func(ctx context.Context, datasource string, p models.PredicateSet, size int) ([]T, error)

// queryForm is one /query/{name} endpoint.
type queryForm struct {
	name  string
	parse predicateParser
}

// queryForms lists the listing endpoints shared by vertices and edges.
var queryForms = []queryForm{
	{"labels", func(c *gin.Context) (models.PredicateSet, error) {
		return models.PredicateSet{Labels: splitList(c.Query("q"))}, nil
	}},
	{"keys", func(c *gin.Context) (models.PredicateSet, error) {
		return models.PredicateSet{Keys: splitList(c.Query("q"))}, nil
	}},
	{"key", parseKey},
	{"values", func(c *gin.Context) (models.PredicateSet, error) {
		return models.PredicateSet{Values: splitList(c.Query("q"))}, nil
	}},
	{"value", func(c *gin.Context) (models.PredicateSet, error) {
		q, err := required(c, "q")
		if err != nil {
			return models.PredicateSet{}, err
		}
		return models.PredicateSet{PartialValue: q[0]}, nil
	}},
	{"keyvalue", func(c *gin.Context) (models.PredicateSet, error) {
		q, err := required(c, "key", "value")
		if err != nil {
			return models.PredicateSet{}, err
		}
		return models.PredicateSet{}.WithKeyValue(q[0], q[1]), nil
	}},
	{"labelkeyvalue", func(c *gin.Context) (models.PredicateSet, error) {
		q, err := required(c, "label", "key", "value")
		if err != nil {
			return models.PredicateSet{}, err
		}
		return models.PredicateSet{Label: q[0]}.WithKeyValue(q[1], q[2]), nil
	}},
	{"has", parseHas},
}

// all matches every element of the datasource.
func all(*gin.Context) (models.PredicateSet, error) { return models.PredicateSet{}, nil }

// required returns the named query parameters, failing on the first blank one.
func required(c *gin.Context, names ...string) ([]string, error) {
	out := make([]string, len(names))
	for i, name := range names {
		v := strings.TrimSpace(c.Query(name))
		if v == "" {
			return nil, models.InvalidPredicate(name, "is required")
		}
		out[i] = v
	}

	return out, nil
}

// parseKey handles key?q=k, or key?q=k&hasNot=true for elements lacking k.
func parseKey(c *gin.Context) (models.PredicateSet, error) {
	q, err := required(c, "q")
	if err != nil {
		return models.PredicateSet{}, err
	}

	if c.Query("hasNot") == "true" {
		return models.PredicateSet{KeyNot: q[0]}, nil
	}

	return models.PredicateSet{Key: q[0]}, nil
}

// parseHas combines every predicate parameter into one conjunctive set.
// Repeated kv parameters carry key@value pairs that must all hold.
func parseHas(c *gin.Context) (models.PredicateSet, error) {
	p := models.PredicateSet{
		Label:  c.Query("label"),
		Labels: splitList(c.Query("labels")),
		Key:    c.Query("key"),
		KeyNot: c.Query("keyNot"),
		Keys:   splitList(c.Query("keys")),
		Values: splitList(c.Query("values")),
	}

	for _, kv := range c.QueryArray("kv") {
		key, value, ok := strings.Cut(kv, "@")
		if !ok || key == "" || value == "" {
			return models.PredicateSet{}, models.InvalidPredicate("kv", fmt.Sprintf("%q must be key@value", kv))
		}
		p = p.WithKeyValue(key, value)
	}

	return p, nil
}

// listHandler serves a listing endpoint. Results are always a JSON array.
func listHandler[T any](log *logrus.Logger, what string, query queryFunc[T], parse predicateParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !pathParams(c, "ds") {
			return
		}

		size, err := parseSize(c)
		if err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

			return
		}

		p, err := parse(c)
		if err != nil {
			respondServiceError(c, log, err, what)

			return
		}

		items, err := query(c.Request.Context(), c.Param("ds"), p, size)
		if err != nil {
			respondServiceError(c, log, err, what)

			return
		}

		if items == nil {
			items = []T{}
		}

		c.JSON(http.StatusOK, items)
	}
}

// registerQueries mounts the listing endpoints of one element kind on g.
func registerQueries[T any](g *gin.RouterGroup, log *logrus.Logger, what string, query queryFunc[T]) {
	g.GET("", listHandler(log, what, query, all))
	for _, f := range queryForms {
		g.GET("/query/"+f.name, listHandler(log, what, query, f.parse))
	}
}
