package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docgraph/docgraph/client"
)

// parseProps builds properties from a JSON array and repeated key=value or
// key:type=value flags. Flags are applied after the JSON.
func parseProps(propsJSON string, pairs []string) ([]client.Property, error) {
	var props []client.Property
	if propsJSON != "" {
		if err := json.Unmarshal([]byte(propsJSON), &props); err != nil {
			return nil, fmt.Errorf("parse --props: %w", err)
		}
	}
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --prop %q: want key=value", pair)
		}
		p := client.Property{Key: k, Value: v}
		if key, typ, typed := strings.Cut(k, ":"); typed {
			p.Key, p.Type = key, typ
		}
		props = append(props, p)
	}
	return props, nil
}

// parseKV parses repeated key=value filters.
func parseKV(pairs []string) ([]client.KeyValue, error) {
	kvs := make([]client.KeyValue, 0, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --kv %q: want key=value", pair)
		}
		kvs = append(kvs, client.KeyValue{Key: k, Value: v})
	}
	return kvs, nil
}

// queryFlags are the listing filters shared by vertex and edge list.
type queryFlags struct {
	label   string
	labels  []string
	key     string
	keyNot  string
	keys    []string
	values  []string
	kv      []string
	partial string
	size    int
}

func (f *queryFlags) query() (*client.Query, error) {
	kvs, err := parseKV(f.kv)
	if err != nil {
		return nil, err
	}
	if f.size < 0 {
		return nil, fmt.Errorf("--size must be non-negative")
	}
	return &client.Query{
		Label:        f.label,
		Labels:       f.labels,
		Key:          f.key,
		KeyNot:       f.keyNot,
		Keys:         f.keys,
		Values:       f.values,
		KeyValues:    kvs,
		PartialValue: f.partial,
		Size:         f.size,
	}, nil
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.label, "label", "", "Exact label")
	cmd.Flags().StringSliceVar(&f.labels, "labels", nil, "Any of these labels")
	cmd.Flags().StringVar(&f.key, "key", "", "Has property key")
	cmd.Flags().StringVar(&f.keyNot, "key-not", "", "Lacks property key")
	cmd.Flags().StringSliceVar(&f.keys, "keys", nil, "Has all of these property keys")
	cmd.Flags().StringSliceVar(&f.values, "values", nil, "Has all of these property values")
	cmd.Flags().StringArrayVar(&f.kv, "kv", nil, "Property key=value, repeatable")
	cmd.Flags().StringVar(&f.partial, "partial", "", "Substring match on property values")
	cmd.Flags().IntVar(&f.size, "size", 0, "Max results (0 = server default)")
}
