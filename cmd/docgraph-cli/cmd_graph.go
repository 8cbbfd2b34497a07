package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docgraph/docgraph/client"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Single-hop traversal commands",
	}
	cmd.AddCommand(graphNeighborsCmd())
	cmd.AddCommand(graphEdgesCmd())
	cmd.AddCommand(graphOtherCmd())
	return cmd
}

func parseDirection(s string) (client.Direction, error) {
	switch d := client.Direction(strings.ToLower(s)); d {
	case client.Out, client.In, client.Both:
		return d, nil
	case "":
		return client.Both, nil
	default:
		return "", fmt.Errorf("invalid --dir %q: want out, in or both", s)
	}
}

func graphNeighborsCmd() *cobra.Command {
	var dir string
	var labels []string
	cmd := &cobra.Command{
		Use:   "neighbors <vertex-id>",
		Short: "Vertices one edge away",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			d, err := parseDirection(dir)
			if err != nil {
				fatal("neighbors", err)
			}
			vs, err := apiClient.Graph.Neighbors(context.Background(), datasource(), args[0], d, labels...)
			if err != nil {
				fatal("neighbors", err)
			}
			printVertices(vs)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "both", "Direction: out|in|both")
	cmd.Flags().StringSliceVar(&labels, "labels", nil, "Keep neighbors with any of these labels")
	return cmd
}

func graphEdgesCmd() *cobra.Command {
	var dir, label, key, value string
	var labels []string
	cmd := &cobra.Command{
		Use:   "edges <vertex-id>",
		Short: "Edges touching a vertex",
		Long:  "Edges touching a vertex. With --key the edges are filtered by label (when set) and the exact property key=value.",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			d, err := parseDirection(dir)
			if err != nil {
				fatal("edges", err)
			}
			ctx := context.Background()

			var es []client.Edge
			if key != "" {
				es, err = apiClient.Graph.EdgesByKeyValue(ctx, datasource(), args[0], d, label, key, value)
			} else {
				if label != "" {
					labels = append(labels, label)
				}
				es, err = apiClient.Graph.Edges(ctx, datasource(), args[0], d, labels...)
			}
			if err != nil {
				fatal("edges", err)
			}
			printEdges(es)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "both", "Direction: out|in|both")
	cmd.Flags().StringSliceVar(&labels, "labels", nil, "Keep edges with any of these labels")
	cmd.Flags().StringVar(&label, "label", "", "Edge label")
	cmd.Flags().StringVar(&key, "key", "", "Property key to match")
	cmd.Flags().StringVar(&value, "value", "", "Property value to match with --key")
	return cmd
}

func graphOtherCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "other <edge-id> <vertex-id>",
		Short: "The endpoint of an edge opposite a vertex",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			v, err := apiClient.Graph.Other(context.Background(), datasource(), args[0], args[1])
			if err != nil {
				fatal("other", err)
			}
			if flagFmt == "table" {
				printVertices([]client.Vertex{*v})
				return
			}
			output(v, v.ID)
		},
	}
}
