package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docgraph/docgraph/client"
)

var errNotConfirmed = errors.New("refusing without --yes")

func newDatasourceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "datasource",
		Aliases: []string{"ds"},
		Short:   "Datasource summaries and maintenance",
	}
	cmd.AddCommand(dsCountCmd())
	cmd.AddCommand(dsLabelsCmd())
	cmd.AddCommand(dsKeysCmd())
	cmd.AddCommand(dsRemoveCmd())
	cmd.AddCommand(dsResetCmd())
	return cmd
}

func printElementCounts(c *client.Counts) {
	if flagFmt == "table" {
		formatTable([]string{"VERTICES", "EDGES"}, [][]string{{fmt.Sprint(c.V), fmt.Sprint(c.E)}})
		return
	}
	formatJSON(c)
}

func dsCountCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count vertices and edges",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			var (
				c   *client.Counts
				err error
			)
			if all {
				c, err = apiClient.Datasources.CountAll(context.Background())
			} else {
				c, err = apiClient.Datasources.Count(context.Background(), datasource())
			}
			if err != nil {
				fatal("count", err)
			}
			printElementCounts(c)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Count across every datasource")
	return cmd
}

func dsLabelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "Label frequencies of vertices and edges",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			l, err := apiClient.Datasources.Labels(context.Background(), datasource())
			if err != nil {
				fatal("labels", err)
			}
			if flagFmt == "table" {
				printCounts("VERTEX LABEL", l.V)
				fmt.Println()
				printCounts("EDGE LABEL", l.E)
				return
			}
			formatJSON(l)
		},
	}
}

func dsKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys <v|e> <label>",
		Short: "Property-key frequencies of elements with a label",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			var (
				m   map[string]int64
				err error
			)
			switch args[0] {
			case "v", "vertex":
				m, err = apiClient.Datasources.VertexKeys(ctx, datasource(), args[1])
			case "e", "edge":
				m, err = apiClient.Datasources.EdgeKeys(ctx, datasource(), args[1])
			default:
				err = fmt.Errorf("kind must be v or e, got %q", args[0])
			}
			if err != nil {
				fatal("keys", err)
			}
			printCounts("KEY", m)
		},
	}
}

func dsRemoveCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Delete every vertex and edge of the datasource",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ds := datasource()
			if !yes {
				fatal("remove "+ds, errNotConfirmed)
			}
			c, err := apiClient.Datasources.Remove(context.Background(), ds)
			if err != nil {
				fatal("remove", err)
			}
			printElementCounts(c)
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the removal")
	return cmd
}

func dsResetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop and recreate both collections for every datasource",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if !yes {
				fatal("reset", errNotConfirmed)
			}
			if err := apiClient.Datasources.Reset(context.Background()); err != nil {
				fatal("reset", err)
			}
			fmt.Println("reset")
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")
	return cmd
}
