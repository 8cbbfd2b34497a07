package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docgraph/docgraph/client"
)

func newEdgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edge",
		Aliases: []string{"e"},
		Short:   "Manage edges",
	}
	cmd.AddCommand(edgeCreateCmd())
	cmd.AddCommand(edgeUpsertCmd())
	cmd.AddCommand(edgeGetCmd())
	cmd.AddCommand(edgeUpdateCmd())
	cmd.AddCommand(edgeDeleteCmd())
	cmd.AddCommand(edgeListCmd())
	return cmd
}

func edgeCreateCmd() *cobra.Command {
	var id, label, propsJSON string
	var props []string
	cmd := &cobra.Command{
		Use:   "create <source> <target>",
		Short: "Create an edge",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			e := buildEdge(id, label, args[0], args[1], propsJSON, props)
			out, err := apiClient.Edges.Create(context.Background(), datasource(), e)
			if err != nil {
				fatal("create edge", err)
			}
			output(out, out.ID)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Edge id (assigned by the server when empty)")
	cmd.Flags().StringVar(&label, "label", "", "Edge label (required)")
	_ = cmd.MarkFlagRequired("label")
	addPropFlags(cmd, &propsJSON, &props)
	return cmd
}

func edgeUpsertCmd() *cobra.Command {
	var label, propsJSON string
	var props []string
	cmd := &cobra.Command{
		Use:   "upsert <id> <source> <target>",
		Short: "Create an edge or replace the one with this id",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			e := buildEdge(args[0], label, args[1], args[2], propsJSON, props)
			out, created, err := apiClient.Edges.Upsert(context.Background(), datasource(), e)
			if err != nil {
				fatal("upsert edge", err)
			}
			if flagFmt == "table" {
				fmt.Printf("%s %s\n", out.ID, upsertVerb(created))
				return
			}
			output(out, out.ID)
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "Edge label (required)")
	_ = cmd.MarkFlagRequired("label")
	addPropFlags(cmd, &propsJSON, &props)
	return cmd
}

func edgeGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get an edge by id",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			e, err := apiClient.Edges.Get(context.Background(), datasource(), args[0])
			if err != nil {
				fatal("get edge", err)
			}
			if flagFmt == "table" {
				printEdges([]client.Edge{*e})
				return
			}
			output(e, e.ID)
		},
	}
}

func edgeUpdateCmd() *cobra.Command {
	var label, propsJSON string
	var props []string
	cmd := &cobra.Command{
		Use:   "update <id> <source> <target>",
		Short: "Replace an existing edge",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			e := buildEdge(args[0], label, args[1], args[2], propsJSON, props)
			out, err := apiClient.Edges.Update(context.Background(), datasource(), args[0], e)
			if err != nil {
				fatal("update edge", err)
			}
			output(out, out.ID)
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "Edge label (required)")
	_ = cmd.MarkFlagRequired("label")
	addPropFlags(cmd, &propsJSON, &props)
	return cmd
}

func edgeDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an edge",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Edges.Delete(context.Background(), datasource(), args[0]); err != nil {
				fatal("delete edge", err)
			}
			fmt.Println("deleted")
		},
	}
}

func edgeListCmd() *cobra.Command {
	var qf queryFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List edges, optionally filtered",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			q, err := qf.query()
			if err != nil {
				fatal("parse filters", err)
			}
			es, err := apiClient.Edges.List(context.Background(), datasource(), q)
			if err != nil {
				fatal("list edges", err)
			}
			printEdges(es)
		},
	}
	qf.register(cmd)
	return cmd
}

func buildEdge(id, label, source, target, propsJSON string, pairs []string) *client.Edge {
	props, err := parseProps(propsJSON, pairs)
	if err != nil {
		fatal("parse properties", err)
	}
	return &client.Edge{ID: id, Label: label, SourceID: source, TargetID: target, Properties: props}
}
