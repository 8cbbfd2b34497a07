package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docgraph/docgraph/client"
)

func newVertexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "vertex",
		Aliases: []string{"v"},
		Short:   "Manage vertices",
	}
	cmd.AddCommand(vertexCreateCmd())
	cmd.AddCommand(vertexUpsertCmd())
	cmd.AddCommand(vertexGetCmd())
	cmd.AddCommand(vertexUpdateCmd())
	cmd.AddCommand(vertexDeleteCmd())
	cmd.AddCommand(vertexListCmd())
	return cmd
}

func vertexCreateCmd() *cobra.Command {
	var id, propsJSON string
	var props []string
	cmd := &cobra.Command{
		Use:   "create <label>",
		Short: "Create a vertex",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			v := buildVertex(id, args[0], propsJSON, props)
			out, err := apiClient.Vertices.Create(context.Background(), datasource(), v)
			if err != nil {
				fatal("create vertex", err)
			}
			output(out, out.ID)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Vertex id (assigned by the server when empty)")
	addPropFlags(cmd, &propsJSON, &props)
	return cmd
}

func vertexUpsertCmd() *cobra.Command {
	var propsJSON string
	var props []string
	cmd := &cobra.Command{
		Use:   "upsert <id> <label>",
		Short: "Create a vertex or replace the one with this id",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			v := buildVertex(args[0], args[1], propsJSON, props)
			out, created, err := apiClient.Vertices.Upsert(context.Background(), datasource(), v)
			if err != nil {
				fatal("upsert vertex", err)
			}
			if flagFmt == "table" {
				fmt.Printf("%s %s\n", out.ID, upsertVerb(created))
				return
			}
			output(out, out.ID)
		},
	}
	addPropFlags(cmd, &propsJSON, &props)
	return cmd
}

func vertexGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a vertex by id",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			v, err := apiClient.Vertices.Get(context.Background(), datasource(), args[0])
			if err != nil {
				fatal("get vertex", err)
			}
			if flagFmt == "table" {
				printVertices([]client.Vertex{*v})
				return
			}
			output(v, v.ID)
		},
	}
}

func vertexUpdateCmd() *cobra.Command {
	var propsJSON string
	var props []string
	cmd := &cobra.Command{
		Use:   "update <id> <label>",
		Short: "Replace an existing vertex",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			v := buildVertex(args[0], args[1], propsJSON, props)
			out, err := apiClient.Vertices.Update(context.Background(), datasource(), args[0], v)
			if err != nil {
				fatal("update vertex", err)
			}
			output(out, out.ID)
		},
	}
	addPropFlags(cmd, &propsJSON, &props)
	return cmd
}

func vertexDeleteCmd() *cobra.Command {
	var cascade bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a vertex",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			res, err := apiClient.Vertices.Delete(context.Background(), datasource(), args[0], cascade)
			if err != nil {
				fatal("delete vertex", err)
			}
			if flagFmt == "json" {
				formatJSON(res)
				return
			}
			if cascade {
				fmt.Printf("deleted (%d edges removed)\n", res.EdgesRemoved)
				return
			}
			fmt.Println("deleted")
		},
	}
	cmd.Flags().BoolVar(&cascade, "cascade", false, "Also delete every edge touching the vertex")
	return cmd
}

func vertexListCmd() *cobra.Command {
	var qf queryFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List vertices, optionally filtered",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			q, err := qf.query()
			if err != nil {
				fatal("parse filters", err)
			}
			vs, err := apiClient.Vertices.List(context.Background(), datasource(), q)
			if err != nil {
				fatal("list vertices", err)
			}
			printVertices(vs)
		},
	}
	qf.register(cmd)
	return cmd
}

func buildVertex(id, label, propsJSON string, pairs []string) *client.Vertex {
	props, err := parseProps(propsJSON, pairs)
	if err != nil {
		fatal("parse properties", err)
	}
	return &client.Vertex{ID: id, Label: label, Properties: props}
}

func addPropFlags(cmd *cobra.Command, propsJSON *string, pairs *[]string) {
	cmd.Flags().StringVar(propsJSON, "props", "", "Properties as a JSON array of {key,type,value}")
	cmd.Flags().StringArrayVar(pairs, "prop", nil, "Property key=value or key:type=value, repeatable")
}

func upsertVerb(created bool) string {
	if created {
		return "created"
	}
	return "updated"
}
