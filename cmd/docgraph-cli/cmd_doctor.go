package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/docgraph/docgraph/client"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration and connectivity",
		Long:  "Run diagnostic checks against config, server and document engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(flagURL, flagDS)
		},
	}
}

type checkResult struct {
	Name   string
	Passed bool
	Detail string
	Hint   string
}

var errDoctor = errors.New("doctor found issues")

func runDoctor(url, ds string) error {
	fmt.Println("\ndocgraph doctor")
	fmt.Println("===============")

	results := doctorChecks(url, ds)

	fmt.Println()
	allPassed := true
	for _, r := range results {
		mark := "ok  "
		if !r.Passed {
			mark = "FAIL"
			allPassed = false
		}
		if r.Detail != "" {
			fmt.Printf("[%s] %s: %s\n", mark, r.Name, r.Detail)
		} else {
			fmt.Printf("[%s] %s\n", mark, r.Name)
		}
		if !r.Passed && r.Hint != "" {
			fmt.Printf("       Hint: %s\n", r.Hint)
		}
	}

	fmt.Println()
	if !allPassed {
		fmt.Println("Some checks failed.")
		return errDoctor
	}
	fmt.Println("All checks passed!")
	return nil
}

func doctorChecks(url, ds string) []checkResult {
	var results []checkResult

	cfgPath, _ := configPath()
	if _, _, err := readConfigFile(); err != nil {
		results = append(results, checkResult{
			Name: "Config file", Detail: cfgPath, Hint: "Run: docgraph-cli init",
		})
	} else {
		results = append(results, checkResult{
			Name: "Config file", Passed: true, Detail: fmt.Sprintf("found (%s)", cfgPath),
		})
	}

	if ds == "" {
		results = append(results, checkResult{
			Name: "Datasource", Hint: "Set --datasource, DOCGRAPH_DATASOURCE, or run docgraph-cli init",
		})
	} else {
		results = append(results, checkResult{Name: "Datasource", Passed: true, Detail: ds})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := client.New(url)

	health, err := c.Health(ctx)
	if err != nil {
		return append(results, checkResult{
			Name: "Server reachable", Detail: url,
			Hint: fmt.Sprintf("Is docgraph serve running? Error: %v", err),
		})
	}
	results = append(results, checkResult{
		Name: "Server reachable", Passed: true,
		Detail: fmt.Sprintf("%s (version %s, engine %s)", url, health.Version, health.Engine),
	})

	ready, err := c.Ready(ctx)
	if err != nil {
		results = append(results, checkResult{
			Name: "Document engine", Hint: fmt.Sprintf("Check the server's engine settings. Error: %v", err),
		})
	} else {
		results = append(results, checkResult{Name: "Document engine", Passed: true, Detail: ready.Status})
	}

	return results
}
