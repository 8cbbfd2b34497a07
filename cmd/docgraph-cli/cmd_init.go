package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/docgraph/docgraph/client"
)

func newInitCmd() *cobra.Command {
	var initURL, initDS string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up docgraph CLI configuration",
		Long:  "Interactive setup wizard that creates ~/.docgraph/config.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			nonInteractive := initURL != "" || initDS != ""
			return runInit(initURL, initDS, nonInteractive)
		},
	}

	cmd.Flags().StringVar(&initURL, "server", "", "Server URL (non-interactive mode)")
	cmd.Flags().StringVar(&initDS, "default-datasource", "", "Default datasource (non-interactive mode)")
	return cmd
}

func runInit(url, ds string, nonInteractive bool) error {
	if !nonInteractive {
		fmt.Println("\n  docgraph setup")
		fmt.Println("  --------------")
		fmt.Println()

		reader := bufio.NewReader(os.Stdin)

		fmt.Printf("  Server URL [%s]: ", defaultURL)
		line, _ := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			url = line
		}

		fmt.Print("  Default datasource: ")
		line, _ = reader.ReadString('\n')
		ds = strings.TrimSpace(line)
	}

	if url == "" {
		url = defaultURL
	}

	if !nonInteractive {
		fmt.Print("\n  Testing connection... ")
	}

	ver, err := testConnection(url)
	if err != nil {
		if !nonInteractive {
			fmt.Println("failed")
		}
		return fmt.Errorf("connection failed: %w", err)
	}

	if !nonInteractive {
		fmt.Printf("connected (%s)\n", ver)
	}

	cfgPath, err := writeConfig(url, ds)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Printf("Config saved to %s\n", cfgPath)
	if !nonInteractive {
		fmt.Println()
		fmt.Println("  Next steps:")
		fmt.Println("    docgraph-cli doctor          # Full diagnostic check")
		fmt.Println("    docgraph-cli ds labels       # Summarize the datasource")
		fmt.Println("    docgraph-cli --help          # See all commands")
		fmt.Println()
	}

	return nil
}

func testConnection(url string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	health, err := client.New(url).Health(ctx)
	if err != nil {
		return "", err
	}
	if health.Version == "" {
		return "unknown", nil
	}
	return health.Version, nil
}

func writeConfig(url, ds string) (string, error) {
	cfgPath, err := configPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o700); err != nil {
		return "", err
	}

	cfg := configFile{
		Profiles: map[string]configProfile{
			"default": {URL: url, Datasource: ds},
		},
		ActiveProfile: "default",
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(cfgPath, data, 0o600); err != nil {
		return "", err
	}

	return cfgPath, nil
}
