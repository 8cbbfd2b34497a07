package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/docgraph/docgraph/client"
)

// Build-time variables set via ldflags.
var (
	version   = "0.1.0"
	commit    = ""
	buildDate = ""
)

const defaultURL = "http://localhost:3040"

var (
	apiClient *client.Client
	flagURL   string
	flagDS    string
	flagFmt   string
)

var errNoDatasource = errors.New("no datasource: set --datasource, DOCGRAPH_DATASOURCE, or run docgraph-cli init")

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("docgraph-cli version %s (commit: %s, built: %s)", version, commit, buildDate)
	}
	return fmt.Sprintf("docgraph-cli version %s-dev", version)
}

type configFile struct {
	// Flat format
	URL        string `yaml:"url"`
	Datasource string `yaml:"datasource"`
	// Profile format
	Profiles      map[string]configProfile `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

type configProfile struct {
	URL        string `yaml:"url"`
	Datasource string `yaml:"datasource"`
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "docgraph-cli",
		Short:   "docgraph CLI: vertices, edges and traversals over the REST API",
		Version: versionString(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			resolveConfig()
			apiClient = client.New(flagURL, client.WithRequestID(uuid.NewString))
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "docgraph server URL (env: DOCGRAPH_URL)")
	rootCmd.PersistentFlags().StringVarP(&flagDS, "datasource", "d", "", "Datasource to operate on (env: DOCGRAPH_DATASOURCE)")
	rootCmd.PersistentFlags().StringVar(&flagFmt, "format", "json", "Output format: json|table|quiet")

	initCmd := newInitCmd()
	initCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {} // skip client setup
	doctorCmd := newDoctorCmd()
	doctorCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) { resolveConfig() }

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(newVertexCmd())
	rootCmd.AddCommand(newEdgeCmd())
	rootCmd.AddCommand(newGraphCmd())
	rootCmd.AddCommand(newDatasourceCmd())

	return rootCmd
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".docgraph", "config.yaml"), nil
}

// readConfigFile returns the url and datasource of the active profile, or of
// the flat fields when there are no profiles.
func readConfigFile() (url, datasource string, err error) {
	cfgPath, err := configPath()
	if err != nil {
		return "", "", err
	}
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return "", "", err
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return "", "", fmt.Errorf("parse %s: %w", cfgPath, err)
	}

	url, datasource = cfg.URL, cfg.Datasource
	if cfg.Profiles != nil {
		profileName := cfg.ActiveProfile
		if profileName == "" {
			profileName = "default"
		}
		if p, ok := cfg.Profiles[profileName]; ok {
			if p.URL != "" {
				url = p.URL
			}
			if p.Datasource != "" {
				datasource = p.Datasource
			}
		}
	}
	return url, datasource, nil
}

func resolveConfig() {
	// Flag takes precedence, then env, then config file.
	if flagURL == defaultURL {
		if v := os.Getenv("DOCGRAPH_URL"); v != "" {
			flagURL = v
		}
	}
	if flagDS == "" {
		flagDS = os.Getenv("DOCGRAPH_DATASOURCE")
	}

	fileURL, fileDS, err := readConfigFile()
	if err != nil {
		return
	}
	if flagURL == defaultURL && fileURL != "" {
		flagURL = fileURL
	}
	if flagDS == "" && fileDS != "" {
		flagDS = fileDS
	}
}

// datasource returns the resolved datasource or exits.
func datasource() string {
	if flagDS == "" {
		fatal("resolve datasource", errNoDatasource)
	}
	return flagDS
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	os.Exit(1)
}
