// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/github-export/internal/config"
	"github.com/sirseerhq/github-export/internal/github"
	"github.com/sirseerhq/github-export/internal/logger"
)

// app holds the state shared by every command: global flags, the loaded
// configuration, standard streams and the client factories. Tests replace
// the factories and streams.
type app struct {
	tokenFlag  string
	outputDir  string
	configPath string
	verbose    bool

	cfg *config.Config

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	newClients    clientFactory
	newAuthorizer authorizerFactory
}

func newApp() *app {
	return &app{
		stdin:         os.Stdin,
		stdout:        os.Stdout,
		stderr:        os.Stderr,
		newClients:    newGitHubClients,
		newAuthorizer: newGitHubAuthorizer,
	}
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "github-export",
		Short: "Export a GitHub repository to JSON files",
		Long: `github-export writes the content of a GitHub repository to
pretty-printed JSON files and downloads the images referenced from its
issues and comments, so the repository can be archived or migrated.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.tokenFlag, "access-token", "t", "", "GitHub access token (overrides the token environment variable)")
	flags.StringVarP(&a.outputDir, "output-dir", "d", ".", "Directory to write exported files and assets to")
	flags.BoolVarP(&a.verbose, "verbose", "V", false, "Log debug output, including every HTTP request")
	flags.StringVar(&a.configPath, "config", "", "Path to a configuration file")

	rootCmd.AddCommand(newAllCommand(a))
	for _, cmd := range newResourceCommands(a) {
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(
		newAssetsCommand(a),
		newAssetsListCommand(a),
		newAssetsDownloadCommand(a),
		newAssetsCheckCommand(a),
	)

	return rootCmd
}

// setup initializes logging and loads the configuration. An explicit
// --output-dir overrides the configured one.
func (a *app) setup(cmd *cobra.Command) error {
	logger.Init(a.verbose)
	logger.SetOutput(a.stderr)
	github.SetVersion(version)

	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.Defaults.OutputDir = a.outputDir
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a.cfg = cfg
	logger.Debug("output directory: %s", cfg.Defaults.OutputDir)
	return nil
}

// workerFlags returns the download worker count and force setting,
// preferring flags the user set over the configuration. A worker count
// below 1 is clamped to 1.
func (a *app) workerFlags(cmd *cobra.Command, clientNum int, force bool) (int, bool) {
	if !cmd.Flags().Changed("client-num") {
		clientNum = a.cfg.Defaults.ClientNum
	}
	if !cmd.Flags().Changed("force") {
		force = a.cfg.Defaults.Force
	}
	if clientNum < 1 {
		logger.Warn("--client-num %d is below 1, using 1 worker", clientNum)
		clientNum = 1
	}
	return clientNum, force
}
