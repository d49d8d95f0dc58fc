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
	"strings"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/github-export/internal/assets"
	"github.com/sirseerhq/github-export/internal/exporter"
	"github.com/sirseerhq/github-export/internal/logger"
	"github.com/sirseerhq/github-export/internal/metadata"
)

func newAllCommand(a *app) *cobra.Command {
	var (
		clientNum   int
		force       bool
		metadataDir string
	)

	cmd := &cobra.Command{
		Use:   "all <owner>/<repo>",
		Short: "Export every resource of a repository and download its assets",
		Long: `Export the repository, milestones, releases, labels, issues, comments,
events and issue events of a repository, in that order, each to its own
JSON file in the output directory. Then list the images referenced from
the exported files, download them and check that each is present.

The first failure stops the export.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := parseRepository(args[0])
			if err != nil {
				return err
			}
			workers, forced := a.workerFlags(cmd, clientNum, force)

			ctx := cmd.Context()
			c, err := a.connect(ctx)
			if err != nil {
				return err
			}

			tracker := metadata.New()
			if c.requests != nil {
				tracker.CountAPICalls(c.requests)
			}

			e := exporter.New(c.client, exporter.Options{
				OutputDir: a.cfg.Defaults.OutputDir,
				Workers:   workers,
				Force:     forced,
				Report:    cmd.OutOrStdout(),
				Info:      c.info,
				Tracker:   tracker,
			})
			if err := e.ExportAll(ctx, owner, repo); err != nil {
				return err
			}

			m := tracker.GenerateMetadata(version, metadata.ExportParams{
				Owner:      owner,
				Repository: repo,
				OutputDir:  a.cfg.Defaults.OutputDir,
				ClientNum:  workers,
				Force:      forced,
			})
			metadata.Log(m)

			if metadataDir != "" {
				path, err := metadata.SaveMetadata(m, metadataDir)
				if err != nil {
					return err
				}
				logger.Info("run metadata written to %s", path)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&clientNum, "client-num", assets.DefaultWorkers, "Number of parallel asset download workers")
	cmd.Flags().BoolVar(&force, "force", false, "Download assets even if they already exist")
	cmd.Flags().StringVar(&metadataDir, "metadata-dir", "", "Directory to write a JSON record of the run to")

	return cmd
}

// newResourceCommands returns one command per exportable resource.
func newResourceCommands(a *app) []*cobra.Command {
	var cmds []*cobra.Command
	for _, r := range exporter.Resources() {
		name := r.Name
		cmds = append(cmds, &cobra.Command{
			Use:   name + " <owner>/<repo>",
			Short: fmt.Sprintf("Export %s to %s", strings.ReplaceAll(name, "_", " "), r.File),
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				owner, repo, err := parseRepository(args[0])
				if err != nil {
					return err
				}

				ctx := cmd.Context()
				c, err := a.connect(ctx)
				if err != nil {
					return err
				}

				e := exporter.New(c.client, exporter.Options{OutputDir: a.cfg.Defaults.OutputDir})
				return e.Export(ctx, name, owner, repo)
			},
		})
	}
	return cmds
}

// parseRepository parses an owner/repo string into its components.
func parseRepository(repoArg string) (owner, repo string, err error) {
	parts := strings.Split(repoArg, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid repository format. Expected: <owner>/<repo>, got: %s", repoArg)
	}

	owner = strings.TrimSpace(parts[0])
	repo = strings.TrimSpace(parts[1])

	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("invalid repository format. Expected: <owner>/<repo>, got: %s", repoArg)
	}

	return owner, repo, nil
}
