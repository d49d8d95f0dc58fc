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
	"github.com/spf13/cobra"

	"github.com/sirseerhq/github-export/internal/assets"
	"github.com/sirseerhq/github-export/internal/exporter"
)

func newAssetsCommand(a *app) *cobra.Command {
	var (
		clientNum int
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "assets",
		Short: "List, download and check the assets of exported files",
		Long: `Scan every JSON file in the output directory for Markdown images,
write the sorted list to assets.txt, download each image that is not yet
present and print OK or NG for every listed URL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			workers, forced := a.workerFlags(cmd, clientNum, force)

			ctx := cmd.Context()
			c, err := a.connect(ctx)
			if err != nil {
				return err
			}

			e := exporter.New(c.client, exporter.Options{
				OutputDir: a.cfg.Defaults.OutputDir,
				Workers:   workers,
				Force:     forced,
				Report:    cmd.OutOrStdout(),
			})
			return e.Assets(ctx)
		},
	}

	addWorkerFlags(cmd, &clientNum, &force)
	return cmd
}

func newAssetsListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "assets_list [files...]",
		Short: "Write the image URLs referenced from files to assets.txt",
		Long: `Scan the given files, or every JSON file in the output directory when
none are given, for Markdown images. The URLs are deduplicated, sorted and
written to assets.txt in the output directory, replacing its content.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files := args
			if len(files) == 0 {
				found, err := assets.FindJSONFiles(a.cfg.Defaults.OutputDir)
				if err != nil {
					return err
				}
				files = found
			}

			e := exporter.New(nil, exporter.Options{OutputDir: a.cfg.Defaults.OutputDir})
			_, err := e.ListAssets(files)
			return err
		},
	}
}

func newAssetsDownloadCommand(a *app) *cobra.Command {
	var (
		clientNum int
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "assets_download",
		Short: "Download the assets listed in assets.txt",
		Long: `Download every URL in assets.txt to the output directory, mirroring the
URL path. Files that already exist are skipped unless --force is given.
URLs are spread over --client-num workers; a failed download stops only
the worker that hit it, and the command fails once all workers finish.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			workers, forced := a.workerFlags(cmd, clientNum, force)

			ctx := cmd.Context()
			c, err := a.connect(ctx)
			if err != nil {
				return err
			}

			e := exporter.New(c.client, exporter.Options{
				OutputDir: a.cfg.Defaults.OutputDir,
				Workers:   workers,
				Force:     forced,
			})
			return e.DownloadAssets(ctx)
		},
	}

	addWorkerFlags(cmd, &clientNum, &force)
	return cmd
}

func newAssetsCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "assets_check",
		Short: "Print OK or NG for every URL in assets.txt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := exporter.New(nil, exporter.Options{
				OutputDir: a.cfg.Defaults.OutputDir,
				Report:    cmd.OutOrStdout(),
			})
			_, err := e.CheckAssets()
			return err
		},
	}
}

func addWorkerFlags(cmd *cobra.Command, clientNum *int, force *bool) {
	cmd.Flags().IntVar(clientNum, "client-num", assets.DefaultWorkers, "Number of parallel download workers")
	cmd.Flags().BoolVar(force, "force", false, "Download assets even if they already exist")
}
