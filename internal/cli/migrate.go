package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/aetherforge/internal/document"
	"github.com/roach88/aetherforge/internal/snapshot"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "migrate <snapshot-file>",
		Short: "Migrate a snapshot to the current format version",
		Long: `Migrate a snapshot file to the current format version.

Walks the registered single-step migration chain from the file's version
to current. Fails with a no-migration-path error if any link is missing.
The migrated canonical JSON goes to stdout, or to --out if given.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(rootOpts, args[0], outPath, cmd)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write migrated snapshot to file instead of stdout")

	return cmd
}

func runMigrate(opts *RootOptions, path, outPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	doc, err := LoadSnapshotFile(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	version, ok := doc["version"].(document.String)
	if !ok {
		_ = formatter.Error(string(snapshot.ErrCodeMalformedSnapshot), "snapshot has no version", nil)
		return NewExitError(ExitFailure, "snapshot has no version")
	}

	if string(version) == snapshot.CurrentVersion {
		formatter.VerboseLog("Snapshot already at %s", snapshot.CurrentVersion)
	} else {
		doc, err = snapshot.DefaultMigrations().Apply(doc, string(version), snapshot.CurrentVersion)
		if err != nil {
			return outputSnapshotError(formatter, err)
		}
		formatter.VerboseLog("Migrated %s -> %s", version, snapshot.CurrentVersion)
	}

	data, err := snapshot.Marshal(doc)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, append(data, '\n'), 0o644); err != nil {
			_ = formatter.Error(ErrCodeFileAccess, err.Error(), nil)
			return NewExitError(ExitCommandError, err.Error())
		}
		if formatter.Format == "json" {
			return formatter.Success(map[string]any{
				"from": string(version),
				"to":   snapshot.CurrentVersion,
				"out":  outPath,
			})
		}
		fmt.Fprintf(formatter.Writer, "Migrated %s -> %s, wrote %s\n", version, snapshot.CurrentVersion, outPath)
		return nil
	}

	fmt.Fprintln(formatter.Writer, string(data))
	return nil
}
