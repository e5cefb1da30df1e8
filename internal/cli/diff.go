package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/aetherforge/internal/document"
	"github.com/roach88/aetherforge/internal/snapshot"
)

// DiffEntry is one change in the diff command's output.
type DiffEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
	Old  any    `json:"oldValue,omitempty"`
	New  any    `json:"newValue,omitempty"`
}

// DiffResult holds the diff command's output.
type DiffResult struct {
	Changes []DiffEntry `json:"changes"`
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <old-snapshot> <new-snapshot>",
		Short: "Diff two character snapshots",
		Long: `Compute the structural diff between two snapshot files.

Objects are compared key by key in canonical order; arrays are compared
positionally by index, so a reordered list reports as per-index updates.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(rootOpts, args[0], args[1], cmd)
		},
	}

	return cmd
}

func runDiff(opts *RootOptions, oldPath, newPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	oldDoc, err := LoadSnapshotFile(oldPath)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	newDoc, err := LoadSnapshotFile(newPath)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	changes := snapshot.TrackChanges(oldDoc, newDoc)

	if formatter.Format == "json" {
		result := DiffResult{Changes: make([]DiffEntry, 0, len(changes))}
		for _, c := range changes {
			entry := DiffEntry{Path: c.Path.String(), Type: string(c.Type)}
			if c.Old != nil {
				entry.Old = document.ToGo(c.Old)
			}
			if c.New != nil {
				entry.New = document.ToGo(c.New)
			}
			result.Changes = append(result.Changes, entry)
		}
		return formatter.Success(result)
	}

	if len(changes) == 0 {
		fmt.Fprintln(formatter.Writer, "No changes")
		return nil
	}

	for _, c := range changes {
		switch c.Type {
		case snapshot.ChangeCreate, snapshot.ChangeAdd:
			fmt.Fprintf(formatter.Writer, "+ %s = %v\n", c.Path, document.ToGo(c.New))
		case snapshot.ChangeDelete, snapshot.ChangeRemove:
			fmt.Fprintf(formatter.Writer, "- %s (was %v)\n", c.Path, document.ToGo(c.Old))
		default:
			fmt.Fprintf(formatter.Writer, "~ %s: %v -> %v\n", c.Path, document.ToGo(c.Old), document.ToGo(c.New))
		}
	}
	fmt.Fprintf(formatter.Writer, "%d change(s)\n", len(changes))
	return nil
}
