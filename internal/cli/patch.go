package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/aetherforge/internal/snapshot"
)

// NewPatchCommand creates the patch command group.
func NewPatchCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Create and apply snapshot patches",
	}

	cmd.AddCommand(newPatchCreateCommand(rootOpts))
	cmd.AddCommand(newPatchApplyCommand(rootOpts))

	return cmd
}

func newPatchCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "create <old-snapshot> <new-snapshot>",
		Short: "Create a patch from two snapshots",
		Long: `Diff two snapshot files and bundle the changes into a patch.

The patch carries the new state's version and checksum; applying it to
any state other than the old snapshot will, in general, fail the
checksum gate.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatchCreate(rootOpts, args[0], args[1], outPath, cmd)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write patch to file instead of stdout")

	return cmd
}

func runPatchCreate(opts *RootOptions, oldPath, newPath, outPath string, cmd *cobra.Command) error {
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

	patch, err := snapshot.CreatePatch(oldDoc, newDoc, time.Now())
	if err != nil {
		return outputSnapshotError(formatter, err)
	}

	data, err := snapshot.EncodePatch(patch)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, append(data, '\n'), 0o644); err != nil {
			_ = formatter.Error(ErrCodeFileAccess, err.Error(), nil)
			return NewExitError(ExitCommandError, err.Error())
		}
		formatter.VerboseLog("Wrote patch %s (%d changes)", patch.ID, len(patch.Changes))
		if formatter.Format == "json" {
			return formatter.Success(map[string]any{
				"id":      patch.ID,
				"changes": len(patch.Changes),
				"out":     outPath,
			})
		}
		fmt.Fprintf(formatter.Writer, "Patch %s: %d change(s), wrote %s\n", patch.ID, len(patch.Changes), outPath)
		return nil
	}

	fmt.Fprintln(formatter.Writer, string(data))
	return nil
}

func newPatchApplyCommand(rootOpts *RootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "apply <base-snapshot> <patch-file>",
		Short: "Apply a patch to a snapshot",
		Long: `Replay a patch's changes over a base snapshot.

The result's checksum must match the patch's declared checksum; a stale
or tampered patch is rejected without producing output.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatchApply(rootOpts, args[0], args[1], outPath, cmd)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write patched snapshot to file instead of stdout")

	return cmd
}

func runPatchApply(opts *RootOptions, basePath, patchPath, outPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	base, err := LoadSnapshotFile(basePath)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	patch, err := LoadPatchFile(patchPath)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	patched, err := snapshot.ApplyPatch(base, patch)
	if err != nil {
		return outputSnapshotError(formatter, err)
	}

	data, err := snapshot.Marshal(patched)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, append(data, '\n'), 0o644); err != nil {
			_ = formatter.Error(ErrCodeFileAccess, err.Error(), nil)
			return NewExitError(ExitCommandError, err.Error())
		}
		fmt.Fprintf(formatter.Writer, "Applied patch %s, wrote %s\n", patch.ID, outPath)
		return nil
	}

	fmt.Fprintln(formatter.Writer, string(data))
	return nil
}
