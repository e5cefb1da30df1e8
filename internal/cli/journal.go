package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/aetherforge/internal/snapshot"
	"github.com/roach88/aetherforge/internal/store"
)

// NewJournalCommand creates the journal command group.
func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Work with the snapshot journal",
		Long: `Work with the SQLite snapshot journal.

The journal stores full snapshots plus the patches between them, so any
character's latest state can be audited or rebuilt by replay.`,
	}

	cmd.PersistentFlags().StringVar(&dbPath, "db", "aetherforge.db", "journal database path")

	cmd.AddCommand(newJournalSaveCommand(rootOpts, &dbPath))
	cmd.AddCommand(newJournalAppendCommand(rootOpts, &dbPath))
	cmd.AddCommand(newJournalLogCommand(rootOpts, &dbPath))
	cmd.AddCommand(newJournalReplayCommand(rootOpts, &dbPath))

	return cmd
}

func openJournal(formatter *OutputFormatter, dbPath string) (*store.Store, error) {
	s, err := store.Open(dbPath)
	if err != nil {
		_ = formatter.Error(ErrCodeFileAccess, err.Error(), nil)
		return nil, NewExitError(ExitCommandError, err.Error())
	}
	return s, nil
}

func newJournalSaveCommand(rootOpts *RootOptions, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:           "save <snapshot-file>",
		Short:         "Journal a snapshot",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}

			doc, err := LoadSnapshotFile(args[0])
			if err != nil {
				return outputLoadError(formatter, err)
			}

			s, err := openJournal(formatter, *dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.SaveSnapshot(cmd.Context(), doc, time.Now()); err != nil {
				_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return NewExitError(ExitCommandError, err.Error())
			}

			if formatter.Format == "json" {
				return formatter.Success(map[string]any{"saved": args[0]})
			}
			fmt.Fprintf(formatter.Writer, "Journaled %s\n", args[0])
			return nil
		},
	}
}

func newJournalAppendCommand(rootOpts *RootOptions, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:           "append <patch-file>",
		Short:         "Journal a patch",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}

			patch, err := LoadPatchFile(args[0])
			if err != nil {
				return outputLoadError(formatter, err)
			}

			s, err := openJournal(formatter, *dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.AppendPatch(cmd.Context(), patch); err != nil {
				_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return NewExitError(ExitCommandError, err.Error())
			}

			if formatter.Format == "json" {
				return formatter.Success(map[string]any{"appended": patch.ID})
			}
			fmt.Fprintf(formatter.Writer, "Journaled patch %s (%d changes)\n", patch.ID, len(patch.Changes))
			return nil
		},
	}
}

// JournalLogEntry is one row of the journal log output.
type JournalLogEntry struct {
	Kind     string `json:"kind"` // "snapshot" | "patch"
	ID       string `json:"id,omitempty"`
	Version  string `json:"version"`
	Checksum string `json:"checksum"`
	At       string `json:"at"`
	Changes  int    `json:"changes,omitempty"`
}

func newJournalLogCommand(rootOpts *RootOptions, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:           "log <character-id>",
		Short:         "List a character's journaled snapshots and patches",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}

			s, err := openJournal(formatter, *dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			history, err := s.History(cmd.Context(), args[0])
			if err != nil {
				_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return NewExitError(ExitCommandError, err.Error())
			}
			patches, err := s.ListPatches(cmd.Context(), args[0])
			if err != nil {
				_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return NewExitError(ExitCommandError, err.Error())
			}

			entries := make([]JournalLogEntry, 0, len(history)+len(patches))
			for _, h := range history {
				entries = append(entries, JournalLogEntry{
					Kind:     "snapshot",
					Version:  h.Version,
					Checksum: h.Checksum,
					At:       h.SavedAt.Format(time.RFC3339),
				})
			}
			for _, p := range patches {
				entries = append(entries, JournalLogEntry{
					Kind:     "patch",
					ID:       p.ID,
					Version:  p.Version,
					Checksum: p.Checksum,
					At:       p.Timestamp.UTC().Format(time.RFC3339),
					Changes:  len(p.Changes),
				})
			}

			if formatter.Format == "json" {
				return formatter.Success(entries)
			}

			if len(entries) == 0 {
				fmt.Fprintf(formatter.Writer, "No journal entries for %s\n", args[0])
				return nil
			}
			for _, e := range entries {
				if e.Kind == "snapshot" {
					fmt.Fprintf(formatter.Writer, "snapshot  %s  v%s  %s\n", e.At, e.Version, e.Checksum[:12])
				} else {
					fmt.Fprintf(formatter.Writer, "patch     %s  v%s  %s  %d change(s)\n", e.At, e.Version, e.Checksum[:12], e.Changes)
				}
			}
			return nil
		},
	}
}

func newJournalReplayCommand(rootOpts *RootOptions, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <character-id>",
		Short: "Rebuild a character's state by patch replay",
		Long: `Rebuild a character's current state by replaying journaled patches
over the latest journaled snapshot. Patches diffed against a base that a
newer snapshot superseded are skipped; any other failure aborts.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}

			s, err := openJournal(formatter, *dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			state, err := s.LoadLatest(cmd.Context(), args[0])
			if err != nil {
				_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return NewExitError(ExitCommandError, err.Error())
			}
			patches, err := s.ListPatches(cmd.Context(), args[0])
			if err != nil {
				_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return NewExitError(ExitCommandError, err.Error())
			}

			baseSum, err := s.History(cmd.Context(), args[0])
			if err == nil && len(baseSum) > 0 {
				formatter.VerboseLog("Replaying %d patch(es) over snapshot %s", len(patches), baseSum[len(baseSum)-1].Checksum[:12])
			}

			applied := 0
			for _, p := range patches {
				next, err := snapshot.ApplyPatch(state, p)
				if err != nil {
					if snapshot.IsChecksumMismatch(err) {
						// Patches diffed against superseded bases are
						// expected once a newer full snapshot exists.
						formatter.VerboseLog("Skipping patch %s: %v", p.ID, err)
						continue
					}
					return outputSnapshotError(formatter, err)
				}
				state = next
				applied++
			}

			formatter.VerboseLog("Applied %d of %d patch(es)", applied, len(patches))

			data, err := snapshot.Marshal(state)
			if err != nil {
				_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return NewExitError(ExitCommandError, err.Error())
			}
			fmt.Fprintln(formatter.Writer, string(data))
			return nil
		},
	}
}
