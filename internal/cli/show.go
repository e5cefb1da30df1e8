package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/aetherforge/internal/character"
	"github.com/roach88/aetherforge/internal/snapshot"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <snapshot-file>",
		Short: "Show a character snapshot",
		Long: `Show a character snapshot in human-readable form.

Old format versions are migrated in memory before display; the file is
not modified. With --format json the full migrated document is printed
as canonical JSON.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runShow(opts *RootOptions, path string, cmd *cobra.Command) error {
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

	c, err := snapshot.Rehydrate(doc, snapshot.DefaultMigrations())
	if err != nil {
		return outputSnapshotError(formatter, err)
	}

	if formatter.Format == "json" {
		migrated, err := snapshot.Serialize(c)
		if err != nil {
			return outputSnapshotError(formatter, err)
		}
		data, err := snapshot.Marshal(migrated)
		if err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return NewExitError(ExitCommandError, err.Error())
		}
		fmt.Fprintln(formatter.Writer, string(data))
		return nil
	}

	printCharacterSummary(formatter, c)
	return nil
}

func printCharacterSummary(formatter *OutputFormatter, c *character.Character) {
	w := formatter.Writer

	fmt.Fprintf(w, "%s (%s)\n", c.Name, c.ID)
	fmt.Fprintf(w, "  Level %d, proficiency +%d\n", c.Level, c.ProficiencyBonus)
	fmt.Fprintf(w, "  HP %d/%d", c.HitPoints.Pool.Current, c.HitPoints.Pool.Maximum)
	if c.HitPoints.Pool.Temporary > 0 {
		fmt.Fprintf(w, " (+%d temp)", c.HitPoints.Pool.Temporary)
	}
	fmt.Fprintf(w, " [%s]\n", c.HitPoints.State)
	fmt.Fprintf(w, "  Heat %d (level %d)\n", c.HeatStress.Points, c.HeatStress.Level)
	fmt.Fprintf(w, "  Focus %d/%d maintained\n", len(c.Focus.MaintainedPowers), c.Focus.FocusLimit)

	if c.Overload.IsOverloaded {
		fmt.Fprintf(w, "  OVERLOADED: %d excess, save DC %d\n", c.Overload.ExcessAFP, c.Overload.SaveDC)
	}

	if c.Arcanist != nil {
		fmt.Fprintf(w, "  Arcanist: %d/%d AFP, heat %d/%d, harmony %d\n",
			c.Arcanist.Charges.Current, c.Arcanist.Charges.Maximum,
			c.Arcanist.Risk, c.Arcanist.RiskCap, c.Arcanist.Harmony)
	}
	if c.Templar != nil {
		fmt.Fprintf(w, "  Templar: %d/%d RC, feedback %d/%d, harmony %d\n",
			c.Templar.Charges.Current, c.Templar.Charges.Maximum,
			c.Templar.Risk, c.Templar.RiskCap, c.Templar.Harmony)
	}

	fmt.Fprintf(w, "  Modified %s\n", c.LastModified.Format("2006-01-02 15:04:05 MST"))
}

// outputSnapshotError maps coded snapshot errors onto CLI output and exit
// codes.
func outputSnapshotError(formatter *OutputFormatter, err error) error {
	var se *snapshot.Error
	if errors.As(err, &se) {
		_ = formatter.Error(string(se.Code), se.Message, nil)
		return NewExitError(ExitFailure, se.Message)
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return NewExitError(ExitFailure, err.Error())
}
