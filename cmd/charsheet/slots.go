package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironrations/charsheet/internal/domain/rulebook"
)

var slotsCmd = &cobra.Command{
	Use:   "slots <class:level> [<class:level>...]",
	Short: "Compute multiclass spell slots for a class mix",
	Long: `Compute the shared spell slot table and any pact magic pool for a
class combination, e.g. "slots wizard:3 paladin:2" or "slots warlock:5".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSlots,
}

func runSlots(cmd *cobra.Command, args []string) error {
	library := rulebook.NewLibrary()

	entries := make([]rulebook.CasterEntry, 0, len(args))
	for _, arg := range args {
		classKey, level, err := parseClassLevel(arg)
		if err != nil {
			return err
		}

		class, ok := library.Class(classKey)
		if !ok {
			return fmt.Errorf("unknown class %q", classKey)
		}

		entries = append(entries, rulebook.CasterEntry{
			Type:  class.CastingType(""),
			Level: level,
		})
	}

	cfg := rulebook.CalculateSpellSlots(entries)
	if len(cfg.Slots) == 0 && cfg.PactMagic == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "no spell slots for this combination")
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), formatSlots(cfg))
	return nil
}

func parseClassLevel(arg string) (string, int, error) {
	parts := strings.SplitN(arg, ":", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("expected class:level, got %q", arg)
	}

	level, err := strconv.Atoi(parts[1])
	if err != nil || level < 1 || level > rulebook.MaxLevel {
		return "", 0, fmt.Errorf("invalid level %q for class %s", parts[1], parts[0])
	}

	return strings.ToLower(parts[0]), level, nil
}
