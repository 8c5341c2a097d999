package main

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	dnd5eclient "github.com/ironrations/charsheet/internal/clients/dnd5e"
	"github.com/ironrations/charsheet/internal/config"
	"github.com/ironrations/charsheet/internal/domain/rulebook"
	"github.com/ironrations/charsheet/internal/domain/shared"
	"github.com/ironrations/charsheet/internal/engine"
	"github.com/ironrations/charsheet/internal/repositories/characters"
	charactersvc "github.com/ironrations/charsheet/internal/services/character"
)

var showPreload bool

var showCmd = &cobra.Command{
	Use:   "show <character-id>",
	Short: "Print a character's computed sheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showPreload, "preload", false, "merge content from the public 5e API before computing")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("closing redis client: %v", err)
		}
	}()

	library := rulebook.NewLibrary()
	if showPreload {
		apiClient, err := dnd5eclient.New(&dnd5eclient.Config{})
		if err != nil {
			return err
		}
		if err := dnd5eclient.PreloadLibrary(ctx, apiClient, library); err != nil {
			// builtin content still produces a usable sheet
			log.Printf("content preload failed, continuing with builtin content: %v", err)
		}
	}

	svc := charactersvc.NewService(&charactersvc.ServiceConfig{
		Repository: characters.NewRedisRepository(&characters.RedisRepoConfig{Client: redisClient}),
		Library:    library,
	})

	char, err := svc.Get(ctx, args[0])
	if err != nil {
		return err
	}
	sheet, err := svc.Sheet(ctx, args[0])
	if err != nil {
		return err
	}

	printSheet(cmd, char.Name, sheet)
	return nil
}

func printSheet(cmd *cobra.Command, name string, sheet *engine.Sheet) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%s (level %d, proficiency +%d)\n\n", name, sheet.Level, sheet.ProficiencyBonus)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, attr := range shared.Attributes {
		block := sheet.Abilities[attr]
		save := sheet.Saves[attr]
		marker := ""
		if save.Proficient {
			marker = " *"
		}
		fmt.Fprintf(w, "%s\t%d\t%+d\tsave %+d%s\n", attr.Short(), block.Score, block.Modifier, save.Bonus, marker)
	}
	w.Flush()

	ac := fmt.Sprintf("%d", sheet.AC.Value)
	if sheet.AC.Overridden {
		ac += " (manual)"
	}
	if sheet.AC.NotProficient {
		ac += " (not proficient with worn armor)"
	}
	fmt.Fprintf(out, "\nAC %s  Initiative %+d  Speed %d ft", ac, sheet.Initiative, sheet.Speed)
	if sheet.Darkvision > 0 {
		fmt.Fprintf(out, "  Darkvision %d ft", sheet.Darkvision)
	}
	fmt.Fprintf(out, "\nMax HP %d  Passive Perception %d\n\n", sheet.MaxHP, sheet.PassivePerception)

	skills := make([]string, 0, len(sheet.Skills))
	for key := range sheet.Skills {
		skills = append(skills, key)
	}
	sort.Strings(skills)

	w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, key := range skills {
		skill := sheet.Skills[key]
		tier := ""
		switch skill.Level {
		case shared.ProficiencyLevelProficient:
			tier = "proficient"
		case shared.ProficiencyLevelExpertise:
			tier = "expertise"
		}
		fmt.Fprintf(w, "%s\t%+d\t(%s)\t%s\n", key, skill.Bonus, skill.Ability.Short(), tier)
	}
	w.Flush()

	if len(sheet.Languages) > 0 {
		fmt.Fprintf(out, "\nLanguages: %s\n", strings.Join(sheet.Languages, ", "))
	}

	if len(sheet.SpellSlots.Slots) > 0 || sheet.SpellSlots.PactMagic != nil {
		fmt.Fprintf(out, "\n%s", formatSlots(sheet.SpellSlots))
	}
}

func formatSlots(cfg rulebook.SpellSlotConfig) string {
	var b strings.Builder

	if len(cfg.Slots) > 0 {
		fmt.Fprintf(&b, "Spell slots (caster level %d):\n", cfg.CasterLevel)
		levels := make([]int, 0, len(cfg.Slots))
		for level := range cfg.Slots {
			levels = append(levels, level)
		}
		sort.Ints(levels)
		for _, level := range levels {
			fmt.Fprintf(&b, "  level %d: %d\n", level, cfg.Slots[level])
		}
	}

	if cfg.PactMagic != nil {
		fmt.Fprintf(&b, "Pact magic: %d slot(s) at level %d\n", cfg.PactMagic.Count, cfg.PactMagic.SlotLevel)
	}

	return b.String()
}
