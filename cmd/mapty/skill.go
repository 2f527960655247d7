// ABOUTME: Install Claude Code skill for mapty
// ABOUTME: Embeds and installs the skill definition to ~/.claude/skills/

package main

import (
	"bufio"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

//go:embed skill/SKILL.md
var skillFS embed.FS

var skillSkipConfirm bool

var installSkillCmd = &cobra.Command{
	Use:   "install-skill",
	Short: "Install Claude Code skill",
	Long: `Install the mapty skill for Claude Code.

This copies the skill definition to ~/.claude/skills/mapty/
so Claude Code can log workouts contextually.`,
	Annotations: map[string]string{
		sessionAnnotation: sessionNone,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		return installSkill(cmd, home)
	},
}

func init() {
	installSkillCmd.Flags().BoolVarP(&skillSkipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(installSkillCmd)
}

func skillPathFor(home string) string {
	return filepath.Join(home, ".claude", "skills", "mapty", "SKILL.md")
}

func installSkill(cmd *cobra.Command, home string) error {
	out := cmd.OutOrStdout()
	skillPath := skillPathFor(home)
	skillDir := filepath.Dir(skillPath)

	fmt.Fprintln(out, "┌─────────────────────────────────────────────────────────────┐")
	fmt.Fprintln(out, "│              Mapty Skill for Claude Code                    │")
	fmt.Fprintln(out, "└─────────────────────────────────────────────────────────────┘")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "This will install the mapty skill, enabling Claude Code to:")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  • Log runs and rides at places on your map")
	fmt.Fprintln(out, "  • Show pace, speed and recent workouts")
	fmt.Fprintln(out, "  • Fix or remove logged workouts")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Destination:")
	fmt.Fprintf(out, "  %s\n", skillPath)
	fmt.Fprintln(out)

	if _, err := os.Stat(skillPath); err == nil {
		fmt.Fprintln(out, "Note: A skill file already exists and will be overwritten.")
		fmt.Fprintln(out)
	}

	if !skillSkipConfirm {
		fmt.Fprint(out, "Install the mapty skill? [y/N] ")
		response, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && response == "" {
			return fmt.Errorf("failed to read response: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(out, "Installation canceled.")
			return nil
		}
		fmt.Fprintln(out)
	}

	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		return fmt.Errorf("failed to read embedded skill: %w", err)
	}

	if err := os.MkdirAll(skillDir, 0750); err != nil {
		return fmt.Errorf("failed to create skill directory: %w", err)
	}

	if err := os.WriteFile(skillPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write skill file: %w", err)
	}

	color.New(color.FgGreen).Fprintln(out, "✓ Installed mapty skill successfully!")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Try asking Claude: \"Log a 5k run in 25 minutes in Hyde Park\"")
	return nil
}
