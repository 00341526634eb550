package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sprt",
	Short: "🏃 SPRT - AI-powered development logs",
	Long: `# 🏃 SPRT

**Turn your git history and Claude Code sessions into daily devlogs.**

## ✨ Features

- 📊 **Realtime usage stats** scanned straight from session transcripts
- 📁 **Git harvesting** across every project Claude Code has touched
- 🤖 **AI summaries** of each day's work, scored and persisted
- 🚦 **Rate-limit tracking** for your Claude account

## 🚀 Getting Started

Run **sprt serve** to start the local API the menu-bar app talks to.

Run **sprt generate** to create a devlog from the command line.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Custom help function rendering markdown with glamour
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderMarkdownHelp(cmd)
	})
}

// renderMarkdownHelp renders command help using glamour for markdown display
func renderMarkdownHelp(cmd *cobra.Command) {
	var helpContent strings.Builder

	if cmd.Long != "" {
		helpContent.WriteString(cmd.Long)
		helpContent.WriteString("\n\n")
	} else if cmd.Short != "" {
		helpContent.WriteString("# " + cmd.Short)
		helpContent.WriteString("\n\n")
	}

	helpContent.WriteString("## 📖 Usage\n\n")
	helpContent.WriteString("```bash\n")
	helpContent.WriteString(cmd.UseLine())
	helpContent.WriteString("\n```\n\n")

	if cmd.HasAvailableSubCommands() {
		helpContent.WriteString("## 🔧 Available Commands\n\n")
		for _, subCmd := range cmd.Commands() {
			if subCmd.IsAvailableCommand() {
				helpContent.WriteString(fmt.Sprintf("- **%s** - %s\n", subCmd.Name(), subCmd.Short))
			}
		}
		helpContent.WriteString("\n")
	}

	if cmd.HasAvailableFlags() {
		helpContent.WriteString("## ⚙️  Flags\n\n")
		flagUsages := cmd.Flags().FlagUsages()
		if flagUsages != "" {
			helpContent.WriteString("```\n")
			helpContent.WriteString(flagUsages)
			helpContent.WriteString("```\n\n")
		}
	}

	if cmd.HasParent() && cmd.InheritedFlags().HasFlags() {
		helpContent.WriteString("## 🌐 Global Flags\n\n")
		inheritedUsages := cmd.InheritedFlags().FlagUsages()
		if inheritedUsages != "" {
			helpContent.WriteString("```\n")
			helpContent.WriteString(inheritedUsages)
			helpContent.WriteString("```\n\n")
		}
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		// Fallback to default help if glamour fails
		cmd.Help()
		return
	}

	rendered, err := renderer.Render(helpContent.String())
	if err != nil {
		cmd.Help()
		return
	}

	fmt.Print(rendered)
}
