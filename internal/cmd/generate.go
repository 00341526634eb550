package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/robinbaebae/sprt/internal/claude/scanner"
	"github.com/robinbaebae/sprt/internal/config"
	"github.com/robinbaebae/sprt/internal/git"
	"github.com/robinbaebae/sprt/internal/git/executor"
	"github.com/robinbaebae/sprt/internal/logger"
	"github.com/robinbaebae/sprt/internal/models"
	"github.com/robinbaebae/sprt/internal/services"
	"github.com/robinbaebae/sprt/internal/storage"
)

var (
	generateDate    string
	generateLogType string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a devlog from the command line",
	Long: `# ✍️  sprt generate

Generates a daily or weekly devlog without the UI. Returns the stored log
when one already exists for the date.

## Examples

` + "```bash\nsprt generate                 # today's daily log\nsprt generate --date 2026-08-17 --type weekly\n```",
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateDate, "date", "d", "", "Date (YYYY-MM-DD), defaults to today")
	generateCmd.Flags().StringVarP(&generateLogType, "type", "t", models.LogTypeDaily, "Log type: daily or weekly")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	logger.Configure(logger.GetLogLevelFromEnv(false), false)

	date := generateDate
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}

	runtime := config.Runtime
	sc := scanner.NewScanner(runtime.ProjectsDir)
	harvester := git.NewHarvester(runtime.ProjectsDir, executor.NewGitExecutor())
	store := storage.NewStore(runtime.SprtDir)
	anthropic := services.NewAnthropicService(runtime.CredentialsPath())
	devlogs := services.NewDevLogService(store, harvester, sc, anthropic)

	devlog, err := devlogs.Generate(date, generateLogType)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(devlog, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
