// Package main provides the CLI entrypoint for typemaster.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typemaster/internal/account"
	"github.com/verte-zerg/typemaster/internal/config"
	"github.com/verte-zerg/typemaster/internal/logging"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/passage"
	"github.com/verte-zerg/typemaster/internal/session"
	"github.com/verte-zerg/typemaster/internal/store"
	"github.com/verte-zerg/typemaster/internal/textsource"
	"github.com/verte-zerg/typemaster/internal/tui"
)

const (
	defaultMode      = "quote"
	defaultDuration  = 60
	defaultWords     = 0
	defaultBoardSize = 50
	defaultAddr      = ":8080"
	defaultTimeoutMs = 8000
)

var (
	practiceMode     string
	practiceDuration int
	practiceAI       bool
	practiceCorpus   string
	practiceWordList string
	practiceWords    int

	storageBackend string
	verbose        bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typemaster",
		Short:         "TUI typing speed trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceMode, "mode", defaultMode, "test mode: quote or timed")
	rootCmd.Flags().IntVar(&practiceDuration, "duration", defaultDuration, "timed test length in seconds (60, 120 or 300)")
	rootCmd.Flags().BoolVar(&practiceAI, "ai", false, "use generated passages when a provider key is configured")
	rootCmd.Flags().StringVar(&practiceCorpus, "corpus", "", "passage file (.yaml or one passage per line)")
	rootCmd.Flags().StringVar(&practiceWordList, "wordlist", "", "word list file (one word per line)")
	rootCmd.Flags().IntVar(&practiceWords, "words", defaultWords, "words per passage when using a word list")

	rootCmd.PersistentFlags().StringVar(&storageBackend, "storage", "", "storage backend: sqlite, redis, postgres or memory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newMilestonesCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	env, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	fileCfg := env.fileCfg
	applyStringConfig(cmd, "mode", &practiceMode, fileCfg.Practice.Mode)
	applyIntConfig(cmd, "duration", &practiceDuration, fileCfg.Practice.Duration)
	applyBoolConfig(cmd, "ai", &practiceAI, fileCfg.Practice.AI)
	applyStringConfig(cmd, "corpus", &practiceCorpus, fileCfg.Practice.Corpus)
	applyStringConfig(cmd, "wordlist", &practiceWordList, fileCfg.Practice.WordList)
	applyIntConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)

	mode, err := parseMode(practiceMode, practiceDuration)
	if err != nil {
		return err
	}
	cfg := model.Config{
		Mode:     mode,
		UseAI:    practiceAI,
		Words:    practiceWords,
		Corpus:   practiceCorpus,
		WordList: practiceWordList,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	static, err := staticSource(cfg)
	if err != nil {
		return err
	}
	var aiBuilder session.Builder
	if key := config.StringOr(fileCfg.Provider.APIKey, ""); key != "" {
		gen := textsource.NewGenerative(textsource.GenerativeConfig{
			Endpoint: config.StringOr(fileCfg.Provider.Endpoint, ""),
			Model:    config.StringOr(fileCfg.Provider.Model, ""),
			APIKey:   key,
			Prompt:   config.StringOr(fileCfg.Provider.Prompt, ""),
			Timeout:  time.Duration(config.IntOr(fileCfg.Provider.TimeoutMs, defaultTimeoutMs)) * time.Millisecond,
		})
		aiBuilder = passage.NewBuilder(textsource.Fallback{Primary: gen, Secondary: static})
	} else if cfg.UseAI {
		logErrln("no provider api key configured; using built-in passages")
	}

	engine := session.New(session.Options{
		Mode:  cfg.Mode,
		UseAI: cfg.UseAI,
		Quote: passage.NewBuilder(static),
		AI:    aiBuilder,
	})

	user, err := env.accounts.Current(cmd.Context())
	if err != nil {
		logging.Error("failed to load current user", err)
		logErrf("playing as guest: %v\n", err)
		user = nil
	}
	logging.System("practice started", "mode", cfg.Mode.String(), "ai", cfg.UseAI, "guest", user == nil)

	m := tui.NewModel(tui.Options{
		Engine: engine,
		Saver:  env.accounts,
		User:   user,
		Ctx:    cmd.Context(),
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// staticSource returns the corpus or word-list source selected by cfg.
func staticSource(cfg model.Config) (textsource.Source, error) {
	if cfg.WordList != "" {
		words, err := textsource.LoadWords(cfg.WordList)
		if err != nil {
			return nil, fmt.Errorf("failed to load word list: %w", err)
		}
		count := cfg.Words
		if count <= 0 {
			count = 25
		}
		return textsource.NewWords(words, textsource.WordsOptions{Count: count}), nil
	}
	var passages []textsource.Passage
	if cfg.Corpus != "" {
		loaded, err := textsource.LoadCorpusFile(cfg.Corpus)
		if err != nil {
			return nil, fmt.Errorf("failed to load corpus: %w", err)
		}
		passages = loaded
	}
	return textsource.NewCorpus(passages), nil
}

func parseMode(kind string, duration int) (model.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "quote", "text":
		return model.QuoteMode(), nil
	case "timed", "time":
		for _, d := range model.TimedDurations {
			if d == duration {
				return model.TimedMode(duration), nil
			}
		}
		return model.Mode{}, fmt.Errorf("--duration must be one of 60, 120 or 300")
	default:
		return model.Mode{}, fmt.Errorf("--mode must be quote or timed")
	}
}

func validateConfig(cfg model.Config) error {
	if cfg.Words < 0 {
		return fmt.Errorf("--words must be >= 0")
	}
	if cfg.Corpus != "" && cfg.WordList != "" {
		return fmt.Errorf("--corpus and --wordlist are mutually exclusive")
	}
	return nil
}

// cliEnv holds what every subcommand needs: config, logging and storage.
type cliEnv struct {
	fileCfg  config.FileConfig
	repo     *store.Repository
	accounts *account.Service
	logs     io.Closer
}

func openEnv(cmd *cobra.Command) (*cliEnv, error) {
	logs, err := logging.Setup(config.DefaultLogPath(), verbose)
	if err != nil {
		logErrf("logging disabled: %v\n", err)
		logging.Discard()
		logs = nil
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		closeLogs(logs)
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	config.ApplyEnv(&fileCfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	gw, err := store.Open(ctx, storageConfig(cmd, fileCfg))
	if err != nil {
		closeLogs(logs)
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	repo := store.NewRepository(gw)
	accounts := account.NewService(repo, account.Options{
		BoardSize: config.IntOr(fileCfg.Leaderboard.Size, defaultBoardSize),
	})
	return &cliEnv{fileCfg: fileCfg, repo: repo, accounts: accounts, logs: logs}, nil
}

func (e *cliEnv) close() {
	if cerr := e.repo.Close(); cerr != nil {
		logErrf("failed to close storage: %v\n", cerr)
	}
	closeLogs(e.logs)
}

func closeLogs(c io.Closer) {
	if c == nil {
		return
	}
	if cerr := c.Close(); cerr != nil {
		_ = cerr
	}
}

func storageConfig(cmd *cobra.Command, fileCfg config.FileConfig) store.Config {
	backend := config.StringOr(fileCfg.Storage.Backend, store.BackendSQLite)
	if cmd.Flags().Changed("storage") {
		backend = storageBackend
	}
	return store.Config{
		Backend:       backend,
		Path:          config.StringOr(fileCfg.Storage.Path, config.DefaultDBPath()),
		RedisAddr:     config.StringOr(fileCfg.Storage.RedisAddr, ""),
		RedisPassword: config.StringOr(fileCfg.Storage.RedisPassword, ""),
		RedisDB:       config.IntOr(fileCfg.Storage.RedisDB, 0),
		PostgresDSN:   config.StringOr(fileCfg.Storage.PostgresDSN, ""),
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
