package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hrpilot/resume-screener/internal/ai/gemini"
	"github.com/hrpilot/resume-screener/internal/logger"
	"github.com/hrpilot/resume-screener/internal/pipeline"
	"github.com/hrpilot/resume-screener/internal/screening"
	"github.com/hrpilot/resume-screener/internal/secrets"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptProceed        = "Proceed with this requirement"
	PromptAddMustHave    = "Add a must-have requirement"
	PromptAddNiceToHave  = "Add a nice-to-have requirement"
	PromptAddDealBreaker = "Add a deal breaker"
	PromptAbort          = "Abort"

	defaultOutputFile = "screening-report.md"
)

var errAborted = errors.New("aborted by user")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a screening: extract the requirement, score every resume, write the report",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("jd", "", "path to the job description file")
	runCmd.Flags().StringArrayP("resume", "r", nil, "resume file to screen (repeatable)")
	runCmd.Flags().String("resume-dir", "", "directory to scan for resume files (pdf, txt, md)")
	runCmd.Flags().IntP("concurrency", "c", 0, "max concurrent model calls (default 5)")
	runCmd.Flags().StringP("out", "o", "", "report output file (default "+defaultOutputFile+")")
	runCmd.Flags().BoolP("yes", "y", false, "accept the extracted requirement without confirmation")

	viper.BindPFlag("jd-file", runCmd.Flags().Lookup("jd"))
	viper.BindPFlag("resume-dir", runCmd.Flags().Lookup("resume-dir"))
	viper.BindPFlag("output-file", runCmd.Flags().Lookup("out"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-screener", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	jdText, err := readJD(config.JDFile)
	if err != nil {
		logger.Fatal("reading the job description",
			zap.Error(err),
			zap.String("hint", "pass --jd or set jd-file in the configuration file"),
		)
	}

	resumes, err := collectResumes(cmd, config)
	if err != nil {
		logger.Fatal("collecting resume files", zap.Error(err))
	}
	if len(resumes) == 0 {
		logger.Fatal("no resume files found",
			zap.String("hint", "pass --resume or --resume-dir"),
		)
	}
	logger.Info("collected resume files", zap.Int("count", len(resumes)))

	concurrency := config.Screening.MaxConcurrency
	if v, _ := cmd.Flags().GetInt("concurrency"); v > 0 {
		concurrency = v
	}

	p, err := buildPipeline(ctx, config, concurrency, logger)
	if err != nil {
		logger.Fatal("building the pipeline", zap.Error(err))
	}

	input := pipeline.Input{
		SessionID:   uuid.NewString(),
		JDText:      jdText,
		ResumePaths: resumes,
	}

	if autoApprove, _ := cmd.Flags().GetBool("yes"); !autoApprove {
		input.Confirm = confirmRequirement
	}

	result, err := p.Run(ctx, input)
	if err != nil {
		if errors.Is(err, errAborted) {
			logger.Info("exiting", zap.String("reason", "requirement rejected at confirmation"))
			return
		}
		logger.Fatal("screening failed", zap.Error(err))
	}

	for _, fileErr := range result.FailedFiles {
		logger.Warn("resume file was skipped", zap.String("path", fileErr.Path), zap.Error(fileErr.Err))
	}

	outFile := config.OutputFile
	if outFile == "" {
		outFile = defaultOutputFile
	}

	if err := os.WriteFile(outFile, []byte(result.Report.Markdown), 0o644); err != nil {
		logger.Fatal("writing the report", zap.Error(err))
	}

	logger.Info("screening finished",
		zap.Int("candidates", len(result.Evaluations)),
		zap.String("report", outFile),
		zap.Duration("took", result.FinishedAt.Sub(result.StartedAt)),
	)
}

func buildPipeline(ctx context.Context, config *Config, concurrency int, logger *zap.Logger) (*pipeline.Pipeline, error) {
	provider := strings.TrimSpace(strings.ToLower(config.AI.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", config.AI.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.AI.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", config.AI.Gemini.Model),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, config.AI.Gemini.Model, config.AI.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	structurer, err := screening.NewStructurer(generator, concurrency, logger)
	if err != nil {
		return nil, err
	}

	evaluator, err := screening.NewEvaluator(generator, concurrency, logger)
	if err != nil {
		return nil, err
	}

	return pipeline.New(
		screening.NewRequirementExtractor(generator, logger),
		screening.NewDimensionGenerator(generator, logger),
		structurer,
		evaluator,
		logger,
		pipeline.WithObserver(&logObserver{logger: logger}),
		pipeline.WithSessionStore(pipeline.NewMemoryStore()),
	), nil
}

// confirmRequirement is the interactive loop between requirement extraction
// and the rest of the run. The user can amend the requirement before any
// resume is touched.
func confirmRequirement(req screening.JobRequirement) (screening.JobRequirement, error) {
	for {
		printRequirement(req)

		prompt := promptui.Select{
			Label: "Confirm the hiring requirement",
			Items: []string{PromptProceed, PromptAddMustHave, PromptAddNiceToHave, PromptAddDealBreaker, PromptAbort},
		}

		_, action, err := prompt.Run()
		if err != nil {
			return req, err
		}

		switch action {
		case PromptProceed:
			return req, nil
		case PromptAbort:
			return req, errAborted
		case PromptAddMustHave:
			if item := askItem("Must-have requirement"); item != "" {
				req.MustHave = append(req.MustHave, item)
			}
		case PromptAddNiceToHave:
			if item := askItem("Nice-to-have requirement"); item != "" {
				req.NiceToHave = append(req.NiceToHave, item)
			}
		case PromptAddDealBreaker:
			if item := askItem("Deal breaker"); item != "" {
				req.DealBreaker = append(req.DealBreaker, item)
			}
		}
	}
}

func askItem(label string) string {
	prompt := promptui.Prompt{Label: label}
	value, err := prompt.Run()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}

func printRequirement(req screening.JobRequirement) {
	fmt.Printf("\nPosition: %s\n", req.Position)
	if req.MinYearsExperience > 0 {
		fmt.Printf("Minimum experience: %d years\n", req.MinYearsExperience)
	}
	printList("Must have", req.MustHave)
	printList("Nice to have", req.NiceToHave)
	printList("Deal breakers", req.DealBreaker)
	fmt.Println()
}

func printList(label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("%s:\n", label)
	for _, item := range items {
		fmt.Printf("  - %s\n", item)
	}
}

func readJD(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("job description file is not configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// collectResumes merges the repeatable --resume flag with a directory scan.
func collectResumes(cmd *cobra.Command, config *Config) ([]string, error) {
	paths, _ := cmd.Flags().GetStringArray("resume")

	dir := config.ResumeDir
	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(entry.Name())) {
			case ".pdf", ".txt", ".md":
				paths = append(paths, filepath.Join(dir, entry.Name()))
			}
		}
	}

	return paths, nil
}

// logObserver reports pipeline progress through the structured logger.
type logObserver struct {
	logger *zap.Logger
}

func (o *logObserver) OnProgress(event pipeline.Event) {
	fields := []zap.Field{
		zap.String("stage", string(event.Stage)),
		zap.Int("progress", event.Progress),
	}
	if event.TotalItems > 0 {
		fields = append(fields, zap.Int("completed", event.CompletedItems), zap.Int("total", event.TotalItems))
	}
	o.logger.Info(event.Message, fields...)
}
