package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/upskill-roadmap/internal/config"
	"github.com/jonathan/upskill-roadmap/internal/document"
	"github.com/jonathan/upskill-roadmap/internal/pipeline"
	"github.com/jonathan/upskill-roadmap/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a job description locally and print the result as JSON",
	Long: `Run the analysis pipeline on a job description file, optionally with a PDF resume,
and print the analysis (and, with --roadmap, a generated roadmap) as JSON.`,
	RunE: runAnalyze,
}

var (
	analyzeJDFile     string
	analyzeResumeFile string
	analyzeRoadmap    bool
	analyzeOutFile    string
	analyzeVerbose    bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeJDFile, "jd", "", "Path to the job description text file (\"-\" reads stdin)")
	analyzeCmd.Flags().StringVar(&analyzeResumeFile, "resume", "", "Path to a PDF resume")
	analyzeCmd.Flags().BoolVar(&analyzeRoadmap, "roadmap", false, "Also generate a learning roadmap")
	analyzeCmd.Flags().StringVarP(&analyzeOutFile, "out", "o", "", "Write JSON to this file instead of stdout")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print pipeline progress to stderr")
	_ = analyzeCmd.MarkFlagRequired("jd")

	rootCmd.AddCommand(analyzeCmd)
}

// AnalyzeOutput is the JSON printed by the analyze command.
type AnalyzeOutput struct {
	Analysis *types.JdAnalysis `json:"analysis"`
	Roadmap  *types.Roadmap    `json:"roadmap,omitempty"`
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// stdout carries the JSON result, so logs go to stderr
	logger := zap.NewNop()
	if analyzeVerbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()
	}

	jdText, err := readJD(cmd.InOrStdin(), analyzeJDFile)
	if err != nil {
		return err
	}
	resume, err := readResume(analyzeResumeFile)
	if err != nil {
		return err
	}

	a, err := buildApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	orchestrator := a.orchestrator
	if analyzeVerbose {
		stderr := cmd.ErrOrStderr()
		orchestrator = orchestrator.WithProgress(func(e pipeline.ProgressEvent) {
			fmt.Fprintf(stderr, "[%s] %s\n", e.Step, e.Message)
		})
	}

	out, err := analyze(cmd, orchestrator, jdText, resume, analyzeRoadmap)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), analyzeOutFile, out)
}

func analyze(cmd *cobra.Command, o *pipeline.Orchestrator, jdText string, resume *document.Upload, withRoadmap bool) (*AnalyzeOutput, error) {
	// a local run has a single anonymous principal
	owner := uuid.New()

	analysis, err := o.Analyze(cmd.Context(), pipeline.AnalyzeRequest{JDText: jdText, Resume: resume, Owner: owner})
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	out := &AnalyzeOutput{Analysis: analysis}

	if withRoadmap {
		rm, err := o.GenerateRoadmap(cmd.Context(), analysis.JDID, owner)
		if err != nil {
			return nil, fmt.Errorf("roadmap generation failed: %w", err)
		}
		out.Roadmap = rm
	}
	return out, nil
}

func readJD(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read job description: %w", err)
	}
	return string(data), nil
}

// readResume loads the resume file; format checks happen in the pipeline.
func readResume(path string) (*document.Upload, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}
	return &document.Upload{Filename: filepath.Base(path), Data: data}, nil
}

func writeOutput(stdout io.Writer, path string, out *AnalyzeOutput) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
