package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mind-engage/examprep/internal/evaluation"
	"github.com/mind-engage/examprep/internal/logger"
	"github.com/mind-engage/examprep/internal/marking"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Send an essay to the marking service and print the breakdown.",
	Long: `Evaluate an essay against a question type.

Examples:
  markctl evaluate --type igcse_narrative --file story.txt
  markctl evaluate --type igcse_directed --file letter.txt --text-type letter --insert insert.txt
  cat essay.txt | markctl evaluate --type gp_essay --file -`,
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().String("type", "", "Question type id")
	evaluateCmd.Flags().String("file", "", "Essay file, or - for stdin")
	evaluateCmd.Flags().String("command-word", "", "Command word (e.g. evaluate, compare)")
	evaluateCmd.Flags().String("text-type", "", "Text type (e.g. letter, speech)")
	evaluateCmd.Flags().String("insert", "", "File holding the insert/source document")
	_ = evaluateCmd.MarkFlagRequired("type")
	_ = evaluateCmd.MarkFlagRequired("file")
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	f := cmd.Flags()
	qtype, _ := f.GetString("type")
	file, _ := f.GetString("file")
	insertFile, _ := f.GetString("insert")

	essay, err := readInput(cmd.InOrStdin(), file)
	if err != nil {
		return fmt.Errorf("read essay: %w", err)
	}
	var insert *string
	if insertFile != "" {
		doc, err := readInput(cmd.InOrStdin(), insertFile)
		if err != nil {
			return fmt.Errorf("read insert: %w", err)
		}
		insert = &doc
	}

	client := marking.New(marking.Config{
		BaseURL: viper.GetString("marking-url"),
		APIKey:  viper.GetString("api-key"),
		Timeout: viper.GetDuration("timeout"),
	})
	lg := logger.Discard()
	if !client.Authenticated() {
		lg = logger.NewStdLogger(nil)
		lg.Warn("no API key configured; sending unauthenticated request")
	}
	svc := evaluation.New(reg, client, evaluation.WithLogger(lg))

	res, err := svc.Evaluate(cmd.Context(), evaluation.Input{
		QuestionType:   qtype,
		Essay:          essay,
		CommandWord:    changedString(cmd, "command-word"),
		TextType:       changedString(cmd, "text-type"),
		InsertDocument: insert,
	})
	if err != nil {
		var remote *marking.RemoteEvaluationError
		if errors.As(err, &remote) {
			return fmt.Errorf("marking service rejected the request (HTTP %d): %s", remote.StatusCode, remote.Body)
		}
		return err
	}
	return printResult(cmd.OutOrStdout(), res)
}

// changedString is nil unless the flag was given, so "--text-type ''" still
// reaches the marking service as an empty string.
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func readInput(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func printResult(w io.Writer, res evaluation.Result) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Criterion", "Band", "Score", "Max", "Weight"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, s := range res.Scores {
		data = append(data, []string{
			s.CriterionTitle,
			s.Band,
			formatMark(s.Score),
			formatMark(s.MaxScore),
			fmt.Sprintf("%.2f", s.Weight),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	lines := []string{
		fmt.Sprintf("%s %s / %s (%.1f%%), weighted %.2f", bold("Total:"),
			formatMark(res.Total), formatMark(res.TotalMax), res.Percentage(), res.WeightedScore),
	}
	if res.Grade != "" {
		lines = append(lines, bold("Grade:")+" "+res.Grade)
	}
	lines = append(lines, "", res.Summary)
	lines = appendList(lines, color.New(color.FgGreen).Sprint("Strengths"), res.Strengths)
	lines = appendList(lines, color.New(color.FgYellow).Sprint("Improvements"), res.ImprovementSuggestions)
	lines = appendList(lines, color.New(color.FgCyan).Sprint("Next steps"), res.NextSteps)
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

func appendList(lines []string, title string, items []string) []string {
	if len(items) == 0 {
		return lines
	}
	lines = append(lines, "", title+":")
	for _, it := range items {
		lines = append(lines, "  - "+it)
	}
	return lines
}
