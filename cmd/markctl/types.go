package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/mind-engage/examprep/internal/questions"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the configured question types and their marks.",
	Long: `List every question type with its total and component split.

Configuration problems (a zero total, or components that do not add up to
the total) are printed after the table and make the command fail.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		if err := printTypes(cmd.OutOrStdout(), reg); err != nil {
			return err
		}
		if n := len(reg.Inconsistencies()); n > 0 {
			return fmt.Errorf("%d question type(s) misconfigured", n)
		}
		return nil
	},
}

func printTypes(w io.Writer, reg *questions.Registry) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Category", "Name", "Total", "Components", "Scheme"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	red := color.New(color.FgRed).SprintFunc()
	var data [][]string
	for _, qt := range reg.List() {
		totals, _ := reg.Totals(qt.ID)
		parts := make([]string, 0, len(totals.Components))
		for _, c := range totals.Components {
			parts = append(parts, c.Name+"="+formatMark(c.MaxPoints))
		}
		total := formatMark(totals.Total)
		if totals.Total == 0 || totals.ComponentSum() != totals.Total {
			total = red(total)
		}
		scheme := ""
		if qt.RequiresMarkingScheme {
			scheme = "yes"
		}
		data = append(data, []string{qt.ID, qt.Category, qt.Name, total, strings.Join(parts, " "), scheme})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	yellow := color.New(color.FgYellow).SprintFunc()
	for _, msg := range reg.Inconsistencies() {
		if _, err := fmt.Fprintln(w, yellow("warning: "+msg)); err != nil {
			return err
		}
	}
	return nil
}

func formatMark(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
