// Package main provides the odsgrid command line tool: inspect,
// extract, and convert OpenDocument Spreadsheet files.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/gridfold/ods"
	"github.com/gridfold/ods/numfmt"
	"github.com/gridfold/ods/ref"
	"github.com/gridfold/ods/sheet"
)

var (
	verbose   bool
	sheetName string
	catFormat string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "odsgrid",
		Short: "Inspect and convert OpenDocument Spreadsheet files",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
			log.SetFormatter(&log.TextFormatter{
				FullTimestamp: true,
			})
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	infoCmd := &cobra.Command{
		Use:   "info FILE",
		Short: "List sheets with their extents and header ranges",
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo,
	}

	catCmd := &cobra.Command{
		Use:   "cat FILE",
		Short: "Print sheet content as TSV or Markdown",
		Args:  cobra.ExactArgs(1),
		RunE:  runCat,
	}
	catCmd.Flags().StringVar(&sheetName, "sheet", "", "Sheet to print (default: first)")
	catCmd.Flags().StringVar(&catFormat, "format", "tsv", "Output format: tsv, markdown")

	convertCmd := &cobra.Command{
		Use:   "convert FILE OUT.xlsx",
		Short: "Convert a workbook to XLSX",
		Args:  cobra.ExactArgs(2),
		RunE:  runConvert,
	}

	rootCmd.AddCommand(infoCmd, catCmd, convertCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openWorkbook(path string) (*ods.Workbook, error) {
	start := time.Now()
	wb, err := ods.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	log.WithFields(log.Fields{
		"file":     path,
		"sheets":   len(wb.Sheets),
		"duration": time.Since(start),
	}).Debug("workbook loaded")
	return wb, nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	wb, err := openWorkbook(args[0])
	if err != nil {
		return err
	}

	for _, s := range wb.Sheets {
		rows, cols := s.UsedExtent()
		fmt.Printf("%s\t%s\t%d cells", s.Name, extentRange(rows, cols), s.Grid().Len())
		if hr := s.HeaderRows; hr != nil {
			fmt.Printf("\theader rows %d-%d", hr.From+1, hr.To+1)
		}
		if hc := s.HeaderColumns; hc != nil {
			fmt.Printf("\theader columns %s-%s", ref.ColumnName(hc.From), ref.ColumnName(hc.To))
		}
		fmt.Println()
	}
	return nil
}

// extentRange renders a used extent as an A1-style range.
func extentRange(rows, cols int) string {
	if rows == 0 || cols == 0 {
		return "empty"
	}
	return fmt.Sprintf("A1:%s%d", ref.ColumnName(cols-1), rows)
}

func runCat(cmd *cobra.Command, args []string) error {
	wb, err := openWorkbook(args[0])
	if err != nil {
		return err
	}
	s, err := pickSheet(wb)
	if err != nil {
		return err
	}

	renderer := numfmt.NewRenderer(wb.Styles.RendererOptions()...)
	grid := gridText(s, renderer)

	switch catFormat {
	case "tsv":
		for _, row := range grid {
			fmt.Println(strings.Join(row, "\t"))
		}
	case "markdown":
		printMarkdown(s, grid)
	default:
		return fmt.Errorf("invalid format: %s (must be tsv or markdown)", catFormat)
	}
	return nil
}

func pickSheet(wb *ods.Workbook) (*sheet.Sheet, error) {
	if sheetName == "" {
		if len(wb.Sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		return wb.Sheets[0], nil
	}
	s, ok := wb.Sheet(sheetName)
	if !ok {
		return nil, fmt.Errorf("no sheet named %q (have: %s)", sheetName, strings.Join(wb.SheetNames(), ", "))
	}
	return s, nil
}

// gridText renders the sheet into a dense text matrix. Merged regions
// collapse to their origin cell; covered positions come out empty.
func gridText(s *sheet.Sheet, renderer *numfmt.Renderer) [][]string {
	rows, cols := s.UsedExtent()
	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, cols)
	}
	s.Grid().Walk(func(pos sheet.Position, c *sheet.Cell) bool {
		grid[pos.Row][pos.Col] = renderer.Render(c.Value, c.Style)
		return true
	})
	return grid
}

func printMarkdown(s *sheet.Sheet, grid [][]string) {
	if len(grid) == 0 {
		return
	}
	headerRows := 1
	if hr := s.HeaderRows; hr != nil && hr.From == 0 {
		headerRows = hr.To + 1
	}
	if headerRows > len(grid) {
		headerRows = len(grid)
	}

	cols := len(grid[0])
	for r, row := range grid {
		fmt.Println("| " + strings.Join(escapeMarkdown(row), " | ") + " |")
		if r == headerRows-1 {
			sep := make([]string, cols)
			for i := range sep {
				sep[i] = "---"
			}
			fmt.Println("| " + strings.Join(sep, " | ") + " |")
		}
	}
}

func escapeMarkdown(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		cell = strings.ReplaceAll(cell, "|", "\\|")
		out[i] = strings.ReplaceAll(cell, "\n", " ")
	}
	return out
}

func runConvert(cmd *cobra.Command, args []string) error {
	wb, err := openWorkbook(args[0])
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range wb.Sheets {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}
		if i == 0 {
			// Rename the default sheet instead of leaving it dangling.
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("naming sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("adding sheet %q: %w", name, err)
		}
		if err := convertSheet(f, name, s); err != nil {
			return fmt.Errorf("converting sheet %q: %w", name, err)
		}
	}

	if err := f.SaveAs(args[1]); err != nil {
		return fmt.Errorf("saving %s: %w", args[1], err)
	}
	log.WithField("file", args[1]).Debug("workbook converted")
	return nil
}

func convertSheet(f *excelize.File, name string, s *sheet.Sheet) error {
	var outerErr error
	s.Grid().Walk(func(pos sheet.Position, c *sheet.Cell) bool {
		cellName, err := excelize.CoordinatesToCellName(pos.Col+1, pos.Row+1)
		if err != nil {
			outerErr = err
			return false
		}
		if err := f.SetCellValue(name, cellName, excelValue(c.Value)); err != nil {
			outerErr = err
			return false
		}
		if c.Formula != "" {
			if err := f.SetCellFormula(name, cellName, excelFormula(c.Formula)); err != nil {
				outerErr = err
				return false
			}
		}
		if c.IsMerged() {
			endName, err := excelize.CoordinatesToCellName(pos.Col+c.ColSpan, pos.Row+c.RowSpan)
			if err != nil {
				outerErr = err
				return false
			}
			if err := f.MergeCell(name, cellName, endName); err != nil {
				outerErr = err
				return false
			}
		}
		return true
	})
	return outerErr
}

// excelFormula strips the opendocument formula wrapping: the of:
// namespace prefix, the leading =, and the [.A1] bracket addressing.
func excelFormula(formula string) string {
	formula = strings.TrimPrefix(formula, "of:")
	formula = strings.TrimPrefix(formula, "=")
	formula = strings.ReplaceAll(formula, "[.", "")
	formula = strings.ReplaceAll(formula, ":.", ":")
	return strings.ReplaceAll(formula, "]", "")
}

// excelValue maps a typed value to what excelize stores.
func excelValue(v sheet.Value) interface{} {
	switch v.Kind() {
	case sheet.KindFloat, sheet.KindPercentage, sheet.KindCurrency:
		return v.Float()
	case sheet.KindBool:
		return v.Bool()
	case sheet.KindDateTime:
		return v.Time()
	case sheet.KindDuration:
		return v.Duration()
	default:
		return v.Text()
	}
}
