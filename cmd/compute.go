package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/hydroqa/hmpi/internal/connectors"
	"github.com/hydroqa/hmpi/internal/indices"
	"github.com/hydroqa/hmpi/internal/limits"
	"github.com/hydroqa/hmpi/internal/table"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	computeScheme    string
	computeOutput    string
	computeRecursive bool
	computeWorkers   int
	computeWatch     bool
)

type computeResult struct {
	Path       string
	Size       int64
	OutPath    string
	Rows       int
	HMPICounts map[string]int
	MCICounts  map[string]int
	Coerced    []string
	NonNumeric []string
	Duration   time.Duration
	Err        error
}

var computeCmd = &cobra.Command{
	Use:   "compute [file or directory]",
	Short: "Compute pollution indices for sample CSVs",
	Long: `Compute HMPI, MCI, and per-metal PI columns for each sample row
and classify the results. The augmented table is written next to the
input (or to --output for a single file).

Examples:
  hmpi compute samples.csv                         # Single file
  hmpi compute samples.csv --scheme equal          # Uniform weighting
  hmpi compute samples.csv --watch                 # Recompute on limits edits
  hmpi compute /data/sites/ --recursive            # Directory of sample files`,

	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			log.Fatalf("Please specify a sample CSV file or directory")
		}
		targetPath := args[0]

		scheme, err := indices.ParseWeightScheme(schemeOrDefault())
		if err != nil {
			log.Fatalf("%v", err)
		}

		lims, err := limits.Load(limitsPath())
		if err != nil {
			log.Fatalf("Failed to load limits: %v", err)
		}
		if invalid := lims.Invalid(); len(invalid) > 0 {
			log.Printf("Warning: non-positive standards for %s — excluded from aggregation",
				strings.Join(invalid, ", "))
		}

		fileInfo, err := os.Stat(targetPath)
		if err != nil {
			log.Fatalf("Error accessing %s: %v", targetPath, err)
		}

		if fileInfo.IsDir() {
			if computeWatch {
				log.Fatalf("--watch requires a single sample file")
			}
			computeDirectory(targetPath, lims, scheme)
			return
		}

		computeSingleFile(targetPath, lims, scheme)
	},
}

func init() {
	rootCmd.AddCommand(computeCmd)

	computeCmd.Flags().StringVar(&computeScheme, "scheme", "",
		`HMPI weighting scheme: "1/Si" or "equal" (default from config)`)
	computeCmd.Flags().StringVarP(&computeOutput, "output", "o", "",
		"output file for a single-file run (default: input name + output suffix)")
	computeCmd.Flags().BoolVarP(&computeRecursive, "recursive", "r", false,
		"process directories recursively")
	computeCmd.Flags().IntVar(&computeWorkers, "workers", 0,
		"parallel workers for directory runs (default: auto-detect CPU cores)")
	computeCmd.Flags().BoolVar(&computeWatch, "watch", false,
		"keep running and recompute when the limits file changes")
}

func schemeOrDefault() string {
	if computeScheme != "" {
		return computeScheme
	}
	return cfg.WeightScheme
}

func computeSingleFile(filePath string, lims *limits.Limits, scheme indices.WeightScheme) {
	startTime := time.Now()
	result := computeFile(filePath, lims, scheme)
	printSummary([]computeResult{result}, scheme, time.Since(startTime))
	if result.Err != nil {
		os.Exit(1)
	}

	if computeWatch {
		watchAndRecompute(filePath, scheme)
	}
}

// watchAndRecompute blocks until interrupted, recomputing the file against
// each new limits snapshot. The in-flight computation always uses the
// snapshot it started with; edits only take effect on the next run.
func watchAndRecompute(filePath string, scheme indices.WeightScheme) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Watching %s — press Ctrl-C to stop\n", limitsPath())
	err := limits.Watch(ctx, limitsPath(), func(snap *limits.Limits) {
		startTime := time.Now()
		result := computeFile(filePath, snap, scheme)
		printSummary([]computeResult{result}, scheme, time.Since(startTime))
	})
	if err != nil {
		log.Fatalf("Watch failed: %v", err)
	}
}

func computeDirectory(dirPath string, lims *limits.Limits, scheme indices.WeightScheme) {
	options := connectors.ScanOptions{
		Recursive:  computeRecursive,
		SkipSuffix: cfg.OutputSuffix,
	}

	files, err := connectors.DiscoverSamples(dirPath, options)
	if err != nil {
		log.Fatalf("Failed to discover sample files: %v", err)
	}
	fmt.Printf("Found %d sample CSV files\n", len(files))

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription("[cyan][reset] Computing indices..."),
		progressbar.OptionSetWidth(20),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)

	workers := computeWorkers
	if workers == 0 {
		workers = cfg.Workers
	}
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	startTime := time.Now()
	results := computeFilesParallel(files, lims, scheme, workers, bar)
	bar.Finish()

	printSummary(results, scheme, time.Since(startTime))
}

// computeFilesParallel fans the per-file work out over a bounded worker
// set. Parallelism is across files only; each file's rows are processed
// sequentially in input order.
func computeFilesParallel(files []connectors.SampleFile, lims *limits.Limits,
	scheme indices.WeightScheme, workers int, bar *progressbar.ProgressBar) []computeResult {

	semaphore := make(chan struct{}, workers)
	resultCh := make(chan computeResult, len(files))

	var wg sync.WaitGroup
	for _, file := range files {
		wg.Add(1)
		go func(f connectors.SampleFile) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			result := computeFile(f.Path, lims, scheme)
			bar.Add(1)
			resultCh <- result
		}(file)
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	byPath := make(map[string]computeResult, len(files))
	for result := range resultCh {
		byPath[result.Path] = result
	}

	// Report in discovery order regardless of completion order.
	ordered := make([]computeResult, 0, len(files))
	for _, f := range files {
		ordered = append(ordered, byPath[f.Path])
	}
	return ordered
}

func computeFile(filePath string, lims *limits.Limits, scheme indices.WeightScheme) computeResult {
	startTime := time.Now()
	result := computeResult{
		Path:       filePath,
		HMPICounts: make(map[string]int),
		MCICounts:  make(map[string]int),
	}
	if info, err := os.Stat(filePath); err == nil {
		result.Size = info.Size()
	}

	t, err := table.ReadCSV(filePath)
	if err != nil {
		result.Err = err
		return result
	}

	engine := indices.NewEngine(lims, scheme)
	if err := engine.Augment(t); err != nil {
		result.Err = err
		return result
	}

	result.OutPath = outputPath(filePath)
	if err := t.WriteCSV(result.OutPath); err != nil {
		result.Err = err
		return result
	}

	result.Rows = t.Len()
	for _, row := range t.Rows {
		result.HMPICounts[row[indices.ColHMPICategory]]++
		result.MCICounts[row[indices.ColMCICategory]]++
	}
	result.Coerced = t.CoercedColumns()
	result.NonNumeric = t.NonNumericColumns()
	result.Duration = time.Since(startTime)
	return result
}

func outputPath(inputPath string) string {
	if computeOutput != "" {
		return computeOutput
	}
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + cfg.OutputSuffix + ".csv"
}

// category print order, worst first
var hmpiOrder = []string{
	indices.CategoryVeryHighPollution,
	indices.CategoryHighPollution,
	indices.CategoryLowPollution,
	indices.CategorySafe,
	indices.CategoryUnknown,
}

var mciOrder = []string{
	indices.CategorySeriouslyAffected,
	indices.CategoryModeratelyAffected,
	indices.CategoryAlert,
	indices.CategorySafe,
	indices.CategoryUnknown,
}

func printSummary(results []computeResult, scheme indices.WeightScheme, totalTime time.Duration) {
	var output strings.Builder

	output.WriteString("=== POLLUTION INDEX SUMMARY ===\n")
	output.WriteString(fmt.Sprintf("Run ID: %s\n", uuid.New()))
	output.WriteString(fmt.Sprintf("Weighting scheme: %s\n", scheme))
	output.WriteString(fmt.Sprintf("Files processed: %d\n", len(results)))
	output.WriteString(fmt.Sprintf("Total processing time: %v\n", totalTime.Round(time.Millisecond)))

	totalRows := 0
	hmpiTotals := make(map[string]int)
	mciTotals := make(map[string]int)
	for _, result := range results {
		if result.Err != nil {
			log.Printf("Failed to process %s: %v", result.Path, result.Err)
			continue
		}
		totalRows += result.Rows
		for cat, n := range result.HMPICounts {
			hmpiTotals[cat] += n
		}
		for cat, n := range result.MCICounts {
			mciTotals[cat] += n
		}
	}
	output.WriteString(fmt.Sprintf("Total samples: %d\n", totalRows))

	output.WriteString("\nHMPI categories:\n")
	for _, cat := range hmpiOrder {
		if n := hmpiTotals[cat]; n > 0 {
			output.WriteString(fmt.Sprintf("  %-22s %d\n", cat, n))
		}
	}
	output.WriteString("MCI categories:\n")
	for _, cat := range mciOrder {
		if n := mciTotals[cat]; n > 0 {
			output.WriteString(fmt.Sprintf("  %-22s %d\n", cat, n))
		}
	}
	output.WriteString("\n")

	output.WriteString("=== PER-FILE RESULTS ===\n")
	output.WriteString(fmt.Sprintf("%-35s %10s %8s %-35s %10s\n",
		"File", "Size", "Rows", "Output", "Time"))
	output.WriteString(strings.Repeat("-", 102) + "\n")
	for _, result := range results {
		if result.Err != nil {
			continue
		}
		output.WriteString(fmt.Sprintf("%-35s %10s %8d %-35s %10s\n",
			truncateName(filepath.Base(result.Path), 35),
			humanize.Bytes(uint64(result.Size)),
			result.Rows,
			truncateName(filepath.Base(result.OutPath), 35),
			result.Duration.Round(time.Millisecond)))
	}

	for _, result := range results {
		if result.Err != nil {
			continue
		}
		if len(result.Coerced) > 0 {
			output.WriteString(fmt.Sprintf("Note: %s: coerced text numerals in columns: %s\n",
				filepath.Base(result.Path), strings.Join(result.Coerced, ", ")))
		}
		if len(result.NonNumeric) > 0 {
			output.WriteString(fmt.Sprintf("Note: %s: non-numeric values in columns: %s\n",
				filepath.Base(result.Path), strings.Join(result.NonNumeric, ", ")))
		}
	}

	fmt.Print(output.String())
}

func truncateName(name string, max int) string {
	if len(name) <= max {
		return name
	}
	return name[:max-3] + "..."
}
