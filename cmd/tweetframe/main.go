package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/melaniewalsh/tweetframe/internal/config"
	"github.com/melaniewalsh/tweetframe/internal/loader"
	"github.com/melaniewalsh/tweetframe/internal/schema"
	"github.com/melaniewalsh/tweetframe/internal/storage"
	"github.com/melaniewalsh/tweetframe/internal/transform"
)

func main() {
	var (
		inputFile  string
		outputFile string
		command    string
		configPath string
		withHTML   bool
		keepers    bool
		verbose    bool
	)

	flag.StringVar(&inputFile, "input", "", "Input file path or URL")
	flag.StringVar(&outputFile, "output", "", "Output file path")
	flag.StringVar(&command, "cmd", "format", "Command to execute (format, convert, info)")
	flag.StringVar(&configPath, "config", "", "Path to YAML config file")
	flag.BoolVar(&withHTML, "html", false, "Render media URLs as clickable image markup")
	flag.BoolVar(&keepers, "keepers", false, "Keep only the reduced analysis column set")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	data, err := newData(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	switch command {
	case "format":
		err = formatCSV(data, inputFile, outputFile, withHTML, keepers)
	case "convert":
		err = convertToColumnar(data, inputFile, outputFile)
	case "info":
		err = showInfo(inputFile)
	default:
		err = fmt.Errorf("unknown command: %s", command)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newData(configPath string) (*loader.Data, error) {
	if configPath == "" {
		return loader.New(loader.Options{}), nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return loader.New(loader.Options{
		ResampledDir:    cfg.ResampledDir,
		FullDatasetPath: cfg.FullDatasetPath,
		Region:          cfg.Region,
		Credentials: loader.Credentials{
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		},
	}), nil
}

// formatCSV loads a tweet CSV, applies the format pass and writes the
// result back out as CSV.
func formatCSV(data *loader.Data, input, output string, withHTML, keepers bool) error {
	if input == "" || output == "" {
		return fmt.Errorf("input and output files are required")
	}

	timeCols := schema.NewTimeColumns()
	frame, err := data.ReadTweetCSV(input, timeCols)
	if err != nil {
		return err
	}

	formatted, err := transform.Format(frame, transform.Options{IncludeHTML: withHTML})
	if err != nil {
		return err
	}
	result, err := formatted.Collect()
	if err != nil {
		return err
	}
	if err := timeCols.AddDate(result); err != nil {
		return err
	}
	if keepers {
		result = transform.Keep(result)
	}

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	if err := storage.WriteCSV(out, result); err != nil {
		return err
	}
	slog.Info("formatted tweet CSV", "input", input, "output", output, "rows", result.NumRows())
	return nil
}

// convertToColumnar loads a tweet CSV and writes it as a single
// columnar partition file.
func convertToColumnar(data *loader.Data, input, output string) error {
	if input == "" || output == "" {
		return fmt.Errorf("input and output files are required")
	}
	if !strings.HasSuffix(output, loader.ColumnarExtension) {
		output += loader.ColumnarExtension
	}

	frame, err := data.ReadTweetCSV(input, schema.NewTimeColumns())
	if err != nil {
		return err
	}

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	if err := storage.WriteFrame(out, frame); err != nil {
		return err
	}
	slog.Info("converted tweet CSV", "input", input, "output", output, "rows", frame.NumRows())
	return nil
}

// showInfo prints the schema and row range of a columnar file.
func showInfo(input string) error {
	if input == "" {
		return fmt.Errorf("input file is required")
	}
	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	r, err := storage.NewReader(f)
	if err != nil {
		return err
	}

	fmt.Printf("File: %s\n", input)
	fmt.Printf("Rows: %d\n", r.RowCount())
	if minT, maxT, ok := r.TimeRange(); ok {
		fmt.Printf("Range: %s to %s\n", minT.Format(schema.TimestampLayout), maxT.Format(schema.TimestampLayout))
	}
	sch := r.Schema()
	fmt.Printf("Columns: %d\n\n", len(sch.Columns))
	for _, col := range sch.Columns {
		fmt.Printf("- %s (%s, nullable: %v)\n", col.Name, col.Type, col.Nullable)
	}
	return nil
}
