package cmd

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/duke-go/internal/config"
	"github.com/nibzard/duke-go/internal/export"
)

// exportCommand writes the task collection as JSON or YAML.
func exportCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("duke export", flag.ContinueOnError)
	formatName := fs.String("format", string(export.FormatJSON), "Export format (json|yaml)")
	out := fs.String("out", "", "Write to a file instead of stdout")
	validate := fs.Bool("validate", false, "Check the export against the schema before writing")
	schema := fs.Bool("schema", false, "Print the export JSON Schema and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := dataFileArg(cfg, fs.Args()); err != nil {
		return err
	}

	if *schema {
		_, err := os.Stdout.Write(export.Schema())
		return err
	}

	format, err := export.ParseFormat(*formatName)
	if err != nil {
		return err
	}

	engine, _, err := openEngine(cfg, logger)
	if err != nil {
		return err
	}
	doc := export.NewDocument(engine.Tasks(), cfg.DataFile, time.Now())

	if *validate {
		if err := export.Validate(doc); err != nil {
			return fmt.Errorf("export failed validation: %w", err)
		}
	}

	if *out == "" {
		return export.Write(os.Stdout, doc, format)
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := export.Write(f, doc, format); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	logger.Info("exported tasks", "count", doc.Count, "format", format, "path", *out)
	return nil
}
