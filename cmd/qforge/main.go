// Command qforge runs the document-to-question pipeline offline.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"quiz-forge/internal/bootstrap"
	"quiz-forge/internal/config"
	"quiz-forge/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli carries state shared by every subcommand
type cli struct {
	cfg      *config.Config
	pipeline *bootstrap.Pipeline
	out      io.Writer
	outPath  string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{out: os.Stdout}
	root := newRootCmd(c)
	err := root.ExecuteContext(ctx)
	c.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "qforge:", err)
		os.Exit(1)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "qforge",
		Short:         "Turn PDF and DOCX material into exam questions and question papers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&c.outPath, "out", "o", "", "write output to this file instead of stdout")

	root.AddCommand(
		newIngestCmd(c),
		newGenerateCmd(c),
		newExportCmd(c),
		newTokenCmd(c),
	)
	return root
}

// load reads configuration and, when withPipeline is set, builds the offline pipeline
func (c *cli) load(ctx context.Context, withPipeline bool) error {
	if c.cfg == nil {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := logger.Initialize(cfg.Logger); err != nil {
			return err
		}
		c.cfg = cfg
	}
	if withPipeline && c.pipeline == nil {
		p, err := bootstrap.NewPipeline(ctx, c.cfg, logger.Get(), bootstrap.Options{})
		if err != nil {
			return err
		}
		c.pipeline = p
	}
	return nil
}

func (c *cli) close() {
	if c.pipeline != nil {
		if err := c.pipeline.Close(); err != nil {
			logger.Get().Warn("Failed to close pipeline", zap.Error(err))
		}
	}
	_ = logger.Sync()
}

// writeOutput sends b to --out or the command's writer
func (c *cli) writeOutput(b []byte) error {
	if c.outPath == "" {
		_, err := c.out.Write(b)
		return err
	}
	return os.WriteFile(c.outPath, b, 0o644)
}

func (c *cli) writeJSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return c.writeOutput(append(b, '\n'))
}
