package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"quiz-forge/internal/domain"
	"quiz-forge/internal/logger"
	"quiz-forge/internal/util"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newIngestCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest FILE...",
		Short: "Extract, clean and chunk documents; prints the upload result as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd.Context(), true); err != nil {
				return err
			}
			docs, err := readDocuments(args)
			if err != nil {
				return err
			}
			resp, err := c.pipeline.Ingest.ProcessFiles(cmd.Context(), docs)
			if err != nil {
				if resp == nil || !errors.Is(err, context.Canceled) {
					return err
				}
				logger.Get().Warn("Interrupted, writing completed files only", zap.Int("completed", len(resp)))
			}
			return c.writeJSON(resp)
		},
	}
}

func readDocuments(paths []string) ([]*domain.Document, error) {
	docs := make([]*domain.Document, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		docs = append(docs, &domain.Document{
			ID:       util.NewULID(),
			Filename: filepath.Base(path),
			Content:  content,
		})
	}
	return docs, nil
}
