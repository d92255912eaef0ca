package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"quiz-forge/internal/domain"
	"quiz-forge/internal/dto"

	"github.com/spf13/cobra"
)

func newExportCmd(c *cli) *cobra.Command {
	var req dto.ExportRequest
	cmd := &cobra.Command{
		Use:   "export QUESTIONS_JSON",
		Short: "Render questions from 'qforge generate' as a PDF or DOCX paper",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			questions, err := readQuestions(args[0])
			if err != nil {
				return err
			}
			if err := c.load(cmd.Context(), true); err != nil {
				return err
			}
			req.Questions = questions
			result, err := c.pipeline.Export.Export(cmd.Context(), &req)
			if err != nil {
				return err
			}
			if c.outPath == "" {
				c.outPath = result.Filename
			}
			if err := c.writeOutput(result.Content); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", c.outPath, len(result.Content))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&req.Format, "format", "f", "pdf", "pdf or docx")
	f.BoolVar(&req.IncludeAnswerKey, "answer-key", false, "append the answer key section")
	f.StringVar(&req.PaperTitle, "title", "", "paper title")
	f.StringVar(&req.Instructions, "instructions", "", "instructions printed under the title")
	f.IntVar(&req.DurationMinutes, "duration", 0, "duration in minutes")
	return cmd
}

// readQuestions accepts a generate response object or a bare question array
func readQuestions(path string) ([]*domain.Question, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var questions []*domain.Question
		if err := json.Unmarshal(trimmed, &questions); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return questions, nil
	}
	var resp dto.GenerateResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return resp.Questions, nil
}
