package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"quiz-forge/internal/dto"

	"github.com/spf13/cobra"
)

func newGenerateCmd(c *cli) *cobra.Command {
	var (
		fromUpload string
		req        dto.GenerateRequest
	)
	cmd := &cobra.Command{
		Use:   "generate [TEXT_FILE...]",
		Short: "Generate scored questions from text files or an ingest result",
		RunE: func(cmd *cobra.Command, args []string) error {
			chunks, err := collectChunks(fromUpload, args)
			if err != nil {
				return err
			}
			if len(chunks) == 0 {
				return fmt.Errorf("no input: pass text files or --from-upload")
			}
			if err := c.load(cmd.Context(), true); err != nil {
				return err
			}
			if req.Config.Difficulty == 0 {
				req.Config.Difficulty = c.cfg.Generation.DefaultDifficulty
			}
			req.ContextChunks = chunks
			resp, err := c.pipeline.Generation.Generate(cmd.Context(), "", &req)
			if err != nil {
				return err
			}
			return c.writeJSON(resp)
		},
	}
	f := cmd.Flags()
	f.StringVar(&fromUpload, "from-upload", "", "JSON written by 'qforge ingest'; its chunks become the input")
	f.IntVar(&req.Config.NumMCQ, "mcq", 2, "multiple-choice questions per chunk")
	f.IntVar(&req.Config.NumTrueFalse, "tf", 1, "true/false questions per chunk")
	f.IntVar(&req.Config.NumShortAnswer, "short", 1, "short-answer questions per chunk")
	f.IntVar(&req.Config.NumLongAnswer, "long", 0, "long-answer questions per chunk")
	f.IntVar(&req.Config.NumHOTS, "hots", 0, "higher-order thinking questions per chunk")
	f.IntVar(&req.Config.Difficulty, "difficulty", 0, "target difficulty 1-5 (default from config)")
	f.StringVar(&req.Config.Subject, "subject", "", "subject hint for model-backed strategies")
	f.StringVar(&req.Config.GradeLevel, "grade", "", "grade level hint for model-backed strategies")
	return cmd
}

// collectChunks reads the chunks of every successful file in an ingest result,
// in filename order, followed by each text file as one chunk.
func collectChunks(uploadPath string, textFiles []string) ([]string, error) {
	var chunks []string
	if uploadPath != "" {
		b, err := os.ReadFile(uploadPath)
		if err != nil {
			return nil, err
		}
		var upload dto.UploadResponse
		if err := json.Unmarshal(b, &upload); err != nil {
			return nil, fmt.Errorf("parse %s: %w", uploadPath, err)
		}
		names := make([]string, 0, len(upload))
		for name := range upload {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if r := upload[name]; r.Status == dto.UploadStatusSuccess {
				chunks = append(chunks, r.Chunks...)
			}
		}
	}
	for _, path := range textFiles {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, string(b))
	}
	return chunks, nil
}
