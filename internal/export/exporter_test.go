package export

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"quiz-forge/internal/domain"
	"quiz-forge/internal/extract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func samplePaper() *domain.QuestionPaper {
	return &domain.QuestionPaper{
		ID:           "paper-1",
		Title:        "Biology Unit Test",
		Instructions: "Answer all questions.",
		Questions: []*domain.Question{
			{ID: "q1", Type: domain.QuestionTypeMCQ, Prompt: "Which gas do plants absorb?", Options: []string{"Oxygen", "Carbon dioxide", "Helium"}, Answer: "Carbon dioxide"},
			{ID: "q2", Type: domain.QuestionTypeTrueFalse, Prompt: "True or false: roots photosynthesize.", Answer: "False"},
			{ID: "q3", Type: domain.QuestionTypeShortAnswer, Prompt: "What is chlorophyll?", Answer: "A green pigment."},
			{ID: "q4", Type: domain.QuestionTypeLongAnswer, Prompt: "Describe photosynthesis.", Answer: "Light energy becomes chemical energy."},
			{ID: "q5", Type: domain.QuestionTypeHOTS, Prompt: "Why would a plant kept in darkness stop growing?", Answer: "Without light it cannot make sugar."},
		},
		Marks:           []int{1, 1, 2, 5, 3},
		TotalMarks:      12,
		DurationMinutes: 30,
	}
}

func clonePaper(p *domain.QuestionPaper) *domain.QuestionPaper {
	c := *p
	c.Marks = append([]int(nil), p.Marks...)
	c.Questions = nil
	for _, q := range p.Questions {
		qc := *q
		qc.Options = append([]string(nil), q.Options...)
		c.Questions = append(c.Questions, &qc)
	}
	return &c
}

var pdfItem = regexp.MustCompile(`\((\d+)\. `)

func docxLines(t *testing.T, content []byte) []string {
	t.Helper()
	text, err := extract.NewExtractor(nil, zap.NewNop()).Extract(context.Background(), &domain.Document{
		ID:       "paper",
		Filename: "paper.docx",
		MIMEType: domain.MIMETypeDOCX,
		Content:  content,
	})
	require.NoError(t, err)
	return strings.Split(text.CleanedText, "\n")
}

var numbered = regexp.MustCompile(`^\d+\. `)

func TestExport_PDFWithoutAnswerKey(t *testing.T) {
	paper := samplePaper()
	before := clonePaper(paper)

	out, err := NewExporter(zap.NewNop()).Export(context.Background(), paper, domain.ExportFormatPDF, false)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF-")))

	items := pdfItem.FindAllSubmatch(out, -1)
	require.Len(t, items, 5)
	for i, m := range items {
		assert.Equal(t, string(rune('1'+i)), string(m[1]))
	}
	assert.Contains(t, string(out), "Total marks: 12")
	assert.NotContains(t, string(out), AnswerKeyHeading)
	assert.Equal(t, before, paper)
}

func TestExport_PDFIsDeterministic(t *testing.T) {
	e := NewExporter(nil)
	a, err := e.Export(context.Background(), samplePaper(), domain.ExportFormatPDF, true)
	require.NoError(t, err)
	b, err := e.Export(context.Background(), samplePaper(), domain.ExportFormatPDF, true)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Contains(t, string(a), AnswerKeyHeading)
}

func TestExport_DOCXWithAnswerKey(t *testing.T) {
	paper := samplePaper()
	before := clonePaper(paper)

	out, err := NewExporter(zap.NewNop()).Export(context.Background(), paper, domain.ExportFormatDOCX, true)
	require.NoError(t, err)
	assert.Equal(t, before, paper)

	lines := docxLines(t, out)
	assert.Equal(t, "Biology Unit Test", lines[0])
	assert.Equal(t, "Duration: 30 minutes Total marks: 12", lines[1])
	assert.Equal(t, "Instructions: Answer all questions.", lines[2])

	keyAt := -1
	for i, l := range lines {
		if l == AnswerKeyHeading {
			keyAt = i
		}
	}
	require.NotEqual(t, -1, keyAt, "answer key heading missing")

	questionPart := lines[:keyAt]
	keyPart := lines[keyAt+1:]

	var items []string
	for _, l := range questionPart {
		if numbered.MatchString(l) {
			items = append(items, l)
		}
	}
	require.Len(t, items, 5)
	assert.Equal(t, "1. Which gas do plants absorb? [1 mark]", items[0])
	assert.Equal(t, "4. Describe photosynthesis. [5 marks]", items[3])
	assert.Contains(t, questionPart, "A) Oxygen")
	assert.Contains(t, questionPart, "B) Carbon dioxide")
	assert.Contains(t, questionPart, "C) Helium")

	// the key is a separate final section, nothing but answers follows the heading
	require.Len(t, keyPart, 5)
	assert.Equal(t, "1. B) Carbon dioxide", keyPart[0])
	assert.Equal(t, "2. False", keyPart[1])
}

func TestExport_DOCXWithoutAnswerKey(t *testing.T) {
	out, err := NewExporter(nil).Export(context.Background(), samplePaper(), domain.ExportFormatDOCX, false)
	require.NoError(t, err)

	lines := docxLines(t, out)
	count := 0
	for _, l := range lines {
		if numbered.MatchString(l) {
			count++
		}
		assert.NotEqual(t, AnswerKeyHeading, l)
	}
	assert.Equal(t, 5, count)
}

func TestExport_UnsupportedFormatFailsFast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// nil paper and a cancelled context are not reached
	_, err := NewExporter(nil).Export(ctx, nil, domain.ExportFormat("odt"), true)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestExport_RenderingErrors(t *testing.T) {
	e := NewExporter(nil)

	_, err := e.Export(context.Background(), nil, domain.ExportFormatPDF, false)
	assert.ErrorIs(t, err, domain.ErrExportError)

	broken := samplePaper()
	broken.Marks = broken.Marks[:2]
	_, err = e.Export(context.Background(), broken, domain.ExportFormatDOCX, false)
	assert.ErrorIs(t, err, domain.ErrExportError)
}

func TestExport_EscapesMarkup(t *testing.T) {
	paper := &domain.QuestionPaper{
		Title:     "Tags & <Markup>",
		Questions: []*domain.Question{{Type: domain.QuestionTypeShortAnswer, Prompt: "Is 3 < 5 & 5 > 3?", Answer: "Yes"}},
		Marks:     []int{2},
	}
	out, err := NewExporter(nil).Export(context.Background(), paper, domain.ExportFormatDOCX, false)
	require.NoError(t, err)

	lines := docxLines(t, out)
	assert.Equal(t, "Tags & <Markup>", lines[0])
	assert.Contains(t, lines, "1. Is 3 < 5 & 5 > 3? [2 marks]")
}

func TestOptionLabel(t *testing.T) {
	assert.Equal(t, "A", optionLabel(0))
	assert.Equal(t, "Z", optionLabel(25))
	assert.Equal(t, "AA", optionLabel(26))
}
