package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/parabrain/para-flow/internal/model"
	"github.com/parabrain/para-flow/internal/taxonomy"
)

// Decision is the user's verdict on one classification.
type Decision struct {
	Corrected model.CategoryName
	Accepted  bool
	Skipped   bool
}

// Prompter runs the interactive review loop for classification results.
type Prompter struct {
	reader *NonBlockingReader
	writer io.Writer
}

// NewPrompter creates a prompter over the given streams. Nil streams default
// to stdin/stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	return &Prompter{
		reader: NewNonBlockingReader(reader),
		writer: writer,
	}
}

// ReviewClassification shows a decision and asks the user to accept, correct,
// or skip it.
func (p *Prompter) ReviewClassification(ctx context.Context, input string, result *model.ClassificationResult) (Decision, error) {
	select {
	case <-ctx.Done():
		return Decision{}, ctx.Err()
	default:
	}

	content := p.formatResult(input, result)
	if _, err := fmt.Fprintln(p.writer, RenderBox("Classification", content)); err != nil {
		return Decision{}, fmt.Errorf("failed to write classification box: %w", err)
	}

	fmt.Fprintf(p.writer, "  [A] Accept: %s\n", SuccessStyle.Render(string(result.Category)))
	fmt.Fprintln(p.writer, "  [C] Correct to another category")
	fmt.Fprintln(p.writer, "  [S] Skip")
	fmt.Fprintln(p.writer)

	choice, err := p.promptChoice(ctx, "Choice", []string{"a", "c", "s"})
	if err != nil {
		return Decision{}, err
	}

	switch choice {
	case "a":
		return Decision{Accepted: true}, nil
	case "s":
		return Decision{Skipped: true}, nil
	default:
		corrected, err := p.promptCategory(ctx)
		if err != nil {
			return Decision{}, err
		}
		return Decision{Corrected: corrected}, nil
	}
}

func (p *Prompter) formatResult(input string, result *model.ClassificationResult) string {
	var sb strings.Builder

	excerpt := input
	if runes := []rune(excerpt); len(runes) > 60 {
		excerpt = string(runes[:60]) + "..."
	}

	fmt.Fprintf(&sb, "Input:       %s\n", excerpt)
	fmt.Fprintf(&sb, "Category:    %s\n", BoldStyle.Render(string(result.Category)))
	fmt.Fprintf(&sb, "P.A.R.A:     %s\n", result.ParaCategory)
	fmt.Fprintf(&sb, "Confidence:  %d%%\n", result.Confidence)
	fmt.Fprintf(&sb, "Source:      %s\n", result.Source)
	if result.Reasoning != "" {
		fmt.Fprintf(&sb, "Reasoning:   %s", SubtleStyle.Render(result.Reasoning))
	}

	return sb.String()
}

// promptCategory lists the taxonomy and reads a numeric choice.
func (p *Prompter) promptCategory(ctx context.Context) (model.CategoryName, error) {
	categories := taxonomy.All()

	fmt.Fprintln(p.writer, FormatPrompt("Categories:"))
	for i, cat := range categories {
		fmt.Fprintf(p.writer, "  [%d] %s (%s)\n", i+1, cat.Name, cat.DisplayName)
	}
	fmt.Fprintln(p.writer)

	for {
		fmt.Fprint(p.writer, FormatPrompt("Category number"))

		line, err := p.reader.ReadLine(ctx)
		if err != nil {
			return "", err
		}

		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && n >= 1 && n <= len(categories) {
			return categories[n-1].Name, nil
		}

		fmt.Fprintln(p.writer, FormatWarning(fmt.Sprintf("Enter a number between 1 and %d", len(categories))))
	}
}

func (p *Prompter) promptChoice(ctx context.Context, prompt string, valid []string) (string, error) {
	for {
		fmt.Fprint(p.writer, FormatPrompt(prompt))

		line, err := p.reader.ReadLine(ctx)
		if err != nil {
			return "", err
		}

		choice := strings.ToLower(strings.TrimSpace(line))
		for _, v := range valid {
			if choice == v {
				return choice, nil
			}
		}

		fmt.Fprintln(p.writer, FormatWarning(fmt.Sprintf("Enter one of: %s", strings.Join(valid, ", "))))
	}
}
