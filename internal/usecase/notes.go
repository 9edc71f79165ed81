package usecase

import (
	"context"
	"strings"
	"unicode/utf8"

	"student-assistant/internal/domain/entity"
)

const (
	MaxNotesChars    = 50000
	originalTextKeep = 500
)

// NotesOutput adds the excerpt of the uploaded file shown next to the summary.
type NotesOutput struct {
	entity.NotesResult
	OriginalText string
}

func (u *Orchestrator) SummarizeNotes(ctx context.Context, clientID string, in entity.NotesInput) (*NotesOutput, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		if in.FromFile {
			return nil, entity.Invalid("file", "Could not extract text from the uploaded file")
		}
		return nil, entity.Invalid("text", "No text provided")
	}
	if !in.FromFile && utf8.RuneCountInString(text) > MaxNotesChars {
		return nil, entity.Invalid("text", "Text is too long. Please limit to 50,000 characters.")
	}

	out, err := runStructured(ctx, u, clientID, entity.FeatureNotesSummary, BuildNotesPrompt(text), NotesSchema,
		func() entity.NotesResult { return FallbackNotes(text) })
	if err != nil {
		return nil, err
	}

	res := &NotesOutput{NotesResult: out.Value}
	// A well-formed answer may still carry no usable card.
	if len(res.Flashcards) == 0 {
		res.Flashcards = FallbackNotes(text).Flashcards
	}
	res.SummaryHTML = RenderMarkdown(res.Summary)
	if in.FromFile {
		res.OriginalText = cutRunes(text, originalTextKeep)
	}
	return res, nil
}
