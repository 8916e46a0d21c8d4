package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/beauthy/beauthy/internal/models"
)

// Generator interface for text-generation backends
type Generator interface {
	// Generate returns the model's answer to a single-turn prompt
	Generate(ctx context.Context, prompt string) (string, error)

	// Model returns the name of the model answering prompts
	Model() string
}

// Metadata is the generated descriptive data of an application.
type Metadata struct {
	Description string
	Publisher   string
}

// Fields returns the portal fields to patch.
func (m Metadata) Fields() map[string]any {
	return map[string]any{
		models.FieldMetaDescription: m.Description,
		models.FieldMetaPublisher:   m.Publisher,
	}
}

// DescriptionPrompt asks for a short description of the application.
func DescriptionPrompt(app models.Application) string {
	return fmt.Sprintf("No introductions, plain answer. "+
		"A brief description, no more than 2 lines for this app: %s. "+
		"Cocky tone, funny, daring, you're talking about a homelab", app.Name)
}

// PublisherPrompt asks for the application's publisher.
func PublisherPrompt(app models.Application) string {
	return fmt.Sprintf("No introductions, plain answer. "+
		"Name of %s publisher. "+
		"If the app can be tracked back to github, reply just the repo link", app.Name)
}

// Describe generates a description and a publisher for app with two
// independent prompts. Answers are only trimmed, never validated.
func Describe(ctx context.Context, gen Generator, app models.Application) (Metadata, error) {
	description, err := gen.Generate(ctx, DescriptionPrompt(app))
	if err != nil {
		return Metadata{}, fmt.Errorf("generate description: %w", err)
	}

	publisher, err := gen.Generate(ctx, PublisherPrompt(app))
	if err != nil {
		return Metadata{}, fmt.Errorf("generate publisher: %w", err)
	}

	return Metadata{
		Description: strings.TrimSpace(description),
		Publisher:   strings.TrimSpace(publisher),
	}, nil
}
