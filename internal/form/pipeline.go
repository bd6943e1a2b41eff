package form

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/powerfolio/powerfolio/pkg/client"
	"github.com/powerfolio/powerfolio/pkg/domain"
)

// API is the slice of the backend client the pipeline needs.
type API interface {
	UploadFile(ctx context.Context, field, path string) (string, error)
	DeleteUpload(ctx context.Context, ref string) error
	CreateProject(ctx context.Context, in client.ProjectInput) (*domain.Project, error)
	UpdateProject(ctx context.Context, id string, in client.ProjectInput) (*domain.Project, error)
}

// Pipeline runs the submit flow: upload every pending media file one at
// a time, then create or update the project. If any step fails, files
// uploaded during this run are deleted again so nothing is left
// orphaned on the server.
type Pipeline struct {
	api API
	log zerolog.Logger

	// OnStep, when set, receives a progress line before each step.
	OnStep func(step string)
}

// NewPipeline builds a pipeline over the given API.
func NewPipeline(api API, log zerolog.Logger) *Pipeline {
	return &Pipeline{api: api, log: log}
}

func (pl *Pipeline) step(format string, args ...any) {
	if pl.OnStep != nil {
		pl.OnStep(fmt.Sprintf(format, args...))
	}
}

// Run executes the pipeline for a validated draft and returns the
// created or updated project.
func (pl *Pipeline) Run(ctx context.Context, d Draft) (*domain.Project, error) {
	if errs := d.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("form.Pipeline: draft has %d validation errors", len(errs))
	}

	// References uploaded during this run, to roll back on failure.
	var uploaded []string
	rollback := func() {
		for _, ref := range uploaded {
			if err := pl.api.DeleteUpload(context.WithoutCancel(ctx), ref); err != nil {
				pl.log.Warn().Err(err).Str("ref", ref).Msg("rollback delete failed")
			}
		}
	}

	upload := func(field string, m Media, what string) (string, error) {
		if m.Uploaded() {
			return m.Ref, nil
		}
		pl.step("Uploading %s %s...", what, m.Path)
		ref, err := pl.api.UploadFile(ctx, field, m.Path)
		if err != nil {
			return "", fmt.Errorf("upload %s: %w", what, err)
		}
		uploaded = append(uploaded, ref)
		return ref, nil
	}

	images := make([]string, 0, len(d.Images))
	for i, m := range d.Images {
		ref, err := upload("image", m, fmt.Sprintf("image %d/%d", i+1, len(d.Images)))
		if err != nil {
			rollback()
			return nil, fmt.Errorf("form.Pipeline: %w", err)
		}
		images = append(images, ref)
	}

	var video string
	if d.Video.Ref != "" || d.Video.Path != "" {
		ref, err := upload("video", d.Video, "demo video")
		if err != nil {
			rollback()
			return nil, fmt.Errorf("form.Pipeline: %w", err)
		}
		video = ref
	}

	var profile string
	if d.Profile.Ref != "" || d.Profile.Path != "" {
		ref, err := upload("image", d.Profile, "profile image")
		if err != nil {
			rollback()
			return nil, fmt.Errorf("form.Pipeline: %w", err)
		}
		profile = ref
	}

	in := client.ProjectInput{
		Title:           d.Title,
		Description:     d.Description,
		LongDescription: d.LongDescription,
		Category:        d.Category,
		Tags:            d.Tags,
		Images:          images,
		DemoVideo:       video,
		ProfileImage:    profile,
		GitHubURL:       d.GitHubURL,
		LiveURL:         d.LiveURL,
	}

	var (
		p   *domain.Project
		err error
	)
	if d.Editing() {
		pl.step("Saving changes...")
		p, err = pl.api.UpdateProject(ctx, d.ProjectID, in)
	} else {
		pl.step("Submitting project...")
		p, err = pl.api.CreateProject(ctx, in)
	}
	if err != nil {
		rollback()
		return nil, fmt.Errorf("form.Pipeline: %w", err)
	}

	pl.log.Info().Str("project", p.ID).Bool("edit", d.Editing()).Msg("submission complete")
	return p, nil
}
