package form

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powerfolio/powerfolio/pkg/client"
	"github.com/powerfolio/powerfolio/pkg/domain"
)

// fakeAPI records pipeline calls and can be told to fail at a given
// point.
type fakeAPI struct {
	uploads   []string
	deletes   []string
	created   *client.ProjectInput
	updatedID string

	failUploadAt int // fail the nth upload (1-based), 0 = never
	failCreate   bool
}

func (f *fakeAPI) UploadFile(_ context.Context, field, path string) (string, error) {
	if f.failUploadAt > 0 && len(f.uploads)+1 == f.failUploadAt {
		return "", errors.New("disk full")
	}
	ref := fmt.Sprintf("uploads/%s-%d", field, len(f.uploads))
	f.uploads = append(f.uploads, ref)
	return ref, nil
}

func (f *fakeAPI) DeleteUpload(_ context.Context, ref string) error {
	f.deletes = append(f.deletes, ref)
	return nil
}

func (f *fakeAPI) CreateProject(_ context.Context, in client.ProjectInput) (*domain.Project, error) {
	if f.failCreate {
		return nil, &client.HTTPError{StatusCode: 400, Message: "Title is required"}
	}
	f.created = &in
	return &domain.Project{ID: "new-1", Title: in.Title}, nil
}

func (f *fakeAPI) UpdateProject(_ context.Context, id string, in client.ProjectInput) (*domain.Project, error) {
	f.updatedID = id
	return &domain.Project{ID: id, Title: in.Title}, nil
}

func pipelineDraft(t *testing.T) Draft {
	d := validDraft(t)
	d.Images = []Media{
		{Path: localFile(t, "a.png", 64)},
		{Path: localFile(t, "b.png", 64)},
	}
	return d
}

func TestPipelineCreate(t *testing.T) {
	api := &fakeAPI{}
	pl := NewPipeline(api, zerolog.Nop())

	var steps []string
	pl.OnStep = func(s string) { steps = append(steps, s) }

	p, err := pl.Run(context.Background(), pipelineDraft(t))
	require.NoError(t, err)
	assert.Equal(t, "new-1", p.ID)

	require.NotNil(t, api.created)
	assert.Equal(t, []string{"uploads/image-0", "uploads/image-1"}, api.created.Images)
	assert.Empty(t, api.deletes)
	assert.Len(t, steps, 3, "two uploads plus the submit step")
}

func TestPipelineSkipsUploadedMedia(t *testing.T) {
	api := &fakeAPI{}
	pl := NewPipeline(api, zerolog.Nop())

	d := pipelineDraft(t)
	d.Images = append([]Media{{Ref: "uploads/existing.png"}}, d.Images...)

	_, err := pl.Run(context.Background(), d)
	require.NoError(t, err)
	assert.Len(t, api.uploads, 2, "already-uploaded media is not re-sent")
	assert.Equal(t, "uploads/existing.png", api.created.Images[0])
}

func TestPipelineRollbackOnUploadFailure(t *testing.T) {
	api := &fakeAPI{failUploadAt: 2}
	pl := NewPipeline(api, zerolog.Nop())

	_, err := pl.Run(context.Background(), pipelineDraft(t))
	require.Error(t, err)
	assert.Equal(t, []string{"uploads/image-0"}, api.deletes,
		"the upload that landed before the failure is rolled back")
	assert.Nil(t, api.created)
}

func TestPipelineRollbackOnCreateFailure(t *testing.T) {
	api := &fakeAPI{failCreate: true}
	pl := NewPipeline(api, zerolog.Nop())

	_, err := pl.Run(context.Background(), pipelineDraft(t))
	require.Error(t, err)
	assert.True(t, client.IsStatus(err, 400), "server error surfaces through the pipeline")
	assert.Equal(t, api.uploads, api.deletes, "every fresh upload is rolled back")
}

func TestPipelineUpdate(t *testing.T) {
	api := &fakeAPI{}
	pl := NewPipeline(api, zerolog.Nop())

	d := pipelineDraft(t)
	d.ProjectID = "p7"

	p, err := pl.Run(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, "p7", p.ID)
	assert.Equal(t, "p7", api.updatedID)
}

func TestPipelineRejectsInvalidDraft(t *testing.T) {
	api := &fakeAPI{}
	pl := NewPipeline(api, zerolog.Nop())

	_, err := pl.Run(context.Background(), Draft{})
	require.Error(t, err)
	assert.Empty(t, api.uploads, "nothing is uploaded for an invalid draft")
}

func TestPipelineUploadsVideoAndProfile(t *testing.T) {
	api := &fakeAPI{}
	pl := NewPipeline(api, zerolog.Nop())

	d := pipelineDraft(t)
	require.NoError(t, d.SetVideo(localFile(t, "demo.mp4", 2048)))
	require.NoError(t, d.SetProfile(localFile(t, "me.png", 64)))

	_, err := pl.Run(context.Background(), d)
	require.NoError(t, err)
	require.NotNil(t, api.created)
	assert.Equal(t, "uploads/video-2", api.created.DemoVideo)
	assert.Equal(t, "uploads/image-3", api.created.ProfileImage)
}
