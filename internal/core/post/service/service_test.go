package postapp

import (
	"context"
	"errors"
	"testing"
	"time"

	"mediamgr/internal/adapters/memory"
	postEntity "mediamgr/internal/core/post"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	imageCalls, videoCalls int
}

func (g *stubGenerator) GenerateCaption(_ context.Context, theme string) string {
	return "caption for " + theme
}

func (g *stubGenerator) GenerateImage(_ context.Context, theme string) string {
	g.imageCalls++
	return "https://img.example.com/" + theme
}

func (g *stubGenerator) GenerateVideo(_ context.Context, theme string) string {
	g.videoCalls++
	return "https://video.example.com/" + theme
}

type failingRepo struct {
	*memory.PostRepositoryMemory
	failCreate, failFind, failUpdate bool
}

var errDisk = errors.New("disk on fire")

func (r *failingRepo) Create(ctx context.Context, p *postEntity.Post) (*postEntity.Post, error) {
	if r.failCreate {
		return nil, errDisk
	}
	return r.PostRepositoryMemory.Create(ctx, p)
}

func (r *failingRepo) FindByID(ctx context.Context, id string) (*postEntity.Post, error) {
	if r.failFind {
		return nil, errDisk
	}
	return r.PostRepositoryMemory.FindByID(ctx, id)
}

func (r *failingRepo) FindByOwner(ctx context.Context, ownerID string, status postEntity.Status) ([]*postEntity.Post, error) {
	if r.failFind {
		return nil, errDisk
	}
	return r.PostRepositoryMemory.FindByOwner(ctx, ownerID, status)
}

func (r *failingRepo) UpdateFields(ctx context.Context, id string, patch postEntity.Patch) error {
	if r.failUpdate {
		return errDisk
	}
	return r.PostRepositoryMemory.UpdateFields(ctx, id, patch)
}

type recordingQueue struct {
	scheduled map[string]time.Time
	err       error
}

func (q *recordingQueue) Schedule(_ context.Context, postID string, at time.Time) error {
	if q.err != nil {
		return q.err
	}
	if q.scheduled == nil {
		q.scheduled = map[string]time.Time{}
	}
	q.scheduled[postID] = at
	return nil
}

func (q *recordingQueue) Due(context.Context, time.Time, int64) ([]string, error) { return nil, nil }
func (q *recordingQueue) Remove(context.Context, string) error                  { return nil }

var t0 = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*PostService, *stubGenerator, *recordingQueue) {
	t.Helper()
	gen := &stubGenerator{}
	queue := &recordingQueue{}
	svc := NewPostService(memory.NewPostRepositoryMemory(), gen, queue, nil)

	tick := t0
	svc.Now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	return svc, gen, queue
}

func TestGeneratePost(t *testing.T) {
	svc, gen, _ := newService(t)
	ctx := context.Background()

	p, err := svc.GeneratePost(ctx, "winter boots", "owner-1", DefaultGenerateOptions())
	require.NoError(t, err)

	assert.Equal(t, postEntity.StatusPending, p.Status)
	assert.Equal(t, "owner-1", p.OwnerID)
	assert.Equal(t, "winter boots", p.Theme)
	assert.Equal(t, "caption for winter boots", p.Text)
	assert.Equal(t, "https://img.example.com/winter boots", p.ImageURL)
	assert.Empty(t, p.VideoURL)
	assert.Nil(t, p.ScheduledTime)
	assert.Equal(t, t0.Add(time.Minute), p.CreatedAt)
	assert.Equal(t, 1, gen.imageCalls)
	assert.Equal(t, 0, gen.videoCalls)

	fetched, err := svc.GetPost(ctx, p.ID.String(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, p, fetched)
}

func TestGeneratePostMediaFlags(t *testing.T) {
	svc, gen, _ := newService(t)

	p, err := svc.GeneratePost(context.Background(), "gym", "o", GenerateOptions{IncludeImage: false, IncludeVideo: true})
	require.NoError(t, err)
	assert.Empty(t, p.ImageURL)
	assert.Equal(t, "https://video.example.com/gym", p.VideoURL)
	assert.Equal(t, 0, gen.imageCalls)
	assert.Equal(t, 1, gen.videoCalls)
}

func TestGeneratePostAssignsDistinctIDs(t *testing.T) {
	svc, _, _ := newService(t)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		p, err := svc.GeneratePost(context.Background(), "t", "o", DefaultGenerateOptions())
		require.NoError(t, err)
		require.False(t, seen[p.ID.String()], "duplicate id %s", p.ID)
		seen[p.ID.String()] = true
	}
}

func TestGeneratePostPersistenceError(t *testing.T) {
	repo := &failingRepo{PostRepositoryMemory: memory.NewPostRepositoryMemory(), failCreate: true}
	svc := NewPostService(repo, &stubGenerator{}, nil, nil)

	_, err := svc.GeneratePost(context.Background(), "t", "o", DefaultGenerateOptions())
	assert.ErrorIs(t, err, postEntity.ErrPersistence)
}

func TestCreateManualPost(t *testing.T) {
	svc, gen, _ := newService(t)
	ctx := context.Background()

	p, err := svc.CreateManualPost(ctx, "o", ManualPost{Theme: "my label", Text: "hand written", ImageURL: "https://x/y.png"})
	require.NoError(t, err)
	assert.Equal(t, postEntity.StatusPending, p.Status)
	assert.Equal(t, "hand written", p.Text)
	assert.Equal(t, "https://x/y.png", p.ImageURL)
	assert.Equal(t, 0, gen.imageCalls)

	_, err = svc.CreateManualPost(ctx, "o", ManualPost{Text: "   "})
	assert.ErrorIs(t, err, postEntity.ErrInvalidContent)
}

func TestApprovePostWithSchedule(t *testing.T) {
	svc, _, queue := newService(t)
	ctx := context.Background()

	p, err := svc.GeneratePost(ctx, "t", "owner", DefaultGenerateOptions())
	require.NoError(t, err)

	at := time.Date(2026, 12, 24, 18, 30, 0, 0, time.FixedZone("X", 3600))
	approved, err := svc.ApprovePost(ctx, p.ID.String(), "owner", &at)
	require.NoError(t, err)
	assert.Equal(t, postEntity.StatusApproved, approved.Status)
	require.NotNil(t, approved.ScheduledTime)
	assert.True(t, approved.ScheduledTime.Equal(at))
	assert.Equal(t, p.CreatedAt, approved.CreatedAt)
	assert.Equal(t, p.Text, approved.Text)

	fetched, err := svc.GetPost(ctx, p.ID.String(), "owner")
	require.NoError(t, err)
	assert.Equal(t, postEntity.StatusApproved, fetched.Status)
	assert.True(t, fetched.ScheduledTime.Equal(at))

	_, err = svc.GetPost(ctx, p.ID.String(), "someone-else")
	assert.ErrorIs(t, err, postEntity.ErrUnauthorized)

	assert.True(t, queue.scheduled[p.ID.String()].Equal(at))
}

func TestApprovePostWithoutScheduleLeavesItUnset(t *testing.T) {
	svc, _, queue := newService(t)
	ctx := context.Background()

	p, err := svc.GeneratePost(ctx, "t", "owner", DefaultGenerateOptions())
	require.NoError(t, err)

	approved, err := svc.ApprovePost(ctx, p.ID.String(), "owner", nil)
	require.NoError(t, err)
	assert.Nil(t, approved.ScheduledTime)
	_, queued := queue.scheduled[p.ID.String()]
	assert.True(t, queued)
}

func TestApproveEnqueueFailureIsNotSurfaced(t *testing.T) {
	svc, _, queue := newService(t)
	queue.err = errors.New("redis down")
	ctx := context.Background()

	p, err := svc.GeneratePost(ctx, "t", "owner", DefaultGenerateOptions())
	require.NoError(t, err)
	approved, err := svc.ApprovePost(ctx, p.ID.String(), "owner", nil)
	require.NoError(t, err)
	assert.Equal(t, postEntity.StatusApproved, approved.Status)
}

func TestMutationsRequireOwner(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	p, err := svc.GeneratePost(ctx, "t", "owner", DefaultGenerateOptions())
	require.NoError(t, err)

	_, err = svc.ApprovePost(ctx, p.ID.String(), "intruder", nil)
	assert.ErrorIs(t, err, postEntity.ErrUnauthorized)

	err = svc.RejectPost(ctx, p.ID.String(), "intruder")
	assert.ErrorIs(t, err, postEntity.ErrUnauthorized)

	fetched, err := svc.GetPost(ctx, p.ID.String(), "owner")
	require.NoError(t, err)
	assert.Equal(t, postEntity.StatusPending, fetched.Status)
}

func TestNotFound(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.ApprovePost(ctx, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", "o", nil)
	assert.ErrorIs(t, err, postEntity.ErrNotFound)

	err = svc.RejectPost(ctx, "missing", "o")
	assert.ErrorIs(t, err, postEntity.ErrNotFound)

	_, err = svc.MarkPublished(ctx, "missing")
	assert.ErrorIs(t, err, postEntity.ErrNotFound)
}

// Terminal states are enforced: a second reject fails instead of silently succeeding.
func TestRejectTwiceFailsWithInvalidTransition(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	p, err := svc.GeneratePost(ctx, "t", "owner", DefaultGenerateOptions())
	require.NoError(t, err)

	require.NoError(t, svc.RejectPost(ctx, p.ID.String(), "owner"))
	err = svc.RejectPost(ctx, p.ID.String(), "owner")
	assert.ErrorIs(t, err, postEntity.ErrInvalidTransition)

	_, err = svc.ApprovePost(ctx, p.ID.String(), "owner", nil)
	assert.ErrorIs(t, err, postEntity.ErrInvalidTransition)

	fetched, err := svc.GetPost(ctx, p.ID.String(), "owner")
	require.NoError(t, err)
	assert.Equal(t, postEntity.StatusRejected, fetched.Status)
}

func TestPublishLifecycle(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	p, err := svc.GeneratePost(ctx, "t", "owner", DefaultGenerateOptions())
	require.NoError(t, err)

	_, err = svc.MarkPublished(ctx, p.ID.String())
	assert.ErrorIs(t, err, postEntity.ErrInvalidTransition, "pending posts cannot be published")

	_, err = svc.ApprovePost(ctx, p.ID.String(), "owner", nil)
	require.NoError(t, err)

	_, err = svc.ApprovePost(ctx, p.ID.String(), "owner", nil)
	assert.ErrorIs(t, err, postEntity.ErrInvalidTransition, "approved posts cannot be approved again")

	published, err := svc.MarkPublished(ctx, p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, postEntity.StatusPublished, published.Status)

	err = svc.RejectPost(ctx, p.ID.String(), "owner")
	assert.ErrorIs(t, err, postEntity.ErrInvalidTransition)
}

func TestRejectThenListings(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	first, err := svc.GeneratePost(ctx, "first", "owner", DefaultGenerateOptions())
	require.NoError(t, err)
	second, err := svc.GeneratePost(ctx, "second", "owner", DefaultGenerateOptions())
	require.NoError(t, err)
	_, err = svc.GeneratePost(ctx, "other", "other-owner", DefaultGenerateOptions())
	require.NoError(t, err)

	pending, err := svc.GetPendingPosts(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, second.ID, pending[0].ID, "newest first")
	assert.Equal(t, first.ID, pending[1].ID)

	require.NoError(t, svc.RejectPost(ctx, first.ID.String(), "owner"))

	pending, err = svc.GetPendingPosts(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)

	all, err := svc.GetAllPosts(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[1].ID)
	assert.Equal(t, postEntity.StatusRejected, all[1].Status)
}

func TestStoreErrorsBecomePersistenceErrors(t *testing.T) {
	repo := &failingRepo{PostRepositoryMemory: memory.NewPostRepositoryMemory()}
	svc := NewPostService(repo, &stubGenerator{}, nil, nil)
	ctx := context.Background()

	p, err := svc.GeneratePost(ctx, "t", "owner", DefaultGenerateOptions())
	require.NoError(t, err)

	repo.failUpdate = true
	_, err = svc.ApprovePost(ctx, p.ID.String(), "owner", nil)
	assert.ErrorIs(t, err, postEntity.ErrPersistence)

	repo.failUpdate = false
	repo.failFind = true
	err = svc.RejectPost(ctx, p.ID.String(), "owner")
	assert.ErrorIs(t, err, postEntity.ErrPersistence)

	_, err = svc.GetAllPosts(ctx, "owner")
	assert.ErrorIs(t, err, postEntity.ErrPersistence)
}

func TestSortNewestFirst(t *testing.T) {
	a := &postEntity.Post{Theme: "a", CreatedAt: t0}
	b := &postEntity.Post{Theme: "b", CreatedAt: t0.Add(time.Hour)}
	c := &postEntity.Post{Theme: "c", CreatedAt: t0.Add(-time.Hour)}
	posts := []*postEntity.Post{a, b, c}

	SortNewestFirst(posts)
	assert.Equal(t, []*postEntity.Post{b, a, c}, posts)
}
