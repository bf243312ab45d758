package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/nandanhq/peerverse/internal/dto"
	"github.com/nandanhq/peerverse/internal/model"
	"github.com/nandanhq/peerverse/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeReplyRepo struct {
	replies map[uuid.UUID]*model.Reply
}

func newFakeReplyRepo() *fakeReplyRepo {
	return &fakeReplyRepo{replies: make(map[uuid.UUID]*model.Reply)}
}

func (r *fakeReplyRepo) Create(ctx context.Context, reply *model.Reply) error {
	if reply.ID == uuid.Nil {
		reply.ID = uuid.New()
	}
	r.replies[reply.ID] = reply
	return nil
}

func (r *fakeReplyRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Reply, error) {
	reply, ok := r.replies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *reply
	return &copied, nil
}

func (r *fakeReplyRepo) FindByPost(ctx context.Context, postID uuid.UUID) ([]*model.Reply, error) {
	var out []*model.Reply
	for _, reply := range r.replies {
		if reply.PostID == postID {
			copied := *reply
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeReplyRepo) Update(ctx context.Context, reply *model.Reply) error {
	if _, ok := r.replies[reply.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *reply
	r.replies[reply.ID] = &copied
	return nil
}

func (r *fakeReplyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.replies, id)
	return nil
}

func (r *fakeReplyRepo) IncrementUpvotes(ctx context.Context, id uuid.UUID, delta int) error {
	reply, ok := r.replies[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	reply.Upvotes += delta
	if reply.Upvotes < 0 {
		reply.Upvotes = 0
	}
	return nil
}

func TestCreateReply(t *testing.T) {
	ctx := context.Background()

	author := newUser(0)
	replier := newUser(0)
	post := newPost(author.ID)

	users := newFakeUserRepo(author, replier)
	posts := newFakePostRepo(post)
	reputation := NewReputationService(users, posts, newFakeUpvoteRepo(), &fakeKarmaLogRepo{}, nil)
	svc := NewReplyService(newFakeReplyRepo(), posts, reputation)

	reply, err := svc.CreateReply(ctx, replier.ID, dto.CreateReplyRequest{
		PostID:  post.ID.String(),
		Content: "check the shared drive, the notes are there",
	})
	require.NoError(t, err)
	assert.Equal(t, post.ID, reply.PostID)

	// Replies bump the answers stat but never karma.
	got := users.users[replier.ID]
	assert.Equal(t, 1, got.AnswersGiven)
	assert.Equal(t, 0, got.Karma)
}

func TestCreateReplyUnknownPost(t *testing.T) {
	ctx := context.Background()

	replier := newUser(0)
	users := newFakeUserRepo(replier)
	posts := newFakePostRepo()
	reputation := NewReputationService(users, posts, newFakeUpvoteRepo(), &fakeKarmaLogRepo{}, nil)
	svc := NewReplyService(newFakeReplyRepo(), posts, reputation)

	_, err := svc.CreateReply(ctx, replier.ID, dto.CreateReplyRequest{
		PostID:  uuid.New().String(),
		Content: "hello",
	})
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpvoteReply(t *testing.T) {
	ctx := context.Background()

	author := newUser(0)
	replier := newUser(0)
	post := newPost(author.ID)

	users := newFakeUserRepo(author, replier)
	posts := newFakePostRepo(post)
	reputation := NewReputationService(users, posts, newFakeUpvoteRepo(), &fakeKarmaLogRepo{}, nil)
	svc := NewReplyService(newFakeReplyRepo(), posts, reputation)

	reply, err := svc.CreateReply(ctx, replier.ID, dto.CreateReplyRequest{
		PostID:  post.ID.String(),
		Content: "the library opens at 8",
	})
	require.NoError(t, err)

	updated, err := svc.UpvoteReply(ctx, reply.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Upvotes)

	updated, err = svc.UpvoteReply(ctx, reply.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Upvotes)

	// Reply upvotes are a counter only; the author earns no karma.
	assert.Equal(t, 0, users.users[replier.ID].Karma)
}

func TestUpvoteReplyFloorAndValidation(t *testing.T) {
	ctx := context.Background()

	author := newUser(0)
	post := newPost(author.ID)

	users := newFakeUserRepo(author)
	posts := newFakePostRepo(post)
	reputation := NewReputationService(users, posts, newFakeUpvoteRepo(), &fakeKarmaLogRepo{}, nil)
	svc := NewReplyService(newFakeReplyRepo(), posts, reputation)

	reply, err := svc.CreateReply(ctx, author.ID, dto.CreateReplyRequest{
		PostID:  post.ID.String(),
		Content: "hello",
	})
	require.NoError(t, err)

	updated, err := svc.UpvoteReply(ctx, reply.ID, -5)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Upvotes)

	_, err = svc.UpvoteReply(ctx, reply.ID, 0)
	require.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = svc.UpvoteReply(ctx, uuid.New(), 1)
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteReplyAuthorOnly(t *testing.T) {
	ctx := context.Background()

	author := newUser(0)
	replier := newUser(0)
	post := newPost(author.ID)

	users := newFakeUserRepo(author, replier)
	posts := newFakePostRepo(post)
	reputation := NewReputationService(users, posts, newFakeUpvoteRepo(), &fakeKarmaLogRepo{}, nil)
	svc := NewReplyService(newFakeReplyRepo(), posts, reputation)

	reply, err := svc.CreateReply(ctx, replier.ID, dto.CreateReplyRequest{
		PostID:  post.ID.String(),
		Content: "hello",
	})
	require.NoError(t, err)

	err = svc.DeleteReply(ctx, author.ID, reply.ID)
	require.ErrorIs(t, err, apperror.ErrForbidden)

	err = svc.DeleteReply(ctx, replier.ID, reply.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, users.users[replier.ID].AnswersGiven)
}
