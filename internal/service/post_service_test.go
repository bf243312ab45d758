package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nandanhq/peerverse/internal/dto"
	"github.com/nandanhq/peerverse/internal/model"
	"github.com/nandanhq/peerverse/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type postFixture struct {
	users      *fakeUserRepo
	posts      *fakePostRepo
	colleges   *fakeCollegeRepo
	upvotes    *fakeUpvoteRepo
	reputation ReputationService
	svc        PostService
}

func newPostFixture(users []*model.User, colleges []*model.College) *postFixture {
	f := &postFixture{
		users:    newFakeUserRepo(users...),
		posts:    newFakePostRepo(),
		colleges: newFakeCollegeRepo(colleges...),
		upvotes:  newFakeUpvoteRepo(),
	}
	f.reputation = NewReputationService(f.users, f.posts, f.upvotes, &fakeKarmaLogRepo{}, nil)
	f.svc = NewPostService(f.posts, f.colleges, f.reputation, nil, nil, 5*time.Second, 15*time.Second)
	return f
}

func TestCreatePost(t *testing.T) {
	ctx := context.Background()

	author := newUser(0)
	college := &model.College{ID: uuid.New(), Name: "Shiv Nadar University"}
	f := newPostFixture([]*model.User{author}, []*model.College{college})

	post, err := f.svc.CreatePost(ctx, author.ID, dto.CreatePostRequest{
		CollegeID: college.ID.String(),
		Content:   "does anyone have notes for the algorithms midterm?",
	})
	require.NoError(t, err)

	assert.Equal(t, college.ID, post.CollegeID)
	assert.Equal(t, 0, post.Upvotes)

	// Creating a post awards karma and bumps the question stat.
	got := f.users.users[author.ID]
	assert.Equal(t, KarmaCreatePost, got.Karma)
	assert.Equal(t, 1, got.QuestionsAsked)
}

func TestCreatePostContentTooLong(t *testing.T) {
	ctx := context.Background()

	author := newUser(0)
	college := &model.College{ID: uuid.New(), Name: "Shiv Nadar University"}
	f := newPostFixture([]*model.User{author}, []*model.College{college})

	_, err := f.svc.CreatePost(ctx, author.ID, dto.CreatePostRequest{
		CollegeID: college.ID.String(),
		Content:   strings.Repeat("a", maxPostContentLength+1),
	})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.Equal(t, 0, f.users.users[author.ID].Karma)
}

func TestCreatePostUnknownCollege(t *testing.T) {
	ctx := context.Background()

	author := newUser(0)
	f := newPostFixture([]*model.User{author}, nil)

	_, err := f.svc.CreatePost(ctx, author.ID, dto.CreatePostRequest{
		CollegeID: uuid.New().String(),
		Content:   "hello",
	})
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCreatePostAnonymousHidesAuthor(t *testing.T) {
	ctx := context.Background()

	author := newUser(0)
	college := &model.College{ID: uuid.New(), Name: "Shiv Nadar University"}
	f := newPostFixture([]*model.User{author}, []*model.College{college})

	post, err := f.svc.CreatePost(ctx, author.ID, dto.CreatePostRequest{
		CollegeID:   college.ID.String(),
		Content:     "confession time",
		IsAnonymous: true,
	})
	require.NoError(t, err)

	assert.True(t, post.IsAnonymous)
	assert.Nil(t, post.Author)
}

func TestUpdatePostAuthorOnly(t *testing.T) {
	ctx := context.Background()

	author := newUser(0)
	other := newUser(0)
	college := &model.College{ID: uuid.New(), Name: "Shiv Nadar University"}
	f := newPostFixture([]*model.User{author, other}, []*model.College{college})

	post, err := f.svc.CreatePost(ctx, author.ID, dto.CreatePostRequest{
		CollegeID: college.ID.String(),
		Content:   "original",
	})
	require.NoError(t, err)

	_, err = f.svc.UpdatePost(ctx, other.ID, post.ID, dto.UpdatePostRequest{Content: "hijacked"})
	require.ErrorIs(t, err, apperror.ErrForbidden)

	updated, err := f.svc.UpdatePost(ctx, author.ID, post.ID, dto.UpdatePostRequest{Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
}

func TestDeletePost(t *testing.T) {
	ctx := context.Background()

	author := newUser(0)
	voter := newUser(0)
	college := &model.College{ID: uuid.New(), Name: "Shiv Nadar University"}
	f := newPostFixture([]*model.User{author, voter}, []*model.College{college})

	post, err := f.svc.CreatePost(ctx, author.ID, dto.CreatePostRequest{
		CollegeID: college.ID.String(),
		Content:   "to be deleted",
	})
	require.NoError(t, err)

	_, err = f.reputation.CastUpvote(ctx, voter.ID, post.ID)
	require.NoError(t, err)
	require.Equal(t, KarmaCreatePost+KarmaUpvoteReceived, f.users.users[author.ID].Karma)

	// Not the author.
	err = f.svc.DeletePost(ctx, voter.ID, post.ID)
	require.ErrorIs(t, err, apperror.ErrForbidden)

	err = f.svc.DeletePost(ctx, author.ID, post.ID)
	require.NoError(t, err)

	// Creation karma reversed, upvote karma kept, row and ledger gone.
	got := f.users.users[author.ID]
	assert.Equal(t, KarmaUpvoteReceived, got.Karma)
	assert.Equal(t, 0, got.QuestionsAsked)

	_, err = f.svc.GetPostByID(ctx, post.ID)
	require.ErrorIs(t, err, apperror.ErrNotFound)

	count, err := f.upvotes.CountForPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestDeletePostNotFound(t *testing.T) {
	ctx := context.Background()

	author := newUser(0)
	f := newPostFixture([]*model.User{author}, nil)

	err := f.svc.DeletePost(ctx, author.ID, uuid.New())
	require.ErrorIs(t, err, apperror.ErrNotFound)
}
