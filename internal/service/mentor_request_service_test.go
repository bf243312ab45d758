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

type fakeMentorRequestRepo struct {
	requests map[uuid.UUID]*model.MentorRequest
}

func newFakeMentorRequestRepo() *fakeMentorRequestRepo {
	return &fakeMentorRequestRepo{requests: make(map[uuid.UUID]*model.MentorRequest)}
}

func (r *fakeMentorRequestRepo) Create(ctx context.Context, request *model.MentorRequest) error {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	r.requests[request.ID] = request
	return nil
}

func (r *fakeMentorRequestRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MentorRequest, error) {
	request, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *request
	return &copied, nil
}

func (r *fakeMentorRequestRepo) FindPendingByPair(ctx context.Context, studentID, mentorID uuid.UUID) (*model.MentorRequest, error) {
	for _, req := range r.requests {
		if req.StudentID == studentID && req.MentorID == mentorID && req.Status == model.MentorRequestPending {
			copied := *req
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMentorRequestRepo) FindPending(ctx context.Context) ([]*model.MentorRequest, error) {
	var pending []*model.MentorRequest
	for _, req := range r.requests {
		if req.Status == model.MentorRequestPending {
			copied := *req
			pending = append(pending, &copied)
		}
	}
	return pending, nil
}

func (r *fakeMentorRequestRepo) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.MentorRequest, error) {
	var out []*model.MentorRequest
	for _, req := range r.requests {
		if req.StudentID == studentID {
			copied := *req
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeMentorRequestRepo) Update(ctx context.Context, request *model.MentorRequest) error {
	if _, ok := r.requests[request.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *request
	r.requests[request.ID] = &copied
	return nil
}

func newMentor() *model.User {
	u := newUser(model.MentorKarmaThreshold)
	u.IsMentor = true
	return u
}

func TestCreateMentorRequest(t *testing.T) {
	ctx := context.Background()

	student := newUser(0)
	mentor := newMentor()
	users := newFakeUserRepo(student, mentor)
	requests := newFakeMentorRequestRepo()
	svc := NewMentorRequestService(requests, users)

	request, err := svc.CreateRequest(ctx, student.ID, dto.CreateMentorRequestRequest{
		MentorID: mentor.ID.String(),
		Amount:   500,
	})
	require.NoError(t, err)

	assert.Equal(t, model.MentorRequestPending, request.Status)
	assert.Equal(t, 500, request.Amount)

	// A second pending request for the same pair is rejected.
	_, err = svc.CreateRequest(ctx, student.ID, dto.CreateMentorRequestRequest{MentorID: mentor.ID.String()})
	require.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestCreateMentorRequestSelf(t *testing.T) {
	ctx := context.Background()

	mentor := newMentor()
	svc := NewMentorRequestService(newFakeMentorRequestRepo(), newFakeUserRepo(mentor))

	_, err := svc.CreateRequest(ctx, mentor.ID, dto.CreateMentorRequestRequest{MentorID: mentor.ID.String()})
	require.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestCreateMentorRequestNonMentor(t *testing.T) {
	ctx := context.Background()

	student := newUser(0)
	regular := newUser(10)
	svc := NewMentorRequestService(newFakeMentorRequestRepo(), newFakeUserRepo(student, regular))

	_, err := svc.CreateRequest(ctx, student.ID, dto.CreateMentorRequestRequest{MentorID: regular.ID.String()})
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCreateMentorRequestAssignedMentor(t *testing.T) {
	ctx := context.Background()

	student := newUser(0)
	mentor := newMentor()
	other := uuid.New()
	mentor.MentorIsAssigned = true
	mentor.MentorAssignedTo = &other
	svc := NewMentorRequestService(newFakeMentorRequestRepo(), newFakeUserRepo(student, mentor))

	_, err := svc.CreateRequest(ctx, student.ID, dto.CreateMentorRequestRequest{MentorID: mentor.ID.String()})
	require.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestReviewMentorRequestApprove(t *testing.T) {
	ctx := context.Background()

	student := newUser(0)
	mentor := newMentor()
	admin := newUser(0)
	users := newFakeUserRepo(student, mentor, admin)
	requests := newFakeMentorRequestRepo()
	svc := NewMentorRequestService(requests, users)

	request, err := svc.CreateRequest(ctx, student.ID, dto.CreateMentorRequestRequest{MentorID: mentor.ID.String()})
	require.NoError(t, err)

	reviewed, err := svc.ReviewRequest(ctx, admin.ID, request.ID, dto.ReviewMentorRequestRequest{
		Status: model.MentorRequestApproved,
		Notes:  "looks good",
	})
	require.NoError(t, err)

	assert.Equal(t, model.MentorRequestApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedByID)
	assert.Equal(t, admin.ID, *reviewed.ReviewedByID)

	// Approval binds the mentor to the student.
	got := users.users[mentor.ID]
	assert.True(t, got.MentorIsAssigned)
	require.NotNil(t, got.MentorAssignedTo)
	assert.Equal(t, student.ID, *got.MentorAssignedTo)

	// A reviewed request cannot be reviewed again.
	_, err = svc.ReviewRequest(ctx, admin.ID, request.ID, dto.ReviewMentorRequestRequest{Status: model.MentorRequestRejected})
	require.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestReviewMentorRequestReject(t *testing.T) {
	ctx := context.Background()

	student := newUser(0)
	mentor := newMentor()
	admin := newUser(0)
	users := newFakeUserRepo(student, mentor, admin)
	svc := NewMentorRequestService(newFakeMentorRequestRepo(), users)

	request, err := svc.CreateRequest(ctx, student.ID, dto.CreateMentorRequestRequest{MentorID: mentor.ID.String()})
	require.NoError(t, err)

	reviewed, err := svc.ReviewRequest(ctx, admin.ID, request.ID, dto.ReviewMentorRequestRequest{
		Status: model.MentorRequestRejected,
	})
	require.NoError(t, err)

	assert.Equal(t, model.MentorRequestRejected, reviewed.Status)
	assert.False(t, users.users[mentor.ID].MentorIsAssigned)
}
