package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nandanhq/peerverse/internal/dto"
	"github.com/nandanhq/peerverse/internal/model"
	"github.com/nandanhq/peerverse/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeCollegeRepo struct {
	colleges map[uuid.UUID]*model.College
}

func newFakeCollegeRepo(colleges ...*model.College) *fakeCollegeRepo {
	r := &fakeCollegeRepo{colleges: make(map[uuid.UUID]*model.College)}
	for _, c := range colleges {
		r.colleges[c.ID] = c
	}
	return r
}

func (r *fakeCollegeRepo) Create(ctx context.Context, college *model.College) error {
	if college.ID == uuid.Nil {
		college.ID = uuid.New()
	}
	r.colleges[college.ID] = college
	return nil
}

func (r *fakeCollegeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.College, error) {
	college, ok := r.colleges[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return college, nil
}

func (r *fakeCollegeRepo) FindByName(ctx context.Context, name string) (*model.College, error) {
	for _, c := range r.colleges {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCollegeRepo) FindAll(ctx context.Context) ([]*model.College, error) {
	var all []*model.College
	for _, c := range r.colleges {
		all = append(all, c)
	}
	return all, nil
}

func (r *fakeCollegeRepo) Update(ctx context.Context, college *model.College) error {
	if _, ok := r.colleges[college.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.colleges[college.ID] = college
	return nil
}

func (r *fakeCollegeRepo) AddMember(ctx context.Context, collegeID, userID uuid.UUID) error {
	if _, ok := r.colleges[collegeID]; !ok {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type fakeMailer struct {
	sent []string
}

func (m *fakeMailer) Send(to, subject, htmlBody string) error {
	m.sent = append(m.sent, to)
	return nil
}

func registerRequest(collegeID uuid.UUID) dto.RegisterRequest {
	return dto.RegisterRequest{
		Name:      "Arjun Mehta",
		Email:     "arjun@snu.edu.in",
		Password:  "supersecret",
		CollegeID: collegeID.String(),
		Major:     "Computer Science",
		Year:      2026,
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	college := &model.College{ID: uuid.New(), Name: "Shiv Nadar University", EmailDomains: []string{"snu.edu.in"}}
	users := newFakeUserRepo()
	mail := &fakeMailer{}
	svc := NewAuthService(users, newFakeCollegeRepo(college), mail)

	res, err := svc.Register(ctx, registerRequest(college.ID))
	require.NoError(t, err)

	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "arjun@snu.edu.in", res.User.Email)
	assert.Equal(t, 0, res.User.Karma)
	assert.False(t, res.User.IsMentor)

	assert.Equal(t, []string{"arjun@snu.edu.in"}, mail.sent)

	stored, err := users.FindByEmail(ctx, "arjun@snu.edu.in")
	require.NoError(t, err)
	assert.False(t, stored.IsEmailVerified)
	require.NotNil(t, stored.VerificationToken)
	assert.NotEqual(t, "supersecret", stored.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()

	college := &model.College{ID: uuid.New(), Name: "Shiv Nadar University"}
	svc := NewAuthService(newFakeUserRepo(), newFakeCollegeRepo(college), nil)

	_, err := svc.Register(ctx, registerRequest(college.ID))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerRequest(college.ID))
	require.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestRegisterWrongEmailDomain(t *testing.T) {
	ctx := context.Background()

	college := &model.College{ID: uuid.New(), Name: "Shiv Nadar University", EmailDomains: []string{"snu.edu.in"}}
	svc := NewAuthService(newFakeUserRepo(), newFakeCollegeRepo(college), nil)

	req := registerRequest(college.ID)
	req.Email = "arjun@gmail.com"

	_, err := svc.Register(ctx, req)
	require.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestRegisterNoDomainRestriction(t *testing.T) {
	ctx := context.Background()

	college := &model.College{ID: uuid.New(), Name: "Open College"}
	svc := NewAuthService(newFakeUserRepo(), newFakeCollegeRepo(college), nil)

	req := registerRequest(college.ID)
	req.Email = "anyone@gmail.com"

	_, err := svc.Register(ctx, req)
	require.NoError(t, err)
}

func TestRegisterUnknownCollege(t *testing.T) {
	ctx := context.Background()

	svc := NewAuthService(newFakeUserRepo(), newFakeCollegeRepo(), nil)

	_, err := svc.Register(ctx, registerRequest(uuid.New()))
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &model.User{
		ID:              uuid.New(),
		Name:            "Arjun Mehta",
		Email:           "arjun@snu.edu.in",
		PasswordHash:    string(hash),
		IsEmailVerified: true,
	}
	svc := NewAuthService(newFakeUserRepo(user), newFakeCollegeRepo(), nil)

	res, err := svc.Login(ctx, dto.LoginRequest{Email: "arjun@snu.edu.in", Password: "supersecret"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, user.ID, res.User.ID)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "arjun@snu.edu.in", Password: "wrong"})
	require.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "nobody@snu.edu.in", Password: "supersecret"})
	require.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestLoginUnverifiedEmail(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &model.User{
		ID:           uuid.New(),
		Email:        "arjun@snu.edu.in",
		PasswordHash: string(hash),
	}
	svc := NewAuthService(newFakeUserRepo(user), newFakeCollegeRepo(), nil)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "arjun@snu.edu.in", Password: "supersecret"})
	require.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestVerifyEmail(t *testing.T) {
	ctx := context.Background()

	token := "abc123"
	expires := time.Now().Add(time.Hour)
	user := &model.User{
		ID:                         uuid.New(),
		Email:                      "arjun@snu.edu.in",
		VerificationToken:          &token,
		VerificationTokenExpiresAt: &expires,
	}
	users := newFakeUserRepo(user)
	svc := NewAuthService(users, newFakeCollegeRepo(), nil)

	require.NoError(t, svc.VerifyEmail(ctx, token))

	stored, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsEmailVerified)
	assert.Nil(t, stored.VerificationToken)

	// The token is single use.
	err = svc.VerifyEmail(ctx, token)
	require.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	ctx := context.Background()

	token := "abc123"
	expires := time.Now().Add(-time.Hour)
	user := &model.User{
		ID:                         uuid.New(),
		Email:                      "arjun@snu.edu.in",
		VerificationToken:          &token,
		VerificationTokenExpiresAt: &expires,
	}
	svc := NewAuthService(newFakeUserRepo(user), newFakeCollegeRepo(), nil)

	err := svc.VerifyEmail(ctx, token)
	require.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestEmailMatchesDomains(t *testing.T) {
	assert.True(t, emailMatchesDomains("a@snu.edu.in", []string{"snu.edu.in"}))
	assert.True(t, emailMatchesDomains("a@SNU.EDU.IN", []string{"snu.edu.in"}))
	assert.True(t, emailMatchesDomains("a@gmail.com", nil))
	assert.False(t, emailMatchesDomains("a@gmail.com", []string{"snu.edu.in"}))
	assert.False(t, emailMatchesDomains("not-an-email", []string{"snu.edu.in"}))
}
