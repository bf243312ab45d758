package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nandanhq/peerverse/internal/model"
	"github.com/nandanhq/peerverse/internal/repository"
	"github.com/nandanhq/peerverse/pkg/apperror"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Karma deltas per event. Replies earn no karma; only post creation and
// received upvotes do.
const (
	KarmaCreatePost     = 5
	KarmaUpvoteReceived = 2

	ActionCreatePost      = "create_post"
	ActionDeletePost      = "delete_post"
	ActionUpvoteReceived  = "upvote_received"
	ActionUpvoteRetracted = "upvote_retracted"
)

const votedSetTTL = time.Hour

// UpvoteResult is returned by cast/retract. Upvotes is recomputed from
// the ledger rather than read from the cached counter.
type UpvoteResult struct {
	Upvotes      int64       `json:"upvotes"`
	VotedPostIDs []uuid.UUID `json:"voted_post_ids"`
}

type OptOutResult struct {
	IsMentor bool `json:"is_mentor"`
}

// ReputationService applies karma and stat deltas for content and vote
// lifecycle events and evaluates mentor eligibility after each event that
// can increase karma.
//
// Each event runs as an ordered saga: validate referenced entities, mutate
// the upvote ledger, mutate author karma/stats, evaluate the mentor
// transition. The ledger write is the point of no return: if a later step
// fails the error is surfaced to the caller but the ledger change stays,
// and the periodic reconciliation pass repairs the derived counter.
type ReputationService interface {
	OnPostCreated(ctx context.Context, authorID, postID uuid.UUID) error
	OnPostDeleted(ctx context.Context, authorID, postID uuid.UUID) error
	OnReplyCreated(ctx context.Context, authorID uuid.UUID) error
	OnReplyDeleted(ctx context.Context, authorID uuid.UUID) error
	CastUpvote(ctx context.Context, voterID, postID uuid.UUID) (*UpvoteResult, error)
	RetractUpvote(ctx context.Context, voterID, postID uuid.UUID) (*UpvoteResult, error)
	OptOutMentor(ctx context.Context, userID uuid.UUID) (*OptOutResult, error)
	VotedPostIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ReconcilePostUpvotes(ctx context.Context) (int64, error)
}

type reputationService struct {
	userRepo     repository.UserRepository
	postRepo     repository.PostRepository
	upvoteRepo   repository.UpvoteRepository
	karmaLogRepo repository.KarmaLogRepository
	redisClient  *redis.Client
}

func NewReputationService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	upvoteRepo repository.UpvoteRepository,
	karmaLogRepo repository.KarmaLogRepository,
	redisClient *redis.Client,
) ReputationService {
	return &reputationService{
		userRepo:     userRepo,
		postRepo:     postRepo,
		upvoteRepo:   upvoteRepo,
		karmaLogRepo: karmaLogRepo,
		redisClient:  redisClient,
	}
}

func (s *reputationService) OnPostCreated(ctx context.Context, authorID, postID uuid.UUID) error {
	if _, err := s.findUser(ctx, authorID); err != nil {
		return err
	}

	if err := s.userRepo.IncrementStat(ctx, authorID, "questions_asked", 1); err != nil {
		return fmt.Errorf("failed to update author stats: %w", err)
	}
	if err := s.userRepo.IncrementKarma(ctx, authorID, KarmaCreatePost); err != nil {
		return fmt.Errorf("failed to award post karma: %w", err)
	}
	s.logKarma(ctx, authorID, ActionCreatePost, KarmaCreatePost, postID.String(), "posts")

	return s.evaluateMentorStatus(ctx, authorID)
}

func (s *reputationService) OnPostDeleted(ctx context.Context, authorID, postID uuid.UUID) error {
	if _, err := s.findUser(ctx, authorID); err != nil {
		return err
	}

	if err := s.userRepo.IncrementStat(ctx, authorID, "questions_asked", -1); err != nil {
		return fmt.Errorf("failed to update author stats: %w", err)
	}
	// Reverses the creation grant only. Karma the author earned from
	// upvotes on this post is kept; deleting a post does not reclaim it.
	if err := s.userRepo.IncrementKarma(ctx, authorID, -KarmaCreatePost); err != nil {
		return fmt.Errorf("failed to reverse post karma: %w", err)
	}
	s.logKarma(ctx, authorID, ActionDeletePost, -KarmaCreatePost, postID.String(), "posts")

	s.invalidateVoterCaches(ctx, postID)

	// Cascade: drop every ledger entry referencing the post.
	if err := s.upvoteRepo.DeleteAllForPost(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete upvotes for post: %w", err)
	}

	return nil
}

func (s *reputationService) OnReplyCreated(ctx context.Context, authorID uuid.UUID) error {
	if _, err := s.findUser(ctx, authorID); err != nil {
		return err
	}
	// Replies earn a stat, not karma, so no mentor evaluation.
	return s.userRepo.IncrementStat(ctx, authorID, "answers_given", 1)
}

func (s *reputationService) OnReplyDeleted(ctx context.Context, authorID uuid.UUID) error {
	if _, err := s.findUser(ctx, authorID); err != nil {
		return err
	}
	return s.userRepo.IncrementStat(ctx, authorID, "answers_given", -1)
}

func (s *reputationService) CastUpvote(ctx context.Context, voterID, postID uuid.UUID) (*UpvoteResult, error) {
	// Step 1: validate every referenced entity before any mutation.
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if _, err := s.findUser(ctx, voterID); err != nil {
		return nil, err
	}

	// Step 2: ledger insert. The unique (user, post) index arbitrates
	// concurrent casts; this is also the point of no return for the event.
	if err := s.upvoteRepo.Create(ctx, voterID, postID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.New(0, fmt.Sprintf("user %s already upvoted post %s", voterID, postID), apperror.ErrDuplicateVote)
		}
		return nil, fmt.Errorf("failed to record upvote: %w", err)
	}

	// Step 3: derived counter and author karma. Failures from here on are
	// surfaced but the ledger entry stays; reconciliation repairs the
	// counter, and the karma gap is an accepted inconsistency.
	if err := s.postRepo.IncrementUpvotes(ctx, postID, 1); err != nil {
		return nil, fmt.Errorf("upvote recorded but counter update failed: %w", err)
	}

	if post.AuthorID != voterID {
		if err := s.userRepo.IncrementKarma(ctx, post.AuthorID, KarmaUpvoteReceived); err != nil {
			return nil, fmt.Errorf("upvote recorded but karma update failed: %w", err)
		}
		s.logKarma(ctx, post.AuthorID, ActionUpvoteReceived, KarmaUpvoteReceived, postID.String(), "upvotes")

		// Step 4: mentor transition, only after karma-increasing events.
		if err := s.evaluateMentorStatus(ctx, post.AuthorID); err != nil {
			return nil, err
		}
	}

	s.cacheVoteAdd(ctx, voterID, postID)

	return s.upvoteResult(ctx, voterID, postID)
}

func (s *reputationService) RetractUpvote(ctx context.Context, voterID, postID uuid.UUID) (*UpvoteResult, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if _, err := s.findUser(ctx, voterID); err != nil {
		return nil, err
	}

	if err := s.upvoteRepo.Delete(ctx, voterID, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(0, fmt.Sprintf("user %s has no active upvote on post %s", voterID, postID), apperror.ErrNoSuchVote)
		}
		return nil, fmt.Errorf("failed to delete upvote: %w", err)
	}

	if err := s.postRepo.IncrementUpvotes(ctx, postID, -1); err != nil {
		return nil, fmt.Errorf("upvote retracted but counter update failed: %w", err)
	}

	if post.AuthorID != voterID {
		// Floored at zero in SQL; retracting more than was ever granted
		// never drives karma negative.
		if err := s.userRepo.IncrementKarma(ctx, post.AuthorID, -KarmaUpvoteReceived); err != nil {
			return nil, fmt.Errorf("upvote retracted but karma update failed: %w", err)
		}
		s.logKarma(ctx, post.AuthorID, ActionUpvoteRetracted, -KarmaUpvoteReceived, postID.String(), "upvotes")
	}
	// No mentor evaluation: karma decreases never demote.

	s.cacheVoteRemove(ctx, voterID, postID)

	return s.upvoteResult(ctx, voterID, postID)
}

func (s *reputationService) OptOutMentor(ctx context.Context, userID uuid.UUID) (*OptOutResult, error) {
	if _, err := s.findUser(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.userRepo.ClearMentor(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to clear mentor status: %w", err)
	}

	return &OptOutResult{IsMentor: false}, nil
}

func (s *reputationService) VotedPostIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if ids, ok := s.cachedVotedSet(ctx, userID); ok {
		return ids, nil
	}

	ids, err := s.upvoteRepo.ListPostIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cacheVotedSet(ctx, userID, ids)
	return ids, nil
}

func (s *reputationService) ReconcilePostUpvotes(ctx context.Context) (int64, error) {
	return s.postRepo.ReconcileUpvotes(ctx)
}

// evaluateMentorStatus is the single place the Regular -> Mentor transition
// fires. The reverse transition only happens through OptOutMentor.
func (s *reputationService) evaluateMentorStatus(ctx context.Context, userID uuid.UUID) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}

	if user.IsMentor || user.Karma < model.MentorKarmaThreshold {
		return nil
	}

	if err := s.userRepo.PromoteToMentor(ctx, userID); err != nil {
		return fmt.Errorf("failed to promote user to mentor: %w", err)
	}

	log.Printf("User %s (%s) is now a student mentor with %d karma points", user.Name, userID, user.Karma)
	return nil
}

func (s *reputationService) upvoteResult(ctx context.Context, voterID, postID uuid.UUID) (*UpvoteResult, error) {
	count, err := s.upvoteRepo.CountForPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	ids, err := s.VotedPostIDs(ctx, voterID)
	if err != nil {
		return nil, err
	}

	return &UpvoteResult{Upvotes: count, VotedPostIDs: ids}, nil
}

func (s *reputationService) findUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user", id.String())
		}
		return nil, err
	}
	return user, nil
}

func (s *reputationService) findPost(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("post", id.String())
		}
		return nil, err
	}
	return post, nil
}

// logKarma appends to the audit trail. Best-effort: a failed log never
// fails the event that already applied its balance change.
func (s *reputationService) logKarma(ctx context.Context, userID uuid.UUID, action string, points int, refID, refTable string) {
	if s.karmaLogRepo == nil {
		return
	}
	entry := &model.KarmaLog{
		UserID:         userID,
		ActionType:     action,
		Points:         points,
		ReferenceID:    refID,
		ReferenceTable: refTable,
		CreatedAt:      time.Now(),
	}
	if err := s.karmaLogRepo.Create(ctx, entry); err != nil {
		log.Printf("Failed to write karma log for user %s: %v", userID, err)
	}
}

// Voted-set cache. The ledger stays authoritative; the Redis set only
// speeds up client-side hydration and is safe to lose.

func votedSetKey(userID uuid.UUID) string {
	return fmt.Sprintf("user_upvotes:%s", userID.String())
}

func (s *reputationService) cacheVoteAdd(ctx context.Context, voterID, postID uuid.UUID) {
	if s.redisClient == nil {
		return
	}
	key := votedSetKey(voterID)
	exists, err := s.redisClient.Exists(ctx, key).Result()
	if err != nil || exists == 0 {
		return
	}
	_ = s.redisClient.SAdd(ctx, key, postID.String()).Err()
}

func (s *reputationService) cacheVoteRemove(ctx context.Context, voterID, postID uuid.UUID) {
	if s.redisClient == nil {
		return
	}
	_ = s.redisClient.SRem(ctx, votedSetKey(voterID), postID.String()).Err()
}

func (s *reputationService) cachedVotedSet(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, bool) {
	if s.redisClient == nil {
		return nil, false
	}
	key := votedSetKey(userID)
	exists, err := s.redisClient.Exists(ctx, key).Result()
	if err != nil || exists == 0 {
		return nil, false
	}

	members, err := s.redisClient.SMembers(ctx, key).Result()
	if err != nil {
		return nil, false
	}

	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		id, err := uuid.Parse(m)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, true
}

func (s *reputationService) cacheVotedSet(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) {
	if s.redisClient == nil || len(ids) == 0 {
		return
	}
	key := votedSetKey(userID)
	members := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		members = append(members, id.String())
	}
	if err := s.redisClient.SAdd(ctx, key, members...).Err(); err != nil {
		return
	}
	_ = s.redisClient.Expire(ctx, key, votedSetTTL).Err()
}

// invalidateVoterCaches drops the cached voted-set of everyone who voted on
// the post being deleted. Best-effort.
func (s *reputationService) invalidateVoterCaches(ctx context.Context, postID uuid.UUID) {
	if s.redisClient == nil {
		return
	}
	// Reuse the ledger query path; voters for one post are few.
	voters, err := s.upvoteRepo.ListUserIDsForPost(ctx, postID)
	if err != nil {
		return
	}
	for _, voterID := range voters {
		_ = s.redisClient.Del(ctx, votedSetKey(voterID)).Err()
	}
}
