package questclient

import (
	"codequest_backend/internal/quest"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Phase 单科进度的生命周期
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseLocallyMutated
	PhaseSaved
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseLocallyMutated:
		return "locally-mutated"
	case PhaseSaved:
		return "saved"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// 聊天请求失败时显示给玩家的文本
const ChatUnavailable = "AI not responding"

var ErrUnknownChallenge = errors.New("questclient: unknown challenge")

// SubmitResult 一次作答的结果
type SubmitResult struct {
	Correct   bool
	Completed bool
	Badges    []quest.Badge
	Saved     bool
}

// Session 持有一个科目的进度状态，本地状态是当前会话的事实来源，服务端尽力同步。
// 不支持并发调用。
type Session struct {
	client  *Client
	email   string
	subject quest.Subject
	state   *quest.State
	phase   Phase
	log     *zap.Logger
}

func NewSession(client *Client, email string, subject quest.Subject) (*Session, error) {
	state, err := quest.Load(subject)
	if err != nil {
		return nil, err
	}
	return &Session{
		client:  client,
		email:   email,
		subject: subject,
		state:   state,
		phase:   PhaseUninitialized,
		log:     client.log.With(zap.String("email", email), zap.String("quest", string(subject))),
	}, nil
}

func (s *Session) Phase() Phase { return s.phase }
func (s *Session) State() *quest.State { return s.state }
func (s *Session) Subject() quest.Subject { return s.subject }

func (s *Session) apply(p Profile) {
	s.state.ApplySavedProgress(p.Progress.Count(s.subject))
	s.state.ApplySavedBadges(p.Progress.Badges)
}

// Load 先套用本地缓存再用服务端档案覆盖；拉取失败时退回零进度，不返回错误
func (s *Session) Load(ctx context.Context) {
	s.phase = PhaseLoading

	if cached, ok := s.client.Cached(s.email); ok {
		s.apply(cached)
	}

	profile, err := s.client.LoadProfile(ctx, s.email)
	if err != nil {
		s.log.Warn("Load progress failed, starting from zero", zap.Error(err))
		s.state.ApplySavedProgress(0)
	} else {
		s.apply(*profile)
	}

	s.phase = PhaseLoaded
}

// Submit 判题；答对且是首次完成时推送进度，每个新徽章一次上报
func (s *Session) Submit(ctx context.Context, challengeID int, ans quest.Answer) (SubmitResult, error) {
	c, ok := s.state.Challenge(challengeID)
	if !ok {
		return SubmitResult{}, ErrUnknownChallenge
	}

	var res SubmitResult
	if !quest.Validate(c, ans) {
		return res, nil
	}
	res.Correct = true

	if !s.state.CompleteChallenge(challengeID, c.Points) {
		return res, nil
	}
	res.Completed = true
	res.Badges = s.state.DrainEarned()
	s.phase = PhaseLocallyMutated

	res.Saved = s.push(ctx, c.Points, res.Badges)
	if res.Saved {
		s.phase = PhaseSaved
	}
	return res, nil
}

// push 上报完成数和本题分数，分数只随第一次上报累加。
// 失败只记录日志，不回滚本地状态，也不重试
func (s *Session) push(ctx context.Context, points int, badges []quest.Badge) bool {
	count := s.state.CompletedCount()

	names := []string{""}
	if len(badges) > 0 {
		names = names[:0]
		for _, b := range badges {
			names = append(names, b.Name)
		}
	}

	ok := true
	for i, name := range names {
		delta := 0
		if i == 0 {
			delta = points
		}
		if _, err := s.client.SaveProgressDelta(ctx, s.email, s.subject, count, delta, name); err != nil {
			s.log.Error("Progress save failed", zap.Int("value", count), zap.String("badge", name), zap.Error(err))
			ok = false
		}
	}
	return ok
}

// Leaderboard 失败时返回空列表
func (s *Session) Leaderboard(ctx context.Context) []LeaderboardEntry {
	entries, err := s.client.Leaderboard(ctx, s.subject)
	if err != nil {
		s.log.Warn("Load leaderboard failed", zap.Error(err))
		return []LeaderboardEntry{}
	}
	return entries
}

func (s *Session) Chat(ctx context.Context, message string) string {
	reply, err := s.client.Chat(ctx, message)
	if err != nil || reply == "" {
		s.log.Warn("Chat failed", zap.Error(err))
		return ChatUnavailable
	}
	return reply
}
