package quest

// Level 一组有序题目，控制闯关进度
type Level struct {
	ID          int
	Name        string
	Description string
	Color       string
	Challenges  []*Challenge
	Unlocked    bool
	Completed   bool
}

func (l *Level) allDone() bool {
	for _, c := range l.Challenges {
		if !c.Completed {
			return false
		}
	}
	return true
}

// BadgeRule 徽章解锁条件，三种条件互斥
type BadgeRule struct {
	MinChallenges int  `yaml:"challenges" json:"challenges,omitempty"`
	MinLevels     int  `yaml:"levels" json:"levels,omitempty"`
	AllPrevious   bool `yaml:"all_previous" json:"allPrevious,omitempty"`
}

type Badge struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Rule        BadgeRule `json:"rule"`
	Earned      bool      `json:"earned"`
}

type PlayerStats struct {
	TotalPoints  int `json:"totalPoints"`
	Streak       int `json:"streak"`
	BadgesEarned int `json:"badgesEarned"`
}

// State 单个科目的闯关进度。非并发安全，由调用方持有唯一实例
type State struct {
	Subject           Subject
	Title             string
	StarsPerChallenge int
	MaxProgress       int

	levels []*Level
	badges []*Badge
	stats  PlayerStats
	byID   map[int]*Challenge
	earned []Badge
}

func newState(subject Subject, levels []*Level, badges []*Badge) *State {
	s := &State{
		Subject: subject,
		levels:  levels,
		badges:  badges,
		byID:    make(map[int]*Challenge),
	}
	for _, l := range levels {
		for _, c := range l.Challenges {
			s.byID[c.ID] = c
		}
	}
	if len(levels) > 0 {
		levels[0].Unlocked = true
	}
	return s
}

func (s *State) Levels() []*Level { return s.levels }

func (s *State) Badges() []*Badge { return s.badges }

func (s *State) Stats() PlayerStats { return s.stats }

func (s *State) Challenge(id int) (*Challenge, bool) {
	c, ok := s.byID[id]
	return c, ok
}

// TotalChallenges 目录中的题目总数
func (s *State) TotalChallenges() int {
	return len(s.byID)
}

// CompletedCount 已完成题目数，也是服务端保存的唯一进度值
func (s *State) CompletedCount() int {
	n := 0
	for _, l := range s.levels {
		for _, c := range l.Challenges {
			if c.Completed {
				n++
			}
		}
	}
	return n
}

func (s *State) completedLevels() int {
	n := 0
	for _, l := range s.levels {
		if l.Completed {
			n++
		}
	}
	return n
}

// CompleteChallenge 标记题目完成；题目不存在或已完成时无副作用并返回 false
func (s *State) CompleteChallenge(challengeID, points int) bool {
	c, ok := s.byID[challengeID]
	if !ok || c.Completed {
		return false
	}
	c.Completed = true
	s.stats.TotalPoints += points
	s.stats.Streak++
	s.UpdateProgress()
	return true
}

// UpdateProgress 按顺序完成关卡并解锁下一关，然后结算徽章。
// 返回本次调用中第一个新获得的徽章
func (s *State) UpdateProgress() *Badge {
	for i, l := range s.levels {
		if !l.Completed && l.allDone() {
			l.Completed = true
			if i+1 < len(s.levels) {
				s.levels[i+1].Unlocked = true
			}
		}
	}

	var first *Badge
	for b := s.CheckBadges(); b != nil; b = s.CheckBadges() {
		if first == nil {
			first = b
		}
	}
	return first
}

// CheckBadges 按顺序颁发第一个新满足条件的徽章，没有则返回 nil
func (s *State) CheckBadges() *Badge {
	done := s.CompletedCount()
	levels := s.completedLevels()

	for i, b := range s.badges {
		if b.Earned {
			continue
		}
		if s.qualifies(i, done, levels) {
			s.award(b)
			return b
		}
	}
	return nil
}

func (s *State) qualifies(i, done, levels int) bool {
	rule := s.badges[i].Rule
	switch {
	case rule.AllPrevious:
		if i == 0 {
			return false
		}
		for _, prev := range s.badges[:i] {
			if !prev.Earned {
				return false
			}
		}
		return true
	case rule.MinLevels > 0:
		return levels >= rule.MinLevels
	case rule.MinChallenges > 0:
		return done >= rule.MinChallenges
	}
	return false
}

func (s *State) award(b *Badge) {
	b.Earned = true
	s.stats.BadgesEarned++
	s.earned = append(s.earned, *b)
}

// DrainEarned 返回上次调用以来新获得的徽章
func (s *State) DrainEarned() []Badge {
	out := s.earned
	s.earned = nil
	return out
}

// ApplySavedProgress 根据服务端保存的完成数重建进度：按目录顺序标记前 n 道题完成。
// 超出题目总数的部分忽略；徽章只增不减
func (s *State) ApplySavedProgress(completedCount int) {
	remaining := completedCount
	if remaining < 0 {
		remaining = 0
	}

	for _, l := range s.levels {
		l.Unlocked = false
		l.Completed = false
		for _, c := range l.Challenges {
			c.Completed = false
		}
	}
	if len(s.levels) > 0 {
		s.levels[0].Unlocked = true
	}

	points := 0
	for i, l := range s.levels {
		if remaining == 0 {
			break
		}
		l.Unlocked = true
		for _, c := range l.Challenges {
			if remaining == 0 {
				break
			}
			c.Completed = true
			points += c.Points
			remaining--
		}
		if l.allDone() {
			l.Completed = true
			if i+1 < len(s.levels) {
				s.levels[i+1].Unlocked = true
			}
		}
	}
	s.stats.TotalPoints = points

	s.UpdateProgress()
	s.earned = nil
}

// ApplySavedBadges 按名称恢复服务端记录的徽章
func (s *State) ApplySavedBadges(names []string) {
	saved := make(map[string]bool, len(names))
	for _, n := range names {
		saved[n] = true
	}
	earned := 0
	for i, b := range s.badges {
		if saved[b.Name] && (!b.Rule.AllPrevious || s.qualifies(i, 0, 0)) {
			b.Earned = true
		}
		if b.Earned {
			earned++
		}
	}
	s.stats.BadgesEarned = earned

	s.UpdateProgress()
	s.earned = nil
}
