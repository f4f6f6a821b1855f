package quest

import "sort"

// Outline 对外展示的目录结构，不含标准答案
type Outline struct {
	Subject           Subject        `json:"subject"`
	Title             string         `json:"title"`
	StarsPerChallenge int            `json:"starsPerChallenge"`
	MaxProgress       int            `json:"maxProgress"`
	TotalChallenges   int            `json:"totalChallenges"`
	Levels            []LevelOutline `json:"levels"`
	Badges            []Badge        `json:"badges"`
}

type LevelOutline struct {
	ID          int                `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Color       string             `json:"color"`
	Unlocked    bool               `json:"unlocked"`
	Completed   bool               `json:"completed"`
	Challenges  []ChallengeOutline `json:"challenges"`
}

type ChallengeOutline struct {
	ID        int      `json:"id"`
	Title     string   `json:"title"`
	Type      Kind     `json:"type"`
	Prompt    string   `json:"prompt"`
	Points    int      `json:"points"`
	Completed bool     `json:"completed"`
	Options   []string `json:"options,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Left      []string `json:"left,omitempty"`
	Right     []string `json:"right,omitempty"`
}

// Outline 生成当前状态的快照，可直接序列化给前端渲染
func (s *State) Outline() Outline {
	o := Outline{
		Subject:           s.Subject,
		Title:             s.Title,
		StarsPerChallenge: s.StarsPerChallenge,
		MaxProgress:       s.MaxProgress,
		TotalChallenges:   s.TotalChallenges(),
	}
	for _, l := range s.levels {
		lo := LevelOutline{
			ID:          l.ID,
			Name:        l.Name,
			Description: l.Description,
			Color:       l.Color,
			Unlocked:    l.Unlocked,
			Completed:   l.Completed,
		}
		for _, c := range l.Challenges {
			co := ChallengeOutline{
				ID:        c.ID,
				Title:     c.Title,
				Type:      c.Kind(),
				Prompt:    c.Prompt,
				Points:    c.Points,
				Completed: c.Completed,
			}
			switch k := c.Key.(type) {
			case QuizKey:
				co.Options = k.Options
			case OrderKey:
				co.Tags = sortedCopy(k.Tags)
			case MatchKey:
				for _, p := range k.Pairs {
					co.Left = append(co.Left, p.Left)
					co.Right = append(co.Right, p.Right)
				}
				co.Right = sortedCopy(co.Right)
			}
			lo.Challenges = append(lo.Challenges, co)
		}
		o.Levels = append(o.Levels, lo)
	}
	for _, b := range s.badges {
		o.Badges = append(o.Badges, *b)
	}
	return o
}

// 按字母排序输出，隐藏标准答案的顺序
func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
