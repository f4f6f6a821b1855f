package quest

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalogs/*.yaml
var catalogFS embed.FS

type catalogFile struct {
	Subject           Subject    `yaml:"subject"`
	Title             string     `yaml:"title"`
	StarsPerChallenge int        `yaml:"stars_per_challenge"`
	MaxProgress       int        `yaml:"max_progress"`
	Badges            []badgeDef `yaml:"badges"`
	Levels            []levelDef `yaml:"levels"`
}

type badgeDef struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Icon        string    `yaml:"icon"`
	Rule        BadgeRule `yaml:"rule"`
}

type levelDef struct {
	ID          int            `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Color       string         `yaml:"color"`
	Challenges  []challengeDef `yaml:"challenges"`
}

type challengeDef struct {
	ID       int      `yaml:"id"`
	Title    string   `yaml:"title"`
	Type     Kind     `yaml:"type"`
	Prompt   string   `yaml:"prompt"`
	Points   int      `yaml:"points"`
	Options  []string `yaml:"options"`
	Correct  *int     `yaml:"correct"`
	Answer   *string  `yaml:"answer"`
	Tags     []string `yaml:"tags"`
	Order    []string `yaml:"order"`
	Pairs    []Pair   `yaml:"pairs"`
	Keywords []string `yaml:"keywords"`
}

// Load 读取内置目录并返回一个全新的进度状态
func Load(subject Subject) (*State, error) {
	data, err := catalogFS.ReadFile("catalogs/" + string(subject) + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("catalog %q: %w", subject, err)
	}
	return Parse(data)
}

// MustLoad 用于内置目录，解析失败说明目录文件本身有误
func MustLoad(subject Subject) *State {
	s, err := Load(subject)
	if err != nil {
		panic(err)
	}
	return s
}

// Parse 解析 YAML 目录并校验
func Parse(data []byte) (*State, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if _, err := ParseSubject(string(f.Subject)); err != nil {
		return nil, fmt.Errorf("catalog subject %q: %w", f.Subject, err)
	}

	seen := make(map[int]bool)
	levels := make([]*Level, 0, len(f.Levels))
	for _, ld := range f.Levels {
		lvl := &Level{ID: ld.ID, Name: ld.Name, Description: ld.Description, Color: ld.Color}
		for _, cd := range ld.Challenges {
			if seen[cd.ID] {
				return nil, fmt.Errorf("catalog %s: duplicate challenge id %d", f.Subject, cd.ID)
			}
			seen[cd.ID] = true

			key, err := cd.key()
			if err != nil {
				return nil, fmt.Errorf("catalog %s: challenge %d: %w", f.Subject, cd.ID, err)
			}
			if cd.Points < 0 {
				return nil, fmt.Errorf("catalog %s: challenge %d: negative points", f.Subject, cd.ID)
			}
			lvl.Challenges = append(lvl.Challenges, &Challenge{
				ID:     cd.ID,
				Title:  cd.Title,
				Prompt: cd.Prompt,
				Points: cd.Points,
				Key:    key,
			})
		}
		levels = append(levels, lvl)
	}

	badges := make([]*Badge, 0, len(f.Badges))
	for i, bd := range f.Badges {
		r := bd.Rule
		set := 0
		if r.AllPrevious {
			set++
		}
		if r.MinChallenges > 0 {
			set++
		}
		if r.MinLevels > 0 {
			set++
		}
		if set != 1 {
			return nil, fmt.Errorf("catalog %s: badge %q needs exactly one rule", f.Subject, bd.Name)
		}
		if r.AllPrevious && i != len(f.Badges)-1 {
			return nil, fmt.Errorf("catalog %s: capstone badge %q must be last", f.Subject, bd.Name)
		}
		badges = append(badges, &Badge{Name: bd.Name, Description: bd.Description, Icon: bd.Icon, Rule: r})
	}

	s := newState(f.Subject, levels, badges)
	s.Title = f.Title
	s.StarsPerChallenge = f.StarsPerChallenge
	s.MaxProgress = f.MaxProgress
	return s, nil
}

func (d challengeDef) key() (AnswerKey, error) {
	switch d.Type {
	case KindQuiz:
		if d.Correct == nil || *d.Correct < 0 || *d.Correct >= len(d.Options) {
			return nil, fmt.Errorf("quiz needs a correct index within options")
		}
		return QuizKey{Options: d.Options, Correct: *d.Correct}, nil
	case KindFillBlank, KindOutput:
		if d.Answer == nil {
			return nil, fmt.Errorf("%s needs an answer", d.Type)
		}
		return BlankKey{Solution: *d.Answer, Output: d.Type == KindOutput}, nil
	case KindCodeEditor:
		if d.Answer == nil {
			return nil, fmt.Errorf("code-editor needs an answer")
		}
		return CodeKey{Solution: *d.Answer}, nil
	case KindDragDrop:
		if len(d.Order) == 0 {
			return nil, fmt.Errorf("drag-drop needs an order")
		}
		tags := d.Tags
		if len(tags) == 0 {
			tags = d.Order
		}
		return OrderKey{Tags: tags, Solution: d.Order}, nil
	case KindMatch:
		if len(d.Pairs) == 0 {
			return nil, fmt.Errorf("match needs pairs")
		}
		return MatchKey{Pairs: d.Pairs}, nil
	case KindWhQuestion:
		if len(d.Keywords) == 0 {
			return nil, fmt.Errorf("wh-question needs keywords")
		}
		return KeywordKey{Keywords: d.Keywords}, nil
	}
	return nil, fmt.Errorf("unknown challenge type %q", d.Type)
}
