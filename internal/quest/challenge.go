package quest

import (
	"strings"
)

// Kind 题型标签，只在目录文件和接口输出中出现
type Kind string

const (
	KindQuiz       Kind = "quiz"
	KindFillBlank  Kind = "fill-blank"
	KindOutput     Kind = "output"
	KindDragDrop   Kind = "drag-drop"
	KindMatch      Kind = "match"
	KindWhQuestion Kind = "wh-question"
	KindCodeEditor Kind = "code-editor"
)

// BlankMarker 填空题题干中的空位标记
const BlankMarker = "___"

// Answer 用户提交的答案，各题型只读取自己关心的字段
type Answer struct {
	Choice *int              `json:"choice,omitempty"`
	Blanks []string          `json:"blanks,omitempty"`
	Order  []string          `json:"order,omitempty"`
	Pairs  map[string]string `json:"pairs,omitempty"`
	Text   string            `json:"text,omitempty"`
}

// QuizAnswer 选择第 choice 个选项的答案
func QuizAnswer(choice int) Answer {
	return Answer{Choice: &choice}
}

// AnswerKey 题型相关的标准答案，每种题型一个实现
type AnswerKey interface {
	Kind() Kind
	Check(prompt string, ans Answer) bool
}

type Challenge struct {
	ID        int
	Title     string
	Prompt    string
	Points    int
	Completed bool
	Key       AnswerKey
}

func (c *Challenge) Kind() Kind {
	return c.Key.Kind()
}

// QuizKey 单选题
type QuizKey struct {
	Options []string
	Correct int
}

func (QuizKey) Kind() Kind { return KindQuiz }

func (k QuizKey) Check(_ string, ans Answer) bool {
	// 未作答不算选了第一个选项
	return ans.Choice != nil && *ans.Choice == k.Correct
}

// BlankKey 填空题和输出预测题
type BlankKey struct {
	Solution string
	Output   bool
}

func (k BlankKey) Kind() Kind {
	if k.Output {
		return KindOutput
	}
	return KindFillBlank
}

// Expected 按题干中的空位数量展开标准答案
func (k BlankKey) Expected() []string {
	if k.Output {
		return []string{strings.TrimSpace(k.Solution)}
	}
	parts := strings.Split(k.Solution, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func (k BlankKey) Check(prompt string, ans Answer) bool {
	expected := k.Expected()
	slots := 1
	if !k.Output {
		if n := strings.Count(prompt, BlankMarker); n > 0 {
			slots = n
		}
	}
	if len(ans.Blanks) != slots {
		return false
	}
	for i, got := range ans.Blanks {
		if i >= len(expected) || strings.TrimSpace(got) != expected[i] {
			return false
		}
	}
	return true
}

// OrderKey 拖拽排序题，位置敏感
type OrderKey struct {
	Tags     []string
	Solution []string
}

func (OrderKey) Kind() Kind { return KindDragDrop }

func (k OrderKey) Check(_ string, ans Answer) bool {
	if len(ans.Order) != len(k.Solution) {
		return false
	}
	for i, tag := range k.Solution {
		if ans.Order[i] != tag {
			return false
		}
	}
	return true
}

type Pair struct {
	Left  string `json:"left" yaml:"left"`
	Right string `json:"right" yaml:"right"`
}

// MatchKey 连线题，与顺序无关
type MatchKey struct {
	Pairs []Pair
}

func (MatchKey) Kind() Kind { return KindMatch }

func (k MatchKey) Check(_ string, ans Answer) bool {
	for _, p := range k.Pairs {
		got, ok := ans.Pairs[p.Left]
		if !ok || got != p.Right {
			return false
		}
	}
	return true
}

// KeywordKey 简答题：命中任意一个关键词即通过
type KeywordKey struct {
	Keywords []string
}

func (KeywordKey) Kind() Kind { return KindWhQuestion }

func (k KeywordKey) Check(_ string, ans Answer) bool {
	text := strings.ToLower(ans.Text)
	for _, kw := range k.Keywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// CodeKey 代码编辑题，纯文本比对，不编译
type CodeKey struct {
	Solution string
}

func (CodeKey) Kind() Kind { return KindCodeEditor }

func (k CodeKey) Check(_ string, ans Answer) bool {
	return strings.TrimSpace(ans.Text) == strings.TrimSpace(k.Solution)
}

// Validate 判定答案是否正确，不修改任何状态
func Validate(c *Challenge, ans Answer) bool {
	if c == nil || c.Key == nil {
		return false
	}
	return c.Key.Check(c.Prompt, ans)
}
