package quest

import (
	"codequest_backend/internal/util"
	"strings"
)

// Subject 一个独立的关卡目录
type Subject string

const (
	SubjectC      Subject = "c"
	SubjectHTML   Subject = "html"
	SubjectPython Subject = "python"
)

// Subjects 按固定顺序返回全部科目
func Subjects() []Subject {
	return []Subject{SubjectC, SubjectHTML, SubjectPython}
}

func ParseSubject(s string) (Subject, error) {
	switch Subject(strings.ToLower(strings.TrimSpace(s))) {
	case SubjectC:
		return SubjectC, nil
	case SubjectHTML:
		return SubjectHTML, nil
	case SubjectPython:
		return SubjectPython, nil
	}
	return "", util.ErrInvalidQuest
}

func (s Subject) String() string {
	return string(s)
}
