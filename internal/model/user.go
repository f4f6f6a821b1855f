package model

import "sort"

// User 远程档案，每个科目只保存已完成挑战的数量
type User struct {
	BaseModel
	Name     string         `gorm:"size:100;not null" json:"name"`
	Email    string         `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string         `gorm:"size:100;not null" json:"-"`
	C        int            `gorm:"column:progress_c;default:0;not null" json:"-"`
	HTML     int            `gorm:"column:progress_html;default:0;not null" json:"-"`
	Python   int            `gorm:"column:progress_python;default:0;not null" json:"-"`
	Stars    int            `gorm:"default:0;not null" json:"-"`
	Badges   []ProfileBadge `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// ProfileBadge 徽章名称集合，(user_id, name) 唯一
type ProfileBadge struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"`
	UserID uint   `gorm:"not null;uniqueIndex:idx_user_badge"`
	Name   string `gorm:"size:100;not null;uniqueIndex:idx_user_badge"`
}

func (ProfileBadge) TableName() string {
	return "profile_badges"
}

// Progress 对外的进度结构
type Progress struct {
	C      int      `json:"c"`
	HTML   int      `json:"html"`
	Python int      `json:"python"`
	Stars  int      `json:"stars"`
	Badges []string `json:"badges"`
}

// Profile 不含密码的档案视图
type Profile struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Progress Progress `json:"progress"`
}

func (u *User) Profile() Profile {
	badges := make([]string, 0, len(u.Badges))
	for _, b := range u.Badges {
		badges = append(badges, b.Name)
	}
	sort.Strings(badges)

	return Profile{
		Name:  u.Name,
		Email: u.Email,
		Progress: Progress{
			C:      u.C,
			HTML:   u.HTML,
			Python: u.Python,
			Stars:  u.Stars,
			Badges: badges,
		},
	}
}

// Count 返回指定科目列的值，未知科目返回 0
func (p Progress) Count(quest string) int {
	switch quest {
	case "c":
		return p.C
	case "html":
		return p.HTML
	case "python":
		return p.Python
	}
	return 0
}

// LeaderboardEntry 排行榜条目，progress 只含该科目
type LeaderboardEntry struct {
	Name     string         `json:"name"`
	Progress map[string]int `json:"progress"`
}
