// internal/model/subject.go
package model

import "strings"

// ProgressType は進捗の種類 (講義動画 or DPP)
type ProgressType string

const (
	ProgressLectures ProgressType = "lectures"
	ProgressDPP      ProgressType = "dpp"
)

// ProgressTypes は集計順を固定するための一覧
var ProgressTypes = []ProgressType{ProgressLectures, ProgressDPP}

func (t ProgressType) Valid() bool {
	return t == ProgressLectures || t == ProgressDPP
}

// ClassLevel は学年 (11 or 12)
type ClassLevel int

const (
	Class11 ClassLevel = 11
	Class12 ClassLevel = 12
)

// 科目ごとの定員 (total)
const (
	LecturesPerSubject = 30
	DPPPerSubject      = 20
)

// ClassCatalog は学年に属する科目と集計行の定義
type ClassCatalog struct {
	Level     ClassLevel
	Subjects  []string
	Aggregate string
}

var catalogs = map[ClassLevel]ClassCatalog{
	Class11: {Level: Class11, Subjects: []string{"maths11", "physics11", "chemistry11"}, Aggregate: "class11"},
	Class12: {Level: Class12, Subjects: []string{"maths", "physics", "chemistry"}, Aggregate: "class12"},
}

// ClassLevels は全学年 (シード・スナップショットの順序用)
var ClassLevels = []ClassLevel{Class11, Class12}

// CatalogFor は学年のカタログを返す。11/12以外は ok=false
func CatalogFor(level ClassLevel) (ClassCatalog, bool) {
	c, ok := catalogs[level]
	return c, ok
}

// Members は科目 + 集計行。ロック順序をそろえるため常にこの順で処理する
func (c ClassCatalog) Members() []string {
	members := make([]string, 0, len(c.Subjects)+1)
	members = append(members, c.Subjects...)
	return append(members, c.Aggregate)
}

// Allows は管理者上書きで指定できる科目かどうか (学年の3科目 + 集計行)
func (c ClassCatalog) Allows(subject string) bool {
	if subject == c.Aggregate {
		return true
	}
	for _, s := range c.Subjects {
		if s == subject {
			return true
		}
	}
	return false
}

// DefaultTotal は科目の定員。集計行は構成科目の合計
func DefaultTotal(subject string, typ ProgressType) int {
	per := LecturesPerSubject
	if typ == ProgressDPP {
		per = DPPPerSubject
	}
	for _, c := range catalogs {
		if c.Aggregate == subject {
			return per * len(c.Subjects)
		}
	}
	return per
}

// ProgressKey は "maths-lectures" 形式のキーを作る
func ProgressKey(subject string, typ ProgressType) string {
	return subject + "-" + string(typ)
}

// ParseProgressKey は "subject-type" を最初の '-' で分割する
func ParseProgressKey(key string) (string, ProgressType, bool) {
	subject, typ, found := strings.Cut(key, "-")
	if !found || subject == "" {
		return "", "", false
	}
	t := ProgressType(typ)
	if !t.Valid() {
		return "", "", false
	}
	return subject, t, true
}

// IsKnownSubject はカタログに存在する科目 (集計行を含む) かどうか
func IsKnownSubject(subject string) bool {
	for _, c := range catalogs {
		if c.Allows(subject) {
			return true
		}
	}
	return false
}
