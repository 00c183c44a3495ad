package report

import (
	"golang.org/x/text/language"

	"bplog/internal/core"
)

// Labels is the static text of a report in one language.
type Labels struct {
	Tag       language.Tag
	Title     string
	Generated string
	Page      string
	Headers   [5]string
	Morning   string
	Night     string
	Unset     string
	NoRecords string
	// Unicode marks label sets that cannot be drawn with the PDF core fonts.
	Unicode bool
}

var (
	English = Labels{
		Tag:       language.English,
		Title:     "Blood Pressure Records",
		Generated: "Generated",
		Page:      "Page",
		Headers:   [5]string{"Date/Time", "Systolic", "Diastolic", "Pulse", "Period"},
		Morning:   "Morning",
		Night:     "Night",
		Unset:     "Unspecified",
		NoRecords: "No records found for this month.",
	}

	Japanese = Labels{
		Tag:       language.Japanese,
		Title:     "血圧記録",
		Generated: "作成日",
		Page:      "Page",
		Headers:   [5]string{"日時", "収縮期", "拡張期", "脈拍", "時間帯"},
		Morning:   "朝",
		Night:     "夜",
		Unset:     "未設定",
		NoRecords: "この月の記録はありません。",
		Unicode:   true,
	}
)

var (
	labelSets = []Labels{English, Japanese}
	matcher   = language.NewMatcher([]language.Tag{English.Tag, Japanese.Tag})
)

// LabelsFor returns the label set closest to a BCP 47 locale such as "ja-JP".
// Unknown or malformed locales fall back to English.
func LabelsFor(locale string) Labels {
	tag, err := language.Parse(locale)
	if err != nil {
		return English
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return English
	}
	return labelSets[idx]
}

// Period returns the label of a time period.
func (l Labels) Period(p core.TimePeriod) string {
	switch p {
	case core.PeriodMorning:
		return l.Morning
	case core.PeriodNight:
		return l.Night
	default:
		return l.Unset
	}
}
