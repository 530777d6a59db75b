package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

var (
	inDaysRegex      = regexp.MustCompile(`(?i)^(?:in\s+)?(\d+)\s*(?:days?\s*(?:later|from now)?|天后)$`)
	cjkNumberedRegex = regexp.MustCompile(`^([一二三四五六七八九十]+)天后$`)
)

var cjkNumbers = map[string]int{
	"一": 1, "二": 2, "三": 3, "四": 4, "五": 5,
	"六": 6, "七": 7, "八": 8, "九": 9, "十": 10,
}

// ParseStartDate resolves a trip start date. Accepts ISO dates and a small
// set of relative expressions in English and Chinese; an empty input means
// tomorrow. base is the "now" the relative expressions resolve against.
func ParseStartDate(input string, base time.Time) (time.Time, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	day := midnight(base)

	switch s {
	case "", "tomorrow", "明天":
		return day.AddDate(0, 0, 1), nil
	case "today", "今天":
		return day, nil
	case "day after tomorrow", "后天":
		return day.AddDate(0, 0, 2), nil
	case "next week", "下周", "下星期":
		return day.AddDate(0, 0, 7), nil
	case "next month", "下个月":
		return day.AddDate(0, 1, 0), nil
	}

	if m := inDaysRegex.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n >= 0 {
			return day.AddDate(0, 0, n), nil
		}
	}

	if m := cjkNumberedRegex.FindStringSubmatch(strings.TrimSpace(input)); m != nil {
		if n, ok := cjkNumbers[m[1]]; ok {
			return day.AddDate(0, 0, n), nil
		}
	}

	if t, err := time.Parse(isoDate, s); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unrecognized date expression %q", input)
}

// midnight is the start of t's calendar day in t's own location. Truncating
// against the epoch would shift the day for non-UTC locations.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
