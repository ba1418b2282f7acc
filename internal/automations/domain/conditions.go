package domain

import (
	"fmt"
	"sort"
	"time"
)

// Schedule is the cadence of a time-based rule.
type Schedule string

const (
	ScheduleDaily  Schedule = "daily"
	ScheduleHourly Schedule = "hourly"
)

// Symbolic engagement windows.
const (
	Window1Hour   = "1_hour"
	Window6Hours  = "6_hours"
	Window24Hours = "24_hours"
	Window7Days   = "7_days"
)

// TimeConditions are the parsed conditions of a time_based rule.
type TimeConditions struct {
	Schedule Schedule
	Times    []string // "HH:MM" entries
	Timezone string
}

// Location resolves the configured timezone, falling back to UTC.
func (c TimeConditions) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParseTimeConditions parses and validates time_based trigger conditions.
func ParseTimeConditions(m map[string]any) (TimeConditions, error) {
	cond := TimeConditions{
		Schedule: Schedule(stringValue(m, "schedule")),
		Times:    stringsValue(m, "times"),
		Timezone: stringValue(m, "timezone"),
	}
	if cond.Schedule != "" && cond.Schedule != ScheduleDaily && cond.Schedule != ScheduleHourly {
		return cond, &ConfigurationError{Field: "schedule", Reason: fmt.Sprintf("must be %q or %q", ScheduleDaily, ScheduleHourly)}
	}
	for _, t := range cond.Times {
		if _, err := time.Parse("15:04", t); err != nil {
			return cond, &ConfigurationError{Field: "times", Reason: fmt.Sprintf("%q is not a valid HH:MM time", t)}
		}
	}
	if cond.Timezone != "" {
		if _, err := time.LoadLocation(cond.Timezone); err != nil {
			return cond, &ConfigurationError{Field: "timezone", Reason: fmt.Sprintf("unknown timezone %q", cond.Timezone)}
		}
	}
	return cond, nil
}

// EngagementConditions are the parsed conditions of an engagement_based rule.
type EngagementConditions struct {
	EngagementRateThreshold float64
	TimeWindow              string
}

// Window maps the symbolic time window to a duration. Unrecognized symbols
// fall back to 24 hours.
func (c EngagementConditions) Window() time.Duration {
	switch c.TimeWindow {
	case Window1Hour:
		return time.Hour
	case Window6Hours:
		return 6 * time.Hour
	case Window24Hours:
		return 24 * time.Hour
	case Window7Days:
		return 7 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// ParseEngagementConditions parses engagement_based trigger conditions.
func ParseEngagementConditions(m map[string]any) (EngagementConditions, error) {
	cond := EngagementConditions{
		EngagementRateThreshold: floatValue(m, "engagement_rate_threshold", 5.0),
		TimeWindow:              stringValue(m, "time_window"),
	}
	if cond.EngagementRateThreshold < 0 {
		return cond, &ConfigurationError{Field: "engagement_rate_threshold", Reason: "must not be negative"}
	}
	return cond, nil
}

// TrendingConditions are the parsed conditions of a trending_topic rule.
type TrendingConditions struct {
	Platforms           []string
	EngagementThreshold float64
	RelevanceScore      float64
}

// ParseTrendingConditions parses trending_topic trigger conditions.
func ParseTrendingConditions(m map[string]any) (TrendingConditions, error) {
	cond := TrendingConditions{
		Platforms:           stringsValue(m, "platforms"),
		EngagementThreshold: floatValue(m, "engagement_threshold", 1000),
		RelevanceScore:      floatValue(m, "relevance_score", 0.7),
	}
	if len(cond.Platforms) == 0 {
		return cond, &ConfigurationError{Field: "platforms", Reason: "at least one platform is required"}
	}
	if cond.RelevanceScore < 0 || cond.RelevanceScore > 1 {
		return cond, &ConfigurationError{Field: "relevance_score", Reason: "must be between 0 and 1"}
	}
	return cond, nil
}

// MilestoneConditions are the parsed conditions of a follower_milestone rule.
type MilestoneConditions struct {
	Milestones []int64 // ascending
	Platforms  []string
}

// ParseMilestoneConditions parses follower_milestone trigger conditions.
// Milestone values are normalized to ascending order.
func ParseMilestoneConditions(m map[string]any) (MilestoneConditions, error) {
	cond := MilestoneConditions{
		Milestones: int64sValue(m, "milestones"),
		Platforms:  stringsValue(m, "platforms"),
	}
	if len(cond.Milestones) == 0 {
		return cond, &ConfigurationError{Field: "milestones", Reason: "at least one milestone is required"}
	}
	for _, v := range cond.Milestones {
		if v <= 0 {
			return cond, &ConfigurationError{Field: "milestones", Reason: "milestones must be positive"}
		}
	}
	sort.Slice(cond.Milestones, func(i, j int) bool { return cond.Milestones[i] < cond.Milestones[j] })
	return cond, nil
}

// ThresholdConditions are the parsed conditions of competitor_activity and
// content_performance rules: an external signal compared against a threshold.
type ThresholdConditions struct {
	Threshold float64
}

// ParseThresholdConditions parses threshold-style trigger conditions.
func ParseThresholdConditions(m map[string]any) (ThresholdConditions, error) {
	return ThresholdConditions{Threshold: floatValue(m, "threshold", 0)}, nil
}

// ValidateTriggerConditions checks the conditions map against the shape the
// trigger type expects. It is called at rule-creation time.
func ValidateTriggerConditions(t TriggerType, m map[string]any) error {
	var err error
	switch t {
	case TriggerTimeBased:
		_, err = ParseTimeConditions(m)
	case TriggerEngagementBased:
		_, err = ParseEngagementConditions(m)
	case TriggerTrendingTopic:
		_, err = ParseTrendingConditions(m)
	case TriggerFollowerMilestone:
		_, err = ParseMilestoneConditions(m)
	case TriggerCompetitorActivity, TriggerContentPerformance:
		_, err = ParseThresholdConditions(m)
	default:
		err = &ConfigurationError{Field: "trigger_type", Reason: "unknown trigger type " + string(t)}
	}
	return err
}

// CreatePostParameters are the parsed action parameters of a create_post rule.
type CreatePostParameters struct {
	ContentTopics   []string
	Platforms       []string
	Tone            string
	Length          string
	IncludeHashtags bool
}

// ParseCreatePostParameters parses create_post action parameters, applying
// the documented defaults.
func ParseCreatePostParameters(m map[string]any) (CreatePostParameters, error) {
	params := CreatePostParameters{
		ContentTopics:   stringsValue(m, "content_topics"),
		Platforms:       stringsValue(m, "platforms"),
		Tone:            stringValue(m, "tone"),
		Length:          stringValue(m, "length"),
		IncludeHashtags: boolValue(m, "include_hashtags", true),
	}
	if len(params.ContentTopics) == 0 {
		params.ContentTopics = []string{"general insights"}
	}
	if len(params.Platforms) == 0 {
		params.Platforms = []string{"twitter"}
	}
	if params.Tone == "" {
		params.Tone = "professional"
	}
	if params.Length == "" {
		params.Length = "medium"
	}
	return params, nil
}

// ValidateActionParameters checks the parameters map against the shape the
// action type expects. Placeholder actions accept any parameter map.
func ValidateActionParameters(a ActionType, m map[string]any) error {
	switch a {
	case ActionCreatePost:
		_, err := ParseCreatePostParameters(m)
		return err
	case ActionSchedulePost, ActionEngageWithContent, ActionFollowUsers,
		ActionAnalyzePerformance, ActionSendNotification:
		return nil
	default:
		return &ConfigurationError{Field: "action_type", Reason: "unknown action type " + string(a)}
	}
}

// Map value helpers. Condition maps arrive from JSON, so numbers may be
// float64 and lists may be []any.

func stringValue(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func stringsValue(m map[string]any, key string) []string {
	switch v := m[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{v}
	}
	return nil
}

func floatValue(m map[string]any, key string, def float64) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

func int64sValue(m map[string]any, key string) []int64 {
	switch v := m[key].(type) {
	case []int64:
		return v
	case []int:
		out := make([]int64, len(v))
		for i, n := range v {
			out[i] = int64(n)
		}
		return out
	case []any:
		out := make([]int64, 0, len(v))
		for _, item := range v {
			switch n := item.(type) {
			case float64:
				out = append(out, int64(n))
			case int:
				out = append(out, int64(n))
			case int64:
				out = append(out, n)
			}
		}
		return out
	}
	return nil
}

func boolValue(m map[string]any, key string, def bool) bool {
	if b, ok := m[key].(bool); ok {
		return b
	}
	return def
}
