package domain

import (
	"strconv"
	"strings"
)

const (
	minFrequencyMultiplier = 0.5
	maxFrequencyMultiplier = 2.0
)

// Preferences holds the per-user notification tuning knobs. Stored as a
// flat key-value record, so every field round-trips through strings.
type Preferences struct {
	// FrequencyMultiplier thins out (<1) or densifies (>1) the
	// generated notification set. Clamped to [0.5, 2.0].
	FrequencyMultiplier float64
	// MinimumLeadMinutes suppresses notifications closer than this to
	// the computation's "now".
	MinimumLeadMinutes int
	// DisabledPriorities fully disables a priority tier.
	DisabledPriorities map[Priority]bool
	// Quiet hours blackout window. Equal start and end means quiet
	// hours are off. Start > end wraps past midnight.
	QuietHoursStart ClockTime
	QuietHoursEnd   ClockTime
}

func DefaultPreferences() Preferences {
	return Preferences{
		FrequencyMultiplier: 1.0,
		DisabledPriorities:  map[Priority]bool{},
	}
}

func (p Preferences) PriorityDisabled(priority Priority) bool {
	return p.DisabledPriorities[priority]
}

func (p Preferences) QuietHoursEnabled() bool {
	return p.QuietHoursStart != p.QuietHoursEnd
}

// Flat key-value field names, matching the stored record.
const (
	PrefKeyFrequencyMultiplier = "frequencyMultiplier"
	PrefKeyMinimumLeadTime     = "minimumLeadTime"
	PrefKeyDisabledPriorities  = "disabledPriorities"
	PrefKeyQuietHoursStart     = "quietHoursStart"
	PrefKeyQuietHoursEnd       = "quietHoursEnd"
)

// PreferencesFromRecord decodes a flat key-value record into
// Preferences. Unknown keys are ignored and unparseable values fall
// back to defaults, so a corrupted record can never disable the engine.
func PreferencesFromRecord(record map[string]string) Preferences {
	prefs := DefaultPreferences()

	if raw, ok := record[PrefKeyFrequencyMultiplier]; ok {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			prefs.FrequencyMultiplier = parsed
		}
	}
	if prefs.FrequencyMultiplier < minFrequencyMultiplier {
		prefs.FrequencyMultiplier = minFrequencyMultiplier
	}
	if prefs.FrequencyMultiplier > maxFrequencyMultiplier {
		prefs.FrequencyMultiplier = maxFrequencyMultiplier
	}

	if raw, ok := record[PrefKeyMinimumLeadTime]; ok {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			prefs.MinimumLeadMinutes = parsed
		}
	}

	if raw, ok := record[PrefKeyDisabledPriorities]; ok && raw != "" {
		for _, entry := range strings.Split(raw, ",") {
			switch Priority(strings.TrimSpace(entry)) {
			case PriorityHigh:
				prefs.DisabledPriorities[PriorityHigh] = true
			case PriorityMedium:
				prefs.DisabledPriorities[PriorityMedium] = true
			case PriorityLow:
				prefs.DisabledPriorities[PriorityLow] = true
			}
		}
	}

	start, startErr := ParseClockTime(record[PrefKeyQuietHoursStart])
	end, endErr := ParseClockTime(record[PrefKeyQuietHoursEnd])
	if startErr == nil && endErr == nil {
		prefs.QuietHoursStart = start
		prefs.QuietHoursEnd = end
	}

	return prefs
}

// ToRecord encodes Preferences back into the flat key-value form.
func (p Preferences) ToRecord() map[string]string {
	disabled := make([]string, 0, len(p.DisabledPriorities))
	for _, priority := range []Priority{PriorityHigh, PriorityMedium, PriorityLow} {
		if p.DisabledPriorities[priority] {
			disabled = append(disabled, priority.String())
		}
	}

	return map[string]string{
		PrefKeyFrequencyMultiplier: strconv.FormatFloat(p.FrequencyMultiplier, 'f', -1, 64),
		PrefKeyMinimumLeadTime:     strconv.Itoa(p.MinimumLeadMinutes),
		PrefKeyDisabledPriorities:  strings.Join(disabled, ","),
		PrefKeyQuietHoursStart:     p.QuietHoursStart.String(),
		PrefKeyQuietHoursEnd:       p.QuietHoursEnd.String(),
	}
}
