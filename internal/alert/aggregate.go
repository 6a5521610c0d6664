package alert

import (
	"fmt"
	"strconv"
	"time"

	"resto-suite-backend/internal/compliance"
	"resto-suite-backend/internal/model"
)

// Alert categories.
const (
	CategoryTemperature = "temperature"
	CategoryCleaning    = "cleaning"
	CategoryDLC         = "dlc"
)

// Alert severities.
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Once more than this many posts need cleaning at the same time, the whole
// cleaning category escalates to critical. Inherited policy threshold.
const cleaningBacklogThreshold = 3

// Alert is an ephemeral derived finding. Alerts are recomputed from entity
// rows and the current instant on every pass and never persisted; the
// category+target key makes re-derivation idempotent across refresh cycles.
type Alert struct {
	Category string `json:"category"`
	Severity string `json:"severity"`
	TargetID int64  `json:"target_id"`
	Message  string `json:"message"`
}

// Key identifies an alert across recomputation passes.
func (a Alert) Key() string {
	return a.Category + ":" + strconv.FormatInt(a.TargetID, 10)
}

// Input is the snapshot of fetched rows an aggregation pass runs over.
// Readings are expected to be the current day's; stale rows are harmless
// (they classify against the same bounds) but widen the temperature pass.
type Input struct {
	Equipment  []model.Equipment
	Readings   []model.TemperatureReading
	Tasks      []model.CleaningTask
	ShelfItems []model.ShelfLifeItem
	Now        time.Time
}

// Report is the categorized output of one aggregation pass.
type Report struct {
	Temperature []Alert   `json:"temperature"`
	Cleaning    []Alert   `json:"cleaning"`
	DLC         []Alert   `json:"dlc"`
	GeneratedAt time.Time `json:"generated_at"`
}

// All flattens the report in category order.
func (r Report) All() []Alert {
	out := make([]Alert, 0, len(r.Temperature)+len(r.Cleaning)+len(r.DLC))
	out = append(out, r.Temperature...)
	out = append(out, r.Cleaning...)
	out = append(out, r.DLC...)
	return out
}

// CriticalKeys returns the keys of all critical alerts in the report.
func (r Report) CriticalKeys() map[string]Alert {
	out := make(map[string]Alert)
	for _, a := range r.All() {
		if a.Severity == SeverityCritical {
			out[a.Key()] = a
		}
	}
	return out
}

// Aggregate derives the full alert report from one snapshot of fetched rows.
// The computation is pure: same input, same report.
func Aggregate(in Input) Report {
	return Report{
		Temperature: temperatureAlerts(in),
		Cleaning:    cleaningAlerts(in),
		DLC:         shelfLifeAlerts(in),
		GeneratedAt: in.Now,
	}
}

// temperatureAlerts flags equipment with no reading today (warning) and
// equipment whose latest reading today is out of range (critical).
func temperatureAlerts(in Input) []Alert {
	latest := make(map[int64]model.TemperatureReading)
	for _, r := range in.Readings {
		if !compliance.SameDay(r.TakenAt, in.Now) {
			continue
		}
		if prev, ok := latest[r.EquipmentID]; !ok || r.TakenAt.After(prev.TakenAt) {
			latest[r.EquipmentID] = r
		}
	}

	var alerts []Alert
	for _, eq := range in.Equipment {
		reading, ok := latest[eq.ID]
		if !ok {
			alerts = append(alerts, Alert{
				Category: CategoryTemperature,
				Severity: SeverityWarning,
				TargetID: eq.ID,
				Message:  fmt.Sprintf("No temperature reading logged today for %s", eq.Name),
			})
			continue
		}

		if compliance.Classify(reading.Value, eq.BoundMin, eq.BoundMax) != compliance.LevelOK {
			alerts = append(alerts, Alert{
				Category: CategoryTemperature,
				Severity: SeverityCritical,
				TargetID: eq.ID,
				Message:  fmt.Sprintf("Reading %s°C out of range for %s", reading.Value.String(), eq.Name),
			})
		}
	}
	return alerts
}

// cleaningAlerts flags every post due for cleaning. The whole category
// escalates to critical once the backlog crosses the threshold; the
// escalation is global across the category, not per post.
func cleaningAlerts(in Input) []Alert {
	var alerts []Alert
	for _, task := range in.Tasks {
		if !compliance.NeedsPeriodicAction(compliance.Frequency(task.Frequency), task.LastCompletedAt, in.Now) {
			continue
		}
		alerts = append(alerts, Alert{
			Category: CategoryCleaning,
			Severity: SeverityWarning,
			TargetID: task.ID,
			Message:  fmt.Sprintf("Cleaning due for %s (%s)", task.PostName, task.Frequency),
		})
	}

	if len(alerts) > cleaningBacklogThreshold {
		for i := range alerts {
			alerts[i].Severity = SeverityCritical
		}
	}
	return alerts
}

// shelfLifeAlerts flags open items approaching or past their use-by date.
// Items already used or discarded carry no shelf-life risk and are skipped.
func shelfLifeAlerts(in Input) []Alert {
	var alerts []Alert
	for _, item := range in.ShelfItems {
		if item.Status == model.ShelfLifeUsed || item.Status == model.ShelfLifeDiscarded {
			continue
		}

		daysLeft := compliance.DaysUntil(item.ExpiresOn, in.Now)
		switch compliance.ShelfLifeLevel(daysLeft) {
		case compliance.LevelExpired:
			alerts = append(alerts, Alert{
				Category: CategoryDLC,
				Severity: SeverityCritical,
				TargetID: item.ID,
				Message:  fmt.Sprintf("%s expired %d day(s) ago", item.ProductName, -daysLeft),
			})
		case compliance.LevelCritical:
			alerts = append(alerts, Alert{
				Category: CategoryDLC,
				Severity: SeverityCritical,
				TargetID: item.ID,
				Message:  fmt.Sprintf("%s expires in %d day(s)", item.ProductName, daysLeft),
			})
		case compliance.LevelWarning:
			alerts = append(alerts, Alert{
				Category: CategoryDLC,
				Severity: SeverityWarning,
				TargetID: item.ID,
				Message:  fmt.Sprintf("%s expires in %d day(s)", item.ProductName, daysLeft),
			})
		}
	}
	return alerts
}

// NextUnresolved walks the flattened alert list and returns the first alert
// whose key is not in the resolved set, or nil when everything is handled.
func NextUnresolved(alerts []Alert, resolved map[string]bool) *Alert {
	for _, a := range alerts {
		if !resolved[a.Key()] {
			next := a
			return &next
		}
	}
	return nil
}
