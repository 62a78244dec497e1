// Package ingest parses the flat CSV extracts produced by the facility's
// collectors: badge swipes, the location master, meal transactions,
// equipment usage and meeting calendars, plus attendance claims.
//
// Malformed rows are logged and skipped; a bad row never fails an import.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shiftsense/shiftsense/internal/common"
	"github.com/shiftsense/shiftsense/internal/model"
)

// timeLayouts are accepted timestamp formats, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

func parseTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// header maps column names to indexes, case-insensitively.
type header map[string]int

func readHeader(r *csv.Reader) (header, error) {
	record, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	h := make(header, len(record))
	for i, name := range record {
		h[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return h, nil
}

func (h header) get(record []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// forEachRow streams records, logging and skipping rows the callback
// rejects.
func forEachRow(reader io.Reader, kind string, fn func(header, []string) error) error {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1

	h, err := readHeader(r)
	if err != nil {
		return err
	}

	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			return nil
		}
		line++
		if err != nil {
			common.LogWarn("skipping unreadable row", common.Fields{"source": kind, "line": line, "error": err.Error()})
			continue
		}
		if err := fn(h, record); err != nil {
			common.LogWarn("skipping malformed row", common.Fields{"source": kind, "line": line, "error": err.Error()})
		}
	}
}

// ReadBadgeEvents parses a badge swipe extract:
// employee_id, timestamp, device_id, location, direction.
func ReadBadgeEvents(reader io.Reader, loc *time.Location) ([]model.RawEvent, error) {
	var events []model.RawEvent
	err := forEachRow(reader, "badge", func(h header, record []string) error {
		employee := h.get(record, "employee_id")
		if employee == "" {
			return common.ErrMissingEmployee
		}
		ts, err := parseTime(h.get(record, "timestamp"), loc)
		if err != nil {
			return err
		}
		events = append(events, model.RawEvent{
			EmployeeID: employee,
			Timestamp:  ts,
			DeviceID:   h.get(record, "device_id"),
			Location:   h.get(record, "location"),
			Direction:  model.Direction(strings.ToUpper(h.get(record, "direction"))),
			Source:     model.SourceBadge,
		})
		return nil
	})
	return events, err
}

// ReadLocationMaster parses the location master extract:
// device_id, display_name, gate_name, zone_code, direction,
// allowed_activities (pipe separated).
func ReadLocationMaster(reader io.Reader) ([]model.LocationMasterEntry, error) {
	var entries []model.LocationMasterEntry
	err := forEachRow(reader, "location_master", func(h header, record []string) error {
		device := h.get(record, "device_id")
		zone := model.ZoneCode(strings.ToUpper(h.get(record, "zone_code")))
		if device == "" {
			return fmt.Errorf("missing device id")
		}
		if !zone.Valid() {
			return fmt.Errorf("invalid zone code %q", h.get(record, "zone_code"))
		}
		entry := model.LocationMasterEntry{
			DeviceID:    device,
			DisplayName: h.get(record, "display_name"),
			GateName:    h.get(record, "gate_name"),
			Zone:        zone,
			Direction:   model.Direction(strings.ToUpper(h.get(record, "direction"))),
		}
		if allowed := h.get(record, "allowed_activities"); allowed != "" {
			for _, a := range strings.Split(allowed, "|") {
				entry.AllowedActivities = append(entry.AllowedActivities, model.ActivityCode(strings.TrimSpace(a)))
			}
		}
		entries = append(entries, entry)
		return nil
	})
	return entries, err
}

// ReadMealEvents parses a meal transaction extract:
// employee_id, timestamp, category, service_point, takeout.
func ReadMealEvents(reader io.Reader, loc *time.Location) ([]model.RawEvent, error) {
	var events []model.RawEvent
	err := forEachRow(reader, "meal", func(h header, record []string) error {
		employee := h.get(record, "employee_id")
		if employee == "" {
			return common.ErrMissingEmployee
		}
		ts, err := parseTime(h.get(record, "timestamp"), loc)
		if err != nil {
			return err
		}
		takeout, _ := strconv.ParseBool(h.get(record, "takeout"))
		events = append(events, model.RawEvent{
			EmployeeID:  employee,
			Timestamp:   ts,
			Location:    h.get(record, "service_point"),
			Source:      model.SourceMeal,
			Payload:     h.get(record, "category"),
			MealKind:    mealCategory(h.get(record, "category")),
			TakeoutFlag: takeout,
		})
		return nil
	})
	return events, err
}

func mealCategory(category string) model.ActivityCode {
	switch strings.ToLower(category) {
	case "breakfast":
		return model.ActivityBreakfast
	case "lunch":
		return model.ActivityLunch
	case "dinner":
		return model.ActivityDinner
	case "midnight":
		return model.ActivityMidnightMeal
	}
	return ""
}

// ReadEquipmentEvents parses an equipment/system usage extract:
// employee_id, timestamp, system.
func ReadEquipmentEvents(reader io.Reader, loc *time.Location) ([]model.RawEvent, error) {
	var events []model.RawEvent
	err := forEachRow(reader, "equipment", func(h header, record []string) error {
		employee := h.get(record, "employee_id")
		if employee == "" {
			return common.ErrMissingEmployee
		}
		ts, err := parseTime(h.get(record, "timestamp"), loc)
		if err != nil {
			return err
		}
		events = append(events, model.RawEvent{
			EmployeeID: employee,
			Timestamp:  ts,
			Source:     model.SourceEquipment,
			Payload:    h.get(record, "system"),
		})
		return nil
	})
	return events, err
}

// ReadMeetingEvents parses a calendar extract:
// employee_id, start, end, meeting_id. A row with no parseable end time
// still yields an event; it just loses its protected duration and behaves
// like a plain badge-equivalent meeting-room tag.
func ReadMeetingEvents(reader io.Reader, loc *time.Location) ([]model.RawEvent, error) {
	var events []model.RawEvent
	err := forEachRow(reader, "meeting", func(h header, record []string) error {
		employee := h.get(record, "employee_id")
		if employee == "" {
			return common.ErrMissingEmployee
		}
		start, err := parseTime(h.get(record, "start"), loc)
		if err != nil {
			return err
		}
		event := model.RawEvent{
			EmployeeID: employee,
			Timestamp:  start,
			Source:     model.SourceMeeting,
			Payload:    h.get(record, "meeting_id"),
		}
		if end, err := parseTime(h.get(record, "end"), loc); err == nil && end.After(start) {
			event.EndTime = &end
		}
		events = append(events, event)
		return nil
	})
	return events, err
}

// ReadClaims parses an attendance claim extract:
// employee_id, work_date, claimed_hours, schedule_type.
func ReadClaims(reader io.Reader, loc *time.Location) ([]model.ClaimRecord, error) {
	var claims []model.ClaimRecord
	err := forEachRow(reader, "claim", func(h header, record []string) error {
		employee := h.get(record, "employee_id")
		if employee == "" {
			return common.ErrMissingEmployee
		}
		day, err := time.ParseInLocation("2006-01-02", h.get(record, "work_date"), loc)
		if err != nil {
			return fmt.Errorf("unrecognized work date %q", h.get(record, "work_date"))
		}
		hours, err := strconv.ParseFloat(h.get(record, "claimed_hours"), 64)
		if err != nil {
			return fmt.Errorf("unrecognized claimed hours %q", h.get(record, "claimed_hours"))
		}
		schedule := model.ScheduleType(strings.ToLower(h.get(record, "schedule_type")))
		if schedule == "" {
			schedule = model.ScheduleStandard
		}
		claims = append(claims, model.ClaimRecord{
			EmployeeID:   employee,
			WorkDate:     day,
			ClaimedHours: hours,
			Schedule:     schedule,
		})
		return nil
	})
	return claims, err
}
