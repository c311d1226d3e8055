package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/kurikula/internal/domain"
)

// parseNullableTime parses a sql.NullString into a *time.Time using the given layout.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatTime converts a time to the UTC form stored in SQLite.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// nowUTC returns the current UTC time.
func nowUTC() time.Time {
	return time.Now().UTC()
}

// stagePayload marshals the records of one stage.
func stagePayload(plan domain.Plan, stage domain.Stage) ([]byte, error) {
	var v any
	switch stage {
	case domain.StageObjectives:
		v = plan.Objectives
	case domain.StageFlow:
		v = plan.Flow
	case domain.StageAnnual:
		v = plan.Annual
	case domain.StageSemester:
		v = plan.Semester
	default:
		return nil, fmt.Errorf("unknown stage %q", stage)
	}
	return json.Marshal(v)
}

// decodeStage unmarshals a stored payload into the matching plan field.
func decodeStage(plan *domain.Plan, stage domain.Stage, payload []byte) error {
	var err error
	switch stage {
	case domain.StageObjectives:
		err = json.Unmarshal(payload, &plan.Objectives)
	case domain.StageFlow:
		err = json.Unmarshal(payload, &plan.Flow)
	case domain.StageAnnual:
		err = json.Unmarshal(payload, &plan.Annual)
	case domain.StageSemester:
		err = json.Unmarshal(payload, &plan.Semester)
	default:
		return fmt.Errorf("unknown stage %q", stage)
	}
	if err != nil {
		return fmt.Errorf("decoding %s payload: %w", stage, err)
	}
	return nil
}
