package db

import "fmt"

// StepEvent is one recorded step transition.
type StepEvent struct {
	ID        int64
	RunID     string
	Ordinal   int
	Step      string
	Event     string
	Detail    string
	Timestamp string
}

// StepEvent records a step lifecycle transition. Satisfies
// pipeline.Recorder.
func (d *DB) StepEvent(runID string, ordinal int, step, event, detail string) error {
	_, err := d.conn.Exec(
		"INSERT INTO step_events (run_id, ordinal, step, event, detail) VALUES (?, ?, ?, ?, ?)",
		runID, ordinal, step, event, detail)
	if err != nil {
		return fmt.Errorf("insert step event: %w", err)
	}
	return nil
}

// ListEvents returns the most recent events, newest first.
func (d *DB) ListEvents(limit int) ([]StepEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.conn.Query(
		"SELECT id, run_id, ordinal, step, event, COALESCE(detail, ''), timestamp FROM step_events ORDER BY id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("query step events: %w", err)
	}
	defer rows.Close()

	var events []StepEvent
	for rows.Next() {
		var e StepEvent
		if err := rows.Scan(&e.ID, &e.RunID, &e.Ordinal, &e.Step, &e.Event, &e.Detail, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan step event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
