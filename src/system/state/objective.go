package state

import "github.com/oakleaf-learning/scoring-core/src/system/interfaces"

type CompletionStatus string

const (
	CompletionNotAttempted CompletionStatus = "not attempted"
	CompletionIncomplete   CompletionStatus = "incomplete"
	CompletionCompleted    CompletionStatus = "completed"
	CompletionUnknown      CompletionStatus = "unknown"
)

type SuccessStatus string

const (
	SuccessPassed  SuccessStatus = "passed"
	SuccessFailed  SuccessStatus = "failed"
	SuccessUnknown SuccessStatus = "unknown"
)

type ScoreRecord struct {
	Score    float64
	MinScore float64
	MaxScore float64
}

type StatusRecord struct {
	Completion CompletionStatus
	Success    SuccessStatus
	HasSuccess bool
}

// Objective is the per-set SCORM-objective writer: objectiveDescription,
// objectiveScore and objectiveStatus, each keyed by the owning set's id.
// Intersected clones are given a noop Objective and never touch storage.
type Objective struct {
	storage interfaces.OfflineStorage
	id      string
	noop    bool
}

func NewObjective(storage interfaces.OfflineStorage, id string) *Objective {
	return &Objective{storage: storage, id: id}
}

func NewNoopObjective() *Objective {
	return &Objective{noop: true}
}

func (o *Objective) WriteDescription(title string) error {
	if o.noop || o.storage == nil {
		return nil
	}
	return o.storage.Set("objectiveDescription", o.id, title)
}

func (o *Objective) WriteScore(rec ScoreRecord) error {
	if o.noop || o.storage == nil {
		return nil
	}
	raw, err := o.storage.Serialize([]float64{rec.Score, rec.MinScore, rec.MaxScore})
	if err != nil {
		return err
	}
	return o.storage.Set("objectiveScore", o.id, raw)
}

func (o *Objective) WriteStatus(rec StatusRecord) error {
	if o.noop || o.storage == nil {
		return nil
	}
	payload := []string{string(rec.Completion)}
	if rec.HasSuccess {
		payload = append(payload, string(rec.Success))
	}
	raw, err := o.storage.Serialize(payload)
	if err != nil {
		return err
	}
	return o.storage.Set("objectiveStatus", o.id, raw)
}
