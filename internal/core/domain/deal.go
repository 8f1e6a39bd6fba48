package domain

import "time"

// DealStage is the pipeline phase of a deal.
type DealStage string

const (
	StageProspecting   DealStage = "prospecting"
	StageQualification DealStage = "qualification"
	StageProposal      DealStage = "proposal"
	StageNegotiation   DealStage = "negotiation"
	StageClosed        DealStage = "closed"
	StageLost          DealStage = "lost"
)

// PipelineStages is the fixed display order of the deal pipeline.
var PipelineStages = []DealStage{
	StageProspecting,
	StageQualification,
	StageProposal,
	StageNegotiation,
	StageClosed,
	StageLost,
}

// Valid reports whether s is one of the known stages.
func (s DealStage) Valid() bool {
	for _, st := range PipelineStages {
		if st == s {
			return true
		}
	}
	return false
}

// Deal is a sales opportunity. CustomerID is a soft reference.
type Deal struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	CustomerID        string     `json:"customerId"`
	CustomerName      string     `json:"customerName"`
	Value             float64    `json:"value"`
	Stage             DealStage  `json:"stage"`
	Probability       int        `json:"probability"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate,omitempty"`
	CloseDate         *time.Time `json:"closeDate,omitempty"`
	Notes             string     `json:"notes"`
	CreatedAt         time.Time  `json:"createdAt"`
}

func (d Deal) GetID() string { return d.ID }
