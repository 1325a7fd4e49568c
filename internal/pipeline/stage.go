// Package pipeline holds the opportunity stage engine: the closed stage and
// outcome vocabularies and the pure decision that turns a call outcome into a
// client patch. Nothing here touches storage.
package pipeline

// Stage is a client's position in the sales pipeline.
type Stage string

const (
	StageLead        Stage = "lead"
	StageQualified   Stage = "qualified"
	StageProposal    Stage = "proposal"
	StageNegotiation Stage = "negotiation"
	StageClosedWon   Stage = "closed-won"
	StageClosedLost  Stage = "closed-lost"
)

// AllStages lists the stages in pipeline order.
var AllStages = []Stage{
	StageLead,
	StageQualified,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

// OpenStages contribute to pipeline value.
var OpenStages = []Stage{
	StageLead,
	StageQualified,
	StageProposal,
	StageNegotiation,
}

// Valid reports whether s is one of the six stages.
func (s Stage) Valid() bool {
	for _, st := range AllStages {
		if s == st {
			return true
		}
	}
	return false
}

// Outcome classifies the result of a call.
type Outcome string

const (
	OutcomeQualified         Outcome = "qualified"
	OutcomeProposalSent      Outcome = "proposal-sent"
	OutcomeNegotiation       Outcome = "negotiation"
	OutcomeClosedWon         Outcome = "closed-won"
	OutcomeClosedLost        Outcome = "closed-lost"
	OutcomeNoAnswer          Outcome = "no-answer"
	OutcomeVoicemail         Outcome = "voicemail"
	OutcomeCallbackRequested Outcome = "callback-requested"
	OutcomeNotInterested     Outcome = "not-interested"
)

// AllOutcomes lists every declared outcome.
var AllOutcomes = []Outcome{
	OutcomeQualified,
	OutcomeProposalSent,
	OutcomeNegotiation,
	OutcomeClosedWon,
	OutcomeClosedLost,
	OutcomeNoAnswer,
	OutcomeVoicemail,
	OutcomeCallbackRequested,
	OutcomeNotInterested,
}

// Valid reports whether o is a declared outcome.
func (o Outcome) Valid() bool {
	_, ok := outcomeRules[o]
	return ok
}
