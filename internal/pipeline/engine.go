package pipeline

import "time"

// CallOutcomeEvent is the part of a call the engine decides on.
type CallOutcomeEvent struct {
	Outcome   Outcome
	DealValue *float64
	At        time.Time
}

// ClientPatch is the set of client fields a call outcome changes.
// Nil pointers leave the stored value untouched.
type ClientPatch struct {
	LastContactDate time.Time
	Stage           *Stage
	ClosedDate      *time.Time
	DealValue       *float64
}

// ChangesStage reports whether applying the patch to a client currently in
// current moves it to a different stage.
func (p ClientPatch) ChangesStage(current Stage) bool {
	return p.Stage != nil && *p.Stage != current
}

type outcomeRule struct {
	target      Stage
	setsStage   bool
	closes      bool
	carriesDeal bool
	// onlyFrom restricts the transition to clients currently in this stage.
	onlyFrom Stage
}

// Qualified is guarded so a late call cannot drag a client back from a later
// stage. Closing outcomes are not guarded and overwrite any stage.
var outcomeRules = map[Outcome]outcomeRule{
	OutcomeClosedWon:         {target: StageClosedWon, setsStage: true, closes: true, carriesDeal: true},
	OutcomeClosedLost:        {target: StageClosedLost, setsStage: true, closes: true},
	OutcomeProposalSent:      {target: StageProposal, setsStage: true},
	OutcomeNegotiation:       {target: StageNegotiation, setsStage: true},
	OutcomeQualified:         {target: StageQualified, setsStage: true, onlyFrom: StageLead},
	OutcomeNotInterested:     {target: StageClosedLost, setsStage: true},
	OutcomeNoAnswer:          {},
	OutcomeVoicemail:         {},
	OutcomeCallbackRequested: {},
}

// DeriveClientUpdate decides how a call outcome changes the client it was
// logged against. The patch always refreshes the last contact date;
// unrecognized outcomes change nothing else.
func DeriveClientUpdate(event CallOutcomeEvent, current Stage) ClientPatch {
	patch := ClientPatch{LastContactDate: event.At}

	rule, ok := outcomeRules[event.Outcome]
	if !ok || !rule.setsStage {
		return patch
	}
	if rule.onlyFrom != "" && current != rule.onlyFrom {
		return patch
	}

	target := rule.target
	patch.Stage = &target

	if rule.closes {
		closedAt := event.At
		patch.ClosedDate = &closedAt
	}
	if rule.carriesDeal && event.DealValue != nil && *event.DealValue != 0 {
		value := *event.DealValue
		patch.DealValue = &value
	}

	return patch
}
