package models

// Stage is a pipeline phase a deal sits in.
type Stage string

const (
	StageNewOpportunity         Stage = "new_opportunity"
	StageDiscoveryCallScheduled Stage = "discovery_call_scheduled"
	StageDiscoveryCallCompleted Stage = "discovery_call_completed"
	StageProposalPreparation    Stage = "proposal_preparation"
	StageProposalSent           Stage = "proposal_sent"
	StageProposalReview         Stage = "proposal_review"
	StageNegotiation            Stage = "negotiation"
	StageContractSent           Stage = "contract_sent"
	StageContractSigned         Stage = "contract_signed"
	StageProjectKickoff         Stage = "project_kickoff"
	StageOnHold                 Stage = "on_hold"
	StageLost                   Stage = "lost"
)
