package core

import "fmt"

// State is the consultation value threaded through the stage chain. Each
// result field is written exactly once, by its owning stage, and only ever
// read by the next stage downstream. A State belongs to a single traversal
// of the chain and must not be shared across concurrent consultations.
type State struct {
	UserInput               map[string]any `json:"user_input"`
	SessionID               string         `json:"session_id"`
	FinancialAnalysis       string         `json:"financial_analysis"`
	PortfolioRecommendation string         `json:"portfolio_recommendation"`
	RiskAnalysis            string         `json:"risk_analysis"`
}

// NewState constructs the initial state for one consultation.
func NewState(userInput map[string]any, sessionID string) *State {
	return &State{UserInput: userInput, SessionID: sessionID}
}

// StageInput returns the payload a stage consumes: the external user request
// for the first stage, the previous stage's output for every later one.
func (s *State) StageInput(stage Stage) any {
	switch stage {
	case StageFinancial:
		return s.UserInput
	case StagePortfolio:
		return s.FinancialAnalysis
	case StageRisk:
		return s.PortfolioRecommendation
	}
	return nil
}

// SetResult stores a stage's final output into its owning field. It returns
// an error if the field was already populated, guarding the write-once
// invariant of the strictly forward data flow.
func (s *State) SetResult(stage Stage, result string) error {
	switch stage {
	case StageFinancial:
		if s.FinancialAnalysis != "" {
			return fmt.Errorf("financial analysis already set")
		}
		s.FinancialAnalysis = result
	case StagePortfolio:
		if s.PortfolioRecommendation != "" {
			return fmt.Errorf("portfolio recommendation already set")
		}
		s.PortfolioRecommendation = result
	case StageRisk:
		if s.RiskAnalysis != "" {
			return fmt.Errorf("risk analysis already set")
		}
		s.RiskAnalysis = result
	default:
		return fmt.Errorf("unknown stage %q", stage)
	}
	return nil
}
