package volume

// Status classifies a current volume against its landmarks.
// Statuses are ordered by severity: BelowMEV < Optimal < ApproachingMRV < ExceedingMRV.
type Status string

const (
	StatusBelowMEV       Status = "below_mev"
	StatusOptimal        Status = "optimal"
	StatusApproachingMRV Status = "approaching_mrv"
	StatusExceedingMRV   Status = "exceeding_mrv"
)

const (
	RecommendationBelowMEV       = "Volume is below MEV: increase weekly sets toward the minimum effective volume."
	RecommendationOptimal        = "Volume is in the productive range: keep progressing gradually."
	RecommendationApproachingMRV = "Volume is approaching MRV: monitor fatigue and consider holding volume."
	RecommendationExceedingMRV   = "Volume exceeds MRV: reduce volume or insert a deload."
)

func (s Status) String() string {
	return string(s)
}

// Severity is 0 for BelowMEV up to 3 for ExceedingMRV, -1 for unknown statuses.
func (s Status) Severity() int {
	switch s {
	case StatusBelowMEV:
		return 0
	case StatusOptimal:
		return 1
	case StatusApproachingMRV:
		return 2
	case StatusExceedingMRV:
		return 3
	default:
		return -1
	}
}

// Classify maps the current volume onto the landmark bands:
//
//	current <  mev          -> BelowMEV
//	mev <= current <= mav   -> Optimal
//	mav <  current <= mrv   -> ApproachingMRV
//	current >  mrv          -> ExceedingMRV
//
// A degenerate landmark (mev == mav == mrv) leaves an Optimal band of zero width.
func Classify(current, mev, mav, mrv float64) (Status, string) {
	switch {
	case current < mev:
		return StatusBelowMEV, RecommendationBelowMEV
	case current <= mav:
		return StatusOptimal, RecommendationOptimal
	case current <= mrv:
		return StatusApproachingMRV, RecommendationApproachingMRV
	default:
		return StatusExceedingMRV, RecommendationExceedingMRV
	}
}
