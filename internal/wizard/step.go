package wizard

// Step identifies one of the five fixed wizard stages
type Step int

const (
	StepPersonalInfo Step = iota + 1
	StepBitcoinAssets
	StepBeneficiaries
	StepInstructions
	StepReview

	// TotalSteps is fixed; StepReview is terminal.
	TotalSteps = int(StepReview)
)

func (s Step) String() string {
	switch s {
	case StepPersonalInfo:
		return "Personal Info"
	case StepBitcoinAssets:
		return "Bitcoin Assets"
	case StepBeneficiaries:
		return "Beneficiaries"
	case StepInstructions:
		return "Instructions"
	case StepReview:
		return "Review & Generate"
	default:
		return "Unknown"
	}
}

// Valid reports whether s is within the fixed step range
func (s Step) Valid() bool {
	return s >= StepPersonalInfo && s <= StepReview
}
