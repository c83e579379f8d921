package sim

// GrowthTuning holds the hand-tuned balance constants for the daily tile
// update. The thresholds and multipliers are configuration, not physics:
// nothing downstream assumes their exact values.
type GrowthTuning struct {
	// Moisture below WaterNeed*DryThreshold slows growth by DryPenalty;
	// moisture above WaterNeed*WetThreshold slows it by WetPenalty.
	DryThreshold float64
	DryPenalty   float64
	WetThreshold float64
	WetPenalty   float64

	// Nitrogen below NitrogenNeed*NitrogenThreshold slows growth by
	// NitrogenPenalty.
	NitrogenThreshold float64
	NitrogenPenalty   float64

	// Growth in winter is scaled by WinterPenalty.
	WinterPenalty float64

	// Daily nitrogen draw per unit of NitrogenNeed while planted, and
	// recovery while fallow.
	NitrogenDraw   float64
	FallowRecovery float64

	// Harvest economics.
	HarvestSoilDamage float64
	SoilFloor         float64
	SeedCost          int
	StartingMoney     int
}

// DefaultTuning returns the standard balance constants.
func DefaultTuning() GrowthTuning {
	return GrowthTuning{
		DryThreshold:      0.5,
		DryPenalty:        0.5,
		WetThreshold:      1.5,
		WetPenalty:        0.8,
		NitrogenThreshold: 0.5,
		NitrogenPenalty:   0.6,
		WinterPenalty:     0.1,
		NitrogenDraw:      0.001,
		FallowRecovery:    0.001,
		HarvestSoilDamage: 0.05,
		SoilFloor:         0.1,
		SeedCost:          10,
		StartingMoney:     500,
	}
}
