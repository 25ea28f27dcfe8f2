package analytics

type WarningCode string

const (
	WarningCycleLengthOutOfRange WarningCode = "cycle_length_out_of_range"
	WarningLutealLengthClamped   WarningCode = "luteal_length_clamped"
	WarningLongPeriod            WarningCode = "long_period"
	WarningPeriodLengthClamped   WarningCode = "period_length_clamped"
	WarningCyclesExcluded        WarningCode = "implausible_cycles_excluded"
	WarningGhostCycleExcluded    WarningCode = "ghost_cycle_excluded"
	WarningReadingDiscarded      WarningCode = "reading_discarded"
	WarningAbnormalTemperature   WarningCode = "abnormal_temperature"
	WarningFeverBaseline         WarningCode = "fever_baseline_excluded"
	WarningMixedSources          WarningCode = "mixed_measurement_sources"
)

// Warning is a non-fatal issue attached to a result.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

func HasWarning(warnings []Warning, code WarningCode) bool {
	for _, warning := range warnings {
		if warning.Code == code {
			return true
		}
	}
	return false
}
