package session

import (
	"fmt"
	"strings"

	"convoyinspect/internal/agent/models"
)

// Gate is the result of a step gate check: either passable, or blocked with
// a human-readable reason the UI surfaces next to the disabled Next button.
type Gate struct {
	OK     bool
	Reason string
}

func pass() Gate { return Gate{OK: true} }

func blocked(format string, args ...any) Gate {
	return Gate{Reason: fmt.Sprintf(format, args...)}
}

// CheckAdvance reports whether the session may leave its current step. It is
// a pure function: it never mutates state and never fails with an error.
func (s *Session) CheckAdvance() Gate {
	switch s.step {
	case StepPhotos:
		return s.checkPhotos()
	case StepDetails:
		return s.checkDetails()
	case StepConditions:
		return s.checkConditions()
	case StepSignatures:
		return s.checkSignatures()
	default:
		return blocked("no forward transition from %s", s.step)
	}
}

// checkPhotos requires every required slot to be captured. Optional and
// damage slots never block.
func (s *Session) checkPhotos() Gate {
	var missing []string
	for _, slot := range s.required {
		if !slot.Captured {
			missing = append(missing, slot.Label)
		}
	}
	if len(missing) > 0 {
		return blocked("%d required photo(s) missing: %s", len(missing), strings.Join(missing, ", "))
	}
	return pass()
}

func (s *Session) checkDetails() Gate {
	if s.mileageKm == nil {
		return blocked("mileage is required")
	}
	if *s.mileageKm < 0 {
		return blocked("mileage cannot be negative")
	}
	if s.fuelLevelPct == nil {
		return blocked("fuel level is required")
	}
	if *s.fuelLevelPct < 0 || *s.fuelLevelPct > 100 {
		return blocked("fuel level must be between 0 and 100")
	}
	return pass()
}

// checkConditions gates step 3, whose content depends on the inspection
// type: departures record the vehicle condition, arrivals record expenses
// (all of which are optional).
func (s *Session) checkConditions() Gate {
	if s.inspectionType == models.InspectionDeparture && s.condition == "" {
		return blocked("overall vehicle condition is required")
	}
	return pass()
}

func (s *Session) checkSignatures() Gate {
	if s.clientSig == nil || len(s.clientSig.Data) == 0 {
		return blocked("client signature is required")
	}
	if strings.TrimSpace(s.clientName) == "" {
		return blocked("client signer name is required")
	}
	if s.driverSig == nil || len(s.driverSig.Data) == 0 {
		return blocked("driver signature is required")
	}
	if strings.TrimSpace(s.driverName) == "" {
		return blocked("driver signer name is required")
	}
	return pass()
}
