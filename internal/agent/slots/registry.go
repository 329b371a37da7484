// Package slots is the static catalog of photo capture slots required or
// offered for each inspection type.
package slots

import "convoyinspect/internal/agent/models"

type slotDef struct {
	Type  string
	Label string
}

var requiredByType = map[models.InspectionType][]slotDef{
	models.InspectionDeparture: {
		{Type: "front", Label: "Front"},
		{Type: "rear", Label: "Rear"},
		{Type: "left_side", Label: "Left side"},
		{Type: "right_side", Label: "Right side"},
		{Type: "dashboard", Label: "Dashboard"},
		{Type: "interior_front", Label: "Interior front"},
		{Type: "interior_rear", Label: "Interior rear"},
		{Type: "keys", Label: "Keys"},
	},
	models.InspectionArrival: {
		{Type: "front", Label: "Front"},
		{Type: "rear", Label: "Rear"},
		{Type: "left_side", Label: "Left side"},
		{Type: "right_side", Label: "Right side"},
		{Type: "dashboard", Label: "Dashboard"},
		{Type: "interior_front", Label: "Interior front"},
		{Type: "interior_rear", Label: "Interior rear"},
		{Type: "keys", Label: "Keys"},
	},
}

var optionalByType = map[models.InspectionType][]slotDef{
	models.InspectionDeparture: {
		{Type: "engine_bay", Label: "Engine bay"},
		{Type: "trunk", Label: "Trunk"},
		{Type: "roof", Label: "Roof"},
		{Type: "wheels", Label: "Wheels"},
	},
	models.InspectionArrival: {
		{Type: "trunk", Label: "Trunk"},
		{Type: "fuel_receipt", Label: "Final fuel receipt"},
	},
}

// Required returns fresh, uncaptured required slots for the given type.
func Required(t models.InspectionType) []models.PhotoSlot {
	return build(requiredByType[t])
}

// Optional returns fresh, uncaptured optional slots for the given type.
// Optional slots never block a step transition.
func Optional(t models.InspectionType) []models.PhotoSlot {
	return build(optionalByType[t])
}

func build(defs []slotDef) []models.PhotoSlot {
	out := make([]models.PhotoSlot, 0, len(defs))
	for _, d := range defs {
		out = append(out, models.PhotoSlot{Type: d.Type, Label: d.Label})
	}
	return out
}
