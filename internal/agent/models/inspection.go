package models

import "time"

// InspectionType distinguishes the two inspections of a mission lifecycle.
type InspectionType string

const (
	InspectionDeparture InspectionType = "departure"
	InspectionArrival   InspectionType = "arrival"
)

// Valid reports whether t is one of the known inspection types.
func (t InspectionType) Valid() bool {
	return t == InspectionDeparture || t == InspectionArrival
}

// VehicleCondition is the agent's overall assessment of the vehicle.
type VehicleCondition string

const (
	ConditionExcellent VehicleCondition = "excellent"
	ConditionGood      VehicleCondition = "good"
	ConditionFair      VehicleCondition = "fair"
	ConditionPoor      VehicleCondition = "poor"
)

// Checklist holds the yes/no equipment checks recorded at step 3 of a
// departure inspection.
type Checklist struct {
	SpareWheel       bool `json:"spare_wheel"`
	Jack             bool `json:"jack"`
	SafetyVest       bool `json:"safety_vest"`
	WarningTriangle  bool `json:"warning_triangle"`
	RegistrationCard bool `json:"registration_card"`
	InsuranceCard    bool `json:"insurance_card"`
}

// PhotoSlot is a named placeholder for one captured photo.
//
// Invariant: Captured is true iff Asset is non-nil and was produced by the
// current process lifetime. Asset refs loaded from persistence are never
// resurrected.
type PhotoSlot struct {
	Type     string
	Label    string
	Asset    *AssetRef
	Captured bool
}

// ScannedDocument groups one or more scanned pages under a title. RemoteURL
// is set when the first page was opportunistically uploaded at capture time;
// that early save never substitutes for the final commit.
type ScannedDocument struct {
	ID        string
	Title     string
	Pages     []AssetRef
	RemoteURL string
}

// ExpenseCategory classifies a mission expense.
type ExpenseCategory string

const (
	ExpenseFuel    ExpenseCategory = "fuel"
	ExpenseToll    ExpenseCategory = "toll"
	ExpenseParking ExpenseCategory = "parking"
	ExpenseWash    ExpenseCategory = "wash"
	ExpenseOther   ExpenseCategory = "other"
)

// Expense is one cost incurred during the mission. Amounts are stored in
// cents to keep two-decimal arithmetic exact.
type Expense struct {
	ID          string
	Category    ExpenseCategory
	AmountCents int64
	Description string
	Receipt     *AssetRef
}

// Signature holds one captured signature. Bytes live only in memory; the
// persisted projection keeps a signed flag at most.
type Signature struct {
	SignerName string
	Data       []byte
	SignedAt   time.Time
}
