package catalog

import (
	"math"

	"github.com/shopspring/decimal"
)

// FieldChange records the before and after value of one field for the
// sync history.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// floatTolerance absorbs rounding drift between our serialized
// snapshots and values echoed back by remote APIs.
const floatTolerance = 0.01

// Diff compares a freshly merged part against the last-synced snapshot
// and reports which fields changed. A nil snapshot means the part has
// never been synced and always counts as changed.
//
// Images are reconciled separately during update, so they never appear
// in the diff map. The derived availability description is compared in
// place of raw inventory presentation.
func Diff(current Part, snapshot *Part) (map[string]FieldChange, bool) {
	if snapshot == nil {
		return nil, true
	}

	changes := make(map[string]FieldChange)

	cmpStr := func(field, oldV, newV string) {
		if oldV != newV {
			changes[field] = FieldChange{Old: oldV, New: newV}
		}
	}
	cmpStr(FieldSKU, snapshot.SKU, current.SKU)
	cmpStr(FieldBrand, snapshot.Brand, current.Brand)
	cmpStr(FieldPartNumber, snapshot.PartNumber, current.PartNumber)
	cmpStr(FieldTitle, snapshot.Title, current.Title)
	cmpStr(FieldDescription, snapshot.Description, current.Description)
	cmpStr(FieldUPC, snapshot.UPC, current.UPC)
	cmpStr(FieldCategory, snapshot.Category, current.Category)
	cmpStr(FieldSubcategory, snapshot.Subcategory, current.Subcategory)

	cmpDec := func(field string, oldV, newV *decimal.Decimal) {
		if !decimalsEqual(oldV, newV) {
			changes[field] = FieldChange{Old: oldV, New: newV}
		}
	}
	cmpDec(FieldPrice, snapshot.Price, current.Price)
	cmpDec(FieldCostPrice, snapshot.CostPrice, current.CostPrice)
	cmpDec(FieldRetailPrice, snapshot.RetailPrice, current.RetailPrice)

	// Weight and dimensions treat an absent value as zero; feeds flip
	// between omitting a dimension and sending 0.0 for the same part.
	cmpDim := func(field string, oldV, newV *float64) {
		if !dimensionsEqual(oldV, newV) {
			changes[field] = FieldChange{Old: oldV, New: newV}
		}
	}
	cmpDim(FieldWeight, snapshot.Weight, current.Weight)
	cmpDim(FieldLength, snapshot.Length, current.Length)
	cmpDim(FieldWidth, snapshot.Width, current.Width)
	cmpDim(FieldHeight, snapshot.Height, current.Height)

	if intOrZero(snapshot.Inventory) != intOrZero(current.Inventory) {
		changes[FieldInventory] = FieldChange{Old: snapshot.Inventory, New: current.Inventory}
	}
	if oldAvail, newAvail := snapshot.AvailabilityDescription(), current.AvailabilityDescription(); oldAvail != newAvail {
		changes[FieldAvailability] = FieldChange{Old: oldAvail, New: newAvail}
	}

	if boolOrFalse(snapshot.Active) != boolOrFalse(current.Active) {
		changes[FieldActive] = FieldChange{Old: snapshot.Active, New: current.Active}
	}

	if !fitmentsEqual(snapshot.Fitments, current.Fitments) {
		changes[FieldFitments] = FieldChange{Old: snapshot.SortedFitments(), New: current.SortedFitments()}
	}

	if !customFieldsEqual(snapshot.CustomFields, current.CustomFields) {
		changes["custom_fields"] = FieldChange{Old: snapshot.CustomFields, New: current.CustomFields}
	}

	return changes, len(changes) > 0
}

func decimalsEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	diff, _ := a.Sub(*b).Abs().Float64()
	return diff < floatTolerance
}

func dimensionsEqual(a, b *float64) bool {
	return math.Abs(floatOrZero(a)-floatOrZero(b)) < floatTolerance
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func boolOrFalse(v *bool) bool {
	return v != nil && *v
}

// fitmentsEqual compares fitment sets without regard to order.
func fitmentsEqual(a, b []Fitment) bool {
	if len(a) != len(b) {
		return false
	}
	sortedA := (&Part{Fitments: a}).SortedFitments()
	sortedB := (&Part{Fitments: b}).SortedFitments()
	for i := range sortedA {
		if sortedA[i] != sortedB[i] {
			return false
		}
	}
	return true
}

// customFieldsEqual compares the fields as a name to value mapping.
func customFieldsEqual(a, b []CustomField) bool {
	if len(a) != len(b) {
		return false
	}
	byName := make(map[string]string, len(a))
	for _, cf := range a {
		byName[cf.Name] = cf.Value
	}
	for _, cf := range b {
		v, ok := byName[cf.Name]
		if !ok || v != cf.Value {
			return false
		}
	}
	return true
}
