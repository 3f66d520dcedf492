package catalog

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Field names used by the merge priority table and the change diff.
const (
	FieldSKU         = "sku"
	FieldBrand       = "brand"
	FieldPartNumber  = "part_number"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldUPC         = "upc"
	FieldCategory    = "category"
	FieldSubcategory = "subcategory"
	FieldPrice       = "price"
	FieldCostPrice   = "cost_price"
	FieldRetailPrice = "retail_price"
	FieldWeight      = "weight"
	FieldLength      = "length"
	FieldWidth       = "width"
	FieldHeight      = "height"
	FieldInventory   = "inventory"
	FieldActive      = "is_active"
	FieldImages      = "images"
	FieldFitments    = "fitments"

	// FieldAvailability is derived from inventory, never merged directly.
	FieldAvailability = "availability_description"
)

// DefaultRole is the source preferred for any field without an explicit
// priority entry.
const DefaultRole = RoleCatalog

// FieldPriority maps a field to the role whose value wins when both
// sources carry one. Commercial fields follow the distributor; the
// catalog feed owns everything descriptive.
var FieldPriority = map[string]SourceRole{
	FieldPrice:       RoleDistributor,
	FieldCostPrice:   RoleDistributor,
	FieldRetailPrice: RoleDistributor,
	FieldInventory:   RoleDistributor,
	FieldWeight:      RoleDistributor,
	FieldLength:      RoleDistributor,
	FieldWidth:       RoleDistributor,
	FieldHeight:      RoleDistributor,
	FieldImages:      RoleDistributor,
}

// PriorityFor returns the winning role for a field.
func PriorityFor(field string) SourceRole {
	if role, ok := FieldPriority[field]; ok {
		return role
	}
	return DefaultRole
}

// Merge combines a catalog part and a distributor part into one
// canonical part. For each field the prioritized source wins; the other
// source fills in only when the prioritized value is empty. A nil
// distributor part passes the catalog part through untouched.
//
// Empty means nil, a blank string, or a zero-length collection. A
// numeric zero is a real value and is never replaced.
func Merge(catalogPart Part, distributorPart *Part) Part {
	if distributorPart == nil {
		return catalogPart
	}

	pick := func(field string) (primary, fallback *Part) {
		if PriorityFor(field) == RoleDistributor {
			return distributorPart, &catalogPart
		}
		return &catalogPart, distributorPart
	}

	out := Part{}

	str := func(field string, get func(*Part) string) string {
		p, f := pick(field)
		if v := get(p); v != "" {
			return v
		}
		return get(f)
	}
	out.SKU = str(FieldSKU, func(p *Part) string { return p.SKU })
	out.Brand = str(FieldBrand, func(p *Part) string { return p.Brand })
	out.PartNumber = str(FieldPartNumber, func(p *Part) string { return p.PartNumber })
	out.Title = str(FieldTitle, func(p *Part) string { return p.Title })
	out.Description = str(FieldDescription, func(p *Part) string { return p.Description })
	out.UPC = str(FieldUPC, func(p *Part) string { return p.UPC })
	out.Category = str(FieldCategory, func(p *Part) string { return p.Category })
	out.Subcategory = str(FieldSubcategory, func(p *Part) string { return p.Subcategory })

	p, f := pick(FieldPrice)
	out.Price = firstDecimal(p.Price, f.Price)
	p, f = pick(FieldCostPrice)
	out.CostPrice = firstDecimal(p.CostPrice, f.CostPrice)
	p, f = pick(FieldRetailPrice)
	out.RetailPrice = firstDecimal(p.RetailPrice, f.RetailPrice)

	p, f = pick(FieldWeight)
	out.Weight = firstFloat(p.Weight, f.Weight)
	p, f = pick(FieldLength)
	out.Length = firstFloat(p.Length, f.Length)
	p, f = pick(FieldWidth)
	out.Width = firstFloat(p.Width, f.Width)
	p, f = pick(FieldHeight)
	out.Height = firstFloat(p.Height, f.Height)

	p, f = pick(FieldInventory)
	out.Inventory = firstInt(p.Inventory, f.Inventory)
	p, f = pick(FieldActive)
	out.Active = firstBool(p.Active, f.Active)

	p, f = pick(FieldImages)
	out.Images = firstImages(p.Images, f.Images)
	p, f = pick(FieldFitments)
	out.Fitments = firstFitments(p.Fitments, f.Fitments)

	out.CustomFields = mergeCustomFields(catalogPart.CustomFields, distributorPart.CustomFields)

	return out
}

// mergeCustomFields unions both sets keyed by field name. The
// distributor value overwrites the catalog value for a shared name.
// Output is sorted by name so merges are deterministic.
func mergeCustomFields(catalogFields, distributorFields []CustomField) []CustomField {
	if len(catalogFields) == 0 && len(distributorFields) == 0 {
		return nil
	}
	byName := make(map[string]string, len(catalogFields)+len(distributorFields))
	for _, cf := range catalogFields {
		byName[cf.Name] = cf.Value
	}
	for _, cf := range distributorFields {
		byName[cf.Name] = cf.Value
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]CustomField, 0, len(names))
	for _, name := range names {
		out = append(out, CustomField{Name: name, Value: byName[name]})
	}
	return out
}

func firstDecimal(primary, fallback *decimal.Decimal) *decimal.Decimal {
	if primary != nil {
		return primary
	}
	return fallback
}

func firstFloat(primary, fallback *float64) *float64 {
	if primary != nil {
		return primary
	}
	return fallback
}

func firstInt(primary, fallback *int) *int {
	if primary != nil {
		return primary
	}
	return fallback
}

func firstBool(primary, fallback *bool) *bool {
	if primary != nil {
		return primary
	}
	return fallback
}

func firstImages(primary, fallback []Image) []Image {
	if len(primary) > 0 {
		return primary
	}
	return fallback
}

func firstFitments(primary, fallback []Fitment) []Fitment {
	if len(primary) > 0 {
		return primary
	}
	return fallback
}
