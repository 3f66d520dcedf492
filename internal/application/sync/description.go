package sync

import (
	"fmt"
	"html"
	"strings"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/catalog"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/sources"
)

// Description block types on the distributor item data payload.
const (
	descMarket    = "Market Description"
	descExtended  = "Product Description - Extended"
	descLong      = "Product Description - Long"
	descFeatures  = "Features and Benefits"
	descImportant = "Important Notes"
)

// File types carrying customer-facing documents.
const (
	fileInstruction = "Instruction Manual"
	fileOwners      = "Owners Manual"
	fileWarranty    = "Warranty"
)

// BuildDescription renders the storefront product description HTML
// from the distributor's typed description blocks and document files.
// Section order is fixed: overview, features, quick specs, important
// notes, then document links.
func BuildDescription(item sources.DistributorItem, data *sources.DistributorItemData) string {
	var b strings.Builder

	if overview := firstDescription(data.Descriptions, descMarket, descExtended, descLong); overview != "" {
		b.WriteString("<h3>Overview</h3>\n")
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(overview))
	}

	if features := firstDescription(data.Descriptions, descFeatures); features != "" {
		b.WriteString("<h3>Features and Benefits</h3>\n<ul>\n")
		for _, feature := range strings.Split(features, ";") {
			feature = strings.TrimSpace(feature)
			if feature == "" {
				continue
			}
			fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(feature))
		}
		b.WriteString("</ul>\n")
	}

	if specs := buildQuickSpecs(item); specs != "" {
		b.WriteString(specs)
	}

	if notes := firstDescription(data.Descriptions, descImportant); notes != "" {
		b.WriteString("<h3>Important Notes</h3>\n")
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(notes))
	}

	links := documentLinks(data.Files)
	if len(links) > 0 {
		b.WriteString("<h3>Documents</h3>\n<ul>\n")
		for _, link := range links {
			b.WriteString(link)
		}
		b.WriteString("</ul>\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// firstDescription returns the first non-empty block among the given
// types, in preference order.
func firstDescription(blocks []sources.ItemDescription, types ...string) string {
	for _, typ := range types {
		for _, block := range blocks {
			if block.Type == typ && strings.TrimSpace(block.Description) != "" {
				return strings.TrimSpace(block.Description)
			}
		}
	}
	return ""
}

// buildQuickSpecs renders the at-a-glance spec rows from item fields.
func buildQuickSpecs(item sources.DistributorItem) string {
	type row struct{ label, value string }
	rows := []row{
		{"Brand", item.BrandName},
		{"Part Number", item.MfrPartNumber},
		{"Category", item.Category},
		{"Subcategory", item.Subcategory},
	}
	for _, box := range item.Dimensions {
		if box.BoxNumber == 1 {
			rows = append(rows, row{
				"Dimensions (L x W x H)",
				fmt.Sprintf("%.1f x %.1f x %.1f in", box.Length, box.Width, box.Height),
			})
			rows = append(rows, row{"Weight", fmt.Sprintf("%.1f lb", box.Weight)})
			break
		}
	}

	var b strings.Builder
	for _, r := range rows {
		if r.value == "" {
			continue
		}
		fmt.Fprintf(&b, "<li><strong>%s:</strong> %s</li>\n",
			html.EscapeString(r.label), html.EscapeString(r.value))
	}
	if b.Len() == 0 {
		return ""
	}
	return "<h3>Quick Specs</h3>\n<ul>\n" + b.String() + "</ul>\n"
}

// documentLinks renders list items linking the customer documents.
func documentLinks(files []sources.ItemFile) []string {
	labels := map[string]string{
		fileInstruction: "Installation Instructions",
		fileOwners:      "Owner's Manual",
		fileWarranty:    "Warranty Information",
	}
	var links []string
	for _, typ := range []string{fileInstruction, fileOwners, fileWarranty} {
		for _, f := range files {
			if f.Type != typ || len(f.Links) == 0 {
				continue
			}
			links = append(links, fmt.Sprintf("<li><a href=\"%s\">%s</a></li>\n",
				f.Links[0].URL, labels[typ]))
			break
		}
	}
	return links
}

// fitmentTable renders the vehicle application table appended to the
// description when a part carries fitments.
func fitmentTable(fitments []catalog.Fitment) string {
	if len(fitments) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n<h3>Vehicle Fitment</h3>\n<table>\n")
	b.WriteString("<tr><th>Year</th><th>Make</th><th>Model</th></tr>\n")
	for _, f := range fitments {
		fmt.Fprintf(&b, "<tr><td>%d</td><td>%s</td><td>%s</td></tr>\n",
			f.Year, html.EscapeString(f.Make), html.EscapeString(f.Model))
	}
	b.WriteString("</table>")
	return b.String()
}
