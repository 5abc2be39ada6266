package cart

import (
	"context"

	"github.com/google/uuid"
)

// CheckReason explains why a line item failed validation.
type CheckReason string

const (
	ReasonProductNotFound CheckReason = "product_not_found"
	ReasonProductDisabled CheckReason = "product_disabled"
	ReasonUnitsExceeded   CheckReason = "units_exceeded"
)

// CheckResult is the validation outcome of one line item.
type CheckResult struct {
	LineItemID uuid.UUID     `json:"lineItemId"`
	ProductID  string        `json:"productId"`
	Name       string        `json:"name"`
	Units      int           `json:"units"`
	MaxUnits   int           `json:"maxUnits,omitempty"`
	Reasons    []CheckReason `json:"reasons,omitempty"`
}

// Failed reports whether the item violated at least one rule.
func (r CheckResult) Failed() bool {
	return len(r.Reasons) > 0
}

// ValidationReport lists one check per line item, in cart order.
type ValidationReport struct {
	Checks      []CheckResult `json:"checks"`
	CheckFailed bool          `json:"checkFailed"`
}

// Failures returns the checks that failed.
func (r *ValidationReport) Failures() []CheckResult {
	var failures []CheckResult
	for _, check := range r.Checks {
		if check.Failed() {
			failures = append(failures, check)
		}
	}
	return failures
}

// ValidateItems checks every item against the current catalog state.
// An item fails when its product is gone or disabled, or when its units exceed
// the product's ceiling. The report is a point-in-time answer and must not be cached.
func ValidateItems(ctx context.Context, catalog CatalogLookup, items []LineItem) (*ValidationReport, error) {
	report := &ValidationReport{Checks: make([]CheckResult, 0, len(items))}

	for _, item := range items {
		check := CheckResult{
			LineItemID: item.ID,
			ProductID:  item.ProductID,
			Name:       item.Name,
			Units:      item.Units,
		}

		product, err := catalog.Resolve(ctx, item.ProductID)
		if err != nil {
			return nil, collaboratorError("catalog lookup", err)
		}

		switch {
		case product == nil:
			check.Reasons = append(check.Reasons, ReasonProductNotFound)
		default:
			check.MaxUnits = product.MaxUnits
			if !product.Sellable {
				check.Reasons = append(check.Reasons, ReasonProductDisabled)
			}
			if product.MaxUnits > 0 && item.Units > product.MaxUnits {
				check.Reasons = append(check.Reasons, ReasonUnitsExceeded)
			}
		}

		if check.Failed() {
			report.CheckFailed = true
		}
		report.Checks = append(report.Checks, check)
	}

	return report, nil
}

// ValidateContent checks catalog availability and unit ceilings of every line item
// against the live catalog.
func (c *Cart) ValidateContent(ctx context.Context) (*ValidationReport, error) {
	catalog := c.deps.LiveCatalog
	if catalog == nil {
		catalog = c.deps.Catalog
	}

	report, err := ValidateItems(ctx, catalog, c.Items())
	if err != nil {
		return nil, err
	}

	if report.CheckFailed {
		c.logger.Debug().
			Int("failed_items", len(report.Failures())).
			Msg("cart content validation failed")
	}
	return report, nil
}

// Validate runs every cart check. Catalog availability is currently the only rule set,
// so it reports the same outcome as ValidateContent.
func (c *Cart) Validate(ctx context.Context) (*ValidationReport, error) {
	return c.ValidateContent(ctx)
}
