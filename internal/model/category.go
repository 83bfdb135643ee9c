// Package model defines domain types for budgetmon cost inputs and results.
package model

// Category names a cost bucket. The fixed labels below are always present;
// every configured machine name is a category as well.
type Category string

// Fixed categories. Their string values are the labels shown in reports.
const (
	LaborWorker Category = "Labor - Worker"
	LaborOffice Category = "Labor - Office"
	Material    Category = "Material"
)

// FixedCategories lists the non-machine categories in display order.
var FixedCategories = []Category{LaborWorker, LaborOffice, Material}

// IsFixed reports whether c is one of the built-in labor/material categories.
func (c Category) IsFixed() bool {
	switch c {
	case LaborWorker, LaborOffice, Material:
		return true
	}
	return false
}

func (c Category) String() string { return string(c) }
