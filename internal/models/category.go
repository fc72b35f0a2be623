// Package models defines the fixed category and price tables.
package models

import "strings"

// Database-side category names used by the spa backend.
const (
	CategoryFacial  = "Facial"
	CategoryMassage = "Massage"
	CategoryCombo   = "Facial + Massage"
)

// Chat-side category names accepted from users.
const (
	UserCategoryFacial  = "facial"
	UserCategoryMassage = "massage"
	UserCategoryCombo   = "combo"
)

// categoryPayments is the fixed price lookup table.
var categoryPayments = map[string]float64{
	CategoryFacial:  100.00,
	CategoryMassage: 120.00,
	CategoryCombo:   200.00,
}

// PaymentForCategory returns the fixed payment for a database category name.
// Unrecognized categories return 0.
func PaymentForCategory(category string) float64 {
	return categoryPayments[category]
}

// IsValidUserCategory reports whether the trimmed, lowercased input is one of
// the chat-accepted category answers.
func IsValidUserCategory(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case UserCategoryFacial, UserCategoryMassage, UserCategoryCombo:
		return true
	default:
		return false
	}
}

// TranslateCategoryToDatabase converts a chat-side category answer to the name
// the backend stores. Unrecognized input passes through unchanged.
func TranslateCategoryToDatabase(userCategory string) string {
	switch strings.ToLower(strings.TrimSpace(userCategory)) {
	case UserCategoryFacial:
		return CategoryFacial
	case UserCategoryMassage:
		return CategoryMassage
	case UserCategoryCombo:
		return CategoryCombo
	default:
		return userCategory
	}
}

// TranslateCategoryToUser converts a database category name to the short form
// shown in chat. Unrecognized input passes through unchanged.
func TranslateCategoryToUser(dbCategory string) string {
	switch dbCategory {
	case CategoryFacial:
		return UserCategoryFacial
	case CategoryMassage:
		return UserCategoryMassage
	case CategoryCombo:
		return UserCategoryCombo
	default:
		return dbCategory
	}
}
