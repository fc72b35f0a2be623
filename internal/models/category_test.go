package models

import "testing"

func TestPaymentForCategory(t *testing.T) {
	tests := []struct {
		category string
		want     float64
	}{
		{CategoryFacial, 100.00},
		{CategoryMassage, 120.00},
		{CategoryCombo, 200.00},
		{"Pedicure", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := PaymentForCategory(tt.category); got != tt.want {
			t.Errorf("PaymentForCategory(%q) = %v, want %v", tt.category, got, tt.want)
		}
	}
}

func TestIsValidUserCategory(t *testing.T) {
	valid := []string{"facial", "massage", "combo", " FACIAL ", "Massage"}
	for _, input := range valid {
		if !IsValidUserCategory(input) {
			t.Errorf("IsValidUserCategory(%q) = false, want true", input)
		}
	}

	invalid := []string{"", "pedicure", "facial massage", "Facial + Massage"}
	for _, input := range invalid {
		if IsValidUserCategory(input) {
			t.Errorf("IsValidUserCategory(%q) = true, want false", input)
		}
	}
}

func TestCategoryTranslation(t *testing.T) {
	pairs := []struct {
		user string
		db   string
	}{
		{UserCategoryFacial, CategoryFacial},
		{UserCategoryMassage, CategoryMassage},
		{UserCategoryCombo, CategoryCombo},
	}

	for _, p := range pairs {
		if got := TranslateCategoryToDatabase(p.user); got != p.db {
			t.Errorf("TranslateCategoryToDatabase(%q) = %q, want %q", p.user, got, p.db)
		}
		if got := TranslateCategoryToUser(p.db); got != p.user {
			t.Errorf("TranslateCategoryToUser(%q) = %q, want %q", p.db, got, p.user)
		}
	}

	// Unrecognized input passes through unchanged.
	if got := TranslateCategoryToDatabase("pedicure"); got != "pedicure" {
		t.Errorf("TranslateCategoryToDatabase passthrough = %q", got)
	}
	if got := TranslateCategoryToUser("Pedicure"); got != "Pedicure" {
		t.Errorf("TranslateCategoryToUser passthrough = %q", got)
	}
}
