package util

import (
	"math"
	"testing"

	"mise/internal/model"
)

func TestFormatDateLong(t *testing.T) {
	tests := map[string]string{
		"2025-03-07": "March 7, 2025",
		"2024-12-25": "December 25, 2024",
		"not a date": "not a date",
	}
	for in, want := range tests {
		if got := FormatDateLong(in); got != want {
			t.Errorf("FormatDateLong(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseDateInput(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"2025-06-20", "2025-06-20", false},
		{"June 20, 2025", "2025-06-20", false},
		{"Jun 20, 2025", "2025-06-20", false},
		{"6/20/2025", "2025-06-20", false},
		{"someday", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDateInput(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseDateInput(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[float64]string{
		2:     "2",
		2.5:   "2.5",
		0.126: "0.13",
		10.10: "10.1",
	}
	for in, want := range tests {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%v) = %q, want %q", in, got, want)
		}
	}
	if got := FormatPrice(math.Inf(1)); got != "+Inf" {
		t.Errorf("FormatPrice(+Inf) = %q", got)
	}
}

func TestParseIngredientLine(t *testing.T) {
	tests := []struct {
		in   string
		want model.Ingredient
	}{
		{"2 cup flour", model.Ingredient{Name: "flour", Quantity: 2, Unit: "cup"}},
		{"1.5 tbsp olive oil", model.Ingredient{Name: "olive oil", Quantity: 1.5, Unit: "tbsp"}},
		{"3 eggs", model.Ingredient{Name: "eggs", Quantity: 3}},
		{"salt to taste", model.Ingredient{Name: "salt to taste"}},
	}
	for _, tt := range tests {
		got, err := ParseIngredientLine(tt.in)
		if err != nil {
			t.Errorf("ParseIngredientLine(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseIngredientLine(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
		if back, _ := ParseIngredientLine(FormatIngredientLine(got)); back != got {
			t.Errorf("round trip of %q = %+v", tt.in, back)
		}
	}

	if _, err := ParseIngredientLine("-1 cup sugar"); err == nil {
		t.Error("expected error for negative quantity")
	}
}

func TestIngredientLineRoundTrip(t *testing.T) {
	tests := []model.Ingredient{
		{Name: "green onions", Quantity: 2},
		{Name: "00 flour"},
		{Name: "00 flour", Quantity: 500, Unit: "g"},
		{Name: "12 grain bread", Quantity: 1},
		{Name: "olive oil", Quantity: 2, Unit: "tbsp"},
		{Name: "salt"},
		{Name: "salt to taste"},
		{Name: "eggs", Quantity: 3},
		{Name: "pepper", Unit: "pinch"},
		{Name: "nan bread"},
		{Name: "nan bread", Quantity: 2},
	}
	for _, want := range tests {
		line := FormatIngredientLine(want)
		got, err := ParseIngredientLine(line)
		if err != nil {
			t.Errorf("ParseIngredientLine(%q) err = %v", line, err)
			continue
		}
		if got != want {
			t.Errorf("%+v formatted as %q reads back as %+v", want, line, got)
		}
	}
}

func TestParseIngredientsKeepsUnchangedLines(t *testing.T) {
	previous := []model.Ingredient{
		{Name: "milk", Quantity: 0.333, Unit: "fl oz"},
		{Name: "green onions", Quantity: 2},
	}
	input := FormatIngredientLine(previous[0]) + "\n" + FormatIngredientLine(previous[1]) + "\n3 eggs\n"

	got, err := ParseIngredients(input, previous)
	if err != nil {
		t.Fatal(err)
	}
	want := []model.Ingredient{previous[0], previous[1], {Name: "eggs", Quantity: 3}}
	if len(got) != len(want) {
		t.Fatalf("got %d ingredients, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ingredient %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	// An edited line is parsed afresh.
	got, err = ParseIngredients("1 cup milk", previous)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != (model.Ingredient{Name: "milk", Quantity: 1, Unit: "cup"}) {
		t.Errorf("edited line = %+v", got)
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("Spaghetti Carbonara", 10); got != "Spaghet..." {
		t.Errorf("TruncateString = %q", got)
	}
	if got := TruncateString("Tea", 10); got != "Tea" {
		t.Errorf("TruncateString = %q", got)
	}
}
