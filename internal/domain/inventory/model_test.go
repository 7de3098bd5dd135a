package inventory

import (
	"testing"

	"fogon/internal/core/id"
	"fogon/internal/core/types"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  tomate ", "Tomate"},
		{"TOMATE", "Tomate"},
		{"tomate", "Tomate"},
		{"Tomate", "Tomate"},
		{"queso AMARILLO", "Queso amarillo"},
		{"ñame", "Ñame"},
		{"ÁCIDO cítrico", "Ácido cítrico"},
		{"   ", ""},
		{"", ""},
		{"x", "X"},
	}

	for _, tc := range cases {
		if got := NormalizeName(tc.in); got != tc.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestItem_IsLowStock(t *testing.T) {
	item := &Item{
		CurrentStock: types.NewQuantity(5),
		MinStock:     types.NewQuantity(5),
	}
	if !item.IsLowStock() {
		t.Error("stock at threshold should be low")
	}

	item.CurrentStock = types.NewQuantity(5.01)
	if item.IsLowStock() {
		t.Error("stock above threshold should not be low")
	}

	item.CurrentStock = types.NewQuantity(-2)
	if !item.IsLowStock() {
		t.Error("negative stock should be low")
	}
}

func TestNewItem_Defaults(t *testing.T) {
	item := NewItem("  harina DE trigo ", id.New(), types.Zero())

	if item.Name != "Harina de trigo" {
		t.Errorf("name not normalized: %q", item.Name)
	}
	if item.Unit != DefaultUnit {
		t.Errorf("unit = %q, want %q", item.Unit, DefaultUnit)
	}
	if !item.CurrentStock.IsZero() {
		t.Errorf("new item must start with zero stock, got %s", item.CurrentStock)
	}
	if !item.Active {
		t.Error("new item must be active")
	}
}
