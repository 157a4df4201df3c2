package slip

import "testing"

func row(pieces, meters, rate string) Item {
	it := NewItem()
	it = UpdateField([]Item{it}, it.ID, FieldPieces, pieces)[0]
	it = UpdateField([]Item{it}, it.ID, FieldMeters, meters)[0]
	it = UpdateField([]Item{it}, it.ID, FieldRate, rate)[0]
	return it
}

func TestTotalPieces(t *testing.T) {
	items := []Item{row("10", "", ""), row("5.5", "", ""), row("", "", ""), row("abc", "", "")}
	if got := TotalPieces(items); got != 15.5 {
		t.Fatalf("TotalPieces = %v, want 15.5", got)
	}
}

func TestGrossAmount(t *testing.T) {
	items := []Item{row("", "10", "40"), row("", "2.5", "100")}
	if got := GrossAmount(items); got != 650 {
		t.Fatalf("GrossAmount = %v, want 650", got)
	}
	if got := GrossAmount(nil); got != 0 {
		t.Fatalf("GrossAmount(nil) = %v, want 0", got)
	}
}

func TestNetAmount(t *testing.T) {
	items := []Item{row("", "10", "200")} // gross 2000

	cases := []struct {
		adjustment string
		want       string
	}{
		{"", "₹2,000.00"},
		{"  ", "₹2,000.00"},
		{"500", "₹2,500.00"},
		{"+500", "₹2,500.00"},
		{"-800", "₹1,200.00"},
		{"-2800", "-₹800.00"},
		{"-2000", "₹0.00"},
		{"+50*2", "₹2,100.00"},
		{"garbage", "₹0.00"},
	}
	for _, c := range cases {
		if got := NetAmount(items, c.adjustment); got != c.want {
			t.Fatalf("NetAmount(adj=%q) = %q, want %q", c.adjustment, got, c.want)
		}
	}
}

func TestNetAmountEmptyCollection(t *testing.T) {
	if got := NetAmount(nil, ""); got != "₹0.00" {
		t.Fatalf("NetAmount = %q, want ₹0.00", got)
	}
	if got := NetAmount(nil, "-100"); got != "-₹100.00" {
		t.Fatalf("NetAmount = %q, want -₹100.00", got)
	}
}

func TestTotalsOrderInvariant(t *testing.T) {
	a := row("3", "10", "40")
	b := row("7", "2.5", "100")
	forward := ComputeTotals([]Item{a, b}, "-50")
	reversed := ComputeTotals([]Item{b, a}, "-50")
	if forward != reversed {
		t.Fatalf("totals depend on row order: %+v vs %+v", forward, reversed)
	}
}

func TestTotalsIdempotent(t *testing.T) {
	items := []Item{row("3", "10", "40")}
	first := ComputeTotals(items, "+25")
	second := ComputeTotals(items, "+25")
	if first != second {
		t.Fatalf("repeated computation diverged: %+v vs %+v", first, second)
	}
}

func TestComputeTotals(t *testing.T) {
	items := []Item{row("12", "25.5", "40")} // total 1020
	got := ComputeTotals(items, "+180")
	if got.TotalPieces != 12 {
		t.Fatalf("TotalPieces = %v", got.TotalPieces)
	}
	if got.GrossValue != 1020 {
		t.Fatalf("GrossValue = %v", got.GrossValue)
	}
	if got.GrossAmount != "₹1,020.00" {
		t.Fatalf("GrossAmount = %q", got.GrossAmount)
	}
	if got.NetAmount != "₹1,200.00" {
		t.Fatalf("NetAmount = %q", got.NetAmount)
	}
}
