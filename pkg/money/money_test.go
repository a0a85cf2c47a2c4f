package money

import "testing"

func TestGuideShareFloorsCommission(t *testing.T) {
	cases := []struct {
		name string
		fee  Cents
		want Cents
	}{
		{name: "base order", fee: 10000, want: 7500},
		{name: "overtime fee", fee: 2500, want: 1875},
		{name: "indivisible", fee: 99, want: 74},
		{name: "one cent", fee: 1, want: 0},
		{name: "zero", fee: 0, want: 0},
		{name: "negative clamps to zero", fee: -500, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := GuideShare(tc.fee); got != tc.want {
				t.Fatalf("GuideShare(%d) = %d, want %d", tc.fee, got, tc.want)
			}
		})
	}
}

func TestGuideShareIsAdditivePerPayment(t *testing.T) {
	// Income accrues per captured payment. The accumulated value for a
	// 10000 base plus a 2500 overtime must be the sum of the two floors.
	base := GuideShare(10000)
	overtime := GuideShare(2500)
	if got := base + overtime; got != 9375 {
		t.Fatalf("accumulated income = %d, want 9375", got)
	}
}

func TestHourlyFee(t *testing.T) {
	fee, err := HourlyFee(2, 1250)
	if err != nil {
		t.Fatalf("HourlyFee: %v", err)
	}
	if fee != 2500 {
		t.Fatalf("fee = %d, want 2500", fee)
	}

	if _, err := HourlyFee(0, 1250); err == nil {
		t.Fatal("expected error for zero hours")
	}
	if _, err := HourlyFee(-1, 1250); err == nil {
		t.Fatal("expected error for negative hours")
	}
	if _, err := HourlyFee(2, -1); err == nil {
		t.Fatal("expected error for negative rate")
	}
}

func TestClampNonNegative(t *testing.T) {
	if got := ClampNonNegative(-250); got != 0 {
		t.Fatalf("ClampNonNegative(-250) = %d, want 0", got)
	}
	if got := ClampNonNegative(250); got != 250 {
		t.Fatalf("ClampNonNegative(250) = %d, want 250", got)
	}
}
