package fee

import "testing"

func TestService_TableTests(t *testing.T) {
	tests := []struct {
		name    string
		amount  int64
		wantFee int64
	}{
		{name: "zero amount", amount: 0, wantFee: 0},
		{name: "negative amount", amount: -100, wantFee: 0},
		{name: "round thousand", amount: 10000, wantFee: 300},
		{name: "small amount rounds up from half", amount: 50, wantFee: 2},
		{name: "rounds down below half", amount: 40, wantFee: 1},
		{name: "one unit", amount: 1, wantFee: 0},
		{name: "seventeen units", amount: 17, wantFee: 1},
		{name: "large amount", amount: 2500000, wantFee: 75000},
		{name: "uneven amount", amount: 12345, wantFee: 370},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Service(tt.amount); got != tt.wantFee {
				t.Errorf("Service(%d) = %d, want %d", tt.amount, got, tt.wantFee)
			}
			if tt.amount > 0 {
				if got := Total(tt.amount); got != tt.amount+tt.wantFee {
					t.Errorf("Total(%d) = %d, want %d", tt.amount, got, tt.amount+tt.wantFee)
				}
			}
		})
	}
}
