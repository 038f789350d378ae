package styles

import (
	"testing"

	"github.com/usawrapco/wrapdoc/pkg/finance"
	"github.com/usawrapco/wrapdoc/pkg/render/layout"
)

func TestTierColors(t *testing.T) {
	tests := []struct {
		tier finance.Tier
		want layout.Color
	}{
		{finance.AboveTarget, Green},
		{finance.BonusEligible, Amber},
		{finance.BelowThreshold, Red},
	}
	for _, tt := range tests {
		t.Run(tt.tier.String(), func(t *testing.T) {
			if fg, _ := TierColors(tt.tier); fg != tt.want {
				t.Errorf("TierColors(%v) = %v, want %v", tt.tier, fg, tt.want)
			}
		})
	}
}

func TestStatusColors(t *testing.T) {
	tests := []struct {
		name string
		want layout.Color
	}{
		{"green", Green},
		{" Overdue ", Red},
		{"gold", Gold},
		{"#2e5fa3", Link},
		{"chartreuse", Steel},
		{"", Steel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if fg, _ := StatusColors(tt.name); fg != tt.want {
				t.Errorf("StatusColors(%q) = %v, want %v", tt.name, fg, tt.want)
			}
		})
	}
}
