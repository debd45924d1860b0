package domain

import "testing"

func TestAdminClaims_IsAdmin(t *testing.T) {
	tests := []struct {
		name   string
		claims *AdminClaims
		want   bool
	}{
		{"nil claims", nil, false},
		{"user actor", &AdminClaims{ActorID: "user_1", ActorType: ActorTypeUser}, true},
		{"customer actor", &AdminClaims{ActorID: "cus_1", ActorType: "customer"}, false},
		{"empty actor", &AdminClaims{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.claims.IsAdmin(); got != tt.want {
				t.Errorf("expected %t, got %t", tt.want, got)
			}
		})
	}
}
