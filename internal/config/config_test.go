package config

import (
	"testing"

	"github.com/mercado-next/internal/constants"

	"github.com/spf13/viper"
)

func TestSetDefaultsProducesUsableConfig(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Unmarshal(v)
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("port want 8080 got %s", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("driver want sqlite got %s", cfg.Database.Driver)
	}
	if cfg.Cart.NormalizedStockPolicy() != constants.CartStockPolicyStrict {
		t.Fatalf("default stock policy should be strict, got %s", cfg.Cart.StockPolicy)
	}
	if cfg.Queue.Queues[constants.QueueCritical] != 10 {
		t.Fatalf("critical queue weight want 10 got %d", cfg.Queue.Queues[constants.QueueCritical])
	}
	if cfg.UserJWT.RefreshWindow().Minutes() != 60 {
		t.Fatalf("refresh window want 60m got %s", cfg.UserJWT.RefreshWindow())
	}
}

func TestNormalizedStockPolicy(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{raw: "clamp", want: constants.CartStockPolicyClamp},
		{raw: " CLAMP ", want: constants.CartStockPolicyClamp},
		{raw: "strict", want: constants.CartStockPolicyStrict},
		{raw: "", want: constants.CartStockPolicyStrict},
		{raw: "whatever", want: constants.CartStockPolicyStrict},
	}
	for _, tc := range cases {
		got := CartConfig{StockPolicy: tc.raw}.NormalizedStockPolicy()
		if got != tc.want {
			t.Fatalf("policy %q want %s got %s", tc.raw, tc.want, got)
		}
	}
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("CART_STOCK_POLICY", "clamp")
	t.Setenv("SERVER_PORT", "9090")

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(envKeyReplacer())
	cfg, err := Unmarshal(v)
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("port want 9090 got %s", cfg.Server.Port)
	}
	if cfg.Cart.NormalizedStockPolicy() != constants.CartStockPolicyClamp {
		t.Fatalf("stock policy want clamp got %s", cfg.Cart.StockPolicy)
	}
}
