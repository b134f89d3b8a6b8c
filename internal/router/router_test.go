package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/mercado-next/internal/config"
	"github.com/mercado-next/internal/constants"
	"github.com/mercado-next/internal/models"
)

func TestCartFlowThroughRouter(t *testing.T) {
	env := newRouterTestEnv(t, nil)
	product := env.createProduct(t, "sarten", "10.00", 5)
	token := env.register(t, "ana@correo.mx", constants.RoleCustomer)

	_, resp := env.do(t, http.MethodGet, "/api/v1/cart", nil, token)
	if resp.StatusCode != 0 {
		t.Fatalf("get empty cart failed: %d %s", resp.StatusCode, resp.Msg)
	}
	empty := decodeCart(t, resp)
	if empty.CartID != 0 || empty.Total != "0.00" || len(empty.Items) != 0 {
		t.Fatalf("unexpected empty cart %+v", empty)
	}

	_, resp = env.do(t, http.MethodPost, "/api/v1/cart/items", map[string]interface{}{"product_id": product.ID, "quantity": 2}, token)
	if resp.StatusCode != 0 {
		t.Fatalf("add item failed: %d %s", resp.StatusCode, resp.Msg)
	}
	cart := decodeCart(t, resp)
	if cart.Total != "20.00" || len(cart.Items) != 1 || cart.Items[0].StoreName != "Tienda Norte" {
		t.Fatalf("unexpected cart after add %+v", cart)
	}
	itemID := cart.Items[0].ItemID

	_, resp = env.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/cart/items/%d", itemID), map[string]interface{}{"quantity": 3}, token)
	if resp.StatusCode != 0 {
		t.Fatalf("update item failed: %d %s", resp.StatusCode, resp.Msg)
	}
	if cart = decodeCart(t, resp); cart.Total != "30.00" {
		t.Fatalf("total after update want 30.00 got %s", cart.Total)
	}

	_, resp = env.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/cart/items/%d", itemID), map[string]interface{}{"quantity": 6}, token)
	if resp.StatusCode != 400 {
		t.Fatalf("stock exceeded want 400 got %d", resp.StatusCode)
	}

	_, resp = env.do(t, http.MethodGet, "/api/v1/cart", nil, token)
	if cart = decodeCart(t, resp); cart.Items[0].Quantity != 3 {
		t.Fatalf("quantity should stay 3 got %d", cart.Items[0].Quantity)
	}

	for i := 0; i < 2; i++ {
		_, resp = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/cart/items/%d", itemID), nil, token)
		if resp.StatusCode != 0 {
			t.Fatalf("delete item attempt %d failed: %d %s", i+1, resp.StatusCode, resp.Msg)
		}
	}
	if cart = decodeCart(t, resp); cart.Total != "0.00" || len(cart.Items) != 0 {
		t.Fatalf("cart should be empty after delete %+v", cart)
	}
}

func TestCartErrorMapping(t *testing.T) {
	env := newRouterTestEnv(t, nil)
	soldOut := env.createProduct(t, "olla", "15.00", 0)
	token := env.register(t, "luis@correo.mx", constants.RoleCustomer)

	cases := []struct {
		name   string
		body   map[string]interface{}
		status int
	}{
		{name: "out of stock", body: map[string]interface{}{"product_id": soldOut.ID, "quantity": 1}, status: 400},
		{name: "missing product", body: map[string]interface{}{"product_id": 9999, "quantity": 1}, status: 404},
		{name: "negative quantity", body: map[string]interface{}{"product_id": soldOut.ID, "quantity": -1}, status: 400},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, resp := env.do(t, http.MethodPost, "/api/v1/cart/items", tc.body, token)
			if resp.StatusCode != tc.status {
				t.Fatalf("status_code want %d got %d (%s)", tc.status, resp.StatusCode, resp.Msg)
			}
		})
	}

	var items int64
	if err := env.db.Model(&models.CartItem{}).Count(&items).Error; err != nil {
		t.Fatalf("count items failed: %v", err)
	}
	if items != 0 {
		t.Fatalf("failed adds must not create line items, got %d", items)
	}
}

func TestPublicCatalogRoutes(t *testing.T) {
	env := newRouterTestEnv(t, nil)
	env.createProduct(t, "comal", "120.00", 4)

	_, resp := env.do(t, http.MethodGet, "/api/v1/public/products?category=cocina", nil, "")
	if resp.StatusCode != 0 {
		t.Fatalf("list products failed: %d %s", resp.StatusCode, resp.Msg)
	}
	_, resp = env.do(t, http.MethodGet, "/api/v1/public/categories", nil, "")
	var categories []string
	if err := json.Unmarshal(resp.Data, &categories); err != nil {
		t.Fatalf("unmarshal categories failed: %v", err)
	}
	if len(categories) != 1 || categories[0] != "cocina" {
		t.Fatalf("unexpected categories %v", categories)
	}
	_, resp = env.do(t, http.MethodGet, "/api/v1/public/products/abc", nil, "")
	if resp.StatusCode != 400 {
		t.Fatalf("invalid product id want 400 got %d", resp.StatusCode)
	}
	_, resp = env.do(t, http.MethodGet, "/api/v1/public/products/4242", nil, "")
	if resp.StatusCode != 404 {
		t.Fatalf("missing product want 404 got %d", resp.StatusCode)
	}
	_, resp = env.do(t, http.MethodGet, "/api/v1/public/stores/popular", nil, "")
	if resp.StatusCode != 0 {
		t.Fatalf("popular stores failed: %d %s", resp.StatusCode, resp.Msg)
	}
}

func TestRoleAuthzRestrictsSellerRoutes(t *testing.T) {
	env := newRouterTestEnv(t, nil)
	customer := env.register(t, "cliente@correo.mx", constants.RoleCustomer)
	seller := env.register(t, "vende@correo.mx", constants.RoleSeller)

	_, resp := env.do(t, http.MethodGet, "/api/v1/me/store", nil, customer)
	if resp.StatusCode != 403 {
		t.Fatalf("customer on /me/store want 403 got %d", resp.StatusCode)
	}
	if resp.Msg != "You are not allowed to do this" {
		t.Fatalf("forbidden message should follow Accept-Language, got %q", resp.Msg)
	}

	_, resp = env.do(t, http.MethodGet, "/api/v1/me/store", nil, seller)
	if resp.StatusCode != 0 {
		t.Fatalf("seller on /me/store failed: %d %s", resp.StatusCode, resp.Msg)
	}
	var store models.Store
	if err := json.Unmarshal(resp.Data, &store); err != nil {
		t.Fatalf("unmarshal store failed: %v", err)
	}
	if store.Name != "Tienda de vende@correo.mx" {
		t.Fatalf("unexpected store %+v", store)
	}
}

func TestPermissionCatalogFollowsRole(t *testing.T) {
	env := newRouterTestEnv(t, nil)
	customer := env.register(t, "perm@correo.mx", constants.RoleCustomer)
	seller := env.register(t, "perm-vende@correo.mx", constants.RoleSeller)

	permissions := func(token string) map[string]bool {
		_, resp := env.do(t, http.MethodGet, "/api/v1/me/permissions", nil, token)
		if resp.StatusCode != 0 {
			t.Fatalf("permissions failed: %d %s", resp.StatusCode, resp.Msg)
		}
		var items []permissionCatalogItem
		if err := json.Unmarshal(resp.Data, &items); err != nil {
			t.Fatalf("unmarshal permissions failed: %v", err)
		}
		out := make(map[string]bool, len(items))
		for _, item := range items {
			out[item.Permission] = true
		}
		return out
	}

	customerPerms := permissions(customer)
	if !customerPerms["POST:/cart/items"] || customerPerms["GET:/me/store"] {
		t.Fatalf("unexpected customer permissions %v", customerPerms)
	}
	sellerPerms := permissions(seller)
	if !sellerPerms["GET:/me/store"] || !sellerPerms["DELETE:/cart/items/:id"] {
		t.Fatalf("unexpected seller permissions %v", sellerPerms)
	}
}

func TestEveryUserRouteIsGrantedToAdmin(t *testing.T) {
	env := newRouterTestEnv(t, nil)
	for _, item := range buildPermissionCatalog(env.engine) {
		allowed, err := env.container.AuthzService.EnforceRole(constants.RoleAdmin, item.Object, item.Method)
		if err != nil {
			t.Fatalf("enforce %s failed: %v", item.Permission, err)
		}
		if !allowed {
			t.Fatalf("admin should reach %s", item.Permission)
		}
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newRouterTestEnv(t, nil)
	token := env.register(t, "salir@correo.mx", constants.RoleCustomer)

	_, resp := env.do(t, http.MethodPost, "/api/v1/auth/logout", nil, token)
	if resp.StatusCode != 0 {
		t.Fatalf("logout failed: %d %s", resp.StatusCode, resp.Msg)
	}
	_, resp = env.do(t, http.MethodGet, "/api/v1/me", nil, token)
	if resp.StatusCode != 401 {
		t.Fatalf("revoked token want 401 got %d", resp.StatusCode)
	}
}

func TestSessionRefreshHeader(t *testing.T) {
	env := newRouterTestEnv(t, func(cfg *config.Config) {
		cfg.UserJWT.ExpireHours = 1
		cfg.UserJWT.RefreshWindowMinutes = 120
	})
	token := env.register(t, "renueva@correo.mx", constants.RoleCustomer)

	w, resp := env.do(t, http.MethodGet, "/api/v1/me", nil, token)
	if resp.StatusCode != 0 {
		t.Fatalf("get me failed: %d %s", resp.StatusCode, resp.Msg)
	}
	refreshed := w.Header().Get(constants.SessionTokenHeader)
	if refreshed == "" {
		t.Fatalf("expected refreshed token header")
	}
	if w.Header().Get(sessionExpiresHeader) == "" {
		t.Fatalf("expected session expiry header")
	}

	_, resp = env.do(t, http.MethodGet, "/api/v1/cart", nil, refreshed)
	if resp.StatusCode != 0 {
		t.Fatalf("refreshed token should authenticate: %d %s", resp.StatusCode, resp.Msg)
	}
}

func TestLoginRateLimitWithoutRedis(t *testing.T) {
	env := newRouterTestEnv(t, func(cfg *config.Config) {
		cfg.Security.LoginRateLimit = config.LoginRateLimitConfig{WindowSeconds: 60, MaxAttempts: 2}
	})
	env.register(t, "limite@correo.mx", constants.RoleCustomer)

	body := map[string]interface{}{"email": "limite@correo.mx", "password": "incorrecta1"}
	for i := 0; i < 2; i++ {
		_, resp := env.do(t, http.MethodPost, "/api/v1/auth/login", body, "")
		if resp.StatusCode != 401 {
			t.Fatalf("attempt %d want 401 got %d", i+1, resp.StatusCode)
		}
	}
	_, resp := env.do(t, http.MethodPost, "/api/v1/auth/login", body, "")
	if resp.StatusCode != 429 {
		t.Fatalf("third attempt want 429 got %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Msg, "seconds") {
		t.Fatalf("rate limit message should mention wait time, got %q", resp.Msg)
	}
}

func TestDerivePermissionModule(t *testing.T) {
	cases := map[string]string{
		"/me":             "account",
		"/me/store":       "account",
		"/cart/items/:id": "cart",
		"":                "system",
	}
	for object, want := range cases {
		if got := derivePermissionModule(object); got != want {
			t.Fatalf("module for %q want %s got %s", object, want, got)
		}
	}
}
