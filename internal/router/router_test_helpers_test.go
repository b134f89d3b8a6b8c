package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mercado-next/internal/config"
	"github.com/mercado-next/internal/constants"
	"github.com/mercado-next/internal/models"
	"github.com/mercado-next/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type apiResponse struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

type routerTestEnv struct {
	db        *gorm.DB
	cfg       *config.Config
	container *provider.Container
	engine    *gin.Engine
	store     *models.Store
}

func newRouterTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		UserJWT: config.JWTConfig{
			SecretKey:             "router-secret",
			ExpireHours:           24,
			RememberMeExpireHours: 168,
			RefreshWindowMinutes:  60,
		},
		CORS: config.CORSConfig{
			AllowedOrigins:   []string{"https://tienda.example.mx"},
			AllowCredentials: true,
			MaxAge:           600,
		},
		Security: config.SecurityConfig{
			LoginRateLimit: config.LoginRateLimitConfig{WindowSeconds: 300, MaxAttempts: 5},
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8, RequireLower: true, RequireNumber: true},
		},
		Cart: config.CartConfig{StockPolicy: constants.CartStockPolicyStrict},
	}
}

func newRouterTestEnv(t *testing.T, mutate func(cfg *config.Config)) *routerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := models.MigrateDB(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := newRouterTestConfig()
	if mutate != nil {
		mutate(cfg)
	}

	previous := models.DB
	models.DB = db
	container := provider.NewContainer(cfg)
	t.Cleanup(func() {
		container.Close()
		models.DB = previous
		_ = sqlDB.Close()
	})

	env := &routerTestEnv{
		db:        db,
		cfg:       cfg,
		container: container,
		engine:    SetupRouter(cfg, container),
	}

	owner := &models.User{Email: "dueno@tienda.mx", PasswordHash: "x", FullName: "Dueño", Role: constants.RoleSeller, Status: constants.UserStatusActive}
	if err := db.Create(owner).Error; err != nil {
		t.Fatalf("create store owner failed: %v", err)
	}
	env.store = &models.Store{OwnerID: owner.ID, Name: "Tienda Norte", IsVerified: true}
	if err := db.Create(env.store).Error; err != nil {
		t.Fatalf("create store failed: %v", err)
	}
	return env
}

func (e *routerTestEnv) createProduct(t *testing.T, name, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		StoreID:  e.store.ID,
		Name:     name,
		Price:    models.NewMoneyFromString(price),
		Category: "cocina",
		Images:   models.StringArray{"https://img.example.mx/" + name + ".jpg"},
		Stock:    stock,
		IsActive: true,
	}
	if err := e.db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func (e *routerTestEnv) do(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "en-US")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	var resp apiResponse
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response failed: %v body=%s", err, w.Body.String())
		}
	}
	return w, resp
}

// register 注册并返回 token
func (e *routerTestEnv) register(t *testing.T, email string, role constants.Role) string {
	t.Helper()
	payload := map[string]interface{}{
		"email":     email,
		"password":  "secreto123",
		"full_name": "Cliente Prueba",
		"role":      role.String(),
	}
	if role == constants.RoleSeller {
		payload["store_name"] = "Tienda de " + email
	}
	_, resp := e.do(t, http.MethodPost, "/api/v1/auth/register", payload, "")
	if resp.StatusCode != 0 {
		t.Fatalf("register %s failed: %d %s", email, resp.StatusCode, resp.Msg)
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("unmarshal register data failed: %v", err)
	}
	if data.Token == "" {
		t.Fatalf("register should return a token")
	}
	return data.Token
}

type cartPayload struct {
	CartID    uint   `json:"cart_id"`
	ItemCount int    `json:"item_count"`
	Total     string `json:"total"`
	Items     []struct {
		ItemID    uint   `json:"item_id"`
		ProductID uint   `json:"product_id"`
		Quantity  int    `json:"quantity"`
		UnitPrice string `json:"unit_price"`
		Subtotal  string `json:"subtotal"`
		Stock     int    `json:"stock"`
		StoreName string `json:"store_name"`
	} `json:"items"`
}

func decodeCart(t *testing.T, resp apiResponse) cartPayload {
	t.Helper()
	var cart cartPayload
	if err := json.Unmarshal(resp.Data, &cart); err != nil {
		t.Fatalf("unmarshal cart failed: %v data=%s", err, string(resp.Data))
	}
	return cart
}
