package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mercado-next/internal/authz"
	"github.com/mercado-next/internal/cache"
	"github.com/mercado-next/internal/config"
	"github.com/mercado-next/internal/constants"
	publichandlers "github.com/mercado-next/internal/http/handlers/public"
	"github.com/mercado-next/internal/http/response"
	"github.com/mercado-next/internal/logger"
	"github.com/mercado-next/internal/provider"

	"github.com/gin-gonic/gin"
)

const (
	apiV1Prefix     = "/api/v1"
	defaultRedisKey = "mk"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = defaultRedisKey
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.login_too_many",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	userAuth := UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo)

	apiV1 := r.Group(apiV1Prefix)
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/featured", publicHandler.GetFeaturedProducts)
			public.GET("/products/:id", publicHandler.GetProductDetail)
			public.GET("/categories", publicHandler.GetCategories)
			public.GET("/stores/popular", publicHandler.GetPopularStores)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(cache.Client(), loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
			auth.POST("/logout", userAuth, publicHandler.UserLogout)
		}

		// 用户接口（需鉴权 + 角色授权 + 会话续签）
		user := apiV1.Group("")
		user.Use(userAuth, RoleAuthzMiddleware(c.AuthzService), SessionRefreshMiddleware(c.UserAuthService))
		{
			user.GET("/me", publicHandler.GetCurrentUser)
			user.GET("/me/store", publicHandler.GetMyStore)
			user.GET("/me/permissions", func(ctx *gin.Context) {
				role, _ := ctx.MustGet(userRoleKey).(constants.Role)
				response.Success(ctx, buildRolePermissionCatalog(r, c.AuthzService, role))
			})
			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart/items", publicHandler.AddCartItem)
			user.PATCH("/cart/items/:id", publicHandler.UpdateCartItem)
			user.DELETE("/cart/items/:id", publicHandler.DeleteCartItem)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type permissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildPermissionCatalog 列出需要角色授权的用户接口（排除公开与认证接口）
func buildPermissionCatalog(engine *gin.Engine) []permissionCatalogItem {
	if engine == nil {
		return []permissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]permissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, apiV1Prefix+"/") {
			continue
		}
		if strings.HasPrefix(item.Path, apiV1Prefix+"/public/") || strings.HasPrefix(item.Path, apiV1Prefix+"/auth/") {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, permissionCatalogItem{
			Module:     derivePermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

// buildRolePermissionCatalog 过滤出当前角色可访问的接口
func buildRolePermissionCatalog(engine *gin.Engine, authzService *authz.Service, role constants.Role) []permissionCatalogItem {
	all := buildPermissionCatalog(engine)
	items := make([]permissionCatalogItem, 0, len(all))
	if authzService == nil {
		return items
	}
	for _, item := range all {
		allowed, err := authzService.EnforceRole(role, item.Object, item.Method)
		if err != nil {
			logger.Warnw("permission_catalog_enforce_failed",
				"role", role,
				"permission", item.Permission,
				"error", err,
			)
			continue
		}
		if allowed {
			items = append(items, item)
		}
	}
	return items
}

func derivePermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if segments[0] == "me" {
		return "account"
	}
	return segments[0]
}
