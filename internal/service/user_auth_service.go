package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/mercado-next/internal/cache"
	"github.com/mercado-next/internal/config"
	"github.com/mercado-next/internal/constants"
	"github.com/mercado-next/internal/logger"
	"github.com/mercado-next/internal/models"
	"github.com/mercado-next/internal/queue"
	"github.com/mercado-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserAuthService 用户认证服务
type UserAuthService struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	storeService *StoreService
	queueClient  *queue.Client
	hub          *SessionHub
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository, storeService *StoreService, queueClient *queue.Client, hub *SessionHub) *UserAuthService {
	return &UserAuthService{
		cfg:          cfg,
		userRepo:     userRepo,
		storeService: storeService,
		queueClient:  queueClient,
		hub:          hub,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID       uint           `json:"user_id"`
	Email        string         `json:"email"`
	Role         constants.Role `json:"role"`
	TokenVersion uint64         `json:"token_version"`
	jwt.RegisteredClaims
}

// RegisterInput 注册输入
type RegisterInput struct {
	Email            string
	Password         string
	FullName         string
	Role             string
	StoreName        string
	StoreDescription string
}

// AuthResult 登录/注册结果
type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// ProfileView 当前用户资料与菜单
type ProfileView struct {
	User       *models.User `json:"user"`
	Navigation []NavItem    `json:"navigation"`
}

// GenerateUserJWT 生成用户 JWT Token
func (s *UserAuthService) GenerateUserJWT(user *models.User, expireHours int) (string, time.Time, error) {
	resolvedHours := expireHours
	if resolvedHours <= 0 {
		resolvedHours = resolveUserJWTExpireHours(s.cfg.UserJWT)
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(resolvedHours) * time.Hour)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	return ParseUserJWT(s.cfg.UserJWT.SecretKey, tokenString)
}

// ParseUserJWT 使用指定密钥解析用户 JWT Token
func ParseUserJWT(secretKey, tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Register 用户注册（顾客或卖家）
func (s *UserAuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	normalized, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	role := constants.RoleCustomer
	if strings.TrimSpace(input.Role) != "" {
		parsed, ok := constants.ParseRole(input.Role)
		if !ok || !parsed.SelfRegistrable() {
			return nil, ErrRoleInvalid
		}
		role = parsed
	}
	storeName := strings.TrimSpace(input.StoreName)
	if role == constants.RoleSeller && storeName == "" {
		return nil, ErrStoreNameRequired
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, err
	}

	exist, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, wrapStorage("get user by email", err)
	}
	if exist != nil {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		fullName = resolveNameFromEmail(normalized)
	}
	user := &models.User{
		Email:        normalized,
		PasswordHash: string(hashedPassword),
		FullName:     fullName,
		Role:         role,
		Status:       constants.UserStatusActive,
		LastLoginAt:  &now,
	}
	if err := s.userRepo.Create(user); err != nil {
		// 并发注册同一邮箱时由唯一索引拦截
		if again, lookupErr := s.userRepo.GetByEmail(normalized); lookupErr == nil && again != nil {
			return nil, ErrEmailExists
		}
		return nil, wrapStorage("create user", err)
	}

	if role == constants.RoleSeller {
		s.provisionStore(ctx, user.ID, storeName, input.StoreDescription)
	}

	token, expiresAt, err := s.GenerateUserJWT(user, 0)
	if err != nil {
		return nil, err
	}
	_ = cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user))
	s.hub.Publish(SessionEvent{Type: constants.SessionEventSignedUp, UserID: user.ID, Role: user.Role, ExpiresAt: expiresAt})

	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// provisionStore 卖家店铺开通：队列可用时异步，否则同步；失败不阻断注册
func (s *UserAuthService) provisionStore(ctx context.Context, ownerID uint, name, description string) {
	payload := queue.StoreProvisionPayload{
		OwnerID:     ownerID,
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueStoreProvision(payload)
		if err == nil {
			logger.Infow("store_provision_enqueued", "owner_id", ownerID)
			return
		}
		logger.Warnw("store_provision_enqueue_failed", "owner_id", ownerID, "error", err)
	}
	if s.storeService == nil {
		logger.Warnw("store_provision_skip_service_nil", "owner_id", ownerID)
		return
	}
	if _, err := s.storeService.ProvisionSellerStore(ctx, ownerID, payload.Name, payload.Description); err != nil {
		logger.Errorw("store_provision_failed", "owner_id", ownerID, "error", err)
	}
}

// Login 用户登录（支持记住我）
func (s *UserAuthService) Login(ctx context.Context, email, password string, rememberMe bool) (*AuthResult, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, wrapStorage("get user by email", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !isActiveStatus(user.Status) {
		return nil, ErrUserDisabled
	}

	expireHours := resolveUserJWTExpireHours(s.cfg.UserJWT)
	if rememberMe {
		expireHours = resolveRememberMeExpireHours(s.cfg.UserJWT)
	}
	token, expiresAt, err := s.GenerateUserJWT(user, expireHours)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, wrapStorage("update user", err)
	}
	_ = cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user))
	s.hub.Publish(SessionEvent{Type: constants.SessionEventSignedIn, UserID: user.ID, Role: user.Role, ExpiresAt: expiresAt})

	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Logout 退出登录，提升 token 版本使已签发的 token 全部失效
func (s *UserAuthService) Logout(ctx context.Context, userID uint) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return wrapStorage("get user", err)
	}
	if user == nil {
		return ErrNotFound
	}
	now := time.Now()
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	if err := s.userRepo.Update(user); err != nil {
		return wrapStorage("update user", err)
	}
	s.hub.Publish(SessionEvent{Type: constants.SessionEventSignedOut, UserID: user.ID, Role: user.Role})
	return nil
}

// RefreshIfExpiring 剩余有效期进入续签窗口时重新签发 token
func (s *UserAuthService) RefreshIfExpiring(ctx context.Context, claims *UserJWTClaims) (string, time.Time, bool, error) {
	window := s.cfg.UserJWT.RefreshWindow()
	if claims == nil || window <= 0 || claims.ExpiresAt == nil {
		return "", time.Time{}, false, nil
	}
	if time.Until(claims.ExpiresAt.Time) > window {
		return "", time.Time{}, false, nil
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return "", time.Time{}, false, wrapStorage("get user", err)
	}
	if user == nil {
		return "", time.Time{}, false, ErrNotFound
	}
	if !isActiveStatus(user.Status) {
		return "", time.Time{}, false, ErrUserDisabled
	}
	if user.TokenVersion != claims.TokenVersion {
		return "", time.Time{}, false, ErrTokenRevoked
	}

	token, expiresAt, err := s.GenerateUserJWT(user, resolveClaimsLifetimeHours(claims))
	if err != nil {
		return "", time.Time{}, false, err
	}
	s.hub.Publish(SessionEvent{Type: constants.SessionEventTokenRefreshed, UserID: user.ID, Role: user.Role, ExpiresAt: expiresAt})
	return token, expiresAt, true, nil
}

// GetProfile 获取当前用户资料与角色菜单
func (s *UserAuthService) GetProfile(ctx context.Context, userID uint) (*ProfileView, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	return &ProfileView{User: user, Navigation: NavigationFor(user.Role)}, nil
}

// GetUserByID 获取用户信息
func (s *UserAuthService) GetUserByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, wrapStorage("get user", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

// NormalizeEmail 统一邮箱格式
func NormalizeEmail(email string) (string, error) {
	return normalizeEmail(email)
}

func isActiveStatus(status string) bool {
	return strings.ToLower(strings.TrimSpace(status)) == constants.UserStatusActive
}

func resolveUserJWTExpireHours(cfg config.JWTConfig) int {
	if cfg.ExpireHours <= 0 {
		return 24
	}
	return cfg.ExpireHours
}

func resolveRememberMeExpireHours(cfg config.JWTConfig) int {
	if cfg.RememberMeExpireHours <= 0 {
		return resolveUserJWTExpireHours(cfg)
	}
	return cfg.RememberMeExpireHours
}

// resolveClaimsLifetimeHours 续签沿用原 token 的有效时长（记住我的会话仍为长会话）
func resolveClaimsLifetimeHours(claims *UserJWTClaims) int {
	if claims == nil || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return 0
	}
	hours := int(claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time).Round(time.Hour) / time.Hour)
	if hours <= 0 {
		return 0
	}
	return hours
}

func resolveNameFromEmail(email string) string {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) == 2 && strings.TrimSpace(parts[0]) != "" {
		return strings.TrimSpace(parts[0])
	}
	return email
}
