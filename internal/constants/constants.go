package constants

import "strings"

// Role 用户角色（customer / seller / admin 三选一）
type Role string

// 用户角色常量
const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
)

// ParseRole 解析角色字符串，未知角色返回 false
func ParseRole(raw string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !role.Valid() {
		return "", false
	}
	return role, true
}

// Valid 是否为已知角色
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return true
	default:
		return false
	}
}

// SelfRegistrable 是否允许自助注册（管理员只能通过初始化创建）
func (r Role) SelfRegistrable() bool {
	return r == RoleCustomer || r == RoleSeller
}

func (r Role) String() string {
	return string(r)
}

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 购物车库存策略
const (
	// CartStockPolicyStrict 超出库存直接拒绝
	CartStockPolicyStrict = "strict"
	// CartStockPolicyClamp 超出库存时截断到库存上限
	CartStockPolicyClamp = "clamp"
)

// 商品排序方式
const (
	ProductSortNewest    = "newest"
	ProductSortPriceAsc  = "price_asc"
	ProductSortPriceDesc = "price_desc"
)

// 首页展示数量
const (
	FeaturedProductLimit = 8
	PopularStoreLimit    = 4
)

// 队列与任务
const (
	QueueDefault  = "default"
	QueueCritical = "critical"

	TaskStoreProvision = "store:provision"
)

// 会话事件类型
const (
	SessionEventSignedUp       = "signed_up"
	SessionEventSignedIn       = "signed_in"
	SessionEventSignedOut      = "signed_out"
	SessionEventTokenRefreshed = "token_refreshed"
)

// SessionTokenHeader 会话刷新后下发新 token 的响应头
const SessionTokenHeader = "X-Session-Token"
