package service

import "github.com/mercado-next/internal/constants"

// NavItem 账户菜单项，Key 为 i18n 文案键
type NavItem struct {
	Key  string `json:"key"`
	Path string `json:"path"`
}

var (
	navProfile         = NavItem{Key: "nav.profile", Path: "/profile"}
	navSellerDashboard = NavItem{Key: "nav.seller_dashboard", Path: "/dashboard/seller"}
	navAdminDashboard  = NavItem{Key: "nav.admin_dashboard", Path: "/dashboard/admin"}
	navOrders          = NavItem{Key: "nav.orders", Path: "/orders"}
	navCart            = NavItem{Key: "nav.cart", Path: "/cart"}
)

// NavigationFor 按角色返回账户菜单
func NavigationFor(role constants.Role) []NavItem {
	switch role {
	case constants.RoleSeller:
		return []NavItem{navProfile, navSellerDashboard, navOrders, navCart}
	case constants.RoleAdmin:
		return []NavItem{navProfile, navAdminDashboard, navOrders, navCart}
	default:
		return []NavItem{navProfile, navOrders, navCart}
	}
}
