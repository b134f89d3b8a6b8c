package repository

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page       int
	PageSize   int
	Category   string
	Search     string
	Sort       string // newest / price_asc / price_desc
	StoreID    uint
	OnlyActive bool
	Featured   bool
	WithStore  bool
}
