package cache

import (
	"context"
	"time"
)

const (
	categoriesCacheKey = "catalog:categories"
	categoriesCacheTTL = 5 * time.Minute
)

// GetCategories 获取分类列表缓存
func GetCategories(ctx context.Context) ([]string, bool, error) {
	var categories []string
	hit, err := GetJSON(ctx, categoriesCacheKey, &categories)
	if err != nil || !hit {
		return nil, hit, err
	}
	return categories, true, nil
}

// SetCategories 写入分类列表缓存
func SetCategories(ctx context.Context, categories []string) error {
	if categories == nil {
		categories = []string{}
	}
	return SetJSON(ctx, categoriesCacheKey, categories, categoriesCacheTTL)
}
