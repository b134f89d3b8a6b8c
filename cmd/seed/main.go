package main

import (
	"time"

	"github.com/mercado-next/internal/config"
	"github.com/mercado-next/internal/constants"
	"github.com/mercado-next/internal/logger"
	"github.com/mercado-next/internal/models"

	"golang.org/x/crypto/bcrypt"
)

const seedPassword = "Demo12345"

type seedProduct struct {
	Name          string
	Description   string
	Price         string
	OriginalPrice string
	Category      string
	Image         string
	Stock         int
	IsFeatured    bool
}

type seedStore struct {
	OwnerEmail  string
	OwnerName   string
	Name        string
	Description string
	LogoURL     string
	Products    []seedProduct
}

type seedReview struct {
	Product string
	Author  string
	Rating  int
	Comment string
}

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Fatalf("Failed to hash seed password: %v", err)
	}

	stores := []seedStore{
		{
			OwnerEmail:  "barro@mercado.local",
			OwnerName:   "Lucía Hernández",
			Name:        "Barro Negro Oaxaca",
			Description: "Alfarería tradicional de San Bartolo Coyotepec",
			LogoURL:     "https://images.unsplash.com/photo-1578749556568-bc2c40e68b61?w=200",
			Products: []seedProduct{
				{Name: "Jarrón de barro negro", Description: "Pieza bruñida a mano", Price: "450.00", OriginalPrice: "520.00", Category: "hogar", Image: "https://images.unsplash.com/photo-1493106641515-6b5631de4bb9?w=800", Stock: 6, IsFeatured: true},
				{Name: "Set de tazas", Description: "Cuatro tazas para café de olla", Price: "320.00", Category: "cocina", Image: "https://images.unsplash.com/photo-1514228742587-6b1558fcca3d?w=800", Stock: 12, IsFeatured: true},
				{Name: "Cántaro decorativo", Description: "Edición limitada", Price: "980.00", Category: "hogar", Image: "https://images.unsplash.com/photo-1610701596007-11502861dcfa?w=800", Stock: 0},
			},
		},
		{
			OwnerEmail:  "textiles@mercado.local",
			OwnerName:   "Mateo Ruiz",
			Name:        "Telar Chiapas",
			Description: "Textiles de telar de cintura",
			LogoURL:     "https://images.unsplash.com/photo-1528459801416-a9e53bbf4e17?w=200",
			Products: []seedProduct{
				{Name: "Rebozo de algodón", Description: "Tejido en telar de cintura", Price: "750.00", Category: "moda", Image: "https://images.unsplash.com/photo-1520006403909-838d6b92c22e?w=800", Stock: 4, IsFeatured: true},
				{Name: "Camino de mesa", Description: "Bordado a mano", Price: "19.99", Category: "hogar", Image: "https://images.unsplash.com/photo-1616627561950-9f746e330187?w=800", Stock: 25},
			},
		},
	}

	productIDs := map[string]uint{}
	for _, plan := range stores {
		owner := ensureUser(plan.OwnerEmail, plan.OwnerName, constants.RoleSeller, string(hash))
		if owner == nil {
			stdLog.Printf("Skip store %s: owner unavailable", plan.Name)
			continue
		}

		var store models.Store
		if err := models.DB.Where("owner_id = ?", owner.ID).First(&store).Error; err != nil {
			store = models.Store{
				OwnerID:        owner.ID,
				Name:           plan.Name,
				Description:    plan.Description,
				LogoURL:        plan.LogoURL,
				IsVerified:     true,
				CommissionRate: models.NewMoneyFromString("10"),
			}
			if err := models.DB.Create(&store).Error; err != nil {
				stdLog.Printf("Failed to create store %s: %v", plan.Name, err)
				continue
			}
			stdLog.Printf("Created store: %s", plan.Name)
		} else {
			stdLog.Printf("Store already exists: %s", plan.Name)
		}

		for _, item := range plan.Products {
			product := models.Product{
				StoreID:     store.ID,
				Name:        item.Name,
				Description: item.Description,
				Price:       models.NewMoneyFromString(item.Price),
				Category:    item.Category,
				Images:      models.StringArray{item.Image},
				Stock:       item.Stock,
				IsFeatured:  item.IsFeatured,
				IsActive:    true,
			}
			if item.OriginalPrice != "" {
				original := models.NewMoneyFromString(item.OriginalPrice)
				product.OriginalPrice = &original
			}

			var existing models.Product
			if err := models.DB.Where("store_id = ? AND name = ?", store.ID, item.Name).First(&existing).Error; err != nil {
				if err := models.DB.Create(&product).Error; err != nil {
					stdLog.Printf("Failed to create product %s: %v", item.Name, err)
					continue
				}
				stdLog.Printf("Created product: %s", item.Name)
				productIDs[item.Name] = product.ID
			} else {
				existing.Description = product.Description
				existing.Price = product.Price
				existing.OriginalPrice = product.OriginalPrice
				existing.Category = product.Category
				existing.Images = product.Images
				existing.Stock = product.Stock
				existing.IsFeatured = product.IsFeatured
				existing.IsActive = product.IsActive
				if err := models.DB.Save(&existing).Error; err != nil {
					stdLog.Printf("Failed to update product %s: %v", item.Name, err)
				} else {
					stdLog.Printf("Updated product: %s", item.Name)
				}
				productIDs[item.Name] = existing.ID
			}
		}
	}

	// 演示评价
	reviewers := map[string]*models.User{
		"ana@mercado.local":   ensureUser("ana@mercado.local", "Ana López", constants.RoleCustomer, string(hash)),
		"diego@mercado.local": ensureUser("diego@mercado.local", "Diego Pérez", constants.RoleCustomer, string(hash)),
	}
	reviews := []seedReview{
		{Product: "Jarrón de barro negro", Author: "ana@mercado.local", Rating: 5, Comment: "Precioso, llegó bien empacado"},
		{Product: "Jarrón de barro negro", Author: "diego@mercado.local", Rating: 4, Comment: "Muy bonito, algo pequeño"},
		{Product: "Rebozo de algodón", Author: "ana@mercado.local", Rating: 5, Comment: "Colores increíbles"},
	}
	for _, plan := range reviews {
		productID := productIDs[plan.Product]
		author := reviewers[plan.Author]
		if productID == 0 || author == nil {
			stdLog.Printf("Skip review for %s: product or author missing", plan.Product)
			continue
		}
		var count int64
		if err := models.DB.Model(&models.Review{}).Where("product_id = ? AND user_id = ?", productID, author.ID).Count(&count).Error; err != nil {
			stdLog.Printf("Failed to check review for %s: %v", plan.Product, err)
			continue
		}
		if count > 0 {
			continue
		}
		review := models.Review{
			ProductID: productID,
			UserID:    author.ID,
			Rating:    plan.Rating,
			Comment:   plan.Comment,
			CreatedAt: time.Now(),
		}
		if err := models.DB.Create(&review).Error; err != nil {
			stdLog.Printf("Failed to create review for %s: %v", plan.Product, err)
		} else {
			stdLog.Printf("Created review: %s by %s", plan.Product, plan.Author)
		}
	}

	stdLog.Printf("Seed finished, demo password: %s", seedPassword)
}

func ensureUser(email, fullName string, role constants.Role, passwordHash string) *models.User {
	var user models.User
	if err := models.DB.Where("email = ?", email).First(&user).Error; err == nil {
		return &user
	}
	user = models.User{
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		Role:         role,
		Status:       constants.UserStatusActive,
	}
	if err := models.DB.Create(&user).Error; err != nil {
		logger.Warnw("seed_create_user_failed", "email", email, "error", err)
		return nil
	}
	return &user
}
