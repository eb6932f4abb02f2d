package services

import (
	"storefront_server/database"
	"storefront_server/storage"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	AuthService    *AuthService
	EmailService   *EmailService
	CacheService   *CacheService
	HealthService  *HealthService
	SettingService *SettingService
	ProductService *ProductService
	ArtistService  *ArtistService
	HomeService    *HomeService
	PaymentService *PaymentService
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB, disk *storage.Disk) *ServiceManager {
	repo := database.NewStore(db)

	cacheService := NewCacheService(logger, cfg)
	emailService := NewEmailService(logger, cfg)
	authService := NewAuthService(cfg, logger, repo, cacheService)
	healthService := NewHealthService(logger, PingFunc(db.Health), cacheService)
	settingService := NewSettingService(logger, repo)
	productService := NewProductService(logger, cfg, repo, settingService, cacheService, disk)
	artistService := NewArtistService(logger, cfg, repo, cacheService, disk)
	homeService := NewHomeService(logger, repo, settingService, disk)
	paymentService := NewPaymentService(logger, repo, settingService, cacheService, emailService)

	return &ServiceManager{
		AuthService:    authService,
		EmailService:   emailService,
		CacheService:   cacheService,
		HealthService:  healthService,
		SettingService: settingService,
		ProductService: productService,
		ArtistService:  artistService,
		HomeService:    homeService,
		PaymentService: paymentService,
	}
}
