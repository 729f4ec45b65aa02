package ports

import "github.com/Gunvolt24/mesasync/internal/domain"

// RestaurantRegistry — отслеживаемые рестораны и их настройки.
type RestaurantRegistry interface {
	Settings(restaurantID string) (domain.RestaurantSettings, bool)
	IDs() []string
}
