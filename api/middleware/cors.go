package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/delivery-scheduler-backend/pkg/config"
	"github.com/go-chi/cors"
)

// CORS allows the configured origins plus any Shopify storefront domain,
// since the widget is embedded in merchant themes we cannot enumerate.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowed[strings.TrimSpace(origin)] = true
	}

	return cors.New(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			if allowed[origin] {
				return true
			}
			return strings.HasSuffix(origin, ".myshopify.com") || strings.HasSuffix(origin, ".shopify.com")
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With", "X-Shop-Domain"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler
}
