package main

import (
	"log"
	"net/http"

	"school_mapper/internal/config"
	"school_mapper/internal/controllers"
	"school_mapper/internal/logger"
	"school_mapper/internal/maps"
	"school_mapper/internal/middleware"
	"school_mapper/internal/routes"
	"school_mapper/internal/services"
	"school_mapper/internal/store"
)

func main() {
	// .env must be loaded before the first Env lookup
	config.Load()

	// Structured logging to a rotating file
	logger.Setup(config.Env("LOG_LEVEL", "info"))

	// Connect to the database and migrate the route models
	db := config.InitDB()

	// External collaborators and core services
	mapsClient := maps.NewClient(config.Env("GOOGLE_MAPS_API_KEY", ""))
	routeStore := store.NewGormStore(db)
	reconciler := services.NewReconciler(routeStore)
	marketFinder := services.NewMarketFinder(mapsClient)

	// Controllers and router
	rc := controllers.NewRouteController(reconciler, routeStore)
	pc := controllers.NewPlacesController(mapsClient)
	mc := controllers.NewMarketsController(marketFinder)
	r := routes.SetupRouter(rc, pc, mc)

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	addr := "0.0.0.0:" + config.Env("PORT", "8080")
	log.Printf("🚀 Server running at %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
