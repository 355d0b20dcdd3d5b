package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api/v1")

	items := api.Group("/items")
	items.POST("", s.createItem)
	items.GET("", s.readAllItems)
	items.GET("/search", s.searchItems)
	items.GET("/:id", s.readItem)
	items.PUT("/:id", s.updateItem)
	items.DELETE("/:id", s.deleteItem)
}
