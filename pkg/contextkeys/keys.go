package contextkeys

// Кастомный тип, чтобы не было коллизий в context.Context
type contextKey string

// DBContextKey: ключ для *gorm.DB (пул или транзакция)
const DBContextKey = contextKey("db")

// Ключи gin.Context, которые выставляет AuthMiddleware
const (
	UserIDKey    = "userID"
	UserEmailKey = "userEmail"
)
