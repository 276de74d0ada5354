package schedule

import (
	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
