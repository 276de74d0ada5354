package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/amitayhanson-cloud/salon-platform-sub002/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/amitayhanson-cloud/salon-platform-sub002/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/amitayhanson-cloud/salon-platform-sub002/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/amitayhanson-cloud/salon-platform-sub002/internal/api/handlers/get_booking"
	getBookingSettingsHandler "github.com/amitayhanson-cloud/salon-platform-sub002/internal/api/handlers/get_booking_settings"
	getBusinessBookingsHandler "github.com/amitayhanson-cloud/salon-platform-sub002/internal/api/handlers/get_business_bookings"
	getBusinessHoursHandler "github.com/amitayhanson-cloud/salon-platform-sub002/internal/api/handlers/get_business_hours"
	getClientBookingsHandler "github.com/amitayhanson-cloud/salon-platform-sub002/internal/api/handlers/get_client_bookings"
	updateBookingSettingsHandler "github.com/amitayhanson-cloud/salon-platform-sub002/internal/api/handlers/update_booking_settings"
	updateBookingStatusHandler "github.com/amitayhanson-cloud/salon-platform-sub002/internal/api/handlers/update_booking_status"
	updateBusinessHoursHandler "github.com/amitayhanson-cloud/salon-platform-sub002/internal/api/handlers/update_business_hours"
	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/api/middleware"
	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/config"
	bookingRepo "github.com/amitayhanson-cloud/salon-platform-sub002/internal/infra/storage/booking"
	catalogRepo "github.com/amitayhanson-cloud/salon-platform-sub002/internal/infra/storage/catalog"
	scheduleRepo "github.com/amitayhanson-cloud/salon-platform-sub002/internal/infra/storage/schedule"
	staffRepo "github.com/amitayhanson-cloud/salon-platform-sub002/internal/infra/storage/staff"
	bookingsService "github.com/amitayhanson-cloud/salon-platform-sub002/internal/service/bookings"
	scheduleService "github.com/amitayhanson-cloud/salon-platform-sub002/internal/service/schedule"
	createBookingUC "github.com/amitayhanson-cloud/salon-platform-sub002/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/amitayhanson-cloud/salon-platform-sub002/internal/usecase/get_available_slots"
	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/dbmetrics"
	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/logger"
	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/metrics"
	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/simpletxmanager"
	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/txmanager"
)

// TxManager интерфейс транзакционного менеджера, общий для обеих реализаций
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting salon booking service...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		catalogRepository  *catalogRepo.Repository
		staffRepository    *staffRepo.Repository
		scheduleRepository *scheduleRepo.Repository
		txMgr              TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		staffRepository = staffRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		staffRepository = staffRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		staffRepository,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		staffRepository,
		txMgr,
		log,
	)

	// Метрики бизнес-логики: no-op коллектор, если метрики выключены
	businessMetrics := metricsCollector
	if businessMetrics == nil {
		businessMetrics = metrics.NewNop()
	}

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		staffRepository,
		scheduleRepository,
		txMgr,
		businessMetrics,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		staffRepository,
		scheduleRepository,
		businessMetrics,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getClientBookings := getClientBookingsHandler.NewHandler(bookingSvc, log)
	getBusinessBookings := getBusinessBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getBusinessHours := getBusinessHoursHandler.NewHandler(scheduleSvc, log)
	updateBusinessHours := updateBusinessHoursHandler.NewHandler(scheduleSvc, log)
	getBookingSettings := getBookingSettingsHandler.NewHandler(scheduleSvc, log)
	updateBookingSettings := updateBookingSettingsHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты для записи
	api.HandleFunc("/businesses/{businessId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Расписание работы салона
	api.HandleFunc("/businesses/{businessId}/hours",
		getBusinessHours.Handle).Methods(http.MethodGet)

	// Настройки записи салона
	api.HandleFunc("/businesses/{businessId}/settings",
		getBookingSettings.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по публичному UUID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований клиента
	protected.HandleFunc("/users/{userId}/bookings", getClientBookings.Handle).Methods(http.MethodGet)

	// --- Управление салоном (для менеджеров) ---
	// Список бронирований салона
	protected.HandleFunc("/businesses/{businessId}/bookings", getBusinessBookings.Handle).Methods(http.MethodGet)

	// Смена статуса бронирования
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// Замена расписания салона
	protected.HandleFunc("/businesses/{businessId}/hours", updateBusinessHours.Handle).Methods(http.MethodPut)

	// Обновление настроек записи
	protected.HandleFunc("/businesses/{businessId}/settings", updateBookingSettings.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
