package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	approveBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/approve_booking"
	cancelBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/cancel_booking"
	completeBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/complete_booking"
	createBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_booking"
	getAdminBookingsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_admin_bookings"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_booking"
	getDashboardHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_dashboard"
	getServiceHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_service"
	getUserBookingsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_user_bookings"
	listServicesHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/list_services"
	listStylistsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/list_stylists"
	manageServicesHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/manage_services"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/config"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	bookingsService "github.com/m04kA/SMC-SalonBooking/internal/service/bookings"
	catalogService "github.com/m04kA/SMC-SalonBooking/internal/service/catalog"
	createBookingUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonBooking/internal/worker/completion"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/keylock"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/redislock"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
)

// bookingStorage объединяет контракты всех потребителей репозитория бронирований
type bookingStorage interface {
	createBookingUC.BookingRepository
	getAvailableSlotsUC.BookingRepository
	bookingsService.BookingRepository
	completion.BookingRepository
}

// catalogStorage объединяет контракты всех потребителей каталога
type catalogStorage interface {
	createBookingUC.CatalogRepository
	getAvailableSlotsUC.CatalogRepository
	catalogService.CatalogRepository
}

type txManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

type publisher interface {
	PublishBookingEvent(ctx context.Context, eventType events.Type, booking *domain.Booking) error
}

type storage struct {
	bookings bookingStorage
	catalog  catalogStorage
	tx       txManager
	ping     func(ctx context.Context) error
	close    func()
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

	log.Info("Starting SMC-SalonBooking...")
	log.Info("Configuration loaded from config.toml")

	location, err := cfg.Salon.Location()
	if err != nil {
		log.Fatal("Invalid salon timezone: %v", err)
	}
	hours, err := cfg.Salon.BusinessHours()
	if err != nil {
		log.Fatal("Invalid salon business hours: %v", err)
	}

	// Инициализируем метрики (если включены)
	// При выключенных метриках коллектор nil, все его методы безопасны
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище
	store, err := openStorage(cfg, metricsCollector, stopMetricsCh, log)
	if err != nil {
		log.Fatal("Failed to initialize storage: %v", err)
	}
	defer store.close()

	// Блокировки слотов
	locker, closeLocker, err := newLocker(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize locker: %v", err)
	}
	defer closeLocker()

	// Публикация событий
	var eventPublisher publisher = events.Noop{}
	if cfg.Kafka.Enabled {
		kafkaPublisher := events.NewPublisher(events.Config{
			Brokers:      cfg.Kafka.Brokers,
			TopicPrefix:  cfg.Kafka.TopicPrefix,
			WriteTimeout: time.Duration(cfg.Kafka.WriteTimeout) * time.Second,
		}, log)
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				log.Error("Failed to close kafka publisher: %v", err)
			}
		}()
		eventPublisher = kafkaPublisher
		log.Info("Kafka publisher enabled (brokers=%v, topic_prefix=%s)", cfg.Kafka.Brokers, cfg.Kafka.TopicPrefix)
	}

	salonClock := &completion.RealTimeProvider{Location: location}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(store.bookings, eventPublisher, metricsCollector, log)
	catalogSvc := catalogService.NewService(store.catalog, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		store.bookings,
		store.catalog,
		locker,
		store.tx,
		eventPublisher,
		metricsCollector,
		hours,
		log,
	).
		WithTimeProvider(&createBookingUC.RealTimeProvider{Location: location}).
		WithLockWait(time.Duration(cfg.Lock.WaitTimeout) * time.Millisecond)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		store.bookings,
		store.catalog,
		hours,
		log,
	).WithTimeProvider(&getAvailableSlotsUC.RealTimeProvider{Location: location})

	// Фоновое завершение прошедших бронирований
	workerCtx, stopWorker := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	if cfg.Sweep.Enabled {
		sweeper := completion.NewWorker(
			store.bookings,
			eventPublisher,
			metricsCollector,
			salonClock,
			log,
			completion.Config{Interval: time.Duration(cfg.Sweep.Interval) * time.Second},
		)
		go func() {
			defer close(workerDone)
			sweeper.Run(workerCtx)
		}()
		log.Info("Completion sweep enabled (interval=%ds)", cfg.Sweep.Interval)
	} else {
		close(workerDone)
	}

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	approveBooking := approveBookingHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getAdminBookings := getAdminBookingsHandler.NewHandler(bookingSvc, log)
	getDashboard := getDashboardHandler.NewHandler(bookingSvc, salonClock, log)
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	getService := getServiceHandler.NewHandler(catalogSvc, log)
	listStylists := listStylistsHandler.NewHandler(catalogSvc, log)
	manageServices := manageServicesHandler.NewHandler(catalogSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := store.ping(req.Context()); err != nil {
			log.Error("GET /healthz - Storage unavailable: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, "хранилище недоступно")
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Каталог услуг и стилистов
	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services/{serviceId}", getService.Handle).Methods(http.MethodGet)
	api.HandleFunc("/stylists", listStylists.Handle).Methods(http.MethodGet)

	// Получение доступных слотов для бронирования
	api.HandleFunc("/services/{serviceId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/approve", approveBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/me/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Администрирование салона ---
	protected.HandleFunc("/admin/bookings", getAdminBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/admin/dashboard", getDashboard.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/admin/services", manageServices.HandleCreate).Methods(http.MethodPost)
	protected.HandleFunc("/admin/services/{serviceId}", manageServices.HandleUpdate).Methods(http.MethodPut)
	protected.HandleFunc("/admin/services/{serviceId}", manageServices.HandleDelete).Methods(http.MethodDelete)

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем фоновый обход и сбор метрик connection pool
	stopWorker()
	<-workerDone
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}

// openStorage создает репозитории выбранного драйвера
func openStorage(cfg *config.Config, m *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		catalog := memory.NewCatalogRepository(nil, nil)
		if cfg.Storage.Seed {
			catalog = memory.NewSeededCatalog()
		}
		log.Info("Using in-memory storage (seed=%t)", cfg.Storage.Seed)
		return &storage{
			bookings: memory.NewBookingRepository(),
			catalog:  catalog,
			tx:       txmanager.Noop{},
			ping:     func(context.Context) error { return nil },
			close:    func() {},
		}, nil
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Обёртка собирает метрики запросов; при m == nil просто проксирует вызовы
	wrappedDB := dbmetrics.WrapWithDefault(db, m, stopCh)

	return &storage{
		bookings: bookingRepo.NewRepository(wrappedDB),
		catalog:  catalogRepo.NewRepository(wrappedDB),
		tx:       txmanager.NewTransactionManager(wrappedDB),
		ping:     wrappedDB.PingContext,
		close: func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close database: %v", err)
			}
		},
	}, nil
}

type slotLocker interface {
	Lock(ctx context.Context, keys ...string) (func(), error)
}

// newLocker создает блокировку слотов: в памяти процесса или распределённую через Redis
func newLocker(cfg *config.Config, log *logger.Logger) (slotLocker, func(), error) {
	if cfg.Lock.Driver != config.LockRedis {
		log.Info("Using in-process slot locks")
		return keylock.New(), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Redis.Addr, err)
	}
	log.Info("Using redis slot locks (addr=%s, prefix=%s)", cfg.Redis.Addr, cfg.Redis.Prefix)

	locker := redislock.New(rdb, redislock.Config{
		TTL:           time.Duration(cfg.Lock.TTL) * time.Millisecond,
		RetryInterval: time.Duration(cfg.Lock.RetryInterval) * time.Millisecond,
		Prefix:        cfg.Redis.Prefix,
	})

	return locker, func() {
		if err := rdb.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}, nil
}
