package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/aquavi/delivery-api/configs"
	"github.com/aquavi/delivery-api/internal/adapter/cache"
	"github.com/aquavi/delivery-api/internal/adapter/email"
	apihttp "github.com/aquavi/delivery-api/internal/adapter/http"
	"github.com/aquavi/delivery-api/internal/adapter/http/middleware"
	"github.com/aquavi/delivery-api/internal/adapter/kafka"
	"github.com/aquavi/delivery-api/internal/adapter/queue"
	"github.com/aquavi/delivery-api/internal/adapter/repo"
	"github.com/aquavi/delivery-api/internal/logging"
	"github.com/aquavi/delivery-api/internal/usecase"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	log := logging.Init(cfg.App.Name, cfg.App.LogFile)

	// database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		return nil, nil, err
	}

	log.Info("delivery-api: starting up")

	// redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, nil, err
	}

	// rabbitmq
	conn, err := amqp091.Dial(cfg.Rabbit.URL)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, err
	}
	producer, err := queue.NewRabbitProducer(ch)
	if err != nil {
		return nil, nil, err
	}

	// repos and stores
	orderRepo := repo.NewMySQLOrderRepo(db)
	subRepo := repo.NewMySQLSubscriptionRepo(db)
	productRepo := repo.NewMySQLProductRepo(db)
	testimonialRepo := repo.NewMySQLTestimonialRepo(db)
	messageRepo := repo.NewMySQLMessageRepo(db)
	userRepo := repo.NewMySQLUserRepo(db)
	outboxRepo := repo.NewMySQLOutboxRepo(db)
	settings := cache.NewSettingsCache(rdb, repo.NewMySQLSettingsRepo(db), cfg.SettingsCache.TTL)
	guard := cache.NewRedisSubmitGuard(rdb, cfg.SubmitGuard.TTL)

	// use cases
	notifier := usecase.NewNotifier(producer, outboxRepo)
	submitUC := usecase.NewSubmitOrder(orderRepo, settings, guard, notifier)
	transitionUC := usecase.NewTransitionOrder(orderRepo, notifier)
	subLifecycleUC := usecase.NewSubscriptionLifecycle(subRepo, notifier)

	// email dispatcher consuming the notification queue
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return nil, nil, err
	}
	sender := email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From,
		cfg.SMTP.Username, cfg.SMTP.Password)
	if err := setupNotifyQueue(ch, sender, renderer, orderRepo); err != nil {
		return nil, nil, err
	}

	// courier feed driving order transitions
	kafkaCancel, err := setupCourierFeed(cfg, transitionUC)
	if err != nil {
		return nil, nil, err
	}

	// http
	authz := middleware.NewAuthz(cfg)
	router := apihttp.NewRouter(apihttp.Handlers{
		Orders:        apihttp.NewOrderHandler(submitUC, transitionUC, orderRepo, productRepo),
		Subscriptions: apihttp.NewSubscriptionHandler(subLifecycleUC, subRepo, productRepo),
		Catalog:       apihttp.NewCatalogHandler(productRepo),
		Content:       apihttp.NewContentHandler(testimonialRepo, messageRepo),
		Settings:      apihttp.NewSettingsHandler(settings),
		Token:         apihttp.NewTokenHandler(cfg, userRepo),
	}, authz)

	cleanup := func() {
		kafkaCancel()
		_ = ch.Close()
		_ = conn.Close()
		_ = rdb.Close()
		_ = db.Close()
	}

	return &App{Router: router}, cleanup, nil
}

func setupNotifyQueue(ch *amqp091.Channel, sender queue.EmailSender, renderer queue.Renderer,
	orders queue.ConfirmationClaimer) error {
	h := queue.NewEmailNotifyHandler(sender, renderer, orders)

	router := queue.NewRouter(ch, queue.WithPrefetch(20))
	router.Register("notify.email.q", queue.JSONHandler[usecase.NotificationMsg]{HandleFunc: h.HandleNotify})
	return router.Start()
}

func setupCourierFeed(cfg configs.Config, transition *usecase.TransitionOrder) (func(), error) {
	grp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	if err != nil {
		return nil, err
	}

	h := kafka.NewDeliveryStatusHandler(transition)
	consumer := kafka.NewConsumer(grp, []string{cfg.Kafka.DeliveryTopic}, h.Handle)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
			logging.New("courier-feed").Error("consumer stopped", "err", err)
		}
	}()
	return func() {
		cancel()
		_ = grp.Close()
	}, nil
}
