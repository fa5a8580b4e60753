package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/adapter/restapi"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

// handlerSlack is added to the remote API timeout to bound local handlers.
const handlerSlack = 5 * time.Second

type kvStorage interface {
	port.KVStorage
	Close()
}

type serdes struct {
	checkout schema.Serde
	feedback schema.Serde
}

type producers struct {
	checkouts port.CheckoutProducer
	feedback  port.FeedbackStream
}

type coreService struct {
	session *service.Session
	cart    *service.Cart
	catalog service.Catalog
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	storage    kvStorage
	api        *restapi.Client
	tlsConfig  *tls.Config
	serdes     serdes
	producers  producers
	service    coreService
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initStorage()
	app.initRemoteAPI()
	if cfg.BrokerEnabled() {
		app.initTLS()
		app.initSerdes()
		app.initProducers()
	}
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	cfg := app.cfg.Storage
	switch cfg.Driver {
	case config.StorageMemory:
		app.storage = storage.NewMemory()
	case config.StorageLevelDB:
		s, err := storage.OpenLevelDB(cfg.Path)
		if err != nil {
			app.fallDown(op, err)
		}
		app.storage = s
	case config.StorageSQL:
		s, err := storage.NewSQL(app.ctx, cfg.SQLDSN, cfg.Profile)
		if err != nil {
			app.fallDown(op, err)
		}
		app.storage = s
	default:
		app.fallDown(op, fmt.Errorf("%w: storage driver %q",
			config.ErrInvalidConfig, cfg.Driver))
	}
	slog.Info("storage is ready", "op", op, "driver", cfg.Driver)
}

func (app *App) initRemoteAPI() {
	const op = "App.initRemoteAPI"

	cl, err := restapi.New(
		app.cfg.API.BaseURL,
		restapi.TimeoutOpt(app.cfg.API.Timeout),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.api = cl
}

func (app *App) initTLS() {
	const op = "App.initTLS"

	if !app.cfg.TLSEnabled() {
		return
	}
	files := app.cfg.Broker.TLS
	tlsConfig, err := adapter.MakeTLSConfig(files.CA, files.Cert, files.Key)
	if err != nil {
		app.fallDown(op, err)
	}
	app.tlsConfig = tlsConfig
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"
	ctx := app.ctx

	srOpts := []sr.ClientOpt{sr.URLs(app.cfg.Broker.SchemaRegistryURLs...)}
	if app.tlsConfig != nil {
		srOpts = append(srOpts, sr.DialTLSConfig(app.tlsConfig))
	}
	srClient, err := sr.NewClient(srOpts...)
	if err != nil {
		app.fallDown(op, err)
	}

	schemaCreater := schema.NewSchemaCreater(srClient)

	checkoutSS := app.cfg.Broker.Topics.Checkouts + "-value"
	checkoutSerde, err := schema.NewSerdeCheckoutV1(
		ctx,
		schema.SubjectOpt(checkoutSS),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	feedbackSS := app.cfg.Broker.Topics.Feedback + "-value"
	feedbackSerde, err := schema.NewSerdeFeedbackV1(
		ctx,
		schema.SubjectOpt(feedbackSS),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.serdes.checkout = checkoutSerde
	app.serdes.feedback = feedbackSerde
}

func (app *App) initProducers() {
	const op = "App.initProducers"

	ctx := app.ctx
	seedBrokers := app.cfg.Broker.SeedBrokers

	checkouts, err := kafka.NewCheckoutProducer(
		kafka.ProducerClientOpt(
			ctx, seedBrokers, app.cfg.Broker.Topics.Checkouts, app.tlsConfig,
		),
		kafka.ProducerEncoderOpt(app.serdes.checkout),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	feedback, err := kafka.NewFeedbackEmitter(kafka.FeedbackEmitterConfig{
		SeedBrokers: seedBrokers,
		Topic:       app.cfg.Broker.Topics.Feedback,
		Serde:       app.serdes.feedback,
		TLSConfig:   app.tlsConfig,
	})
	if err != nil {
		app.fallDown(op, err)
	}

	app.producers.checkouts = checkouts
	app.producers.feedback = feedback
}

func (app *App) initCoreService() {
	const op = "App.initCoreService"
	ctx := app.ctx

	session, err := service.NewSession(
		ctx,
		service.SessionStorageOpt(app.storage),
		service.SessionAuthOpt(app.api),
		service.SessionRoutesOpt(service.Routes{
			Login:   app.cfg.Routes.Login,
			Landing: app.cfg.Routes.Landing,
		}),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.api.BindSession(session)

	cartOpts := []service.CartOpt{
		service.CartStorageOpt(app.storage),
		service.CartMergeOnAddOpt(app.cfg.Cart.MergeOnAdd),
	}
	if app.producers.checkouts != nil {
		cartOpts = append(cartOpts,
			service.CartCheckoutNotifierOpt(app.producers.checkouts))
	}
	if app.producers.feedback != nil {
		cartOpts = append(cartOpts,
			service.CartFeedbackEmitterOpt(app.producers.feedback))
	}
	cart, err := service.NewCart(ctx, cartOpts...)
	if err != nil {
		app.fallDown(op, err)
	}

	app.service.session = session
	app.service.cart = cart
	app.service.catalog = service.NewCatalog(app.api)
}

func (app *App) initInboundAdapters() {
	addr := app.cfg.HTTPServerAddr
	session := app.service.session
	routes := session.Routes()

	protected := service.NewProtectedGuard(session, routes)
	public := service.NewPublicGuard(session, routes)

	mux := http.NewServeMux()
	httphandler.RegisterAuth(mux, session, public, protected)
	httphandler.RegisterCart(mux, app.service.cart, protected)
	httphandler.RegisterProducts(mux, app.service.catalog, protected)

	timeout := app.cfg.API.Timeout
	if timeout == 0 {
		timeout = restapi.DefaultTimeout
	}
	timeout += handlerSlack
	app.httpServer = httphandler.NewHTTPServer(addr, mux, timeout)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	if app.producers.checkouts != nil {
		app.producers.checkouts.Close()
	}
	if app.producers.feedback != nil {
		app.producers.feedback.Close()
	}
	app.storage.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
