package main

import (
	"os"
	"time"

	"github.com/codingconcepts/env"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/golden-vcr/auth"
	"github.com/golden-vcr/server-common/entry"
	"github.com/golden-vcr/server-common/rmq"
	"github.com/golden-vcr/twitter-auth/internal/events"
	"github.com/golden-vcr/twitter-auth/internal/flow"
	"github.com/golden-vcr/twitter-auth/internal/session"
	"github.com/golden-vcr/twitter-auth/internal/twitter"
)

type Config struct {
	BindAddr   string `env:"BIND_ADDR"`
	ListenPort uint16 `env:"LISTEN_PORT" default:"5008"`
	Origin     string `env:"ORIGIN" default:"https://goldenvcr.com/api/twitter-auth"`

	TwitterConsumerKey    string `env:"TWITTER_CONSUMER_KEY" required:"true"`
	TwitterConsumerSecret string `env:"TWITTER_CONSUMER_SECRET" required:"true"`

	RedisAddr         string `env:"REDIS_ADDR"`
	SessionTTLMinutes int    `env:"SESSION_TTL_MINUTES" default:"1440"`

	RmqHost     string `env:"RMQ_HOST" required:"true"`
	RmqPort     int    `env:"RMQ_PORT" required:"true"`
	RmqVhost    string `env:"RMQ_VHOST" required:"true"`
	RmqUser     string `env:"RMQ_USER" required:"true"`
	RmqPassword string `env:"RMQ_PASSWORD" required:"true"`

	AuthURL string `env:"AUTH_URL" default:"http://localhost:5002"`
}

func main() {
	app, ctx := entry.NewApplication("twitter-auth")
	defer app.Stop()

	// Parse config from environment variables
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		app.Fail("Failed to load .env file", err)
	}
	config := Config{}
	if err := env.Set(&config); err != nil {
		app.Fail("Failed to load config", err)
	}

	// Choose a session store: Redis if configured, otherwise an in-process
	// map that's good enough for local development
	var store session.Store
	if config.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: config.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			app.Fail("Failed to connect to Redis", err)
		}
		store = session.NewRedisStore(redisClient, time.Duration(config.SessionTTLMinutes)*time.Minute)
		app.Log().Info("Using Redis-backed session store", "addr", config.RedisAddr)
	} else {
		store = session.NewMemoryStore()
		app.Log().Info("REDIS_ADDR is not set; session state will not survive a restart")
	}

	// Initialize an AMQP producer so we can notify other services when a
	// user completes the authorization flow
	amqpConn, err := amqp.Dial(rmq.FormatConnectionString(config.RmqHost, config.RmqPort, config.RmqVhost, config.RmqUser, config.RmqPassword))
	if err != nil {
		app.Fail("Failed to connect to AMQP server", err)
	}
	producer, err := events.NewProducer(amqpConn)
	if err != nil {
		app.Fail("Failed to initialize AMQP producer", err)
	}

	// Initialize an auth client so we can require broadcaster-level access
	// in order to call the admin-only session management endpoint
	authClient, err := auth.NewClient(ctx, config.AuthURL)
	if err != nil {
		app.Fail("Failed to initialize auth client", err)
	}

	// Prepare a client that makes OAuth 1.0a-signed requests against
	// Twitter using our app's consumer credentials: once a user authorizes
	// at Twitter they'll be redirected back to GET /login
	twitterClient := twitter.NewClient(config.TwitterConsumerKey, config.TwitterConsumerSecret, config.Origin+"/login")

	// Start setting up our HTTP handlers, using gorilla/mux for routing
	r := mux.NewRouter()

	// A user can GET /login to walk through the three-legged OAuth flow;
	// a client authenticated as the broadcaster can DELETE /sessions to
	// flush all stored session state
	flowServer := flow.NewServer(store, twitterClient, producer)
	flowServer.RegisterRoutes(r)
	flowServer.RegisterAdminRoutes(authClient, r)

	// Handle incoming HTTP connections until our top-level context is
	// canceled, at which point shut down cleanly
	entry.RunServer(ctx, app.Log(), r, config.BindAddr, config.ListenPort)
}
