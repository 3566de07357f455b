package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/trekora/trekora/config"
	"github.com/trekora/trekora/internal/infrastructure/mongodb"
	"github.com/trekora/trekora/pkg/helpers"
	"github.com/trekora/trekora/pkg/payment"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	store       *mongodb.Store
	redisClient *redis.Client
	gcsClient   *storage.Client

	tokenManager  *helpers.TokenManager
	cookieManager *helpers.CookieManager

	rabbitPub     *helpers.RabbitPublisher
	esClient      *elasticsearch.Client
	payProvider   payment.Provider
)

func SetConfig(c *config.Config)           { cfg = c }
func GetConfig() *config.Config            { return cfg }
func SetLogger(l *logrus.Logger)           { logger = l }
func GetLogger() *logrus.Logger            { return logger }
func SetStore(s *mongodb.Store)            { store = s }
func GetStore() *mongodb.Store             { return store }
func SetRedis(r *redis.Client)             { redisClient = r }
func GetRedis() *redis.Client              { return redisClient }
func SetGCS(s *storage.Client)             { gcsClient = s }
func GetGCS() *storage.Client              { return gcsClient }
func SetTokens(m *helpers.TokenManager)    { tokenManager = m }
func GetTokens() *helpers.TokenManager     { return tokenManager }
func SetCookies(m *helpers.CookieManager)  { cookieManager = m }
func GetCookies() *helpers.CookieManager   { return cookieManager }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)        { esClient = c }
func GetES() *elasticsearch.Client         { return esClient }
func SetPayments(p payment.Provider)       { payProvider = p }
func GetPayments() payment.Provider        { return payProvider }
