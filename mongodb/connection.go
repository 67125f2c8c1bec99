package mongodb

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/golang-devkit/logconv/logger"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

const (
	connectTimeout = 10 * time.Second

	defaultURI = "mongodb://localhost:27017/dbnameDB?authSource=admin"
)

func getAppName() string {
	if name := os.Getenv("APP_NAME"); name != "" {
		return name
	}
	return "Go-Service"
}

func getDbName(uri string) (dbName string) {
	var queryStr string
	if idx := strings.LastIndex(uri, "://"); idx != -1 {
		dbName = uri[idx+3:]
	}
	if idx := strings.LastIndexByte(dbName, '/'); idx != -1 {
		dbName = dbName[idx+1:]
	} else {
		// must have a / separator between hosts and path
		return ""
	}
	if idx := strings.IndexRune(dbName, '?'); idx != -1 {
		queryStr = dbName[idx+1:]
		dbName = dbName[:idx]
	}
	if dbName == "" && queryStr != "" {
		q, _ := url.ParseQuery(queryStr)
		return q.Get("authSource")
	}
	return dbName
}

// NewConnection connects and pings both the primary and a secondary. It
// fails only when neither answers. Replica sets read from secondaries by
// default.
func NewConnection(ctx context.Context, withURI ...string) (*Connection, error) {

	opt := options.Client().
		ApplyURI(defaultURI).
		SetTimeout(connectTimeout).
		SetAppName(getAppName())

	if len(withURI) > 0 && withURI[0] != "" {
		opt = opt.ApplyURI(withURI[0])
	}

	replicaSet := opt.ReplicaSet != nil && *opt.ReplicaSet != ""
	if replicaSet {
		opt.SetReadPreference(readpref.SecondaryPreferred())
	}

	entry := logger.NewLog(logger.NewEntry().With(
		zap.String(logger.KeyServiceModule, "mongodb"),
		zap.String("uri", RedactURI(opt.GetURI())),
	))

	client, err := mongo.Connect(opt)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	var (
		primaryStatus, secondaryStatus error
	)
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		primaryStatus = err
		entry.WarnErr("Primary ping failed", err)
	}
	if err := client.Ping(ctx, readpref.Secondary()); err != nil {
		secondaryStatus = err
		entry.WarnErr("Secondary ping failed", err)
	}

	if primaryStatus != nil && secondaryStatus != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("unable to connect to primary or secondary, primary: %w, secondary: %w", primaryStatus, secondaryStatus)
	}

	return &Connection{
		client:     client,
		replicaSet: replicaSet,
		dbName:     getDbName(opt.GetURI()),
		log:        entry,
	}, nil
}

type Connection struct {
	client     *mongo.Client
	replicaSet bool
	dbName     string
	log        *logger.Log

	metric
}

func (c *Connection) WithDatabase(dbName string) error {
	if c.client != nil {
		c.dbName = dbName
		// reset metric date to force re-init
		c.metric.Lock()
		c.metric.date = ""
		c.metric.Unlock()
		c.init()
		return nil
	}
	return fmt.Errorf("connection is unavailable")
}

func (c *Connection) Close() error {
	return c.client.Disconnect(context.Background())
}

func (c *Connection) Database() *mongo.Database {
	return c.client.Database(c.dbName,
		options.Database().SetReadPreference(readpref.Primary()))
}

// Read tries a secondary first and falls back to the primary.
func (c *Connection) Read(ctx context.Context, readFn func(*mongo.Database) error) error {
	// ReadPrimary and ReadSecondary count their own metrics
	if err := c.ReadSecondary(ctx, readFn); err != nil {
		c.log.DebugErr(func() string {
			return "Secondary node is unavailable, try reading with mode readpref.Primary"
		}, err)
		return c.ReadPrimary(ctx, readFn)
	}
	return nil
}

func (c *Connection) ReadPrimary(ctx context.Context, readFn func(*mongo.Database) error) (err error) {
	defer func(t time.Time) {
		c.incRead(MethodReadPrimary, err)
		c.print(c.log, t, MethodReadPrimary)
	}(time.Now())
	return readFn(c.client.Database(c.dbName,
		options.Database().SetReadPreference(readpref.Primary())))
}

func (c *Connection) ReadSecondary(ctx context.Context, readFn func(*mongo.Database) error) (err error) {
	defer func(t time.Time) {
		c.incRead(MethodReadSecondary, err)
		c.print(c.log, t, MethodReadSecondary)
	}(time.Now())
	if err := c.client.Ping(ctx, readpref.Secondary()); err != nil {
		return err
	}
	return readFn(c.client.Database(c.dbName,
		options.Database().SetReadPreference(readpref.Secondary())))
}

func (c *Connection) Write(ctx context.Context, writeFn func(*mongo.Database) error) (err error) {
	defer func(t time.Time) {
		c.incWrite(MethodWrite, err)
		c.print(c.log, t, MethodWrite)
	}(time.Now())
	return writeFn(c.client.Database(c.dbName))
}
