package main

import (
	"context"
	"fmt"

	"farmledger/ledger"
	"farmledger/models"
	"farmledger/notify"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type App struct {
	cfg      Config
	log      *zap.Logger
	mongo    *mongo.Client // nil with in-memory stores
	verifier *verifier

	crops     *ledger.Crops
	resources *ledger.Resources
	profiles  *ledger.Profiles

	upstream *upstreamClient // nil serves profiles locally
	schemes  *upstreamClient
	sms      notify.Gateway

	cropStore     *ledger.MongoStore[models.CropRecord]
	resourceStore *ledger.MongoStore[models.ResourceRecord]
	profileStore  *ledger.MongoStore[models.UserProfile]
}

// newApp connects to MongoDB and makes sure the indexes exist.
func newApp(ctx context.Context, cfg Config, log *zap.Logger) (*App, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	db := client.Database(cfg.MongoDB)

	app := &App{
		cfg:           cfg,
		log:           log,
		mongo:         client,
		cropStore:     ledger.NewMongoStore[models.CropRecord](db.Collection("crops"), "plantingDate"),
		resourceStore: ledger.NewMongoStore[models.ResourceRecord](db.Collection("resources"), "transactionDate"),
		profileStore:  ledger.NewMongoStore[models.UserProfile](db.Collection("userprofiles"), "createdAt"),
	}
	if err := app.wire(app.cropStore, app.resourceStore, app.profileStore); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	if err := app.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return app, nil
}

// newMemoryApp serves from process memory; nothing survives a restart.
func newMemoryApp(cfg Config, log *zap.Logger) (*App, error) {
	app := &App{cfg: cfg, log: log}
	err := app.wire(
		ledger.NewMemStore[models.CropRecord]("plantingDate"),
		ledger.NewMemStore[models.ResourceRecord]("transactionDate"),
		ledger.NewMemStore[models.UserProfile]("createdAt"),
	)
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (a *App) wire(crops ledger.Store[models.CropRecord], resources ledger.Store[models.ResourceRecord], profiles ledger.Store[models.UserProfile]) error {
	v, err := newVerifier(a.cfg.Identity)
	if err != nil {
		return err
	}
	a.verifier = v
	a.crops = ledger.NewCrops(crops)
	a.resources = ledger.NewResources(resources, a.crops)
	a.profiles = ledger.NewProfiles(profiles)
	a.upstream = newUpstreamClient(a.cfg.UpstreamURL)
	a.schemes = newUpstreamClient(a.cfg.SchemesURL)
	a.sms = newGateway(a.cfg.SMS, a.log)
	return nil
}

func newGateway(cfg SMSConfig, log *zap.Logger) notify.Gateway {
	switch {
	case cfg.DryRun:
		return notify.DryRun{Log: log.Named("sms")}
	case cfg.AccountSID != "" && cfg.AuthToken != "" && cfg.From != "":
		return notify.NewTwilio(notify.TwilioConfig{
			AccountSID: cfg.AccountSID,
			AuthToken:  cfg.AuthToken,
			From:       cfg.From,
			BaseURL:    cfg.BaseURL,
		})
	}
	log.Warn("twilio credentials not configured, SMS features disabled")
	return notify.Disabled{}
}

func (a *App) ensureIndexes(ctx context.Context) error {
	if a.cropStore == nil {
		return nil
	}
	if err := a.cropStore.EnsureIndexes(ctx,
		mongo.IndexModel{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "plantingDate", Value: -1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "status", Value: 1}}},
	); err != nil {
		return fmt.Errorf("crop indexes: %w", err)
	}
	if err := a.resourceStore.EnsureIndexes(ctx,
		mongo.IndexModel{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "transactionDate", Value: -1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "resourceType", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "cropReference", Value: 1}}},
	); err != nil {
		return fmt.Errorf("resource indexes: %w", err)
	}
	// Legacy profiles carry clerkId/userId only, so uniqueness is enforced
	// for documents that have ownerId.
	if err := a.profileStore.EnsureIndexes(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}},
		Options: options.Index().SetUnique(true).
			SetPartialFilterExpression(bson.M{"ownerId": bson.M{"$exists": true}}),
	}); err != nil {
		return fmt.Errorf("profile indexes: %w", err)
	}
	return nil
}

func (a *App) close(ctx context.Context) {
	if a.mongo != nil {
		_ = a.mongo.Disconnect(ctx)
	}
	_ = a.log.Sync()
}
