// internal/app/bootstrap/connectdb.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"github.com/leaguehub/leaguehub/internal/app/policy/leaguepolicy"
	"github.com/leaguehub/leaguehub/internal/app/store/invites"
	"github.com/leaguehub/leaguehub/internal/app/store/joinrequests"
	"github.com/leaguehub/leaguehub/internal/app/store/leagueroles"
	"github.com/leaguehub/leaguehub/internal/app/store/leagues"
	"github.com/leaguehub/leaguehub/internal/app/store/members"
	"github.com/leaguehub/leaguehub/internal/app/store/nicknames"
	"github.com/leaguehub/leaguehub/internal/app/store/publicprofiles"
	"github.com/leaguehub/leaguehub/internal/app/store/sharedprofiles"
	"github.com/leaguehub/leaguehub/internal/app/store/users"
	"github.com/leaguehub/leaguehub/internal/app/sync"
	"github.com/leaguehub/leaguehub/internal/app/system/blob"
	"github.com/leaguehub/leaguehub/internal/app/system/timeouts"
	"github.com/leaguehub/leaguehub/internal/app/visibility"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection and builds the stores, the
// projection engine, and the blob backend used by the rest of the app.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return DBDeps{}, fmt.Errorf("ping mongodb: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	db := client.Database(appCfg.MongoDatabase)

	blobs, err := blob.New(ctx, blob.Config{
		Backend:      appCfg.StorageType,
		LocalDir:     appCfg.StorageLocalPath,
		LocalBaseURL: appCfg.StorageLocalURL,
		S3Region:     appCfg.StorageS3Region,
		S3Bucket:     appCfg.StorageS3Bucket,
		S3Endpoint:   appCfg.StorageS3Endpoint,
		S3AccessKey:  appCfg.StorageS3AccessKey,
		S3SecretKey:  appCfg.StorageS3SecretKey,
		S3BaseURL:    appCfg.StorageS3BaseURL,
	})
	if err != nil {
		return DBDeps{}, fmt.Errorf("blob storage: %w", err)
	}

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: db,

		Users:          userstore.New(db),
		Nicknames:      nicknamestore.New(db),
		Leagues:        leaguestore.New(db),
		Roles:          rolestore.New(db),
		Members:        memberstore.New(db),
		Invites:        invitestore.New(db),
		JoinRequests:   joinrequeststore.New(db),
		PublicProfiles: publicprofilestore.New(db),
		SharedProfiles: sharedprofilestore.New(db),

		Blobs: blobs,
	}
	deps.Policy = leaguepolicy.New(deps.Roles, deps.Members)
	deps.Engine = sync.NewEngine(visibility.DefaultConfig(), deps.Members, deps.PublicProfiles, deps.SharedProfiles, logger)
	if appCfg.SyncWatcher {
		deps.Watcher = sync.NewWatcher(db, deps.Engine, logger)
	}

	return deps, nil
}
