// internal/app/sync/watcher.go
package sync

import (
	"context"
	stdsync "sync"
	"time"

	"github.com/leaguehub/leaguehub/internal/app/system/timeouts"
	"github.com/leaguehub/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Watcher tails the users collection change stream and runs the engine on
// every profile write, the post-commit equivalent of a store trigger.
// Projections are eventually consistent with the profile; a superseded run
// is harmless because each run fully overwrites its targets.
type Watcher struct {
	users  *mongo.Collection
	engine *Engine
	log    *zap.Logger
	stopCh chan struct{}
	wg     stdsync.WaitGroup
}

func NewWatcher(db *mongo.Database, engine *Engine, logger *zap.Logger) *Watcher {
	return &Watcher{
		users:  db.Collection("users"),
		engine: engine,
		log:    logger,
		stopCh: make(chan struct{}),
	}
}

// Start begins tailing the change stream.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("profile sync watcher started")
}

// Stop signals the watcher to stop and waits for it to finish.
func (w *Watcher) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("profile sync watcher stopped")
}

func (w *Watcher) run() {
	defer w.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-w.stopCh
		cancel()
	}()

	for {
		if err := w.tail(ctx); err != nil && ctx.Err() == nil {
			w.log.Warn("change stream interrupted; retrying", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
	}
}

type changeEvent struct {
	OperationType string `bson:"operationType"`
	DocumentKey   struct {
		ID string `bson:"_id"`
	} `bson:"documentKey"`
	FullDocument *models.User `bson:"fullDocument"`
}

func (w *Watcher) tail(ctx context.Context) error {
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"operationType": bson.M{"$in": []string{"insert", "update", "replace", "delete"}},
		}}},
	}

	stream, err := w.users.Watch(ctx, pipeline, opts)
	if err != nil {
		return err
	}
	defer stream.Close(ctx)

	for stream.Next(ctx) {
		var ev changeEvent
		if err := stream.Decode(&ev); err != nil {
			w.log.Warn("change stream decode failed", zap.Error(err))
			continue
		}
		w.apply(ev)
	}
	return stream.Err()
}

func (w *Watcher) apply(ev changeEvent) {
	uid := ev.DocumentKey.ID
	if uid == "" {
		return
	}

	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.Sync(), w.log, "profile sync fan-out")
	defer cancel()

	after := ev.FullDocument
	if ev.OperationType == "delete" {
		after = nil
	}
	if err := w.engine.Apply(ctx, uid, after); err != nil {
		w.log.Error("profile sync failed", zap.String("uid", uid), zap.Error(err))
	}
}
