// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
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
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps bundles the database handles, stores, and background machinery
// built in ConnectDB and threaded through the remaining lifecycle hooks.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Users          *userstore.Store
	Nicknames      *nicknamestore.Store
	Leagues        *leaguestore.Store
	Roles          *rolestore.Store
	Members        *memberstore.Store
	Invites        *invitestore.Store
	JoinRequests   *joinrequeststore.Store
	PublicProfiles *publicprofilestore.Store
	SharedProfiles *sharedprofilestore.Store

	Policy  *leaguepolicy.Policy
	Engine  *sync.Engine
	Watcher *sync.Watcher
	Blobs   blob.Store
}
